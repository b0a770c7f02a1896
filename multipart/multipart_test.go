/*
 * Copyright (c) 2026, OGLoad Contributors.
 */
package multipart

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ogload/ogload/cmn"
	"github.com/ogload/ogload/reqgen"
	"github.com/ogload/ogload/supply"
)

func uploadIDQuery() reqgen.QuerySpec {
	return reqgen.QuerySpec{Key: "uploadId", Value: supply.Func[string](func(ctx cmn.Context) string {
		return ctx.Get(cmn.CtxMultipartUploadID)
	})}
}

func partNumberQuery() reqgen.QuerySpec {
	return reqgen.QuerySpec{Key: "partNumber", Value: supply.Func[string](func(ctx cmn.Context) string {
		return ctx.Get(cmn.CtxMultipartPartNumber)
	})}
}

func newTestManager(t *testing.T, target, maxParts int, partSize int64) *Manager {
	t.Helper()
	host := supply.NewConstant[string]("s3.example.com")
	container := supply.NewConstant[string]("bucket")
	object := supply.Func[string](func(ctx cmn.Context) string { return ctx.Get(cmn.CtxObjectName) })

	return &Manager{
		Target:             target,
		MaxConcurrentParts: maxParts,
		PartSize:           partSize,
		Container:          container,
		ObjectSize:         supply.NewConstant[int64](250),
		InitGen: &reqgen.Generator{
			Method: "POST", Host: host, Container: container, Object: object,
			Query: []reqgen.QuerySpec{{Key: "uploads", Bare: true}},
		},
		PartGen: &reqgen.Generator{
			Method: "PUT", Host: host, Container: container, Object: object,
			Query: []reqgen.QuerySpec{partNumberQuery(), uploadIDQuery()},
		},
		CompleteGen: &reqgen.Generator{
			Method: "POST", Host: host, Container: container, Object: object,
			Query: []reqgen.QuerySpec{uploadIDQuery()},
		},
		AbortGen: &reqgen.Generator{
			Method: "DELETE", Host: host, Container: container, Object: object,
			Query: []reqgen.QuerySpec{uploadIDQuery()},
		},
	}
}

func TestGetEmitsInitiateUntilTargetReached(t *testing.T) {
	m := newTestManager(t, 2, 2, 100)
	ctx := context.Background()

	req1, err := m.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if req1.Operation != cmn.OpMultipartInit {
		t.Fatalf("Operation = %q, want %q", req1.Operation, cmn.OpMultipartInit)
	}
	req2, err := m.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if req2.Operation != cmn.OpMultipartInit {
		t.Fatalf("Operation = %q, want %q", req2.Operation, cmn.OpMultipartInit)
	}
	if m.activeSessionCount != 2 {
		t.Fatalf("activeSessionCount = %d, want 2", m.activeSessionCount)
	}
}

func TestFullSessionLifecycle(t *testing.T) {
	m := newTestManager(t, 1, 2, 100) // objectSize=250 -> 3 parts (100,100,50)
	ctx := context.Background()

	initReq, err := m.Get(ctx)
	if err != nil {
		t.Fatalf("Get initiate: %v", err)
	}
	if err := m.OnResponse(initReq, &cmn.Response{StatusCode: 200, Body: []byte("<InitiateMultipartUploadResult><UploadId>u1</UploadId></InitiateMultipartUploadResult>")}); err != nil {
		t.Fatalf("OnResponse initiate: %v", err)
	}

	var partReqs []*cmn.Request
	for i := 0; i < 2; i++ { // maxConcurrentParts=2, should get two PARTs before needing a response
		req, err := m.Get(ctx)
		if err != nil {
			t.Fatalf("Get part %d: %v", i, err)
		}
		if req.Operation != cmn.OpMultipartPart {
			t.Fatalf("part %d Operation = %q", i, req.Operation)
		}
		partReqs = append(partReqs, req)
	}

	for i, req := range partReqs {
		if err := m.OnResponse(req, &cmn.Response{StatusCode: 200, Headers: cmn.Header{"ETag": "etag"}}); err != nil {
			t.Fatalf("OnResponse part %d: %v", i, err)
		}
	}

	// third (final) part.
	req3, err := m.Get(ctx)
	if err != nil {
		t.Fatalf("Get part 3: %v", err)
	}
	if req3.Operation != cmn.OpMultipartPart {
		t.Fatalf("part 3 Operation = %q", req3.Operation)
	}
	if err := m.OnResponse(req3, &cmn.Response{StatusCode: 200, Headers: cmn.Header{"ETag": "etag3"}}); err != nil {
		t.Fatalf("OnResponse part 3: %v", err)
	}

	completeReq, err := m.Get(ctx)
	if err != nil {
		t.Fatalf("Get complete: %v", err)
	}
	if completeReq.Operation != cmn.OpMultipartComp {
		t.Fatalf("Operation = %q, want %q", completeReq.Operation, cmn.OpMultipartComp)
	}
	if !strings.Contains(string(completeReq.Body.Content), "<CompleteMultipartUpload>") {
		t.Fatalf("COMPLETE body = %s", completeReq.Body.Content)
	}
	if strings.Count(string(completeReq.Body.Content), "<Part>") != 3 {
		t.Fatalf("COMPLETE body should contain 3 <Part> elements: %s", completeReq.Body.Content)
	}

	if err := m.OnResponse(completeReq, &cmn.Response{StatusCode: 200}); err != nil {
		t.Fatalf("OnResponse complete: %v", err)
	}
	if m.activeSessionCount != 0 {
		t.Fatalf("activeSessionCount = %d, want 0", m.activeSessionCount)
	}

	// the slot freed up — Get should now emit a fresh INITIATE.
	again, err := m.Get(ctx)
	if err != nil {
		t.Fatalf("Get after complete: %v", err)
	}
	if again.Operation != cmn.OpMultipartInit {
		t.Fatalf("Operation = %q, want %q", again.Operation, cmn.OpMultipartInit)
	}
}

func TestInitiateNon200DecrementsActiveCount(t *testing.T) {
	m := newTestManager(t, 1, 1, 100)
	ctx := context.Background()
	req, err := m.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if err := m.OnResponse(req, &cmn.Response{StatusCode: 500}); err != nil {
		t.Fatalf("OnResponse: %v", err)
	}
	if m.activeSessionCount != 0 {
		t.Fatalf("activeSessionCount = %d, want 0", m.activeSessionCount)
	}
}

func TestGetBlocksUntilContextCancelled(t *testing.T) {
	m := newTestManager(t, 0, 1, 100) // target 0: never emits INITIATE, nothing actionable
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := m.Get(ctx)
	if err != context.DeadlineExceeded {
		t.Fatalf("err = %v, want DeadlineExceeded", err)
	}
}
