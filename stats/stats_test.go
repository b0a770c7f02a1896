/*
 * Copyright (c) 2026, OGLoad Contributors.
 */
package stats

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ogload/ogload/cmn"
)

func TestStatusCodeListenerTracksCountsByCodeAndClass(t *testing.T) {
	l := NewStatusCodeListener()
	req := &cmn.Request{Operation: cmn.OpWrite}
	_ = l.OnResponse(req, &cmn.Response{StatusCode: 200})
	_ = l.OnResponse(req, &cmn.Response{StatusCode: 200})
	_ = l.OnResponse(req, &cmn.Response{StatusCode: 503})
	_ = l.OnResponse(req, nil)

	if l.Count(200) != 2 {
		t.Fatalf("Count(200) = %d, want 2", l.Count(200))
	}
	if l.ClassCount("2xx") != 2 {
		t.Fatalf("ClassCount(2xx) = %d, want 2", l.ClassCount("2xx"))
	}
	if l.ClassCount("5xx") != 1 {
		t.Fatalf("ClassCount(5xx) = %d, want 1", l.ClassCount("5xx"))
	}
	if l.Aborts() != 1 {
		t.Fatalf("Aborts() = %d, want 1", l.Aborts())
	}
	if l.Total() != 4 {
		t.Fatalf("Total() = %d, want 4", l.Total())
	}
}

func TestStatisticsListenerRecordsCounterAndLatency(t *testing.T) {
	reg := prometheus.NewRegistry()
	l := NewStatisticsListener(reg)
	req := &cmn.Request{Operation: cmn.OpRead, MessageTime: 1}
	if err := l.OnResponse(req, &cmn.Response{StatusCode: 200}); err != nil {
		t.Fatalf("OnResponse: %v", err)
	}
	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(metrics) == 0 {
		t.Fatalf("expected registered metrics")
	}
}
