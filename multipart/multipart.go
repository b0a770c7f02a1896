// Package multipart implements the Multipart Supplier (spec.md §4.4): the
// session state machine that keeps up to N multipart uploads in flight,
// each with up to K part requests outstanding, emitting one request per
// call to Get and advancing sessions from response events delivered by the
// Event Bus (spec.md §4.8).
/*
 * Copyright (c) 2026, OGLoad Contributors.
 */
package multipart

import (
	"context"
	"math/rand"
	"strconv"
	"sync"

	"github.com/ogload/ogload/cmn"
	"github.com/ogload/ogload/reqgen"
	"github.com/ogload/ogload/supply"
)

type pendingInit struct {
	container, object  string
	objectSize         int64
	partSize           int64
	maxConcurrentParts int
}

// Manager owns the session-manager lock described in spec.md §4.4 and §5:
// "the selector serializes through a single lock; part execution is
// parallel." Waiters for an actionable session block on notifyCh rather
// than a thread interrupt, per the REDESIGN FLAG replacing interrupt-driven
// cancellation with context.Context.
type Manager struct {
	Target             int
	MaxConcurrentParts int
	PartSize           int64

	Container  supply.Supplier[string]
	ObjectName supply.Supplier[string] // nil: a generated request id is used
	ObjectSize supply.Supplier[int64]

	InitGen     *reqgen.Generator
	PartGen     *reqgen.Generator
	CompleteGen *reqgen.Generator
	AbortGen    *reqgen.Generator

	mu                 sync.Mutex
	notifyCh           chan struct{}
	activeSessionCount int
	pending            map[string]pendingInit // keyed by the INITIATE request's request id
	sessions           map[string]*session     // keyed by uploadId
	actionable         map[string]*session
}

func (m *Manager) init() {
	if m.notifyCh == nil {
		m.notifyCh = make(chan struct{})
		m.pending = make(map[string]pendingInit)
		m.sessions = make(map[string]*session)
		m.actionable = make(map[string]*session)
	}
}

func (m *Manager) broadcastLocked() {
	close(m.notifyCh)
	m.notifyCh = make(chan struct{})
}

// Get produces the next multipart-flow request, blocking only when the
// session cap is reached and no session is actionable (spec.md §4.4).
// ctx cancellation unblocks a waiting Get and returns ctx.Err().
func (m *Manager) Get(ctx context.Context) (*cmn.Request, error) {
	m.mu.Lock()
	m.init()
	for {
		if m.activeSessionCount < m.Target {
			req, err := m.emitInitiate()
			m.mu.Unlock()
			return req, err
		}

		for len(m.actionable) > 0 {
			key := m.pickActionableLocked()
			s := m.actionable[key]
			switch s.next() {
			case actionPart:
				req, err := m.emitPart(s)
				m.mu.Unlock()
				return req, err
			case actionComplete:
				req, err := m.emitComplete(s)
				delete(m.actionable, key)
				m.mu.Unlock()
				return req, err
			default: // internal pending / done / error: not actionable right now
				delete(m.actionable, key)
			}
		}

		ch := m.notifyCh
		m.mu.Unlock()
		select {
		case <-ch:
			m.mu.Lock()
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (m *Manager) pickActionableLocked() string {
	i, n := rand.Intn(len(m.actionable)), 0
	for k := range m.actionable {
		if n == i {
			return k
		}
		n++
	}
	panic("unreachable: actionable map non-empty")
}

func (m *Manager) emitInitiate() (*cmn.Request, error) {
	container := ""
	if m.Container != nil {
		container = m.Container.Get(cmn.Context{})
	}
	object := ""
	if m.ObjectName != nil {
		object = m.ObjectName.Get(cmn.Context{})
	} else {
		object = cmn.GenRequestID()
	}
	objectSize := int64(0)
	if m.ObjectSize != nil {
		objectSize = m.ObjectSize.Get(cmn.Context{})
	}

	req, err := m.InitGen.GetWith(
		func(ctx *cmn.Context) { ctx.Set(cmn.CtxMultipartContainer, container) },
		func(ctx *cmn.Context) { ctx.Set(cmn.CtxObjectName, object) },
		func(ctx *cmn.Context) { ctx.Set(cmn.CtxObjectSize, strconv.FormatInt(objectSize, 10)) },
		func(ctx *cmn.Context) { ctx.Set(cmn.CtxMultipartRequest, "initiate") },
	)
	if err != nil {
		return nil, err
	}

	m.activeSessionCount++
	m.pending[req.Context.Get(cmn.CtxRequestID)] = pendingInit{
		container: container, object: object, objectSize: objectSize,
		partSize: m.PartSize, maxConcurrentParts: m.MaxConcurrentParts,
	}
	req.Operation = cmn.OpMultipartInit
	return req, nil
}

func (m *Manager) emitPart(s *session) (*cmn.Request, error) {
	partNumber := s.takePart()
	size := s.partSizeFor(partNumber)
	req, err := m.PartGen.GetWith(
		func(ctx *cmn.Context) { ctx.Set(cmn.CtxMultipartContainer, s.container) },
		func(ctx *cmn.Context) { ctx.Set(cmn.CtxObjectName, s.object) },
		func(ctx *cmn.Context) { ctx.Set(cmn.CtxMultipartUploadID, s.uploadID) },
		func(ctx *cmn.Context) { ctx.Set(cmn.CtxMultipartPartNumber, strconv.Itoa(partNumber)) },
		func(ctx *cmn.Context) { ctx.Set(cmn.CtxMultipartPartSize, strconv.FormatInt(size, 10)) },
	)
	if err != nil {
		return nil, err
	}
	req.Operation = cmn.OpMultipartPart
	return req, nil
}

func (m *Manager) emitComplete(s *session) (*cmn.Request, error) {
	body, err := renderCompleteBody(s.sortedParts())
	if err != nil {
		return nil, cmn.WrapError(cmn.ErrClassInternal, err, "multipart: render COMPLETE body for upload %s", s.uploadID)
	}
	req, err := m.CompleteGen.GetWith(
		func(ctx *cmn.Context) { ctx.Set(cmn.CtxMultipartContainer, s.container) },
		func(ctx *cmn.Context) { ctx.Set(cmn.CtxObjectName, s.object) },
		func(ctx *cmn.Context) { ctx.Set(cmn.CtxMultipartUploadID, s.uploadID) },
	)
	if err != nil {
		return nil, err
	}
	req.Body = cmn.Body{DataType: cmn.DataCustom, Size: int64(len(body)), Content: body}
	req.Operation = cmn.OpMultipartComp
	s.markCompletePending()
	return req, nil
}

// Abort emits a (reachable but inert) ABORT request for uploadID. Spec.md
// §4.4 leaves ABORT a placeholder — "mark aborted" is the only response
// handling defined — so this CORE never calls Abort itself; it exists for a
// driver or test to exercise the DELETE ?uploadId=U endpoint on demand
// (resolved Open Question, see DESIGN.md).
func (m *Manager) Abort(uploadID string) (*cmn.Request, error) {
	m.mu.Lock()
	s, ok := m.sessions[uploadID]
	m.mu.Unlock()
	if !ok {
		return nil, cmn.NewError(cmn.ErrClassInternal, "multipart: abort unknown upload %q", uploadID)
	}
	req, err := m.AbortGen.GetWith(
		func(ctx *cmn.Context) { ctx.Set(cmn.CtxMultipartContainer, s.container) },
		func(ctx *cmn.Context) { ctx.Set(cmn.CtxObjectName, s.object) },
		func(ctx *cmn.Context) { ctx.Set(cmn.CtxMultipartUploadID, uploadID) },
	)
	if err != nil {
		return nil, err
	}
	req.Operation = cmn.OpMultipartAbort
	return req, nil
}

// OnResponse advances the session state machine from a completed request's
// response (spec.md §4.4, "Response handling (subscribed to bus)").
func (m *Manager) OnResponse(req *cmn.Request, resp *cmn.Response) error {
	m.mu.Lock()
	defer func() {
		m.broadcastLocked()
		m.mu.Unlock()
	}()

	switch req.Operation {
	case cmn.OpMultipartInit:
		reqID := req.Context.Get(cmn.CtxRequestID)
		pend, ok := m.pending[reqID]
		delete(m.pending, reqID)
		if !ok {
			return cmn.NewError(cmn.ErrClassInternal, "multipart: INITIATE response for unknown request %q", reqID)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			m.activeSessionCount--
			return nil
		}
		uploadID, ok := parseUploadID(resp.Body)
		if !ok {
			m.activeSessionCount--
			return cmn.NewError(cmn.ErrClassProtocol, "multipart: INITIATE response missing UploadId")
		}
		s := newSession(uploadID, pend.container, pend.object, pend.objectSize, pend.partSize, pend.maxConcurrentParts)
		m.sessions[uploadID] = s
		m.actionable[uploadID] = s

	case cmn.OpMultipartPart:
		uploadID := req.Context.Get(cmn.CtxMultipartUploadID)
		s, ok := m.sessions[uploadID]
		if !ok {
			return nil // session already completed/aborted; stale response
		}
		partNumber, _ := strconv.Atoi(req.Context.Get(cmn.CtxMultipartPartNumber))
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			etag, _ := resp.Headers.Get("ETag")
			s.completePart(partNumber, etag)
		} else {
			s.mu.Lock()
			s.inProgressParts--
			if s.inProgressParts < 0 {
				s.inProgressParts = 0
			}
			s.nextPartNumber = partNumber // retry this part number
			s.mu.Unlock()
		}
		m.actionable[uploadID] = s

	case cmn.OpMultipartComp:
		uploadID := req.Context.Get(cmn.CtxMultipartUploadID)
		delete(m.sessions, uploadID)
		delete(m.actionable, uploadID)
		m.activeSessionCount--

	case cmn.OpMultipartAbort:
		uploadID := req.Context.Get(cmn.CtxMultipartUploadID)
		if s, ok := m.sessions[uploadID]; ok {
			s.markAborted()
		}
	}
	return nil
}
