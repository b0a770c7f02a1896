// Package bus implements the in-process, typed event dispatcher connecting
// the Load Test Driver to the Object Manager, Multipart Supplier, and the
// statistics listeners (spec.md §4.8). This replaces a global event bus
// with global subscriber registration (the REDESIGN FLAG in spec.md §9):
// Bus is an explicit, driver-owned value, and subscribers attach to it at
// wiring time rather than through package-level state.
/*
 * Copyright (c) 2026, OGLoad Contributors.
 */
package bus

import (
	"sync"

	"github.com/ogload/ogload/cmn"
)

// Subscriber receives every published request/response pair, in the order
// Publish was called (spec.md §5: "the event bus delivers events to each
// subscriber in publication order"). A returned error aborts the test
// (spec.md §4.8: "An exception in any subscriber aborts the test with a
// diagnostic").
type Subscriber interface {
	OnResponse(req *cmn.Request, resp *cmn.Response) error
}

// SubscriberFunc adapts a plain function to Subscriber.
type SubscriberFunc func(req *cmn.Request, resp *cmn.Response) error

func (f SubscriberFunc) OnResponse(req *cmn.Request, resp *cmn.Response) error { return f(req, resp) }

// Bus is a synchronous, ordered dispatcher: Publish blocks its caller until
// every subscriber has processed the event, and publications are
// serialized against each other so subscribers never see two events
// interleaved.
type Bus struct {
	mu          sync.Mutex
	subscribers []Subscriber
}

func New() *Bus { return &Bus{} }

// Subscribe registers s to receive future publications. Not safe to call
// concurrently with Publish; subscribers are meant to be wired up once,
// before the driver starts.
func (b *Bus) Subscribe(s Subscriber) {
	b.subscribers = append(b.subscribers, s)
}

// Publish delivers (req, resp) to every subscriber in registration order,
// stopping at the first error.
func (b *Bus) Publish(req *cmn.Request, resp *cmn.Response) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.subscribers {
		if err := s.OnResponse(req, resp); err != nil {
			return cmn.WrapError(cmn.ErrClassInternal, err, "bus: subscriber rejected event for operation %q", req.Operation)
		}
	}
	return nil
}
