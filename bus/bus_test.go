/*
 * Copyright (c) 2026, OGLoad Contributors.
 */
package bus

import (
	"testing"

	"github.com/ogload/ogload/cmn"
)

func TestPublishDeliversToSubscribersInOrder(t *testing.T) {
	b := New()
	var order []int
	b.Subscribe(SubscriberFunc(func(*cmn.Request, *cmn.Response) error { order = append(order, 1); return nil }))
	b.Subscribe(SubscriberFunc(func(*cmn.Request, *cmn.Response) error { order = append(order, 2); return nil }))

	if err := b.Publish(&cmn.Request{}, &cmn.Response{}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("order = %v, want [1 2]", order)
	}
}

func TestPublishStopsAtFirstError(t *testing.T) {
	b := New()
	called := false
	b.Subscribe(SubscriberFunc(func(*cmn.Request, *cmn.Response) error { return cmn.NewError(cmn.ErrClassInternal, "boom") }))
	b.Subscribe(SubscriberFunc(func(*cmn.Request, *cmn.Response) error { called = true; return nil }))

	if err := b.Publish(&cmn.Request{}, &cmn.Response{}); err == nil {
		t.Fatalf("expected error")
	}
	if called {
		t.Fatalf("second subscriber should not have been called")
	}
}
