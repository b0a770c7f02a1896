/*
 * Copyright (c) 2026, OGLoad Contributors.
 */
package driver

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ogload/ogload/bus"
	"github.com/ogload/ogload/cmn"
	"github.com/ogload/ogload/stats"
)

type countingSupplier struct{ n int64 }

func (s *countingSupplier) Get(context.Context) (*cmn.Request, error) {
	atomic.AddInt64(&s.n, 1)
	return &cmn.Request{Operation: cmn.OpRead}, nil
}

type fixedClient struct{ status int }

func (c *fixedClient) Execute(context.Context, *cmn.Request) (*cmn.Response, error) {
	return &cmn.Response{StatusCode: c.status}, nil
}

func TestRunStopsAtMaxTotalOps(t *testing.T) {
	d := &Driver{
		Supplier:           &countingSupplier{},
		Client:             &fixedClient{status: 200},
		Scheduler:          NewSemaphoreScheduler(4),
		Codes:              stats.NewStatusCodeListener(),
		StoppingConditions: []StoppingCondition{MaxTotalOps(50)},
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := d.Run(ctx); err != nil && err != context.DeadlineExceeded {
		t.Fatalf("Run: %v", err)
	}
	if got := d.Codes.Total(); got < 50 {
		t.Fatalf("observed %d responses, want at least 50", got)
	}
}

func TestRunAbortsOnSubscriberError(t *testing.T) {
	b := bus.New()
	b.Subscribe(bus.SubscriberFunc(func(*cmn.Request, *cmn.Response) error {
		return cmn.NewError(cmn.ErrClassInternal, "subscriber boom")
	}))
	d := &Driver{
		Supplier:  &countingSupplier{},
		Client:    &fixedClient{status: 200},
		Scheduler: NewSemaphoreScheduler(1),
		Bus:       b,
		Codes:     stats.NewStatusCodeListener(),
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := d.Run(ctx)
	if err == nil {
		t.Fatalf("expected an error from the aborting subscriber")
	}
	if cmn.ClassOf(err) != cmn.ErrClassInternal {
		t.Fatalf("ClassOf(err) = %v, want ErrClassInternal", cmn.ClassOf(err))
	}
}

func TestRunHonorsContextCancellation(t *testing.T) {
	d := &Driver{
		Supplier:  &countingSupplier{},
		Client:    &fixedClient{status: 200},
		Scheduler: NewSemaphoreScheduler(4),
		Codes:     stats.NewStatusCodeListener(),
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("Run() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after ctx cancellation")
	}
}
