// Package driver implements the Load Test Driver (spec.md §4.7): it pulls
// one request at a time from a composite supplier, hands it to a client for
// concurrent execution, publishes the resulting (request, response) pair on
// the event bus, and stops when any registered condition fires.
/*
 * Copyright (c) 2026, OGLoad Contributors.
 */
package driver

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang/glog"
	"github.com/google/uuid"

	"github.com/ogload/ogload/bus"
	"github.com/ogload/ogload/cmn"
	"github.com/ogload/ogload/stats"
)

// Client executes a single Request and returns its Response. Implementations
// must respect ctx cancellation so immediate shutdown can cut in-flight
// work (spec.md §5: "immediate shutdown cancels them and closes sockets").
type Client interface {
	Execute(ctx context.Context, req *cmn.Request) (*cmn.Response, error)
}

// RequestSupplier produces the next request to dispatch, or an error.
// ctx cancellation must make Get return promptly (spec.md §5: "stopping
// sets a flag that... makes suppliers return a terminal value").
type RequestSupplier interface {
	Get(ctx context.Context) (*cmn.Request, error)
}

// Driver owns the runtime described in spec.md §4.7 and §5.
type Driver struct {
	Supplier  RequestSupplier
	Client    Client
	Scheduler Scheduler
	Bus       *bus.Bus
	Codes     *stats.StatusCodeListener

	StoppingConditions []StoppingCondition

	// RunID identifies this run in logs and the final summary. Generated
	// lazily by Run if left zero, so callers that don't care never touch
	// the google/uuid dependency directly.
	RunID uuid.UUID
}

// state is the mutable runtime the rest of Driver's methods close over,
// kept separate from the (user-supplied, read-only after construction)
// configuration fields above.
type state struct {
	totalOps  int64
	startedAt time.Time
	stopping  int32
}

// Run dispatches requests until a StoppingCondition fires or ctx is
// cancelled, then waits for in-flight requests to finish (graceful
// shutdown). Cancelling ctx itself is the immediate-shutdown path: it both
// stops admission and propagates into any in-flight Client.Execute call.
func (d *Driver) Run(ctx context.Context) error {
	if d.RunID == uuid.Nil {
		d.RunID = uuid.New()
	}
	st := &state{startedAt: time.Now()}
	var wg sync.WaitGroup
	var publishErr atomic.Value // stores error

	glog.Infof("driver: run %s starting", d.RunID)
	for {
		if d.shouldStop(st) {
			break
		}
		if atomic.LoadInt32(&st.stopping) != 0 {
			break
		}
		release, err := d.Scheduler.Admit(ctx)
		if err != nil {
			break // ctx cancelled: immediate shutdown
		}

		req, err := d.Supplier.Get(ctx)
		if err != nil {
			release()
			if ctx.Err() != nil {
				break
			}
			glog.Warningf("driver: supplier error, skipping: %v", err)
			continue
		}

		atomic.AddInt64(&st.totalOps, 1)
		wg.Add(1)
		go func(req *cmn.Request) {
			defer wg.Done()
			defer release()
			resp, execErr := d.Client.Execute(ctx, req)
			if execErr != nil {
				glog.Warningf("driver: request %s failed: %v", req.Operation, execErr)
				resp = nil
			}
			if d.Codes != nil {
				_ = d.Codes.OnResponse(req, resp)
			}
			if d.Bus != nil {
				if err := d.Bus.Publish(req, resp); err != nil {
					publishErr.Store(err)
					atomic.StoreInt32(&st.stopping, 1)
				}
			}
		}(req)
	}

	wg.Wait()
	if err, ok := publishErr.Load().(error); ok && err != nil {
		glog.Errorf("driver: run %s aborted: %v", d.RunID, err)
		return cmn.WrapError(cmn.ErrClassInternal, err, "driver: aborted by subscriber")
	}
	glog.Infof("driver: run %s finished, %d operations", d.RunID, atomic.LoadInt64(&st.totalOps))
	return ctx.Err()
}

func (d *Driver) shouldStop(st *state) bool {
	elapsed := time.Since(st.startedAt)
	totalOps := atomic.LoadInt64(&st.totalOps)
	for _, cond := range d.StoppingConditions {
		if cond(elapsed, totalOps, d.Codes) {
			return true
		}
	}
	return false
}
