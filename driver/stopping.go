/*
 * Copyright (c) 2026, OGLoad Contributors.
 */
package driver

import (
	"time"

	"github.com/ogload/ogload/stats"
)

// StoppingCondition reports whether the driver should stop, given the
// elapsed runtime, total operations dispatched, and the accumulated
// status-code counts (spec.md §4.7: "elapsed runtime, total operations,
// total aborts, or per-status-code counts").
type StoppingCondition func(elapsed time.Duration, totalOps int64, codes *stats.StatusCodeListener) bool

func MaxElapsed(d time.Duration) StoppingCondition {
	return func(elapsed time.Duration, _ int64, _ *stats.StatusCodeListener) bool { return elapsed >= d }
}

func MaxTotalOps(n int64) StoppingCondition {
	return func(_ time.Duration, totalOps int64, _ *stats.StatusCodeListener) bool { return totalOps >= n }
}

func MaxAborts(n int64) StoppingCondition {
	return func(_ time.Duration, _ int64, codes *stats.StatusCodeListener) bool {
		return codes != nil && codes.Aborts() >= n
	}
}

func MaxStatusClassCount(class string, n int64) StoppingCondition {
	return func(_ time.Duration, _ int64, codes *stats.StatusCodeListener) bool {
		return codes != nil && codes.ClassCount(class) >= n
	}
}

func MaxStatusCodeCount(code int, n int64) StoppingCondition {
	return func(_ time.Duration, _ int64, codes *stats.StatusCodeListener) bool {
		return codes != nil && codes.Count(code) >= n
	}
}
