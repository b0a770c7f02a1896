/*
 * Copyright (c) 2026, OGLoad Contributors.
 */
package driver

import (
	"context"
	"math"
	"math/rand"
	"time"

	"golang.org/x/sync/semaphore"
)

// Scheduler implements the Load Test Driver's admission control (spec.md
// §4.7: "a fixed concurrency cap (semaphore) or an inter-arrival
// distribution"). Admit blocks until the driver may dispatch the next
// request and returns a release func the caller runs once that request's
// response has been observed.
type Scheduler interface {
	Admit(ctx context.Context) (release func(), err error)
}

// SemaphoreScheduler bounds the number of requests in flight at once.
type SemaphoreScheduler struct {
	sem *semaphore.Weighted
}

func NewSemaphoreScheduler(concurrency int64) *SemaphoreScheduler {
	return &SemaphoreScheduler{sem: semaphore.NewWeighted(concurrency)}
}

func (s *SemaphoreScheduler) Admit(ctx context.Context) (func(), error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return func() { s.sem.Release(1) }, nil
}

// Distribution is the inter-arrival distribution an IntervalScheduler draws
// its wait time from (spec.md §4.7).
type Distribution int

const (
	DistConstant Distribution = iota
	DistUniform
	DistPoisson
)

// IntervalScheduler paces request dispatch by waiting a distribution-drawn
// duration before admitting each one, independent of how many are already
// in flight.
type IntervalScheduler struct {
	Dist   Distribution
	Mean   time.Duration
	Spread time.Duration // DistUniform only: +/- around Mean
}

func (s *IntervalScheduler) next() time.Duration {
	switch s.Dist {
	case DistUniform:
		low := s.Mean - s.Spread
		if low < 0 {
			low = 0
		}
		high := s.Mean + s.Spread
		if high <= low {
			return low
		}
		return low + time.Duration(rand.Int63n(int64(high-low)))
	case DistPoisson:
		if s.Mean <= 0 {
			return 0
		}
		lambda := 1.0 / float64(s.Mean)
		return time.Duration(-math.Log(1-rand.Float64()) / lambda)
	default:
		return s.Mean
	}
}

func (s *IntervalScheduler) Admit(ctx context.Context) (func(), error) {
	select {
	case <-time.After(s.next()):
		return func() {}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
