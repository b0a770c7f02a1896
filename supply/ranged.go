/*
 * Copyright (c) 2026, OGLoad Contributors.
 */
package supply

import (
	"math/rand"
	"sync/atomic"

	"github.com/ogload/ogload/cmn"
)

type RangeMode int

const (
	RangeModeCycle RangeMode = iota
	RangeModeRandom
)

// Ranged produces integers in [Min, Max] (inclusive), either by cycling
// through them in order or by sampling uniformly at random.
type Ranged struct {
	min, max int64
	mode     RangeMode
	next     int64
}

func NewRanged(min, max int64, mode RangeMode) (*Ranged, error) {
	if min > max {
		return nil, cmn.NewError(cmn.ErrClassConfiguration, "ranged supplier: min %d > max %d", min, max)
	}
	return &Ranged{min: min, max: max, mode: mode}, nil
}

func (r *Ranged) Get(cmn.Context) int64 {
	if r.min == r.max {
		return r.min
	}
	span := r.max - r.min + 1
	if r.mode == RangeModeRandom {
		return r.min + rand.Int63n(span)
	}
	i := atomic.AddInt64(&r.next, 1) - 1
	return r.min + i%span
}
