/*
 * Copyright (c) 2026, OGLoad Contributors.
 */
package supply

import (
	"math/rand"

	"github.com/ogload/ogload/cmn"
)

// Choice pairs a value with its (unnormalized) weight.
type Choice[T any] struct {
	Value  T
	Weight float64
}

// WeightedRandom selects among Choices by cumulative distribution
// (spec.md §4.2). The empirical frequency over many draws must track the
// declared weights within 1% (spec.md §8).
type WeightedRandom[T any] struct {
	values []T
	cum    []float64 // cumulative weight, same length as values
	total  float64
}

func NewWeightedRandom[T any](choices []Choice[T]) (*WeightedRandom[T], error) {
	if len(choices) == 0 {
		return nil, cmn.NewError(cmn.ErrClassConfiguration, "weighted random supplier: no choices configured")
	}
	w := &WeightedRandom[T]{
		values: make([]T, len(choices)),
		cum:    make([]float64, len(choices)),
	}
	var running float64
	for i, c := range choices {
		if c.Weight < 0 {
			return nil, cmn.NewError(cmn.ErrClassConfiguration, "weighted random supplier: negative weight %v for choice %d", c.Weight, i)
		}
		running += c.Weight
		w.values[i] = c.Value
		w.cum[i] = running
	}
	if running <= 0 {
		return nil, cmn.NewError(cmn.ErrClassConfiguration, "weighted random supplier: weights must sum to > 0, got %v", running)
	}
	w.total = running
	return w, nil
}

func (w *WeightedRandom[T]) Get(cmn.Context) T {
	target := rand.Float64() * w.total
	// Linear scan: the mix sizes this drives (a handful of operation kinds,
	// or field-level variants) never justify a binary search.
	for i, c := range w.cum {
		if target < c {
			return w.values[i]
		}
	}
	return w.values[len(w.values)-1]
}
