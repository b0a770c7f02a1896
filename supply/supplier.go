// Package supply implements the small generator building blocks Suppliers
// are composed from (spec.md §4.2): constant, cycle, ranged integer, and
// weighted-random choice. They are a sealed set of concrete variants rather
// than closures carrying mutable state, per the REDESIGN FLAG in spec.md §9
// ("Closure-heavy field suppliers").
/*
 * Copyright (c) 2026, OGLoad Contributors.
 */
package supply

import "github.com/ogload/ogload/cmn"

// Supplier produces a value of type T on each call to Get. Implementations
// may read (never write) the per-request context to make a decision, e.g. a
// container-name supplier that keys off a previously resolved object name.
type Supplier[T any] interface {
	Get(ctx cmn.Context) T
}

// Func adapts a plain function into a Supplier, for the rare case (tests,
// glue code) where a sealed variant would be overkill. Production field
// suppliers should prefer Constant/Cycle/Ranged/WeightedRandom.
type Func[T any] func(ctx cmn.Context) T

func (f Func[T]) Get(ctx cmn.Context) T { return f(ctx) }
