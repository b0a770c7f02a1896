/*
 * Copyright (c) 2026, OGLoad Contributors.
 */
package supply

import (
	"sync/atomic"

	"github.com/ogload/ogload/cmn"
)

// Cycle rotates deterministically through Values, wrapping around. A Cycle
// with a single value behaves like Constant but is kept distinct so the
// supplier's intent stays explicit in configuration.
type Cycle[T any] struct {
	values []T
	next   uint64
}

func NewCycle[T any](values []T) *Cycle[T] {
	return &Cycle[T]{values: values}
}

func (c *Cycle[T]) Get(cmn.Context) T {
	i := atomic.AddUint64(&c.next, 1) - 1
	return c.values[i%uint64(len(c.values))]
}
