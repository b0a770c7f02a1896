/*
 * Copyright (c) 2026, OGLoad Contributors.
 */
package supply

import "github.com/ogload/ogload/cmn"

// Constant always returns the same configured value.
type Constant[T any] struct{ Value T }

func NewConstant[T any](v T) *Constant[T] { return &Constant[T]{Value: v} }

func (c *Constant[T]) Get(cmn.Context) T { return c.Value }
