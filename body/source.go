// Package body implements the lazy, restartable byte streams that back a
// Request's payload (spec.md §4.1, component "Body Source").
/*
 * Copyright (c) 2026, OGLoad Contributors.
 */
package body

import (
	"io"

	"github.com/ogload/ogload/cmn"
)

// Source produces a fresh, restartable byte stream of a known size. Callers
// that need to retry a request (or recompute a signature over the same
// bytes, per spec.md §4.6) call NewReader again rather than Seek.
type Source interface {
	Size() int64
	NewReader() io.ReadCloser
}

// FromBody constructs the Source matching b.DataType. Callers in the
// EXISTING case must have already resolved the object name into ctx
// (spec.md §3 invariant).
func FromBody(b cmn.Body, ctx cmn.Context) (Source, error) {
	switch b.DataType {
	case cmn.DataNone:
		return NewZeroes(0), nil
	case cmn.DataZeroes:
		return NewZeroes(b.Size), nil
	case cmn.DataRandom:
		return NewRandom(b.Size, b.Seed), nil
	case cmn.DataCustom:
		return NewCustom(b.Content), nil
	case cmn.DataExisting:
		name := ctx.Get(cmn.CtxObjectName)
		if name == "" {
			return nil, cmn.NewError(cmn.ErrClassInternal,
				"EXISTING body requires %s to be resolved in the request context first", cmn.CtxObjectName)
		}
		return NewExisting(name, b.Size), nil
	default:
		return nil, cmn.NewError(cmn.ErrClassConfiguration, "unknown body data type %v", b.DataType)
	}
}
