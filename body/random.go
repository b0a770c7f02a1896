/*
 * Copyright (c) 2026, OGLoad Contributors.
 */
package body

import (
	"io"
	"math/rand"
)

// Random streams size pseudo-random bytes derived from seed. Two readers
// built from the same Random produce byte-identical streams, which the v4
// chunked-signing path and retry logic both depend on (spec.md §4.6, §5).
type Random struct {
	size int64
	seed int64
}

func NewRandom(size, seed int64) *Random { return &Random{size: size, seed: seed} }

func (r *Random) Size() int64 { return r.size }

func (r *Random) NewReader() io.ReadCloser {
	return io.NopCloser(io.LimitReader(&randReader{rnd: rand.New(rand.NewSource(r.seed))}, r.size))
}

type randReader struct{ rnd *rand.Rand }

func (r *randReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r.rnd.Intn(256))
	}
	return len(p), nil
}
