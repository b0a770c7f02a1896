/*
 * Copyright (c) 2026, OGLoad Contributors.
 */
package body

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

// RateLimited wraps r so that reads block on a token-bucket limiter
// (spec.md §5: "the rate-limited body stream blocks the writing worker
// until enough permits accrue"). bytesPerSec <= 0 disables limiting.
func RateLimited(ctx context.Context, r io.Reader, bytesPerSec int) io.Reader {
	if bytesPerSec <= 0 {
		return r
	}
	// Burst equal to one second's worth keeps small reads from stalling on
	// every call while still bounding sustained throughput.
	lim := rate.NewLimiter(rate.Limit(bytesPerSec), bytesPerSec)
	return &limitedReader{ctx: ctx, r: r, lim: lim}
}

type limitedReader struct {
	ctx context.Context
	r   io.Reader
	lim *rate.Limiter
}

func (l *limitedReader) Read(p []byte) (int, error) {
	// Cap each chunk so WaitN never demands a burst larger than configured.
	if max := l.lim.Burst(); len(p) > max {
		p = p[:max]
	}
	n, err := l.r.Read(p)
	if n > 0 {
		if werr := l.lim.WaitN(l.ctx, n); werr != nil {
			return n, werr
		}
	}
	return n, err
}
