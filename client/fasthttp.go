// Package client provides the one concrete, swappable implementation of
// driver.Client this repository ships (spec.md §1, "the raw HTTP transport
// ... the core consumes it through a narrow client interface"). Connection
// pooling, chunked encoding and timeouts are entirely fasthttp's concern;
// this package only translates cmn.Request/cmn.Response across the seam.
/*
 * Copyright (c) 2026, OGLoad Contributors.
 */
package client

import (
	"context"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/ogload/ogload/body"
	"github.com/ogload/ogload/cmn"
)

// FastHTTPClient executes requests with a pooled fasthttp.Client. The zero
// value is not usable; construct with New.
type FastHTTPClient struct {
	fc *fasthttp.Client

	// Timeout bounds a single Execute call, independent of ctx, mirroring
	// fasthttp's own DoTimeout idiom. Zero disables the fasthttp-side
	// timeout and leaves cancellation entirely to ctx.
	Timeout time.Duration
}

// New returns a FastHTTPClient with sane pooling defaults for sustained
// concurrent load generation.
func New(maxConnsPerHost int) *FastHTTPClient {
	if maxConnsPerHost <= 0 {
		maxConnsPerHost = fasthttp.DefaultMaxConnsPerHost
	}
	return &FastHTTPClient{
		fc: &fasthttp.Client{
			MaxConnsPerHost:     maxConnsPerHost,
			MaxIdleConnDuration: 90 * time.Second,
			ReadTimeout:         30 * time.Second,
			WriteTimeout:        30 * time.Second,
		},
	}
}

// Execute implements driver.Client. It respects ctx cancellation for the
// immediate-shutdown path (spec.md §5: "immediate shutdown cancels them and
// closes sockets") by racing the fasthttp call against ctx.Done in a
// goroutine, since fasthttp.Client has no native context support.
func (c *FastHTTPClient) Execute(ctx context.Context, req *cmn.Request) (*cmn.Response, error) {
	freq := fasthttp.AcquireRequest()
	fresp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(freq)
	defer fasthttp.ReleaseResponse(fresp)

	freq.SetRequestURI(req.URI())
	freq.Header.SetMethod(req.Method)
	for k, v := range req.Headers {
		freq.Header.Set(k, v)
	}

	if req.Body.DataType != cmn.DataNone {
		src, err := body.FromBody(req.Body, req.Context)
		if err != nil {
			return nil, cmn.WrapError(cmn.ErrClassInternal, err, "client: materialize body")
		}
		rc := src.NewReader()
		defer rc.Close()
		freq.SetBodyStream(rc, int(src.Size()))
	}

	done := make(chan error, 1)
	go func() {
		if c.Timeout > 0 {
			done <- c.fc.DoTimeout(freq, fresp, c.Timeout)
		} else {
			done <- c.fc.Do(freq, fresp)
		}
	}()

	select {
	case <-ctx.Done():
		return nil, cmn.WrapError(cmn.ErrClassTransient, ctx.Err(), "client: request cancelled")
	case err := <-done:
		if err != nil {
			return nil, cmn.WrapError(cmn.ErrClassTransient, err, "client: %s %s", req.Method, req.URI())
		}
	}

	respHeaders := cmn.Header{}
	fresp.Header.VisitAll(func(k, v []byte) {
		respHeaders.Set(string(k), string(v))
	})
	body := append([]byte(nil), fresp.Body()...)

	return &cmn.Response{
		StatusCode: fresp.StatusCode(),
		Headers:    respHeaders,
		Body:       body,
		Context:    cmn.Context{cmn.CtxRequestID: req.Context.Get(cmn.CtxRequestID)},
	}, nil
}

