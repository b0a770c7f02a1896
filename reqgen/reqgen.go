// Package reqgen implements the Request Supplier (spec.md §4.3): a
// single-step request generator composed from supply.Supplier[T] field
// suppliers, following the 5-step get() algorithm in order.
/*
 * Copyright (c) 2026, OGLoad Contributors.
 */
package reqgen

import (
	"strings"
	"time"

	"github.com/ogload/ogload/body"
	"github.com/ogload/ogload/cmn"
	"github.com/ogload/ogload/supply"
)

// ContextProducer writes into ctx, possibly reading what earlier producers
// already wrote (spec.md §4.3 step 1: "each possibly writing into the
// request context"). Producers run strictly in configured order.
type ContextProducer func(ctx *cmn.Context)

// FromSupplier adapts a string-valued field supplier into a ContextProducer
// that stores its result under key.
func FromSupplier(key string, s supply.Supplier[string]) ContextProducer {
	return func(ctx *cmn.Context) { ctx.Set(key, s.Get(*ctx)) }
}

// CredentialProducer evaluates s and projects the resulting Credential's
// recognized fields into the context (spec.md §4.3 step 2).
func CredentialProducer(s supply.Supplier[cmn.Credential]) ContextProducer {
	return func(ctx *cmn.Context) {
		cred := s.Get(*ctx)
		cred.ProjectInto(ctx)
	}
}

// QuerySpec describes one query-parameter slot. A Bare spec emits the key
// with no "=value" (spec.md §4.3 tie-break).
type QuerySpec struct {
	Key   string
	Value supply.Supplier[string]
	Bare  bool
}

// Generator produces a complete cmn.Request on each call to Get, per
// spec.md §4.3. Every field supplier is optional except Method and Host;
// a nil supplier contributes nothing to the built request.
type Generator struct {
	Method string
	Scheme supply.Supplier[string] // defaults to "http" if nil

	// Host is the bare host[:port], never including the container even in
	// virtual-host style — VirtualHost controls whether Get prepends it.
	Host           supply.Supplier[string]
	VirtualHost    bool
	URIRoot        string
	APIVersion     string
	StorageAccount supply.Supplier[string]
	Container      supply.Supplier[string]
	Object         supply.Supplier[string]

	Query   []QuerySpec
	Headers map[string]supply.Supplier[string]
	Body    supply.Supplier[cmn.Body]

	Operation  string
	Credential supply.Supplier[cmn.Credential]

	ContextProducers []ContextProducer

	// MD5Cache, when non-nil, memoizes the Content-MD5 of the fixed
	// zero-byte pattern for the body's size (spec.md §4.3 step 4). A nil
	// cache leaves Content-MD5 unset.
	MD5Cache *body.MD5Cache
}

// Get runs the 5-step algorithm of spec.md §4.3 and returns the resulting
// Request.
func (g *Generator) Get() (*cmn.Request, error) {
	return g.GetWith()
}

// GetWith is Get, but runs extra context producers first — ahead of the
// Generator's own configured ones — so a caller building on top of this
// Generator (the Multipart Supplier stamping a session's uploadId and part
// number, for instance) can seed values the configured suppliers read.
func (g *Generator) GetWith(extra ...ContextProducer) (*cmn.Request, error) {
	ctx := cmn.Context{}

	for _, p := range extra {
		p(&ctx)
	}
	// step 1: context producers, in order.
	for _, p := range g.ContextProducers {
		p(&ctx)
	}

	// step 2: credentials.
	if g.Credential != nil {
		CredentialProducer(g.Credential)(&ctx)
	}

	// step 3: URI.
	scheme := "http"
	if g.Scheme != nil {
		scheme = g.Scheme.Get(ctx)
	}
	host := ""
	if g.Host != nil {
		host = g.Host.Get(ctx)
	}
	container := ""
	if g.Container != nil {
		container = g.Container.Get(ctx)
		ctx.Set(cmn.CtxContainerName, container)
	}
	object := ""
	if g.Object != nil {
		object = g.Object.Get(ctx)
		ctx.Set(cmn.CtxObjectName, object)
	}
	storageAccount := ""
	if g.StorageAccount != nil {
		storageAccount = g.StorageAccount.Get(ctx)
		ctx.Set(cmn.CtxStorageAccountName, storageAccount)
	}

	virtualHosted := g.VirtualHost && container != ""
	if virtualHosted {
		host = container + "." + host
	}

	var segs []string
	if g.URIRoot != "" {
		segs = append(segs, g.URIRoot)
	}
	if g.APIVersion != "" {
		segs = append(segs, g.APIVersion)
	}
	if storageAccount != "" {
		segs = append(segs, storageAccount)
	}
	if container != "" && !virtualHosted {
		segs = append(segs, container)
	}
	if object != "" {
		segs = append(segs, object)
	}
	path := "/" + strings.Join(segs, "/")
	if len(segs) == 0 {
		path = "/"
	}

	var query cmn.QueryParams
	for _, q := range g.Query {
		if q.Bare {
			query.AddBare(q.Key)
			continue
		}
		v := ""
		if q.Value != nil {
			v = q.Value.Get(ctx)
		}
		query.Add(q.Key, v)
	}

	// step 4: body and headers, including the optional Content-MD5.
	var b cmn.Body
	if g.Body != nil {
		b = g.Body.Get(ctx)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	headers := cmn.Header{}
	for name, s := range g.Headers {
		headers.Set(name, s.Get(ctx))
	}
	if g.MD5Cache != nil {
		headers.Set("Content-MD5", g.MD5Cache.Digest(b.Size))
		ctx.Set(cmn.CtxContentMD5, headers["Content-MD5"])
	}

	// step 5: request id and operation tag.
	reqID := cmn.GenRequestID()
	ctx.Set(cmn.CtxRequestID, reqID)
	headers.Set("x-og-request-id", reqID)

	return &cmn.Request{
		Method:      g.Method,
		Scheme:      scheme,
		Host:        host,
		Path:        path,
		Query:       query,
		Headers:     headers,
		Body:        b,
		MessageTime: time.Now().UnixMilli(),
		Operation:   g.Operation,
		Context:     ctx,
	}, nil
}
