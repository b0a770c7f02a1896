/*
 * Copyright (c) 2026, OGLoad Contributors.
 */
package cmn

import "strings"

// Request is the immutable (by convention — only Context is meant to be
// mutated in place) record produced by the Request Supplier and Multipart
// Supplier and handed to the Load Test Driver's client (spec.md §3).
type Request struct {
	Method      string
	Scheme      string
	Host        string // includes port when non-default
	Path        string // leading slash; already carries uriRoot/apiVersion/storageAccount/container/object
	Query       QueryParams
	Headers     Header
	Body        Body
	MessageTime int64 // epoch milliseconds
	Operation   string
	Context     Context
}

// URI renders the full request target: scheme://host/path[?query], matching
// the composition rules of spec.md §4.3 step 3.
func (r *Request) URI() string {
	var b strings.Builder
	b.WriteString(r.Scheme)
	b.WriteString("://")
	b.WriteString(r.Host)
	b.WriteString(r.Path)
	if qs := r.Query.Encode(); qs != "" {
		b.WriteByte('?')
		b.WriteString(qs)
	}
	return b.String()
}

// CanonicalPath is Path with no trailing modification — the value the v2
// and v4 signers canonicalize (spec.md §4.5, §4.6).
func (r *Request) CanonicalPath() string {
	if r.Path == "" {
		return "/"
	}
	return r.Path
}
