/*
 * Copyright (c) 2026, OGLoad Contributors.
 */
package cmn

import (
	"net/url"
	"sort"
	"strings"
)

// QueryParam is a single key[=value] pair. HasValue distinguishes a bare key
// ("?uploads") from an explicitly empty value ("?uploads="); spec.md §4.3
// requires bare keys to round-trip without a trailing "=".
type QueryParam struct {
	Key      string
	Value    string
	HasValue bool
}

// QueryParams preserves configured insertion order, which spec.md §4.3 and
// §8 ("URL construction") require to survive into the signed URI.
type QueryParams []QueryParam

func (q *QueryParams) Add(key, value string) {
	*q = append(*q, QueryParam{Key: key, Value: value, HasValue: true})
}

func (q *QueryParams) AddBare(key string) {
	*q = append(*q, QueryParam{Key: key})
}

// Get returns the first value stored under key and whether it was found.
func (q QueryParams) Get(key string) (string, bool) {
	for _, p := range q {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Encode renders the query string in configured order, URL-encoding each
// key and value. A bare key is emitted without "=".
func (q QueryParams) Encode() string {
	if len(q) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range q {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		if p.HasValue {
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(p.Value))
		}
	}
	return b.String()
}

// Sorted returns a copy of q sorted by key, used by the auth producers for
// canonicalization (spec.md §4.5, §4.6) without disturbing the request's own
// configured order.
func (q QueryParams) Sorted() QueryParams {
	out := make(QueryParams, len(q))
	copy(out, q)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
