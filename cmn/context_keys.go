// Package cmn provides the shared data model and low-level utilities used
// across the request-production and lifecycle engine.
/*
 * Copyright (c) 2026, OGLoad Contributors.
 */
package cmn

// Context is the per-request mutable key->string metadata map threaded
// through the Request Supplier's context producers (spec.md §4.3) and
// echoed back by the Multipart Supplier and Object Manager.
//
// The enumeration below is closed for the keys the CORE recognizes; any
// other key is treated as opaque pass-through (spec.md §9, REDESIGN FLAGS).
type Context map[string]string

// Get returns the value for key, or "" if absent.
func (c Context) Get(key string) string { return c[key] }

// Set stores value under key, initializing the map if necessary. Callers
// that build a Context incrementally should prefer this over direct
// indexing so a nil Context never panics.
func (c *Context) Set(key, value string) {
	if *c == nil {
		*c = make(Context, 8)
	}
	(*c)[key] = value
}

// Has reports whether key is present, distinguishing it from a present-but-
// empty value.
func (c Context) Has(key string) bool {
	_, ok := c[key]
	return ok
}

// Recognized request context keys (spec.md §6).
const (
	CtxRequestID           = "x-og-request-id"
	CtxObjectName          = "x-og-object-name"
	CtxObjectSize          = "x-og-object-size"
	CtxContainerName       = "x-og-container-name"
	CtxContainerPrefix     = "x-og-container-prefix"
	CtxContainerSuffix     = "x-og-container-suffix"
	CtxUsername            = "x-og-username"
	CtxPassword            = "x-og-password"
	CtxKeystoneToken       = "x-og-keystone-token"
	CtxStorageAccountName  = "x-og-storage-account-name"
	CtxMultipartRequest    = "x-og-multipart-request"
	CtxMultipartUploadID   = "x-og-multipart-upload-id"
	CtxMultipartPartNumber = "x-og-multipart-part-number"
	CtxMultipartPartSize   = "x-og-multipart-part-size"
	CtxMultipartMaxParts   = "x-og-multipart-max-parts"
	CtxMultipartContainer  = "x-og-multipart-container"
	CtxMultipartBodyType   = "x-og-multipart-body-data-type"
	CtxContentMD5          = "x-og-content-md5"
	CtxLegalHold           = "x-og-legal-hold"
	CtxObjectRetention     = "x-og-object-retention"
	CtxResponseBodyConsumer = "x-og-response-body-consumer"
)

// Operation tags stamped onto every Request (spec.md §3).
const (
	OpWrite          = "write"
	OpRead           = "read"
	OpDelete         = "delete"
	OpMetadata       = "metadata"
	OpMultipartInit  = "multipart-initiate"
	OpMultipartPart  = "multipart-part"
	OpMultipartComp  = "multipart-complete"
	OpMultipartAbort = "multipart-abort"
)
