/*
 * Copyright (c) 2026, OGLoad Contributors.
 */
package cmn

import (
	"math/rand"
	"sync"

	"github.com/teris-io/shortid"
)

// uuidABC mirrors the teacher's alphabet for human-readable generated IDs
// (cmn.GenUUID in the aistore tree this package is adapted from).
const uuidABC = "-5nZJDft6LuzsjGNpPwY7rQa39vehq4i1cV2FROo8yHSlC0BUEdWbIxMmTgKXAk_"

var (
	idOnce sync.Once
	sid    *shortid.Shortid
)

func initShortID() {
	idOnce.Do(func() {
		sid = shortid.MustNew(4 /*worker*/, uuidABC, rand.Uint64())
	})
}

// GenRequestID returns a short, human-readable id suitable for the
// x-og-request-id context key (spec.md §4.3 step 5) and for default
// multipart upload-session object names.
func GenRequestID() string {
	initShortID()
	id := sid.MustGenerate()
	if !isAlpha(id[0]) {
		id = string(rune('a'+rand.Intn(26))) + id
	}
	return id
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
