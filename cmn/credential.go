/*
 * Copyright (c) 2026, OGLoad Contributors.
 */
package cmn

// Credential identifies the principal a Request authenticates as (spec.md
// §3). KeystoneToken and StorageAccountName are optional: the former
// selects an OpenStack Swift/Keystone auth producer, the latter an Azure
// SharedKey one (see auth/azure), neither of which this CORE requires by
// default.
type Credential struct {
	Username           string
	Password           string
	KeystoneToken      string
	StorageAccountName string
}

// ProjectInto writes the recognized context keys for c into ctx, matching
// spec.md §4.3 step 2 ("Evaluate credentials; project into the context as
// recognized keys").
func (c Credential) ProjectInto(ctx *Context) {
	if c.Username != "" {
		ctx.Set(CtxUsername, c.Username)
	}
	if c.Password != "" {
		ctx.Set(CtxPassword, c.Password)
	}
	if c.KeystoneToken != "" {
		ctx.Set(CtxKeystoneToken, c.KeystoneToken)
	}
	if c.StorageAccountName != "" {
		ctx.Set(CtxStorageAccountName, c.StorageAccountName)
	}
}
