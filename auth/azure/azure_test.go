/*
 * Copyright (c) 2026, OGLoad Contributors.
 */
package azure

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/ogload/ogload/cmn"
)

func TestSharedKeySignerProducesAuthorizationHeader(t *testing.T) {
	key := base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))
	req := &cmn.Request{
		Method:  "GET",
		Host:    "account.blob.core.windows.net",
		Path:    "/container/object",
		Headers: cmn.Header{"Date": "Tue, 27 Mar 2007 19:36:42 GMT", "x-ms-version": "2021-08-06"},
	}
	signer := &SharedKeySigner{AccountName: "account", AccountKey: key}
	if err := signer.Sign(req); err != nil {
		t.Fatalf("Sign: %v", err)
	}
	got, ok := req.Headers.Get("Authorization")
	if !ok || !strings.HasPrefix(got, "SharedKey account:") {
		t.Fatalf("Authorization = %q", got)
	}
}

func TestCanonicalizedResourceIncludesAccountAndPath(t *testing.T) {
	req := &cmn.Request{Method: "GET", Path: "/container/object"}
	got := canonicalizedResource("myaccount", req)
	want := "/myaccount/container/object"
	if got != want {
		t.Fatalf("canonicalizedResource = %q, want %q", got, want)
	}
}
