/*
 * Copyright (c) 2026, OGLoad Contributors.
 */
package auth

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"sort"
	"strings"

	"github.com/ogload/ogload/cmn"
)

// v2Subresources are the query parameters that participate in the
// CanonicalizedResource of an AWS Signature v2 string-to-sign. Any other
// query parameter is invisible to v2 signing — the accepted limitation of
// spec.md §4.5's Open Question, reproduced verbatim rather than "fixed".
var v2Subresources = map[string]bool{
	"acl": true, "lifecycle": true, "location": true, "logging": true,
	"notification": true, "partNumber": true, "policy": true,
	"requestPayment": true, "torrent": true, "uploadId": true,
	"uploads": true, "versionId": true, "versioning": true,
	"versions": true, "website": true,
}

// V2Signer implements AWS Signature Version 2 (spec.md §4.5).
type V2Signer struct {
	Credentials Credentials
}

func (s *V2Signer) Sign(req *cmn.Request) error {
	sts := s.stringToSign(req)
	mac := hmac.New(sha1.New, []byte(s.Credentials.SecretAccessKey))
	mac.Write([]byte(sts))
	sig := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	req.Headers.Set("Authorization", "AWS "+s.Credentials.AccessKeyID+":"+sig)
	return nil
}

func (s *V2Signer) stringToSign(req *cmn.Request) string {
	contentMD5, _ := req.Headers.Get("Content-MD5")
	contentType, _ := req.Headers.Get("Content-Type")
	head := strings.Join([]string{req.Method, contentMD5, contentType, v2DateLine(req.Headers)}, "\n")
	return head + "\n" + canonicalAmzHeadersV2(req.Headers) + canonicalResourceV2(req)
}

// v2DateLine prefers X-Amz-Date over Date when both are present, matching
// the behavior of clients that always stamp X-Amz-Date for v2 as well as v4.
func v2DateLine(h cmn.Header) string {
	if v, ok := h.Get("X-Amz-Date"); ok {
		return v
	}
	v, _ := h.Get("Date")
	return v
}

func canonicalAmzHeadersV2(h cmn.Header) string {
	type kv struct{ k, v string }
	var list []kv
	for k, v := range h {
		lk := strings.ToLower(k)
		if strings.HasPrefix(lk, "x-amz-") && lk != "x-amz-date" {
			list = append(list, kv{lk, strings.TrimSpace(v)})
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].k < list[j].k })
	var b strings.Builder
	for _, e := range list {
		b.WriteString(e.k)
		b.WriteByte(':')
		b.WriteString(e.v)
		b.WriteByte('\n')
	}
	return b.String()
}

func canonicalResourceV2(req *cmn.Request) string {
	path := req.CanonicalPath()
	var matched cmn.QueryParams
	for _, p := range req.Query {
		if v2Subresources[p.Key] {
			matched = append(matched, p)
		}
	}
	if len(matched) == 0 {
		return path
	}
	sorted := matched.Sorted()
	var b strings.Builder
	b.WriteString(path)
	b.WriteByte('?')
	for i, p := range sorted {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(p.Key)
		if p.HasValue {
			b.WriteByte('=')
			b.WriteString(p.Value)
		}
	}
	return b.String()
}
