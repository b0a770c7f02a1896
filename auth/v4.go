/*
 * Copyright (c) 2026, OGLoad Contributors.
 */
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/ogload/ogload/body"
	"github.com/ogload/ogload/cmn"
)

const (
	v4Algorithm       = "AWS4-HMAC-SHA256"
	v4DateFormat      = "20060102"
	v4AmzDateFormat   = "20060102T150405Z"
	v4UnsignedPayload = "UNSIGNED-PAYLOAD"
	v4StreamingSha256 = "STREAMING-AWS4-HMAC-SHA256-PAYLOAD"
)

// PayloadMode controls what the signer puts in the hashed-payload slot and
// whether it wraps the body in chunked-signing framing (spec.md §4.6).
type PayloadMode int

const (
	// PayloadSigned hashes the full body up front, matching spec.md §8's
	// scenario 1 fixture.
	PayloadSigned PayloadMode = iota
	// PayloadUnsigned substitutes the UNSIGNED-PAYLOAD sentinel.
	PayloadUnsigned
	// PayloadStreamingSigned wraps the body in aws-chunked signing framing.
	PayloadStreamingSigned
)

// V4Signer implements AWS Signature Version 4 (spec.md §4.6).
type V4Signer struct {
	Credentials Credentials
	Region      string
	Service     string
	Payload     PayloadMode
}

// Sign stamps X-Amz-Date, X-Amz-Content-Sha256 and Authorization on req. The
// request's Body is read in full to compute the payload hash unless Payload
// is PayloadUnsigned or PayloadStreamingSigned; callers that need the
// actual chunk-framed stream should use NewChunkedReader separately and
// attach it to the transport, since cmn.Request carries a descriptor rather
// than a live io.Reader.
func (s *V4Signer) Sign(req *cmn.Request) error {
	amzDate := time.UnixMilli(req.MessageTime).UTC().Format(v4AmzDateFormat)
	req.Headers.Set("X-Amz-Date", amzDate)
	if _, ok := req.Headers.Get("Host"); !ok {
		req.Headers.Set("Host", req.Host)
	}

	payloadHash, err := s.payloadHash(req)
	if err != nil {
		return cmn.WrapError(cmn.ErrClassInternal, err, "auth: hash payload")
	}
	req.Headers.Set("X-Amz-Content-Sha256", payloadHash)

	dateStamp := amzDate[:8]
	credentialScope := strings.Join([]string{dateStamp, s.Region, s.Service, "aws4_request"}, "/")

	canonicalHeaders, signedHeaders := canonicalHeadersV4(req.Headers)
	canonicalRequest := strings.Join([]string{
		req.Method,
		canonicalURIV4(req.CanonicalPath()),
		canonicalQueryStringV4(req.Query),
		canonicalHeaders,
		signedHeaders,
		payloadHash,
	}, "\n")

	stringToSign := strings.Join([]string{
		v4Algorithm,
		amzDate,
		credentialScope,
		hashHex([]byte(canonicalRequest)),
	}, "\n")

	signingKey := v4SigningKey(s.Credentials.SecretAccessKey, dateStamp, s.Region, s.Service)
	signature := hex.EncodeToString(hmacSHA256(signingKey, stringToSign))

	auth := v4Algorithm + " Credential=" + s.Credentials.AccessKeyID + "/" + credentialScope +
		", SignedHeaders=" + signedHeaders + ", Signature=" + signature
	req.Headers.Set("Authorization", auth)
	return nil
}

func (s *V4Signer) payloadHash(req *cmn.Request) (string, error) {
	switch s.Payload {
	case PayloadUnsigned:
		return v4UnsignedPayload, nil
	case PayloadStreamingSigned:
		return v4StreamingSha256, nil
	default:
		src, err := body.FromBody(req.Body, req.Context)
		if err != nil {
			return "", err
		}
		r := src.NewReader()
		defer r.Close()
		h := sha256.New()
		if _, err := io.Copy(h, r); err != nil {
			return "", err
		}
		return hex.EncodeToString(h.Sum(nil)), nil
	}
}

// canonicalHeadersV4 returns the joined "key:value\n" block (sorted, lower-
// cased keys, trimmed values) and the matching semicolon-joined header-name
// list, both over every header on the request — spec.md §4.6 requires at
// minimum host, x-amz-content-sha256, x-amz-date and date when present, but
// a real client signs everything it sends.
func canonicalHeadersV4(h cmn.Header) (headers, signed string) {
	type kv struct{ k, v string }
	list := make([]kv, 0, len(h))
	for k, v := range h {
		list = append(list, kv{strings.ToLower(k), strings.TrimSpace(v)})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].k < list[j].k })

	var hb, sb strings.Builder
	for i, e := range list {
		hb.WriteString(e.k)
		hb.WriteByte(':')
		hb.WriteString(e.v)
		hb.WriteByte('\n')
		if i > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(e.k)
	}
	return hb.String(), sb.String()
}

func canonicalURIV4(path string) string {
	if path == "" {
		return "/"
	}
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		segments[i] = v4URIEncode(seg, false)
	}
	return strings.Join(segments, "/")
}

func canonicalQueryStringV4(q cmn.QueryParams) string {
	if len(q) == 0 {
		return ""
	}
	sorted := q.Sorted()
	var b strings.Builder
	for i, p := range sorted {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(v4URIEncode(p.Key, true))
		b.WriteByte('=')
		if p.HasValue {
			b.WriteString(v4URIEncode(p.Value, true))
		}
	}
	return b.String()
}

const v4Unreserved = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_.~"

// v4URIEncode implements AWS's UriEncode: percent-encode everything outside
// the unreserved set, uppercase hex, '/' left alone only for path segments.
func v4URIEncode(s string, encodeSlash bool) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if strings.IndexByte(v4Unreserved, c) >= 0 || (!encodeSlash && c == '/') {
			b.WriteByte(c)
			continue
		}
		b.WriteString("%")
		b.WriteString(strings.ToUpper(hex.EncodeToString([]byte{c})))
	}
	return b.String()
}

func hashHex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func hmacSHA256(key []byte, data string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(data))
	return mac.Sum(nil)
}

func v4SigningKey(secret, dateStamp, region, service string) []byte {
	kDate := hmacSHA256([]byte("AWS4"+secret), dateStamp)
	kRegion := hmacSHA256(kDate, region)
	kService := hmacSHA256(kRegion, service)
	return hmacSHA256(kService, "aws4_request")
}
