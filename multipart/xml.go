/*
 * Copyright (c) 2026, OGLoad Contributors.
 */
package multipart

import (
	"encoding/xml"
	"regexp"
)

// wirePart and wireCompleteBody give encoding/xml the exact element names
// spec.md §4.4 requires — <CompleteMultipartUpload><Part><PartNumber>
// n</PartNumber><ETag>e</ETag></Part>… — hand-tagged because aws-sdk-go's
// own s3.CompletedPart/CompletedMultipartUpload types carry protocol tags
// for its internal rest-xml marshaler, not encoding/xml, so they can't
// produce this body directly; pulling in that marshaler just to relabel
// two fields isn't worth the dependency.
type wirePart struct {
	PartNumber int64  `xml:"PartNumber"`
	ETag       string `xml:"ETag"`
}

type wireCompleteBody struct {
	XMLName xml.Name   `xml:"CompleteMultipartUpload"`
	Parts   []wirePart `xml:"Part"`
}

// renderCompleteBody builds the COMPLETE request body from a session's
// drained, part-number-ordered completed parts.
func renderCompleteBody(parts []completedPart) ([]byte, error) {
	body := wireCompleteBody{}
	for _, p := range parts {
		body.Parts = append(body.Parts, wirePart{PartNumber: int64(p.partNumber), ETag: p.etag})
	}
	return xml.Marshal(body)
}

var uploadIDPattern = regexp.MustCompile(`<UploadId>([^<]+)</UploadId>`)

// parseUploadID extracts UploadId from an InitiateMultipartUploadResult
// body. A tiny regexp is deliberate: the CORE only ever needs this one
// field out of the INITIATE response (spec.md §1, Non-goals — no general
// XML response parser).
func parseUploadID(body []byte) (string, bool) {
	m := uploadIDPattern.FindSubmatch(body)
	if m == nil {
		return "", false
	}
	return string(m[1]), true
}
