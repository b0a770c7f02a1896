// Package auth implements the AWS Signature v2 and v4 request producers
// (spec.md §4.5, §4.6). Canonicalization is bespoke to the letter of the
// spec — including its accepted limitations — rather than delegated to
// aws-sdk-go's own signer, which does not reproduce them (see DESIGN.md).
/*
 * Copyright (c) 2026, OGLoad Contributors.
 */
package auth

import "github.com/ogload/ogload/cmn"

// Signer mutates req in place, adding whatever headers its scheme requires
// (at minimum, Authorization).
type Signer interface {
	Sign(req *cmn.Request) error
}

// Credentials are the AWS-shaped access/secret key pair both signers need.
// The shape mirrors aws-sdk-go's aws.Credentials value object (Access/secret
// key pair only — this package never calls into aws-sdk-go's signer).
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
}
