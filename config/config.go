// Package config defines the Go types a declarative workload description
// deserializes into. Parsing itself is a thin json-iterator/go call; the
// dependency-injection wiring that turns a Workload into a running
// driver.Driver is explicitly out of scope (spec.md §1) and lives, in
// skeletal form, only in cmd/ogload.
/*
 * Copyright (c) 2026, OGLoad Contributors.
 */
package config

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/ogload/ogload/cmn"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Workload is the top-level declarative description of a test run.
type Workload struct {
	Name       string           `json:"name"`
	Host       string           `json:"host"`
	Port       int              `json:"port"`
	APIVersion string           `json:"api_version,omitempty"`
	URIRoot    string           `json:"uri_root,omitempty"`

	Auth   AuthSpec         `json:"auth"`
	Mix    []OperationSpec  `json:"mix"`
	Client ClientSpec       `json:"client"`
	Stop   StoppingSpec     `json:"stop"`

	ObjectStorePath string `json:"object_store_path"`
}

// AuthSpec selects and parameterizes an authentication producer
// (spec.md §4.5, §4.6, and the Azure SharedKey supplement).
type AuthSpec struct {
	Type       string             `json:"type"` // "v2", "v4", "azure-sharedkey"
	Region     string             `json:"region,omitempty"`
	Service    string             `json:"service,omitempty"`
	Chunked    bool               `json:"chunked,omitempty"`
	Credential CredentialSpec     `json:"credential"`
}

// CredentialSpec mirrors cmn.Credential for (de)serialization.
type CredentialSpec struct {
	Username           string `json:"username"`
	Password           string `json:"password"`
	KeystoneToken      string `json:"keystone_token,omitempty"`
	StorageAccountName string `json:"storage_account_name,omitempty"`
}

// ToCredential projects a CredentialSpec into the CORE's value type.
func (c CredentialSpec) ToCredential() cmn.Credential {
	return cmn.Credential{
		Username:           c.Username,
		Password:           c.Password,
		KeystoneToken:      c.KeystoneToken,
		StorageAccountName: c.StorageAccountName,
	}
}

// OperationSpec is one weighted choice in the Workload Mix (spec.md §3).
type OperationSpec struct {
	Operation string    `json:"operation"` // "write", "read", "delete", "multipart"
	Weight    float64   `json:"weight"`
	Body      BodySpec  `json:"body,omitempty"`
	Container string    `json:"container,omitempty"`
}

// BodySpec mirrors cmn.Body for (de)serialization.
type BodySpec struct {
	DataType string `json:"data_type"` // "none", "zeroes", "random", "existing", "custom"
	Size     int64  `json:"size"`
	Seed     int64  `json:"seed,omitempty"`
}

// ToBody projects a BodySpec into the CORE's value type.
func (b BodySpec) ToBody() cmn.Body {
	dt := map[string]cmn.DataType{
		"none":     cmn.DataNone,
		"zeroes":   cmn.DataZeroes,
		"random":   cmn.DataRandom,
		"existing": cmn.DataExisting,
		"custom":   cmn.DataCustom,
	}[b.DataType]
	return cmn.Body{DataType: dt, Size: b.Size, Seed: b.Seed}
}

// ClientSpec configures admission control (spec.md §4.7).
type ClientSpec struct {
	Concurrency    int64  `json:"concurrency,omitempty"`
	IntervalDist   string `json:"interval_distribution,omitempty"` // "constant", "uniform", "poisson"
	IntervalMeanMs int64  `json:"interval_mean_ms,omitempty"`
	RateLimitBps   int    `json:"rate_limit_bytes_per_sec,omitempty"`
}

// StoppingSpec configures the driver's stopping conditions (spec.md §4.7).
type StoppingSpec struct {
	MaxRuntimeMs int64 `json:"max_runtime_ms,omitempty"`
	MaxTotalOps  int64 `json:"max_total_ops,omitempty"`
	MaxAborts    int64 `json:"max_aborts,omitempty"`
}

// Parse deserializes a Workload from raw JSON bytes.
func Parse(b []byte) (*Workload, error) {
	var w Workload
	if err := json.Unmarshal(b, &w); err != nil {
		return nil, cmn.WrapError(cmn.ErrClassConfiguration, err, "config: parse workload")
	}
	return &w, nil
}
