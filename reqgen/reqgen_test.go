/*
 * Copyright (c) 2026, OGLoad Contributors.
 */
package reqgen

import (
	"testing"

	"github.com/ogload/ogload/body"
	"github.com/ogload/ogload/cmn"
	"github.com/ogload/ogload/supply"
)

func TestGetBuildsPathStyleRequest(t *testing.T) {
	g := &Generator{
		Method:    "PUT",
		Host:      supply.NewConstant("s3.example.com"),
		Container: supply.NewConstant("mybucket"),
		Object:    supply.NewConstant("obj1"),
		Body:      supply.NewConstant(cmn.Body{DataType: cmn.DataZeroes, Size: 10}),
		Operation: cmn.OpWrite,
		MD5Cache:  body.NewMD5Cache(100),
	}
	req, err := g.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if req.Host != "s3.example.com" {
		t.Fatalf("Host = %q", req.Host)
	}
	if req.Path != "/mybucket/obj1" {
		t.Fatalf("Path = %q", req.Path)
	}
	if _, ok := req.Headers.Get("Content-MD5"); !ok {
		t.Fatalf("Content-MD5 not set")
	}
	if _, ok := req.Headers.Get("x-og-request-id"); !ok {
		t.Fatalf("x-og-request-id not set")
	}
	if req.Context.Get(cmn.CtxObjectName) != "obj1" {
		t.Fatalf("CtxObjectName = %q", req.Context.Get(cmn.CtxObjectName))
	}
}

func TestGetBuildsVirtualHostStyleRequest(t *testing.T) {
	g := &Generator{
		Method:      "GET",
		Host:        supply.NewConstant("s3.example.com"),
		Container:   supply.NewConstant("mybucket"),
		Object:      supply.NewConstant("obj1"),
		VirtualHost: true,
		Operation:   cmn.OpRead,
	}
	req, err := g.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if req.Host != "mybucket.s3.example.com" {
		t.Fatalf("Host = %q", req.Host)
	}
	if req.Path != "/obj1" {
		t.Fatalf("Path = %q, want container omitted", req.Path)
	}
}

func TestGetPreservesBareQueryParam(t *testing.T) {
	g := &Generator{
		Method: "POST",
		Host:   supply.NewConstant("s3.example.com"),
		Query:  []QuerySpec{{Key: "uploads", Bare: true}},
	}
	req, err := g.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if req.URI() != "http://s3.example.com/?uploads" {
		t.Fatalf("URI = %q", req.URI())
	}
}

func TestGetProjectsCredentialsIntoContext(t *testing.T) {
	g := &Generator{
		Method:     "GET",
		Host:       supply.NewConstant("s3.example.com"),
		Credential: supply.NewConstant(cmn.Credential{Username: "alice", Password: "secret"}),
	}
	req, err := g.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if req.Context.Get(cmn.CtxUsername) != "alice" {
		t.Fatalf("CtxUsername = %q", req.Context.Get(cmn.CtxUsername))
	}
}

func TestGetRunsContextProducersBeforeCredentials(t *testing.T) {
	producerRan := false
	g := &Generator{
		Method: "GET",
		Host:   supply.NewConstant("s3.example.com"),
		ContextProducers: []ContextProducer{
			func(ctx *cmn.Context) { producerRan = true; ctx.Set("x-custom", "v") },
		},
	}
	req, err := g.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !producerRan {
		t.Fatalf("context producer did not run")
	}
	if req.Context.Get("x-custom") != "v" {
		t.Fatalf("custom context key not set")
	}
}
