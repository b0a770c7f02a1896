//go:build !debug

/*
 * Copyright (c) 2026, OGLoad Contributors.
 */
package debug

func Assert(_ bool, _ ...interface{})            {}
func Assertf(_ bool, _ string, _ ...interface{}) {}
func AssertNoErr(_ error)                        {}
