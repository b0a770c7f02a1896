//go:build debug

// Package debug provides assertions compiled in only under the "debug"
// build tag, matching the CORE's invariants (spec.md §3, §4.4).
/*
 * Copyright (c) 2026, OGLoad Contributors.
 */
package debug

import (
	"fmt"

	"github.com/golang/glog"
)

func Assert(cond bool, a ...interface{}) {
	if !cond {
		panicf(a...)
	}
}

func Assertf(cond bool, f string, a ...interface{}) {
	if !cond {
		panicf(fmt.Sprintf(f, a...))
	}
}

func AssertNoErr(err error) {
	if err != nil {
		panicf(err)
	}
}

func panicf(a ...interface{}) {
	msg := "assertion failed"
	if len(a) > 0 {
		msg = "assertion failed: " + fmt.Sprint(a...)
	}
	glog.Errorln(msg)
	panic(msg)
}
