/*
 * Copyright (c) 2026, OGLoad Contributors.
 */
package objmgr

import (
	"strconv"

	"github.com/golang/glog"

	"github.com/ogload/ogload/cmn"
)

// ResponseSubscriber adapts a Manager onto the bus.Subscriber interface
// (spec.md §4.8: "ObjectManager (add/release on write/delete completion)").
// It lives here rather than in package bus so the Object Manager never
// needs to know about the bus's types beyond cmn.Request/cmn.Response.
type ResponseSubscriber struct {
	Mgr *Manager
}

// OnResponse commits a write on a successful PUT, releases the read borrow
// a read request took out before Get (success or not), and commits or
// cancels the delete borrow a delete request took out, based on the
// response status.
func (s *ResponseSubscriber) OnResponse(req *cmn.Request, resp *cmn.Response) error {
	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	name := req.Context.Get(cmn.CtxObjectName)
	if name == "" {
		return nil
	}

	switch req.Operation {
	case cmn.OpWrite:
		if !ok {
			return nil
		}
		size, _ := strconv.ParseUint(req.Context.Get(cmn.CtxObjectSize), 10, 64)
		return s.add(name, 0, size)

	case cmn.OpMultipartComp:
		if !ok {
			return nil
		}
		maxParts, _ := strconv.ParseUint(req.Context.Get(cmn.CtxMultipartMaxParts), 10, 8)
		size, _ := strconv.ParseUint(req.Context.Get(cmn.CtxObjectSize), 10, 64)
		return s.add(name, uint8(maxParts), size)

	case cmn.OpRead:
		s.Mgr.ReleaseNameFromRead(name)
		return nil

	case cmn.OpDelete:
		return s.Mgr.ReleaseNameFromDelete(name, ok)

	default:
		return nil
	}
}

// add commits a successful write to the population, treating an
// ErrClassPopulation failure (the written object's name doesn't fit the
// on-disk record) as a dropped skip rather than an aborting error: the
// write against the store already succeeded, it's only local tracking for
// future reads/deletes that is lost (spec.md §7).
func (s *ResponseSubscriber) add(name string, shardsField uint8, size uint64) error {
	err := s.Mgr.Add(name, shardsField, size)
	if err == nil {
		return nil
	}
	if cmn.ClassOf(err) == cmn.ErrClassPopulation {
		glog.Warningf("objmgr: dropping population update for %q: %v", name, err)
		return nil
	}
	return err
}
