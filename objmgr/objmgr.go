/*
 * Copyright (c) 2026, OGLoad Contributors.
 */
package objmgr

import (
	"math/rand"
	"sync"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/ogload/ogload/cmn"
)

type location struct {
	segIdx int
	recIdx int
}

// Manager is the persistent, content-addressed object-name population
// described in spec.md §4.1. Segment files hold the durable record bytes;
// `mu` is the single write lock that also gates readers during the brief
// swap-and-truncate phase of a committed delete (spec.md §5). Per-name
// delete/read-refcount bookkeeping lives in sharded, finer-grained locks
// (see shard.go) so unrelated names never contend.
type Manager struct {
	dir, prefix string

	mu       sync.RWMutex
	segments []*segment
	index    map[string]location
	sc       *sidecar

	shards *nameShards
}

// Open loads (or creates) the population store rooted at dir/prefix.
func Open(dir, prefix string) (*Manager, error) {
	sc, err := loadSidecar(dir, prefix)
	if err != nil {
		return nil, err
	}
	m := &Manager{
		dir:    dir,
		prefix: prefix,
		index:  make(map[string]location),
		sc:     sc,
		shards: newNameShards(),
	}
	for i := 0; i <= sc.CurrentMax; i++ {
		seg, err := openSegment(dir, prefix, i)
		if err != nil {
			return nil, err
		}
		m.segments = append(m.segments, seg)
		for recIdx, r := range seg.records {
			m.index[r.name] = location{segIdx: i, recIdx: recIdx}
		}
	}
	if len(m.segments) == 0 {
		seg, err := openSegment(dir, prefix, 0)
		if err != nil {
			return nil, err
		}
		m.segments = append(m.segments, seg)
	}
	return m, nil
}

func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var firstErr error
	for _, s := range m.segments {
		if err := s.close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Add records a successfully written object. Re-adding an existing name
// overwrites its size/shards in place, matching an object-storage PUT
// overwrite (spec.md §4.1: "write-completed (insert)").
func (m *Manager) Add(name string, shardsField uint8, size uint64) error {
	if err := nameFits(name); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if loc, ok := m.index[name]; ok {
		seg := m.segments[loc.segIdx]
		if err := seg.overwrite(loc.recIdx, record{name: name, shards: shardsField, size: size}); err != nil {
			return cmn.WrapError(cmn.ErrClassInternal, err, "objmgr: overwrite %q", name)
		}
		return nil
	}

	last := m.segments[len(m.segments)-1]
	if last.len() >= SegmentCap {
		seg, err := openSegment(m.dir, m.prefix, last.idx+1)
		if err != nil {
			return cmn.WrapError(cmn.ErrClassInternal, err, "objmgr: open new segment")
		}
		m.segments = append(m.segments, seg)
		m.sc.CurrentMax = seg.idx
		if err := m.sc.save(m.dir); err != nil {
			return cmn.WrapError(cmn.ErrClassInternal, err, "objmgr: persist sidecar")
		}
		last = seg
	}
	if err := last.append(record{name: name, shards: shardsField, size: size}); err != nil {
		// in-memory view was never updated, so there is nothing to roll back
		// beyond the segment itself reporting the failed write.
		return cmn.WrapError(cmn.ErrClassInternal, err, "objmgr: add %q", name)
	}
	m.index[name] = location{segIdx: last.idx, recIdx: last.len() - 1}
	return nil
}

func (m *Manager) total() int {
	n := 0
	for _, s := range m.segments {
		n += s.len()
	}
	return n
}

// nameAt resolves the flatIdx-th record (0-based, in segment/record order)
// to its name. Caller must hold at least m.mu.RLock().
func (m *Manager) nameAt(flatIdx int) string {
	for _, s := range m.segments {
		s.mu.RLock()
		n := len(s.records)
		if flatIdx < n {
			name := s.records[flatIdx].name
			s.mu.RUnlock()
			return name
		}
		flatIdx -= n
		s.mu.RUnlock()
	}
	return ""
}

const selectAttempts = 64

// GetNameForRead returns a name selected uniformly at random from all
// currently non-deleting records, incrementing its read-reference count
// (spec.md §4.1).
func (m *Manager) GetNameForRead() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := m.total()
	if total == 0 {
		return "", cmn.NewError(cmn.ErrClassPopulation, "objmgr: object population is empty")
	}
	for i := 0; i < selectAttempts; i++ {
		name := m.nameAt(rand.Intn(total))
		if name == "" {
			continue
		}
		sh := m.shards.of(name)
		sh.mu.Lock()
		if !sh.deleting[name] {
			sh.readRefs[name]++
			sh.mu.Unlock()
			return name, nil
		}
		sh.mu.Unlock()
	}
	return "", cmn.NewError(cmn.ErrClassPopulation, "objmgr: no readable name found after %d attempts (high delete contention)", selectAttempts)
}

// GetNameForDelete atomically selects a name and transitions it to the
// deleting state, blocking concurrent deleters and new readers of that
// specific name (spec.md §4.1).
func (m *Manager) GetNameForDelete() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := m.total()
	if total == 0 {
		return "", cmn.NewError(cmn.ErrClassPopulation, "objmgr: object population is empty")
	}
	for i := 0; i < selectAttempts; i++ {
		name := m.nameAt(rand.Intn(total))
		if name == "" {
			continue
		}
		sh := m.shards.of(name)
		sh.mu.Lock()
		if !sh.deleting[name] {
			sh.deleting[name] = true
			sh.mu.Unlock()
			return name, nil
		}
		sh.mu.Unlock()
	}
	return "", cmn.NewError(cmn.ErrClassPopulation, "objmgr: no deletable name found after %d attempts (high delete contention)", selectAttempts)
}

// ReleaseNameFromRead returns a non-exclusive read borrow.
func (m *Manager) ReleaseNameFromRead(name string) {
	sh := m.shards.of(name)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if sh.readRefs[name] > 0 {
		sh.readRefs[name]--
		if sh.readRefs[name] == 0 {
			delete(sh.readRefs, name)
		}
	}
}

// ReleaseNameFromDelete returns the exclusive delete borrow. When committed,
// the record is removed by swapping in the final record of the final
// segment and truncating (spec.md §4.1, §6).
func (m *Manager) ReleaseNameFromDelete(name string, committed bool) error {
	sh := m.shards.of(name)
	sh.mu.Lock()
	delete(sh.deleting, name)
	sh.mu.Unlock()

	if !committed {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	loc, ok := m.index[name]
	if !ok {
		return cmn.NewError(cmn.ErrClassInternal, "objmgr: release-delete for unknown name %q", name)
	}

	lastSeg := m.segments[len(m.segments)-1]
	lastIdx := lastSeg.len() - 1
	if loc.segIdx == lastSeg.idx && loc.recIdx == lastIdx {
		if _, err := lastSeg.popLast(); err != nil {
			return cmn.WrapError(cmn.ErrClassInternal, err, "objmgr: delete %q", name)
		}
	} else {
		movedRec, err := lastSeg.popLast()
		if err != nil {
			return cmn.WrapError(cmn.ErrClassInternal, err, "objmgr: delete %q", name)
		}
		target := m.segments[loc.segIdx]
		if err := target.overwrite(loc.recIdx, movedRec); err != nil {
			return cmn.WrapError(cmn.ErrClassInternal, err, "objmgr: delete %q", name)
		}
		m.index[movedRec.name] = loc
	}
	delete(m.index, name)

	if lastSeg.len() == 0 && len(m.segments) > 1 {
		if err := lastSeg.close(); err != nil {
			glog.Warningf("objmgr: close emptied segment %s: %v", lastSeg.path, err)
		}
		if err := lastSeg.removeFile(); err != nil {
			glog.Warningf("objmgr: remove emptied segment %s: %v", lastSeg.path, err)
		}
		m.segments = m.segments[:len(m.segments)-1]
		m.sc.CurrentMax = m.segments[len(m.segments)-1].idx
		if err := m.sc.save(m.dir); err != nil {
			return errors.Wrap(err, "objmgr: persist sidecar after segment removal")
		}
	}
	return nil
}

// Len reports the total number of live records, for tests and statistics.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.total()
}
