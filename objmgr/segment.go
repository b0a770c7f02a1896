/*
 * Copyright (c) 2026, OGLoad Contributors.
 */
package objmgr

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// segment is one 64 MiB-capped, append-only shard of the population store.
// Its own RWMutex lets many concurrent readers walk `records` while a
// single writer appends or rewrites a slot during a swap-delete
// (spec.md §5: "many-reader/single-writer discipline per segment").
type segment struct {
	idx     int
	path    string
	mu      sync.RWMutex
	file    *os.File
	records []record
}

func segmentPath(dir, prefix string, idx int) string {
	return filepath.Join(dir, fmt.Sprintf("%s-%d.bin", prefix, idx))
}

func openSegment(dir, prefix string, idx int) (*segment, error) {
	path := segmentPath(dir, prefix, idx)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "open segment %s", path)
	}
	s := &segment{idx: idx, path: path, file: f}
	if err := s.load(); err != nil {
		f.Close()
		return nil, err
	}
	return s, nil
}

// load reads whole records from disk. A trailing partial record is dropped
// and the file truncated to the last intact record (spec.md §4.1, Failure).
func (s *segment) load() error {
	info, err := s.file.Stat()
	if err != nil {
		return errors.Wrapf(err, "stat segment %s", s.path)
	}
	size := info.Size()
	n := int(size / RecordSize)
	rem := size % RecordSize
	if rem != 0 {
		glog.Errorf("objmgr: segment %s has a torn trailing record (%d extra bytes); truncating", s.path, rem)
		if err := s.file.Truncate(int64(n) * RecordSize); err != nil {
			return errors.Wrapf(err, "truncate torn segment %s", s.path)
		}
	}
	buf := make([]byte, n*RecordSize)
	if n > 0 {
		if _, err := s.file.ReadAt(buf, 0); err != nil {
			return errors.Wrapf(err, "read segment %s", s.path)
		}
	}
	s.records = make([]record, n)
	for i := 0; i < n; i++ {
		s.records[i] = decodeRecord(buf[i*RecordSize : (i+1)*RecordSize])
	}
	return nil
}

func (s *segment) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// append adds r as the new last record, under the segment's write lock.
func (s *segment) append(r record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var buf [RecordSize]byte
	r.encode(buf[:])
	off := int64(len(s.records)) * RecordSize
	if _, err := s.file.WriteAt(buf[:], off); err != nil {
		return errors.Wrapf(err, "append to segment %s", s.path)
	}
	s.records = append(s.records, r)
	return nil
}

// overwrite rewrites the record at recIdx in place.
func (s *segment) overwrite(recIdx int, r record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var buf [RecordSize]byte
	r.encode(buf[:])
	off := int64(recIdx) * RecordSize
	if _, err := s.file.WriteAt(buf[:], off); err != nil {
		return errors.Wrapf(err, "overwrite segment %s at record %d", s.path, recIdx)
	}
	s.records[recIdx] = r
	return nil
}

// popLast removes and returns the final record, truncating the file by one
// RecordSize (spec.md §6: delete "shrinks the file by exactly 18 bytes").
func (s *segment) popLast() (record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.records)
	last := s.records[n-1]
	if err := s.file.Truncate(int64(n-1) * RecordSize); err != nil {
		return record{}, errors.Wrapf(err, "truncate segment %s", s.path)
	}
	s.records = s.records[:n-1]
	return last, nil
}

func (s *segment) close() error {
	return s.file.Close()
}

func (s *segment) removeFile() error {
	return os.Remove(s.path)
}
