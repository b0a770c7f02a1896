/*
 * Copyright (c) 2026, OGLoad Contributors.
 */
package objmgr

import (
	"sync"

	"github.com/OneOfOne/xxhash"
)

// nameShardCount bounds the fan-out of the per-name reference-count table
// (spec.md §5: "a small per-name reference count for deletes"). Object
// names hash into one of these shards via xxhash so readers and deleters
// of unrelated names never contend on the same mutex.
const nameShardCount = 64

type nameShard struct {
	mu       sync.Mutex
	deleting map[string]bool
	readRefs map[string]int
}

type nameShards [nameShardCount]*nameShard

func newNameShards() *nameShards {
	var s nameShards
	for i := range s {
		s[i] = &nameShard{
			deleting: make(map[string]bool),
			readRefs: make(map[string]int),
		}
	}
	return &s
}

func (s *nameShards) of(name string) *nameShard {
	h := xxhash.ChecksumString64(name)
	return s[h%uint64(nameShardCount)]
}
