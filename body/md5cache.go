/*
 * Copyright (c) 2026, OGLoad Contributors.
 */
package body

import (
	"container/list"
	"crypto/md5"
	"encoding/base64"
	"io"
	"sync"
)

// MD5Cache memoizes the content-MD5 of the fixed zero-byte pattern for a
// given size (spec.md §4.3 step 4). It is owned by whichever Request
// Supplier instance constructs it — never a package-level singleton,
// per spec.md §9 ("Singleton MD5 cache" redesign note — each supplier gets
// its own bounded, explicitly-owned cache).
type MD5Cache struct {
	mu       sync.Mutex
	capacity int
	entries  map[int64]*list.Element
	order    *list.List // front = most recently used
}

type md5CacheEntry struct {
	size   int64
	digest string // base64, matching the Content-MD5 header's on-wire form
}

// NewMD5Cache returns a cache bounded at capacity entries (spec.md §5: 100,
// LRU). capacity <= 0 disables memoization (every call recomputes).
func NewMD5Cache(capacity int) *MD5Cache {
	return &MD5Cache{
		capacity: capacity,
		entries:  make(map[int64]*list.Element),
		order:    list.New(),
	}
}

// Digest returns the base64 Content-MD5 of `size` zero bytes, computing and
// memoizing it on first request for that size.
func (c *MD5Cache) Digest(size int64) string {
	c.mu.Lock()
	if el, ok := c.entries[size]; ok {
		c.order.MoveToFront(el)
		digest := el.Value.(*md5CacheEntry).digest
		c.mu.Unlock()
		return digest
	}
	c.mu.Unlock()

	digest := computeZeroMD5(size)

	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[size]; ok {
		c.order.MoveToFront(el)
		return el.Value.(*md5CacheEntry).digest
	}
	el := c.order.PushFront(&md5CacheEntry{size: size, digest: digest})
	c.entries[size] = el
	if c.capacity > 0 {
		for c.order.Len() > c.capacity {
			oldest := c.order.Back()
			if oldest == nil {
				break
			}
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*md5CacheEntry).size)
		}
	}
	return digest
}

func computeZeroMD5(size int64) string {
	h := md5.New()
	_, _ = io.Copy(h, NewZeroes(size).NewReader())
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}
