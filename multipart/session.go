/*
 * Copyright (c) 2026, OGLoad Contributors.
 */
package multipart

import (
	"sort"
	"sync"

	"github.com/ogload/ogload/cmn/debug"
)

// state is a session's externally-visible lifecycle state (spec.md §4.4).
type state int

const (
	stateInitPending state = iota
	stateActive
	stateCompletePending
	stateDone
	stateAborted
)

// action is what a session's selector says should happen next; only
// actionPart and actionComplete ever become an emitted request.
type action int

const (
	actionPart action = iota
	actionComplete
	actionInternalPending
	actionInternalDone
	actionInternalError
)

type completedPart struct {
	partNumber int
	etag       string
}

// session tracks one multipart upload from INITIATE response through
// COMPLETE. All mutation happens under mu, held briefly by the Manager
// while it consults or advances a session (spec.md §5: selector serializes
// through a single lock; part execution itself is parallel).
type session struct {
	mu sync.Mutex

	uploadID  string
	container string
	object    string

	partSize           int64
	totalParts         int
	lastPartSize       int64
	maxConcurrentParts int

	nextPartNumber  int
	inProgressParts int
	completed       []completedPart
	state           state
}

func newSession(uploadID, container, object string, objectSize, partSize int64, maxConcurrentParts int) *session {
	totalParts := 1
	lastPartSize := objectSize
	if partSize > 0 && objectSize > 0 {
		totalParts = int((objectSize + partSize - 1) / partSize)
		lastPartSize = objectSize % partSize
		if lastPartSize == 0 {
			lastPartSize = partSize
		}
	}
	return &session{
		uploadID:           uploadID,
		container:          container,
		object:             object,
		partSize:           partSize,
		totalParts:         totalParts,
		lastPartSize:       lastPartSize,
		maxConcurrentParts: maxConcurrentParts,
		nextPartNumber:     1,
		state:              stateActive,
	}
}

// next is the internal selector (spec.md §4.4): decides the session's next
// action without mutating state for anything but the part fields that
// belong to the caller's subsequent emit.
func (s *session) next() action {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case stateActive:
		if s.nextPartNumber <= s.totalParts && s.inProgressParts < s.maxConcurrentParts {
			return actionPart
		}
		if len(s.completed) == s.totalParts {
			return actionComplete
		}
		return actionInternalPending
	case stateCompletePending:
		return actionInternalPending
	case stateAborted:
		return actionInternalError
	default:
		return actionInternalDone
	}
}

// partSizeFor returns the size of partNumber (1-based), applying
// lastPartSize to the final part (spec.md §4.4: "part sizing").
func (s *session) partSizeFor(partNumber int) int64 {
	if partNumber == s.totalParts {
		return s.lastPartSize
	}
	return s.partSize
}

// takePart reserves the next part number for emission, under s.mu.
func (s *session) takePart() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	debug.Assertf(s.nextPartNumber <= s.totalParts, "multipart: nextPartNumber %d exceeds totalParts %d for upload %s", s.nextPartNumber, s.totalParts, s.uploadID)
	debug.Assertf(s.inProgressParts < s.maxConcurrentParts, "multipart: inProgressParts %d at cap %d for upload %s", s.inProgressParts, s.maxConcurrentParts, s.uploadID)
	n := s.nextPartNumber
	s.nextPartNumber++
	s.inProgressParts++
	return n
}

// completePart records a finished part's ETag.
func (s *session) completePart(partNumber int, etag string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inProgressParts--
	if s.inProgressParts < 0 {
		s.inProgressParts = 0
	}
	s.completed = append(s.completed, completedPart{partNumber: partNumber, etag: etag})
	debug.Assertf(len(s.completed)+s.inProgressParts <= s.totalParts, "multipart: finishedParts %d + inProgressParts %d exceeds totalParts %d for upload %s", len(s.completed), s.inProgressParts, s.totalParts, s.uploadID)
}

// markCompletePending transitions the session once COMPLETE has been
// emitted, so the selector stops offering it further actions.
func (s *session) markCompletePending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = stateCompletePending
}

func (s *session) markAborted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = stateAborted
}

// sortedParts returns the completed parts ordered by part number, draining
// the priority queue described in spec.md §4.4 ("draining the priority
// queue in part-number order").
func (s *session) sortedParts() []completedPart {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]completedPart, len(s.completed))
	copy(out, s.completed)
	sort.Slice(out, func(i, j int) bool { return out[i].partNumber < out[j].partNumber })
	return out
}
