/*
 * Copyright (c) 2026, OGLoad Contributors.
 */
package multipart

import "testing"

func TestNewSessionComputesPartSizing(t *testing.T) {
	s := newSession("u1", "c", "o", 250, 100, 2)
	if s.totalParts != 3 {
		t.Fatalf("totalParts = %d, want 3", s.totalParts)
	}
	if s.lastPartSize != 50 {
		t.Fatalf("lastPartSize = %d, want 50", s.lastPartSize)
	}
	if got := s.partSizeFor(1); got != 100 {
		t.Fatalf("partSizeFor(1) = %d, want 100", got)
	}
	if got := s.partSizeFor(3); got != 50 {
		t.Fatalf("partSizeFor(3) = %d, want 50", got)
	}
}

func TestNewSessionEvenlyDivisibleUsesFullFinalPart(t *testing.T) {
	s := newSession("u1", "c", "o", 200, 100, 2)
	if s.totalParts != 2 {
		t.Fatalf("totalParts = %d, want 2", s.totalParts)
	}
	if s.lastPartSize != 100 {
		t.Fatalf("lastPartSize = %d, want 100", s.lastPartSize)
	}
}

func TestSessionNextReflectsCapacityAndCompletion(t *testing.T) {
	s := newSession("u1", "c", "o", 100, 50, 1)
	if s.next() != actionPart {
		t.Fatalf("next() = %v, want actionPart", s.next())
	}
	s.takePart()
	if s.next() != actionInternalPending {
		t.Fatalf("next() at capacity = %v, want actionInternalPending", s.next())
	}
	s.completePart(1, "etag1")
	if s.next() != actionPart {
		t.Fatalf("next() after completing part 1 = %v, want actionPart", s.next())
	}
	s.takePart()
	s.completePart(2, "etag2")
	if s.next() != actionComplete {
		t.Fatalf("next() after all parts complete = %v, want actionComplete", s.next())
	}
}

func TestSortedPartsOrdersByPartNumber(t *testing.T) {
	s := newSession("u1", "c", "o", 300, 100, 3)
	s.completePart(3, "e3")
	s.completePart(1, "e1")
	s.completePart(2, "e2")
	parts := s.sortedParts()
	want := []int{1, 2, 3}
	for i, p := range parts {
		if p.partNumber != want[i] {
			t.Fatalf("parts[%d].partNumber = %d, want %d", i, p.partNumber, want[i])
		}
	}
}
