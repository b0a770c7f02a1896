/*
 * Copyright (c) 2026, OGLoad Contributors.
 */
package objmgr

import "testing"

func TestRecordEncodeDecodeRoundTrip(t *testing.T) {
	r := record{name: "obj-0001", shards: 3, size: 123456789}
	var buf [RecordSize]byte
	r.encode(buf[:])
	got := decodeRecord(buf[:])
	if got != r {
		t.Fatalf("decodeRecord(encode(r)) = %+v, want %+v", got, r)
	}
}

func TestRecordSizeIs18Bytes(t *testing.T) {
	if RecordSize != 18 {
		t.Fatalf("RecordSize = %d, want 18", RecordSize)
	}
}

func TestSegmentCapMatchesSpec(t *testing.T) {
	if SegmentCap != 3728270 {
		t.Fatalf("SegmentCap = %d, want 3728270", SegmentCap)
	}
}

func TestTrimNameStripsTrailingZeroes(t *testing.T) {
	if got := trimName([]byte{'a', 'b', 0, 0, 0, 0, 0, 0, 0}); got != "ab" {
		t.Fatalf("trimName = %q, want %q", got, "ab")
	}
}
