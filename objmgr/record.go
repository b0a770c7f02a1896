// Package objmgr implements the persistent, content-addressed object-name
// population (spec.md §4.1, component "Object Manager"): write-completed
// insert, non-exclusive read borrow, exclusive delete borrow, and release.
/*
 * Copyright (c) 2026, OGLoad Contributors.
 */
package objmgr

import (
	"encoding/binary"

	"github.com/ogload/ogload/cmn"
)

// nameWidth is the on-disk width of the name field. The two invariants
// stated for the Object Record — "18-byte fixed records" and "64 MiB
// segments hold exactly 3,728,270 records" — are only mutually consistent
// at a 9-byte name field (9+1+8=18, and 64MiB/18 floors to exactly
// 3,728,270); a literal 16-byte name field would satisfy neither, so 9 is
// taken as authoritative (see DESIGN.md).
const nameWidth = 9

// RecordSize is the fixed on-disk width of one Object Record: name[9] ∥
// shards[1] ∥ size[8 big-endian] (spec.md §3, §6).
const RecordSize = nameWidth + 1 + 8

// SegmentCap is the number of records a single segment file may hold before
// a new segment is started: 64 MiB / 18 bytes, floored (spec.md §6).
const SegmentCap = (64 * 1024 * 1024) / RecordSize

type record struct {
	name   string // truncated/padded to nameWidth bytes on disk; stored here at full logical length
	shards uint8
	size   uint64
}

// encode writes the on-disk form into buf (len(buf) >= RecordSize).
func (r record) encode(buf []byte) {
	var nameBuf [nameWidth]byte
	copy(nameBuf[:], r.name)
	copy(buf[0:nameWidth], nameBuf[:])
	buf[nameWidth] = r.shards
	binary.BigEndian.PutUint64(buf[nameWidth+1:RecordSize], r.size)
}

func decodeRecord(buf []byte) record {
	name := trimName(buf[0:nameWidth])
	return record{
		name:   name,
		shards: buf[nameWidth],
		size:   binary.BigEndian.Uint64(buf[nameWidth+1 : RecordSize]),
	}
}

func trimName(b []byte) string {
	i := len(b)
	for i > 0 && b[i-1] == 0 {
		i--
	}
	return string(b[:i])
}

// nameFits reports whether name fits the on-disk record width. A name that
// doesn't fit isn't a configuration mistake — request-id-derived names
// (cmn.GenRequestID, shortid output plus its alpha-prepend fallback)
// routinely run past nameWidth at runtime — so the caller tracks it as a
// population skip (spec.md §7), not a fatal setup error.
func nameFits(name string) error {
	if len(name) > nameWidth {
		return cmn.NewError(cmn.ErrClassPopulation, "object name %q exceeds the %d-byte record width", name, nameWidth)
	}
	return nil
}
