package limlog

import (
	"errors"
	"time"
)

// ErrRecordTooLarge is returned when a record's accumulated byte count
// would exceed its ring buffer's fixed capacity. The record is dropped:
// none of its bytes are produced into the ring, so nothing of it is ever
// delivered to the writer.
var ErrRecordTooLarge = errors.New("limlog: record exceeds ring buffer capacity")

// RecordBuilder accumulates the bytes of exactly one record into a scratch
// buffer and, on Finish, copies the whole record into the producer's
// RingBuffer with a single Produce call before atomically publishing it.
// Nothing reaches the ring until the final size is known to fit, so an
// oversized record never advances producePos and never leaves orphaned,
// unpublished bytes ahead of the next record.
type RecordBuilder struct {
	ring       *RingBuffer
	buf        []byte
	overflowed bool
}

// newRecordBuilder starts assembling a record for the given ring.
func newRecordBuilder(ring *RingBuffer) *RecordBuilder {
	return &RecordBuilder{ring: ring}
}

// Append writes p as the next chunk of the current record. Once a record
// has overflowed, further Append calls are no-ops that keep returning
// ErrRecordTooLarge.
func (b *RecordBuilder) Append(p []byte) error {
	if b.overflowed {
		return ErrRecordTooLarge
	}
	if len(p) == 0 {
		return nil
	}

	newTotal := len(b.buf) + len(p)
	if uint32(newTotal) > b.ring.Size() || newTotal < len(b.buf) /* int overflow */ {
		b.overflowed = true
		b.buf = nil
		return ErrRecordTooLarge
	}

	b.buf = append(b.buf, p...)
	return nil
}

// AppendString is a convenience wrapper avoiding a []byte(s) allocation at
// call sites that already hold a string.
func (b *RecordBuilder) AppendString(s string) error {
	return b.Append([]byte(s))
}

// Finish copies the accumulated record into the ring in one Produce call
// and publishes it, or returns ErrRecordTooLarge without touching the ring
// at all if the record ever overflowed.
func (b *RecordBuilder) Finish() error {
	if b.overflowed {
		return ErrRecordTooLarge
	}
	n := uint32(len(b.buf))
	if n == 0 {
		return nil
	}
	b.ring.Produce(b.buf)
	b.ring.AdvanceConsumable(n)
	return nil
}

// recordFields carries the pieces the facade assembles into the wire
// format:
//
//	<LEVEL5> <TIMESTAMP> <tid>[ <file>:<line>][ <trace>] <payload>\n
type recordFields struct {
	level     Level
	timestamp time.Time
	precision TimestampPrecision
	tid       uint64
	location  string // "" if none
	trace     string // "" if tracing disabled
	payload   func(*RecordBuilder) error
}

// assembleRecord writes fields into ring via a RecordBuilder and publishes
// it. Any error aborts and drops the record without partial publication.
func assembleRecord(ring *RingBuffer, f recordFields) error {
	b := newRecordBuilder(ring)

	if err := b.AppendString(f.level.String()); err != nil {
		return err
	}
	if err := b.AppendString(" "); err != nil {
		return err
	}
	if err := b.AppendString(formatTimestamp(f.timestamp, f.precision)); err != nil {
		return err
	}
	if err := b.AppendString(" "); err != nil {
		return err
	}

	var tidBuf [20]byte
	if err := b.Append(appendUint(tidBuf[:0], f.tid)); err != nil {
		return err
	}

	if f.location != "" {
		if err := b.AppendString(" "); err != nil {
			return err
		}
		if err := b.AppendString(f.location); err != nil {
			return err
		}
	}

	if f.trace != "" {
		if err := b.AppendString(" "); err != nil {
			return err
		}
		if err := b.AppendString(f.trace); err != nil {
			return err
		}
	}

	if err := b.AppendString(" "); err != nil {
		return err
	}
	if f.payload != nil {
		if err := f.payload(b); err != nil {
			return err
		}
	}
	if err := b.AppendString("\n"); err != nil {
		return err
	}

	return b.Finish()
}
