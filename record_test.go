package limlog

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRecordBuilderPublishesExactByteCount(t *testing.T) {
	ring := NewRingBuffer(256)
	b := newRecordBuilder(ring)

	require.NoError(t, b.AppendString("hello "))
	require.NoError(t, b.AppendString("world"))
	require.NoError(t, b.Finish())

	require.EqualValues(t, len("hello world"), ring.Consumable())

	dst := make([]byte, ring.Consumable())
	n := ring.Consume(dst)
	require.Equal(t, "hello world", string(dst[:n]))
}

func TestRecordBuilderRejectsOversizedRecordWithoutSpinning(t *testing.T) {
	ring := NewRingBuffer(16)
	b := newRecordBuilder(ring)

	err := b.Append(make([]byte, 17))
	require.ErrorIs(t, err, ErrRecordTooLarge)
	require.ErrorIs(t, b.Finish(), ErrRecordTooLarge)
	require.EqualValues(t, 0, ring.Consumable(), "an overflowed record must never be published")
}

func TestRecordBuilderOverflowIsSticky(t *testing.T) {
	ring := NewRingBuffer(16)
	b := newRecordBuilder(ring)

	_ = b.Append(make([]byte, 20))
	require.True(t, b.overflowed)

	err := b.AppendString("more")
	require.ErrorIs(t, err, ErrRecordTooLarge)
}

func TestRecordBuilderRejectsOverflowOnLaterAppendWithoutOrphaningEarlierBytes(t *testing.T) {
	ring := NewRingBuffer(64)
	b := newRecordBuilder(ring)

	require.NoError(t, b.AppendString("header-that-fits"))
	err := b.Append(make([]byte, 60))
	require.ErrorIs(t, err, ErrRecordTooLarge)
	require.ErrorIs(t, b.Finish(), ErrRecordTooLarge)
	require.EqualValues(t, 0, ring.Consumable(), "no bytes from the overflowed record should be visible")
	require.EqualValues(t, 0, ring.Used(), "the ring must not retain orphaned unpublished bytes")

	next := newRecordBuilder(ring)
	require.NoError(t, next.AppendString("next record"))
	require.NoError(t, next.Finish())

	dst := make([]byte, ring.Consumable())
	n := ring.Consume(dst)
	require.Equal(t, "next record", string(dst[:n]), "the following record must not have orphaned bytes prepended")
}

func TestAssembleRecordDropsEntirelyWhenPayloadOverflows(t *testing.T) {
	ring := NewRingBuffer(64)
	err := assembleRecord(ring, recordFields{
		level:     LevelInfo,
		timestamp: time.Date(2021, 10, 10, 13, 46, 58, 123456000, time.UTC),
		precision: PrecisionMicrosecond,
		tid:       42,
		location:  "main.go:7",
		payload: func(b *RecordBuilder) error {
			return b.AppendString(strings.Repeat("x", 64))
		},
	})
	require.ErrorIs(t, err, ErrRecordTooLarge)
	require.EqualValues(t, 0, ring.Consumable())
	require.EqualValues(t, 0, ring.Used())
}

func TestAssembleRecordWireFormat(t *testing.T) {
	ring := NewRingBuffer(1024)
	ts := time.Date(2021, 10, 10, 13, 46, 58, 123456000, time.UTC)

	err := assembleRecord(ring, recordFields{
		level:     LevelInfo,
		timestamp: ts,
		precision: PrecisionMicrosecond,
		tid:       42,
		location:  "main.go:7",
		payload: func(b *RecordBuilder) error {
			return b.AppendString("hello world")
		},
	})
	require.NoError(t, err)

	dst := make([]byte, ring.Consumable())
	n := ring.Consume(dst)
	line := string(dst[:n])

	require.True(t, strings.HasSuffix(line, "\n"))
	require.Equal(t, "INFO  2021-10-10T13:46:58.123456Z 42 main.go:7 hello world\n", line)
}

func TestAssembleRecordOmitsMissingOptionalTokens(t *testing.T) {
	ring := NewRingBuffer(1024)
	err := assembleRecord(ring, recordFields{
		level:     LevelWarn,
		timestamp: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
		precision: PrecisionSecond,
		tid:       1,
		payload: func(b *RecordBuilder) error {
			return b.AppendString("no location, no trace")
		},
	})
	require.NoError(t, err)

	dst := make([]byte, ring.Consumable())
	n := ring.Consume(dst)
	require.Equal(t, "WARN  2021-01-01T00:00:00Z 1 no location, no trace\n", string(dst[:n]))
}
