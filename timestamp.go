package limlog

import "time"

// TimestampPrecision selects the fractional-second resolution used when a
// record's timestamp is rendered. All precisions render as RFC 3339 with a
// 'Z' suffix for UTC or a numeric offset otherwise. Rotated backup
// filenames always use the fixed microsecond backupTimestampLayout.
type TimestampPrecision int

const (
	PrecisionSecond TimestampPrecision = iota
	PrecisionMillisecond
	PrecisionMicrosecond
	PrecisionNanosecond
)

// layouts mirror time.RFC3339 at increasing fractional-second widths.
var layouts = [...]string{
	PrecisionSecond:      "2006-01-02T15:04:05Z07:00",
	PrecisionMillisecond: "2006-01-02T15:04:05.000Z07:00",
	PrecisionMicrosecond: "2006-01-02T15:04:05.000000Z07:00",
	PrecisionNanosecond:  "2006-01-02T15:04:05.000000000Z07:00",
}

// formatTimestamp renders t as RFC 3339 at the given precision.
func formatTimestamp(t time.Time, precision TimestampPrecision) string {
	if int(precision) >= len(layouts) {
		precision = PrecisionMicrosecond
	}
	return t.Format(layouts[precision])
}

// backupTimestampLayout is the fixed microsecond-precision RFC 3339 layout
// used to name rotated backup files, e.g.
// "limlog_2021-10-10T13:46:58.123456Z.log". The embedded ':' is a valid
// POSIX filename character; it is only Windows filesystems that reject it.
const backupTimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

func formatBackupTimestamp(t time.Time) string {
	return t.UTC().Format(backupTimestampLayout)
}

func parseBackupTimestamp(s string) (time.Time, error) {
	return time.Parse(backupTimestampLayout, s)
}
