package limlog

import "strconv"

// appendInt and appendUint convert an integer to its decimal textual form
// and append it to dst. They are thin, independently testable wrappers
// over strconv rather than a hand-rolled itoa (see DESIGN.md).
func appendInt(dst []byte, v int64) []byte {
	return strconv.AppendInt(dst, v, 10)
}

func appendUint(dst []byte, v uint64) []byte {
	return strconv.AppendUint(dst, v, 10)
}
