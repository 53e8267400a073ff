package limlog

import (
	"path/filepath"
	"runtime"
	"strings"
)

// callerLocation returns "<file>:<line>" for the frame skip levels above
// its own caller, or ("", false) if the frame cannot be resolved. It backs
// the optional location token in the wire format.
func callerLocation(skip int) (string, bool) {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "", false
	}
	return filepath.Base(file) + ":" + itoaSmall(line), true
}

// itoaSmall avoids pulling strconv into a call site that already imports
// it elsewhere just for a small non-negative int; kept local since a line
// number is always small and non-negative.
func itoaSmall(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// callChain returns up to depth function names, outer to inner, describing
// the goroutine's call stack above skip frames, joined by " -> ".
// TraceDepth controls how many frames are captured; 0 disables tracing
// entirely.
func callChain(depth, skip int) string {
	if depth <= 0 {
		return ""
	}

	pc := make([]uintptr, depth+skip)
	n := runtime.Callers(skip+1, pc)
	if n == 0 {
		return "(unknown)"
	}

	frames := runtime.CallersFrames(pc[:n])
	names := make([]string, 0, depth)
	for count := 0; count < depth; count++ {
		frame, more := frames.Next()
		names = append(names, simplifyFuncName(frame.Function))
		if !more {
			break
		}
	}

	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, " -> ")
}

// simplifyFuncName reduces a fully-qualified function name to its base and
// marks anonymous closures ("funcN") distinctly.
func simplifyFuncName(full string) string {
	base := full
	if idx := strings.LastIndexByte(base, '/'); idx >= 0 {
		base = base[idx+1:]
	}

	parts := strings.Split(base, ".")
	last := parts[len(parts)-1]
	if strings.HasPrefix(last, "func") && isDigits(last[4:]) {
		return "(anonymous " + base + ")"
	}
	return base
}

func isDigits(s string) bool {
	if s == "" {
		return true
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
