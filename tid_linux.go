//go:build linux

package limlog

import "golang.org/x/sys/unix"

// osThreadID returns the calling OS thread's kernel thread id via gettid(2).
// On Linux, goroutines are not pinned to OS threads, so this identifies
// whichever thread happens to be running the calling goroutine at the
// moment of the call — it is a best-effort OS thread identifier, not a
// stable per-goroutine key (that role belongs to goroutineID, used for ring
// buffer registration).
func osThreadID() uint64 {
	return uint64(unix.Gettid())
}
