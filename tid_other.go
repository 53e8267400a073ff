//go:build !linux

package limlog

import "sync"

// osThreadID falls back to a process-unique counter on platforms where
// gettid(2) has no equivalent through golang.org/x/sys/unix. Each goroutine
// is assigned its counter value once, on first use, so the field remains a
// stable per-goroutine identifier for the life of the process, matching
// what the Linux build gets from a real (if goroutine-mobile) OS thread id.
var (
	tidMu      sync.Mutex
	tidCounter uint64
	tidByGID   = map[uint64]uint64{}
)

func osThreadID() uint64 {
	gid := goroutineID()

	tidMu.Lock()
	defer tidMu.Unlock()
	if id, ok := tidByGID[gid]; ok {
		return id
	}
	tidCounter++
	tidByGID[gid] = tidCounter
	return tidCounter
}
