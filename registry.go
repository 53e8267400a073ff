package limlog

import (
	"runtime"
	"strconv"
	"sync"
)

// BufferRegistry is the process-wide, append-only list of live RingBuffers,
// one per producer goroutine that has ever emitted a record. It mirrors the
// original LimLog's threadBuffers_ vector plus bufferMutex_.
type BufferRegistry struct {
	mu      sync.Mutex
	buffers []*RingBuffer

	byGoroutine sync.Map // goroutine id (uint64) -> *RingBuffer
	ringSize    int
}

// NewBufferRegistry creates an empty registry. ringSize configures the
// capacity given to each lazily-created RingBuffer (see NewRingBuffer).
func NewBufferRegistry(ringSize int) *BufferRegistry {
	return &BufferRegistry{ringSize: ringSize}
}

// Producer returns the calling goroutine's RingBuffer, creating and
// registering one on first use. Go has no native thread-local storage, so
// the buffer is keyed by the calling goroutine's runtime id, extracted from
// runtime.Stack the same way real-world Go loggers (e.g. the
// goroutine-id-keyed logger in this retrieval pack) derive a per-goroutine
// identity without cgo or unsafe.
func (reg *BufferRegistry) Producer() *RingBuffer {
	gid := goroutineID()
	if v, ok := reg.byGoroutine.Load(gid); ok {
		return v.(*RingBuffer)
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	// Re-check under the lock: another goroutine cannot have raced us for
	// the same gid, but a concurrent registration for a different gid could
	// have grown the slice between our Load and taking the lock.
	if v, ok := reg.byGoroutine.Load(gid); ok {
		return v.(*RingBuffer)
	}

	ring := NewRingBuffer(reg.ringSize)
	reg.buffers = append(reg.buffers, ring)
	reg.byGoroutine.Store(gid, ring)
	return ring
}

// Snapshot returns the currently registered buffers in registration order.
// The caller holds no lock across the returned slice; buffers are never
// removed from the registry during normal operation; a per-goroutine buffer
// is drained by the sink even after its producing goroutine exits.
func (reg *BufferRegistry) Snapshot() []*RingBuffer {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	out := make([]*RingBuffer, len(reg.buffers))
	copy(out, reg.buffers)
	return out
}

// Range calls f once per registered buffer, in registration order, holding
// the registry mutex for the whole pass so a concurrent Producer() call
// cannot mutate the slice underfoot. f returning false stops the pass early
// (used by the sink when its output buffer is full).
func (reg *BufferRegistry) Range(f func(*RingBuffer) bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	for _, ring := range reg.buffers {
		if !f(ring) {
			return
		}
	}
}

// Len reports how many buffers are registered.
func (reg *BufferRegistry) Len() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.buffers)
}

// goroutineID extracts the numeric id runtime.Stack prints as the first
// token of a goroutine's stack dump ("goroutine 37 [running]: ..."). It is
// not part of any Go API contract, but its format has been stable across Go
// releases and is the standard technique loggers and tracers reach for when
// they need a stable per-goroutine key without cgo.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	line := buf[:n]

	const prefix = "goroutine "
	if len(line) <= len(prefix) {
		return 0
	}
	line = line[len(prefix):]

	end := 0
	for end < len(line) && line[end] != ' ' {
		end++
	}

	id, err := strconv.ParseUint(string(line[:end]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
