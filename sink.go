package limlog

import (
	"sync"
	"sync/atomic"
	"time"
)

const (
	defaultOutputBufferSize = 16 << 20 // 16 MiB
	sinkPollInterval        = 50 * time.Microsecond
)

// SinkEngine is the single background goroutine that multiplexes every
// registered RingBuffer into one output buffer and hands that buffer to a
// Writer. It runs a three-state machine: running, draining (triggered by
// threadSync), and exiting (triggered by threadExit).
//
// The idle "sleep up to 50µs or until woken" step uses a timer and a
// non-blocking wake channel, since nothing there depends on the wake-up
// beyond the sink eventually running another pass. The threadSync/drained handshake that Shutdown depends on,
// by contrast, is driven entirely by cond, a sync.Cond guarding ctrlMu: both
// the state changes and the wait loop that observes them happen under the
// same lock, so a signal can never be generated or consumed out of order
// with the state it reports on, the way a plain channel token could be.
type SinkEngine struct {
	writer   atomic.Value // holds Writer
	registry *BufferRegistry

	outputBuffer []byte
	// doubleBuffer is a second scratch allocation kept for memory-footprint
	// parity with the drain path; it is never swapped into active use.
	doubleBuffer    []byte
	perConsumeBytes uint32
	outputFull      bool

	ctrlMu     sync.Mutex
	cond       *sync.Cond
	threadSync bool
	threadExit bool
	drained    bool // set once an idle pass observes threadSync already false

	wakeCh chan struct{}
	done   chan struct{}

	sinkCount         atomic.Uint64
	totalSinkMicros   atomic.Uint64
	totalConsumeBytes atomic.Uint64
}

// NewSinkEngine creates a sink bound to writer and registry. bufferSize <=0
// selects the 16 MiB default for both scratch buffers.
func NewSinkEngine(writer Writer, registry *BufferRegistry, bufferSize int) *SinkEngine {
	if bufferSize <= 0 {
		bufferSize = defaultOutputBufferSize
	}
	s := &SinkEngine{
		registry:     registry,
		outputBuffer: make([]byte, bufferSize),
		doubleBuffer: make([]byte, bufferSize),
		wakeCh:       make(chan struct{}, 1),
		done:         make(chan struct{}),
	}
	s.cond = sync.NewCond(&s.ctrlMu)
	s.writer.Store(writer)
	return s
}

// SetWriter installs a new Writer for the sink to use on its next drain.
// Safe to call concurrently with a running sink goroutine.
func (s *SinkEngine) SetWriter(w Writer) {
	s.writer.Store(w)
}

// Start launches the background goroutine. Call once.
func (s *SinkEngine) Start() {
	go s.run()
}

func (s *SinkEngine) run() {
	for {
		s.ctrlMu.Lock()
		exit := s.threadExit
		s.ctrlMu.Unlock()
		if exit {
			close(s.done)
			return
		}

		s.copyPhase()

		if s.perConsumeBytes == 0 {
			s.ctrlMu.Lock()
			if s.threadSync {
				s.threadSync = false
				s.ctrlMu.Unlock()
				continue // one guaranteed extra pass before signaling empty
			}
			s.drained = true
			s.cond.Broadcast()
			s.ctrlMu.Unlock()

			timer := time.NewTimer(sinkPollInterval)
			select {
			case <-s.wakeCh:
				timer.Stop()
			case <-timer.C:
			}
			continue
		}

		start := time.Now()
		s.writer.Load().(Writer).Write(s.outputBuffer[:s.perConsumeBytes])
		elapsed := time.Since(start)

		s.totalSinkMicros.Add(uint64(elapsed.Microseconds()))
		s.sinkCount.Add(1)
		s.totalConsumeBytes.Add(uint64(s.perConsumeBytes))
		s.perConsumeBytes = 0
		s.outputFull = false
	}
}

// copyPhase drains every registered buffer's consumable bytes into the
// output buffer, in registration order, stopping early if the output
// buffer would overflow.
func (s *SinkEngine) copyPhase() {
	s.registry.Range(func(ring *RingBuffer) bool {
		c := ring.Consumable()
		if uint32(len(s.outputBuffer))-s.perConsumeBytes < c {
			s.outputFull = true
			return false
		}
		if c > 0 {
			n := ring.Consume(s.outputBuffer[s.perConsumeBytes : s.perConsumeBytes+c])
			s.perConsumeBytes += n
		}
		return true
	})
}

// Shutdown forces one full empty-observing pass (guaranteeing every record
// published before this call is flushed), then stops the goroutine and
// waits for it to exit.
func (s *SinkEngine) Shutdown() {
	s.ctrlMu.Lock()
	// Clearing drained here, in the same critical section that sets
	// threadSync, invalidates any drained==true left over from a pass that
	// ran before this call: the sink is required to complete a fresh
	// guaranteed-extra-pass cycle and broadcast again before the Wait below
	// can return.
	s.drained = false
	s.threadSync = true
	s.ctrlMu.Unlock()
	notify(s.wakeCh)

	s.ctrlMu.Lock()
	for !s.drained {
		s.cond.Wait()
	}
	s.ctrlMu.Unlock()

	s.ctrlMu.Lock()
	s.threadExit = true
	s.ctrlMu.Unlock()
	notify(s.wakeCh)

	<-s.done
}

func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// SinkCount, TotalSinkMicros, and TotalConsumeBytes back StatsSnapshot.
func (s *SinkEngine) SinkCount() uint64         { return s.sinkCount.Load() }
func (s *SinkEngine) TotalSinkMicros() uint64   { return s.totalSinkMicros.Load() }
func (s *SinkEngine) TotalConsumeBytes() uint64 { return s.totalConsumeBytes.Load() }
