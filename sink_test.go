package limlog

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// collectingWriter records every byte slice handed to it, safe for
// concurrent use by test assertions running alongside the sink goroutine.
type collectingWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *collectingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

func (w *collectingWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.String()
}

func TestSinkEngineDrainsRegisteredBuffers(t *testing.T) {
	registry := NewBufferRegistry(256)
	writer := &collectingWriter{}
	sink := NewSinkEngine(writer, registry, 4096)
	sink.Start()

	ring := registry.Producer()
	require.NoError(t, assembleRecord(ring, recordFields{
		level:     LevelInfo,
		precision: PrecisionSecond,
		tid:       1,
		payload: func(b *RecordBuilder) error {
			return b.AppendString("hello")
		},
	}))

	sink.Shutdown()

	require.Contains(t, writer.String(), "hello")
	require.EqualValues(t, 1, sink.SinkCount())
}

func TestSinkEngineShutdownDrainsEverythingPublishedBeforehand(t *testing.T) {
	registry := NewBufferRegistry(256)
	writer := &collectingWriter{}
	sink := NewSinkEngine(writer, registry, 4096)
	sink.Start()

	const records = 200
	ring := registry.Producer()
	for i := 0; i < records; i++ {
		require.NoError(t, assembleRecord(ring, recordFields{
			level:     LevelInfo,
			precision: PrecisionSecond,
			tid:       1,
			payload: func(b *RecordBuilder) error {
				return b.AppendString("x")
			},
		}))
	}

	sink.Shutdown()

	out := writer.String()
	count := 0
	for i := 0; i < len(out); i++ {
		if out[i] == '\n' {
			count++
		}
	}
	require.Equal(t, records, count)
}

func TestSinkEngineShutdownIsSafeWithNoTraffic(t *testing.T) {
	registry := NewBufferRegistry(256)
	writer := &collectingWriter{}
	sink := NewSinkEngine(writer, registry, 4096)
	sink.Start()
	sink.Shutdown()
	require.Empty(t, writer.String())
}

func TestSinkEngineMultipleProducersAllDrained(t *testing.T) {
	registry := NewBufferRegistry(256)
	writer := &collectingWriter{}
	sink := NewSinkEngine(writer, registry, 1<<16)
	sink.Start()

	const producers = 10
	const perProducer = 100
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			ring := registry.Producer()
			for i := 0; i < perProducer; i++ {
				_ = assembleRecord(ring, recordFields{
					level:     LevelInfo,
					precision: PrecisionSecond,
					tid:       uint64(p),
					payload: func(b *RecordBuilder) error {
						return b.AppendString("m")
					},
				})
			}
		}(p)
	}
	wg.Wait()

	sink.Shutdown()

	out := writer.String()
	count := 0
	for i := 0; i < len(out); i++ {
		if out[i] == '\n' {
			count++
		}
	}
	require.Equal(t, producers*perProducer, count)
}
