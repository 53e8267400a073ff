package limlog

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBufferRegistryProducerIsStablePerGoroutine(t *testing.T) {
	reg := NewBufferRegistry(64)

	first := reg.Producer()
	second := reg.Producer()
	require.Same(t, first, second, "repeated calls on the same goroutine must return the same ring")
}

func TestBufferRegistryProducerIsDistinctAcrossGoroutines(t *testing.T) {
	reg := NewBufferRegistry(64)

	var wg sync.WaitGroup
	rings := make([]*RingBuffer, 8)
	for i := range rings {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rings[i] = reg.Producer()
		}(i)
	}
	wg.Wait()

	seen := make(map[*RingBuffer]bool)
	for _, r := range rings {
		require.NotNil(t, r)
		seen[r] = true
	}
	require.Len(t, seen, len(rings), "each goroutine must be assigned its own ring")
	require.Equal(t, len(rings), reg.Len())
}

func TestBufferRegistryRangeVisitsRegistrationOrder(t *testing.T) {
	reg := NewBufferRegistry(64)

	var want []*RingBuffer
	var wg sync.WaitGroup
	var mu sync.Mutex
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := reg.Producer()
			mu.Lock()
			want = append(want, r)
			mu.Unlock()
		}()
		wg.Wait() // force sequential registration so order is deterministic
	}

	var got []*RingBuffer
	reg.Range(func(r *RingBuffer) bool {
		got = append(got, r)
		return true
	})

	require.Equal(t, want, got)
}

func TestBufferRegistryRangeStopsEarly(t *testing.T) {
	reg := NewBufferRegistry(64)
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reg.Producer()
		}()
		wg.Wait()
	}
	require.Equal(t, 5, reg.Len())

	visited := 0
	reg.Range(func(r *RingBuffer) bool {
		visited++
		return false
	})
	require.Equal(t, 1, visited)
}
