//go:build !linux

package limlog

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOSThreadIDFallbackStablePerGoroutine(t *testing.T) {
	first := osThreadID()
	second := osThreadID()
	require.Equal(t, first, second)
}

func TestOSThreadIDFallbackDistinctAcrossGoroutines(t *testing.T) {
	const n = 8
	ids := make([]uint64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = osThreadID()
		}(i)
		wg.Wait() // each goroutine runs to completion before the next starts
	}

	seen := make(map[uint64]bool, n)
	for _, id := range ids {
		seen[id] = true
	}
	require.Len(t, seen, n, "the fallback counter assigns a distinct id per goroutine")
}
