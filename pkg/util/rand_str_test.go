package util

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandStrLengthAndCharset(t *testing.T) {
	for _, n := range []int{1, 10, 64} {
		s := RandStr(n)
		require.Len(t, s, n)
		for _, r := range s {
			assert.Contains(t, charset, string(r))
		}
	}
}

// Simultaneous uploads all generate object keys at once; the random
// segment has to stay well-formed and unique under that load or two
// uploads could collide on the storage key.
func TestObjectKeyConcurrent(t *testing.T) {
	const (
		goroutines = 8
		perG       = 100
	)

	keys := make(chan string, goroutines*perG)

	var wg sync.WaitGroup
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perG {
				keys <- ObjectKey("a.txt")
			}
		}()
	}
	wg.Wait()
	close(keys)

	seen := make(map[string]struct{}, goroutines*perG)
	for k := range keys {
		_, dup := seen[k]
		require.False(t, dup, "duplicate object key %q", k)
		seen[k] = struct{}{}
	}
	require.Len(t, seen, goroutines*perG)
}
