package malloc

import "testing"
import "unsafe"
import "sync"

import "github.com/stretchr/testify/assert"

// Arena itself is not thread safe (see package doc); callers that share
// one across goroutines must serialize access, exactly as region.Manager
// does around its refill mutex. This test exercises that pattern.
func TestConcurGuardedArena(t *testing.T) {
	var mu sync.Mutex
	var wg sync.WaitGroup

	arena := NewArena(testconfig(32, 4096))
	defer arena.Release()

	nroutines, repeat := 16, 2000
	ptrsCh := make(chan unsafe.Pointer, nroutines*repeat)

	wg.Add(nroutines)
	for n := 0; n < nroutines; n++ {
		go func() {
			defer wg.Done()
			for i := 0; i < repeat; i++ {
				mu.Lock()
				ptr, _ := arena.Alloc(96)
				mu.Unlock()
				ptrsCh <- ptr
			}
		}()
	}
	wg.Wait()
	close(ptrsCh)

	count := 0
	for ptr := range ptrsCh {
		assert.NotNil(t, ptr)
		count++
	}
	assert.Equal(t, nroutines*repeat, count)
}
