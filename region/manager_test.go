package region

import "testing"

import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

import "github.com/bnclabs/heapcore/api"
import "github.com/bnclabs/heapcore/lib"

// newTestManager builds a Manager with the literal values used
// throughout spec.md §8's end-to-end scenarios: an 8-byte word,
// LargeObjectsMinSize=4096, FreeChunkMinSize=512. capacity and
// collector vary per test.
func newTestManager(capacity int64, collector api.Collector) *Manager {
	config := lib.Config{
		"region.largeobjectsminsize": int64(4096),
		"region.freechunkminsize":    int64(512),
	}
	return New(capacity, collector, config)
}

// Scenario 1: after Initialize, tiny bounds span the first 1KiB,
// small bounds span the rest, large bounds are empty and the
// free-chunk list head is zero.
func TestScenarioInit(t *testing.T) {
	mgr := newTestManager(64*1024, nil)
	defer mgr.Release()

	base := mgr.Base()
	assert.Equal(t, base, mgr.tiny.Start())
	assert.Equal(t, base.Add(1024), mgr.tiny.End())
	assert.Equal(t, base.Add(1024), mgr.small.Start())
	assert.Equal(t, base.Add(64*1024), mgr.small.End())
	assert.Equal(t, api.Address(0), mgr.large.Start())
	assert.Equal(t, api.Address(0), mgr.large.End())
	assert.Equal(t, api.Address(0), mgr.freelist.head)
	assert.True(t, api.IsAligned(int64(base), api.RegionAlignment))
}

// Scenario 2: 100 sequential allocations of 64 bytes each succeed and
// advance the small mark by exactly 6400 bytes.
func TestScenarioSmallSequential(t *testing.T) {
	mgr := newTestManager(64*1024, nil)
	defer mgr.Release()

	start := mgr.small.Start()
	seen := map[api.Address]bool{}
	for i := 0; i < 100; i++ {
		addr, err := mgr.Allocate(64)
		require.NoError(t, err)
		assert.False(t, seen[addr])
		seen[addr] = true
	}
	assert.Equal(t, start.Add(6400), mgr.small.Mark())
}

// Scenario 3: two goroutines each performing 10000 allocations of 16
// bytes land the small mark at start+320000 bytes, all disjoint.
func TestScenarioConcurrentSmall(t *testing.T) {
	mgr := newTestManager(1024*1024, nil)
	defer mgr.Release()

	start := mgr.small.Start()
	const perGoroutine = 10000

	results := make(chan api.Address, 2*perGoroutine)
	for g := 0; g < 2; g++ {
		go func() {
			for i := 0; i < perGoroutine; i++ {
				addr, err := mgr.Allocate(16)
				require.NoError(t, err)
				results <- addr
			}
		}()
	}

	seen := map[api.Address]bool{}
	for i := 0; i < 2*perGoroutine; i++ {
		addr := <-results
		require.False(t, seen[addr], "address %#x seen twice", uintptr(addr))
		seen[addr] = true
	}
	assert.Equal(t, 2*perGoroutine, len(seen))
	assert.Equal(t, start.Add(2*perGoroutine*16), mgr.small.Mark())
}

// Scenario 4: after 1024/16 = 64 tiny allocations the tiny pool is
// exhausted; the 65th allocation refills it from a fresh 1KiB,
// 1KiB-aligned chunk carved out of the small allocator.
func TestScenarioTinyRefill(t *testing.T) {
	mgr := newTestManager(128*1024, nil)
	defer mgr.Release()

	originalPool := mgr.tiny.Start()
	perPool := int(1024 / api.TinyCellSize)

	for i := 0; i < perPool; i++ {
		_, err := mgr.AllocateTiny()
		require.NoError(t, err)
	}
	assert.Equal(t, mgr.tiny.End(), mgr.tiny.Mark())

	addr, err := mgr.AllocateTiny()
	require.NoError(t, err)
	assert.NotEqual(t, originalPool, mgr.tiny.Start())
	assert.True(t, addr >= mgr.tiny.Start() && addr < mgr.tiny.End())
	assert.True(t, api.IsAligned(int64(mgr.tiny.Start()), api.RegionAlignment))
}

func TestManagerFreeChunkMinSize(t *testing.T) {
	mgr := newTestManager(64*1024, nil)
	defer mgr.Release()

	assert.EqualValues(t, 512, mgr.FreeChunkMinSize())
}

func TestManagerStatsTracksRefills(t *testing.T) {
	mgr := newTestManager(128*1024, nil)
	defer mgr.Release()

	for i := 0; i < int(1024/api.TinyCellSize)+1; i++ {
		_, err := mgr.AllocateTiny()
		require.NoError(t, err)
	}
	stats := mgr.Stats()
	assert.EqualValues(t, 1, stats["tiny.refills"])
}
