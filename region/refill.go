package region

import "github.com/bnclabs/heapcore/api"

// handleTinyMiss implements the tiny refill policy: serve only exact
// tiny-cell requests by carving a fresh 1KiB, 1KiB-aligned pool out of
// the small allocator.
func (m *Manager) handleTinyMiss(a *LinearAllocator, size int64) (api.Address, error) {
	assertf(size == adjustForDebugTag(api.TinyCellSize), "handleTinyMiss: invalid size %v, want %v", size, adjustForDebugTag(api.TinyCellSize))

	a.refillMu.Lock()
	defer a.refillMu.Unlock()

	a.FillUp()
	assertf(a.Mark() == a.End(), "handleTinyMiss: tiny allocator not empty after FillUp")

	pool, err := m.small.AllocateAligned(api.RegionAlignment, api.RegionAlignment)
	if err != nil {
		return 0, err
	}
	assertf(!pool.IsZero(), "handleTinyMiss: small allocator returned a zero pool")
	a.Refill(pool, api.RegionAlignment)
	m.recordRefill(tinyRefill, api.RegionAlignment)
	return 0, nil
}

func (m *Manager) handleTinyMissAligned(a *LinearAllocator, size, alignment int64) (api.Address, error) {
	return m.handleTinyMiss(a, size)
}

// handleSmallMiss implements the small refill policy: delegate
// straight up to large when the request exceeds the small ceiling,
// otherwise first-fit the free-chunk list, otherwise invoke the
// collector.
func (m *Manager) handleSmallMiss(a *LinearAllocator, size int64) (api.Address, error) {
	if size > a.Ceiling() {
		return m.large.Allocate(size)
	}

	a.refillMu.Lock()

	a.FillUp()

	if chunk, chunkSize, ok := m.freelist.firstFit(size); ok {
		a.Refill(chunk, chunkSize)
		m.recordRefill(smallRefill, chunkSize)
		a.refillMu.Unlock()
		return 0, nil
	}
	// The sweeper publishes its list through InstallFreeList, which
	// takes this same mutex, so it is released before collecting.
	a.refillMu.Unlock()

	if !m.collect(size) {
		return 0, api.ErrOutOfMemory
	}
	return 0, nil
}

func (m *Manager) handleSmallMissAligned(a *LinearAllocator, size, alignment int64) (api.Address, error) {
	if size > a.Ceiling() {
		return m.large.AllocateAligned(size, alignment)
	}
	return m.handleSmallMiss(a, size)
}

// handleLargeMiss implements the large refill policy this module
// resolves beyond spec.md's stub: consult the small allocator's free
// list directly (bypassing its fast path and bounds entirely), then
// fall back to the collector. The free list is a single shared
// registry, so touching it here is done under the small allocator's
// own refillMu, exactly as when the small policy touches it.
func (m *Manager) handleLargeMiss(a *LinearAllocator, size int64) (api.Address, error) {
	a.refillMu.Lock()
	defer a.refillMu.Unlock()

	a.FillUp()

	chunk, chunkSize, ok := m.lockedFirstFit(size)
	if ok {
		a.Refill(chunk, chunkSize)
		m.recordRefill(largeRefill, chunkSize)
		return 0, nil
	}

	if !m.collect(size) {
		return 0, api.ErrOutOfMemory
	}
	return 0, nil
}

// handleLargeMissAligned resolves spec.md §9's open question on the
// interaction between the large path and alignment: it performs the
// same free-list-then-collect resolution as handleLargeMiss before
// returning a chunk, so the fast path's own alignment algorithm (gap
// filled with a dead object) runs unchanged once a chunk is in hand.
func (m *Manager) handleLargeMissAligned(a *LinearAllocator, size, alignment int64) (api.Address, error) {
	return m.handleLargeMiss(a, size)
}

// lockedFirstFit scans the shared free-chunk list under the small
// allocator's refill mutex, the list's sole synchronizing lock.
func (m *Manager) lockedFirstFit(size int64) (api.Address, int64, bool) {
	m.small.refillMu.Lock()
	defer m.small.refillMu.Unlock()
	return m.freelist.firstFit(size)
}

// collect invokes the external collector, if one is installed. A
// region with no collector configured behaves as if every collection
// attempt failed, which callers turn into api.ErrOutOfMemory.
func (m *Manager) collect(size int64) bool {
	if m.collector == nil {
		return false
	}
	return m.collector.Collect(size)
}
