package region

import "sync"
import "sync/atomic"

import "github.com/bnclabs/heapcore/api"

// refillKind tags a LinearAllocator with which of the three refill
// policies services its misses. The set of policies is closed and
// performance-sensitive, so dispatch is a plain switch over this enum
// rather than a polymorphic handler type.
type refillKind byte

const (
	tinyRefill refillKind = iota
	smallRefill
	largeRefill
)

func (k refillKind) String() string {
	switch k {
	case tinyRefill:
		return "tiny"
	case smallRefill:
		return "small"
	case largeRefill:
		return "large"
	}
	return "unknown"
}

// LinearAllocator bumps a single mark between start and end, handing
// out disjoint byte ranges to concurrent callers via a CAS loop on
// mark. start and end are written only while refillMu is held; mark
// is the one field every racing fast-path caller touches without any
// lock.
//
// FIXME: concurrency -- Clear and Refill are not themselves internally
// synchronized. The required discipline is that both are called only
// while the caller holds refillMu, and only after FillUp has forced
// every racer's mark to equal end.
type LinearAllocator struct {
	kind refillKind
	mgr  *Manager

	start api.Address
	end   api.Address
	mark  uintptr

	ceiling int64

	refillMu sync.Mutex
}

// Start returns the current chunk's lower bound. Safe to call without
// the refill mutex only when the caller already knows no refill is in
// flight (e.g. immediately after Initialize, or from within a refill
// handler that holds refillMu).
func (a *LinearAllocator) Start() api.Address { return a.start }

// End returns the current chunk's upper bound, with the same caveat
// as Start.
func (a *LinearAllocator) End() api.Address { return a.end }

// Mark returns the current bump pointer.
func (a *LinearAllocator) Mark() api.Address {
	return api.Address(atomic.LoadUintptr(&a.mark))
}

// Ceiling returns the largest size this allocator will satisfy.
func (a *LinearAllocator) Ceiling() int64 { return a.ceiling }

// Initialize sets this allocator's bounds and ceiling exactly once,
// before any concurrent allocation is possible.
func (a *LinearAllocator) Initialize(start, end api.Address, ceiling int64) {
	a.start, a.end = start, end
	a.ceiling = ceiling
	atomic.StoreUintptr(&a.mark, uintptr(start))
}

// Clear sets start, end and mark to zero: this allocator refuses every
// allocation until its next Refill. Must only be called while
// refillMu is held.
func (a *LinearAllocator) Clear() {
	a.start, a.end = 0, 0
	atomic.StoreUintptr(&a.mark, 0)
}

// Refill replaces this allocator's chunk. Precondition: the caller
// holds refillMu and has already called FillUp. end is published
// before mark, so a concurrent fast-path reader that observes the new
// mark also observes the new end -- never a stale one.
func (a *LinearAllocator) Refill(chunk api.Address, chunkSize int64) {
	a.start = chunk
	a.end = chunk.Add(chunkSize)
	atomic.StoreUintptr(&a.mark, uintptr(a.start))
}

// FillUp atomically sets mark to end and fills the abandoned
// [old mark, end) with a dead-object header, returning the mark
// observed before the fill. Idempotent: once mark equals end, a
// repeated call just returns end without writing anything again.
func (a *LinearAllocator) FillUp() api.Address {
	for {
		mark := atomic.LoadUintptr(&a.mark)
		cell := api.Address(mark)
		if cell == a.end {
			return cell
		}
		if atomic.CompareAndSwapUintptr(&a.mark, mark, uintptr(a.end)) {
			fillDead(cell, a.end)
			return cell
		}
	}
}

// Allocate returns size bytes from the current chunk, retrying through
// the refill policy on a miss. size must be positive and a multiple of
// api.WordSize.
func (a *LinearAllocator) Allocate(size int64) (api.Address, error) {
	assertf(size > 0 && api.IsAligned(size, api.WordSize), "Allocate: size %v not a positive multiple of the word size", size)
	size = adjustForDebugTag(size)
	for {
		mark := atomic.LoadUintptr(&a.mark)
		cell := api.Address(mark)
		next := cell.Add(size)
		if next > a.end {
			got, err := a.handleMiss(size)
			if err != nil {
				return 0, err
			}
			if !got.IsZero() {
				return got, nil
			}
			continue
		}
		if atomic.CompareAndSwapUintptr(&a.mark, mark, uintptr(next)) {
			return cell, nil
		}
	}
}

// AllocateAligned is Allocate's aligned sibling: the returned address
// is a multiple of alignment. If rounding mark up to alignment leaves
// a gap too small to carry a dead-object header, alignment is bumped
// by one further increment so the gap is always either zero or large
// enough to fill. Any non-zero gap is filled with a dead object before
// the aligned cell is handed back.
func (a *LinearAllocator) AllocateAligned(size, alignment int64) (api.Address, error) {
	assertf(size > 0 && api.IsAligned(size, api.WordSize), "AllocateAligned: size %v not a positive multiple of the word size", size)
	size = adjustForDebugTag(size)
	for {
		mark := atomic.LoadUintptr(&a.mark)
		cell := api.Address(mark)
		aligned := api.Address(api.AlignUp(int64(cell), alignment))
		if gap := int64(aligned) - int64(cell); gap != 0 && gap < api.TinyCellSize {
			aligned = aligned.Add(alignment)
		}
		next := aligned.Add(size)
		if next > a.end {
			got, err := a.handleMissAligned(size, alignment)
			if err != nil {
				return 0, err
			}
			if !got.IsZero() {
				return got, nil
			}
			continue
		}
		if atomic.CompareAndSwapUintptr(&a.mark, mark, uintptr(next)) {
			if aligned > cell {
				fillDead(cell, aligned)
			}
			return aligned, nil
		}
	}
}

func (a *LinearAllocator) handleMiss(size int64) (api.Address, error) {
	switch a.kind {
	case tinyRefill:
		return a.mgr.handleTinyMiss(a, size)
	case smallRefill:
		return a.mgr.handleSmallMiss(a, size)
	case largeRefill:
		return a.mgr.handleLargeMiss(a, size)
	}
	assertf(false, "handleMiss: unknown refill kind %v", a.kind)
	return 0, nil
}

func (a *LinearAllocator) handleMissAligned(size, alignment int64) (api.Address, error) {
	switch a.kind {
	case tinyRefill:
		return a.mgr.handleTinyMissAligned(a, size, alignment)
	case smallRefill:
		return a.mgr.handleSmallMissAligned(a, size, alignment)
	case largeRefill:
		return a.mgr.handleLargeMissAligned(a, size, alignment)
	}
	assertf(false, "handleMissAligned: unknown refill kind %v", a.kind)
	return 0, nil
}
