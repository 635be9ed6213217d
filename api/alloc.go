package api

import "unsafe"

// Address is a raw memory address that is never interpreted as a Go
// pointer. Free-chunk links and region bases are kept as Address so
// that they stay outside the reach of the Go runtime's own garbage
// collector and of any tracing walk over a region's committed bytes.
type Address uintptr

// IsZero reports whether addr is the null address.
func (addr Address) IsZero() bool {
	return addr == 0
}

// Add returns addr advanced by n bytes.
func (addr Address) Add(n int64) Address {
	return addr + Address(n)
}

// Pointer views addr as an unsafe.Pointer, for handing bytes back to a
// caller expecting Go-visible memory.
func (addr Address) Pointer() unsafe.Pointer {
	return unsafe.Pointer(uintptr(addr))
}

// Mallocer is implemented by the raw, GC-invisible backing allocators
// of package malloc (malloc.Arena and its pools).
type Mallocer interface {
	// Free releases a previously allocated chunk back to the pool.
	Free(ptr unsafe.Pointer)

	// Release the arena/pool and all resources it holds.
	Release()

	// Memory accounting: overhead bytes spent on book-keeping and
	// useful bytes available to callers.
	Memory() (overhead, useful int64)
}

// Collector is the tracing collector's entry point for a region that
// has failed to refill one of its allocators. Collect is asked to make
// at least size bytes collectable and should return false only when it
// has genuinely exhausted its ability to reclaim or grow the heap.
type Collector interface {
	Collect(size int64) bool
}

// FreeLister is the sweeper's entry point into a region: once a sweep
// completes, the sweeper threads the free chunks it found into a
// singly linked list and installs it here.
type FreeLister interface {
	InstallFreeList(head Address)
}
