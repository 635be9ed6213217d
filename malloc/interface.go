package malloc

import "unsafe"

// Mpooler manages a pool of equal-sized chunks carved out of a single
// block of raw, GC-invisible memory.
type Mpooler interface {
	// Chunksize managed by this pool.
	Chunksize() int64

	// Less orders pools by base address, for keeping an arena's pool
	// list sorted.
	Less(pool interface{}) bool

	// Allocchunk allocates one chunk from the pool.
	Allocchunk() (ptr unsafe.Pointer, ok bool)

	// Free returns a chunk back to the pool.
	Free(ptr unsafe.Pointer)

	// Allocated returns bytes currently handed out by this pool.
	Allocated() int64

	// Available returns bytes still free in this pool.
	Available() int64

	// Memory returns the book-keeping overhead and the useful
	// (chunk-granted) capacity of this pool.
	Memory() (overhead, useful int64)

	// Release the pool and its backing memory.
	Release()
}
