package api

import "errors"

// ErrOutOfMemory is returned when a region's allocators and the
// collector invoked on their behalf could not satisfy an allocation.
var ErrOutOfMemory = errors.New("outOfMemory")

// WordSize is the machine word size this module assumes throughout,
// matching the runtime it services (64-bit).
const WordSize = int64(8)

// TinyCellSize is the fixed size, in bytes, of every tiny allocation:
// two words, the smallest cell that can carry a forwarding pointer and
// a header once scavenged.
const TinyCellSize = int64(2 * WordSize)

// RegionAlignment is the alignment, in bytes, that a region's base
// address is committed at.
const RegionAlignment = int64(1024)

// DefaultLargeObjectsMinSize is the default ceiling of the Small
// allocator: requests above this size are served by the Large
// allocator instead.
const DefaultLargeObjectsMinSize = int64(4096)

// DefaultFreeChunkMinSize is the default smallest chunk the sweeper is
// expected to thread onto the free-chunk list; remainders smaller than
// this are left as dead objects instead of being listed as free.
const DefaultFreeChunkMinSize = int64(512)
