package malloc

//#include <stdlib.h>
import "C"

import "unsafe"

import "github.com/bnclabs/heapcore/api"

// CommitRegion reserves size bytes of raw memory from the OS, outside
// the reach of Go's own garbage collector, and returns its base
// address aligned to api.RegionAlignment bytes -- a region data-model
// invariant the region package relies on without re-checking. Plain
// C.malloc gives no alignment guarantee beyond the platform's default
// (typically 16 bytes on glibc for sizes this small), so the region is
// committed through posix_memalign instead, the same pointer
// ReleaseRegion later hands back to C.free.
func CommitRegion(size int64) api.Address {
	if size <= 0 {
		panicerr("CommitRegion: size must be positive, got %v", size)
	}
	var base unsafe.Pointer
	if rc := C.posix_memalign(&base, C.size_t(api.RegionAlignment), C.size_t(size)); rc != 0 {
		panic(ErrorOutofMemory)
	}
	initblock(uintptr(base), size)
	return api.Address(uintptr(base))
}

// ReleaseRegion returns a region previously obtained from CommitRegion
// back to the OS.
func ReleaseRegion(base api.Address) {
	C.free(base.Pointer())
}
