package region

import "github.com/bnclabs/heapcore/api"

// fillerTag marks the first word of a filler cell's header. The real
// object-header layout belongs to the runtime's type system, external
// to this package (spec names it out of scope); this tag is the
// minimum encoding this package needs to keep the region parseable on
// its own, for both dead objects and (still-linked) free chunks.
const fillerTag = int64(-1)

// deadObjectHeaderSize is the smallest non-zero range fillDead ever
// has to cover: one word for the tag, one for the size -- the same as
// TinyCellSize, which is not a coincidence, since both are dictated by
// the same "two words is the smallest parseable cell" constraint.
const deadObjectHeaderSize = api.TinyCellSize

// writeFiller stamps a filler header of the given size at addr. Used
// directly for dead objects, and as the front half of a free chunk's
// encoding (see writeFreeChunk in freelist.go).
func writeFiller(addr api.Address, size int64) {
	assertf(size >= deadObjectHeaderSize, "writeFiller: size %v below minimum %v", size, deadObjectHeaderSize)
	writeWord(addr, fillerTag)
	writeWord(addr.Add(api.WordSize), size)
}

// fillerSize reads the size word of a filler header previously
// written by writeFiller, asserting the tag is well-formed.
func fillerSize(addr api.Address) int64 {
	tag := readWord(addr)
	assertf(tag == fillerTag, "fillerSize: no filler header at %#x", uintptr(addr))
	return readWord(addr.Add(api.WordSize))
}

// fillDead covers [from, to) with a single dead-object cell so the
// region stays parseable across refill tails, alignment padding and
// dark-matter gaps. A zero-length range is a no-op; every non-zero
// range this package ever passes here is at least
// deadObjectHeaderSize, per invariant 2 -- fillDead asserts rather
// than silently tolerating a smaller one, since the original this
// module is grounded on writes its dead-object header unconditionally
// and never has to special-case a short tail either.
func fillDead(from, to api.Address) {
	size := int64(to) - int64(from)
	if size == 0 {
		return
	}
	writeFiller(from, size)
}
