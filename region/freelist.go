package region

import "github.com/bnclabs/heapcore/api"

// freeChunkList is the singly linked list of free chunks threaded
// through the committed region by the sweeper. The head -- and every
// link -- is a raw api.Address, never a Go pointer or struct
// reference, so neither Go's own garbage collector nor a future
// tracing walk over the region mistakes a free chunk for a live
// object.
type freeChunkList struct {
	head api.Address
}

// footerOffsets locates the trailing (next, size) pair of a chunk
// based at addr with the given size, per the data model's "last two
// words hold (next-chunk-address, size-in-bytes)".
func footerOffsets(addr api.Address, size int64) (nextAddr, sizeAddr api.Address) {
	nextAddr = addr.Add(size - 2*api.WordSize)
	sizeAddr = addr.Add(size - api.WordSize)
	return nextAddr, sizeAddr
}

// writeFreeChunk threads addr onto a list ahead of next: a filler
// header at the front, so a linear heap walker steps over it exactly
// like any other dead cell without following it into the free-chunk
// list, and a (next, size) footer in its trailing two words for the
// free-list walk itself.
func writeFreeChunk(addr api.Address, size int64, next api.Address) {
	writeFiller(addr, size)
	nextAddr, sizeAddr := footerOffsets(addr, size)
	writeWord(nextAddr, int64(next))
	writeWord(sizeAddr, size)
}

func readFreeChunkNext(addr api.Address, size int64) api.Address {
	nextAddr, _ := footerOffsets(addr, size)
	return api.Address(readWord(nextAddr))
}

// installFreeList implements api.FreeLister for the Manager: the
// sweeper's single entry point for publishing a freshly built list.
func (l *freeChunkList) installFreeList(head api.Address) {
	l.head = head
}

// firstFit walks the list from head and unlinks the first chunk whose
// size is at least need -- the tie-break named in the data model:
// first-fit, no size-class matching, no splitting.
//
// The source this module is grounded on also spliced the found chunk
// to the head of the list as a bias for subsequent fits, on the
// assumption that a partially-used chunk might be returned there
// later. This implementation never splits a chunk -- a chunk larger
// than required is consumed whole -- so the found chunk leaves the
// list entirely on its way into an allocator's bounds, and the
// move-to-front bias has nothing left to act on.
func (l *freeChunkList) firstFit(need int64) (addr api.Address, size int64, ok bool) {
	var prev api.Address
	cur := l.head
	for !cur.IsZero() {
		curSize := fillerSize(cur)
		next := readFreeChunkNext(cur, curSize)
		if curSize >= need {
			l.unlink(prev, cur, next)
			return cur, curSize, true
		}
		prev, cur = cur, next
	}
	return 0, 0, false
}

func (l *freeChunkList) unlink(prev, cur, next api.Address) {
	if prev.IsZero() {
		l.head = next
		return
	}
	prevSize := fillerSize(prev)
	prevNextAddr, _ := footerOffsets(prev, prevSize)
	writeWord(prevNextAddr, int64(next))
}

// pushFront installs addr as a lone free chunk at the head of the
// list. Used by the region package's own tests, and by any
// Collector/Sweeper stand-in that wants to simulate a completed sweep
// without threading an entire region's worth of free chunks.
func (l *freeChunkList) pushFront(addr api.Address, size int64) {
	writeFreeChunk(addr, size, l.head)
	l.head = addr
}
