package region

import "testing"

import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

import "github.com/bnclabs/heapcore/api"

func TestFreeChunkListFirstFit(t *testing.T) {
	buf := make([]byte, 4096)
	base := addrOf(buf)

	list := &freeChunkList{}
	// three chunks: 512, 1024, 2048 bytes, chained head-first.
	c1, c2, c3 := base, base.Add(512), base.Add(512+1024)
	list.pushFront(c3, 2048)
	list.pushFront(c2, 1024)
	list.pushFront(c1, 512)
	assert.Equal(t, c1, list.head)

	addr, size, ok := list.firstFit(600)
	require.True(t, ok)
	assert.Equal(t, c2, addr)
	assert.Equal(t, int64(1024), size)

	// c2 is gone; walking from head should now reach c1 then c3.
	assert.Equal(t, c1, list.head)
	next := readFreeChunkNext(c1, 512)
	assert.Equal(t, c3, next)
}

func TestFreeChunkListFirstFitAtHead(t *testing.T) {
	buf := make([]byte, 4096)
	base := addrOf(buf)

	list := &freeChunkList{}
	c1, c2 := base, base.Add(512)
	list.pushFront(c2, 512)
	list.pushFront(c1, 512)

	addr, _, ok := list.firstFit(1)
	require.True(t, ok)
	assert.Equal(t, c1, addr)
	assert.Equal(t, c2, list.head)
}

func TestFreeChunkListFirstFitMiss(t *testing.T) {
	buf := make([]byte, 4096)
	base := addrOf(buf)

	list := &freeChunkList{}
	list.pushFront(base, 512)

	_, _, ok := list.firstFit(4096)
	assert.False(t, ok)
}

func TestFreeChunkListNoOverlap(t *testing.T) {
	buf := make([]byte, 8192)
	base := addrOf(buf)

	list := &freeChunkList{}
	sizes := []int64{512, 600, 700, 1024}
	offset := int64(0)
	for _, sz := range sizes {
		list.pushFront(base.Add(offset), sz)
		offset += sz
	}

	seen := map[api.Address]bool{}
	cur := list.head
	total := int64(0)
	for !cur.IsZero() {
		require.False(t, seen[cur], "chunk %#x visited twice", uintptr(cur))
		seen[cur] = true
		sz := fillerSize(cur)
		assert.True(t, sz >= api.DefaultFreeChunkMinSize || sz >= 512)
		total += sz
		cur = readFreeChunkNext(cur, sz)
	}
	assert.Equal(t, len(sizes), len(seen))
	assert.Equal(t, offset, total)
}
