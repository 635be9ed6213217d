package malloc

import "testing"
import "unsafe"
import "math/rand"
import "sort"

import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

func TestNewpoolfbit(t *testing.T) {
	size, n := int64(96), int64(512*512)
	mpool := newpoolfbit(size, n)
	assert.Equal(t, size*n, mpool.capacity)
	assert.Equal(t, n, mpool.fbits.freeblocks())
	assert.Equal(t, size, mpool.size)
	mpool.Release()
}

func TestPoolfbitAllocFree(t *testing.T) {
	size, n := int64(96), int64(56)
	ptrs := make([]unsafe.Pointer, 0, n)
	mpool := newpoolfbit(size, n)

	for i := int64(0); i < n; i++ {
		ptr, ok := mpool.Allocchunk()
		require.True(t, ok)
		assert.Equal(t, (i+1)*size, mpool.Allocated())
		assert.Equal(t, (n-i-1)*size, mpool.Available())
		ptrs = append(ptrs, ptr)
	}
	_, ok := mpool.Allocchunk()
	assert.False(t, ok, "expected pool to be exhausted")

	for i, ptr := range ptrs {
		j := int64(i)
		mpool.Free(ptr)
		assert.Equal(t, (n-j-1)*size, mpool.Allocated())
	}
	mpool.Release()
}

func TestPoolfbitRandomFree(t *testing.T) {
	size, n := int64(96), int64(512*512)
	mpool := newpoolfbit(size, n)
	defer mpool.Release()

	ptrs := make([]unsafe.Pointer, 0, n)
	for i := int64(0); i < n; i++ {
		ptr, ok := mpool.Allocchunk()
		require.True(t, ok)
		ptrs = append(ptrs, ptr)
	}
	for i := 0; i < int(float64(n)*0.99); i++ {
		mpool.Free(ptrs[rand.Intn(int(n))])
	}
	_, ok := mpool.Allocchunk()
	assert.True(t, ok)
	assert.Equal(t, mpool.capacity, mpool.Available()+mpool.Allocated())
}

func TestPoolfbitFreePanics(t *testing.T) {
	size, n := int64(96), int64(8)
	mpool := newpoolfbit(size, n)
	defer mpool.Release()
	ptr, _ := mpool.Allocchunk()

	func() {
		defer func() { assert.NotNil(t, recover()) }()
		mpool.Free(nil)
	}()
	func() {
		defer func() { assert.NotNil(t, recover()) }()
		mpool.Free(unsafe.Pointer(uintptr(ptr) + 1))
	}()
}

func TestPoolfbitMemory(t *testing.T) {
	size, n := int64(96), int64(512*512)
	mpool := newpoolfbit(size, n)
	defer mpool.Release()
	_, useful := mpool.Memory()
	assert.Equal(t, size*n, useful)
}

func TestPoolfbitSortable(t *testing.T) {
	size, n := int64(96), int64(8)
	mpools := make(Mpoolers, 0, 64)
	for i := 0; i < 64; i++ {
		mpools = append(mpools, newpoolfbit(size, n))
	}
	sort.Sort(mpools)
	assert.Equal(t, 64, len(mpools))
	for _, mpool := range mpools {
		mpool.Release()
	}
}

func TestPoolfbitCheckallocated(t *testing.T) {
	size, n := int64(96), int64(56)
	mpool := newpoolfbit(size, n)
	defer mpool.Release()
	for i := int64(0); i < n; i++ {
		mpool.Allocchunk()
	}
	assert.Equal(t, mpool.Allocated(), mpool.checkallocated())
}

func BenchmarkNewpoolfbit(b *testing.B) {
	size, n := int64(96), int64(512*512)
	for i := 0; i < b.N; i++ {
		newpoolfbit(size, n).Release()
	}
}

func BenchmarkPoolfbitAllocFree(b *testing.B) {
	size, n := int64(96), int64(512*512)
	mpool := newpoolfbit(size, n)
	defer mpool.Release()
	for i := 0; i < int(n-1); i++ {
		mpool.Allocchunk()
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ptr, _ := mpool.Allocchunk()
		mpool.Free(ptr)
	}
}
