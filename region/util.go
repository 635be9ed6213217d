package region

import "github.com/bnclabs/heapcore/api"

// writeWord and readWord give the filler/free-chunk bookkeeping in
// this package a single place that reaches into committed memory
// through an api.Address instead of a Go pointer.
func writeWord(addr api.Address, v int64) {
	*(*int64)(addr.Pointer()) = v
}

func readWord(addr api.Address) int64 {
	return *(*int64)(addr.Pointer())
}
