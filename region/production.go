// +build !debug

package region

// adjustForDebugTag is a no-op in a production build -- see debug.go.
func adjustForDebugTag(size int64) int64 {
	return size
}

// assertf is undefined (a no-op) in a production build, matching the
// error table's "undefined in release" for invariant-violation checks.
func assertf(cond bool, fmsg string, args ...interface{}) {
}
