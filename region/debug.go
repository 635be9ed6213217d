// +build debug

package region

import "runtime"

import "github.com/bnclabs/heapcore/api"
import "github.com/bnclabs/heapcore/lib"
import "github.com/bnclabs/heapcore/log"

// adjustForDebugTag pads size identically on both sides of the bump
// computation, in a debug build, so a tagged debug header fits
// without disturbing the parseability invariant. A production build
// adds nothing -- see production.go.
func adjustForDebugTag(size int64) int64 {
	return size + api.WordSize
}

// assertf halts the process when cond is false: it logs the message
// and panics with the stacktrace, making "Fatal in debug" in the error
// table load-bearing rather than merely logged.
func assertf(cond bool, fmsg string, args ...interface{}) {
	if cond {
		return
	}
	log.Fatalf(fmsg, args...)
	buf := make([]byte, 4096)
	buf = buf[:runtime.Stack(buf, false)]
	panic(lib.GetStacktrace(1, buf))
}
