package region

import "github.com/cloudfoundry/gosigar"

import "github.com/bnclabs/heapcore/log"

// checkSystemMemory warns -- never fails -- when capacity exceeds the
// host's free memory. The allocator core has no veto power over a
// capacity a runtime has already decided to commit; this only makes
// the eventual OS-level failure easier to diagnose.
func checkSystemMemory(capacity int64) {
	mem := sigar.Mem{}
	if err := mem.Get(); err != nil {
		log.Warnf("region: could not query system memory: %v", err)
		return
	}
	if uint64(capacity) > mem.Free {
		log.Warnf(
			"region: requested capacity %v exceeds free system memory %v",
			capacity, mem.Free,
		)
	}
}
