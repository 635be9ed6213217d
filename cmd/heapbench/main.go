// heapbench drives region.Manager concurrently from many goroutines,
// the way tools/llrb's load generator drove an LLRB tree in the
// teacher repo, and reports humanized byte counts and the region's
// own refill statistics once the run completes or the region runs
// out of memory.
package main

import "fmt"
import "flag"
import "math/rand"
import "sync"
import "sync/atomic"
import "time"
import "unsafe"

import hm "github.com/dustin/go-humanize"

import "github.com/bnclabs/heapcore/api"
import "github.com/bnclabs/heapcore/lib"
import "github.com/bnclabs/heapcore/log"
import "github.com/bnclabs/heapcore/malloc"
import "github.com/bnclabs/heapcore/region"

var options struct {
	capacity  int64
	workers   int
	allocs    int
	minsize   int64
	maxsize   int64
	tinyfrac  float64
	largefrac float64
}

func argParse() {
	flag.Int64Var(&options.capacity, "capacity", 64*1024*1024,
		"bytes to commit for the region")
	flag.IntVar(&options.workers, "workers", 8,
		"number of concurrent mutator goroutines")
	flag.IntVar(&options.allocs, "allocs", 100000,
		"allocations per worker")
	flag.Int64Var(&options.minsize, "minsize", 16,
		"minimum small-object allocation size")
	flag.Int64Var(&options.maxsize, "maxsize", 2048,
		"maximum small-object allocation size")
	flag.Float64Var(&options.tinyfrac, "tinyfrac", 0.2,
		"fraction of allocations that are tiny cells")
	flag.Float64Var(&options.largefrac, "largefrac", 0.02,
		"fraction of allocations that exceed the small ceiling")
	flag.Parse()
}

// workerCounters holds one worker's running counters, in a chunk of
// a small malloc.Arena (scratch) the benchmark uses for its own
// bookkeeping -- kept entirely outside the region under benchmark,
// and released when the run completes.
type workerCounters struct {
	ops   int64
	bytes int64
}

func main() {
	argParse()

	collector := &neverCollects{}
	mgr := region.New(options.capacity, collector, nil)
	defer mgr.Release()

	scratch := malloc.NewArena(scratchConfig())
	defer scratch.Release()

	template := make([]byte, options.maxsize)
	for i := range template {
		template[i] = byte('a' + i%26)
	}

	var wg sync.WaitGroup
	var oom int64
	counters := make([]*workerCounters, options.workers)

	start := time.Now()
	for w := 0; w < options.workers; w++ {
		ptr, _ := scratch.Alloc(64)
		counters[w] = (*workerCounters)(ptr)

		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			rnd := rand.New(rand.NewSource(int64(w) + 1))
			c := counters[w]
			for i := 0; i < options.allocs; i++ {
				size, addr, err := allocateOne(mgr, rnd)
				if err == api.ErrOutOfMemory {
					atomic.AddInt64(&oom, 1)
					return
				}
				if err != nil {
					panic(err)
				}
				n := size
				if n > int64(len(template)) {
					n = int64(len(template))
				}
				lib.Memcpy(addr.Pointer(), unsafe.Pointer(&template[0]), int(n))
				c.ops++
				c.bytes += size
			}
		}(w)
	}
	wg.Wait()
	elapsed := time.Since(start)

	var totalOps, totalBytes int64
	for _, c := range counters {
		totalOps += c.ops
		totalBytes += c.bytes
	}

	fmt.Printf("%v workers, %v allocations, %v in %v\n",
		options.workers, totalOps, hm.Bytes(uint64(totalBytes)), elapsed)
	if oom > 0 {
		fmt.Printf("%v workers hit out-of-memory\n", oom)
	}
	fmt.Println(lib.Prettystats(mgr.Stats(), true))
}

// scratchConfig adapts malloc.Defaultsettings' gosettings-flavored
// map into the lib.Config NewArena expects, the same conversion the
// malloc package's own tests use.
func scratchConfig() lib.Config {
	setts := malloc.Defaultsettings(64, 64)
	cfg := make(lib.Config)
	for k, v := range setts {
		cfg[k] = v
	}
	cfg["capacity"] = 64 * int64(options.workers+8)
	return cfg
}

// allocateOne picks tiny, small or large at random according to the
// configured fractions and issues one allocation.
func allocateOne(mgr *region.Manager, rnd *rand.Rand) (int64, api.Address, error) {
	switch roll := rnd.Float64(); {
	case roll < options.tinyfrac:
		addr, err := mgr.AllocateTiny()
		return api.TinyCellSize, addr, err
	case roll < options.tinyfrac+options.largefrac:
		size := (options.maxsize*4 + 7) &^ 7
		addr, err := mgr.AllocateLarge(size)
		return size, addr, err
	default:
		span := options.maxsize - options.minsize
		size := options.minsize
		if span > 0 {
			size += rnd.Int63n(span)
		}
		size = (size + 7) &^ 7 // word align
		addr, err := mgr.Allocate(size)
		return size, addr, err
	}
}

// neverCollects is the collector this benchmark installs: a region
// with no real tracing collector behind it exhausts its free-chunk
// list exactly once and then fails every further collection request,
// which is what a load generator measuring raw allocator throughput
// wants to observe.
type neverCollects struct{}

func (*neverCollects) Collect(size int64) bool {
	log.Debugf("heapbench: collector declined to collect %v bytes", size)
	return false
}
