package region

import "github.com/bnclabs/heapcore/api"
import "github.com/bnclabs/heapcore/lib"

// DefaultConfig returns the settings a Manager is initialized with
// unless the caller supplies overrides, mirroring the teacher
// package's flat, prefixed default-config maps.
//
// "region.largeobjectsminsize" (int64, default api.DefaultLargeObjectsMinSize)
//		Requests above this size are served by the large
//		allocator instead of the small one. Frozen at Initialize.
//
// "region.freechunkminsize" (int64, default api.DefaultFreeChunkMinSize)
//		The smallest chunk the sweeper is expected to thread onto the
//		free-chunk list; passed through to external collaborators,
//		this package itself only stores it for FreeChunkMinSize() to
//		report.
//
// "log.level" (string, default "info"), "log.file" (string, default "")
//		Passed straight through to log.SetLogger.
func DefaultConfig() lib.Config {
	return lib.Config{
		"region.largeobjectsminsize": api.DefaultLargeObjectsMinSize,
		"region.freechunkminsize":    api.DefaultFreeChunkMinSize,
		"log.level":                  "info",
		"log.file":                   "",
	}
}
