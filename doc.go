// Package heapcore implements the free-space management core of a
// managed-runtime heap: size-segregated bump allocators, a free-chunk
// list threaded through committed memory, and the glue that ties both
// to an external collector.
//
// api:
//
// Interface specification and raw-address type shared by every other
// package in this module.
//
// lib:
//
// Convenience functions that can be used by other packages. Package
// shall not import packages other than golang's standard packages.
//
// log:
//
// Leveled logging shim used throughout the rest of this module.
//
// malloc:
//
// Custom memory management for storage algorithms, including the
// cgo-backed raw region commit used to back a region.Manager.
//
// region:
//
// Size-segregated linear allocators (tiny/small/large), the
// free-chunk list they refill from, and the Manager that wires them
// together over a single committed span of raw memory.
//
// cmd/heapbench:
//
// A concurrent load generator exercising region.Manager under
// contention.
package heapcore
