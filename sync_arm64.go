//go:build arm64

package smc

import "unsafe"

// Implemented in sync_arm64.s.
func selfbar(p unsafe.Pointer)
func ctrEL0() uint64

// maintGranule is the largest stride that is safe for both the data
// cache clean and the instruction cache invalidate, read once from
// CTR_EL0.
var maintGranule = cacheGranule()

func cacheGranule() uintptr {
	ctr := ctrEL0()
	dline := uintptr(4) << ((ctr >> 16) & 0xf) // DminLine, log2 words
	iline := uintptr(4) << (ctr & 0xf)         // IminLine, log2 words
	if iline < dline {
		return iline
	}
	return dline
}

// SyncInstructionCache makes one freshly written instruction word at p
// visible to the instruction fetch path, on this core and on any other
// core that fetches from the same address afterwards. It must run after
// every write of instruction memory and before control can reach the
// new encoding. The address must be valid and mapped; there is no error
// path at this level.
func SyncInstructionCache(p unsafe.Pointer) {
	selfbar(p)
}

// SyncRange runs the coherence barrier for every cache-maintenance
// granule overlapping the n bytes at p.
func SyncRange(p unsafe.Pointer, n uintptr) {
	if n == 0 {
		return
	}
	// Align down to the granule containing p. The containing cache line
	// of a valid address is itself valid memory.
	head := uintptr(p) & (maintGranule - 1)
	q := unsafe.Add(p, -int(head))
	for off := uintptr(0); off < head+n; off += maintGranule {
		selfbar(unsafe.Add(q, int(off)))
	}
}
