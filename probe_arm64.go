//go:build arm64

package smc

import "sync"

// Implemented in probe_arm64.s.
func proberet() uint32

var retEncoding = sync.OnceValue(ProbeReturnEncoding)

// ProbeReturnEncoding determines, at runtime, the 32-bit encoding the
// active toolchain produces for "return from current subroutine", by
// reading back the emitted machine code of a return-only routine. The
// result depends only on the toolchain, architecture and ABI, never on
// call context, so repeated calls return the identical word.
func ProbeReturnEncoding() InstructionWord {
	return InstructionWord(proberet())
}

// ReturnEncoding returns the probed return encoding, cached for the
// lifetime of the process.
func ReturnEncoding() InstructionWord {
	return retEncoding()
}
