//go:build arm64

package smc

import "unsafe"

// AArch64 is the native ISA on arm64 builds. The zero value is ready to
// use; the type has no state.
type AArch64 struct{}

func (AArch64) Arch() Arch { return ArchARM64 }

func (AArch64) Name() string { return "aarch64" }

// WordSize is 4: aarch64 uses fixed 32-bit instructions.
func (AArch64) WordSize() int { return 4 }

func (AArch64) ReturnEncoding() InstructionWord { return ReturnEncoding() }

func (AArch64) Sync(p unsafe.Pointer, n uintptr) { SyncRange(p, n) }

// Native returns the ISA implementation for the build architecture.
func Native() (ISA, error) {
	return AArch64{}, nil
}
