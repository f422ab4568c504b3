package smc

import (
	"fmt"
	"strings"
	"unsafe"
)

// Arch identifies a CPU architecture.
type Arch int

const (
	ArchUnknown Arch = iota
	ArchARM64
	ArchX86_64
	ArchRiscv64
)

func (a Arch) String() string {
	switch a {
	case ArchARM64:
		return "aarch64"
	case ArchX86_64:
		return "x86_64"
	case ArchRiscv64:
		return "riscv64"
	default:
		return "unknown"
	}
}

// ParseArch parses an architecture string (like GOARCH values)
func ParseArch(s string) (Arch, error) {
	switch strings.ToLower(s) {
	case "aarch64", "arm64":
		return ArchARM64, nil
	case "x86_64", "amd64", "x86-64":
		return ArchX86_64, nil
	case "riscv64", "riscv", "rv64":
		return ArchRiscv64, nil
	default:
		return 0, fmt.Errorf("unsupported architecture: %s (supported: arm64, amd64, riscv64)", s)
	}
}

// ISA is the capability set self-modifying code depends on: knowing the
// instruction word size, the encoding of a return instruction, and how
// to push written words through to the instruction fetch path. There is
// one implementation per architecture, selected at build time; Native
// returns the one for the running build.
type ISA interface {
	// Arch identifies the architecture.
	Arch() Arch

	// Name returns the architecture name, like "aarch64".
	Name() string

	// WordSize returns the size of one instruction word in bytes.
	WordSize() int

	// ReturnEncoding returns the instruction word the active toolchain
	// uses for "return from subroutine".
	ReturnEncoding() InstructionWord

	// Sync makes n bytes of freshly written instructions at p visible
	// to the instruction fetch path. It must run after the write and
	// before control can reach the new instructions.
	Sync(p unsafe.Pointer, n uintptr)
}
