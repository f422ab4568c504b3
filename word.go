package smc

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/arch/arm64/arm64asm"
)

// InstructionWord is one fixed-width 32-bit machine instruction
// encoding. Values are immutable once obtained, either from the encoder
// probe or from hand-encoding.
type InstructionWord uint32

// EncodeLE stores the word into dst in little-endian instruction order.
// dst must be at least 4 bytes.
func (w InstructionWord) EncodeLE(dst []byte) {
	binary.LittleEndian.PutUint32(dst, uint32(w))
}

// DecodeWord reads one little-endian instruction word from src.
func DecodeWord(src []byte) InstructionWord {
	return InstructionWord(binary.LittleEndian.Uint32(src))
}

// String renders the word as hex, together with the decoded aarch64
// mnemonic when the word decodes cleanly.
func (w InstructionWord) String() string {
	var buf [4]byte
	w.EncodeLE(buf[:])
	if inst, err := arm64asm.Decode(buf[:]); err == nil {
		return fmt.Sprintf("0x%08x (%s)", uint32(w), inst)
	}
	return fmt.Sprintf("0x%08x", uint32(w))
}
