//go:build unix

package smc

import "fmt"

// aarch64 general purpose register names to encodings.
var arm64GPRegs = map[string]uint32{
	"x0": 0, "x1": 1, "x2": 2, "x3": 3, "x4": 4, "x5": 5, "x6": 6, "x7": 7,
	"x8": 8, "x9": 9, "x10": 10, "x11": 11, "x12": 12, "x13": 13, "x14": 14, "x15": 15,
	"x16": 16, "x17": 17, "x18": 18, "x19": 19, "x20": 20, "x21": 21, "x22": 22, "x23": 23,
	"x24": 24, "x25": 25, "x26": 26, "x27": 27, "x28": 28, "x29": 29, "x30": 30,
	"xzr": 31, "fp": 29, "lr": 30,
}

// Emitter appends aarch64 instruction words to a Buffer in program
// order. It is the thin surface a generator needs to stitch probed and
// hand-encoded words into a runnable routine, not a code generator.
type Emitter struct {
	buf *Buffer
	pos int
}

// NewEmitter starts emitting at word 0 of the buffer.
func NewEmitter(b *Buffer) *Emitter {
	return &Emitter{buf: b}
}

// Pos returns the word index the next instruction will land on.
func (e *Emitter) Pos() int { return e.pos }

func (e *Emitter) emit(instr uint32) error {
	if err := e.buf.WriteWord(e.pos, InstructionWord(instr)); err != nil {
		return err
	}
	e.pos++
	return nil
}

// Word emits one pre-encoded instruction word.
func (e *Emitter) Word(w InstructionWord) error {
	return e.emit(uint32(w))
}

// Nop emits NOP.
func (e *Emitter) Nop() error {
	return e.emit(0xd503201f)
}

// Ret emits the probed return instruction.
func (e *Emitter) Ret() error {
	return e.emit(uint32(e.buf.isa.ReturnEncoding()))
}

// MovImm64 loads a 64-bit immediate into a register, using MOVZ for the
// lowest 16 bits and MOVK for each further non-zero 16-bit chunk.
func (e *Emitter) MovImm64(dest string, imm uint64) error {
	rd, ok := arm64GPRegs[dest]
	if !ok {
		return fmt.Errorf("invalid ARM64 register: %s", dest)
	}
	// MOVZ Xd, #imm16, LSL #0
	if err := e.emit(uint32(0xd2800000) | (uint32(imm&0xffff) << 5) | rd); err != nil {
		return err
	}
	for shift := 16; shift < 64; shift += 16 {
		chunk := (imm >> shift) & 0xffff
		if chunk == 0 {
			continue
		}
		// MOVK Xd, #imm16, LSL #shift
		hw := uint32(shift/16) << 21
		if err := e.emit(uint32(0xf2800000) | hw | (uint32(chunk) << 5) | rd); err != nil {
			return err
		}
	}
	return nil
}

// AddImm64 emits ADD Xd, Xn, #imm with a 12-bit immediate.
func (e *Emitter) AddImm64(dest, src string, imm uint32) error {
	rd, ok := arm64GPRegs[dest]
	if !ok {
		return fmt.Errorf("invalid ARM64 register: %s", dest)
	}
	rn, ok := arm64GPRegs[src]
	if !ok {
		return fmt.Errorf("invalid ARM64 register: %s", src)
	}
	if imm > 0xfff {
		return fmt.Errorf("immediate value too large for ADD: %d", imm)
	}
	// ADD (immediate, 64-bit): sf=1, op=0, S=0
	return e.emit(uint32(0x91000000) | (imm << 10) | (rn << 5) | rd)
}
