//go:build arm64 && unix

package smc

import "fmt"

// Implemented in call_arm64.s.
func callword(code uintptr, arg uint64) uint64

// Call transfers control to the start of the sealed buffer with arg in
// the first argument register, and returns the value the code leaves in
// the first result register. The synthesized code must behave as a leaf
// routine: clobber only caller-saved registers, leave the stack pointer
// alone, and come back with the probed return instruction. Call panics
// if the buffer is no longer executable.
func (c *Code) Call(arg uint64) uint64 {
	if c.buf.state != stateExecutable {
		panic(fmt.Sprintf("smc: Call on %s buffer", c.buf.state))
	}
	return callword(c.buf.base(), arg)
}
