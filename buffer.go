//go:build unix

package smc

import (
	"errors"
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

var (
	ErrClosed          = errors.New("smc: buffer is closed")
	ErrSealed          = errors.New("smc: buffer is sealed")
	ErrNotSynchronized = errors.New("smc: buffer not synchronized")
)

// bufferState tracks where a region is in its lifecycle. The only legal
// path to executable passes through synchronized, so a Code handle can
// never reference instruction words the fetch path might still see
// stale.
type bufferState int

const (
	stateWritable bufferState = iota
	stateSynchronized
	stateExecutable
	stateClosed
)

func (s bufferState) String() string {
	switch s {
	case stateWritable:
		return "writable"
	case stateSynchronized:
		return "synchronized"
	case stateExecutable:
		return "executable"
	case stateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Buffer is a page-backed region for synthesized instruction words.
//
// A Buffer is not safe for concurrent use. Callers that share one
// region between goroutines must serialize writes and synchronization
// themselves; independent buffers need no coordination.
type Buffer struct {
	isa     ISA
	mem     []byte
	words   int
	state   bufferState
	dirtyLo int // byte range of unsynchronized writes; dirtyLo < 0 means clean
	dirtyHi int
	rwx     bool
}

// NewBuffer maps a writable, non-executable region with room for at
// least the given number of instruction words, rounded up to whole
// pages. Seal flips the protection once the contents are synchronized.
func NewBuffer(isa ISA, words int) (*Buffer, error) {
	return newBuffer(isa, words, false)
}

// NewBufferRWX maps the region writable and executable at once, so Seal
// and Reopen change no page protections. The lifecycle rules still
// apply. Meant for diagnostics and rewrite-heavy stress loops; prefer
// NewBuffer.
func NewBufferRWX(isa ISA, words int) (*Buffer, error) {
	return newBuffer(isa, words, true)
}

func newBuffer(isa ISA, words int, rwx bool) (*Buffer, error) {
	if isa == nil {
		return nil, fmt.Errorf("smc: buffer needs an ISA")
	}
	if words <= 0 {
		return nil, fmt.Errorf("smc: buffer needs at least one word, got %d", words)
	}
	ps := unix.Getpagesize()
	size := (words*isa.WordSize() + ps - 1) / ps * ps
	prot := unix.PROT_READ | unix.PROT_WRITE
	if rwx {
		prot |= unix.PROT_EXEC
	}
	mem, err := unix.Mmap(-1, 0, size, prot, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("smc: mmap of %d bytes failed: %v", size, err)
	}
	b := &Buffer{
		isa:     isa,
		mem:     mem,
		words:   size / isa.WordSize(),
		dirtyLo: -1,
		rwx:     rwx,
	}
	if VerboseMode {
		fmt.Fprintf(os.Stderr, "smc: mapped %d bytes at %#x (rwx=%v)\n", size, b.base(), rwx)
	}
	return b, nil
}

func (b *Buffer) base() uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b.mem)))
}

// Words returns the capacity in instruction words.
func (b *Buffer) Words() int { return b.words }

// WriteWord stores one instruction word at word index i. Writing to a
// synchronized buffer makes it writable again; writing to a sealed
// buffer is an error.
func (b *Buffer) WriteWord(i int, w InstructionWord) error {
	switch b.state {
	case stateExecutable:
		return ErrSealed
	case stateClosed:
		return ErrClosed
	}
	ws := b.isa.WordSize()
	if i < 0 || i >= b.words {
		return fmt.Errorf("smc: word index %d out of range [0, %d)", i, b.words)
	}
	off := i * ws
	w.EncodeLE(b.mem[off:])
	if b.dirtyLo < 0 {
		b.dirtyLo, b.dirtyHi = off, off+ws
	} else {
		if off < b.dirtyLo {
			b.dirtyLo = off
		}
		if off+ws > b.dirtyHi {
			b.dirtyHi = off + ws
		}
	}
	b.state = stateWritable
	return nil
}

// Word reads back the instruction word at word index i.
func (b *Buffer) Word(i int) (InstructionWord, error) {
	if b.state == stateClosed {
		return 0, ErrClosed
	}
	if i < 0 || i >= b.words {
		return 0, fmt.Errorf("smc: word index %d out of range [0, %d)", i, b.words)
	}
	return DecodeWord(b.mem[i*b.isa.WordSize():]), nil
}

// Sync runs the coherence barrier over every word written since the
// last synchronization and moves the buffer to the synchronized state.
// After Sync returns, any instruction fetch from the written range
// observes the new encodings. Sync is the only transition that makes a
// buffer sealable.
func (b *Buffer) Sync() error {
	switch b.state {
	case stateExecutable:
		return ErrSealed
	case stateClosed:
		return ErrClosed
	}
	if b.dirtyLo >= 0 {
		n := uintptr(b.dirtyHi - b.dirtyLo)
		b.isa.Sync(unsafe.Pointer(&b.mem[b.dirtyLo]), n)
		if VerboseMode {
			fmt.Fprintf(os.Stderr, "smc: synchronized %d bytes at %#x\n", n, b.base()+uintptr(b.dirtyLo))
		}
		b.dirtyLo = -1
	}
	b.state = stateSynchronized
	return nil
}

// Seal makes the region executable and returns the callable handle.
// Only a synchronized buffer can be sealed; a buffer with pending
// writes gets ErrNotSynchronized.
func (b *Buffer) Seal() (*Code, error) {
	switch b.state {
	case stateWritable:
		return nil, ErrNotSynchronized
	case stateExecutable:
		return nil, ErrSealed
	case stateClosed:
		return nil, ErrClosed
	}
	return b.seal()
}

// SealUnsynchronized seals without requiring Sync, deliberately
// breaking the visibility invariant. It exists so diagnostic builds can
// demonstrate stale instruction fetches on real hardware; never use it
// for code that has to run correctly.
func (b *Buffer) SealUnsynchronized() (*Code, error) {
	switch b.state {
	case stateExecutable:
		return nil, ErrSealed
	case stateClosed:
		return nil, ErrClosed
	}
	return b.seal()
}

func (b *Buffer) seal() (*Code, error) {
	if !b.rwx {
		if err := unix.Mprotect(b.mem, unix.PROT_READ|unix.PROT_EXEC); err != nil {
			return nil, fmt.Errorf("smc: mprotect r-x failed: %v", err)
		}
	}
	b.state = stateExecutable
	if VerboseMode {
		fmt.Fprintf(os.Stderr, "smc: sealed %d words at %#x\n", b.words, b.base())
	}
	return &Code{buf: b}, nil
}

// Close unmaps the region. Any Code handle for it becomes invalid.
func (b *Buffer) Close() error {
	if b.state == stateClosed {
		return ErrClosed
	}
	if err := unix.Munmap(b.mem); err != nil {
		return fmt.Errorf("smc: munmap failed: %v", err)
	}
	b.mem = nil
	b.state = stateClosed
	return nil
}

// Code is the executable view of a sealed buffer. The only way to
// obtain one is Seal, after the written words have passed through the
// coherence barrier.
type Code struct {
	buf *Buffer
}

// Addr returns the entry address, word 0 of the region.
func (c *Code) Addr() uintptr { return c.buf.base() }

// Reopen makes the region writable again for another
// write/sync/seal cycle. The handle must not be called afterwards.
func (c *Code) Reopen() (*Buffer, error) {
	b := c.buf
	switch b.state {
	case stateClosed:
		return nil, ErrClosed
	case stateExecutable:
	default:
		return nil, fmt.Errorf("smc: Reopen on %s buffer", b.state)
	}
	if !b.rwx {
		if err := unix.Mprotect(b.mem, unix.PROT_READ|unix.PROT_WRITE); err != nil {
			return nil, fmt.Errorf("smc: mprotect rw failed: %v", err)
		}
	}
	b.state = stateWritable
	return b, nil
}

// Close unmaps the underlying region.
func (c *Code) Close() error { return c.buf.Close() }
