//go:build unix

package smc

import "testing"

func emittedWords(t *testing.T, b *Buffer, n int) []InstructionWord {
	t.Helper()
	words := make([]InstructionWord, n)
	for i := range words {
		w, err := b.Word(i)
		if err != nil {
			t.Fatalf("Word(%d) failed: %v", i, err)
		}
		words[i] = w
	}
	return words
}

func TestEmitterEncodings(t *testing.T) {
	tests := []struct {
		name string
		emit func(e *Emitter) error
		want []InstructionWord
	}{
		{
			name: "nop",
			emit: func(e *Emitter) error { return e.Nop() },
			want: []InstructionWord{0xd503201f},
		},
		{
			name: "ret",
			emit: func(e *Emitter) error { return e.Ret() },
			want: []InstructionWord{0xd65f03c0},
		},
		{
			name: "movz_small",
			emit: func(e *Emitter) error { return e.MovImm64("x0", 42) },
			want: []InstructionWord{0xd2800540},
		},
		{
			name: "movz_movk_full",
			emit: func(e *Emitter) error { return e.MovImm64("x1", 0x1234_5678_9abc_def0) },
			want: []InstructionWord{
				0xd29bde01, // MOVZ X1, #0xdef0
				0xf2b35781, // MOVK X1, #0x9abc, LSL #16
				0xf2cacf01, // MOVK X1, #0x5678, LSL #32
				0xf2e24681, // MOVK X1, #0x1234, LSL #48
			},
		},
		{
			name: "movz_sparse_chunks",
			emit: func(e *Emitter) error { return e.MovImm64("x2", 0x7_0000_0000) },
			want: []InstructionWord{
				0xd2800002, // MOVZ X2, #0
				0xf2c000e2, // MOVK X2, #7, LSL #32
			},
		},
		{
			name: "add_imm",
			emit: func(e *Emitter) error { return e.AddImm64("x0", "x1", 1) },
			want: []InstructionWord{0x91000420},
		},
		{
			name: "word_passthrough",
			emit: func(e *Emitter) error { return e.Word(0xdeadbeef) },
			want: []InstructionWord{0xdeadbeef},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBuffer(stubISA{}, 8)
			if err != nil {
				t.Fatalf("NewBuffer failed: %v", err)
			}
			defer b.Close()

			e := NewEmitter(b)
			if err := tt.emit(e); err != nil {
				t.Fatalf("emit failed: %v", err)
			}
			if e.Pos() != len(tt.want) {
				t.Fatalf("Pos() = %d, want %d", e.Pos(), len(tt.want))
			}
			got := emittedWords(t, b, e.Pos())
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("word %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestEmitterInvalidRegister(t *testing.T) {
	b, err := NewBuffer(stubISA{}, 8)
	if err != nil {
		t.Fatalf("NewBuffer failed: %v", err)
	}
	defer b.Close()

	e := NewEmitter(b)
	if err := e.MovImm64("x99", 1); err == nil {
		t.Error("MovImm64 with invalid register should fail")
	}
	if err := e.AddImm64("x0", "w0", 1); err == nil {
		t.Error("AddImm64 with invalid register should fail")
	}
	if err := e.AddImm64("x0", "x1", 0x1000); err == nil {
		t.Error("AddImm64 with 13-bit immediate should fail")
	}
	if e.Pos() != 0 {
		t.Errorf("failed emits must not advance position, Pos() = %d", e.Pos())
	}
}

func TestEmitterFillsBuffer(t *testing.T) {
	b, err := NewBuffer(stubISA{}, 4)
	if err != nil {
		t.Fatalf("NewBuffer failed: %v", err)
	}
	defer b.Close()

	e := NewEmitter(b)
	for i := 0; i < b.Words(); i++ {
		if err := e.Nop(); err != nil {
			t.Fatalf("Nop %d failed: %v", i, err)
		}
	}
	if err := e.Nop(); err == nil {
		t.Error("emitting past the end of the buffer should fail")
	}
}
