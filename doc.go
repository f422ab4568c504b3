// Package smc supports generating and executing self-modifying machine
// code at runtime on aarch64.
//
// The package provides the two architecture-level primitives such code
// needs: a cache-coherence barrier that makes freshly written
// instruction words visible to the instruction fetch path
// (SyncInstructionCache, SyncRange), and a probe that reads back the
// exact encoding the toolchain produces for a return instruction
// (ReturnEncoding). On top of those it models the executable-buffer
// lifecycle explicitly: a Buffer is writable, becomes synchronized
// through Sync, and can only be made callable by Seal, so stale
// instruction fetches are ruled out by construction.
//
// aarch64 keeps separate, non-coherent instruction and data caches.
// Skipping the barrier does not crash the write; it makes execution of
// the buffer nondeterministically observe stale encodings, which is why
// the lifecycle refuses to hand out executable code that has not passed
// through synchronization.
package smc
