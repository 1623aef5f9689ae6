// Package cpustate defines the flat, trivially-initializable record a
// simulated hart's state is stored in.
//
// The field order below is load-bearing: the JIT-compiled code generated by
// the (out-of-scope) Translator addresses these fields by byte offset, not
// by name. Reordering, adding, or resizing a field without updating the
// runtime IR contract will silently corrupt every translated load/store of
// register or CSR state.
package cpustate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// NumIntRegs is the number of 32-bit integer registers.
const NumIntRegs = 32

// NumFPRegs is the number of 64-bit floating point registers.
const NumFPRegs = 32

// NumSSRs is the number of streaming-register engines per hart.
const NumSSRs = 2

// SsrState is the opaque state of one streaming-register (SSR) engine. Its
// shape is defined by the runtime IR contract; the engine only owns the
// storage and never interprets these bytes itself.
type SsrState struct {
	// Raw is the opaque byte-compatible payload. Sized generously; the
	// runtime IR never writes past what the real generated-IR contract
	// defines, and the engine does not validate that boundary.
	Raw [32]byte
}

// DmaState is the opaque state of the hart's DMA engine. Same byte-
// compatibility contract as SsrState.
type DmaState struct {
	Raw [64]byte
}

// State is a single simulated hart's register file, program counter,
// retired-instruction counter, and the opaque SSR/DMA engine states.
//
// NOTE: field order matches the runtime IR contract exactly (see the
// package doc comment). Do not reorder.
type State struct {
	Regs   [NumIntRegs]uint32
	FRegs  [NumFPRegs]uint64
	PC     uint32
	Instret uint64
	Ssrs   [NumSSRs]SsrState
	SsrEnable uint32
	Dma    DmaState
}

// AccessKind is the tag half of a TraceAccess: one byte identifying what
// kind of register/memory operation a trace entry records. The JIT emits
// this tag alongside a parallel uint64 data value; the encoding (per entry,
// one tag byte followed by one register-index byte, the latter unused for
// the memory variants) is part of the generated-IR contract and must not change
// independently of it.
type AccessKind uint8

// The six TraceAccess variants.
const (
	AccessReadMem AccessKind = iota
	AccessWriteMem
	AccessReadReg
	AccessWriteReg
	AccessReadFReg
	AccessWriteFReg
)

// TraceAccess is one recorded register or memory access, with the register
// index populated only for the four register variants.
type TraceAccess struct {
	Kind AccessKind
	Reg  uint8 // 5-bit register index; unused for AccessRead/WriteMem
}

// Reset zeroes the state in place. Equivalent to the zero value, provided
// for symmetry with CpuState.LogGrid callers that reuse a State.
func (s *State) Reset() {
	*s = State{}
}

// LogGrid writes the full register file, program counter, retired-
// instruction count, and ssr_enable as a multi-line dump at level, tagged
// with hartid. It checks logger.Enabled first so the grid is never
// formatted when nothing will consume it; Engine.Execute calls this at
// debug level for each hart, before and after its execute_binary call
// (see SPEC_FULL.md §12).
func (s *State) LogGrid(logger *slog.Logger, level slog.Level, hartid int) {
	if !logger.Enabled(context.Background(), level) {
		return
	}

	var regs strings.Builder
	for i, v := range s.Regs {
		if i > 0 && i%8 == 0 {
			regs.WriteByte('\n')
		}
		fmt.Fprintf(&regs, "x%d=%08x ", i, v)
	}

	var fregs strings.Builder
	for i, v := range s.FRegs {
		if i > 0 && i%4 == 0 {
			fregs.WriteByte('\n')
		}
		fmt.Fprintf(&fregs, "f%d=%016x ", i, v)
	}

	logger.Log(context.Background(), level, "cpu state",
		slog.Int("hart", hartid),
		slog.Uint64("pc", uint64(s.PC)),
		slog.Uint64("instret", s.Instret),
		slog.Uint64("ssr_enable", uint64(s.SsrEnable)),
		slog.String("regs", regs.String()),
		slog.String("fregs", fregs.String()))
}
