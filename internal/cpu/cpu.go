// Package cpu implements the per-hart runtime object passed by raw
// address into JIT-compiled code. Its exported Binary* methods are the
// callback surface the generated-IR contract calls by the fixed names
// registered in internal/bridge (banshee_load, banshee_store, and so on);
// see SPEC_FULL.md §4.5-§4.9.
//
// A Cpu borrows its Engine (through the narrow HostEngine view below, to
// avoid an import cycle with internal/engine) and its cluster's TCDM
// buffer; it exclusively owns its own CpuState. No two Cpus share a
// CpuState, and the TCDM pointer is shared read/write with the other
// Cpus in the same cluster with no locking of its own.
package cpu

import (
	"fmt"
	"log/slog"

	"github.com/pulp-platform/banshee/internal/cpustate"
	"github.com/pulp-platform/banshee/internal/tcdm"
	"github.com/pulp-platform/banshee/internal/trace"
)

// HostEngine is the subset of the engine a Cpu needs: the shared global
// memory (mutex-guarded inside the implementation) and the atomic
// exit/error scalars.
type HostEngine interface {
	LoadWord(addr uint64) uint32
	StoreWord(addr uint64, value uint32)
	ExitCode() uint32
	SetExitCode(value uint32)
	SetHadError()
	Logger() *slog.Logger
}

// Disassembler renders a raw instruction word as mnemonic text. Supplied
// by the (out-of-scope) Translator; used only for illegal-instruction
// abort reporting.
type Disassembler interface {
	Disassemble(inst uint32) string
}

// Cpu is one simulated hart.
type Cpu struct {
	Engine             HostEngine
	Disasm             Disassembler
	State              cpustate.State
	TCDM               *tcdm.Buffer
	HartID             int
	NumCores           int
	ClusterBaseHartID  int
}

// New builds a Cpu in its default (zeroed) state.
func New(engine HostEngine, disasm Disassembler, tcdmBuf *tcdm.Buffer, hartID, numCores, clusterBaseHartID int) *Cpu {
	return &Cpu{
		Engine:            engine,
		Disasm:            disasm,
		TCDM:              tcdmBuf,
		HartID:            hartID,
		NumCores:          numCores,
		ClusterBaseHartID: clusterBaseHartID,
	}
}

// BinaryCSRRead implements the CSR read contract of SPEC_FULL.md §4.6.
// CSR reads are per-hart and never take the global memory lock.
func (c *Cpu) BinaryCSRRead(csr uint16) uint32 {
	switch csr {
	case 0x7C0: // ssr_enable
		return c.State.SsrEnable
	case 0xF14: // mhartid
		return uint32(c.HartID)
	default:
		return 0
	}
}

// BinaryCSRWrite implements the CSR write contract of SPEC_FULL.md §4.6.
func (c *Cpu) BinaryCSRWrite(csr uint16, value uint32) {
	if csr == 0x7C0 {
		c.State.SsrEnable = value
	}
	// anything else: ignored, no fault
}

// BinaryAbortEscape implements the escape abort of SPEC_FULL.md §4.7:
// control fell outside every known basic block.
func (c *Cpu) BinaryAbortEscape(addr uint32) {
	c.Engine.Logger().Error("cpu escaped translated binary", slog.Int("hart", c.HartID), slog.Uint64("addr", uint64(addr)))
	c.Engine.SetHadError()
}

// BinaryAbortIllegalInst implements the illegal-instruction abort.
func (c *Cpu) BinaryAbortIllegalInst(addr uint32, instRaw uint32) {
	mnemonic := "<unknown>"
	if c.Disasm != nil {
		mnemonic = c.Disasm.Disassemble(instRaw)
	}
	c.Engine.Logger().Error("illegal instruction", slog.Int("hart", c.HartID), slog.String("inst", mnemonic), slog.Uint64("addr", uint64(addr)))
	c.Engine.SetHadError()
}

// BinaryAbortIllegalBranch implements the illegal-branch abort: a direct
// or predicted branch went to an address absent from the translated CFG.
func (c *Cpu) BinaryAbortIllegalBranch(addr uint32, target uint32) {
	c.Engine.Logger().Error("branch to unpredicted address", slog.Int("hart", c.HartID), slog.Uint64("target", uint64(target)), slog.Uint64("addr", uint64(addr)))
	c.Engine.SetHadError()
}

// BinaryTrace implements the trace callback of SPEC_FULL.md §4.8. It is
// unsynchronized across harts — interleaved lines across concurrently
// running harts are acceptable — and always goes to stdout regardless of
// the configured log level, since it is a data protocol, not a log line.
func (c *Cpu) BinaryTrace(addr, inst uint32, accesses []cpustate.TraceAccess, data []uint64) {
	line := trace.Line(c.State.Instret, c.HartID, addr, inst, accesses, data)
	fmt.Println(line)
}
