// Package engine implements the orchestrator: it owns the translated
// LLVM module, the global memory, the per-cluster TCDM buffers, and the
// per-hart Cpu state; drives translation and optimization; materializes
// the native entry point; and coordinates parallel execution of every
// simulated hart against the runtime callback surface in internal/cpu.
//
// This is a line-for-line port of the lifecycle in
// _examples/original_source/banshee/src/engine.rs's Engine type, using
// tinygo.org/x/go-llvm in place of llvm-sys, and goroutines in place of
// crossbeam scoped threads.
package engine

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/pulp-platform/banshee/internal/bansheeerr"
	"github.com/pulp-platform/banshee/internal/bansheelog"
	"github.com/pulp-platform/banshee/internal/bridge"
	"github.com/pulp-platform/banshee/internal/cpu"
	"github.com/pulp-platform/banshee/internal/cpustate"
	bansheeruntime "github.com/pulp-platform/banshee/internal/runtime"
	"github.com/pulp-platform/banshee/internal/siunit"
	"github.com/pulp-platform/banshee/internal/tcdm"
	"github.com/pulp-platform/banshee/pkg/elfimage"
	"github.com/pulp-platform/banshee/pkg/translator"
	"tinygo.org/x/go-llvm"
)

// Config holds the engine's tunables, per SPEC_FULL.md §3/§10. The zero
// value is not a usable configuration: OptLLVM and OptJIT default to
// true, so callers should start from DefaultConfig.
type Config struct {
	OptLLVM bool
	OptJIT  bool
	// Trace is not read by the Engine: a trace line is printed each time
	// the translated code calls banshee_trace, whatever this field says.
	Trace bool

	BaseHartID  int
	NumCores    int
	NumClusters int
}

// DefaultConfig returns the engine's documented defaults: IR optimization
// on, JIT optimization on, tracing off, one cluster of one core starting
// at hartid 0.
func DefaultConfig() Config {
	return Config{
		OptLLVM:     true,
		OptJIT:      true,
		Trace:       false,
		BaseHartID:  0,
		NumCores:    1,
		NumClusters: 1,
	}
}

// Engine is a singleton per emulation run.
type Engine struct {
	cfg Config
	log *slog.Logger

	ctx    llvm.Context
	module llvm.Module

	exitCode atomic.Uint32
	hadError atomic.Bool

	memMu  sync.Mutex
	memory map[uint64]uint32
}

// New creates a new execution engine: it creates an LLVM context, loads
// the bundled "initial" runtime IR blob, null-terminates a working copy,
// wraps it as an in-memory buffer, and parses it into a module within
// that context. If parsing fails or reports an error message, the
// failure is logged and the engine proceeds with an empty module (the
// translator will reject it downstream). logger defaults to a discarding
// logger if nil.
func New(logger *slog.Logger, cfg Config) *Engine {
	if logger == nil {
		logger = bansheelog.Discard()
	}
	ctx := llvm.NewContext()
	module := parseRuntimeIR(ctx, bansheeruntime.Initial, "jit.ll", logger)
	if module.IsNil() {
		module = ctx.NewModule("jit.ll")
	}
	return &Engine{
		cfg:    cfg,
		log:    logger,
		ctx:    ctx,
		module: module,
		memory: make(map[uint64]uint32),
	}
}

// parseRuntimeIR parses one of the bundled runtime IR blobs into ctx. On
// failure it logs and returns the zero Module value; callers proceed with
// whatever (possibly empty) module results, matching the original
// engine's IR-parse-is-logged-and-continue policy (SPEC_FULL.md §7, §9
// open question 1).
func parseRuntimeIR(ctx llvm.Context, ir []byte, name string, logger *slog.Logger) llvm.Module {
	nulTerminated := make([]byte, len(ir)+1)
	copy(nulTerminated, ir)
	buf := llvm.NewMemoryBufferFromString(string(nulTerminated[:len(ir)]), name)
	module, err := ctx.ParseIR(buf)
	if err != nil {
		logger.Error("cannot parse runtime IR",
			slog.String("name", name),
			slog.String("err", fmt.Errorf("%w: %w", bansheeerr.ErrIRParse, err).Error()))
		return llvm.Module{}
	}
	return module
}

// LoadWord, StoreWord, ExitCode, SetExitCode, SetHadError, and Logger
// implement cpu.HostEngine.

// LoadWord reads the global memory map; a missing key reads as zero.
// Only word-aligned addresses are ever keys.
func (e *Engine) LoadWord(addr uint64) uint32 {
	e.memMu.Lock()
	defer e.memMu.Unlock()
	return e.memory[addr]
}

// StoreWord writes the global memory map.
func (e *Engine) StoreWord(addr uint64, value uint32) {
	e.memMu.Lock()
	defer e.memMu.Unlock()
	e.memory[addr] = value
}

// ExitCode returns the current raw exit code (not yet shifted).
func (e *Engine) ExitCode() uint32 {
	return e.exitCode.Load()
}

// SetExitCode atomically stores a new exit code.
func (e *Engine) SetExitCode(value uint32) {
	e.exitCode.Store(value)
}

// SetHadError atomically sets the had_error flag. Never cleared.
func (e *Engine) SetHadError() {
	e.hadError.Store(true)
}

// Logger returns the engine's logger, for Cpu callbacks to log through.
func (e *Engine) Logger() *slog.Logger {
	return e.log
}

// stateLayout computes the byte layout a Translator must address
// generated IR against, from the engine's own struct definitions, so
// engine and translator agree on an ABI without either importing the
// other's concrete types.
func stateLayout() translator.StateLayout {
	var s cpustate.State
	var c cpu.Cpu
	return translator.StateLayout{
		RegsOffset:      unsafe.Offsetof(s.Regs),
		FRegsOffset:     unsafe.Offsetof(s.FRegs),
		PCOffset:        unsafe.Offsetof(s.PC),
		InstretOffset:   unsafe.Offsetof(s.Instret),
		SsrEnableOffset: unsafe.Offsetof(s.SsrEnable),
		StateOffset:     unsafe.Offsetof(c.State),
	}
}

// TranslateELF translates an ELF binary: it logs every loadable section,
// asks tr to estimate branch targets and emit IR, optionally optimizes
// the IR, links in the bundled "generated" runtime IR, and preloads
// global memory from every ALLOC section. See SPEC_FULL.md §4.2.
func (e *Engine) TranslateELF(img *elfimage.Image, tr translator.Translator) error {
	e.log.Debug("loading ELF binary")
	for _, sec := range img.Sections {
		if !sec.Alloc {
			continue
		}
		e.log.Debug("loading ELF section",
			slog.String("name", sec.Name),
			slog.Uint64("from", sec.Addr),
			slog.Uint64("to", sec.Addr+sec.Size))
	}

	if err := tr.UpdateTargetAddresses(img); err != nil {
		return fmt.Errorf("%w: %w", bansheeerr.ErrTranslate, err)
	}

	if err := tr.Translate(e.ctx, e.module, img, stateLayout()); err != nil {
		return fmt.Errorf("%w: %w", bansheeerr.ErrTranslate, err)
	}

	if e.cfg.OptLLVM {
		e.optimize()
	}

	generated := parseRuntimeIR(e.ctx, bansheeruntime.Generated, "jit.rs", e.log)
	if generated.IsNil() {
		e.log.Error("cannot link generated runtime IR: parse failed, module is empty")
	} else if err := llvm.LinkModules(e.module, generated); err != nil {
		e.log.Error("cannot link generated runtime IR", slog.String("err", err.Error()))
	}

	e.preloadMemory(img)
	return nil
}

// preloadMemory copies every ALLOC section's bytes, as little-endian
// 32-bit words, into the global memory map at the section's virtual
// addresses.
func (e *Engine) preloadMemory(img *elfimage.Image) {
	e.memMu.Lock()
	defer e.memMu.Unlock()
	for _, sec := range img.Sections {
		if !sec.Alloc {
			continue
		}
		e.log.Log(context.Background(), bansheelog.LevelTrace, "preloading ELF section", slog.String("name", sec.Name))
		for off := 0; off+4 <= len(sec.Data); off += 4 {
			addr := sec.Addr + uint64(off)
			value := binary.LittleEndian.Uint32(sec.Data[off : off+4])
			e.memory[addr] = value
			e.log.Log(context.Background(), bansheelog.LevelTrace, "preload word",
				slog.Uint64("addr", addr), slog.Uint64("value", uint64(value)))
		}
	}
}

// optimize runs the standard module pipeline at optimization level 3
// over the module, once. No function-level pass manager is used,
// matching SPEC_FULL.md §4.4.
func (e *Engine) optimize() {
	e.log.Debug("optimizing IR")
	pm := llvm.NewPassManager()
	defer pm.Dispose()

	builder := llvm.NewPassManagerBuilder()
	defer builder.Dispose()
	builder.SetOptLevel(3)
	builder.PopulateModulePassManager(pm)

	pm.Run(e.module)
}

// Execute hands the module to the JIT, resolves execute_binary, spawns
// one goroutine per simulated hart, waits for them all, and reports the
// aggregate result. See SPEC_FULL.md §4.3.
func (e *Engine) Execute(tr translator.Translator) (uint32, error) {
	e.log.Debug("creating JIT compiler for translated code")
	optLevel := llvm.CodeGenLevelNone
	if e.cfg.OptJIT {
		optLevel = llvm.CodeGenLevelAggressive
	}
	opts := llvm.NewMCJITCompilerOptions()
	opts.SetMCJITOptimizationLevel(uint(optLevel))

	bridge.RegisterSymbols()

	ee, err := llvm.NewMCJITCompiler(e.module, opts)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", bansheeerr.ErrJITCreate, err)
	}
	defer ee.Dispose()

	execAddr := ee.GetFunctionAddress("execute_binary")
	e.log.Debug("translated binary is at", slog.Uint64("addr", execAddr))
	execFn := bridge.WrapExecuteBinary(execAddr)

	tcdms := tcdm.New(e.cfg.NumClusters, e.snapshotMemory())

	cpus := e.buildCpus(tr, tcdms)

	e.log.Info("launching binary on harts", slog.Int("count", len(cpus)))
	t0 := time.Now()

	var wg sync.WaitGroup
	for _, c := range cpus {
		wg.Add(1)
		go func(c *cpu.Cpu) {
			defer wg.Done()
			c.State.LogGrid(e.log, slog.LevelDebug, c.HartID)
			execFn(c)
			c.State.LogGrid(e.log, slog.LevelDebug, c.HartID)
			e.log.Debug("hart finished", slog.Int("hart", c.HartID))
		}(c)
	}
	wg.Wait()
	duration := time.Since(t0).Seconds()
	e.log.Debug("all harts finished", slog.Int("count", len(cpus)))

	var instret uint64
	for _, c := range cpus {
		instret += c.State.Instret
	}

	e.log.Info("exit code",
		slog.Uint64("value", uint64(e.exitCode.Load()>>1)))
	e.log.Info("retirement summary",
		slog.String("instret", siunit.Format(float64(instret), "inst")),
		slog.String("duration", siunit.Format(duration, "s")),
		slog.String("rate", siunit.Format(float64(instret)/duration, "inst/s")))

	if e.hadError.Load() {
		return 0, bansheeerr.ErrExecutionFailed
	}
	return e.exitCode.Load() >> 1, nil
}

func (e *Engine) snapshotMemory() map[uint64]uint32 {
	e.memMu.Lock()
	defer e.memMu.Unlock()
	snap := make(map[uint64]uint32, len(e.memory))
	for k, v := range e.memory {
		snap[k] = v
	}
	return snap
}

// buildCpus allocates num_clusters x num_cores Cpu records, assigning
// hartids in row-major order: cluster j core i gets hartid
// base_hartid + j*num_cores + i; cluster_base_hartid is
// base_hartid + j*num_cores.
func (e *Engine) buildCpus(tr translator.Translator, tcdms []*tcdm.Buffer) []*cpu.Cpu {
	var disasm cpu.Disassembler
	if tr != nil {
		disasm = tr
	}
	var cpus []*cpu.Cpu
	for j := 0; j < e.cfg.NumClusters; j++ {
		clusterBase := e.cfg.BaseHartID + j*e.cfg.NumCores
		for i := 0; i < e.cfg.NumCores; i++ {
			cpus = append(cpus, cpu.New(e, disasm, tcdms[j], clusterBase+i, e.cfg.NumCores, clusterBase))
		}
	}
	return cpus
}
