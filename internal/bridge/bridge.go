// Package bridge is the cgo trampoline layer between Go and the
// LLVM-JITted native code: it publishes the Cpu callback methods under
// the fixed external names the generated IR references (SPEC_FULL.md
// §4.9), and it lets the engine invoke the resolved execute_binary
// function pointer.
//
// Go function values are not C-callable, so each banshee_* symbol is
// backed by a small //export'd Go function with a plain-C-types
// signature; llvm.AddSymbol publishes the address of the generated C
// wrapper for that export, not a Go func value.
//
// Every callback, and execute_binary itself, carries the calling Cpu as a
// plain integer (its address, reinterpreted via uintptr). This is
// deliberate, not merely convenient: the Translator addresses CpuState's
// register file directly from generated code (see pkg/translator's
// StateLayout) rather than paying a host round trip per register access,
// so the value that crosses the boundary must be a real, stable address,
// not an opaque token. The Cpu stays reachable for the whole synchronous
// execute_binary call through the calling goroutine's own stack frame, so
// the round trip never outlives the Go value it points at.
package bridge

/*
#include <stdint.h>

extern uint32_t goBansheeLoad(uintptr_t cpu, uint32_t addr, uint8_t size);
extern void goBansheeStore(uintptr_t cpu, uint32_t addr, uint32_t value, uint8_t size);
extern uint32_t goBansheeCSRRead(uintptr_t cpu, uint16_t csr);
extern void goBansheeCSRWrite(uintptr_t cpu, uint16_t csr, uint32_t value);
extern void goBansheeAbortEscape(uintptr_t cpu, uint32_t addr);
extern void goBansheeAbortIllegalInst(uintptr_t cpu, uint32_t addr, uint32_t inst);
extern void goBansheeAbortIllegalBranch(uintptr_t cpu, uint32_t addr, uint32_t target);
extern void goBansheeTrace(uintptr_t cpu, uint32_t addr, uint32_t inst, uint8_t *accesses, int64_t count, uint64_t *data);

static void *banshee_load_ptr(void)                 { return (void *)goBansheeLoad; }
static void *banshee_store_ptr(void)                { return (void *)goBansheeStore; }
static void *banshee_csr_read_ptr(void)              { return (void *)goBansheeCSRRead; }
static void *banshee_csr_write_ptr(void)             { return (void *)goBansheeCSRWrite; }
static void *banshee_abort_escape_ptr(void)          { return (void *)goBansheeAbortEscape; }
static void *banshee_abort_illegal_inst_ptr(void)    { return (void *)goBansheeAbortIllegalInst; }
static void *banshee_abort_illegal_branch_ptr(void)  { return (void *)goBansheeAbortIllegalBranch; }
static void *banshee_trace_ptr(void)                 { return (void *)goBansheeTrace; }

typedef void (*execute_binary_fn)(uintptr_t cpu);

static void banshee_call_execute_binary(uintptr_t fn, uintptr_t cpu) {
	((execute_binary_fn)fn)(cpu);
}
*/
import "C"

import (
	"sync"
	"unsafe"

	"github.com/pulp-platform/banshee/internal/cpu"
	"github.com/pulp-platform/banshee/internal/cpustate"
	"tinygo.org/x/go-llvm"
)

var registerOnce sync.Once

// RegisterSymbols publishes each Cpu callback under its fixed external
// name. Publication is process-global; it must happen exactly once
// before the first JIT execution engine is created, so a package-level
// sync.Once (rather than one per Engine) backs it, matching the
// process-wide semantics SPEC_FULL.md §4.9 describes.
func RegisterSymbols() {
	registerOnce.Do(func() {
		llvm.AddSymbol("banshee_load", C.banshee_load_ptr())
		llvm.AddSymbol("banshee_store", C.banshee_store_ptr())
		llvm.AddSymbol("banshee_csr_read", C.banshee_csr_read_ptr())
		llvm.AddSymbol("banshee_csr_write", C.banshee_csr_write_ptr())
		llvm.AddSymbol("banshee_abort_escape", C.banshee_abort_escape_ptr())
		llvm.AddSymbol("banshee_abort_illegal_inst", C.banshee_abort_illegal_inst_ptr())
		llvm.AddSymbol("banshee_abort_illegal_branch", C.banshee_abort_illegal_branch_ptr())
		llvm.AddSymbol("banshee_trace", C.banshee_trace_ptr())
	})
}

// ExecFn is a resolved, callable execute_binary entry point.
type ExecFn func(c *cpu.Cpu)

// WrapExecuteBinary turns the raw function address the JIT resolved for
// "execute_binary" into a Go-callable function.
func WrapExecuteBinary(addr uint64) ExecFn {
	return func(c *cpu.Cpu) {
		C.banshee_call_execute_binary(C.uintptr_t(addr), C.uintptr_t(uintptr(unsafe.Pointer(c))))
	}
}

func lookup(h C.uintptr_t) *cpu.Cpu {
	return (*cpu.Cpu)(unsafe.Pointer(uintptr(h)))
}

//export goBansheeLoad
func goBansheeLoad(h C.uintptr_t, addr C.uint32_t, size C.uint8_t) C.uint32_t {
	return C.uint32_t(lookup(h).BinaryLoad(uint32(addr), uint8(size)))
}

//export goBansheeStore
func goBansheeStore(h C.uintptr_t, addr C.uint32_t, value C.uint32_t, size C.uint8_t) {
	lookup(h).BinaryStore(uint32(addr), uint32(value), uint8(size))
}

//export goBansheeCSRRead
func goBansheeCSRRead(h C.uintptr_t, csr C.uint16_t) C.uint32_t {
	return C.uint32_t(lookup(h).BinaryCSRRead(uint16(csr)))
}

//export goBansheeCSRWrite
func goBansheeCSRWrite(h C.uintptr_t, csr C.uint16_t, value C.uint32_t) {
	lookup(h).BinaryCSRWrite(uint16(csr), uint32(value))
}

//export goBansheeAbortEscape
func goBansheeAbortEscape(h C.uintptr_t, addr C.uint32_t) {
	lookup(h).BinaryAbortEscape(uint32(addr))
}

//export goBansheeAbortIllegalInst
func goBansheeAbortIllegalInst(h C.uintptr_t, addr C.uint32_t, inst C.uint32_t) {
	lookup(h).BinaryAbortIllegalInst(uint32(addr), uint32(inst))
}

//export goBansheeAbortIllegalBranch
func goBansheeAbortIllegalBranch(h C.uintptr_t, addr C.uint32_t, target C.uint32_t) {
	lookup(h).BinaryAbortIllegalBranch(uint32(addr), uint32(target))
}

//export goBansheeTrace
func goBansheeTrace(h C.uintptr_t, addr C.uint32_t, inst C.uint32_t, accesses *C.uint8_t, count C.int64_t, data *C.uint64_t) {
	n := int(count)
	if n == 0 {
		lookup(h).BinaryTrace(uint32(addr), uint32(inst), nil, nil)
		return
	}
	rawAcc := unsafe.Slice((*uint8)(unsafe.Pointer(accesses)), n*2)
	rawData := unsafe.Slice((*uint64)(unsafe.Pointer(data)), n)

	tagged := make([]cpustate.TraceAccess, n)
	for i := 0; i < n; i++ {
		tagged[i] = cpustate.TraceAccess{Kind: cpustate.AccessKind(rawAcc[2*i]), Reg: rawAcc[2*i+1]}
	}
	words := make([]uint64, n)
	copy(words, rawData)

	lookup(h).BinaryTrace(uint32(addr), uint32(inst), tagged, words)
}
