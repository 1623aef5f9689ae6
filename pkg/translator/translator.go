// Package translator defines the boundary between the engine and the
// instruction-level translator that walks ELF sections and emits IR basic
// blocks. The translator itself — instruction decoding, control-flow
// reconstruction, IR codegen — is an external collaborator and
// deliberately not implemented in this module; only the contract the
// engine drives it through lives here.
package translator

import (
	"github.com/pulp-platform/banshee/pkg/elfimage"
	"tinygo.org/x/go-llvm"
)

// StateLayout describes the byte layout of the per-hart Cpu/CpuState
// record the translator must address into from generated IR. The engine
// computes this from its own struct definitions and hands it to the
// translator so the two sides agree on an ABI without either depending on
// the other's Go types.
type StateLayout struct {
	// RegsOffset, FRegsOffset, PCOffset, InstretOffset, SsrEnableOffset
	// are byte offsets of CpuState fields from the start of CpuState.
	RegsOffset      uintptr
	FRegsOffset     uintptr
	PCOffset        uintptr
	InstretOffset   uintptr
	SsrEnableOffset uintptr

	// StateOffset is the byte offset of CpuState within Cpu.
	StateOffset uintptr
}

// Translator is the interface the engine drives translation through. A
// concrete implementation is an out-of-scope, external collaborator.
type Translator interface {
	// UpdateTargetAddresses estimates branch-target addresses across all
	// instructions in img, so indirect jumps can later resolve into
	// known IR basic blocks.
	UpdateTargetAddresses(img *elfimage.Image) error

	// Translate emits IR into module (within ctx) for every reachable
	// instruction in img, addressing per-hart state according to layout.
	Translate(ctx llvm.Context, module llvm.Module, img *elfimage.Image, layout StateLayout) error

	// Disassemble renders a single raw 32-bit instruction word as
	// mnemonic text, used when reporting an illegal-instruction abort.
	Disassemble(inst uint32) string
}
