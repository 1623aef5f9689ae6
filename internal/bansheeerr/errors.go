// Package bansheeerr defines the error kinds the engine can surface, per
// the error handling design: translate and jit-create are fatal and
// returned immediately, runtime-abort is deferred until all harts join,
// ir-parse is logged and not returned, and memory-miss is not an error at
// all (a miss reads as zero).
package bansheeerr

import "errors"

var (
	// ErrTranslate indicates the Translator refused the binary (unknown
	// instruction, malformed ELF, or similar).
	ErrTranslate = errors.New("banshee: translation failed")

	// ErrIRParse indicates a runtime IR blob failed to parse. Never
	// returned to a caller: the engine logs it and proceeds with whatever
	// module resulted, per the deliberately tolerant policy in §7.
	ErrIRParse = errors.New("banshee: runtime IR parse failed")

	// ErrJITCreate indicates the JIT compiler rejected the linked module.
	ErrJITCreate = errors.New("banshee: jit compiler rejected module")

	// ErrExecutionFailed indicates at least one hart hit an abort
	// (escape, illegal instruction, or illegal branch) during execution.
	ErrExecutionFailed = errors.New("banshee: execution failed")
)
