// Package trace renders one retired-instruction trace line from the raw
// address, instruction word, and the tagged register/memory accesses the
// JIT-compiled code recorded for that instruction.
//
// The layout is fixed by the generated-IR contract:
//
//	{instret:08} {hartid:04} {addr:08x}  {args:39}  # DASM({inst:08x})
package trace

import (
	"fmt"
	"strings"

	"github.com/pulp-platform/banshee/internal/cpustate"
)

// Line formats a single trace line. accesses and data must be the same
// length and aligned by index; a length mismatch is a bug in the caller
// (the JIT always emits them paired), so Line truncates to the shorter of
// the two rather than panicking.
func Line(instret uint64, hartid int, addr uint32, inst uint32, accesses []cpustate.TraceAccess, data []uint64) string {
	n := len(accesses)
	if len(data) < n {
		n = len(data)
	}
	args := make([]string, 0, n)
	for i := 0; i < n; i++ {
		args = append(args, formatAccess(accesses[i], data[i]))
	}
	joined := strings.Join(args, " ")
	return fmt.Sprintf("%08d %04d %08x  %-39s  # DASM(%08x)", instret, hartid, addr, joined, inst)
}

func formatAccess(a cpustate.TraceAccess, data uint64) string {
	switch a.Kind {
	case cpustate.AccessReadMem:
		return fmt.Sprintf("RA:%08x", uint32(data))
	case cpustate.AccessWriteMem:
		return fmt.Sprintf("WA:%08x", uint32(data))
	case cpustate.AccessReadReg:
		return fmt.Sprintf("x%d:%08x", a.Reg, uint32(data))
	case cpustate.AccessWriteReg:
		return fmt.Sprintf("x%d=%08x", a.Reg, uint32(data))
	case cpustate.AccessReadFReg:
		return fmt.Sprintf("f%d:%016x", a.Reg, data)
	case cpustate.AccessWriteFReg:
		return fmt.Sprintf("f%d=%016x", a.Reg, data)
	default:
		return fmt.Sprintf("?:%x", data)
	}
}
