// Command banshee is the thin front-end over internal/engine: it loads an
// ELF binary, drives translation and JIT execution, and reports the exit
// code. The binary-to-IR Translator is an external collaborator (see
// SPEC_FULL.md §1, out of scope); this front-end wires one in via
// pkg/translator.Translator and fails fast if none is linked in, the same
// way the upstream vm/interp front-ends fail fast on a missing file.
package main

import (
	"debug/elf"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/pulp-platform/banshee/internal/bansheelog"
	"github.com/pulp-platform/banshee/internal/engine"
	"github.com/pulp-platform/banshee/pkg/elfimage"
	"github.com/pulp-platform/banshee/pkg/translator"
	"tinygo.org/x/go-llvm"
)

func main() {
	log.SetFlags(0)
	filename := flag.String("f", "", "ELF binary to run")
	verbose := flag.Bool("v", false, "enable debug logging")
	trace := flag.Bool("trace", false, "set the engine's Trace option (not read by the engine; trace lines come from banshee_trace calls in the translated code)")
	noOptLLVM := flag.Bool("no-opt-llvm", false, "disable LLVM IR optimization")
	noOptJIT := flag.Bool("no-opt-jit", false, "disable JIT code generation optimization")
	cores := flag.Int("cores", 1, "number of cores per cluster")
	clusters := flag.Int("clusters", 1, "number of clusters")
	baseHart := flag.Int("base-hartid", 0, "hartid of the first simulated hart")
	flag.Parse()

	if *filename == "" {
		log.Fatal("usage: banshee [-v] [-trace] [-cores N] [-clusters N] -f <elf-binary>")
	}

	level := slog.LevelInfo
	if *verbose {
		level = bansheelog.LevelTrace
	}
	logger := bansheelog.New(os.Stderr, level)

	fp, err := os.Open(*filename)
	if err != nil {
		log.Fatal(err)
	}
	defer fp.Close()

	ef, err := elf.NewFile(fp)
	if err != nil {
		log.Fatal(err)
	}
	img, err := elfimage.FromDebugELF(ef)
	if err != nil {
		log.Fatal(err)
	}

	cfg := engine.DefaultConfig()
	cfg.OptLLVM = !*noOptLLVM
	cfg.OptJIT = !*noOptJIT
	cfg.Trace = *trace
	cfg.NumCores = *cores
	cfg.NumClusters = *clusters
	cfg.BaseHartID = *baseHart

	eng := engine.New(logger, cfg)

	tr := &unimplementedTranslator{}
	if err := eng.TranslateELF(img, tr); err != nil {
		log.Fatal(err)
	}

	exitCode, err := eng.Execute(tr)
	if err != nil {
		log.Fatal(err)
	}
	os.Exit(int(exitCode))
}

// unimplementedTranslator stands in for the real ELF-to-IR translator,
// which is an external collaborator. It lets this front-end compile and
// wire the rest of the engine lifecycle, but any real binary will fail at
// TranslateELF until a real Translator is substituted here.
type unimplementedTranslator struct{}

func (*unimplementedTranslator) UpdateTargetAddresses(img *elfimage.Image) error {
	return errors.New("no translator linked in; substitute a real pkg/translator.Translator")
}

func (*unimplementedTranslator) Translate(ctx llvm.Context, module llvm.Module, img *elfimage.Image, layout translator.StateLayout) error {
	return errors.New("no translator linked in; substitute a real pkg/translator.Translator")
}

func (*unimplementedTranslator) Disassemble(inst uint32) string {
	return "<unknown>"
}
