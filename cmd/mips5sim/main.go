// Package main provides the entry point for mips5sim, a 5-stage
// in-order MIPS-32 pipeline simulator.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/mips5sim/emu"
	"github.com/sarchlab/mips5sim/loader"
	"github.com/sarchlab/mips5sim/timing/pipeline"
)

var verbose = flag.Bool("v", false, "print per-cycle stall/flush trace to stderr")

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Printf("Usage: mips5sim <program.bin>\n")
		os.Exit(1)
	}

	programPath := flag.Arg(0)

	prog, err := loader.Load(programPath, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	regFile := &emu.RegFile{}
	memory := emu.NewMemory()

	var opts []pipeline.PipelineOption
	if *verbose {
		opts = append(opts, pipeline.WithTraceWriter(os.Stderr))
	}

	pipe := pipeline.NewPipeline(regFile, memory, prog.Instr, opts...)
	pipe.SetPC(0)
	pipe.Run()

	stats := pipe.Stats()
	fmt.Printf("Simulation completed in %d cycles.\n", stats.Cycles)
	fmt.Printf("Total instructions executed (completed): %d\n", stats.Instructions)

	fmt.Printf("Square table 0^2 to 200^2:\n")
	for n := 0; n <= 200; n++ {
		v := memory.ReadWord(uint32(0x0100 + n*4))
		fmt.Printf("%3d^2 = %d\n", n, v)
	}
}
