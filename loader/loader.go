// Package loader reads a raw, big-endian MIPS-32 instruction binary
// from disk and packs it into an emu.InstrMemory.
package loader

import (
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/mips5sim/emu"
)

// Program is a loaded binary ready to run on the pipeline.
type Program struct {
	// Instr holds the program's instruction words.
	Instr *emu.InstrMemory
}

// Load reads the file at path as a flat stream of big-endian 32-bit
// instruction words and packs it into a new instruction memory of
// emu.DefaultInstrMemSize words. A trailing partial word is zero-padded
// silently; truncation on overflow is reported to diagnostics. A nil
// diagnostics writer defaults to os.Stderr.
func Load(path string, diagnostics io.Writer) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open program file: %w", err)
	}

	instr := emu.NewInstrMemory()
	instr.Load(data, diagnostics)

	return &Program{Instr: instr}, nil
}
