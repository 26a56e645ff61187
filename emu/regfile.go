// Package emu provides the architectural state of the simulated MIPS-32
// machine: the register file, data memory, and instruction memory, plus
// the pure ALU function that computes over them.
package emu

// NumRegs is the number of general-purpose registers (MIPS has 32).
const NumRegs = 32

// RegFile represents the MIPS-32 general-purpose register file.
//
// Register 0 ($zero) always reads as 0; writes to it are discarded. An
// out-of-range index behaves the same way: reads return 0, writes are
// no-ops. There is no error path for register access — bad indices are
// a decoder bug, not a runtime condition worth reporting.
type RegFile struct {
	regs [NumRegs]int32
}

// Read returns the value of register reg, or 0 for $zero and for any
// out-of-range index.
func (r *RegFile) Read(reg uint8) int32 {
	if reg == 0 || int(reg) >= NumRegs {
		return 0
	}
	return r.regs[reg]
}

// Write stores value into register reg. Writes to $zero and to any
// out-of-range index are silently discarded.
func (r *RegFile) Write(reg uint8, value int32) {
	if reg == 0 || int(reg) >= NumRegs {
		return
	}
	r.regs[reg] = value
}

// Snapshot returns a copy of all 32 registers, for inspection in tests.
func (r *RegFile) Snapshot() [NumRegs]int32 {
	return r.regs
}
