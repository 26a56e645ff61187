// Package pipeline implements the 5-stage in-order MIPS-32 pipeline:
// IF, ID, EX, MEM, WB, connected by four pipeline latches and a
// stall-only hazard unit with no forwarding.
package pipeline

import "github.com/sarchlab/mips5sim/emu"

// IFIDRegister holds state between Fetch and Decode.
type IFIDRegister struct {
	Valid bool
	Instr uint32
	PC    uint32
}

// Clear resets the latch to an invalid bubble.
func (r *IFIDRegister) Clear() {
	*r = IFIDRegister{}
}

// IDEXRegister holds state between Decode and Execute.
type IDEXRegister struct {
	Valid bool
	Instr uint32
	PC    uint32

	RS, RT, RD   uint8
	RSVal, RTVal int32
	Imm          int32 // sign-extended immediate, shift amount, or jump address field
	DestReg      uint8
	RegWrite     bool
	MemRead      bool
	MemWrite     bool
	ALUOp        emu.ALUOp
	Branch       int // 0 none, 1 BEQ, 2 BNE
	Jump         int // 0 none, 1 J, 2 JR
}

// Clear resets the latch to an invalid bubble.
func (r *IDEXRegister) Clear() {
	*r = IDEXRegister{}
}

// EXMEMRegister holds state between Execute and Memory.
type EXMEMRegister struct {
	Valid bool
	Instr uint32
	PC    uint32

	ALUResult int32
	StoreVal  int32
	DestReg   uint8
	RegWrite  bool
	MemRead   bool
	MemWrite  bool
}

// Clear resets the latch to an invalid bubble.
func (r *EXMEMRegister) Clear() {
	*r = EXMEMRegister{}
}

// MEMWBRegister holds state between Memory and Writeback.
type MEMWBRegister struct {
	Valid    bool
	Instr    uint32
	WriteVal int32
	DestReg  uint8
	RegWrite bool
}

// Clear resets the latch to an invalid bubble.
func (r *MEMWBRegister) Clear() {
	*r = MEMWBRegister{}
}
