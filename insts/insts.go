// Package insts decodes MIPS-32 instruction words into the control
// information the pipeline's decode stage needs: ALU operation,
// register sources/destination, immediate value, and the control
// signals (RegWrite, MemRead, MemWrite, Branch, Jump) that drive the
// later stages.
package insts

import "github.com/sarchlab/mips5sim/emu"

// BranchKind distinguishes the flavor of conditional branch so the
// execute stage knows whether to branch when the two source register
// values are equal or when they differ.
type BranchKind int

const (
	BranchNone BranchKind = iota
	BranchEQ
	BranchNE
)

// JumpKind distinguishes unconditional jump from jump-register.
type JumpKind int

const (
	JumpNone JumpKind = iota
	JumpDirect
	JumpRegister
)

// Decoded holds everything the decode stage extracts from one
// instruction word. An all-zero Decoded (ALUOpNop, everything else
// false/zero) behaves as a no-op: no register write, no memory access,
// no control transfer — the same shape the zero value of the
// pipeline's ID/EX bubble needs.
type Decoded struct {
	Raw uint32

	RS, RT, RD uint8
	ALUOp      emu.ALUOp
	Imm        int32 // sign-extended for I-type, SHAMT for shifts, 26-bit field for J

	RegWrite bool
	DestReg  uint8
	MemRead  bool
	MemWrite bool
	Branch   BranchKind
	Jump     JumpKind
}

func opcode(w uint32) uint8 { return uint8((w >> 26) & 0x3F) }
func rs(w uint32) uint8     { return uint8((w >> 21) & 0x1F) }
func rt(w uint32) uint8     { return uint8((w >> 16) & 0x1F) }
func rd(w uint32) uint8     { return uint8((w >> 11) & 0x1F) }
func shamt(w uint32) uint8  { return uint8((w >> 6) & 0x1F) }
func funct(w uint32) uint8  { return uint8(w & 0x3F) }
func imm16(w uint32) int32  { return int32(int16(uint16(w & 0xFFFF))) }
func addr26(w uint32) int32 { return int32(w & 0x03FFFFFF) }

// Decode extracts control information from a raw instruction word.
// Unrecognized opcodes/functs decode to a Decoded with no control
// signals set, which the pipeline treats as a harmless no-op rather
// than an error.
func Decode(w uint32) Decoded {
	d := Decoded{
		Raw: w,
		RS:  rs(w),
		RT:  rt(w),
		RD:  rd(w),
	}

	op := opcode(w)
	if op == 0x00 {
		decodeRType(&d, w)
		return d
	}
	decodeOther(&d, w, op)
	return d
}

func decodeRType(d *Decoded, w uint32) {
	d.RegWrite = true
	d.DestReg = d.RD

	switch funct(w) {
	case 0x20, 0x21: // ADD, ADDU
		d.ALUOp = emu.ALUOpAdd
	case 0x22, 0x23: // SUB, SUBU
		d.ALUOp = emu.ALUOpSub
	case 0x24: // AND
		d.ALUOp = emu.ALUOpAnd
	case 0x25: // OR
		d.ALUOp = emu.ALUOpOr
	case 0x26: // XOR
		d.ALUOp = emu.ALUOpXor
	case 0x27: // NOR
		d.ALUOp = emu.ALUOpNor
	case 0x2A: // SLT
		d.ALUOp = emu.ALUOpSlt
	case 0x00: // SLL
		d.ALUOp = emu.ALUOpSll
		d.Imm = int32(shamt(w))
	case 0x02: // SRL
		d.ALUOp = emu.ALUOpSrl
		d.Imm = int32(shamt(w))
	case 0x08: // JR
		d.RegWrite = false
		d.DestReg = 0
		d.Jump = JumpRegister
	default:
		d.RegWrite = false
		d.DestReg = 0
	}
}

func decodeOther(d *Decoded, w uint32, op uint8) {
	d.Imm = imm16(w)

	switch op {
	case 0x08: // ADDI
		d.RegWrite = true
		d.DestReg = d.RT
		d.ALUOp = emu.ALUOpAdd
	case 0x23: // LW
		d.RegWrite = true
		d.MemRead = true
		d.DestReg = d.RT
		d.ALUOp = emu.ALUOpAdd
	case 0x2B: // SW
		d.MemWrite = true
		d.ALUOp = emu.ALUOpAdd
	case 0x04: // BEQ
		d.Branch = BranchEQ
		d.ALUOp = emu.ALUOpSub
	case 0x05: // BNE
		d.Branch = BranchNE
		d.ALUOp = emu.ALUOpSub
	case 0x02: // J
		d.Jump = JumpDirect
		d.Imm = addr26(w)
	}
}
