package pipeline

import (
	"github.com/sarchlab/mips5sim/emu"
	"github.com/sarchlab/mips5sim/insts"
)

// FetchStage reads the next instruction word from instruction memory.
type FetchStage struct {
	instr *emu.InstrMemory
}

// NewFetchStage creates a new fetch stage reading from instr.
func NewFetchStage(instr *emu.InstrMemory) *FetchStage {
	return &FetchStage{instr: instr}
}

// Fetch reads the instruction word at pc. ok is false once pc runs past
// the end of the loaded program, signaling the fetch stage to stop
// issuing new instructions.
func (s *FetchStage) Fetch(pc uint32) (word uint32, ok bool) {
	idx := pc / 4
	if idx >= uint32(s.instr.Count()) {
		return 0, false
	}
	return s.instr.Read(idx), true
}

// DecodeStage decodes the fetched instruction and reads its source
// registers.
type DecodeStage struct {
	regFile *emu.RegFile
}

// NewDecodeStage creates a new decode stage reading from regFile.
func NewDecodeStage(regFile *emu.RegFile) *DecodeStage {
	return &DecodeStage{regFile: regFile}
}

// Decode decodes word and reads the register values its fields name.
// For SLL/SRL, the shift amount already sits in Imm; the value to
// shift lives in $rt, so Decode copies it into RSVal, which is where
// Execute expects the ALU's "A" operand.
func (s *DecodeStage) Decode(word uint32) IDEXRegister {
	d := insts.Decode(word)

	rsVal := s.regFile.Read(d.RS)
	rtVal := s.regFile.Read(d.RT)
	if d.ALUOp == emu.ALUOpSll || d.ALUOp == emu.ALUOpSrl {
		rsVal = rtVal
	}

	branch := 0
	switch d.Branch {
	case insts.BranchEQ:
		branch = 1
	case insts.BranchNE:
		branch = 2
	}

	jump := 0
	switch d.Jump {
	case insts.JumpDirect:
		jump = 1
	case insts.JumpRegister:
		jump = 2
	}

	return IDEXRegister{
		Valid:    true,
		Instr:    word,
		RS:       d.RS,
		RT:       d.RT,
		RD:       d.RD,
		RSVal:    rsVal,
		RTVal:    rtVal,
		Imm:      d.Imm,
		DestReg:  d.DestReg,
		RegWrite: d.RegWrite,
		MemRead:  d.MemRead,
		MemWrite: d.MemWrite,
		ALUOp:    d.ALUOp,
		Branch:   branch,
		Jump:     jump,
	}
}

// ExecuteStage performs the ALU operation and resolves branches and
// jumps.
type ExecuteStage struct{}

// NewExecuteStage creates a new execute stage.
func NewExecuteStage() *ExecuteStage {
	return &ExecuteStage{}
}

// ExecuteResult holds the result of the execute stage.
type ExecuteResult struct {
	ALUResult    int32
	BranchTaken  bool
	BranchTarget uint32
}

// Execute runs the ALU for idex (whose PC is the address the
// instruction was fetched at) and decides whether a branch or jump is
// taken. Jumps never produce an ALU result.
func (s *ExecuteStage) Execute(idex *IDEXRegister) ExecuteResult {
	result := ExecuteResult{}
	if !idex.Valid {
		return result
	}

	switch idex.Jump {
	case 1: // J
		result.BranchTaken = true
		result.BranchTarget = (idex.PC & 0xF0000000) | (uint32(idex.Imm) << 2)
	case 2: // JR
		result.BranchTaken = true
		result.BranchTarget = uint32(idex.RSVal)
	}

	if idex.Jump == 0 && idex.Branch != 0 {
		target := idex.PC + 4 + (uint32(idex.Imm) << 2)
		equal := idex.RSVal == idex.RTVal
		taken := (idex.Branch == 1 && equal) || (idex.Branch == 2 && !equal)
		if taken {
			result.BranchTaken = true
			result.BranchTarget = target
		}
	}

	if idex.Jump == 0 {
		opA := idex.RSVal
		var opB int32
		switch {
		case idex.MemRead || idex.MemWrite || (idex.Instr != 0 && opcode(idex.Instr) == 0x08):
			// ADDI, LW, SW all take their second operand from the
			// immediate field.
			opB = idex.Imm
		case idex.ALUOp == emu.ALUOpSll || idex.ALUOp == emu.ALUOpSrl:
			opB = idex.Imm & 0x1F
		default:
			opB = idex.RTVal
		}
		result.ALUResult = emu.Execute(idex.ALUOp, opA, opB)
	}

	return result
}

func opcode(w uint32) uint8 { return uint8((w >> 26) & 0x3F) }

// MemoryStage accesses data memory for loads and stores.
type MemoryStage struct {
	memory *emu.Memory
}

// NewMemoryStage creates a new memory stage over memory.
func NewMemoryStage(memory *emu.Memory) *MemoryStage {
	return &MemoryStage{memory: memory}
}

// MemoryResult holds the result of the memory stage.
type MemoryResult struct {
	WriteVal int32
}

// Access performs the load or store named by exmem and returns the
// value to carry to writeback (the loaded word, or the ALU result for
// non-memory instructions).
func (s *MemoryStage) Access(exmem *EXMEMRegister) MemoryResult {
	result := MemoryResult{}
	if !exmem.Valid {
		return result
	}

	if exmem.MemRead {
		result.WriteVal = s.memory.ReadWord(uint32(exmem.ALUResult))
	} else {
		result.WriteVal = exmem.ALUResult
	}

	if exmem.MemWrite {
		s.memory.WriteWord(uint32(exmem.ALUResult), exmem.StoreVal)
	}

	return result
}

// WritebackStage commits the pipeline's final result to the register
// file.
type WritebackStage struct {
	regFile *emu.RegFile
}

// NewWritebackStage creates a new writeback stage over regFile.
func NewWritebackStage(regFile *emu.RegFile) *WritebackStage {
	return &WritebackStage{regFile: regFile}
}

// Writeback writes memwb's result to the register file, if it calls
// for one.
func (s *WritebackStage) Writeback(memwb *MEMWBRegister) {
	if !memwb.Valid || !memwb.RegWrite {
		return
	}
	s.regFile.Write(memwb.DestReg, memwb.WriteVal)
}
