package pipeline

import (
	"fmt"
	"io"

	"github.com/sarchlab/mips5sim/emu"
)

// Pipeline is a 5-stage in-order MIPS-32 pipeline: IF, ID, EX, MEM, WB.
// There is no forwarding and no branch prediction — a data hazard
// always stalls, and a taken branch or jump always costs a 2-cycle
// flush, resolved in EX.
type Pipeline struct {
	fetchStage     *FetchStage
	decodeStage    *DecodeStage
	executeStage   *ExecuteStage
	memoryStage    *MemoryStage
	writebackStage *WritebackStage
	hazardUnit     *HazardUnit

	ifid  IFIDRegister
	idex  IDEXRegister
	exmem EXMEMRegister
	memwb MEMWBRegister

	regFile     *emu.RegFile
	memory      *emu.Memory
	instr       *emu.InstrMemory
	pc          uint32
	fetchEnable bool
	halted      bool

	cycleCount       uint64
	instructionCount uint64
	stallCount       uint64
	branchCount      uint64
	flushCount       uint64

	trace io.Writer
}

// PipelineOption configures a Pipeline at construction.
type PipelineOption func(*Pipeline)

// WithTraceWriter enables per-cycle stall/flush tracing to w.
func WithTraceWriter(w io.Writer) PipelineOption {
	return func(p *Pipeline) {
		p.trace = w
	}
}

// NewPipeline creates a pipeline over the given register file, data
// memory, and instruction memory. Fetch begins disabled until SetPC
// is called.
func NewPipeline(regFile *emu.RegFile, memory *emu.Memory, instr *emu.InstrMemory, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		fetchStage:     NewFetchStage(instr),
		decodeStage:    NewDecodeStage(regFile),
		executeStage:   NewExecuteStage(),
		memoryStage:    NewMemoryStage(memory),
		writebackStage: NewWritebackStage(regFile),
		hazardUnit:     NewHazardUnit(),
		regFile:        regFile,
		memory:         memory,
		instr:          instr,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// SetPC sets the program counter and enables fetch.
func (p *Pipeline) SetPC(pc uint32) {
	p.pc = pc
	p.fetchEnable = true
}

// PC returns the current program counter.
func (p *Pipeline) PC() uint32 {
	return p.pc
}

// Halted reports whether the pipeline has fully drained after fetch
// ran out of instructions.
func (p *Pipeline) Halted() bool {
	return p.halted
}

// Stats summarizes a simulation run.
type Stats struct {
	Cycles       uint64
	Instructions uint64
	Stalls       uint64
	Branches     uint64
	Flushes      uint64
	CPI          float64
}

// Stats returns the pipeline's cumulative performance counters.
func (p *Pipeline) Stats() Stats {
	s := Stats{
		Cycles:       p.cycleCount,
		Instructions: p.instructionCount,
		Stalls:       p.stallCount,
		Branches:     p.branchCount,
		Flushes:      p.flushCount,
	}
	if s.Instructions > 0 {
		s.CPI = float64(s.Cycles) / float64(s.Instructions)
	}
	return s
}

// GetIFID returns the current IF/ID latch for inspection.
func (p *Pipeline) GetIFID() IFIDRegister { return p.ifid }

// GetIDEX returns the current ID/EX latch for inspection.
func (p *Pipeline) GetIDEX() IDEXRegister { return p.idex }

// GetEXMEM returns the current EX/MEM latch for inspection.
func (p *Pipeline) GetEXMEM() EXMEMRegister { return p.exmem }

// GetMEMWB returns the current MEM/WB latch for inspection.
func (p *Pipeline) GetMEMWB() MEMWBRegister { return p.memwb }

// Tick advances the pipeline by one cycle. It is a no-op once the
// pipeline has halted.
//
// Each stage reads only from the current latches and writes to a
// local next-cycle value; every latch is committed at the end of the
// cycle, so no stage ever observes a latch value another stage produced
// this same cycle. The register file is the one exception: WB writes it
// before ID reads it, so ID sees the value written back this cycle.
// Termination is checked before the cycle counter is
// incremented: once fetch has run out of instructions and all four
// latches are empty, the pipeline is already finished and Tick does
// not charge it another cycle.
func (p *Pipeline) Tick() {
	if p.halted {
		return
	}

	if !p.fetchEnable && !p.ifid.Valid && !p.idex.Valid && !p.exmem.Valid && !p.memwb.Valid {
		p.halted = true
		return
	}

	p.cycleCount++

	// Writeback (WB): commit last cycle's MEM/WB latch.
	p.writebackStage.Writeback(&p.memwb)

	// Memory (MEM): build the next MEM/WB latch from EX/MEM.
	var nextMemwb MEMWBRegister
	if p.exmem.Valid {
		result := p.memoryStage.Access(&p.exmem)
		nextMemwb = MEMWBRegister{
			Valid:    true,
			Instr:    p.exmem.Instr,
			WriteVal: result.WriteVal,
			DestReg:  p.exmem.DestReg,
			RegWrite: p.exmem.RegWrite,
		}
	}

	// Execute (EX): build the next EX/MEM latch from ID/EX, resolving
	// branches and jumps.
	var nextExmem EXMEMRegister
	branchTaken := false
	var branchTarget uint32
	if p.idex.Valid {
		result := p.executeStage.Execute(&p.idex)
		branchTaken = result.BranchTaken
		branchTarget = result.BranchTarget
		nextExmem = EXMEMRegister{
			Valid:     true,
			Instr:     p.idex.Instr,
			PC:        p.idex.PC,
			ALUResult: result.ALUResult,
			StoreVal:  p.idex.RTVal,
			DestReg:   p.idex.DestReg,
			RegWrite:  p.idex.RegWrite,
			MemRead:   p.idex.MemRead,
			MemWrite:  p.idex.MemWrite,
		}
	}

	// Fetch (IF): tentatively fetch the instruction at the current PC.
	var fetchedIfid IFIDRegister
	if p.fetchEnable {
		word, ok := p.fetchStage.Fetch(p.pc)
		if ok {
			fetchedIfid = IFIDRegister{Valid: true, Instr: word, PC: p.pc}
		} else {
			p.fetchEnable = false
		}
	}

	// Decode (ID): build the next ID/EX latch from IF/ID, and check for
	// a data hazard against the instruction that would enter ID.
	var nextIdex IDEXRegister
	stall := false
	if p.ifid.Valid {
		nextIdex = p.decodeStage.Decode(p.ifid.Instr)
		nextIdex.PC = p.ifid.PC
		stall = p.hazardUnit.DetectStall(&p.idex, &p.exmem, nextIdex.RS, nextIdex.RT)
	}

	// Commit this cycle's IF/ID and ID/EX latches. A taken branch or
	// jump flushes both, overriding any stall the same cycle would
	// otherwise have applied.
	switch {
	case branchTaken:
		p.ifid = IFIDRegister{}
		p.idex = IDEXRegister{}
		p.pc = branchTarget
		p.branchCount++
		p.flushCount++
		p.traceEvent("flush", branchTarget)
	case stall:
		p.idex = IDEXRegister{}
		p.stallCount++
		p.traceEvent("stall", 0)
	default:
		p.idex = nextIdex
		p.ifid = fetchedIfid
	}

	if !branchTaken && !stall {
		p.pc += 4
	}

	p.exmem = nextExmem
	p.memwb = nextMemwb

	if p.memwb.Valid && p.memwb.Instr != 0 {
		p.instructionCount++
	}
}

func (p *Pipeline) traceEvent(kind string, target uint32) {
	if p.trace == nil {
		return
	}
	if kind == "flush" {
		fmt.Fprintf(p.trace, "cycle %d: flush, pc -> 0x%08x\n", p.cycleCount, target)
		return
	}
	fmt.Fprintf(p.trace, "cycle %d: stall\n", p.cycleCount)
}

// Run ticks the pipeline until it halts.
func (p *Pipeline) Run() {
	for !p.halted {
		p.Tick()
	}
}

// RunCycles ticks the pipeline up to n times, stopping early if it
// halts. It reports whether the pipeline is still running.
func (p *Pipeline) RunCycles(n uint64) bool {
	for i := uint64(0); i < n && !p.halted; i++ {
		p.Tick()
	}
	return !p.halted
}

