package pipeline_test

import (
	"encoding/binary"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/mips5sim/emu"
	"github.com/sarchlab/mips5sim/timing/pipeline"
)

func rFmt(funct, rs, rt, rd, shamt uint32) uint32 {
	return (rs << 21) | (rt << 16) | (rd << 11) | (shamt << 6) | funct
}

func iFmt(op, rs, rt uint32, imm uint16) uint32 {
	return (op << 26) | (rs << 21) | (rt << 16) | uint32(imm)
}

func jFmt(op, addr26 uint32) uint32 {
	return (op << 26) | (addr26 & 0x03FFFFFF)
}

func addi(rt, rs uint32, imm uint16) uint32 { return iFmt(0x08, rs, rt, imm) }
func add(rd, rs, rt uint32) uint32          { return rFmt(0x20, rs, rt, rd, 0) }
func sw(rt, rs uint32, imm uint16) uint32   { return iFmt(0x2B, rs, rt, imm) }
func lw(rt, rs uint32, imm uint16) uint32   { return iFmt(0x23, rs, rt, imm) }
func beq(rs, rt uint32, imm uint16) uint32  { return iFmt(0x04, rs, rt, imm) }
func j(addr26 uint32) uint32                { return jFmt(0x02, addr26) }
func sll(rd, rt, shamt uint32) uint32       { return rFmt(0x00, 0, rt, rd, shamt) }

func newPipeline(words ...uint32) (*pipeline.Pipeline, *emu.RegFile, *emu.Memory) {
	rf := &emu.RegFile{}
	mem := emu.NewMemory()
	instrMem := emu.NewInstrMemory()

	data := make([]byte, 4*len(words))
	for i, w := range words {
		binary.BigEndian.PutUint32(data[i*4:], w)
	}
	instrMem.Load(data, nil)

	p := pipeline.NewPipeline(rf, mem, instrMem)
	p.SetPC(0)
	return p, rf, mem
}

var _ = Describe("Pipeline end-to-end", func() {
	It("runs a single ADDI to completion in 5 cycles", func() {
		p, rf, _ := newPipeline(addi(1, 0, 5))
		p.Run()

		Expect(rf.Read(1)).To(Equal(int32(5)))
		stats := p.Stats()
		Expect(stats.Instructions).To(Equal(uint64(1)))
		Expect(stats.Cycles).To(Equal(uint64(5)))
	})

	It("stalls a RAW-dependent ADD on the preceding ADDI", func() {
		p, rf, _ := newPipeline(addi(1, 0, 7), add(2, 1, 1))
		p.Run()

		Expect(rf.Read(2)).To(Equal(int32(14)))
		Expect(p.Stats().Instructions).To(Equal(uint64(2)))
	})

	It("stores then loads the same word", func() {
		p, rf, mem := newPipeline(addi(1, 0, 42), sw(1, 0, 0), lw(2, 0, 0))
		p.Run()

		Expect(rf.Read(2)).To(Equal(int32(42)))
		Expect(mem.ReadWord(0)).To(Equal(int32(42)))
	})

	It("flushes two instructions on a taken BEQ", func() {
		p, rf, _ := newPipeline(
			addi(1, 0, 1),
			addi(2, 0, 1),
			beq(1, 2, 1),
			addi(3, 0, 99),
			addi(3, 0, 7),
		)
		p.Run()

		Expect(rf.Read(3)).To(Equal(int32(7)))
	})

	It("flushes the instruction after an unconditional jump with no delay slot", func() {
		p, rf, _ := newPipeline(
			j(2),
			addi(1, 0, 99),
			addi(1, 0, 5),
		)
		p.Run()

		Expect(rf.Read(1)).To(Equal(int32(5)))
	})

	It("shifts left logically", func() {
		p, rf, _ := newPipeline(addi(1, 0, 1), sll(2, 1, 4))
		p.Run()

		Expect(rf.Read(2)).To(Equal(int32(16)))
	})
})

var _ = Describe("Pipeline invariants", func() {
	It("never writes to $zero", func() {
		p, rf, _ := newPipeline(addi(0, 0, 123))
		p.Run()
		Expect(rf.Read(0)).To(Equal(int32(0)))
	})

	It("drains a zero-instruction program in a bounded number of cycles with 0 retired", func() {
		p, _, _ := newPipeline()
		p.Run()
		Expect(p.Stats().Instructions).To(Equal(uint64(0)))
	})

	It("never retires more instructions than were fetched", func() {
		p, _, _ := newPipeline(addi(1, 0, 1), addi(2, 0, 2), addi(3, 0, 3))
		p.Run()
		Expect(p.Stats().Instructions).To(BeNumerically("<=", 3))
	})

	It("does not advance PC or change IF/ID during a stalled cycle", func() {
		p, _, _ := newPipeline(addi(1, 0, 7), add(2, 1, 1))
		p.Tick() // fetch addi
		p.Tick() // addi -> ID/EX, fetch add
		pcBefore := p.PC()
		ifidBefore := p.GetIFID()
		p.Tick() // add stalls in ID
		Expect(p.PC()).To(Equal(pcBefore))
		Expect(p.GetIFID()).To(Equal(ifidBefore))
	})
})
