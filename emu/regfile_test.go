package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/mips5sim/emu"
)

var _ = Describe("RegFile", func() {
	var rf *emu.RegFile

	BeforeEach(func() {
		rf = &emu.RegFile{}
	})

	It("round-trips a value through a general-purpose register", func() {
		rf.Write(5, 123)
		Expect(rf.Read(5)).To(Equal(int32(123)))
	})

	It("always reads $zero as 0", func() {
		rf.Write(0, 999)
		Expect(rf.Read(0)).To(Equal(int32(0)))
	})

	It("treats out-of-range indices as $zero", func() {
		rf.Write(32, 999)
		Expect(rf.Read(32)).To(Equal(int32(0)))
	})
})
