package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/wolframtungsten678/8086-Decompiler/emu"
	"github.com/wolframtungsten678/8086-Decompiler/insts"
)

// These sequences mirror the counted loop pattern:
//
//	loop:
//	  sub cx, 1
//	  cmp cx, 0
//	  jne loop
var _ = Describe("cmp + jcc sequences", func() {
	var (
		regFile    *emu.RegFile
		alu        *emu.ALU
		branchUnit *emu.BranchUnit
	)

	BeforeEach(func() {
		regFile = &emu.RegFile{}
		regFile.SetIP(0x100)
		alu = emu.NewALU(regFile)
		branchUnit = emu.NewBranchUnit(regFile)
	})

	Describe("sub cx, 1 / cmp cx, 0 / jne", func() {
		It("should branch back while cx is non-zero", func() {
			regFile.WriteSlot(insts.SlotCX, 5)

			alu.SUB(insts.RegCX, 1)
			alu.CMP(insts.RegCX, 0)
			taken, ok := branchUnit.Jump(insts.OpJNE, -8)

			Expect(ok).To(BeTrue())
			Expect(taken).To(BeTrue())
			Expect(regFile.ReadSlot(insts.SlotCX)).To(Equal(uint16(4)))
			Expect(regFile.IP()).To(Equal(uint16(0x100 - 8)))
		})

		It("should fall through on the last iteration", func() {
			regFile.WriteSlot(insts.SlotCX, 1)

			alu.SUB(insts.RegCX, 1)
			alu.CMP(insts.RegCX, 0)
			taken, _ := branchUnit.Jump(insts.OpJNE, -8)

			Expect(taken).To(BeFalse())
			Expect(regFile.Flags.Has(emu.FlagZ)).To(BeTrue())
			Expect(regFile.IP()).To(Equal(uint16(0x100)))
		})

		It("should run the whole loop to completion", func() {
			regFile.WriteSlot(insts.SlotCX, 4)
			iterations := 0

			for {
				iterations++
				alu.SUB(insts.RegCX, 1)
				alu.CMP(insts.RegCX, 0)
				if taken, _ := branchUnit.Jump(insts.OpJNE, 0); !taken {
					break
				}
			}

			Expect(iterations).To(Equal(4))
			Expect(regFile.ReadSlot(insts.SlotCX)).To(Equal(uint16(0)))
		})
	})

	Describe("cmp then jb", func() {
		It("should branch when the destination is below the source", func() {
			regFile.WriteSlot(insts.SlotAX, 3)

			alu.CMP(insts.RegAX, 5)
			taken, _ := branchUnit.Jump(insts.OpJB, 4)

			Expect(taken).To(BeTrue())
			Expect(regFile.ReadSlot(insts.SlotAX)).To(Equal(uint16(3)))
		})

		It("should not branch when the operands are equal", func() {
			regFile.WriteSlot(insts.SlotAX, 5)

			alu.CMP(insts.RegAX, 5)
			taken, _ := branchUnit.Jump(insts.OpJB, 4)

			Expect(taken).To(BeFalse())
			Expect(regFile.Flags.Has(emu.FlagZ)).To(BeTrue())
		})

		It("should branch on a byte compare below zero", func() {
			regFile.WriteSlot(insts.SlotAX, 0x0005)

			alu.CMP(insts.RegAL, 0x10)
			taken, _ := branchUnit.Jump(insts.OpJB, 4)

			Expect(taken).To(BeTrue())
		})

		It("should fold the other half into a byte compare", func() {
			regFile.WriteSlot(insts.SlotAX, 0x7705)

			// 0x7700 + (5 - 16) stays positive, so no borrow is seen.
			alu.CMP(insts.RegAL, 0x10)
			taken, _ := branchUnit.Jump(insts.OpJB, 4)

			Expect(taken).To(BeFalse())
			Expect(regFile.ReadSlot(insts.SlotAX)).To(Equal(uint16(0x7705)))
		})
	})

	Describe("cmp then jp", func() {
		It("should branch on even parity of the low byte", func() {
			regFile.WriteSlot(insts.SlotBX, 5)

			alu.CMP(insts.RegBX, 2) // 3 = 0b11
			taken, _ := branchUnit.Jump(insts.OpJP, 2)

			Expect(taken).To(BeTrue())
		})

		It("should not branch on odd parity", func() {
			regFile.WriteSlot(insts.SlotBX, 5)

			alu.CMP(insts.RegBX, 4) // 1 = 0b1
			taken, _ := branchUnit.Jump(insts.OpJP, 2)

			Expect(taken).To(BeFalse())
		})
	})

	Describe("loopnz after add", func() {
		It("should count cx down while the zero flag stays clear", func() {
			regFile.WriteSlot(insts.SlotCX, 3)
			regFile.WriteSlot(insts.SlotAX, 1)
			iterations := 0

			for {
				iterations++
				alu.ADD(insts.RegAX, 1)
				if taken, _ := branchUnit.Jump(insts.OpLOOPNZ, 0); !taken {
					break
				}
			}

			Expect(iterations).To(Equal(3))
			Expect(regFile.ReadSlot(insts.SlotAX)).To(Equal(uint16(4)))
			Expect(regFile.ReadSlot(insts.SlotCX)).To(Equal(uint16(0)))
		})

		It("should stop early once an add produces zero", func() {
			regFile.WriteSlot(insts.SlotCX, 10)
			regFile.WriteSlot(insts.SlotAX, 0xFFFE)

			alu.ADD(insts.RegAX, 2)
			taken, _ := branchUnit.Jump(insts.OpLOOPNZ, 0)

			Expect(regFile.Flags.Has(emu.FlagZ)).To(BeTrue())
			Expect(taken).To(BeFalse())
			Expect(regFile.ReadSlot(insts.SlotCX)).To(Equal(uint16(9)))
		})
	})
})
