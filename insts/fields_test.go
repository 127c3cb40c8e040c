package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/wolframtungsten678/8086-Decompiler/insts"
)

var _ = Describe("Bit fields", func() {
	It("should extract arbitrary fields", func() {
		Expect(insts.Field(0b10110100, 4, 4)).To(Equal(byte(0b1011)))
		Expect(insts.Field(0b10110100, 2, 3)).To(Equal(byte(0b101)))
		Expect(insts.Field(0xFF, 0, 8)).To(Equal(byte(0xFF)))
	})

	It("should slice the first byte", func() {
		Expect(insts.Top7(0xC7)).To(Equal(byte(0b1100011)))
		Expect(insts.Top6(0x8B)).To(Equal(byte(0b100010)))
		Expect(insts.Top4(0xB8)).To(Equal(byte(0b1011)))
	})

	// 0xD9 = 11 011 001
	It("should split the ModRM byte", func() {
		Expect(insts.ModField(0xD9)).To(Equal(insts.ModeReg))
		Expect(insts.RegField(0xD9)).To(Equal(uint8(0b011)))
		Expect(insts.RMField(0xD9)).To(Equal(uint8(0b001)))
		Expect(insts.SRField(0xD9)).To(Equal(uint8(0b11)))
	})

	It("should read D, S and W bits", func() {
		Expect(insts.DBit(0x8B)).To(Equal(byte(1)))
		Expect(insts.DBit(0x89)).To(Equal(byte(0)))
		Expect(insts.SBit(0x83)).To(Equal(byte(1)))
		Expect(insts.WBit(0x88)).To(Equal(insts.WidthByte))
		Expect(insts.WBit(0x89)).To(Equal(insts.WidthWord))
		Expect(insts.WBitMovImm(0xB8)).To(Equal(insts.WidthWord))
		Expect(insts.WBitMovImm(0xB0)).To(Equal(insts.WidthByte))
		Expect(insts.LowReg(0xBA)).To(Equal(uint8(0b010)))
	})

	It("should assemble displacements", func() {
		Expect(insts.Disp8(0xFE)).To(Equal(int16(-2)))
		Expect(insts.Disp8(0x7F)).To(Equal(int16(127)))
		Expect(insts.Word16(0xE8, 0x03)).To(Equal(uint16(1000)))
	})
})
