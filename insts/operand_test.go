package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/wolframtungsten678/8086-Decompiler/insts"
)

var _ = Describe("Operands", func() {
	It("should map registers to slots and halves", func() {
		slot, half := insts.RegAH.Slot()
		Expect(slot).To(Equal(insts.SlotAX))
		Expect(half).To(Equal(insts.HalfHigh))

		slot, half = insts.RegBL.Slot()
		Expect(slot).To(Equal(insts.SlotBX))
		Expect(half).To(Equal(insts.HalfLow))

		slot, half = insts.RegSI.Slot()
		Expect(slot).To(Equal(insts.SlotSI))
		Expect(half).To(Equal(insts.HalfNone))
	})

	It("should name registers by width", func() {
		Expect(insts.RegFor(0b011, insts.WidthWord)).To(Equal(insts.RegBX))
		Expect(insts.RegFor(0b111, insts.WidthByte)).To(Equal(insts.RegBH))
		Expect(insts.Accumulator(insts.WidthByte).String()).To(Equal("al"))
		Expect(insts.RegDI.Width()).To(Equal(insts.WidthWord))
		Expect(insts.RegDH.Width()).To(Equal(insts.WidthByte))
	})

	It("should map segment registers", func() {
		Expect(insts.SegFor(0b01).String()).To(Equal("cs"))
		Expect(insts.SegDS.Slot()).To(Equal(insts.SlotDS))
	})

	It("should name slots in register-file order", func() {
		Expect(insts.SlotAX.String()).To(Equal("ax"))
		Expect(insts.SlotBX.String()).To(Equal("bx"))
		Expect(insts.SlotES.String()).To(Equal("es"))
		Expect(insts.SlotIP.String()).To(Equal("ip"))
		Expect(int(insts.NumSlots)).To(Equal(13))
	})

	It("should list the base registers of an address", func() {
		Expect(insts.BaseBPDI.Slots()).To(Equal([]insts.Slot{insts.SlotBP, insts.SlotDI}))
		Expect(insts.BaseDirect.Slots()).To(BeEmpty())
	})

	It("should report displacement sizes", func() {
		n, err := insts.DisplacementBytes(insts.ModeMem, 0b110)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(2))

		n, _ = insts.DisplacementBytes(insts.ModeMem, 0b111)
		Expect(n).To(Equal(0))

		n, _ = insts.DisplacementBytes(insts.ModeMemDisp8, 0b110)
		Expect(n).To(Equal(1))
	})

	It("should resolve register-mode R/M to a register", func() {
		op, err := insts.ResolveRM(insts.ModeReg, 0b110, insts.WidthByte, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(op).To(Equal(insts.RegDH))
	})

	It("should report short displacement input", func() {
		_, err := insts.ResolveRM(insts.ModeMemDisp16, 0b000, insts.WidthWord, []byte{0x01})
		Expect(err).To(MatchError(insts.ErrTruncated))
	})

	It("should render memory operands", func() {
		m := insts.Memory{Base: insts.BaseSI, DispKind: insts.Disp8Bit, Disp: -128}
		Expect(m.String()).To(Equal("si -128"))

		m = insts.Memory{Base: insts.BaseDirect, DispKind: insts.DispDirect, Disp: -1}
		Expect(m.String()).To(Equal("65535"))

		Expect(insts.Address(2554).String()).To(Equal("2554"))
	})
})
