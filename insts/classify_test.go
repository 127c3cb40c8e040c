package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/wolframtungsten678/8086-Decompiler/insts"
)

var _ = Describe("Classify", func() {
	It("should classify jumps by the full first byte", func() {
		c, err := insts.Classify(0x74, 0xFE)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Kind).To(Equal(insts.KindCondJump))
		Expect(c.Op).To(Equal(insts.OpJE))
	})

	It("should derive the register direction from the D bit", func() {
		c, err := insts.Classify(0x8B, 0xC3)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Dir).To(Equal(insts.DirRegIsDest))

		c, err = insts.Classify(0x89, 0xC3)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Dir).To(Equal(insts.DirRegIsSource))
	})

	It("should separate segment moves from register moves", func() {
		c, _ := insts.Classify(0x8E, 0xD0)
		Expect(c.Kind).To(Equal(insts.KindSegRM))

		c, _ = insts.Classify(0x8B, 0xD0)
		Expect(c.Kind).To(Equal(insts.KindRegRM))
	})

	It("should resolve group mnemonics from the second byte", func() {
		c, err := insts.Classify(0x81, 0b00_000_001)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Op).To(Equal(insts.OpADD))

		c, err = insts.Classify(0x81, 0b00_101_001)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Op).To(Equal(insts.OpSUB))

		c, err = insts.Classify(0x81, 0b00_111_001)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Op).To(Equal(insts.OpCMP))
	})

	It("should fail when no rule matches", func() {
		_, err := insts.Classify(0xF4, 0x00)
		Expect(err).To(MatchError(insts.ErrUnmappedOpcode))
	})

	It("should fail when a group leaves the mnemonic unresolved", func() {
		_, err := insts.Classify(0x80, 0b00_001_000)
		Expect(err).To(MatchError(insts.ErrUnmappedOpcode))
	})

	It("should keep rules ordered from widest to narrowest slice", func() {
		rules := insts.Rules()
		for i := 1; i < len(rules); i++ {
			Expect(rules[i].Slice).To(BeNumerically(">=", rules[i-1].Slice),
				"rule %q", rules[i].Name)
		}
	})

	It("should not let callers change the table", func() {
		rules := insts.Rules()
		for i := range rules {
			rules[i].Kind = insts.KindUnknown
			for k := range rules[i].Group {
				rules[i].Group[k] = insts.OpMOV
			}
		}
		rules[0], rules[len(rules)-1] = rules[len(rules)-1], rules[0]

		c, err := insts.Classify(0x80, 0b00_101_000)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Kind).To(Equal(insts.KindImmToRM))
		Expect(c.Op).To(Equal(insts.OpSUB))

		c, err = insts.Classify(0x8E, 0xD8)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Kind).To(Equal(insts.KindSegRM))
	})
})

var _ = Describe("EncodedLength", func() {
	DescribeTable("lengths",
		func(kind insts.Kind, op insts.Op, mod insts.Mode, rm uint8, w insts.Width, sign bool, want int) {
			n, err := insts.EncodedLength(kind, op, mod, rm, w, sign)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(want))
		},
		Entry("reg-reg", insts.KindRegRM, insts.OpMOV, insts.ModeReg, uint8(0), insts.WidthWord, false, 2),
		Entry("no displacement", insts.KindRegRM, insts.OpMOV, insts.ModeMem, uint8(0), insts.WidthWord, false, 2),
		Entry("disp8", insts.KindRegRM, insts.OpMOV, insts.ModeMemDisp8, uint8(0), insts.WidthWord, false, 3),
		Entry("disp16", insts.KindRegRM, insts.OpMOV, insts.ModeMemDisp16, uint8(0), insts.WidthWord, false, 4),
		Entry("direct", insts.KindRegRM, insts.OpMOV, insts.ModeMem, uint8(0b110), insts.WidthByte, false, 4),
		Entry("segment", insts.KindSegRM, insts.OpMOV, insts.ModeReg, uint8(0), insts.WidthWord, false, 2),
		Entry("imm byte", insts.KindImmToRM, insts.OpADD, insts.ModeReg, uint8(0), insts.WidthByte, false, 3),
		Entry("imm word", insts.KindImmToRM, insts.OpADD, insts.ModeReg, uint8(0), insts.WidthWord, false, 4),
		Entry("imm word sign-extended", insts.KindImmToRM, insts.OpADD, insts.ModeReg, uint8(0), insts.WidthWord, true, 3),
		Entry("mov imm word ignores sign", insts.KindImmToRM, insts.OpMOV, insts.ModeReg, uint8(0), insts.WidthWord, true, 4),
		Entry("imm word disp16", insts.KindImmToRM, insts.OpMOV, insts.ModeMemDisp16, uint8(5), insts.WidthWord, false, 6),
		Entry("imm to reg word", insts.KindImmToReg, insts.OpMOV, insts.ModeMem, uint8(0), insts.WidthWord, false, 3),
		Entry("imm to reg byte", insts.KindImmToReg, insts.OpMOV, insts.ModeMem, uint8(0), insts.WidthByte, false, 2),
		Entry("acc word", insts.KindAccMem, insts.OpMOV, insts.ModeMem, uint8(0), insts.WidthWord, false, 3),
		Entry("jump", insts.KindCondJump, insts.OpJE, insts.ModeMem, uint8(0), insts.WidthByte, false, 2),
	)

	It("should reject an unknown kind", func() {
		_, err := insts.EncodedLength(insts.KindUnknown, insts.OpMOV, insts.ModeReg, 0, insts.WidthWord, false)
		Expect(err).To(MatchError(insts.ErrAddressing))
	})

	It("should reject an invalid mode", func() {
		_, err := insts.EncodedLength(insts.KindRegRM, insts.OpMOV, insts.Mode(4), 0, insts.WidthWord, false)
		Expect(err).To(MatchError(insts.ErrAddressing))
	})
})
