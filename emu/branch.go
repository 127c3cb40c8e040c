package emu

import "github.com/wolframtungsten678/8086-Decompiler/insts"

// BranchUnit implements the 8086 conditional jumps and loops.
type BranchUnit struct {
	regFile *RegFile
}

// NewBranchUnit creates a new BranchUnit connected to the given register file.
func NewBranchUnit(regFile *RegFile) *BranchUnit {
	return &BranchUnit{regFile: regFile}
}

// CheckCondition evaluates the flag condition of a conditional jump. ok is
// false for mnemonics without a wired condition.
func (b *BranchUnit) CheckCondition(op insts.Op) (taken, ok bool) {
	f := b.regFile.Flags

	switch op {
	case insts.OpJE:
		return f.Has(FlagZ), true
	case insts.OpJNE:
		return !f.Has(FlagZ), true
	case insts.OpJB:
		return f.Has(FlagC), true
	case insts.OpJP:
		return f.Has(FlagP), true
	default:
		return false, false
	}
}

// Jump executes a conditional jump or loop whose displacement is relative to
// the current IP, which already points past the instruction. It reports
// whether the branch was taken and whether op is wired at all; unwired
// mnemonics leave all state untouched.
func (b *BranchUnit) Jump(op insts.Op, disp int8) (taken, ok bool) {
	if op == insts.OpLOOPNZ {
		taken = b.LOOPNZ()
		ok = true
	} else {
		taken, ok = b.CheckCondition(op)
	}

	if taken {
		b.regFile.SetIP(b.regFile.IP() + uint16(int16(disp)))
	}

	return taken, ok
}

// LOOPNZ decrements cx and reports whether the loop continues: cx is not
// zero and the zero flag is clear.
func (b *BranchUnit) LOOPNZ() bool {
	cx := b.regFile.ReadSlot(insts.SlotCX) - 1
	b.regFile.WriteSlot(insts.SlotCX, cx)

	return !b.regFile.Flags.Has(FlagZ) && cx != 0
}
