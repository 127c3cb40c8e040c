package emu

import "github.com/wolframtungsten678/8086-Decompiler/insts"

// ALU implements the 8086 add, sub and cmp operations on registers.
type ALU struct {
	regFile *RegFile
}

// NewALU creates a new ALU connected to the given register file.
func NewALU(regFile *RegFile) *ALU {
	return &ALU{regFile: regFile}
}

// Arith applies op to the register dst and the operand value src, updates
// the flags and, for add and sub, stores the result. cmp leaves dst as it
// was. It returns the 32-bit intermediate the flags were computed from.
// Any other mnemonic changes nothing and returns 0.
//
// Word destinations compute with the signed slot value. Byte destinations
// compute with the whole slot: the untouched half is added back in, so the
// intermediate for bh is (bl + (bh<<8 +/- src<<8)). Only the addressed half
// of the result is stored.
func (a *ALU) Arith(op insts.Op, dst insts.Reg, src int32) int32 {
	if !op.IsArith() {
		return 0
	}

	slot, half := dst.Slot()
	cur := a.regFile.ReadSlot(slot)

	sign := int32(1)
	if op != insts.OpADD {
		sign = -1
	}

	var result int32
	switch half {
	case insts.HalfLow:
		result = int32(cur&0xFF00) + (int32(cur&0x00FF) + sign*src)
	case insts.HalfHigh:
		result = int32(cur&0x00FF) + (int32(cur&0xFF00) + sign*(src<<8))
	default:
		result = int32(int16(cur)) + sign*src
	}

	if op != insts.OpCMP {
		a.store(slot, half, cur, result)
	}

	a.regFile.Flags = ComputeFlags(a.regFile.Flags, op, dst.Width(), result, src)

	return result
}

func (a *ALU) store(slot insts.Slot, half insts.Half, cur uint16, result int32) {
	v := uint16(result)

	switch half {
	case insts.HalfLow:
		v = (cur & 0xFF00) | (v & 0x00FF)
	case insts.HalfHigh:
		v = (cur & 0x00FF) | (v & 0xFF00)
	}

	a.regFile.WriteSlot(slot, v)
}

// ADD adds src to dst.
func (a *ALU) ADD(dst insts.Reg, src int32) int32 {
	return a.Arith(insts.OpADD, dst, src)
}

// SUB subtracts src from dst.
func (a *ALU) SUB(dst insts.Reg, src int32) int32 {
	return a.Arith(insts.OpSUB, dst, src)
}

// CMP subtracts src from dst for the flags only.
func (a *ALU) CMP(dst insts.Reg, src int32) int32 {
	return a.Arith(insts.OpCMP, dst, src)
}
