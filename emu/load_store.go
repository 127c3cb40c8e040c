package emu

import "github.com/wolframtungsten678/8086-Decompiler/insts"

// LoadStoreUnit moves values between operands: registers, segment
// registers, memory and immediates.
type LoadStoreUnit struct {
	regFile *RegFile
	memory  *Memory
}

// NewLoadStoreUnit creates a new LoadStoreUnit connected to the given
// register file and memory.
func NewLoadStoreUnit(regFile *RegFile, memory *Memory) *LoadStoreUnit {
	return &LoadStoreUnit{
		regFile: regFile,
		memory:  memory,
	}
}

// EffectiveAddress sums the base registers and displacement of a memory
// operand, wrapping at 64 KiB.
func (lsu *LoadStoreUnit) EffectiveAddress(m insts.Memory) uint16 {
	if m.Direct() {
		return uint16(m.Disp)
	}

	var addr uint16
	for _, s := range m.Base.Slots() {
		addr += lsu.regFile.ReadSlot(s)
	}

	return addr + uint16(m.Disp)
}

// Load reads an operand. Byte registers and byte memory cells are
// zero-extended; immediates keep their sign-extended 16-bit value. ok is
// false for operands that cannot be read, such as an accumulator-form
// Address.
func (lsu *LoadStoreUnit) Load(op insts.Operand) (value uint16, ok bool) {
	switch o := op.(type) {
	case insts.Reg:
		return lsu.regFile.ReadReg(o), true
	case insts.SegReg:
		return lsu.regFile.ReadSeg(o), true
	case insts.Memory:
		addr := lsu.EffectiveAddress(o)
		if o.Width == insts.WidthWord {
			return lsu.memory.Read16(addr), true
		}
		return uint16(lsu.memory.Read8(addr)), true
	case insts.Immediate:
		return uint16(o.Value), true
	}

	return 0, false
}

// Store writes an operand. Byte destinations take the low 8 bits of value.
// ok is false for operands that cannot be written.
func (lsu *LoadStoreUnit) Store(op insts.Operand, value uint16) (ok bool) {
	switch o := op.(type) {
	case insts.Reg:
		lsu.regFile.WriteReg(o, value)
		return true
	case insts.SegReg:
		lsu.regFile.WriteSeg(o, value)
		return true
	case insts.Memory:
		addr := lsu.EffectiveAddress(o)
		if o.Width == insts.WidthWord {
			lsu.memory.Write16(addr, value)
		} else {
			lsu.memory.Write8(addr, uint8(value))
		}
		return true
	}

	return false
}

// Move copies src into dst.
func (lsu *LoadStoreUnit) Move(dst, src insts.Operand) bool {
	value, ok := lsu.Load(src)
	if !ok {
		return false
	}
	return lsu.Store(dst, value)
}
