// Package emu provides functional 8086 emulation.
package emu

import "github.com/wolframtungsten678/8086-Decompiler/insts"

// RegFile represents the 8086 register file.
// It holds the 8 general-purpose registers, the 4 segment registers and the
// instruction pointer as 13 sixteen-bit slots, plus the flags.
type RegFile struct {
	// Slots is indexed by insts.Slot: ax, bx, cx, dx, sp, bp, si, di,
	// es, cs, ss, ds, ip.
	Slots [insts.NumSlots]uint16

	// Flags holds the condition flags.
	Flags Flags
}

// ReadSlot reads a full 16-bit slot.
func (r *RegFile) ReadSlot(s insts.Slot) uint16 {
	return r.Slots[s]
}

// WriteSlot writes a full 16-bit slot.
func (r *RegFile) WriteSlot(s insts.Slot, value uint16) {
	r.Slots[s] = value
}

// ReadReg reads a general-purpose register. Byte registers return their
// half zero-extended.
func (r *RegFile) ReadReg(reg insts.Reg) uint16 {
	slot, half := reg.Slot()
	v := r.Slots[slot]

	switch half {
	case insts.HalfLow:
		return v & 0x00FF
	case insts.HalfHigh:
		return v >> 8
	default:
		return v
	}
}

// WriteReg writes a general-purpose register. Byte registers take the low 8
// bits of value and leave the other half of the slot untouched.
func (r *RegFile) WriteReg(reg insts.Reg, value uint16) {
	slot, half := reg.Slot()

	switch half {
	case insts.HalfLow:
		r.Slots[slot] = (r.Slots[slot] & 0xFF00) | (value & 0x00FF)
	case insts.HalfHigh:
		r.Slots[slot] = (r.Slots[slot] & 0x00FF) | (value&0x00FF)<<8
	default:
		r.Slots[slot] = value
	}
}

// ReadSeg reads a segment register.
func (r *RegFile) ReadSeg(seg insts.SegReg) uint16 {
	return r.Slots[seg.Slot()]
}

// WriteSeg writes a segment register.
func (r *RegFile) WriteSeg(seg insts.SegReg, value uint16) {
	r.Slots[seg.Slot()] = value
}

// IP returns the instruction pointer.
func (r *RegFile) IP() uint16 {
	return r.Slots[insts.SlotIP]
}

// SetIP sets the instruction pointer.
func (r *RegFile) SetIP(ip uint16) {
	r.Slots[insts.SlotIP] = ip
}

// Signed returns a slot interpreted as a two's complement value, the way
// the register dump prints it.
func (r *RegFile) Signed(s insts.Slot) int16 {
	return int16(r.Slots[s])
}
