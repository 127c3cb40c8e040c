package insts

import (
	"fmt"
	"strconv"
)

// Operand is a decoded instruction operand: a Reg, SegReg, Memory,
// Immediate or Address.
type Operand interface {
	fmt.Stringer
	isOperand()
}

// Slot indexes the 13-entry register file.
type Slot uint8

// Register file slots, in dump order.
const (
	SlotAX Slot = iota
	SlotBX
	SlotCX
	SlotDX
	SlotSP
	SlotBP
	SlotSI
	SlotDI
	SlotES
	SlotCS
	SlotSS
	SlotDS
	SlotIP
	NumSlots = 13
)

var slotNames = [NumSlots]string{
	"ax", "bx", "cx", "dx", "sp", "bp", "si", "di", "es", "cs", "ss", "ds", "ip",
}

func (s Slot) String() string {
	if int(s) < len(slotNames) {
		return slotNames[s]
	}
	return "??"
}

// Half selects which part of a 16-bit slot a register names.
type Half uint8

// Register halves.
const (
	HalfNone Half = iota // Whole 16-bit slot
	HalfLow
	HalfHigh
)

// Reg is a general-purpose register, byte or word.
// The first eight values follow the byte encoding, the next eight the word
// encoding, so RegFor(code, w) is a table lookup.
type Reg uint8

// General-purpose registers.
const (
	RegAL Reg = iota
	RegCL
	RegDL
	RegBL
	RegAH
	RegCH
	RegDH
	RegBH
	RegAX
	RegCX
	RegDX
	RegBX
	RegSP
	RegBP
	RegSI
	RegDI
)

var regNames = [...]string{
	"al", "cl", "dl", "bl", "ah", "ch", "dh", "bh",
	"ax", "cx", "dx", "bx", "sp", "bp", "si", "di",
}

// slot and half per register, indexed by Reg.
var regSlots = [...]struct {
	slot Slot
	half Half
}{
	RegAL: {SlotAX, HalfLow},
	RegCL: {SlotCX, HalfLow},
	RegDL: {SlotDX, HalfLow},
	RegBL: {SlotBX, HalfLow},
	RegAH: {SlotAX, HalfHigh},
	RegCH: {SlotCX, HalfHigh},
	RegDH: {SlotDX, HalfHigh},
	RegBH: {SlotBX, HalfHigh},
	RegAX: {SlotAX, HalfNone},
	RegCX: {SlotCX, HalfNone},
	RegDX: {SlotDX, HalfNone},
	RegBX: {SlotBX, HalfNone},
	RegSP: {SlotSP, HalfNone},
	RegBP: {SlotBP, HalfNone},
	RegSI: {SlotSI, HalfNone},
	RegDI: {SlotDI, HalfNone},
}

// RegFor returns the register named by a 3-bit code at the given width.
func RegFor(code uint8, w Width) Reg {
	if w == WidthWord {
		return RegAX + Reg(code&0x7)
	}
	return Reg(code & 0x7)
}

// Accumulator returns al or ax.
func Accumulator(w Width) Reg {
	return RegFor(0, w)
}

func (r Reg) String() string { return regNames[r&0xF] }

func (Reg) isOperand() {}

// Width returns the register size.
func (r Reg) Width() Width {
	if r >= RegAX {
		return WidthWord
	}
	return WidthByte
}

// Slot returns the register-file slot and half the register aliases.
func (r Reg) Slot() (Slot, Half) {
	s := regSlots[r&0xF]
	return s.slot, s.half
}

// SegReg is a segment register, in encoding order.
type SegReg uint8

// Segment registers.
const (
	SegES SegReg = iota
	SegCS
	SegSS
	SegDS
)

var segNames = [...]string{"es", "cs", "ss", "ds"}

// SegFor returns the segment register named by a 2-bit code.
func SegFor(code uint8) SegReg { return SegReg(code & 0x3) }

func (s SegReg) String() string { return segNames[s&0x3] }

func (SegReg) isOperand() {}

// Slot returns the register-file slot of the segment register.
func (s SegReg) Slot() Slot { return SlotES + Slot(s&0x3) }

// Base is the register combination of an effective address.
type Base uint8

// Effective address bases, in R/M encoding order, plus the direct address.
const (
	BaseBXSI Base = iota
	BaseBXDI
	BaseBPSI
	BaseBPDI
	BaseSI
	BaseDI
	BaseBP
	BaseBX
	BaseDirect
)

var baseNames = [...]string{
	"bx + si", "bx + di", "bp + si", "bp + di", "si", "di", "bp", "bx", "",
}

var baseSlots = [...][]Slot{
	BaseBXSI:   {SlotBX, SlotSI},
	BaseBXDI:   {SlotBX, SlotDI},
	BaseBPSI:   {SlotBP, SlotSI},
	BaseBPDI:   {SlotBP, SlotDI},
	BaseSI:     {SlotSI},
	BaseDI:     {SlotDI},
	BaseBP:     {SlotBP},
	BaseBX:     {SlotBX},
	BaseDirect: nil,
}

func (b Base) String() string {
	if int(b) < len(baseNames) {
		return baseNames[b]
	}
	return "??"
}

// Slots returns the registers summed to form the address.
func (b Base) Slots() []Slot {
	if int(b) < len(baseSlots) {
		return baseSlots[b]
	}
	return nil
}

// DispKind records how many displacement bytes followed the ModRM byte.
type DispKind uint8

// Displacement kinds.
const (
	DispNone   DispKind = iota
	Disp8Bit            // One byte, sign-extended
	Disp16Bit           // Two bytes
	DispDirect          // Two bytes, absolute address
)

// Memory is an effective-address operand.
type Memory struct {
	Base     Base
	DispKind DispKind
	Disp     int16 // Displacement, or the address itself for DispDirect
	Width    Width
}

func (Memory) isOperand() {}

// Direct reports whether the operand is an absolute 16-bit address.
func (m Memory) Direct() bool { return m.Base == BaseDirect }

// String renders the address the way the trace prints it: no brackets, zero
// displacements suppressed, direct addresses always shown as unsigned.
func (m Memory) String() string {
	switch m.DispKind {
	case DispDirect:
		return strconv.Itoa(int(uint16(m.Disp)))
	case Disp8Bit, Disp16Bit:
		switch {
		case m.Disp > 0:
			return fmt.Sprintf("%s + %d", m.Base, m.Disp)
		case m.Disp < 0:
			return fmt.Sprintf("%s %d", m.Base, m.Disp)
		}
	}
	return m.Base.String()
}

// Immediate is a constant operand, already sign-extended to 16 bits.
type Immediate struct {
	Value int16
	Width Width
}

func (Immediate) isOperand() {}

func (i Immediate) String() string { return strconv.Itoa(int(i.Value)) }

// Address is the absolute address of the memory-to/from-accumulator forms.
type Address uint16

func (Address) isOperand() {}

func (a Address) String() string { return strconv.Itoa(int(a)) }

// DisplacementBytes returns how many displacement bytes follow the ModRM byte.
// MOD=00 with R/M=110 is the direct address and always takes two bytes.
func DisplacementBytes(mod Mode, rm uint8) (int, error) {
	switch mod {
	case ModeMem:
		if rm&0x7 == 0b110 {
			return 2, nil
		}
		return 0, nil
	case ModeMemDisp8:
		return 1, nil
	case ModeMemDisp16:
		return 2, nil
	case ModeReg:
		return 0, nil
	}
	return 0, ErrAddressing
}

// ResolveRM converts MOD, R/M and width into an operand. disp holds the
// displacement bytes following the ModRM byte; it may be shorter than
// DisplacementBytes only if the caller already failed the length check.
func ResolveRM(mod Mode, rm uint8, w Width, disp []byte) (Operand, error) {
	rm &= 0x7

	switch mod {
	case ModeReg:
		return RegFor(rm, w), nil
	case ModeMem:
		if rm == 0b110 {
			if len(disp) < 2 {
				return nil, ErrTruncated
			}
			return Memory{
				Base:     BaseDirect,
				DispKind: DispDirect,
				Disp:     int16(Word16(disp[0], disp[1])),
				Width:    w,
			}, nil
		}
		return Memory{Base: Base(rm), DispKind: DispNone, Width: w}, nil
	case ModeMemDisp8:
		if len(disp) < 1 {
			return nil, ErrTruncated
		}
		return Memory{Base: Base(rm), DispKind: Disp8Bit, Disp: Disp8(disp[0]), Width: w}, nil
	case ModeMemDisp16:
		if len(disp) < 2 {
			return nil, ErrTruncated
		}
		return Memory{
			Base:     Base(rm),
			DispKind: Disp16Bit,
			Disp:     int16(Word16(disp[0], disp[1])),
			Width:    w,
		}, nil
	}

	return nil, ErrAddressing
}
