package insts

// Instruction is a decoded instruction. The concrete type is one of
// *CondJump, *ImmToReg, *ImmToRM, *AccMem, *RegRM or *SegRM; use a type
// switch to reach the kind-specific payload.
type Instruction interface {
	Kind() Kind
	Info() *Common
	isInstruction()
}

// Common holds the fields every instruction kind carries.
type Common struct {
	Op     Op
	Opcode byte // First instruction byte
	Offset int  // Offset of the first byte in the code buffer
	Length int  // Encoded length in bytes
}

// Info returns the shared header.
func (c *Common) Info() *Common { return c }

// CondJump is a conditional jump or loop with a signed 8-bit displacement
// relative to the following instruction.
type CondJump struct {
	Common
	Disp int8
}

// Kind implements Instruction.
func (*CondJump) Kind() Kind { return KindCondJump }
func (*CondJump) isInstruction() {}

// ImmToReg is an immediate moved into, or combined with, a register named
// by the opcode (mov reg, imm) or the accumulator (add/sub/cmp acc, imm).
type ImmToReg struct {
	Common
	Width Width
	Dest  Reg
	Data  Immediate
}

// Kind implements Instruction.
func (*ImmToReg) Kind() Kind { return KindImmToReg }
func (*ImmToReg) isInstruction() {}

// ImmToRM is an immediate moved into, or combined with, a register/memory
// operand.
type ImmToRM struct {
	Common
	Width Width
	Sign  bool // Single immediate byte sign-extended to a word
	Mode  Mode
	Dest  Operand // Reg or Memory
	Data  Immediate
}

// Kind implements Instruction.
func (*ImmToRM) Kind() Kind { return KindImmToRM }
func (*ImmToRM) isInstruction() {}

// AccMem moves between the accumulator and an absolute address.
type AccMem struct {
	Common
	Width Width
	Dir   Direction
	Acc   Reg
	Addr  Address
	Src   Operand
	Dst   Operand
}

// Kind implements Instruction.
func (*AccMem) Kind() Kind { return KindAccMem }
func (*AccMem) isInstruction() {}

// RegRM is a register/memory to/from register form.
type RegRM struct {
	Common
	Width Width
	Mode  Mode
	Dir   Direction
	Reg   Reg
	RM    Operand // Reg or Memory
	Src   Operand
	Dst   Operand
}

// Kind implements Instruction.
func (*RegRM) Kind() Kind { return KindRegRM }
func (*RegRM) isInstruction() {}

// SegRM is a register/memory to/from segment register move.
type SegRM struct {
	Common
	Mode Mode
	Dir  Direction
	Seg  SegReg
	RM   Operand // Word Reg or Memory
	Src  Operand
	Dst  Operand
}

// Kind implements Instruction.
func (*SegRM) Kind() Kind { return KindSegRM }
func (*SegRM) isInstruction() {}

// Operands returns the destination and source of an instruction. Conditional
// jumps have no destination; their source is the displacement.
func Operands(inst Instruction) (dst, src Operand) {
	switch in := inst.(type) {
	case *CondJump:
		return nil, Immediate{Value: int16(in.Disp), Width: WidthByte}
	case *ImmToReg:
		return in.Dest, in.Data
	case *ImmToRM:
		return in.Dest, in.Data
	case *AccMem:
		return in.Dst, in.Src
	case *RegRM:
		return in.Dst, in.Src
	case *SegRM:
		return in.Dst, in.Src
	}
	return nil, nil
}
