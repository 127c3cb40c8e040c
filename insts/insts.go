// Package insts provides 8086 instruction definitions and decoding.
//
// This package implements decoding of a restricted 8086 subset into
// structured instruction representations. It supports:
//   - mov between registers, memory, segment registers and immediates
//   - add, sub and cmp in register/memory, immediate and accumulator forms
//   - the conditional jump family (je, jne, jb, jp, ...) and the loop family
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst, err := decoder.Decode([]byte{0xB8, 0x05, 0x00}, 0) // mov ax, 5
//	fmt.Println(insts.Disassemble(inst), inst.Info().Length)
package insts

// Op represents an instruction mnemonic.
type Op uint8

// Supported mnemonics.
const (
	OpUnknown Op = iota
	OpADD
	OpCMP
	OpJE
	OpJL
	OpJLE
	OpJB
	OpJBE
	OpJP
	OpJO
	OpJS
	OpJNE
	OpJNL
	OpJG
	OpJNB
	OpJA
	OpJNP
	OpJNO
	OpJNS
	OpLOOP
	OpLOOPZ
	OpLOOPNZ
	OpJCXZ
	OpMOV
	OpSUB
)

var opNames = [...]string{
	OpUnknown: "(unknown)",
	OpADD:     "add",
	OpCMP:     "cmp",
	OpJE:      "je",
	OpJL:      "jl",
	OpJLE:     "jle",
	OpJB:      "jb",
	OpJBE:     "jbe",
	OpJP:      "jp",
	OpJO:      "jo",
	OpJS:      "js",
	OpJNE:     "jne",
	OpJNL:     "jnl",
	OpJG:      "jg",
	OpJNB:     "jnb",
	OpJA:      "ja",
	OpJNP:     "jnp",
	OpJNO:     "jno",
	OpJNS:     "jns",
	OpLOOP:    "loop",
	OpLOOPZ:   "loopz",
	OpLOOPNZ:  "loopnz",
	OpJCXZ:    "jcxz",
	OpMOV:     "mov",
	OpSUB:     "sub",
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return opNames[OpUnknown]
}

// IsArith reports whether the mnemonic is one of add, sub or cmp.
func (o Op) IsArith() bool {
	return o == OpADD || o == OpSUB || o == OpCMP
}

// Kind represents the encoding family an instruction was classified into.
type Kind uint8

// Instruction kinds.
const (
	KindUnknown   Kind = iota
	KindCondJump       // Conditional jump / loop
	KindImmToReg       // Immediate to register (and to accumulator)
	KindImmToRM        // Immediate to register/memory
	KindAccMem         // Memory to/from accumulator
	KindRegRM          // Register/memory to/from register
	KindSegRM          // Register/memory to/from segment register
)

var kindNames = [...]string{
	KindUnknown:  "unknown",
	KindCondJump: "conditional-jump",
	KindImmToReg: "immediate-to-register",
	KindImmToRM:  "immediate-to-register/memory",
	KindAccMem:   "memory-to/from-accumulator",
	KindRegRM:    "register/memory-to/from-register",
	KindSegRM:    "register/memory-to/from-segment-register",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[KindUnknown]
}

// Width is the operand size selected by the W bit.
type Width uint8

// Operand widths.
const (
	WidthByte Width = iota
	WidthWord
)

func (w Width) String() string {
	if w == WidthWord {
		return "word"
	}
	return "byte"
}

// Mode is the MOD field of the second instruction byte.
type Mode uint8

// Addressing modes.
const (
	ModeMem       Mode = 0b00 // Memory, no displacement (except direct address)
	ModeMemDisp8  Mode = 0b01 // Memory, 8-bit displacement
	ModeMemDisp16 Mode = 0b10 // Memory, 16-bit displacement
	ModeReg       Mode = 0b11 // Register direct
)

func (m Mode) String() string {
	switch m {
	case ModeMem:
		return "mem"
	case ModeMemDisp8:
		return "mem+disp8"
	case ModeMemDisp16:
		return "mem+disp16"
	case ModeReg:
		return "reg"
	default:
		return "invalid"
	}
}

// Direction records which operand is the source.
type Direction uint8

// Directions, one pair per kind that carries a direction.
const (
	DirNone Direction = iota
	DirAccIsSource
	DirAccIsDest
	DirRegIsSource
	DirRegIsDest
	DirSegIsSource
	DirSegIsDest
)
