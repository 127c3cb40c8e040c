package emu

import (
	"math/bits"
	"strings"

	"github.com/wolframtungsten678/8086-Decompiler/insts"
)

// Flags is the 8086 FLAGS register. Bit positions follow the hardware layout.
type Flags uint16

// Condition and control flags.
const (
	FlagC Flags = 1 << 0  // Carry
	FlagP Flags = 1 << 2  // Parity
	FlagA Flags = 1 << 4  // Auxiliary carry
	FlagZ Flags = 1 << 6  // Zero
	FlagS Flags = 1 << 7  // Sign
	FlagT Flags = 1 << 8  // Trap
	FlagI Flags = 1 << 9  // Interrupt enable
	FlagD Flags = 1 << 10 // Direction
	FlagO Flags = 1 << 11 // Overflow
)

// FlagLabel pairs a flag with its one-letter dump label.
type FlagLabel struct {
	Flag  Flags
	Label string
}

// FlagLabels lists the labelled flags in dump order, most significant first.
var FlagLabels = []FlagLabel{
	{FlagO, "O"},
	{FlagD, "D"},
	{FlagI, "I"},
	{FlagT, "T"},
	{FlagS, "S"},
	{FlagZ, "Z"},
	{FlagA, "A"},
	{FlagP, "P"},
	{FlagC, "C"},
}

// Has reports whether every flag in mask is set.
func (f Flags) Has(mask Flags) bool {
	return f&mask == mask
}

// With returns f with the flags in mask set or cleared.
func (f Flags) With(mask Flags, on bool) Flags {
	if on {
		return f | mask
	}
	return f &^ mask
}

// Labels returns the labels of the set flags in dump order.
func (f Flags) Labels() []string {
	var labels []string
	for _, fl := range FlagLabels {
		if f.Has(fl.Flag) {
			labels = append(labels, fl.Label)
		}
	}
	return labels
}

// String renders the set flags in the compact trace form, each label
// padded by one space on either side: " Z  P ".
func (f Flags) String() string {
	var sb strings.Builder
	for _, label := range f.Labels() {
		sb.WriteString(" ")
		sb.WriteString(label)
		sb.WriteString(" ")
	}
	return sb.String()
}

// parity reports whether the low byte of v has an even number of set bits.
func parity(v int32) bool {
	return bits.OnesCount8(uint8(v))%2 == 0
}

// ComputeFlags derives the arithmetic flags after an add, sub or cmp.
//
// result is the 32-bit intermediate produced by the ALU, before it is
// masked back into the destination, and source is the second operand as the
// ALU saw it. Carry and overflow use fixed thresholds that do not depend on
// the operand width:
//
//	carry     add: result > 255          sub/cmp: result < 0
//	overflow  word: outside [-32768, 65535]  byte: outside [-127, 255]
//
// Any other mnemonic returns prev unchanged.
func ComputeFlags(prev Flags, op insts.Op, w insts.Width, result, source int32) Flags {
	if !op.IsArith() {
		return prev
	}

	f := prev
	f = f.With(FlagP, parity(result))
	f = f.With(FlagZ, result == 0)

	if w == insts.WidthWord {
		f = f.With(FlagS, (result>>15)&1 == 1)
		f = f.With(FlagO, result > 65535 || result < -32768)
	} else {
		f = f.With(FlagS, (result>>7)&1 == 1)
		f = f.With(FlagO, result > 255 || result < -127)
	}

	srcNibble := source & 0xF
	if op == insts.OpADD {
		f = f.With(FlagC, result > 255)
		f = f.With(FlagA, ((result-source)&0xF)+srcNibble > 15)
	} else {
		f = f.With(FlagC, result < 0)
		f = f.With(FlagA, (result+source)&0xF < srcNibble)
	}

	return f
}
