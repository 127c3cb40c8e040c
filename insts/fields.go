package insts

// Field extracts width bits of b starting at bit offset, where offset 0 is
// the least significant bit.
func Field(b byte, offset, width uint) byte {
	return (b >> offset) & (1<<width - 1)
}

// Top7 returns bits [7:1] of the first byte.
func Top7(b0 byte) byte { return Field(b0, 1, 7) }

// Top6 returns bits [7:2] of the first byte.
func Top6(b0 byte) byte { return Field(b0, 2, 6) }

// Top4 returns bits [7:4] of the first byte.
func Top4(b0 byte) byte { return Field(b0, 4, 4) }

// ModField returns the MOD field, bits [7:6] of the second byte.
func ModField(b1 byte) Mode { return Mode(Field(b1, 6, 2)) }

// RegField returns the REG field, bits [5:3] of the second byte.
func RegField(b1 byte) uint8 { return Field(b1, 3, 3) }

// SRField returns the segment register field, bits [4:3] of the second byte.
func SRField(b1 byte) uint8 { return Field(b1, 3, 2) }

// RMField returns the R/M field, bits [2:0] of the second byte.
func RMField(b1 byte) uint8 { return Field(b1, 0, 3) }

// GroupField returns the middle three bits of the second byte. For the
// immediate-to-register/memory groups it selects add, sub or cmp.
func GroupField(b1 byte) uint8 { return Field(b1, 3, 3) }

// DBit returns the direction bit, bit 1 of the first byte.
func DBit(b0 byte) byte { return Field(b0, 1, 1) }

// SBit returns the sign-extend bit, bit 1 of the first byte.
func SBit(b0 byte) byte { return Field(b0, 1, 1) }

// WBit returns the width bit at bit 0 of the first byte.
func WBit(b0 byte) Width { return Width(Field(b0, 0, 1)) }

// WBitMovImm returns the width bit of mov immediate-to-register, bit 3.
func WBitMovImm(b0 byte) Width { return Width(Field(b0, 3, 1)) }

// LowReg returns the register code embedded in bits [2:0] of the first byte.
func LowReg(b0 byte) uint8 { return Field(b0, 0, 3) }

// Disp8 sign-extends an 8-bit displacement.
func Disp8(lo byte) int16 { return int16(int8(lo)) }

// Word16 assembles a little-endian 16-bit value.
func Word16(lo, hi byte) uint16 { return uint16(hi)<<8 | uint16(lo) }
