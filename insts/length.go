package insts

// baseLength is the length of the opcode, ModRM and displacement bytes.
func baseLength(mod Mode, rm uint8) (int, error) {
	disp, err := DisplacementBytes(mod, rm)
	if err != nil {
		return 0, err
	}
	return 2 + disp, nil
}

// EncodedLength computes the total length of an instruction from its
// decoded fields:
//
//	reg/mem<->reg, reg/mem<->sr  2 / 3 (disp8) / 4 (disp16 or direct)
//	imm->reg/mem                 base + 2 if word and not sign-extended, else base + 1
//	imm->reg, mem<->acc          3 (word) / 2 (byte)
//	jumps and loops              2
//
// mod and rm are ignored for kinds without a ModRM byte. sign only matters
// for the add/sub/cmp immediate-to-register/memory forms.
func EncodedLength(kind Kind, op Op, mod Mode, rm uint8, w Width, sign bool) (int, error) {
	switch kind {
	case KindRegRM, KindSegRM:
		return baseLength(mod, rm)

	case KindImmToRM:
		base, err := baseLength(mod, rm)
		if err != nil {
			return 0, err
		}
		if w == WidthWord && !(op.IsArith() && sign) {
			return base + 2, nil
		}
		return base + 1, nil

	case KindImmToReg, KindAccMem:
		if w == WidthWord {
			return 3, nil
		}
		return 2, nil

	case KindCondJump:
		return 2, nil
	}

	return 0, ErrAddressing
}
