package insts

// Decoder decodes 8086 machine code into instructions.
type Decoder struct {
	carryOver bool
	last      Classification
}

// DecoderOption is a functional option for configuring the Decoder.
type DecoderOption func(*Decoder)

// WithCarryOverUnmapped makes an unmapped first byte reuse the previous
// instruction's kind and mnemonic instead of failing. The resulting decodes
// are usually wrong.
func WithCarryOverUnmapped() DecoderOption {
	return func(d *Decoder) {
		d.carryOver = true
	}
}

// NewDecoder creates a new 8086 instruction decoder.
func NewDecoder(opts ...DecoderOption) *Decoder {
	d := &Decoder{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// fields holds the raw bit-fields of one instruction.
type fields struct {
	w    Width
	sign bool
	mod  Mode
	reg  uint8
	rm   uint8
}

// Decode decodes the instruction starting at code[offset].
func (d *Decoder) Decode(code []byte, offset int) (Instruction, error) {
	if offset < 0 || offset >= len(code) {
		return nil, &DecodeError{Offset: offset, Err: ErrTruncated}
	}

	b0 := code[offset]
	b1 := byteAt(code, offset+1)

	c, err := d.classify(b0, b1)
	if err != nil {
		return nil, &DecodeError{Offset: offset, Opcode: b0, Err: err}
	}

	f := decodeFields(c, b0, b1)

	length, err := EncodedLength(c.Kind, c.Op, f.mod, f.rm, f.w, f.sign)
	if err != nil {
		return nil, &DecodeError{Offset: offset, Opcode: b0, Err: err}
	}
	if offset+length > len(code) {
		return nil, &DecodeError{Offset: offset, Opcode: b0, Err: ErrTruncated}
	}

	raw := code[offset : offset+length]
	common := Common{Op: c.Op, Opcode: b0, Offset: offset, Length: length}

	inst, err := assemble(c, f, common, raw)
	if err != nil {
		return nil, &DecodeError{Offset: offset, Opcode: b0, Err: err}
	}

	return inst, nil
}

func (d *Decoder) classify(b0, b1 byte) (Classification, error) {
	c, kindOK, opOK := classify(b0, b1)

	if !kindOK || !opOK {
		if !d.carryOver {
			return Classification{}, ErrUnmappedOpcode
		}
		if d.last.Kind == KindUnknown {
			return Classification{}, ErrUnmappedOpcode
		}
		if !kindOK {
			c.Kind = d.last.Kind
			c.Dir = d.last.Dir
		}
		if !opOK {
			c.Op = d.last.Op
		}
		if c.Kind == KindRegRM {
			c.Dir = regDirection(b0)
		}
	}

	d.last = c
	return c, nil
}

func byteAt(code []byte, i int) byte {
	if i < len(code) {
		return code[i]
	}
	return 0
}

// decodeFields extracts W, S, MOD, REG and R/M for the classified kind.
func decodeFields(c Classification, b0, b1 byte) fields {
	var f fields

	switch c.Kind {
	case KindImmToReg:
		if c.Op == OpMOV {
			f.w = WBitMovImm(b0)
			f.reg = LowReg(b0)
		} else {
			f.w = WBit(b0)
		}
	case KindSegRM:
		f.w = WidthWord
	case KindRegRM, KindImmToRM, KindAccMem:
		f.w = WBit(b0)
	}

	if c.Kind == KindImmToRM && c.Op.IsArith() && f.w == WidthWord {
		f.sign = SBit(b0) == 1
	}

	switch c.Kind {
	case KindRegRM, KindImmToRM:
		f.mod = ModField(b1)
		f.reg = RegField(b1)
		f.rm = RMField(b1)
	case KindSegRM:
		f.mod = ModField(b1)
		f.reg = SRField(b1)
		f.rm = RMField(b1)
	}

	return f
}

// assemble resolves operands and source/destination roles. raw holds exactly
// the encoded bytes of the instruction.
func assemble(c Classification, f fields, common Common, raw []byte) (Instruction, error) {
	switch c.Kind {
	case KindCondJump:
		return &CondJump{Common: common, Disp: int8(raw[1])}, nil

	case KindImmToReg:
		dest := Accumulator(f.w)
		if c.Op == OpMOV {
			dest = RegFor(f.reg, f.w)
		}
		return &ImmToReg{
			Common: common,
			Width:  f.w,
			Dest:   dest,
			Data:   immediate(raw[1:], f.w, false),
		}, nil

	case KindImmToRM:
		dest, err := ResolveRM(f.mod, f.rm, f.w, raw[2:])
		if err != nil {
			return nil, err
		}
		disp, _ := DisplacementBytes(f.mod, f.rm)
		return &ImmToRM{
			Common: common,
			Width:  f.w,
			Sign:   f.sign,
			Mode:   f.mod,
			Dest:   dest,
			Data:   immediate(raw[2+disp:], f.w, f.sign),
		}, nil

	case KindAccMem:
		addr := Address(raw[1])
		if f.w == WidthWord {
			addr = Address(Word16(raw[1], raw[2]))
		}
		inst := &AccMem{Common: common, Width: f.w, Dir: c.Dir, Acc: RegAX, Addr: addr}
		if c.Dir == DirAccIsDest {
			inst.Src, inst.Dst = addr, inst.Acc
		} else {
			inst.Src, inst.Dst = inst.Acc, addr
		}
		return inst, nil

	case KindRegRM:
		rm, err := ResolveRM(f.mod, f.rm, f.w, raw[2:])
		if err != nil {
			return nil, err
		}
		inst := &RegRM{
			Common: common,
			Width:  f.w,
			Mode:   f.mod,
			Dir:    c.Dir,
			Reg:    RegFor(f.reg, f.w),
			RM:     rm,
		}
		if c.Dir == DirRegIsSource {
			inst.Src, inst.Dst = inst.Reg, inst.RM
		} else {
			inst.Src, inst.Dst = inst.RM, inst.Reg
		}
		return inst, nil

	case KindSegRM:
		rm, err := ResolveRM(f.mod, f.rm, WidthWord, raw[2:])
		if err != nil {
			return nil, err
		}
		inst := &SegRM{
			Common: common,
			Mode:   f.mod,
			Dir:    c.Dir,
			Seg:    SegFor(f.reg),
			RM:     rm,
		}
		if c.Dir == DirSegIsDest {
			inst.Src, inst.Dst = inst.RM, inst.Seg
		} else {
			inst.Src, inst.Dst = inst.Seg, inst.RM
		}
		return inst, nil
	}

	return nil, ErrAddressing
}

// immediate reads a one- or two-byte immediate. Byte immediates and
// sign-extended word immediates are sign-extended from 8 bits.
func immediate(data []byte, w Width, signExtend bool) Immediate {
	if w == WidthWord && !signExtend {
		return Immediate{Value: int16(Word16(data[0], data[1])), Width: w}
	}
	return Immediate{Value: Disp8(data[0]), Width: w}
}
