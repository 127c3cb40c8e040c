package insts

// Slice selects which bits of the first byte a classifier rule tests.
// Slices double as rule priority: rules are evaluated in Slice order and a
// later match overrides an earlier one.
type Slice uint8

// Classifier slices, in evaluation order.
const (
	SliceByte Slice = iota // All 8 bits
	Slice7                 // Bits [7:1]
	Slice6                 // Bits [7:2]
	Slice4                 // Bits [7:4]
)

// Of extracts the slice from the first byte.
func (s Slice) Of(b0 byte) byte {
	switch s {
	case Slice7:
		return Top7(b0)
	case Slice6:
		return Top6(b0)
	case Slice4:
		return Top4(b0)
	default:
		return b0
	}
}

// Rule maps one value of a slice of the first byte to a kind and mnemonic.
type Rule struct {
	Name  string
	Slice Slice
	Value byte
	Kind  Kind
	Dir   Direction

	// Op is the mnemonic when Group is nil.
	Op Op
	// Group resolves the mnemonic from GroupField of the second byte.
	// A missing entry leaves the mnemonic unresolved.
	Group map[uint8]Op
}

// Classification is the outcome of running the rule table.
type Classification struct {
	Kind Kind
	Op   Op
	Dir  Direction
}

func jump(value byte, op Op) Rule {
	return Rule{Name: op.String(), Slice: SliceByte, Value: value, Kind: KindCondJump, Op: op}
}

// rules is the classifier table. Every matching rule overwrites the kind and,
// when it resolves one, the mnemonic, so the last match wins. Order matters:
// full-byte opcodes first, then the 7-, 6- and 4-bit groups.
var rules = []Rule{
	{Name: "mov sr<-r/m", Slice: SliceByte, Value: 0b10001110, Kind: KindSegRM, Dir: DirSegIsDest, Op: OpMOV},
	{Name: "mov r/m<-sr", Slice: SliceByte, Value: 0b10001100, Kind: KindSegRM, Dir: DirSegIsSource, Op: OpMOV},
	jump(0b01110100, OpJE),
	jump(0b01111100, OpJL),
	jump(0b01111110, OpJLE),
	jump(0b01110010, OpJB),
	jump(0b01110110, OpJBE),
	jump(0b01111010, OpJP),
	jump(0b01110000, OpJO),
	jump(0b01111000, OpJS),
	jump(0b01110101, OpJNE),
	jump(0b01111101, OpJNL),
	jump(0b01111111, OpJG),
	jump(0b01110011, OpJNB),
	jump(0b01110111, OpJA),
	jump(0b01111011, OpJNP),
	jump(0b01110001, OpJNO),
	jump(0b01111001, OpJNS),
	jump(0b11100010, OpLOOP),
	jump(0b11100001, OpLOOPZ),
	jump(0b11100000, OpLOOPNZ),
	jump(0b11100011, OpJCXZ),

	{Name: "mov r/m<-imm", Slice: Slice7, Value: 0b1100011, Kind: KindImmToRM, Op: OpMOV},
	{Name: "arith r/m<-imm (7-bit)", Slice: Slice7, Value: 0b0100000, Kind: KindImmToRM,
		Group: map[uint8]Op{0b101: OpSUB, 0b011: OpCMP}},
	{Name: "mov acc<-mem", Slice: Slice7, Value: 0b1010000, Kind: KindAccMem, Dir: DirAccIsDest, Op: OpMOV},
	{Name: "add acc<-imm", Slice: Slice7, Value: 0b0000010, Kind: KindImmToReg, Op: OpADD},
	{Name: "sub acc<-imm", Slice: Slice7, Value: 0b0010110, Kind: KindImmToReg, Op: OpSUB},
	{Name: "cmp acc,imm", Slice: Slice7, Value: 0b0011110, Kind: KindImmToReg, Op: OpCMP},
	{Name: "mov mem<-acc", Slice: Slice7, Value: 0b1010001, Kind: KindAccMem, Dir: DirAccIsSource, Op: OpMOV},

	{Name: "mov r/m,reg", Slice: Slice6, Value: 0b100010, Kind: KindRegRM, Op: OpMOV},
	{Name: "add r/m,reg", Slice: Slice6, Value: 0b000000, Kind: KindRegRM, Op: OpADD},
	{Name: "sub r/m,reg", Slice: Slice6, Value: 0b001010, Kind: KindRegRM, Op: OpSUB},
	{Name: "cmp r/m,reg", Slice: Slice6, Value: 0b001110, Kind: KindRegRM, Op: OpCMP},
	{Name: "arith r/m<-imm", Slice: Slice6, Value: 0b100000, Kind: KindImmToRM,
		Group: map[uint8]Op{0b000: OpADD, 0b101: OpSUB, 0b111: OpCMP}},

	{Name: "mov reg<-imm", Slice: Slice4, Value: 0b1011, Kind: KindImmToReg, Op: OpMOV},
}

// Rules returns a copy of the classifier table in evaluation order. Group
// maps are copied too, so changes to the result do not affect decoding.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	for i, r := range rules {
		if r.Group != nil {
			group := make(map[uint8]Op, len(r.Group))
			for k, v := range r.Group {
				group[k] = v
			}
			r.Group = group
		}
		out[i] = r
	}
	return out
}

// classify runs the rule table. kindOK and opOK report whether any rule set
// the kind and the mnemonic respectively.
func classify(b0, b1 byte) (c Classification, kindOK, opOK bool) {
	for i := range rules {
		r := &rules[i]
		if r.Slice.Of(b0) != r.Value {
			continue
		}

		c.Kind = r.Kind
		c.Dir = r.Dir
		kindOK = true

		if r.Group == nil {
			c.Op = r.Op
			opOK = true
		} else if op, ok := r.Group[GroupField(b1)]; ok {
			c.Op = op
			opOK = true
		}
	}

	if c.Kind == KindRegRM {
		c.Dir = regDirection(b0)
	}

	return c, kindOK, opOK
}

func regDirection(b0 byte) Direction {
	if DBit(b0) == 1 {
		return DirRegIsDest
	}
	return DirRegIsSource
}

// Classify maps the first two instruction bytes to a kind and mnemonic.
// It returns ErrUnmappedOpcode when the first byte matches no rule or no
// matching rule resolves a mnemonic.
func Classify(b0, b1 byte) (Classification, error) {
	c, kindOK, opOK := classify(b0, b1)
	if !kindOK || !opOK {
		return Classification{}, ErrUnmappedOpcode
	}
	return c, nil
}
