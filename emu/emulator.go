package emu

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wolframtungsten678/8086-Decompiler/insts"
)

// ErrMaxInstructions is returned once the instruction limit is reached.
var ErrMaxInstructions = errors.New("max instructions reached")

// StepResult represents the result of executing a single instruction.
type StepResult struct {
	// Inst is the decoded instruction, nil if decoding failed or the
	// program had already finished.
	Inst insts.Instruction

	// Text is the disassembly of Inst.
	Text string

	// Effect describes the register written by Inst, in the form
	// "<reg> new value is: <n>". It is empty when no register was written.
	Effect string

	// Clocks is the estimated clock count of Inst, zero without a
	// clock model.
	Clocks uint64

	// Halted is true once IP has reached the end of the program.
	Halted bool

	// Err is set if an error occurred during decoding.
	Err error
}

// Tracer receives the disassembly trace as the emulator runs.
type Tracer interface {
	// TraceInstruction is called with each decoded instruction before it
	// executes.
	TraceInstruction(offset uint16, text string)

	// TraceEffect is called after an instruction that wrote a register.
	TraceEffect(offset uint16, effect string)
}

// ClockModel estimates how many clocks an executed instruction takes.
type ClockModel interface {
	Clocks(inst insts.Instruction, taken bool) uint64
}

// Emulator decodes and executes 8086 instructions functionally.
//
// The program bytes are decoded from their own buffer; data memory starts
// zeroed and is separate from the program.
type Emulator struct {
	regFile     *RegFile
	memory      *Memory
	decoder     *insts.Decoder
	decoderOpts []insts.DecoderOption
	program     []byte

	// Execution units
	alu        *ALU
	lsu        *LoadStoreUnit
	branchUnit *BranchUnit

	logger *slog.Logger
	tracer Tracer
	clocks ClockModel

	// Execution state
	instructionCount uint64
	clockCount       uint64
	maxInstructions  uint64 // 0 means no limit
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithLogger sets the logger used for debug and trace output.
func WithLogger(logger *slog.Logger) EmulatorOption {
	return func(e *Emulator) {
		e.logger = logger
	}
}

// WithTracer sets the receiver of the disassembly trace.
func WithTracer(t Tracer) EmulatorOption {
	return func(e *Emulator) {
		e.tracer = t
	}
}

// WithClockModel enables clock estimation.
func WithClockModel(m ClockModel) EmulatorOption {
	return func(e *Emulator) {
		e.clocks = m
	}
}

// WithMaxInstructions sets the maximum number of instructions to execute.
// A value of 0 means no limit.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) {
		e.maxInstructions = max
	}
}

// WithDecoderOptions configures the instruction decoder.
func WithDecoderOptions(opts ...insts.DecoderOption) EmulatorOption {
	return func(e *Emulator) {
		e.decoderOpts = append(e.decoderOpts, opts...)
	}
}

// NewEmulator creates a new 8086 emulator.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.Reset()

	return e
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Memory returns the emulator's memory.
func (e *Emulator) Memory() *Memory {
	return e.memory
}

// Flags returns the current flags.
func (e *Emulator) Flags() Flags {
	return e.regFile.Flags
}

// InstructionCount returns the number of instructions executed.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// ClockCount returns the estimated clocks of all executed instructions.
func (e *Emulator) ClockCount() uint64 {
	return e.clockCount
}

// LoadProgram sets the code to execute and points IP at its first byte.
// The program must fit in the 16-bit address space.
func (e *Emulator) LoadProgram(program []byte) error {
	if len(program) >= MemorySize {
		return fmt.Errorf("program of %d bytes does not fit in %d bytes", len(program), MemorySize-1)
	}

	e.program = append([]byte(nil), program...)
	e.regFile.SetIP(0)

	return nil
}

// Reset clears registers, flags, memory and the instruction and clock
// counts. The
// loaded program is kept and IP returns to its start.
func (e *Emulator) Reset() {
	e.regFile = &RegFile{}
	e.memory = NewMemory()
	e.decoder = insts.NewDecoder(e.decoderOpts...)
	e.instructionCount = 0
	e.clockCount = 0

	e.alu = NewALU(e.regFile)
	e.lsu = NewLoadStoreUnit(e.regFile, e.memory)
	e.branchUnit = NewBranchUnit(e.regFile)
}

// Halted reports whether IP has run off the end of the program.
func (e *Emulator) Halted() bool {
	return int(e.regFile.IP()) >= len(e.program)
}

// Step decodes and executes a single instruction.
// Returns a StepResult indicating whether execution should continue.
func (e *Emulator) Step() StepResult {
	if e.Halted() {
		return StepResult{Halted: true}
	}

	if e.maxInstructions > 0 && e.instructionCount >= e.maxInstructions {
		return StepResult{Err: ErrMaxInstructions}
	}

	// 1. Decode at IP
	ip := e.regFile.IP()
	inst, err := e.decoder.Decode(e.program, int(ip))
	if err != nil {
		return StepResult{Err: err}
	}

	// 2. Render
	text := insts.Disassemble(inst)
	if e.tracer != nil {
		e.tracer.TraceInstruction(ip, text)
	}

	// 3. Advance IP past the instruction, then execute
	e.regFile.SetIP(ip + uint16(inst.Info().Length))
	effect, taken := e.execute(inst)
	e.instructionCount++

	var clocks uint64
	if e.clocks != nil {
		clocks = e.clocks.Clocks(inst, taken)
		e.clockCount += clocks
	}

	Trace(e.logger, "step",
		"offset", ip,
		"inst", text,
		"length", inst.Info().Length,
		"clocks", clocks,
		"flags", e.regFile.Flags.String())

	if effect != "" && e.tracer != nil {
		e.tracer.TraceEffect(ip, effect)
	}

	return StepResult{
		Inst:   inst,
		Text:   text,
		Effect: effect,
		Clocks: clocks,
		Halted: e.Halted(),
	}
}

// Run executes instructions until IP reaches the end of the program, an
// error occurs, or ctx is done.
func (e *Emulator) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		result := e.Step()
		if result.Err != nil {
			return result.Err
		}
		if result.Halted {
			return nil
		}
	}
}

// execute dispatches a decoded instruction to the execution units. It
// returns the effect line and, for jumps, whether the branch was taken.
func (e *Emulator) execute(inst insts.Instruction) (string, bool) {
	// A carried-over mnemonic can pair a jump or loop with a data form.
	if op := inst.Info().Op; inst.Kind() != insts.KindCondJump && op != insts.OpMOV && !op.IsArith() {
		e.unimplemented(inst, "mnemonic for this form")
		return "", false
	}

	switch in := inst.(type) {
	case *insts.CondJump:
		return "", e.executeJump(in)
	case *insts.ImmToReg:
		return e.executeImmToReg(in), false
	case *insts.ImmToRM:
		return e.executeImmToRM(in), false
	case *insts.AccMem:
		// Accumulator moves are decoded but not emulated.
		e.unimplemented(in, "accumulator move")
		if in.Dir == insts.DirAccIsDest {
			return e.effect(in.Acc), false
		}
		return "", false
	case *insts.RegRM:
		return e.executeRegRM(in), false
	case *insts.SegRM:
		return e.executeSegRM(in), false
	}

	return "", false
}

func (e *Emulator) executeJump(in *insts.CondJump) bool {
	taken, ok := e.branchUnit.Jump(in.Op, in.Disp)
	if !ok {
		e.unimplemented(in, "condition")
		return false
	}

	Trace(e.logger, "branch",
		"op", in.Op,
		"taken", taken,
		"ip", e.regFile.IP())

	return taken
}

func (e *Emulator) executeImmToReg(in *insts.ImmToReg) string {
	if in.Op == insts.OpMOV {
		e.lsu.Store(in.Dest, uint16(in.Data.Value))
		return e.effect(in.Dest)
	}

	src := int32(in.Data.Value)
	if in.Width == insts.WidthByte {
		src &= 0xFF
	}
	e.alu.Arith(in.Op, in.Dest, src)

	return e.effect(in.Dest)
}

func (e *Emulator) executeImmToRM(in *insts.ImmToRM) string {
	if in.Op == insts.OpMOV {
		e.lsu.Store(in.Dest, uint16(in.Data.Value))
		return e.effect(in.Dest)
	}

	dst, ok := in.Dest.(insts.Reg)
	if !ok {
		e.unimplemented(in, "memory destination")
		return ""
	}
	e.alu.Arith(in.Op, dst, int32(in.Data.Value))

	return e.effect(dst)
}

func (e *Emulator) executeRegRM(in *insts.RegRM) string {
	if in.Op == insts.OpMOV {
		e.lsu.Move(in.Dst, in.Src)
		return e.effect(in.Dst)
	}

	if in.Mode != insts.ModeReg {
		e.unimplemented(in, "memory operand")
		return ""
	}

	dst := in.Dst.(insts.Reg)
	value, _ := e.lsu.Load(in.Src)

	src := int32(value)
	if in.Width == insts.WidthWord {
		src = int32(int16(value))
	}
	e.alu.Arith(in.Op, dst, src)

	return e.effect(dst)
}

func (e *Emulator) executeSegRM(in *insts.SegRM) string {
	if in.Mode != insts.ModeReg {
		e.unimplemented(in, "memory operand")
		return ""
	}

	e.lsu.Move(in.Dst, in.Src)

	return e.effect(in.Dst)
}

// effect renders the register slot behind op after it was written. Byte
// registers report their whole slot.
func (e *Emulator) effect(op insts.Operand) string {
	var slot insts.Slot

	switch o := op.(type) {
	case insts.Reg:
		slot, _ = o.Slot()
	case insts.SegReg:
		slot = o.Slot()
	default:
		return ""
	}

	return fmt.Sprintf("%s new value is: %d", slot, e.regFile.Signed(slot))
}

func (e *Emulator) unimplemented(inst insts.Instruction, what string) {
	e.logger.Debug("not emulated",
		"op", inst.Info().Op,
		"kind", inst.Kind(),
		"what", what,
		"offset", inst.Info().Offset)
}
