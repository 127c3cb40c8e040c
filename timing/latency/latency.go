// Package latency provides 8086 clock-count estimates for decoded
// instructions.
//
// The counts follow the 8086 timing tables and can be configured via
// TimingConfig. Odd-address word transfer penalties and bus wait states
// are not modelled.
package latency

import (
	"github.com/wolframtungsten678/8086-Decompiler/insts"
)

// Table provides instruction clock lookups.
type Table struct {
	config *TimingConfig
}

// NewTable creates a new clock table with default 8086 timing values.
func NewTable() *Table {
	return &Table{
		config: DefaultTimingConfig(),
	}
}

// NewTableWithConfig creates a new clock table with custom timing configuration.
func NewTableWithConfig(config *TimingConfig) *Table {
	return &Table{
		config: config,
	}
}

// Clocks returns the clock count of an executed instruction, including the
// effective address calculation of any memory operand. taken only matters
// for jumps and loops.
func (t *Table) Clocks(inst insts.Instruction, taken bool) uint64 {
	switch in := inst.(type) {
	case *insts.CondJump:
		return t.branchClocks(in.Op, taken)

	case *insts.ImmToReg:
		if in.Op == insts.OpMOV {
			return t.config.MovRegImm
		}
		return t.config.ArithRegImm

	case *insts.ImmToRM:
		m, ok := in.Dest.(insts.Memory)
		if !ok {
			if in.Op == insts.OpMOV {
				return t.config.MovRegImm
			}
			return t.config.ArithRegImm
		}
		switch in.Op {
		case insts.OpMOV:
			return t.config.MovMemImm + t.EAClocks(m)
		case insts.OpCMP:
			return t.config.CmpMemImm + t.EAClocks(m)
		default:
			return t.config.ArithMemImm + t.EAClocks(m)
		}

	case *insts.AccMem:
		return t.config.MovAccMem

	case *insts.RegRM:
		return t.regRMClocks(in)

	case *insts.SegRM:
		m, ok := in.RM.(insts.Memory)
		if !ok {
			return t.config.MovSegReg
		}
		if in.Dir == insts.DirSegIsDest {
			return t.config.MovSegMem + t.EAClocks(m)
		}
		return t.config.MovMemSeg + t.EAClocks(m)
	}

	return 0
}

func (t *Table) branchClocks(op insts.Op, taken bool) uint64 {
	switch op {
	case insts.OpLOOP:
		if taken {
			return t.config.LoopTaken
		}
		return t.config.LoopNotTaken
	case insts.OpLOOPZ, insts.OpLOOPNZ, insts.OpJCXZ:
		if taken {
			return t.config.LoopCondTaken
		}
		return t.config.LoopCondNotTaken
	default:
		if taken {
			return t.config.JumpTaken
		}
		return t.config.JumpNotTaken
	}
}

func (t *Table) regRMClocks(in *insts.RegRM) uint64 {
	m, ok := in.RM.(insts.Memory)
	if !ok {
		if in.Op == insts.OpMOV {
			return t.config.MovRegReg
		}
		return t.config.ArithRegReg
	}

	memDest := in.Dir == insts.DirRegIsSource
	var base uint64
	switch {
	case in.Op == insts.OpMOV && memDest:
		base = t.config.MovMemReg
	case in.Op == insts.OpMOV:
		base = t.config.MovRegMem
	case !memDest:
		base = t.config.ArithRegMem
	case in.Op == insts.OpCMP:
		base = t.config.CmpMemReg
	default:
		base = t.config.ArithMemReg
	}

	return base + t.EAClocks(m)
}

// EAClocks returns the effective address calculation time of a memory
// operand.
func (t *Table) EAClocks(m insts.Memory) uint64 {
	var clocks uint64

	switch m.Base {
	case insts.BaseDirect:
		return t.config.EADirect
	case insts.BaseBPDI, insts.BaseBXSI:
		clocks = t.config.EABaseIndexFast
	case insts.BaseBPSI, insts.BaseBXDI:
		clocks = t.config.EABaseIndexSlow
	default:
		clocks = t.config.EABaseOrIndex
	}

	if m.DispKind == insts.Disp8Bit || m.DispKind == insts.Disp16Bit {
		clocks += t.config.EADisplacement
	}

	return clocks
}

// IsMemoryOp returns true if the instruction has a memory operand.
func (t *Table) IsMemoryOp(inst insts.Instruction) bool {
	switch in := inst.(type) {
	case *insts.AccMem:
		return true
	case *insts.ImmToRM:
		_, ok := in.Dest.(insts.Memory)
		return ok
	case *insts.RegRM:
		_, ok := in.RM.(insts.Memory)
		return ok
	case *insts.SegRM:
		_, ok := in.RM.(insts.Memory)
		return ok
	default:
		return false
	}
}

// IsBranchOp returns true if the instruction is a jump or loop.
func (t *Table) IsBranchOp(inst insts.Instruction) bool {
	return inst != nil && inst.Kind() == insts.KindCondJump
}

// Config returns the current timing configuration.
func (t *Table) Config() *TimingConfig {
	return t.config
}
