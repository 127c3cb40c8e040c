package latency

import (
	"encoding/json"
	"fmt"
	"os"
)

// TimingConfig holds clock counts for the emulated instruction forms.
// Defaults follow the 8086 column of the Intel instruction timing tables.
// Counts for forms with a memory operand exclude the effective address
// calculation, which is added separately.
type TimingConfig struct {
	// MovRegReg is mov between two registers. Default: 2 clocks.
	MovRegReg uint64 `json:"mov_reg_reg"`

	// MovRegMem is mov from memory into a register. Default: 8 clocks.
	MovRegMem uint64 `json:"mov_reg_mem"`

	// MovMemReg is mov from a register into memory. Default: 9 clocks.
	MovMemReg uint64 `json:"mov_mem_reg"`

	// MovRegImm is mov of an immediate into a register. Default: 4 clocks.
	MovRegImm uint64 `json:"mov_reg_imm"`

	// MovMemImm is mov of an immediate into memory. Default: 10 clocks.
	MovMemImm uint64 `json:"mov_mem_imm"`

	// MovAccMem is mov between the accumulator and a direct address,
	// either way. Default: 10 clocks.
	MovAccMem uint64 `json:"mov_acc_mem"`

	// MovSegReg is mov between a segment register and a general
	// register. Default: 2 clocks.
	MovSegReg uint64 `json:"mov_seg_reg"`

	// MovSegMem is mov from memory into a segment register.
	// Default: 8 clocks.
	MovSegMem uint64 `json:"mov_seg_mem"`

	// MovMemSeg is mov from a segment register into memory.
	// Default: 9 clocks.
	MovMemSeg uint64 `json:"mov_mem_seg"`

	// ArithRegReg is add, sub or cmp between two registers. Default: 3 clocks.
	ArithRegReg uint64 `json:"arith_reg_reg"`

	// ArithRegMem is add, sub or cmp with a memory source. Default: 9 clocks.
	ArithRegMem uint64 `json:"arith_reg_mem"`

	// ArithMemReg is add or sub with a memory destination.
	// Default: 16 clocks.
	ArithMemReg uint64 `json:"arith_mem_reg"`

	// ArithRegImm is add, sub or cmp of an immediate with a register,
	// including the accumulator forms. Default: 4 clocks.
	ArithRegImm uint64 `json:"arith_reg_imm"`

	// ArithMemImm is add or sub of an immediate with memory.
	// Default: 17 clocks.
	ArithMemImm uint64 `json:"arith_mem_imm"`

	// CmpMemReg is cmp of memory with a register. Default: 9 clocks.
	CmpMemReg uint64 `json:"cmp_mem_reg"`

	// CmpMemImm is cmp of memory with an immediate. Default: 10 clocks.
	CmpMemImm uint64 `json:"cmp_mem_imm"`

	// JumpTaken and JumpNotTaken are the conditional jump counts.
	// Default: 16 and 4 clocks.
	JumpTaken    uint64 `json:"jump_taken"`
	JumpNotTaken uint64 `json:"jump_not_taken"`

	// LoopTaken and LoopNotTaken are the loop counts. Default: 17 and 5.
	LoopTaken    uint64 `json:"loop_taken"`
	LoopNotTaken uint64 `json:"loop_not_taken"`

	// LoopCondTaken and LoopCondNotTaken are the loopz, loopnz and jcxz
	// counts. Default: 18 and 6 clocks.
	LoopCondTaken    uint64 `json:"loop_cond_taken"`
	LoopCondNotTaken uint64 `json:"loop_cond_not_taken"`

	// EADirect is the effective address time of a direct address.
	// Default: 6 clocks.
	EADirect uint64 `json:"ea_direct"`

	// EABaseOrIndex is the effective address time of a single base or
	// index register. Default: 5 clocks.
	EABaseOrIndex uint64 `json:"ea_base_or_index"`

	// EABaseIndexFast is the effective address time of bp + di and
	// bx + si. Default: 7 clocks.
	EABaseIndexFast uint64 `json:"ea_base_index_fast"`

	// EABaseIndexSlow is the effective address time of bp + si and
	// bx + di. Default: 8 clocks.
	EABaseIndexSlow uint64 `json:"ea_base_index_slow"`

	// EADisplacement is added when a displacement is present.
	// Default: 4 clocks.
	EADisplacement uint64 `json:"ea_displacement"`
}

// DefaultTimingConfig returns a TimingConfig with 8086 default values.
func DefaultTimingConfig() *TimingConfig {
	return &TimingConfig{
		MovRegReg:        2,
		MovRegMem:        8,
		MovMemReg:        9,
		MovRegImm:        4,
		MovMemImm:        10,
		MovAccMem:        10,
		MovSegReg:        2,
		MovSegMem:        8,
		MovMemSeg:        9,
		ArithRegReg:      3,
		ArithRegMem:      9,
		ArithMemReg:      16,
		ArithRegImm:      4,
		ArithMemImm:      17,
		CmpMemReg:        9,
		CmpMemImm:        10,
		JumpTaken:        16,
		JumpNotTaken:     4,
		LoopTaken:        17,
		LoopNotTaken:     5,
		LoopCondTaken:    18,
		LoopCondNotTaken: 6,
		EADirect:         6,
		EABaseOrIndex:    5,
		EABaseIndexFast:  7,
		EABaseIndexSlow:  8,
		EADisplacement:   4,
	}
}

// LoadConfig loads a TimingConfig from a JSON file. Fields missing from
// the file keep their default values.
func LoadConfig(path string) (*TimingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read timing config file: %w", err)
	}

	config := DefaultTimingConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse timing config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a TimingConfig to a JSON file.
func (c *TimingConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize timing config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write timing config file: %w", err)
	}

	return nil
}

// Validate checks that every instruction count is > 0 and that taken
// branches are no faster than fall-through.
func (c *TimingConfig) Validate() error {
	counts := []struct {
		name  string
		value uint64
	}{
		{"mov_reg_reg", c.MovRegReg},
		{"mov_reg_mem", c.MovRegMem},
		{"mov_mem_reg", c.MovMemReg},
		{"mov_reg_imm", c.MovRegImm},
		{"mov_mem_imm", c.MovMemImm},
		{"mov_acc_mem", c.MovAccMem},
		{"mov_seg_reg", c.MovSegReg},
		{"mov_seg_mem", c.MovSegMem},
		{"mov_mem_seg", c.MovMemSeg},
		{"arith_reg_reg", c.ArithRegReg},
		{"arith_reg_mem", c.ArithRegMem},
		{"arith_mem_reg", c.ArithMemReg},
		{"arith_reg_imm", c.ArithRegImm},
		{"arith_mem_imm", c.ArithMemImm},
		{"cmp_mem_reg", c.CmpMemReg},
		{"cmp_mem_imm", c.CmpMemImm},
		{"jump_not_taken", c.JumpNotTaken},
		{"loop_not_taken", c.LoopNotTaken},
		{"loop_cond_not_taken", c.LoopCondNotTaken},
	}
	for _, cnt := range counts {
		if cnt.value == 0 {
			return fmt.Errorf("%s must be > 0", cnt.name)
		}
	}

	if c.JumpTaken < c.JumpNotTaken {
		return fmt.Errorf("jump_taken must be >= jump_not_taken")
	}
	if c.LoopTaken < c.LoopNotTaken {
		return fmt.Errorf("loop_taken must be >= loop_not_taken")
	}
	if c.LoopCondTaken < c.LoopCondNotTaken {
		return fmt.Errorf("loop_cond_taken must be >= loop_cond_not_taken")
	}

	return nil
}

// Clone returns a copy of the TimingConfig.
func (c *TimingConfig) Clone() *TimingConfig {
	clone := *c
	return &clone
}
