package insts

import "fmt"

// Disassemble renders an instruction as "<mnemonic> <dest>, <source>".
// Conditional jumps have no destination and render as "je, -2".
func Disassemble(inst Instruction) string {
	if inst == nil {
		return ""
	}

	op := inst.Info().Op
	dst, src := Operands(inst)
	if dst == nil {
		return fmt.Sprintf("%s, %s", op, src)
	}

	return fmt.Sprintf("%s %s, %s", op, dst, src)
}
