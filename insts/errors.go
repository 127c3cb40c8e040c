package insts

import (
	"errors"
	"fmt"
)

// Decode failures. All of them are fatal for a run.
var (
	// ErrUnmappedOpcode is returned when no classifier rule matches the
	// first byte (or no rule resolves a mnemonic for it).
	ErrUnmappedOpcode = errors.New("unmapped opcode")

	// ErrAddressing is returned for a mode/addressing combination the
	// length table or the operand resolver does not know.
	ErrAddressing = errors.New("invalid addressing combination")

	// ErrTruncated is returned when an instruction runs past the end of the
	// code buffer.
	ErrTruncated = errors.New("instruction truncated")
)

// DecodeError records where decoding failed.
type DecodeError struct {
	Offset int
	Opcode byte
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode at offset %d (opcode 0x%02X): %v", e.Offset, e.Opcode, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
