// Package loader reads raw 8086 program images.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// MaxProgramSize is the largest program that fits below the top of the
// 16-bit instruction pointer range.
const MaxProgramSize = 1<<16 - 1

var (
	// ErrInputUnavailable is returned when the program file cannot be
	// opened or read.
	ErrInputUnavailable = errors.New("input unavailable")

	// ErrProgramTooLarge is returned for images over MaxProgramSize bytes.
	ErrProgramTooLarge = errors.New("program too large")
)

// Program represents a loaded program image ready for execution.
type Program struct {
	// Path is the file the image was read from, empty for in-memory images.
	Path string
	// Code holds the instruction bytes, with no header or metadata.
	Code []byte
}

// Len returns the image size in bytes.
func (p *Program) Len() int {
	return len(p.Code)
}

// Load reads a raw instruction image from a file.
func Load(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInputUnavailable, err)
	}
	defer func() { _ = f.Close() }()

	prog, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	prog.Path = path

	return prog, nil
}

// Read reads a raw instruction image from r.
func Read(r io.Reader) (*Program, error) {
	// Read one byte past the limit to detect oversized images.
	code, err := io.ReadAll(io.LimitReader(r, MaxProgramSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInputUnavailable, err)
	}

	if len(code) > MaxProgramSize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrProgramTooLarge, MaxProgramSize)
	}

	return &Program{Code: code}, nil
}
