package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// TraceWriter prints the disassembly trace. It implements emu.Tracer.
type TraceWriter struct {
	w        io.Writer
	effects  bool
	mnemonic *color.Color
	effect   *color.Color
	err      error
}

// TraceOption is a functional option for configuring the TraceWriter.
type TraceOption func(*TraceWriter)

// WithEffects also prints the "<reg> new value is: <n>" lines.
func WithEffects(on bool) TraceOption {
	return func(t *TraceWriter) {
		t.effects = on
	}
}

// WithColor turns colored mnemonics on or off.
func WithColor(on bool) TraceOption {
	return func(t *TraceWriter) {
		if on {
			t.mnemonic.EnableColor()
			t.effect.EnableColor()
		} else {
			t.mnemonic.DisableColor()
			t.effect.DisableColor()
		}
	}
}

// NewTraceWriter creates a TraceWriter printing to w. Color is off unless
// WithColor enables it.
func NewTraceWriter(w io.Writer, opts ...TraceOption) *TraceWriter {
	t := &TraceWriter{
		w:        w,
		mnemonic: color.New(color.FgCyan, color.Bold),
		effect:   color.New(color.FgHiBlack),
	}
	t.mnemonic.DisableColor()
	t.effect.DisableColor()

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// TraceInstruction prints one disassembled instruction.
func (t *TraceWriter) TraceInstruction(_ uint16, text string) {
	mnemonic, rest, found := strings.Cut(text, " ")
	if !found {
		t.printf("%s\n", t.mnemonic.Sprint(text))
		return
	}

	// Jumps render as "je, -2": keep the comma next to the mnemonic.
	if strings.HasSuffix(mnemonic, ",") {
		t.printf("%s, %s\n", t.mnemonic.Sprint(strings.TrimSuffix(mnemonic, ",")), rest)
		return
	}

	t.printf("%s %s\n", t.mnemonic.Sprint(mnemonic), rest)
}

// TraceEffect prints the register written by an instruction when effects
// are enabled.
func (t *TraceWriter) TraceEffect(_ uint16, effect string) {
	if !t.effects {
		return
	}
	t.printf("%s\n", t.effect.Sprint(effect))
}

// Err returns the first write error, if any.
func (t *TraceWriter) Err() error {
	return t.err
}

func (t *TraceWriter) printf(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}
