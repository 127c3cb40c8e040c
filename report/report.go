// Package report renders the simulator's trace and final machine state.
package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/term"

	"github.com/wolframtungsten678/8086-Decompiler/emu"
	"github.com/wolframtungsten678/8086-Decompiler/insts"
)

// Style selects how the final state is printed.
type Style int

const (
	// StylePlain prints one "name: value" line per entry.
	StylePlain Style = iota
	// StyleTable prints bordered tables.
	StyleTable
)

// IsTerminal reports whether w is a terminal. Writers that expose a file
// descriptor, such as *os.File, are checked; all others are not terminals.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// DetectStyle picks tables for terminals unless plain output is forced.
func DetectStyle(w io.Writer, plain bool) Style {
	if plain || !IsTerminal(w) {
		return StylePlain
	}
	return StyleTable
}

// WriteState prints the final registers and flags.
func WriteState(w io.Writer, regFile *emu.RegFile, style Style) error {
	if style == StyleTable {
		return writeTables(w, regFile)
	}
	return writePlain(w, regFile)
}

func writePlain(w io.Writer, regFile *emu.RegFile) error {
	if _, err := fmt.Fprintf(w, "\nFinal Registers:\n"); err != nil {
		return err
	}
	for i := 0; i < insts.NumSlots; i++ {
		s := insts.Slot(i)
		if _, err := fmt.Fprintf(w, "%s: %d\n", s, regFile.Signed(s)); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "\nFinal Flags:\n"); err != nil {
		return err
	}
	for _, label := range regFile.Flags.Labels() {
		if _, err := fmt.Fprintf(w, "%s: 1\n", label); err != nil {
			return err
		}
	}

	return nil
}

func writeTables(w io.Writer, regFile *emu.RegFile) error {
	regTable := table.NewWriter()
	regTable.SetTitle("Final Registers")
	regTable.SetStyle(table.StyleLight)
	regTable.AppendHeader(table.Row{"Register", "Value", "Hex"})
	for i := 0; i < insts.NumSlots; i++ {
		s := insts.Slot(i)
		regTable.AppendRow(table.Row{
			s.String(),
			regFile.Signed(s),
			fmt.Sprintf("0x%04X", regFile.ReadSlot(s)),
		})
	}

	flagTable := table.NewWriter()
	flagTable.SetTitle("Final Flags")
	flagTable.SetStyle(table.StyleLight)
	flagTable.AppendHeader(table.Row{"Flag", "Set"})
	for _, fl := range emu.FlagLabels {
		set := 0
		if regFile.Flags.Has(fl.Flag) {
			set = 1
		}
		flagTable.AppendRow(table.Row{fl.Label, set})
	}
	flagTable.AppendFooter(table.Row{"", regFile.Flags.String()})

	_, err := fmt.Fprintf(w, "\n%s\n\n%s\n", regTable.Render(), flagTable.Render())
	return err
}

// WriteClocks prints the estimated clock total of a run.
func WriteClocks(w io.Writer, instructions, clocks uint64) error {
	_, err := fmt.Fprintf(w, "\nEstimated clocks: %d over %d instructions\n", clocks, instructions)
	return err
}
