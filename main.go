// Package main provides the entry point for sim8086.
// sim8086 decodes, disassembles and executes a subset of 8086 machine code.
//
// For the full CLI, use: go run ./cmd/sim8086
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("sim8086 - 8086 subset decoder and simulator")
	fmt.Println("")
	fmt.Println("Usage: sim8086 [options] <program.bin>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -config    Path to run configuration JSON file")
	fmt.Println("  -effects   Print the register written by each instruction")
	fmt.Println("  -max       Stop after this many instructions")
	fmt.Println("  -plain     Print the final state as name: value lines")
	fmt.Println("  -clocks    Estimate 8086 clock counts")
	fmt.Println("  -v         Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/sim8086' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/sim8086' instead.")
	}
}
