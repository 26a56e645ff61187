// Package main provides a pointer to mips5sim's real entry point.
// mips5sim is a 5-stage in-order MIPS-32 pipeline simulator.
//
// For the full CLI, use: go run ./cmd/mips5sim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("mips5sim - MIPS-32 pipeline simulator")
	fmt.Println("")
	fmt.Println("Usage: mips5sim <program.bin>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -v    print per-cycle stall/flush trace to stderr")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/mips5sim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/mips5sim' instead.")
	}
}
