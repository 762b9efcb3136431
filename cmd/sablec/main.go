// Command sablec is a thin driver over the compiler core: sync, check,
// lower, and sdk query. Lexing/parsing, watch mode, and native emission
// stay external collaborators (spec.md 1) — every subcommand here reads
// and writes the binary AST file format (internal/codec).
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
