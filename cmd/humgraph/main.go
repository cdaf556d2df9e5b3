// humgraph - Humdrum document analysis CLI
//
// Usage:
//
//	humgraph validate [file...]   Parse and analyze, reporting diagnostics
//	humgraph analyze [file]       Print a per-spine analysis summary
//	humgraph json [file]          Export the analyzed document as JSON
//	humgraph roundtrip [file]     Verify parse/re-emit byte fidelity
//
// Input files may be plain text, gzip (.gz), or zstandard (.zst)
// compressed; "-" or no argument reads from stdin.
package main

import (
	"fmt"
	"os"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
