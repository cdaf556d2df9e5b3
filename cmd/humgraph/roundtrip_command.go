package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gregchapman-dev/humgraph/humdrum"
)

func newRoundtripCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "roundtrip [file...]",
		Short: "Verify that parsing and re-emitting preserves every byte",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"-"}
			}
			failed := 0
			for _, path := range args {
				data, err := readInput(path)
				if err != nil {
					return err
				}
				doc, err := humdrum.ParseReader(bytes.NewReader(data))
				if err != nil {
					return fmt.Errorf("%s: %w", displayName(path), err)
				}
				want := normalizeInput(string(data))
				got := doc.Text()
				if got == want {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", displayName(path))
					continue
				}
				failed++
				fmt.Fprintf(cmd.OutOrStdout(), "%s: MISMATCH at line %d\n",
					displayName(path), firstMismatchLine(want, got))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d file(s) did not round-trip", failed, len(args))
			}
			return nil
		},
	}
}

// normalizeInput maps the input onto the emitter's canonical form:
// CRLF line endings become LF and a missing final newline is added.
func normalizeInput(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return text
}

func firstMismatchLine(want, got string) int {
	wantLines := strings.Split(want, "\n")
	gotLines := strings.Split(got, "\n")
	n := len(wantLines)
	if len(gotLines) < n {
		n = len(gotLines)
	}
	for i := 0; i < n; i++ {
		if wantLines[i] != gotLines[i] {
			return i + 1
		}
	}
	return n + 1
}
