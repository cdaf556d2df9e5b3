package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gregchapman-dev/humgraph/humdrum"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file...]",
		Short: "Parse and analyze files, reporting diagnostics",
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
				if doc.IsValid() {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", displayName(path))
					continue
				}
				failed++
				for _, diag := range doc.Diagnostics() {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", displayName(path), diag.Error())
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d file(s) had diagnostics", failed, len(args))
			}
			return nil
		},
	}
}
