package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gregchapman-dev/humgraph/humdrum"
)

func newJSONCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "json [file]",
		Short: "Export the analyzed document as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			data, err := readInput(path)
			if err != nil {
				return err
			}
			doc, err := humdrum.ParseReader(bytes.NewReader(data))
			if err != nil {
				return fmt.Errorf("%s: %w", displayName(path), err)
			}
			out, err := doc.ExportJSON()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}
