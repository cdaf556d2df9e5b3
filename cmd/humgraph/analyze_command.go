package main

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gregchapman-dev/humgraph/humdrum"
)

func newAnalyzeCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [file]",
		Short: "Print a per-spine analysis summary",
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
			return printAnalysis(cmd, cfg, doc, displayName(path))
		},
	}
}

type spineSummary struct {
	exclusive string
	strands   int
	notes     int
	rests     int
	nulls     int
}

func printAnalysis(cmd *cobra.Command, cfg *Config, doc *humdrum.Document, name string) error {
	spines, err := doc.SpineCount()
	if err != nil {
		return err
	}
	total, err := doc.TotalDuration()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d line(s), %d spine(s), total duration %s quarter note(s)\n",
		name, doc.LineCount(), spines, total)
	if title, ok := doc.Reference("OTL"); ok {
		fmt.Fprintf(out, "title: %s\n", title)
	}
	if composer, ok := doc.Reference("COM"); ok {
		fmt.Fprintf(out, "composer: %s\n", composer)
	}

	summaries := make([]spineSummary, spines+1)
	for track := 1; track <= spines; track++ {
		exclusive, err := doc.Exclusive(track)
		if err != nil {
			return err
		}
		strands, err := doc.TrackStrands(track)
		if err != nil {
			return err
		}
		summaries[track].exclusive = exclusive
		summaries[track].strands = len(strands)
	}
	for id := 0; id < doc.TokenCount(); id++ {
		tok := doc.Token(humdrum.TokenID(id))
		track := tok.Track()
		if track < 1 || track > spines || !tok.IsData() {
			continue
		}
		switch {
		case tok.IsNull():
			summaries[track].nulls++
		case tok.IsRest():
			summaries[track].rests++
		case tok.IsNote():
			summaries[track].notes++
		}
	}

	rows := make([][]string, 0, spines)
	for track := 1; track <= spines; track++ {
		s := summaries[track]
		rows = append(rows, []string{
			strconv.Itoa(track),
			s.exclusive,
			strconv.Itoa(s.strands),
			strconv.Itoa(s.notes),
			strconv.Itoa(s.rests),
			strconv.Itoa(s.nulls),
		})
	}
	headers := []string{"Spine", "Exclusive", "Strands", "Notes", "Rests", "Nulls"}
	aligns := []columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight, alignRight}
	fmt.Fprintln(out, renderTable(cfg, headers, rows, aligns))

	if !doc.IsValid() {
		colorize := shouldColorize(cfg, out)
		for _, diag := range doc.Diagnostics() {
			line := "diagnostic: " + diag.Error()
			if colorize {
				line = ansiRed + line + ansiReset
			}
			fmt.Fprintln(out, line)
		}
	}
	return nil
}
