package grid

import (
	"strings"

	"github.com/gregchapman-dev/humgraph/humdrum"
)

// Lines renders the reconciled grid as Humdrum text lines: the exclusive
// interpretation header, each measure's barline and slices, the closing
// barline, and the spine terminators. Reconcile must have been called
// first; Lines assumes adjacent slices agree on voice counts.
func (g *Grid) Lines() []string {
	var lines []string

	// Header: one field per staff.
	lines = append(lines, strings.Join(g.exclusives, "\t"))

	// Open sub-spines per flattened staff, updated as slices pass.
	counts := make([]int, g.StaffCount())
	for i := range counts {
		counts[i] = 1
	}
	total := func() int {
		n := 0
		for _, c := range counts {
			n += c
		}
		return n
	}

	for mi, measure := range g.Measures {
		if mi > 0 {
			lines = append(lines, repeatedLine(measure.barlineToken(), total()))
		}
		for _, s := range measure.Slices {
			if !s.Type.Spined() {
				lines = append(lines, s.Text)
				continue
			}
			lines = append(lines, strings.Join(s.fieldTexts(), "\t"))
			flat := 0
			s.eachStaff(func(part, staff int, _ *Staff) {
				counts[flat] = s.outputCount(part, staff)
				flat++
			})
		}
	}

	if g.FinalBarline != "" {
		lines = append(lines, repeatedLine(g.FinalBarline, total()))
	}
	lines = append(lines, repeatedLine("*-", total()))
	return lines
}

// Text renders the grid as a complete Humdrum document string.
func (g *Grid) Text() string {
	return strings.Join(g.Lines(), "\n") + "\n"
}

// Document reconciles nothing further: it parses the emitted text
// through the full analysis pipeline, returning the resulting document.
// The output of a reconciled grid always parses structurally.
func (g *Grid) Document() (*humdrum.Document, error) {
	return humdrum.ParseString(g.Text())
}

func repeatedLine(token string, n int) string {
	fields := make([]string, n)
	for i := range fields {
		fields[i] = token
	}
	return strings.Join(fields, "\t")
}
