package grid

import (
	"strconv"

	"github.com/gregchapman-dev/humgraph/humdrum"
)

// Measure owns an ordered list of slices plus barline metadata. The
// barline is emitted before the measure's slices (except for the very
// first measure of the grid).
type Measure struct {
	grid      *Grid
	Timestamp humdrum.Rational
	Duration  humdrum.Rational
	Number    int    // bar number; <= 0 means unnumbered
	Style     string // barline style suffix, e.g. "", "||", ":|!"
	Slices    []*Slice
}

// AddSlice appends a slice of the given type at a timestamp, shaped to
// the grid's parts and staves.
func (m *Measure) AddSlice(typ SliceType, ts, dur humdrum.Rational) *Slice {
	s := newSlice(typ, ts, dur, m.grid.staffCounts)
	m.Slices = append(m.Slices, s)
	return s
}

// AddGlobalComment appends a single-field global comment line.
func (m *Measure) AddGlobalComment(text string, ts humdrum.Rational) *Slice {
	s := newSlice(SliceGlobalComment, ts, humdrum.RationalZero(), nil)
	s.Text = text
	m.Slices = append(m.Slices, s)
	return s
}

// barlineToken renders the measure's barline token text.
func (m *Measure) barlineToken() string {
	text := "="
	if m.Number > 0 {
		text += strconv.Itoa(m.Number)
	}
	return text + m.Style
}

// Grid accumulates measures for one score. The shape (how many parts,
// and how many staves each part has) is fixed at creation; voice counts
// vary freely per slice and are reconciled before emission.
type Grid struct {
	staffCounts []int    // staves per part
	exclusives  []string // exclusive interpretation per staff, flattened
	Measures    []*Measure

	// FinalBarline is the token emitted as the closing barline; empty
	// suppresses it.
	FinalBarline string
}

// New creates a grid with the given number of staves per part. Every
// staff defaults to **kern.
func New(staffCounts []int) *Grid {
	g := &Grid{staffCounts: staffCounts, FinalBarline: "=="}
	for _, n := range staffCounts {
		for i := 0; i < n; i++ {
			g.exclusives = append(g.exclusives, "**kern")
		}
	}
	return g
}

// SetExclusive overrides the exclusive interpretation of one staff
// (flattened staff index, parts left to right).
func (g *Grid) SetExclusive(staff int, exclusive string) {
	if staff >= 0 && staff < len(g.exclusives) {
		g.exclusives[staff] = exclusive
	}
}

// PartCount returns the number of parts.
func (g *Grid) PartCount() int { return len(g.staffCounts) }

// StaffCount returns the total staff count across parts.
func (g *Grid) StaffCount() int { return len(g.exclusives) }

// AddMeasure appends an empty measure.
func (g *Grid) AddMeasure() *Measure {
	m := &Measure{grid: g, Number: len(g.Measures) + 1}
	g.Measures = append(g.Measures, m)
	return m
}

// spinedSlices returns every spined slice of the grid in time order.
func (g *Grid) spinedSlices() []*Slice {
	var out []*Slice
	for _, m := range g.Measures {
		for _, s := range m.Slices {
			if s.Type.Spined() {
				out = append(out, s)
			}
		}
	}
	return out
}
