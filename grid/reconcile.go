package grid

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gregchapman-dev/humgraph/humdrum"
)

// Reconcile inserts the spine-manipulator slices needed so that every
// adjacent pair of spined slices agrees on the number of sub-spines per
// staff. Expansion is expressed as repeated split lines (one line can
// at most double a staff's count), with the *^N shorthand reserved for
// growing a single sub-spine; contraction is a *v run at the trailing
// edge of the staff's own sub-spines. A second pass splits manipulator
// lines whose merge runs would touch across a staff boundary. A voice
// count mismatch surviving both passes indicates the grid was populated
// inconsistently and panics.
func (g *Grid) Reconcile() {
	g.insertManipulators()
	g.splitCrossStaffMerges()
	g.verify()
}

// insertManipulators walks adjacent spined slices, inserting one
// manipulator slice at a time until no pair disagrees. Each inserted
// slice becomes the left neighbor of the next comparison, so a large
// expansion converges by repeated doubling.
func (g *Grid) insertManipulators() {
	header := g.headerSlice()
	for {
		changed := false
		prev := header
		for _, measure := range g.Measures {
			for si := 0; si < len(measure.Slices); si++ {
				s := measure.Slices[si]
				if !s.Type.Spined() {
					continue
				}
				if prev != nil {
					if man := g.buildManipulator(prev, s); man != nil {
						// Insert immediately before s, in s's measure.
						measure.Slices = append(measure.Slices, nil)
						copy(measure.Slices[si+1:], measure.Slices[si:])
						measure.Slices[si] = man
						changed = true
						s = man
					}
				}
				prev = s
			}
		}
		if !changed {
			return
		}
	}
}

// headerSlice models the exclusive interpretation line: exactly one
// open sub-spine per staff before any slice is emitted.
func (g *Grid) headerSlice() *Slice {
	s := newSlice(SliceExclusive, humdrum.RationalZero(), humdrum.RationalZero(), g.staffCounts)
	flat := 0
	s.eachStaff(func(part, staff int, _ *Staff) {
		s.SetToken(part, staff, 0, g.exclusives[flat], humdrum.RationalZero())
		flat++
	})
	return s
}

// buildManipulator compares the sub-spine counts prev leaves open with
// the counts next consumes and synthesizes the manipulator slice needed
// between them, or nil when every staff already agrees. Staves with no
// local change receive explicit no-op markers so the line's field count
// matches its neighbors.
func (g *Grid) buildManipulator(prev, next *Slice) *Slice {
	needed := false
	man := newSlice(SliceManipulator, next.Timestamp, humdrum.RationalZero(), g.staffCounts)

	next.eachStaff(func(part, staff int, _ *Staff) {
		v1 := prev.outputCount(part, staff)
		v2 := next.inputCount(part, staff)
		tokens := manipulatorTokens(v1, v2)
		if tokens == nil {
			return
		}
		needed = true
		for i, text := range tokens {
			man.SetToken(part, staff, i, text, humdrum.RationalZero())
		}
	})

	if !needed {
		return nil
	}
	// Staves that were skipped keep one implicit "*" voice; widen them
	// to the count prev leaves open so the field counts line up.
	man.eachStaff(func(part, staff int, st *Staff) {
		if len(st.Voices) > 0 {
			return
		}
		v1 := prev.outputCount(part, staff)
		for i := 0; i < v1; i++ {
			man.SetToken(part, staff, i, "*", humdrum.RationalZero())
		}
	})
	return man
}

// manipulatorTokens decides the manipulator tokens for one staff moving
// from v1 open sub-spines to v2. Nil means no change is needed on this
// line (either v1 == v2, or a doubling line that a later iteration will
// finish is emitted instead).
func manipulatorTokens(v1, v2 int) []string {
	switch {
	case v1 == v2:
		return nil

	case v1 <= 0:
		// Nothing open to split; left for verify to report.
		return nil

	case v1 < v2:
		if v1 == 1 && v2 > 2 {
			// Split-by-N shorthand: one sub-spine grows to v2 directly.
			return []string{"*^" + strconv.Itoa(v2)}
		}
		if v2 > 2*v1 {
			// Too far for one line: double everything and let the next
			// iteration carry on.
			tokens := make([]string, v1)
			for i := range tokens {
				tokens[i] = "*^"
			}
			return tokens
		}
		tokens := make([]string, v1)
		for i := 0; i < v2-v1; i++ {
			tokens[i] = "*^"
		}
		for i := v2 - v1; i < v1; i++ {
			tokens[i] = "*"
		}
		return tokens

	default: // v1 > v2: merge the excess into the trailing sub-spine
		tokens := make([]string, v1)
		for i := 0; i < v2-1; i++ {
			tokens[i] = "*"
		}
		for i := v2 - 1; i < v1; i++ {
			tokens[i] = "*v"
		}
		return tokens
	}
}

// splitCrossStaffMerges breaks apart manipulator slices in which a merge
// run at the trailing edge of one staff would sit directly against a
// merge run opening the next staff: the two runs would read as a single
// merge spanning the staff boundary, which is invalid. The conflicting
// staff's manipulators move to a fresh slice directly after, and both
// slices are padded with no-ops to keep their field counts aligned.
func (g *Grid) splitCrossStaffMerges() {
	for _, measure := range g.Measures {
		for si := 0; si < len(measure.Slices); si++ {
			s := measure.Slices[si]
			if s.Type != SliceManipulator {
				continue
			}
			boundary, ok := g.findMergeBoundary(s)
			if !ok {
				continue
			}
			second := g.deferStavesAfter(s, boundary)
			measure.Slices = append(measure.Slices, nil)
			copy(measure.Slices[si+2:], measure.Slices[si+1:])
			measure.Slices[si+1] = second
			// The new slice is examined on the next loop iteration in
			// case further boundaries remain.
		}
	}
}

// findMergeBoundary returns the flattened staff index b such that staff
// b ends with a merge run and staff b+1 begins with one.
func (g *Grid) findMergeBoundary(s *Slice) (int, bool) {
	type edge struct{ first, last bool }
	var edges []edge
	s.eachStaff(func(_, _ int, st *Staff) {
		e := edge{}
		if n := len(st.Voices); n > 0 {
			e.first = voiceText(st.Voices[0], "*") == "*v"
			e.last = voiceText(st.Voices[n-1], "*") == "*v"
		}
		edges = append(edges, e)
	})
	for i := 0; i+1 < len(edges); i++ {
		if edges[i].last && edges[i+1].first {
			return i, true
		}
	}
	return 0, false
}

// deferStavesAfter moves the manipulators of every staff after boundary
// into a new slice, replacing them in s with no-ops and padding the new
// slice with no-ops for the staves that acted in s (at their post-merge
// counts).
func (g *Grid) deferStavesAfter(s *Slice, boundary int) *Slice {
	second := newSlice(SliceManipulator, s.Timestamp, humdrum.RationalZero(), g.staffCounts)
	flat := 0
	s.eachStaff(func(part, staff int, st *Staff) {
		if flat <= boundary {
			// Acted in the first slice: the second slice sees its
			// post-manipulation count.
			n := s.outputCount(part, staff)
			for i := 0; i < n; i++ {
				second.SetToken(part, staff, i, "*", humdrum.RationalZero())
			}
		} else {
			// Deferred: move the tokens, leave no-ops behind.
			for i, v := range st.Voices {
				second.SetToken(part, staff, i, voiceText(v, "*"), humdrum.RationalZero())
				st.Voices[i] = &Voice{Token: "*"}
			}
		}
		flat++
	})
	return second
}

// verify checks that every adjacent pair of spined slices now agrees on
// all voice counts. A surviving mismatch is an internal invariant
// violation, meaning the grid producer populated inconsistent voice
// counts, and aborts rather than attempting recovery.
func (g *Grid) verify() {
	var prev *Slice
	for _, measure := range g.Measures {
		for _, s := range measure.Slices {
			if !s.Type.Spined() {
				continue
			}
			if prev != nil {
				var bad []string
				s.eachStaff(func(part, staff int, _ *Staff) {
					v1 := prev.outputCount(part, staff)
					v2 := s.inputCount(part, staff)
					if v1 != v2 {
						bad = append(bad, fmt.Sprintf("part %d staff %d: %d != %d", part, staff, v1, v2))
					}
				})
				if len(bad) > 0 {
					panic("grid: unreconciled voice counts: " + strings.Join(bad, "; "))
				}
			}
			prev = s
		}
	}
}
