package grid

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gregchapman-dev/humgraph/humdrum"
)

// Slice is one moment of the grid: a timestamp, a duration to the next
// slice, a type tag, and one cell per part/staff/voice. Non-spined
// slices (global comments) carry their whole line in Text.
type Slice struct {
	Type      SliceType
	Timestamp humdrum.Rational
	Duration  humdrum.Rational
	Parts     []*Part
	Text      string // full line text for non-spined slices
}

// newSlice creates a slice shaped like the grid: every part and staff
// present, voices empty.
func newSlice(typ SliceType, ts, dur humdrum.Rational, staffCounts []int) *Slice {
	s := &Slice{Type: typ, Timestamp: ts, Duration: dur}
	if !typ.Spined() {
		return s
	}
	for _, staves := range staffCounts {
		p := &Part{}
		for i := 0; i < staves; i++ {
			p.Staves = append(p.Staves, &Staff{})
		}
		s.Parts = append(s.Parts, p)
	}
	return s
}

// Staff returns the staff at (part, staff), or nil if out of range.
func (s *Slice) Staff(part, staff int) *Staff {
	if part < 0 || part >= len(s.Parts) {
		return nil
	}
	p := s.Parts[part]
	if staff < 0 || staff >= len(p.Staves) {
		return nil
	}
	return p.Staves[staff]
}

// SetToken places token text with its duration into (part, staff,
// voice), growing the staff's voice array as needed. It panics on an
// out-of-range part or staff: the grid's shape is fixed at creation.
func (s *Slice) SetToken(part, staff, voice int, token string, dur humdrum.Rational) {
	st := s.Staff(part, staff)
	if st == nil {
		panic(fmt.Sprintf("grid: no staff %d in part %d", staff, part))
	}
	for len(st.Voices) <= voice {
		st.Voices = append(st.Voices, nil)
	}
	st.Voices[voice] = &Voice{Token: token, Duration: dur}
}

// eachStaff visits staves in emission order: parts left to right, staves
// left to right within each part.
func (s *Slice) eachStaff(fn func(part, staff int, st *Staff)) {
	for pi, p := range s.Parts {
		for si, st := range p.Staves {
			fn(pi, si, st)
		}
	}
}

// inputCount returns the number of sub-spines the staff consumes when
// this slice's line is emitted.
func (s *Slice) inputCount(part, staff int) int {
	st := s.Staff(part, staff)
	if st == nil {
		return 0
	}
	return st.VoiceCount()
}

// outputCount returns the number of sub-spines the staff leaves open for
// the following line. Only manipulator slices change the count.
func (s *Slice) outputCount(part, staff int) int {
	st := s.Staff(part, staff)
	if st == nil {
		return 0
	}
	if s.Type != SliceManipulator {
		return st.VoiceCount()
	}
	n := 0
	i := 0
	for i < len(st.Voices) {
		text := voiceText(st.Voices[i], "*")
		switch {
		case text == "*^":
			n += 2
		case strings.HasPrefix(text, "*^"):
			k, err := strconv.Atoi(text[2:])
			if err != nil || k < 2 {
				n++
				break
			}
			n += k
		case text == "*v":
			// A consecutive run of merges collapses into one sub-spine.
			for i+1 < len(st.Voices) && voiceText(st.Voices[i+1], "*") == "*v" {
				i++
			}
			n++
		case text == "*-":
			// closes the sub-spine
		default:
			n++
		}
		i++
	}
	return n
}

// fieldTexts renders the slice's cells in emission order, substituting
// the type's filler for unset voices.
func (s *Slice) fieldTexts() []string {
	var out []string
	s.eachStaff(func(_, _ int, st *Staff) {
		n := st.VoiceCount()
		for i := 0; i < n; i++ {
			var v *Voice
			if i < len(st.Voices) {
				v = st.Voices[i]
			}
			out = append(out, voiceText(v, s.Type.filler()))
		}
	})
	return out
}

func voiceText(v *Voice, filler string) string {
	if v == nil || v.Token == "" {
		return filler
	}
	return v.Token
}
