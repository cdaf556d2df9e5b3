// Package grid implements a time-sliced, part/staff/voice-indexed
// intermediate representation for building Humdrum documents from
// sources that know nothing about spine syntax. Producers fill measures
// with slices of events; the reconciliation engine then synthesizes the
// spine-manipulator lines needed to keep adjacent slices' voice counts
// consistent, and emission renders text that parses back into a valid
// document.
//
// The usual flow:
//
//	g := grid.New([]int{1})            // one part, one staff
//	m := g.AddMeasure()
//	s := m.AddSlice(grid.SliceData, ts, dur)
//	s.SetToken(0, 0, 0, "4c", quarter)
//	...
//	g.Reconcile()
//	doc, err := g.Document()
package grid

import "github.com/gregchapman-dev/humgraph/humdrum"

// SliceType tags what one slice holds. The order of the constants is
// the emission order of slices sharing a timestamp.
type SliceType uint8

const (
	SliceExclusive SliceType = iota
	SliceManipulator
	SliceClef
	SliceKeySig
	SliceTimeSig
	SliceTempo
	SliceLabel
	SliceLayout
	SliceLocalComment
	SliceGraceNote
	SliceData
	SliceGlobalComment
	SliceTerminator
)

// String returns the slice type name.
func (t SliceType) String() string {
	switch t {
	case SliceExclusive:
		return "exclusive"
	case SliceManipulator:
		return "manipulator"
	case SliceClef:
		return "clef"
	case SliceKeySig:
		return "keysig"
	case SliceTimeSig:
		return "timesig"
	case SliceTempo:
		return "tempo"
	case SliceLabel:
		return "label"
	case SliceLayout:
		return "layout"
	case SliceLocalComment:
		return "local-comment"
	case SliceGraceNote:
		return "grace"
	case SliceData:
		return "data"
	case SliceGlobalComment:
		return "global-comment"
	case SliceTerminator:
		return "terminator"
	default:
		return "unknown"
	}
}

// Spined reports whether slices of this type occupy one field per open
// sub-spine. Global comments are single-field lines.
func (t SliceType) Spined() bool { return t != SliceGlobalComment }

// filler returns the placeholder token text for an unset voice in a
// slice of this type.
func (t SliceType) filler() string {
	switch t {
	case SliceData, SliceGraceNote:
		return "."
	case SliceLayout, SliceLocalComment:
		return "!"
	default:
		return "*"
	}
}

// Voice is one event cell: the token text destined for one sub-spine,
// with its duration.
type Voice struct {
	Token    string
	Duration humdrum.Rational
}

// Staff is a parallel array of voices on one staff. A staff always
// occupies at least one sub-spine when emitted, even if no voice was
// assigned.
type Staff struct {
	Voices []*Voice
}

// VoiceCount returns the number of sub-spines the staff occupies.
func (s *Staff) VoiceCount() int {
	if len(s.Voices) == 0 {
		return 1
	}
	return len(s.Voices)
}

// Part is an ordered list of staves belonging to one instrument.
type Part struct {
	Staves []*Staff
}
