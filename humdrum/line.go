package humdrum

import "strings"

// LineKind classifies a line by its leading character.
type LineKind uint8

const (
	LineEmpty          LineKind = iota
	LineGlobalComment           // !!...
	LineLocalComment            // ! per field
	LineInterpretation          // * per field
	LineBarline                 // = per field
	LineData                    // anything else on a spined line
)

// String returns the kind name.
func (k LineKind) String() string {
	switch k {
	case LineEmpty:
		return "empty"
	case LineGlobalComment:
		return "global-comment"
	case LineLocalComment:
		return "local-comment"
	case LineInterpretation:
		return "interpretation"
	case LineBarline:
		return "barline"
	case LineData:
		return "data"
	default:
		return "unknown"
	}
}

// Line is one record of a Humdrum document: the original text plus the
// tokens it was split into and the line-level timing fields computed by
// rhythm analysis. A line exclusively owns its tokens (by ID into the
// document arena).
type Line struct {
	index  int
	text   string
	kind   LineKind
	tokens []TokenID

	duration     Rational // time covered until the next spined line
	durFromStart Rational
	durFromBar   Rational // time since the last barline
	durToBar     Rational // time until the next barline

	params []*ParamSet // pending global layout (!!LO:) applying to this line
}

func newLine(index int, text string) *Line {
	return &Line{
		index:        index,
		text:         text,
		kind:         classifyLine(text),
		duration:     RationalUnset(),
		durFromStart: RationalUnset(),
		durFromBar:   RationalUnset(),
		durToBar:     RationalUnset(),
	}
}

// classifyLine determines a line's kind from its leading characters.
func classifyLine(text string) LineKind {
	switch {
	case text == "":
		return LineEmpty
	case strings.HasPrefix(text, "!!"):
		return LineGlobalComment
	case strings.HasPrefix(text, "!"):
		return LineLocalComment
	case strings.HasPrefix(text, "*"):
		return LineInterpretation
	case strings.HasPrefix(text, "="):
		return LineBarline
	default:
		return LineData
	}
}

// Index returns the line's position within the document.
func (l *Line) Index() int { return l.index }

// Text returns the original line text.
func (l *Line) Text() string { return l.text }

// Kind returns the line classification.
func (l *Line) Kind() LineKind { return l.kind }

// Tokens returns the IDs of the line's tokens in field order.
func (l *Line) Tokens() []TokenID { return l.tokens }

// FieldCount returns the number of tab-delimited fields.
func (l *Line) FieldCount() int { return len(l.tokens) }

// HasSpines reports whether the line participates in the spine graph.
// Global comments and empty lines do not.
func (l *Line) HasSpines() bool {
	return l.kind != LineEmpty && l.kind != LineGlobalComment
}

// IsData reports whether this is a data line.
func (l *Line) IsData() bool { return l.kind == LineData }

// IsBarline reports whether this is a barline line.
func (l *Line) IsBarline() bool { return l.kind == LineBarline }

// IsInterpretation reports whether this is an interpretation line.
func (l *Line) IsInterpretation() bool { return l.kind == LineInterpretation }

// IsComment reports whether this is a local or global comment line.
func (l *Line) IsComment() bool {
	return l.kind == LineLocalComment || l.kind == LineGlobalComment
}

// IsManipulator reports whether any token on the line changes spine
// topology.
func (l *Line) IsManipulator() bool {
	if l.kind != LineInterpretation {
		return false
	}
	for _, f := range strings.Split(l.text, "\t") {
		switch {
		case f == "*v", f == "*x", f == "*+", f == "*-":
			return true
		case strings.HasPrefix(f, "*^"):
			return true
		case strings.HasPrefix(f, "**"):
			return true
		}
	}
	return false
}

// Duration returns the time covered by this line: the gap to the next
// spined line's start. Unset before rhythm analysis.
func (l *Line) Duration() Rational { return l.duration }

// DurationFromStart returns the line's absolute start time in quarter
// notes from the beginning of the document. Unset before rhythm analysis.
func (l *Line) DurationFromStart() Rational { return l.durFromStart }

// DurationFromBarline returns the time elapsed since the most recent
// barline. Unset before rhythm analysis.
func (l *Line) DurationFromBarline() Rational { return l.durFromBar }

// DurationToBarline returns the time remaining until the next barline.
// Unset before rhythm analysis.
func (l *Line) DurationToBarline() Rational { return l.durToBar }

// Params returns global layout parameter sets (!!LO:) that apply to this
// line.
func (l *Line) Params() []*ParamSet { return l.params }

func (l *Line) String() string { return l.text }
