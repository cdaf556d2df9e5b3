package humdrum

import (
	"fmt"
	"io"
	"strings"
)

// phase identifies one analysis pass of the pipeline.
type phase uint8

const (
	phaseParse phase = 1 << iota
	phaseStructure
	phaseRhythm
	phaseContent
)

// Document is an in-memory Humdrum file: an ordered sequence of lines,
// an arena of tokens addressed by TokenID, and the structural, rhythmic,
// and content analysis layered over them.
//
// Analysis is an explicit pipeline: Parse, AnalyzeStructure,
// AnalyzeRhythm, AnalyzeContent, in that order. Convenience constructors
// ParseString and ParseReader run every phase. Phase-dependent queries
// return ErrPhaseNotRun when invoked early; they never trigger analysis
// implicitly.
type Document struct {
	lines  []*Line
	tokens []*Token

	spineStarts []TokenID   // exclusive interpretation tokens, track order
	spineEnds   [][]TokenID // per track: terminator tokens of live sub-spines
	exclusives  []string    // exclusive interpretation text per track

	strands     []Strand
	strandIndex [][]int // per track: indices into strands

	refs       []RefRecord
	signifiers *Signifiers

	scoreDuration Rational

	diags []Diagnostic
	valid bool
	done  phase

	rhythmPass int // generation counter for diamond-DAG traversal
}

// RefRecord is one reference record (!!!KEY: value).
type RefRecord struct {
	Key   string
	Value string
	Line  int
}

// NewDocument creates an empty document ready for Parse.
func NewDocument() *Document {
	return &Document{
		valid:      true,
		signifiers: newSignifiers(),
	}
}

// ParseString parses text and runs every analysis phase.
func ParseString(text string) (*Document, error) {
	return ParseReader(strings.NewReader(text))
}

// ParseReader parses from r and runs every analysis phase.
func ParseReader(r io.Reader) (*Document, error) {
	d := NewDocument()
	if err := d.Parse(r); err != nil {
		return nil, err
	}
	if err := d.AnalyzeStructure(); err != nil {
		return nil, err
	}
	if err := d.AnalyzeRhythm(); err != nil {
		return nil, err
	}
	if err := d.AnalyzeContent(); err != nil {
		return nil, err
	}
	return d, nil
}

// has reports whether all phases in p have completed.
func (d *Document) has(p phase) bool { return d.done&p == p }

// IsValid reports whether every completed analysis phase ran without
// collecting diagnostics. Callers should check validity before trusting
// derived timing or structure queries.
func (d *Document) IsValid() bool { return d.valid }

// Diagnostics returns the collected problems in discovery order.
func (d *Document) Diagnostics() []Diagnostic { return d.diags }

func (d *Document) addDiag(code DiagCode, line int, text, format string, args ...interface{}) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	d.diags = append(d.diags, Diagnostic{Code: code, Line: line, Text: text, Message: msg})
	d.valid = false
}

// LineCount returns the number of lines.
func (d *Document) LineCount() int { return len(d.lines) }

// Line returns the i-th line, or nil if out of range.
func (d *Document) Line(i int) *Line {
	if i < 0 || i >= len(d.lines) {
		return nil
	}
	return d.lines[i]
}

// Lines returns all lines in order.
func (d *Document) Lines() []*Line { return d.lines }

// TokenCount returns the size of the token arena.
func (d *Document) TokenCount() int { return len(d.tokens) }

// Token returns the token with the given ID, or nil for NoToken and
// out-of-range IDs.
func (d *Document) Token(id TokenID) *Token {
	if id < 0 || int(id) >= len(d.tokens) {
		return nil
	}
	return d.tokens[int(id)]
}

// TokenAt returns the token at (line, field), or nil.
func (d *Document) TokenAt(line, field int) *Token {
	l := d.Line(line)
	if l == nil || field < 0 || field >= len(l.tokens) {
		return nil
	}
	return d.Token(l.tokens[field])
}

// ============================================================
// Phase-gated structure queries
// ============================================================

// SpineCount returns the number of spines (tracks) in the document.
func (d *Document) SpineCount() (int, error) {
	if !d.has(phaseStructure) {
		return 0, ErrPhaseNotRun
	}
	return len(d.spineStarts), nil
}

// SpineStart returns the exclusive interpretation token opening the given
// track (1-based).
func (d *Document) SpineStart(track int) (*Token, error) {
	if !d.has(phaseStructure) {
		return nil, ErrPhaseNotRun
	}
	if track < 1 || track > len(d.spineStarts) {
		return nil, fmt.Errorf("humdrum: no track %d", track)
	}
	return d.Token(d.spineStarts[track-1]), nil
}

// SpineEnds returns the terminator tokens of the given track (1-based):
// one per sub-spine live at termination.
func (d *Document) SpineEnds(track int) ([]TokenID, error) {
	if !d.has(phaseStructure) {
		return nil, ErrPhaseNotRun
	}
	if track < 1 || track > len(d.spineEnds) {
		return nil, fmt.Errorf("humdrum: no track %d", track)
	}
	return d.spineEnds[track-1], nil
}

// Exclusive returns the exclusive interpretation text (e.g. "**kern")
// of the given track (1-based).
func (d *Document) Exclusive(track int) (string, error) {
	if !d.has(phaseStructure) {
		return "", ErrPhaseNotRun
	}
	if track < 1 || track > len(d.exclusives) {
		return "", fmt.Errorf("humdrum: no track %d", track)
	}
	return d.exclusives[track-1], nil
}

// Strands returns the flat strand list, spine-major then strand-major
// within each spine.
func (d *Document) Strands() ([]Strand, error) {
	if !d.has(phaseStructure) {
		return nil, ErrPhaseNotRun
	}
	return d.strands, nil
}

// TrackStrands returns the strands of one track (1-based).
func (d *Document) TrackStrands(track int) ([]Strand, error) {
	if !d.has(phaseStructure) {
		return nil, ErrPhaseNotRun
	}
	if track < 1 || track > len(d.strandIndex) {
		return nil, fmt.Errorf("humdrum: no track %d", track)
	}
	out := make([]Strand, 0, len(d.strandIndex[track-1]))
	for _, i := range d.strandIndex[track-1] {
		out = append(out, d.strands[i])
	}
	return out, nil
}

// TotalDuration returns the score duration in quarter notes.
func (d *Document) TotalDuration() (Rational, error) {
	if !d.has(phaseRhythm) {
		return Rational{}, ErrPhaseNotRun
	}
	return d.scoreDuration, nil
}

// ============================================================
// Metadata
// ============================================================

// ReferenceRecords returns the !!!KEY: value records in source order.
func (d *Document) ReferenceRecords() []RefRecord { return d.refs }

// Reference returns the value of the first reference record with the
// given key. The second result is false if absent.
func (d *Document) Reference(key string) (string, bool) {
	for _, r := range d.refs {
		if r.Key == key {
			return r.Value, true
		}
	}
	return "", false
}

// Signifiers returns the RDF signifier registry.
func (d *Document) Signifiers() *Signifiers { return d.signifiers }
