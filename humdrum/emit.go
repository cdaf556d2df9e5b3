package humdrum

import (
	"encoding/json"
	"strings"
)

// LineText reassembles line i from its tokens, joining field texts with
// tabs. For an unmodified document this reproduces the source line
// byte-for-byte.
func (d *Document) LineText(i int) string {
	line := d.Line(i)
	if line == nil {
		return ""
	}
	if len(line.tokens) == 0 {
		return line.text
	}
	fields := make([]string, len(line.tokens))
	for j, id := range line.tokens {
		fields[j] = d.Token(id).text
	}
	return strings.Join(fields, "\t")
}

// Text reassembles the whole document, one line per record with a
// trailing newline.
func (d *Document) Text() string {
	var b strings.Builder
	for i := range d.lines {
		b.WriteString(d.LineText(i))
		b.WriteByte('\n')
	}
	return b.String()
}

// ============================================================
// JSON export
// ============================================================

type jsonToken struct {
	Text     string    `json:"text"`
	Track    int       `json:"track,omitempty"`
	Subtrack int       `json:"subtrack,omitempty"`
	Duration string    `json:"duration,omitempty"`
	Next     []TokenID `json:"next,omitempty"`
	Prev     []TokenID `json:"prev,omitempty"`
	Resolved TokenID   `json:"resolves,omitempty"`
}

type jsonLine struct {
	Kind     string      `json:"kind"`
	Text     string      `json:"text"`
	Start    string      `json:"start,omitempty"`
	Duration string      `json:"duration,omitempty"`
	FromBar  string      `json:"fromBarline,omitempty"`
	ToBar    string      `json:"toBarline,omitempty"`
	Tokens   []jsonToken `json:"tokens,omitempty"`
}

type jsonDocument struct {
	Valid       bool         `json:"valid"`
	SpineCount  int          `json:"spineCount"`
	Exclusives  []string     `json:"exclusives"`
	Duration    string       `json:"duration"`
	References  []RefRecord  `json:"references,omitempty"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
	Lines       []jsonLine   `json:"lines"`
}

// ExportJSON renders the analyzed document as JSON for external
// collaborators: lines with their timing, tokens with their links and
// durations, plus reference records and diagnostics. Structure and
// rhythm analysis must have run.
func (d *Document) ExportJSON() ([]byte, error) {
	if !d.has(phaseStructure | phaseRhythm) {
		return nil, ErrPhaseNotRun
	}

	out := jsonDocument{
		Valid:       d.valid,
		SpineCount:  len(d.spineStarts),
		Exclusives:  d.exclusives,
		Duration:    d.scoreDuration.String(),
		References:  d.refs,
		Diagnostics: d.diags,
	}

	for i, line := range d.lines {
		jl := jsonLine{
			Kind:     line.kind.String(),
			Text:     d.LineText(i),
			Start:    line.durFromStart.String(),
			Duration: line.duration.String(),
			FromBar:  line.durFromBar.String(),
			ToBar:    line.durToBar.String(),
		}
		for _, id := range line.tokens {
			tok := d.Token(id)
			jt := jsonToken{
				Text:     tok.text,
				Track:    tok.track,
				Subtrack: tok.subtrack,
				Next:     tok.next,
				Prev:     tok.prev,
				Resolved: tok.NullResolution(),
			}
			if !tok.duration.IsUnset() {
				jt.Duration = tok.duration.String()
			}
			jl.Tokens = append(jl.Tokens, jt)
		}
		out.Lines = append(out.Lines, jl)
	}

	return json.MarshalIndent(out, "", "  ")
}
