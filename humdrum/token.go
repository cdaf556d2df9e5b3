package humdrum

import (
	"strconv"
	"strings"
)

// TokenID is a stable index into a Document's token arena. Token links
// (next/previous, null resolution, pairings) are stored as IDs rather
// than pointers so the graph has no ownership cycles.
type TokenID int

// NoToken is the null TokenID.
const NoToken TokenID = -1

// Token is one tab-delimited field of a Humdrum line. Tokens are created
// during parsing; link fields are populated by AnalyzeStructure and
// timing fields by AnalyzeRhythm. A token is owned by its document and
// never shared across documents.
type Token struct {
	id       TokenID
	text     string
	lineIdx  int
	fieldIdx int
	kind     LineKind

	track    int
	subtrack int

	duration Rational // local duration; unset until rhythm analysis

	next        []TokenID // 2 entries only immediately after a split
	prev        []TokenID // >1 entry only immediately after a merge
	nextNonNull []TokenID // nearest following non-null data tokens
	prevNonNull []TokenID // nearest preceding non-null data tokens
	nullRes     TokenID   // nearest preceding non-null data token, for null tokens

	params []*ParamSet

	// Content-analysis results.
	slurs   []Pairing
	phrases []Pairing
	ties    []Pairing
	accVis  []bool // accidental visibility per chord subtoken
	stem    int    // stem hint: -1 down, 0 none, +1 up

	rhythmGen int // generation guard for diamond-DAG traversal
}

// Pairing records one slur, phrase, or tie boundary marker on a token:
// either matched with its counterpart or hanging (unmatched).
type Pairing struct {
	Opens   bool     // true for a start marker, false for an end marker
	Level   int      // elision level (count of & escapes before the marker)
	Partner TokenID  // matched counterpart; NoToken when hanging
	Hanging bool     // no counterpart was found
	ToEnd   Rational // for hanging markers: duration to the end of the spine
}

func newToken(id TokenID, text string, lineIdx, fieldIdx int, kind LineKind) *Token {
	return &Token{
		id:       id,
		text:     text,
		lineIdx:  lineIdx,
		fieldIdx: fieldIdx,
		kind:     kind,
		track:    0,
		subtrack: 0,
		duration: RationalUnset(),
		nullRes:  NoToken,
	}
}

// ID returns the token's arena index.
func (t *Token) ID() TokenID { return t.id }

// Text returns the raw field text.
func (t *Token) Text() string { return t.text }

// LineIndex returns the index of the owning line within the document.
func (t *Token) LineIndex() int { return t.lineIdx }

// FieldIndex returns the token's field position within its line.
func (t *Token) FieldIndex() int { return t.fieldIdx }

// Track returns the spine number the token belongs to, assigned at spine
// open time and shared by every sub-spine descended from it. Tracks are
// numbered from 1; zero means structure analysis has not run or the token
// is not spined.
func (t *Token) Track() int { return t.track }

// Subtrack returns which sub-spine, left to right, this token occupies
// among those sharing its track on its line. Zero when the track has a
// single sub-spine at that line.
func (t *Token) Subtrack() int { return t.subtrack }

// Duration returns the token's local duration in quarter notes. The
// value is the unset sentinel before rhythm analysis and for tokens with
// no rhythmic meaning.
func (t *Token) Duration() Rational { return t.duration }

// NextTokens returns the forward links in the spine graph.
func (t *Token) NextTokens() []TokenID { return t.next }

// PreviousTokens returns the backward links in the spine graph.
func (t *Token) PreviousTokens() []TokenID { return t.prev }

// NextNonNullData returns the nearest following non-null data tokens
// reachable from this token (two entries across an unresolved split).
func (t *Token) NextNonNullData() []TokenID { return t.nextNonNull }

// PreviousNonNullData returns the nearest preceding non-null data tokens.
func (t *Token) PreviousNonNullData() []TokenID { return t.prevNonNull }

// NullResolution returns the nearest preceding non-null data token in the
// same spine, which defines the musical meaning of a null token. For
// non-null data tokens it returns the token's own ID; NoToken when there
// is no antecedent.
func (t *Token) NullResolution() TokenID {
	if t.IsData() && !t.IsNull() {
		return t.id
	}
	return t.nullRes
}

// Params returns the parameter sets attached to this token from adjacent
// layout comment lines, in source order.
func (t *Token) Params() []*ParamSet { return t.params }

// Param looks up a layout parameter value by namespace and key across all
// attached parameter sets. The second result is false if absent.
func (t *Token) Param(ns2, key string) (string, bool) {
	for _, ps := range t.params {
		if ps.NS2 != ns2 {
			continue
		}
		if v, ok := ps.Get(key); ok {
			return v, true
		}
	}
	return "", false
}

// Slurs returns the slur markers found on this token, in text order.
func (t *Token) Slurs() []Pairing { return t.slurs }

// Phrases returns the phrase markers found on this token, in text order.
func (t *Token) Phrases() []Pairing { return t.phrases }

// Ties returns the tie markers found on this token, in text order.
func (t *Token) Ties() []Pairing { return t.ties }

// AccidentalVisible reports whether the accidental of chord subtoken i
// should be displayed. False before content analysis.
func (t *Token) AccidentalVisible(i int) bool {
	if i < 0 || i >= len(t.accVis) {
		return false
	}
	return t.accVis[i]
}

// StemHint returns the stem-direction hint from tandem interpretations
// and layout overrides: -1 down, +1 up, 0 unspecified.
func (t *Token) StemHint() int { return t.stem }

// ============================================================
// Classification
// ============================================================

// IsData reports whether the token sits on a data line.
func (t *Token) IsData() bool { return t.kind == LineData }

// IsBarline reports whether the token sits on a barline line.
func (t *Token) IsBarline() bool { return t.kind == LineBarline }

// IsInterpretation reports whether the token sits on an interpretation
// line (leading *).
func (t *Token) IsInterpretation() bool { return t.kind == LineInterpretation }

// IsLocalComment reports whether the token sits on a local comment line.
func (t *Token) IsLocalComment() bool { return t.kind == LineLocalComment }

// IsGlobalComment reports whether the token is the single token of a
// global comment line.
func (t *Token) IsGlobalComment() bool { return t.kind == LineGlobalComment }

// IsNull reports whether the token is a placeholder: "." on data lines,
// "*" on interpretation lines, "!" on local comment lines.
func (t *Token) IsNull() bool {
	switch t.kind {
	case LineData:
		return t.text == "."
	case LineInterpretation:
		return t.text == "*"
	case LineLocalComment:
		return t.text == "!"
	}
	return false
}

// IsExclusive reports whether the token opens a spine (**type).
func (t *Token) IsExclusive() bool {
	return strings.HasPrefix(t.text, "**")
}

// IsSplit reports whether the token is a split manipulator: *^ doubles
// one sub-spine; *^N expands it to N sub-spines.
func (t *Token) IsSplit() bool {
	if t.text == "*^" {
		return true
	}
	if !strings.HasPrefix(t.text, "*^") {
		return false
	}
	n, err := strconv.Atoi(t.text[2:])
	return err == nil && n >= 2
}

// SplitCount returns how many sub-spines a split manipulator produces
// (2 for plain *^, N for *^N). Zero for non-split tokens.
func (t *Token) SplitCount() int {
	if t.text == "*^" {
		return 2
	}
	if strings.HasPrefix(t.text, "*^") {
		if n, err := strconv.Atoi(t.text[2:]); err == nil && n >= 2 {
			return n
		}
	}
	return 0
}

// IsMerge reports whether the token is the merge manipulator *v.
func (t *Token) IsMerge() bool { return t.text == "*v" }

// IsExchange reports whether the token is the exchange manipulator *x.
func (t *Token) IsExchange() bool { return t.text == "*x" }

// IsAdd reports whether the token is the add manipulator *+.
func (t *Token) IsAdd() bool { return t.text == "*+" }

// IsTerminator reports whether the token closes its sub-spine (*-).
func (t *Token) IsTerminator() bool { return t.text == "*-" }

// IsManipulator reports whether the token changes spine topology rather
// than carrying data.
func (t *Token) IsManipulator() bool {
	return t.IsExclusive() || t.IsSplit() || t.IsMerge() ||
		t.IsExchange() || t.IsAdd() || t.IsTerminator()
}

// IsRest reports whether the token is a data token containing a rest.
func (t *Token) IsRest() bool {
	return t.IsData() && !t.IsNull() && strings.ContainsRune(t.text, 'r')
}

// IsNote reports whether the token is a data token containing at least
// one pitch letter.
func (t *Token) IsNote() bool {
	if !t.IsData() || t.IsNull() || t.IsRest() {
		return false
	}
	return strings.ContainsAny(t.text, "abcdefgABCDEFG")
}

// IsGrace reports whether the token is a grace note (q or qq rhythm).
func (t *Token) IsGrace() bool {
	return t.IsData() && !t.IsNull() && strings.ContainsRune(t.text, 'q')
}

// IsChord reports whether the data token carries more than one note.
func (t *Token) IsChord() bool {
	return t.IsData() && !t.IsNull() && strings.ContainsRune(t.text, ' ')
}

// Subtokens splits a chord token into its space-separated notes. A
// non-chord token yields itself as the only element.
func (t *Token) Subtokens() []string {
	return strings.Split(t.text, " ")
}

func (t *Token) String() string { return t.text }
