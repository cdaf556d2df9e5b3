package humdrum

// AnalyzeContent runs the graph-traversal passes layered on structure
// and rhythm: slur, phrase, and tie pairing, accidental visibility, and
// stem-direction hints. Rhythm analysis must have run (hanging markers
// report their duration to the end of the score).
func (d *Document) AnalyzeContent() error {
	if !d.has(phaseRhythm) {
		return ErrPhaseOrder
	}
	if d.has(phaseContent) {
		return nil
	}

	d.linkMarkers('(', ')', 0, func(t *Token) *[]Pairing { return &t.slurs })
	d.linkMarkers('{', '}', 0, func(t *Token) *[]Pairing { return &t.phrases })
	d.linkMarkers('[', ']', '_', func(t *Token) *[]Pairing { return &t.ties })
	d.analyzeAccidentals()
	d.analyzeStems()

	d.done |= phaseContent
	return nil
}

// markerRef addresses one Pairing entry on a token.
type markerRef struct {
	tok TokenID
	idx int
}

type stackKey struct {
	track int
	level int
}

// linkMarkers pairs spanning markers (slur, phrase, tie) in one forward
// sweep over the document. Markers carry an elision level: the count of
// consecutive '&' escapes immediately before the marker, used to
// disambiguate nested and cross-voice pairings. A closing marker pops
// the innermost open marker of its own track and level, else searches
// other tracks at the same level (voice crossings), else is recorded as
// hanging. Hanging markers, whether unmatched closes or opens left at
// the end of the sweep, record their duration to the end of the score.
//
// The continuation rune (ties: '_') closes the running span and
// immediately opens a new one.
func (d *Document) linkMarkers(open, close, cont byte, get func(*Token) *[]Pairing) {
	stacks := make(map[stackKey][]markerRef)

	push := func(tok *Token, level int) {
		list := get(tok)
		*list = append(*list, Pairing{Opens: true, Level: level, Partner: NoToken})
		key := stackKey{track: tok.track, level: level}
		stacks[key] = append(stacks[key], markerRef{tok: tok.id, idx: len(*list) - 1})
	}

	pop := func(tok *Token, level int) {
		list := get(tok)
		*list = append(*list, Pairing{Opens: false, Level: level, Partner: NoToken})
		closeIdx := len(*list) - 1

		key := stackKey{track: tok.track, level: level}
		stack := stacks[key]
		if len(stack) == 0 {
			// Voice crossing: search other tracks at the same elision
			// level, preferring the most recently opened marker.
			var bestKey stackKey
			best := markerRef{tok: NoToken}
			for k, s := range stacks {
				if k.level != level || len(s) == 0 {
					continue
				}
				top := s[len(s)-1]
				if best.tok == NoToken || top.tok > best.tok {
					best = top
					bestKey = k
				}
			}
			if best.tok == NoToken {
				(*list)[closeIdx].Hanging = true
				(*list)[closeIdx].ToEnd = d.scoreDuration.Sub(d.lines[tok.lineIdx].durFromStart)
				return
			}
			key = bestKey
			stack = stacks[key]
		}

		openRef := stack[len(stack)-1]
		stacks[key] = stack[:len(stack)-1]

		openTok := d.Token(openRef.tok)
		(*get(openTok))[openRef.idx].Partner = tok.id
		(*list)[closeIdx].Partner = openRef.tok
	}

	for _, line := range d.lines {
		if !line.IsData() {
			continue
		}
		for _, id := range line.tokens {
			tok := d.Token(id)
			if tok.IsNull() || !d.isKernTrack(tok.track) {
				continue
			}
			level := 0
			for i := 0; i < len(tok.text); i++ {
				switch tok.text[i] {
				case '&':
					level++
					continue
				case open:
					push(tok, level)
				case close:
					pop(tok, level)
				case cont:
					if cont != 0 {
						pop(tok, level)
						push(tok, level)
					}
				}
				level = 0
			}
		}
	}

	// Anything still open hangs, with its duration to the end.
	for _, stack := range stacks {
		for _, ref := range stack {
			tok := d.Token(ref.tok)
			p := &(*get(tok))[ref.idx]
			p.Hanging = true
			p.ToEnd = d.scoreDuration.Sub(d.lines[tok.lineIdx].durFromStart)
		}
	}
}

// isKernTrack reports whether the track carries **kern data.
func (d *Document) isKernTrack(track int) bool {
	return track >= 1 && track <= len(d.exclusives) && d.exclusives[track-1] == "**kern"
}

// analyzeStems computes stem-direction hints: *stem:up / *stem:down
// tandem interpretations set a per-track default, !LO:N:stem overrides a
// single token, and cross-staff layout (!LO:N:xstaff) flips the stem
// toward the home staff.
func (d *Document) analyzeStems() {
	defaults := make(map[int]int)
	for _, line := range d.lines {
		if line.IsInterpretation() {
			for _, id := range line.tokens {
				tok := d.Token(id)
				switch tok.text {
				case "*stem:up":
					defaults[tok.track] = 1
				case "*stem:down":
					defaults[tok.track] = -1
				case "*Xstem":
					delete(defaults, tok.track)
				}
			}
			continue
		}
		if !line.IsData() {
			continue
		}
		for _, id := range line.tokens {
			tok := d.Token(id)
			if tok.IsNull() || !d.isKernTrack(tok.track) || !tok.IsNote() {
				continue
			}
			tok.stem = defaults[tok.track]
			if v, ok := tok.Param("N", "stem"); ok {
				switch v {
				case "up":
					tok.stem = 1
				case "down":
					tok.stem = -1
				}
			}
			if v, ok := tok.Param("N", "xstaff"); ok {
				// A note displayed on the staff above stems downward
				// toward its home staff, and vice versa.
				switch v {
				case "above":
					tok.stem = -1
				case "below":
					tok.stem = 1
				}
			}
		}
	}
}
