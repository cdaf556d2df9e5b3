package humdrum

// AnalyzeStructure builds the spine graph: it links every token to its
// neighbors through the split/merge/exchange/add/terminate manipulators,
// assigns track and subtrack numbers, extracts strands, resolves null
// tokens, and attaches local layout parameters. Parse must have run.
func (d *Document) AnalyzeStructure() error {
	if !d.has(phaseParse) {
		return ErrPhaseOrder
	}
	if d.has(phaseStructure) {
		return nil
	}

	b := &spineBuilder{doc: d}
	b.run()

	d.assignSubtracks()
	d.buildNonNullCaches()
	d.analyzeStrands()
	d.resolveNulls()
	d.attachLocalParams()

	d.done |= phaseStructure
	return nil
}

// spineGroup is the set of tokens that act as "previous" for one field
// position of the next spined line. It holds one token normally, every
// token of a *v run after a merge, and is nil where *+ has announced a
// new spine whose exclusive interpretation is expected on the next line.
type spineGroup struct {
	tokens []TokenID
	track  int
}

type spineBuilder struct {
	doc       *Document
	groups    []spineGroup
	nextTrack int
}

func (b *spineBuilder) run() {
	d := b.doc
	b.nextTrack = 1

	for _, line := range d.lines {
		if !line.HasSpines() || len(line.tokens) == 0 {
			continue
		}
		if len(b.groups) == 0 {
			b.openSpines(line)
			continue
		}
		b.linkLine(line)
		b.advance(line)
	}

	for _, g := range b.groups {
		if g.tokens == nil {
			continue
		}
		t := d.Token(g.tokens[0])
		d.addDiag(DiagDanglingSpine, t.lineIdx, t.text,
			"track %d is not closed by a terminator", g.track)
	}
}

// openSpines handles the first spined line (or a line following full
// termination): every field must be an exclusive interpretation, each of
// which opens a new track.
func (b *spineBuilder) openSpines(line *Line) {
	d := b.doc
	for _, id := range line.tokens {
		tok := d.Token(id)
		if !tok.IsExclusive() {
			d.addDiag(DiagMissingExclusive, line.index, tok.text,
				"spined line before any exclusive interpretation")
		}
		b.openSpine(tok)
	}
}

// openSpine assigns a fresh track to an exclusive interpretation token
// and registers it as a spine start.
func (b *spineBuilder) openSpine(tok *Token) {
	d := b.doc
	tok.track = b.nextTrack
	b.nextTrack++
	d.spineStarts = append(d.spineStarts, tok.id)
	d.spineEnds = append(d.spineEnds, nil)
	d.exclusives = append(d.exclusives, tok.text)
	b.groups = append(b.groups, spineGroup{tokens: []TokenID{tok.id}, track: tok.track})
}

// linkLine connects the current line's tokens to the open sub-spine
// pointers positionally and inherits track numbers.
func (b *spineBuilder) linkLine(line *Line) {
	d := b.doc

	if len(line.tokens) != len(b.groups) {
		d.addDiag(DiagFieldCount, line.index, line.text,
			"line has %d fields but %d sub-spines are open",
			len(line.tokens), len(b.groups))
		b.resync(line)
		return
	}

	for i, g := range b.groups {
		tok := d.Token(line.tokens[i])
		if g.tokens == nil {
			// Position reserved by *+ on the previous line.
			if !tok.IsExclusive() {
				d.addDiag(DiagBadManipulator, line.index, tok.text,
					"expected exclusive interpretation after *+")
			}
			b.fillAddedSpine(i, tok)
			continue
		}
		for _, pid := range g.tokens {
			p := d.Token(pid)
			p.next = append(p.next, tok.id)
			tok.prev = append(tok.prev, pid)
		}
		tok.track = g.track
	}
}

// fillAddedSpine opens the track announced by *+ at group position i.
func (b *spineBuilder) fillAddedSpine(i int, tok *Token) {
	d := b.doc
	tok.track = b.nextTrack
	b.nextTrack++
	d.spineStarts = append(d.spineStarts, tok.id)
	d.spineEnds = append(d.spineEnds, nil)
	d.exclusives = append(d.exclusives, tok.text)
	b.groups[i] = spineGroup{tokens: []TokenID{tok.id}, track: tok.track}
}

// resync rebuilds the open sub-spine pointers from a structurally broken
// line so parsing can keep accumulating diagnostics. Tokens are linked
// pairwise as far as positions match.
func (b *spineBuilder) resync(line *Line) {
	d := b.doc
	n := len(line.tokens)
	if len(b.groups) < n {
		n = len(b.groups)
	}
	for i := 0; i < n; i++ {
		g := b.groups[i]
		if g.tokens == nil {
			continue
		}
		tok := d.Token(line.tokens[i])
		for _, pid := range g.tokens {
			p := d.Token(pid)
			p.next = append(p.next, tok.id)
			tok.prev = append(tok.prev, pid)
		}
		tok.track = g.track
	}
	b.groups = b.groups[:0]
	for _, id := range line.tokens {
		tok := d.Token(id)
		b.groups = append(b.groups, spineGroup{tokens: []TokenID{id}, track: tok.track})
	}
}

// advance computes the open sub-spine pointers for the line after this
// one, applying any manipulators the line carries.
func (b *spineBuilder) advance(line *Line) {
	d := b.doc
	var next []spineGroup
	var exchanges []int

	toks := line.tokens
	for i := 0; i < len(toks); i++ {
		tok := d.Token(toks[i])
		switch {
		case tok.IsSplit():
			for k := 0; k < tok.SplitCount(); k++ {
				next = append(next, spineGroup{tokens: []TokenID{tok.id}, track: tok.track})
			}

		case tok.IsMerge():
			// A run of consecutive *v tokens sharing a track collapses
			// into a single sub-spine.
			run := []TokenID{tok.id}
			j := i + 1
			for j < len(toks) {
				nt := d.Token(toks[j])
				if !nt.IsMerge() || nt.track != tok.track {
					break
				}
				run = append(run, nt.id)
				j++
			}
			if len(run) == 1 {
				d.addDiag(DiagBadManipulator, line.index, tok.text,
					"*v merge has no adjacent partner in track %d", tok.track)
			}
			next = append(next, spineGroup{tokens: run, track: tok.track})
			i = j - 1

		case tok.IsTerminator():
			if tok.track >= 1 && tok.track <= len(d.spineEnds) {
				d.spineEnds[tok.track-1] = append(d.spineEnds[tok.track-1], tok.id)
			}

		case tok.IsAdd():
			next = append(next, spineGroup{tokens: []TokenID{tok.id}, track: tok.track})
			next = append(next, spineGroup{}) // new spine opens here

		case tok.IsExchange():
			exchanges = append(exchanges, len(next))
			next = append(next, spineGroup{tokens: []TokenID{tok.id}, track: tok.track})

		default:
			next = append(next, spineGroup{tokens: []TokenID{tok.id}, track: tok.track})
		}
	}

	switch len(exchanges) {
	case 0:
	case 2:
		next[exchanges[0]], next[exchanges[1]] = next[exchanges[1]], next[exchanges[0]]
	default:
		d.addDiag(DiagBadExchange, line.index, line.text,
			"line carries %d *x tokens; exactly two are required", len(exchanges))
	}

	b.groups = next
}

// assignSubtracks renumbers sub-spines per line: among tokens sharing a
// track on one line, subtracks run 1..n left to right, and a track with a
// single sub-spine keeps subtrack 0.
func (d *Document) assignSubtracks() {
	counts := make(map[int]int)
	seen := make(map[int]int)
	for _, line := range d.lines {
		if !line.HasSpines() {
			continue
		}
		clear(counts)
		for _, id := range line.tokens {
			counts[d.Token(id).track]++
		}
		clear(seen)
		for _, id := range line.tokens {
			tok := d.Token(id)
			if counts[tok.track] <= 1 {
				tok.subtrack = 0
				continue
			}
			seen[tok.track]++
			tok.subtrack = seen[tok.track]
		}
	}
}

// buildNonNullCaches fills each token's nearest next/previous non-null
// data token lists with a two-direction dynamic programming sweep over
// the (acyclic) spine graph.
func (d *Document) buildNonNullCaches() {
	// Backward sweep for next links: lines are in topological order, so
	// walking from the bottom guarantees successors are done.
	for li := len(d.lines) - 1; li >= 0; li-- {
		for _, id := range d.lines[li].tokens {
			tok := d.Token(id)
			for _, nid := range tok.next {
				n := d.Token(nid)
				if n.IsData() && !n.IsNull() {
					tok.nextNonNull = appendUniqueID(tok.nextNonNull, nid)
				} else {
					for _, nn := range n.nextNonNull {
						tok.nextNonNull = appendUniqueID(tok.nextNonNull, nn)
					}
				}
			}
		}
	}
	// Forward sweep for previous links.
	for _, line := range d.lines {
		for _, id := range line.tokens {
			tok := d.Token(id)
			for _, pid := range tok.prev {
				p := d.Token(pid)
				if p.IsData() && !p.IsNull() {
					tok.prevNonNull = appendUniqueID(tok.prevNonNull, pid)
				} else {
					for _, pp := range p.prevNonNull {
						tok.prevNonNull = appendUniqueID(tok.prevNonNull, pp)
					}
				}
			}
		}
	}
}

func appendUniqueID(list []TokenID, id TokenID) []TokenID {
	for _, x := range list {
		if x == id {
			return list
		}
	}
	return append(list, id)
}
