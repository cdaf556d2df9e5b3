package humdrum

// rhythmicExclusives lists the exclusive interpretations whose tokens
// carry durations and therefore drive timing propagation. Other spines
// (lyrics, dynamics, analysis) follow the timing established by these.
var rhythmicExclusives = map[string]bool{
	"**kern":  true,
	"**recip": true,
	"**mens":  true,
}

// AnalyzeRhythm computes exact timing for every line and token: local
// token durations from their rhythm text, line start times propagated
// recursively through the spine graph, interpolated starts for lines
// with no rhythmic content, and barline-relative offsets. Structure
// analysis must have run.
func (d *Document) AnalyzeRhythm() error {
	if !d.has(phaseStructure) {
		return ErrPhaseOrder
	}
	if d.has(phaseRhythm) {
		return nil
	}

	d.assignLocalDurations()

	// Propagate from primary spines (those opening on the document's
	// first spined line) before floating spines, so that floating spines
	// can anchor their local origin on already-timed lines.
	d.rhythmPass++
	first := d.firstSpinedLine()
	for _, sid := range d.spineStarts {
		tok := d.Token(sid)
		if tok.lineIdx == first && d.isRhythmicTrack(tok.track) {
			d.propagateDuration(sid, RationalZero())
		}
	}
	for _, sid := range d.spineStarts {
		tok := d.Token(sid)
		if tok.rhythmGen == d.rhythmPass || !d.isRhythmicTrack(tok.track) {
			continue
		}
		d.propagateDuration(sid, d.floatingOrigin(sid))
	}

	d.fillLineDurations()
	d.fillBarlineDurations()

	d.done |= phaseRhythm
	return nil
}

// isRhythmicTrack reports whether the track's exclusive interpretation
// carries rhythm.
func (d *Document) isRhythmicTrack(track int) bool {
	if track < 1 || track > len(d.exclusives) {
		return false
	}
	return rhythmicExclusives[d.exclusives[track-1]]
}

// firstSpinedLine returns the index of the first line participating in
// the spine graph, or -1.
func (d *Document) firstSpinedLine() int {
	for _, line := range d.lines {
		if line.HasSpines() && len(line.tokens) > 0 {
			return line.index
		}
	}
	return -1
}

// assignLocalDurations sets each token's local duration. Data tokens in
// rhythmic spines read their rhythm text; everything else that is spined
// contributes zero so propagation passes through it unchanged. Tokens of
// non-rhythmic spines keep the unset sentinel.
func (d *Document) assignLocalDurations() {
	for _, tok := range d.tokens {
		if tok.kind == LineGlobalComment || tok.kind == LineEmpty {
			continue
		}
		if !d.isRhythmicTrack(tok.track) {
			continue
		}
		if tok.IsData() && !tok.IsNull() {
			tok.duration = recipDuration(tok.text)
		} else {
			tok.duration = RationalZero()
		}
	}
}

// propagateDuration walks the spine graph from id, accumulating local
// durations into a running sum and assigning it as the start time of
// each visited token's line. The generation counter makes the traversal
// diamond-safe: a token already visited in this pass only has its line
// start checked for consistency, and recursion stops there.
func (d *Document) propagateDuration(id TokenID, sum Rational) {
	for id != NoToken {
		tok := d.Token(id)

		// A null data token marks a note still sounding from an earlier
		// line; its line's time is pinned by the other spines, not by
		// this one, so the running sum only passes through.
		pins := !tok.IsData() || !tok.IsNull()

		if tok.rhythmGen == d.rhythmPass {
			if pins {
				d.reconcileLineStart(tok, sum)
			}
			return
		}
		tok.rhythmGen = d.rhythmPass
		if pins {
			d.reconcileLineStart(tok, sum)
		}

		if !tok.duration.IsUnset() {
			sum = sum.Add(tok.duration)
		}

		switch len(tok.next) {
		case 0:
			return
		case 1:
			id = tok.next[0]
		default:
			for _, nid := range tok.next {
				d.propagateDuration(nid, sum)
			}
			return
		}
	}
}

// reconcileLineStart records sum as the start time of tok's line. The
// first assignment is authoritative; a convergent path computing a
// different value is a consistency error, except at terminators, where
// multiple sub-spines agree via max.
func (d *Document) reconcileLineStart(tok *Token, sum Rational) {
	line := d.lines[tok.lineIdx]
	switch {
	case line.durFromStart.IsUnset():
		line.durFromStart = sum
	case line.durFromStart.Equal(sum):
	case tok.IsTerminator():
		line.durFromStart = line.durFromStart.Max(sum)
	default:
		d.addDiag(DiagRhythmMismatch, line.index, tok.text,
			"convergent paths disagree on line start: %s vs %s",
			line.durFromStart, sum)
	}
}

// floatingOrigin back-computes the file-absolute start time of a spine
// that opens mid-file: walk forward from its start accumulating local
// durations until a line whose start is already known, then subtract.
func (d *Document) floatingOrigin(id TokenID) Rational {
	acc := RationalZero()
	for id != NoToken {
		tok := d.Token(id)
		line := d.lines[tok.lineIdx]
		if !line.durFromStart.IsUnset() {
			return line.durFromStart.Sub(acc)
		}
		if !tok.duration.IsUnset() {
			acc = acc.Add(tok.duration)
		}
		if len(tok.next) == 0 {
			break
		}
		id = tok.next[0]
	}
	return RationalZero()
}

// fillLineDurations derives per-line durations from consecutive known
// start times, then back-fills start times for lines with no rhythmic
// content from their nearest timed neighbor.
func (d *Document) fillLineDurations() {
	// Line durations between known starts; the final timed line covers
	// its own longest token.
	prev := -1
	for i, line := range d.lines {
		if line.durFromStart.IsUnset() {
			continue
		}
		if prev >= 0 {
			d.lines[prev].duration = line.durFromStart.Sub(d.lines[prev].durFromStart)
		}
		prev = i
	}
	if prev >= 0 {
		last := d.lines[prev]
		last.duration = d.maxTokenDuration(last)
		d.scoreDuration = last.durFromStart.Add(last.duration)
	}

	// Back-fill: an untimed line takes the start of the next timed line;
	// trailing untimed lines sit at the end of the score.
	next := d.scoreDuration
	for i := len(d.lines) - 1; i >= 0; i-- {
		line := d.lines[i]
		if line.durFromStart.IsUnset() {
			line.durFromStart = next
			line.duration = RationalZero()
		} else {
			next = line.durFromStart
		}
		if line.duration.IsUnset() {
			line.duration = RationalZero()
		}
	}
}

// maxTokenDuration returns the longest local duration on a line.
func (d *Document) maxTokenDuration(line *Line) Rational {
	max := RationalZero()
	for _, id := range line.tokens {
		tok := d.Token(id)
		if !tok.duration.IsUnset() {
			max = max.Max(tok.duration)
		}
	}
	return max
}

// fillBarlineDurations runs the two linear barline passes: time since
// the last barline (running sum resetting at each barline) and time
// until the next one (accumulated backward from the end).
func (d *Document) fillBarlineDurations() {
	run := RationalZero()
	for _, line := range d.lines {
		if line.IsBarline() {
			run = RationalZero()
		}
		line.durFromBar = run
		run = run.Add(line.duration)
	}

	run = RationalZero()
	for i := len(d.lines) - 1; i >= 0; i-- {
		line := d.lines[i]
		if line.IsBarline() {
			line.durToBar = RationalZero()
		} else {
			line.durToBar = run.Add(line.duration)
		}
		run = line.durToBar
	}
}
