package humdrum

import "sort"

// Strand is a maximal contiguous run of one sub-spine between
// topology-changing boundaries: it never crosses a split, and it crosses
// a merge only on the merge's left side. Strands are the addressable
// units for attaching local comment parameters.
type Strand struct {
	Start TokenID
	End   TokenID
	Track int
}

// analyzeStrands walks every spine start recursively, closing a strand
// at a terminator, at a split (two new strands open at the split's
// children), or on arrival at a merge from any but its leftmost
// predecessor (the left side continues through the merge, the right side
// closes). The collected strands are then sorted by (line, field) of
// their start token into the canonical flat ordering, and a per-spine
// index is built over it.
func (d *Document) analyzeStrands() {
	for _, sid := range d.spineStarts {
		d.walkStrand(sid)
	}

	sort.Slice(d.strands, func(i, j int) bool {
		a := d.Token(d.strands[i].Start)
		b := d.Token(d.strands[j].Start)
		if a.lineIdx != b.lineIdx {
			return a.lineIdx < b.lineIdx
		}
		return a.fieldIdx < b.fieldIdx
	})

	d.strandIndex = make([][]int, len(d.spineStarts))
	for i, s := range d.strands {
		if s.Track >= 1 && s.Track <= len(d.strandIndex) {
			d.strandIndex[s.Track-1] = append(d.strandIndex[s.Track-1], i)
		}
	}

	// Spine-major, then strand-major within each spine.
	flat := make([]Strand, 0, len(d.strands))
	remap := make([][]int, len(d.strandIndex))
	for t, idxs := range d.strandIndex {
		remap[t] = make([]int, 0, len(idxs))
		for _, i := range idxs {
			remap[t] = append(remap[t], len(flat))
			flat = append(flat, d.strands[i])
		}
	}
	d.strands = flat
	d.strandIndex = remap
}

// walkStrand follows one sub-spine from start until a boundary.
func (d *Document) walkStrand(start TokenID) {
	tok := d.Token(start)
	for {
		next := tok.next
		switch {
		case len(next) == 0:
			d.strands = append(d.strands, Strand{Start: start, End: tok.id, Track: tok.track})
			return

		case len(next) > 1:
			// Split: this strand ends on the split token; each child
			// opens a new strand.
			d.strands = append(d.strands, Strand{Start: start, End: tok.id, Track: tok.track})
			for _, nid := range next {
				d.walkStrand(nid)
			}
			return

		default:
			nt := d.Token(next[0])
			if len(nt.prev) > 1 && nt.prev[0] != tok.id {
				// Arriving at a merge from the right: this side closes;
				// the leftmost predecessor's strand continues through.
				d.strands = append(d.strands, Strand{Start: start, End: tok.id, Track: tok.track})
				return
			}
			tok = nt
		}
	}
}

// resolveNulls records, for every null data token, the nearest preceding
// non-null data token in its spine. The sweep runs forward over the
// graph; at a merge the left path's state arrives first and wins, which
// matches strand ownership. Resolution is idempotent.
func (d *Document) resolveNulls() {
	visited := make([]bool, len(d.tokens))
	for _, sid := range d.spineStarts {
		d.resolveNullsFrom(sid, NoToken, visited)
	}
}

func (d *Document) resolveNullsFrom(id TokenID, last TokenID, visited []bool) {
	for id != NoToken {
		if visited[id] {
			return
		}
		visited[id] = true
		tok := d.Token(id)
		if tok.IsData() {
			if tok.IsNull() {
				tok.nullRes = last
			} else {
				last = tok.id
			}
		}
		switch len(tok.next) {
		case 0:
			return
		case 1:
			id = tok.next[0]
		default:
			for _, nid := range tok.next {
				d.resolveNullsFrom(nid, last, visited)
			}
			return
		}
	}
}
