package humdrum

import "strings"

// accKey addresses the tracked accidental state of one diatonic step in
// one octave of one track.
type accKey struct {
	track  int
	step   int // 0=C .. 6=B
	octave int
}

// kernPitch is the parsed pitch portion of one **kern note subtoken.
type kernPitch struct {
	step   int
	octave int
	accid  string // normalized: "" natural, "#", "##", "-", "--"
	forced bool   // 'X' after the accidental forces display
	hidden bool   // 'y' suppresses display
	tiedOn bool   // tie continuation or ending: ']' or '_'
}

var kernSteps = map[byte]int{'c': 0, 'd': 1, 'e': 2, 'f': 3, 'g': 4, 'a': 5, 'b': 6}

// parseKernPitch extracts pitch, octave, and accidental from a kern note
// subtoken. Returns false for rests and unpitched tokens.
func parseKernPitch(sub string) (kernPitch, bool) {
	var p kernPitch
	i := 0
	for i < len(sub) {
		c := sub[i]
		if _, ok := kernSteps[lowerByte(c)]; ok {
			break
		}
		i++
	}
	if i == len(sub) {
		return p, false
	}

	letter := sub[i]
	count := 0
	for i < len(sub) && sub[i] == letter {
		count++
		i++
	}
	p.step = kernSteps[lowerByte(letter)]
	if letter >= 'a' {
		p.octave = 3 + count // c = octave 4, cc = 5
	} else {
		p.octave = 4 - count // C = octave 3, CC = 2
	}

	// Accidental run: sharps, flats, or an explicit natural.
	start := i
	for i < len(sub) && (sub[i] == '#' || sub[i] == '-' || sub[i] == 'n') {
		i++
	}
	p.accid = sub[start:i]
	if p.accid == "n" {
		p.accid = ""
	}

	if i < len(sub) && sub[i] == 'X' {
		p.forced = true
	}
	p.hidden = strings.ContainsRune(sub, 'y')
	p.tiedOn = strings.ContainsAny(sub, "]_")
	return p, true
}

func lowerByte(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}

// analyzeAccidentals marks, per note, whether its accidental should be
// displayed. The tracked state is per track and per diatonic step and
// octave, reset at every barline and reseeded at explicit key signature
// changes; a note's accidental is visible when it differs from the
// tracked state. Tied continuations never restate across a barline,
// editorial and cautionary signifier characters force display, and X/y
// markers or !LO:N:acc overrides force or suppress it explicitly.
func (d *Document) analyzeAccidentals() {
	keyState := make(map[int]*[7]string)
	measure := make(map[accKey]string)

	editorialSig, _ := d.signifiers.EditorialAccidental()
	cautionarySig, _ := d.signifiers.CautionaryAccidental()

	for _, line := range d.lines {
		switch {
		case line.IsBarline():
			clear(measure)

		case line.IsInterpretation():
			for _, id := range line.tokens {
				tok := d.Token(id)
				if strings.HasPrefix(tok.text, "*k[") && strings.HasSuffix(tok.text, "]") {
					keyState[tok.track] = parseKeySignature(tok.text)
					for k := range measure {
						if k.track == tok.track {
							delete(measure, k)
						}
					}
				}
			}

		case line.IsData():
			for _, id := range line.tokens {
				tok := d.Token(id)
				if tok.IsNull() || !d.isKernTrack(tok.track) || !tok.IsNote() {
					continue
				}
				subs := tok.Subtokens()
				tok.accVis = make([]bool, len(subs))
				for i, sub := range subs {
					p, ok := parseKernPitch(sub)
					if !ok {
						continue
					}
					key := accKey{track: tok.track, step: p.step, octave: p.octave}
					cur, have := measure[key]
					if !have {
						if ks := keyState[tok.track]; ks != nil {
							cur = ks[p.step]
						}
					}

					visible := p.accid != cur
					if p.tiedOn {
						// A tied note's accidental is not restated, even
						// when the tie crosses a barline reset.
						visible = false
					}
					if editorialSig != "" && strings.Contains(sub, editorialSig) {
						visible = true
					}
					if cautionarySig != "" && strings.Contains(sub, cautionarySig) {
						visible = true
					}
					if p.forced {
						visible = true
					}
					if p.hidden {
						visible = false
					}
					if v, ok := tok.Param("N", "acc"); ok {
						switch v {
						case "true", "show":
							visible = true
						case "false", "hide":
							visible = false
						}
					}

					measure[key] = p.accid
					tok.accVis[i] = visible
				}
			}
		}
	}
}

// parseKeySignature reads *k[f#c#...] into per-step accidentals.
func parseKeySignature(text string) *[7]string {
	var state [7]string
	inner := strings.TrimSuffix(strings.TrimPrefix(text, "*k["), "]")
	i := 0
	for i < len(inner) {
		step, ok := kernSteps[lowerByte(inner[i])]
		if !ok {
			i++
			continue
		}
		i++
		start := i
		for i < len(inner) && (inner[i] == '#' || inner[i] == '-' || inner[i] == 'n') {
			i++
		}
		accid := inner[start:i]
		if accid == "n" {
			accid = ""
		}
		state[step] = accid
	}
	return &state
}
