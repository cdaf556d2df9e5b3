package humdrum

import "strings"

// ParamPair is one key=value entry of a layout parameter set. A bare
// entry with no '=' is a flag with an empty value.
type ParamPair struct {
	Key   string
	Value string
}

// ParamSet is one parsed layout comment: !LO:NS2:key=value:key=value.
// Local sets attach to the next following data, interpretation, or
// barline token in the same strand; global sets (!!LO:) attach to the
// next line.
type ParamSet struct {
	NS1    string // namespace 1, "LO" for layout
	NS2    string // namespace 2, e.g. "N" (note), "TX" (text)
	Pairs  []ParamPair
	Origin TokenID // local comment token the set came from; NoToken for global
}

// Get returns the value for key. The second result is false if absent.
func (ps *ParamSet) Get(key string) (string, bool) {
	for _, p := range ps.Pairs {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Has reports whether key is present, with or without a value.
func (ps *ParamSet) Has(key string) bool {
	_, ok := ps.Get(key)
	return ok
}

// parseLayoutParams parses a comment's text into a parameter set.
// Leading comment markers are stripped, so both "!LO:..." and "!!LO:..."
// are accepted. Returns nil for comments that are not layout parameters.
func parseLayoutParams(text string) *ParamSet {
	text = strings.TrimLeft(text, "!")
	if !strings.HasPrefix(text, "LO:") {
		return nil
	}
	segs := strings.Split(text, ":")
	if len(segs) < 2 {
		return nil
	}
	ps := &ParamSet{NS1: segs[0], NS2: segs[1], Origin: NoToken}
	for _, seg := range segs[2:] {
		if seg == "" {
			continue
		}
		if eq := strings.IndexByte(seg, '='); eq >= 0 {
			ps.Pairs = append(ps.Pairs, ParamPair{Key: seg[:eq], Value: seg[eq+1:]})
		} else {
			ps.Pairs = append(ps.Pairs, ParamPair{Key: seg})
		}
	}
	return ps
}

// attachLocalParams walks each strand forward, collecting layout comment
// tokens and attaching their parameter sets to the nearest following
// data, interpretation, or barline token within the strand.
func (d *Document) attachLocalParams() {
	for _, s := range d.strands {
		var pending []*ParamSet
		id := s.Start
		for {
			tok := d.Token(id)
			if tok.IsLocalComment() {
				if ps := parseLayoutParams(tok.text); ps != nil {
					ps.Origin = tok.id
					pending = append(pending, ps)
				}
			} else if len(pending) > 0 && (tok.IsData() || tok.IsInterpretation() || tok.IsBarline()) && !tok.IsNull() {
				tok.params = append(tok.params, pending...)
				pending = nil
			}
			if id == s.End || len(tok.next) == 0 {
				break
			}
			id = tok.next[0]
		}
	}
}

// ============================================================
// Signifier registry
// ============================================================

// SignifierDef is one user-defined signifier from a reference record of
// the form !!!RDF**kern: i = editorial accidental.
type SignifierDef struct {
	Exclusive  string // data type the signifier applies to, e.g. "kern"
	Signifier  string // the character(s) being defined
	Definition string // free-text meaning
}

// Signifiers is the registry of RDF signifier definitions collected
// during parsing.
type Signifiers struct {
	defs []SignifierDef
}

func newSignifiers() *Signifiers { return &Signifiers{} }

// add parses "sig = definition" from an RDF reference record value.
func (s *Signifiers) add(exclusive, value string) {
	eq := strings.IndexByte(value, '=')
	if eq < 0 {
		return
	}
	sig := strings.TrimSpace(value[:eq])
	def := strings.TrimSpace(value[eq+1:])
	if sig == "" {
		return
	}
	s.defs = append(s.defs, SignifierDef{Exclusive: exclusive, Signifier: sig, Definition: def})
}

// All returns every definition in source order.
func (s *Signifiers) All() []SignifierDef { return s.defs }

// Lookup returns the definition of a signifier for the given exclusive
// data type. The second result is false if undefined.
func (s *Signifiers) Lookup(exclusive, sig string) (string, bool) {
	for _, d := range s.defs {
		if d.Exclusive == exclusive && d.Signifier == sig {
			return d.Definition, true
		}
	}
	return "", false
}

// EditorialAccidental returns the signifier marking editorial
// accidentals in **kern data, if one was declared.
func (s *Signifiers) EditorialAccidental() (string, bool) {
	return s.findByDefinition("editorial accidental")
}

// CautionaryAccidental returns the signifier marking cautionary
// (courtesy) accidentals, if one was declared.
func (s *Signifiers) CautionaryAccidental() (string, bool) {
	if sig, ok := s.findByDefinition("cautionary accidental"); ok {
		return sig, true
	}
	return s.findByDefinition("courtesy accidental")
}

func (s *Signifiers) findByDefinition(phrase string) (string, bool) {
	for _, d := range s.defs {
		if d.Exclusive == "kern" && strings.Contains(strings.ToLower(d.Definition), phrase) {
			return d.Signifier, true
		}
	}
	return "", false
}
