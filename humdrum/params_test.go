package humdrum

import "testing"

func TestParseLayoutParams(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ns2   string
		pairs []ParamPair
		nil_  bool
	}{
		{
			name:  "key_values",
			input: "!LO:N:stem=up:color=red",
			ns2:   "N",
			pairs: []ParamPair{{Key: "stem", Value: "up"}, {Key: "color", Value: "red"}},
		},
		{
			name:  "bare_flag",
			input: "!LO:TX:a:t=hello",
			ns2:   "TX",
			pairs: []ParamPair{{Key: "a"}, {Key: "t", Value: "hello"}},
		},
		{
			name:  "global_form",
			input: "!!LO:LB:g=z",
			ns2:   "LB",
			pairs: []ParamPair{{Key: "g", Value: "z"}},
		},
		{name: "not_layout", input: "! just a comment", nil_: true},
		{name: "reference", input: "!!!COM: someone", nil_: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps := parseLayoutParams(tt.input)
			if tt.nil_ {
				if ps != nil {
					t.Fatalf("parseLayoutParams(%q) = %+v, want nil", tt.input, ps)
				}
				return
			}
			if ps == nil {
				t.Fatalf("parseLayoutParams(%q) = nil", tt.input)
			}
			if ps.NS1 != "LO" || ps.NS2 != tt.ns2 {
				t.Errorf("namespaces = %s:%s, want LO:%s", ps.NS1, ps.NS2, tt.ns2)
			}
			if len(ps.Pairs) != len(tt.pairs) {
				t.Fatalf("pairs = %+v, want %+v", ps.Pairs, tt.pairs)
			}
			for i, want := range tt.pairs {
				if ps.Pairs[i] != want {
					t.Errorf("pair %d = %+v, want %+v", i, ps.Pairs[i], want)
				}
			}
		})
	}
}

func TestAttachLocalParams(t *testing.T) {
	input := `**kern
!LO:N:stem=down
4c
4d
*-
`
	d, err := ParseString(input)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	c := d.TokenAt(2, 0)
	if v, ok := c.Param("N", "stem"); !ok || v != "down" {
		t.Errorf("Param(N, stem) on 4c = %q, %v; want down", v, ok)
	}
	// The set binds only to the nearest following data token.
	if _, ok := d.TokenAt(3, 0).Param("N", "stem"); ok {
		t.Error("layout params leaked onto a later token")
	}
}

func TestAttachLocalParams_Interpretation(t *testing.T) {
	input := `**kern
!LO:N:vis=dot
*clefG2
4c
*-
`
	d, err := ParseString(input)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	// An interpretation is as good a target as a data token.
	clef := d.TokenAt(2, 0)
	if v, ok := clef.Param("N", "vis"); !ok || v != "dot" {
		t.Errorf("Param(N, vis) on *clefG2 = %q, %v; want dot", v, ok)
	}
	if _, ok := d.TokenAt(3, 0).Param("N", "vis"); ok {
		t.Error("layout params rode past the clef onto 4c")
	}
}

func TestAttachLocalParams_SkipsNulls(t *testing.T) {
	input := `**kern	**kern
2c	4c
!LO:N:acc=show	!
.	4d
4e	4f
*-	*-
`
	d, err := ParseString(input)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if !d.IsValid() {
		t.Fatalf("document invalid: %v", d.Diagnostics())
	}
	// The null in spine 1 cannot carry the params; they ride forward to 4e.
	if _, ok := d.TokenAt(3, 0).Param("N", "acc"); ok {
		t.Error("params attached to a null token")
	}
	if v, ok := d.TokenAt(4, 0).Param("N", "acc"); !ok || v != "show" {
		t.Errorf("Param(N, acc) on 4e = %q, %v; want show", v, ok)
	}
	// Spine 2's plain "!" defined nothing.
	if got := len(d.TokenAt(3, 1).Params()); got != 0 {
		t.Errorf("params on 4d = %d sets, want 0", got)
	}
}

func TestGlobalLayoutParams(t *testing.T) {
	input := `**kern
!!LO:LB:g=z
4c
*-
`
	d, err := ParseString(input)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	params := d.Line(2).Params()
	if len(params) != 1 {
		t.Fatalf("line params = %d sets, want 1", len(params))
	}
	if v, ok := params[0].Get("g"); !ok || v != "z" {
		t.Errorf("Get(g) = %q, %v; want z", v, ok)
	}
	if got := len(d.Line(3).Params()); got != 0 {
		t.Errorf("global params leaked onto line 3")
	}
}
