package humdrum

import "testing"

func TestParseRational(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "integer", input: "4", want: "4"},
		{name: "fraction", input: "3/2", want: "3/2"},
		{name: "negative", input: "-1", want: "-1"},
		{name: "reduced", input: "6/4", want: "3/2"},
		{name: "whitespace", input: " 7/8 ", want: "7/8"},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "x/y", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRational(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseRational(%q) succeeded, want error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRational(%q): %v", tt.input, err)
			}
			if got.String() != tt.want {
				t.Errorf("ParseRational(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestRational_Arithmetic(t *testing.T) {
	half := NewRational(1, 2)
	third := NewRational(1, 3)

	if got := half.Add(third); got.String() != "5/6" {
		t.Errorf("1/2 + 1/3 = %s, want 5/6", got)
	}
	if got := half.Sub(third); got.String() != "1/6" {
		t.Errorf("1/2 - 1/3 = %s, want 1/6", got)
	}
	if got := half.Mul(third); got.String() != "1/6" {
		t.Errorf("1/2 * 1/3 = %s, want 1/6", got)
	}
	if got := half.Div(third); got.String() != "3/2" {
		t.Errorf("1/2 / 1/3 = %s, want 3/2", got)
	}
	if got := half.Neg(); got.String() != "-1/2" {
		t.Errorf("-(1/2) = %s, want -1/2", got)
	}
}

func TestRational_ValueSemantics(t *testing.T) {
	a := NewRational(1, 4)
	b := a.Add(NewRational(1, 4))
	if !a.Equal(NewRational(1, 4)) {
		t.Errorf("receiver mutated: a = %s, want 1/4", a)
	}
	if !b.Equal(NewRational(1, 2)) {
		t.Errorf("a + 1/4 = %s, want 1/2", b)
	}
}

func TestRational_ZeroValue(t *testing.T) {
	var q Rational
	if !q.IsZero() {
		t.Error("zero value Rational is not zero")
	}
	if q.String() != "0" {
		t.Errorf("zero value String() = %q, want 0", q.String())
	}
	if got := q.Add(RationalFromInt(2)); !got.Equal(RationalFromInt(2)) {
		t.Errorf("0 + 2 = %s, want 2", got)
	}
}

func TestRational_Unset(t *testing.T) {
	u := RationalUnset()
	if !u.IsUnset() {
		t.Error("RationalUnset().IsUnset() = false")
	}
	if RationalZero().IsUnset() {
		t.Error("RationalZero().IsUnset() = true")
	}
	if NewRational(3, 4).IsUnset() {
		t.Error("3/4 reported unset")
	}
}

func TestRational_Compare(t *testing.T) {
	a := NewRational(1, 3)
	b := NewRational(1, 2)
	if !a.Less(b) {
		t.Error("1/3 < 1/2 = false")
	}
	if got := a.Max(b); !got.Equal(b) {
		t.Errorf("Max(1/3, 1/2) = %s, want 1/2", got)
	}
	if got := a.Min(b); !got.Equal(a) {
		t.Errorf("Min(1/3, 1/2) = %s, want 1/3", got)
	}
	if a.Cmp(a) != 0 {
		t.Error("Cmp of equal values != 0")
	}
}
