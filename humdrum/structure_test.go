package humdrum

import "testing"

func TestAnalyzeStructure_SimpleSpines(t *testing.T) {
	d, err := ParseString(chorale)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if !d.IsValid() {
		t.Fatalf("document invalid: %v", d.Diagnostics())
	}

	n, err := d.SpineCount()
	if err != nil {
		t.Fatalf("SpineCount: %v", err)
	}
	if n != 2 {
		t.Fatalf("SpineCount() = %d, want 2", n)
	}
	for track := 1; track <= 2; track++ {
		excl, err := d.Exclusive(track)
		if err != nil {
			t.Fatalf("Exclusive(%d): %v", track, err)
		}
		if excl != "**kern" {
			t.Errorf("Exclusive(%d) = %q, want **kern", track, excl)
		}
		ends, err := d.SpineEnds(track)
		if err != nil {
			t.Fatalf("SpineEnds(%d): %v", track, err)
		}
		if len(ends) != 1 {
			t.Errorf("len(SpineEnds(%d)) = %d, want 1", track, len(ends))
		}
	}

	// Column-wise linkage: each token has one predecessor and one
	// successor in its own column.
	tok := d.TokenAt(5, 0) // 4c
	if got := len(tok.NextTokens()); got != 1 {
		t.Fatalf("len(next) of 4c = %d, want 1", got)
	}
	if got := d.Token(tok.NextTokens()[0]).Text(); got != "4d" {
		t.Errorf("next of 4c = %q, want 4d", got)
	}
	if got := tok.Track(); got != 1 {
		t.Errorf("track of 4c = %d, want 1", got)
	}
	if got := d.TokenAt(5, 1).Track(); got != 2 {
		t.Errorf("track of 4e = %d, want 2", got)
	}
}

func TestAnalyzeStructure_SplitMerge(t *testing.T) {
	input := `**kern
*^
4c	4cc
4d	4dd
*v	*v
2e
*-
`
	d, err := ParseString(input)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if !d.IsValid() {
		t.Fatalf("document invalid: %v", d.Diagnostics())
	}

	split := d.TokenAt(1, 0)
	if got := len(split.NextTokens()); got != 2 {
		t.Fatalf("split successors = %d, want 2", got)
	}

	// Subtracks number left to right while the track is divided, and
	// drop back to 0 once it is whole again.
	if got := d.TokenAt(2, 0).Subtrack(); got != 1 {
		t.Errorf("subtrack of 4c = %d, want 1", got)
	}
	if got := d.TokenAt(2, 1).Subtrack(); got != 2 {
		t.Errorf("subtrack of 4cc = %d, want 2", got)
	}
	if got := d.TokenAt(5, 0).Subtrack(); got != 0 {
		t.Errorf("subtrack of 2e = %d, want 0", got)
	}

	// Both *v tokens feed the merged continuation.
	merged := d.TokenAt(5, 0)
	if got := len(merged.PreviousTokens()); got != 2 {
		t.Errorf("merged predecessors = %d, want 2", got)
	}
}

func TestAnalyzeStructure_SplitByN(t *testing.T) {
	input := `**kern
*^3
4c	4d	4e
*v	*v	*v
2f
*-
`
	d, err := ParseString(input)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if !d.IsValid() {
		t.Fatalf("document invalid: %v", d.Diagnostics())
	}
	split := d.TokenAt(1, 0)
	if got := split.SplitCount(); got != 3 {
		t.Errorf("SplitCount(*^3) = %d, want 3", got)
	}
	if got := len(split.NextTokens()); got != 3 {
		t.Errorf("split successors = %d, want 3", got)
	}
	if got := d.TokenAt(2, 2).Subtrack(); got != 3 {
		t.Errorf("subtrack of 4e = %d, want 3", got)
	}
}

func TestAnalyzeStructure_Exchange(t *testing.T) {
	input := "**kern\t**text\n*x\t*x\n4c\thello\n*-\t*-\n"
	d, err := ParseString(input)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if !d.IsValid() {
		t.Fatalf("document invalid: %v", d.Diagnostics())
	}
	// After the exchange, field 0 carries track 2 and field 1 track 1.
	if got := d.TokenAt(2, 0).Track(); got != 2 {
		t.Errorf("track of field 0 after *x = %d, want 2", got)
	}
	if got := d.TokenAt(2, 1).Track(); got != 1 {
		t.Errorf("track of field 1 after *x = %d, want 1", got)
	}
}

func TestAnalyzeStructure_AddSpine(t *testing.T) {
	input := "**kern\n4c\n*+\n*\t**text\n4d\thi\n*-\t*-\n"
	d, err := ParseString(input)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if !d.IsValid() {
		t.Fatalf("document invalid: %v", d.Diagnostics())
	}
	n, _ := d.SpineCount()
	if n != 2 {
		t.Fatalf("SpineCount() = %d, want 2", n)
	}
	excl, err := d.Exclusive(2)
	if err != nil {
		t.Fatalf("Exclusive(2): %v", err)
	}
	if excl != "**text" {
		t.Errorf("Exclusive(2) = %q, want **text", excl)
	}
	start, err := d.SpineStart(2)
	if err != nil {
		t.Fatalf("SpineStart(2): %v", err)
	}
	if start.LineIndex() != 3 {
		t.Errorf("added spine starts at line %d, want 3", start.LineIndex())
	}
}

func TestAnalyzeStructure_Diagnostics(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  DiagCode
	}{
		{
			name:  "field_count",
			input: "**kern\n4c\t4d\n*-\n",
			want:  DiagFieldCount,
		},
		{
			name:  "dangling_spine",
			input: "**kern\n4c\n",
			want:  DiagDanglingSpine,
		},
		{
			name:  "lone_merge",
			input: "**kern\n*v\n",
			want:  DiagBadManipulator,
		},
		{
			name:  "single_exchange",
			input: "**kern\t**kern\n*x\t*\n4c\t4d\n*-\t*-\n",
			want:  DiagBadExchange,
		},
		{
			name:  "missing_exclusive",
			input: "4c\n*-\n",
			want:  DiagMissingExclusive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseString(tt.input)
			if err != nil {
				t.Fatalf("ParseString: %v", err)
			}
			if d.IsValid() {
				t.Fatal("document reported valid")
			}
			found := false
			for _, diag := range d.Diagnostics() {
				if diag.Code == tt.want {
					found = true
				}
			}
			if !found {
				t.Errorf("no %s diagnostic; got %v", tt.want, d.Diagnostics())
			}
		})
	}
}

func TestAnalyzeStructure_NullResolution(t *testing.T) {
	input := `**kern
4c
.
4d
*-
`
	d, err := ParseString(input)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	c := d.TokenAt(1, 0)
	null := d.TokenAt(2, 0)
	dTok := d.TokenAt(3, 0)

	if !null.IsNull() {
		t.Fatal("'.' not recognized as null")
	}
	if got := null.NullResolution(); got != c.ID() {
		t.Errorf("null resolves to %d, want %d (4c)", got, c.ID())
	}
	// Non-null data tokens resolve to themselves.
	if got := c.NullResolution(); got != c.ID() {
		t.Errorf("4c resolves to %d, want itself", got)
	}

	// Nearest non-null caches skip the null.
	if got := c.NextNonNullData(); len(got) != 1 || got[0] != dTok.ID() {
		t.Errorf("NextNonNullData(4c) = %v, want [%d]", got, dTok.ID())
	}
	if got := dTok.PreviousNonNullData(); len(got) != 1 || got[0] != c.ID() {
		t.Errorf("PreviousNonNullData(4d) = %v, want [%d]", got, c.ID())
	}

	// Resolution is idempotent: a second structure pass is a no-op and
	// the antecedent does not move.
	if err := d.AnalyzeStructure(); err != nil {
		t.Fatalf("second AnalyzeStructure: %v", err)
	}
	if got := null.NullResolution(); got != c.ID() {
		t.Errorf("after re-analysis null resolves to %d, want %d", got, c.ID())
	}
	if got := null.NullResolution(); got != c.ID() {
		t.Errorf("repeated query resolves to %d, want %d", got, c.ID())
	}
}

func TestAnalyzeStructure_PhaseGating(t *testing.T) {
	d := NewDocument()
	if err := d.AnalyzeStructure(); err != ErrPhaseOrder {
		t.Errorf("AnalyzeStructure before Parse = %v, want ErrPhaseOrder", err)
	}
	if _, err := d.SpineCount(); err != ErrPhaseNotRun {
		t.Errorf("SpineCount before structure = %v, want ErrPhaseNotRun", err)
	}
}
