package humdrum

import "testing"

func TestAnalyzeRhythm_LineTiming(t *testing.T) {
	d, err := ParseString(chorale)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if !d.IsValid() {
		t.Fatalf("document invalid: %v", d.Diagnostics())
	}

	total, err := d.TotalDuration()
	if err != nil {
		t.Fatalf("TotalDuration: %v", err)
	}
	if !total.Equal(RationalFromInt(8)) {
		t.Errorf("TotalDuration() = %s, want 8", total)
	}

	// Line starts in quarter notes from the beginning.
	wantStarts := []int64{0, 0, 0, 0, 0, 0, 1, 2, 4, 4, 8, 8}
	for i, want := range wantStarts {
		got := d.Line(i).DurationFromStart()
		if !got.Equal(RationalFromInt(want)) {
			t.Errorf("line %d start = %s, want %d", i, got, want)
		}
	}

	// Data line durations span to the next spined line.
	if got := d.Line(5).Duration(); !got.Equal(RationalFromInt(1)) {
		t.Errorf("line 5 duration = %s, want 1", got)
	}
	if got := d.Line(7).Duration(); !got.Equal(RationalFromInt(2)) {
		t.Errorf("line 7 duration = %s, want 2", got)
	}
	if got := d.Line(9).Duration(); !got.Equal(RationalFromInt(4)) {
		t.Errorf("line 9 duration = %s, want 4", got)
	}
}

func TestAnalyzeRhythm_BarlineOffsets(t *testing.T) {
	d, err := ParseString(chorale)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}

	// 2e at line 7: two quarters into measure 1, a half note before =2.
	if got := d.Line(7).DurationFromBarline(); !got.Equal(RationalFromInt(2)) {
		t.Errorf("line 7 from barline = %s, want 2", got)
	}
	if got := d.Line(7).DurationToBarline(); !got.Equal(RationalFromInt(2)) {
		t.Errorf("line 7 to barline = %s, want 2", got)
	}
	// 1f at line 9 opens measure 2 and fills it.
	if got := d.Line(9).DurationFromBarline(); !got.IsZero() {
		t.Errorf("line 9 from barline = %s, want 0", got)
	}
	if got := d.Line(9).DurationToBarline(); !got.Equal(RationalFromInt(4)) {
		t.Errorf("line 9 to barline = %s, want 4", got)
	}
	// Barlines themselves sit at zero offset on both sides.
	if got := d.Line(8).DurationFromBarline(); !got.IsZero() {
		t.Errorf("barline from barline = %s, want 0", got)
	}
	if got := d.Line(8).DurationToBarline(); !got.IsZero() {
		t.Errorf("barline to barline = %s, want 0", got)
	}
}

func TestAnalyzeRhythm_DiamondConsistency(t *testing.T) {
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
		t.Fatalf("split/merge timing flagged: %v", d.Diagnostics())
	}
	wantStarts := []int64{0, 0, 0, 1, 2, 2, 4}
	for i, want := range wantStarts {
		got := d.Line(i).DurationFromStart()
		if !got.Equal(RationalFromInt(want)) {
			t.Errorf("line %d start = %s, want %d", i, got, want)
		}
	}
	total, _ := d.TotalDuration()
	if !total.Equal(RationalFromInt(4)) {
		t.Errorf("TotalDuration() = %s, want 4", total)
	}
}

func TestAnalyzeRhythm_MismatchDiagnostic(t *testing.T) {
	input := `**kern
*^
4c	2cc
4d	4dd
*v	*v
*-
`
	d, err := ParseString(input)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if d.IsValid() {
		t.Fatal("inconsistent branch timing not flagged")
	}
	found := false
	for _, diag := range d.Diagnostics() {
		if diag.Code == DiagRhythmMismatch {
			found = true
		}
	}
	if !found {
		t.Errorf("no rhythm-mismatch diagnostic; got %v", d.Diagnostics())
	}
}

func TestAnalyzeRhythm_FloatingSpine(t *testing.T) {
	input := "**kern\n4c\n*+\n*\t**kern\n4d\t4dd\n*-\t*-\n"
	d, err := ParseString(input)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if !d.IsValid() {
		t.Fatalf("floating spine flagged: %v", d.Diagnostics())
	}
	// The added spine anchors on the already-timed line it opens on.
	if got := d.Line(3).DurationFromStart(); !got.Equal(RationalFromInt(1)) {
		t.Errorf("added spine opening line start = %s, want 1", got)
	}
	total, _ := d.TotalDuration()
	if !total.Equal(RationalFromInt(2)) {
		t.Errorf("TotalDuration() = %s, want 2", total)
	}
}

func TestAnalyzeRhythm_NonRhythmicSpineFollows(t *testing.T) {
	input := "**kern\t**text\n4c\thel-\n4d\t-lo\n*-\t*-\n"
	d, err := ParseString(input)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if !d.IsValid() {
		t.Fatalf("lyric spine flagged: %v", d.Diagnostics())
	}
	// Lyric text never contributes durations; timing comes from **kern.
	if got := d.TokenAt(1, 1).Duration(); !got.IsUnset() {
		t.Errorf("lyric token duration = %s, want unset", got)
	}
	if got := d.Line(2).DurationFromStart(); !got.Equal(RationalFromInt(1)) {
		t.Errorf("line 2 start = %s, want 1", got)
	}
	total, _ := d.TotalDuration()
	if !total.Equal(RationalFromInt(2)) {
		t.Errorf("TotalDuration() = %s, want 2", total)
	}
}

func TestAnalyzeRhythm_GraceLines(t *testing.T) {
	input := "**kern\n4c\n8qd\n4e\n*-\n"
	d, err := ParseString(input)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	// The grace line occupies no time: it starts where the next line does.
	if got := d.Line(2).DurationFromStart(); !got.Equal(RationalFromInt(1)) {
		t.Errorf("grace line start = %s, want 1", got)
	}
	if got := d.Line(2).Duration(); !got.IsZero() {
		t.Errorf("grace line duration = %s, want 0", got)
	}
	total, _ := d.TotalDuration()
	if !total.Equal(RationalFromInt(2)) {
		t.Errorf("TotalDuration() = %s, want 2", total)
	}
}

func TestAnalyzeRhythm_TokenDurations(t *testing.T) {
	d, err := ParseString(chorale)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if got := d.TokenAt(5, 0).Duration(); !got.Equal(RationalFromInt(1)) {
		t.Errorf("duration of 4c = %s, want 1", got)
	}
	if got := d.TokenAt(7, 0).Duration(); !got.Equal(RationalFromInt(2)) {
		t.Errorf("duration of 2e = %s, want 2", got)
	}
	// Interpretations and barlines pass time through unchanged.
	if got := d.TokenAt(4, 0).Duration(); !got.IsZero() {
		t.Errorf("duration of barline token = %s, want 0", got)
	}
}
