package humdrum

import "strings"

// recipDuration converts **recip rhythm text embedded in a token into an
// exact duration in quarter notes. The reciprocal base N means 4/N
// quarters; N%M means 4*M/N (tuplet ratio form); each trailing dot adds
// half of the previous value; "0" is a breve, "00" a longa, "000" a
// maxima; grace notes (q) have zero duration.
//
// Text with no parseable rhythm yields zero duration rather than an
// error. This lenience is deliberate and load-bearing: consumers treat
// zero-duration data tokens as non-rhythmic.
func recipDuration(text string) Rational {
	// Chord notes share the duration of the first subtoken.
	if i := strings.IndexByte(text, ' '); i >= 0 {
		text = text[:i]
	}
	if strings.ContainsRune(text, 'q') {
		return RationalZero()
	}

	// Locate the first digit run.
	start := -1
	for i := 0; i < len(text); i++ {
		if text[i] >= '0' && text[i] <= '9' {
			start = i
			break
		}
	}
	if start < 0 {
		return RationalZero()
	}
	end := start
	for end < len(text) && text[end] >= '0' && text[end] <= '9' {
		end++
	}
	run := text[start:end]

	var dur Rational
	switch {
	case allZeros(run):
		// 0 = breve (8 quarters), each further zero doubles.
		dur = RationalFromInt(8)
		for i := 1; i < len(run); i++ {
			dur = dur.Mul(RationalFromInt(2))
		}

	case end < len(text) && text[end] == '%':
		// N%M ratio form.
		mStart := end + 1
		mEnd := mStart
		for mEnd < len(text) && text[mEnd] >= '0' && text[mEnd] <= '9' {
			mEnd++
		}
		if mEnd == mStart {
			return RationalZero()
		}
		n := parseDigits(run)
		m := parseDigits(text[mStart:mEnd])
		if n == 0 {
			return RationalZero()
		}
		dur = NewRational(4*m, n)
		end = mEnd

	default:
		n := parseDigits(run)
		if n == 0 {
			return RationalZero()
		}
		dur = NewRational(4, n)
	}

	// Augmentation dots: each dot adds half of the previous addition.
	dots := 0
	for i := end; i < len(text); i++ {
		if text[i] == '.' {
			dots++
		}
	}
	if dots > 0 {
		// factor (2^(dots+1) - 1) / 2^dots
		num := int64(1)<<(dots+1) - 1
		den := int64(1) << dots
		dur = dur.Mul(NewRational(num, den))
	}
	return dur
}

func allZeros(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != '0' {
			return false
		}
	}
	return len(s) > 0
}

func parseDigits(s string) int64 {
	var n int64
	for i := 0; i < len(s); i++ {
		n = n*10 + int64(s[i]-'0')
	}
	return n
}
