package humdrum

import (
	"fmt"
	"math/big"
	"strings"
)

// Rational is an exact fraction used for all timing in the package:
// durations, line start times, barline offsets and tempo ratios, all in
// quarter-note units. The zero value is 0/1.
//
// Rational is a value type; arithmetic methods return new values and
// never mutate their receivers. The denominator is always positive and
// the fraction is always reduced to lowest terms.
type Rational struct {
	r *big.Rat
}

// NewRational creates the fraction num/den. It panics if den is zero.
func NewRational(num, den int64) Rational {
	if den == 0 {
		panic("humdrum: rational with zero denominator")
	}
	return Rational{r: big.NewRat(num, den)}
}

// RationalFromInt creates the whole number n as a fraction n/1.
func RationalFromInt(n int64) Rational {
	return Rational{r: big.NewRat(n, 1)}
}

// RationalZero returns 0/1.
func RationalZero() Rational {
	return Rational{}
}

// RationalUnset returns the sentinel used for "not rhythmic" or "not yet
// analyzed" timing fields: -1/1. Callers should test with IsUnset rather
// than comparing against a literal.
func RationalUnset() Rational {
	return Rational{r: big.NewRat(-1, 1)}
}

// ParseRational parses "n", "-n", or "n/d" into a Rational.
func ParseRational(s string) (Rational, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Rational{}, fmt.Errorf("humdrum: empty rational")
	}
	r := new(big.Rat)
	if _, ok := r.SetString(s); !ok {
		return Rational{}, fmt.Errorf("humdrum: invalid rational %q", s)
	}
	return Rational{r: r}, nil
}

// rat returns the backing big.Rat, substituting zero for the zero value.
func (q Rational) rat() *big.Rat {
	if q.r == nil {
		return new(big.Rat)
	}
	return q.r
}

// Num returns the reduced numerator.
func (q Rational) Num() int64 { return q.rat().Num().Int64() }

// Den returns the reduced denominator (always > 0).
func (q Rational) Den() int64 { return q.rat().Denom().Int64() }

// Add returns q + o.
func (q Rational) Add(o Rational) Rational {
	return Rational{r: new(big.Rat).Add(q.rat(), o.rat())}
}

// Sub returns q - o.
func (q Rational) Sub(o Rational) Rational {
	return Rational{r: new(big.Rat).Sub(q.rat(), o.rat())}
}

// Mul returns q * o.
func (q Rational) Mul(o Rational) Rational {
	return Rational{r: new(big.Rat).Mul(q.rat(), o.rat())}
}

// Div returns q / o. It panics if o is zero.
func (q Rational) Div(o Rational) Rational {
	if o.IsZero() {
		panic("humdrum: rational division by zero")
	}
	return Rational{r: new(big.Rat).Quo(q.rat(), o.rat())}
}

// Neg returns -q.
func (q Rational) Neg() Rational {
	return Rational{r: new(big.Rat).Neg(q.rat())}
}

// Cmp compares q and o exactly: -1 if q < o, 0 if equal, +1 if q > o.
func (q Rational) Cmp(o Rational) int { return q.rat().Cmp(o.rat()) }

// Equal reports whether q and o are the same fraction.
func (q Rational) Equal(o Rational) bool { return q.Cmp(o) == 0 }

// Less reports q < o.
func (q Rational) Less(o Rational) bool { return q.Cmp(o) < 0 }

// Sign returns -1, 0, or +1.
func (q Rational) Sign() int { return q.rat().Sign() }

// IsZero reports whether q is exactly zero.
func (q Rational) IsZero() bool { return q.rat().Sign() == 0 }

// IsUnset reports whether q is negative, the sentinel state for timing
// fields that have not been analyzed (or that have no rhythmic meaning).
func (q Rational) IsUnset() bool { return q.rat().Sign() < 0 }

// Max returns the larger of q and o.
func (q Rational) Max(o Rational) Rational {
	if q.Cmp(o) >= 0 {
		return q
	}
	return o
}

// Min returns the smaller of q and o.
func (q Rational) Min(o Rational) Rational {
	if q.Cmp(o) <= 0 {
		return q
	}
	return o
}

// Float64 returns the nearest float64. Only for display; never used in
// analysis comparisons.
func (q Rational) Float64() float64 {
	f, _ := q.rat().Float64()
	return f
}

// String renders "n" for whole values and "n/d" otherwise.
func (q Rational) String() string {
	r := q.rat()
	if r.IsInt() {
		return r.Num().String()
	}
	return r.RatString()
}
