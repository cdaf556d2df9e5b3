package humdrum

import (
	"errors"
	"fmt"
)

// Errors returned by the phased pipeline.
var (
	// ErrPhaseNotRun is returned by queries that depend on an analysis
	// phase that has not been executed yet.
	ErrPhaseNotRun = errors.New("humdrum: required analysis phase has not run")

	// ErrPhaseOrder is returned when a phase is invoked before its
	// prerequisite phases.
	ErrPhaseOrder = errors.New("humdrum: analysis phases invoked out of order")
)

// DiagCode is a machine-readable diagnostic category.
type DiagCode string

const (
	// Spine topology errors.
	DiagFieldCount       DiagCode = "field-count"       // token count does not match open sub-spines
	DiagBadManipulator   DiagCode = "bad-manipulator"   // malformed or misplaced manipulator
	DiagBadExchange      DiagCode = "bad-exchange"      // *x count on a line is not exactly two
	DiagMissingExclusive DiagCode = "missing-exclusive" // spined line before any **type
	DiagDanglingSpine    DiagCode = "dangling-spine"    // spine not closed by a terminator

	// Rhythm consistency errors.
	DiagRhythmMismatch DiagCode = "rhythm-mismatch" // convergent paths disagree on a line start
)

// Diagnostic is one collected parse or analysis problem: a named error
// with the line number and offending text. Diagnostics mark the document
// invalid but do not stop analysis where continuing is feasible.
type Diagnostic struct {
	Code    DiagCode
	Line    int    // zero-based line index; -1 when not line-specific
	Text    string // offending line or token text
	Message string
}

func (d Diagnostic) Error() string {
	if d.Line >= 0 {
		return fmt.Sprintf("humdrum: %s at line %d: %s (%q)", d.Code, d.Line+1, d.Message, d.Text)
	}
	return fmt.Sprintf("humdrum: %s: %s", d.Code, d.Message)
}
