// Package humdrum implements an in-memory document model for the Humdrum
// musical-score syntax, together with the structural and rhythmic analysis
// passes that give the raw text its musical meaning.
//
// A Humdrum file is line-oriented and tab-delimited. Each column of the
// file is a "spine": a logical voice of information that starts at an
// exclusive interpretation such as **kern, may split into parallel
// sub-spines, remerge, swap position, or terminate. The package parses
// such text into a Document whose tokens form a directed graph over the
// spine topology, then layers analysis on top:
//
//   - Structure: manipulator linking (*^ split, *v merge, *x exchange,
//     *+ add, *- terminate), track/subtrack numbering, strand extraction,
//     and null-token resolution.
//   - Rhythm: exact rational timing propagated through the spine graph,
//     line start times, barline-relative offsets, floating-spine origins.
//   - Content: slur/phrase/tie pairing with elision levels, accidental
//     visibility, and layout-driven positioning hints.
//
// # Phased pipeline
//
// Analysis is explicit and ordered. Parse builds lines and tokens;
// AnalyzeStructure builds the spine graph; AnalyzeRhythm computes timing;
// AnalyzeContent runs the marker-pairing and visibility passes. Queries
// that depend on a phase that has not run return ErrPhaseNotRun rather
// than triggering analysis implicitly. ParseString runs every phase and
// is the usual entry point:
//
//	doc, err := humdrum.ParseString(text)
//	if err != nil { ... }
//	if !doc.IsValid() {
//	    for _, d := range doc.Diagnostics() { ... }
//	}
//
// # Token graph
//
// Tokens live in a per-document arena and are addressed by TokenID.
// Forward and backward links are stored as ID lists: a token has two
// forward links only immediately after a split, and more than one
// backward link only immediately after a merge. Null tokens ("." / "*" /
// "!") resolve to the nearest preceding non-null data token in the same
// spine via Token.NullResolution.
//
// # Timing
//
// All durations and offsets are exact Rational values in quarter-note
// units. There is no floating-point accumulation anywhere in the
// analysis; equality of two times is exact equality of fractions.
package humdrum
