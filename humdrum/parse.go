package humdrum

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// maxLineSize bounds a single record; Humdrum lines are short, but
// embedded global comments can carry long text.
const maxLineSize = 1 << 20

// Parse reads records from r, splits them into lines and tokens, and
// collects reference records, signifier definitions, and global layout
// parameters. It is the first phase of the pipeline and may be called
// only once per document.
func (d *Document) Parse(r io.Reader) error {
	if d.has(phaseParse) {
		return ErrPhaseOrder
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)

	var pendingGlobal []*ParamSet
	for scanner.Scan() {
		text := strings.TrimSuffix(scanner.Text(), "\r")
		line := newLine(len(d.lines), text)
		d.lines = append(d.lines, line)

		switch {
		case line.kind == LineEmpty:
			// no tokens

		case line.kind == LineGlobalComment:
			// A global comment is kept as a single token for the whole
			// line, tabs included.
			d.appendToken(line, text)
			d.parseGlobalComment(line)
			if ps := parseLayoutParams(text); ps != nil {
				pendingGlobal = append(pendingGlobal, ps)
			}

		default:
			for _, field := range strings.Split(text, "\t") {
				d.appendToken(line, field)
			}
			line.params = pendingGlobal
			pendingGlobal = nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("humdrum: read: %w", err)
	}

	d.done |= phaseParse
	return nil
}

// appendToken adds one token to the arena and to the line.
func (d *Document) appendToken(line *Line, text string) *Token {
	id := TokenID(len(d.tokens))
	tok := newToken(id, text, line.index, len(line.tokens), line.kind)
	d.tokens = append(d.tokens, tok)
	line.tokens = append(line.tokens, id)
	return tok
}

// parseGlobalComment extracts reference records (!!!KEY: value) and RDF
// signifier definitions from a global comment line.
func (d *Document) parseGlobalComment(line *Line) {
	text := line.text
	if !strings.HasPrefix(text, "!!!") {
		return
	}
	rest := text[3:]
	colon := strings.Index(rest, ":")
	if colon <= 0 {
		return
	}
	key := strings.TrimSpace(rest[:colon])
	value := strings.TrimSpace(rest[colon+1:])
	d.refs = append(d.refs, RefRecord{Key: key, Value: value, Line: line.index})

	if strings.HasPrefix(key, "RDF**") {
		d.signifiers.add(strings.TrimPrefix(key, "RDF**"), value)
	}
}
