package substituent

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/turtacn/dockprep/pkg/errors"
)

// fieldSeparator splits a definition line into label and value fields.
const fieldSeparator = " = "

const utf8BOM = "\ufeff"

// ParseError describes one malformed definition line.
type ParseError struct {
	Line    int    // 1-based line number
	Content string // raw line content
	Reason  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Content)
}

// Table is an ordered, immutable collection of substituent entries.
type Table struct {
	entries []Entry
	skipped []*ParseError
}

// NewTable builds a Table from entries, preserving their order.
func NewTable(entries ...Entry) *Table {
	cp := make([]Entry, len(entries))
	copy(cp, entries)
	for i := range cp {
		if cp[i].IsHydrogen() {
			cp[i].Interior, cp[i].Leading = "", ""
		}
	}
	return &Table{entries: cp}
}

// Len returns the number of entries.
func (t *Table) Len() int { return len(t.entries) }

// Entries returns a copy of the entries in file order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Forms resolves every entry for pos, in table order.
func (t *Table) Forms(pos Position) []string {
	out := make([]string, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.Form(pos)
	}
	return out
}

// Lookup returns the first entry with the given label.
func (t *Table) Lookup(label string) (Entry, bool) {
	for _, e := range t.entries {
		if e.Label == label {
			return e, true
		}
	}
	return Entry{}, false
}

// Skipped returns the malformed lines ignored by a lenient parse.
func (t *Table) Skipped() []*ParseError {
	out := make([]*ParseError, len(t.skipped))
	copy(out, t.skipped)
	return out
}

// Equal reports whether both tables hold the same entries in the same order.
func (t *Table) Equal(other *Table) bool {
	if t == nil || other == nil {
		return t == other
	}
	if len(t.entries) != len(other.entries) {
		return false
	}
	for i := range t.entries {
		if t.entries[i] != other.entries[i] {
			return false
		}
	}
	return true
}

// Digest returns a stable hex fingerprint of the table contents.  Two tables
// are Equal exactly when their digests match.
func (t *Table) Digest() string {
	h := sha256.New()
	for _, e := range t.entries {
		fmt.Fprintf(h, "%s\x00%s\x00%s\n", e.Label, e.Interior, e.Leading)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ─────────────────────────────────────────────────────────────────────────────
// Parsing
// ─────────────────────────────────────────────────────────────────────────────

type parseOptions struct {
	lenient bool
	source  string
}

// ParseOption customises Parse.
type ParseOption func(*parseOptions)

// WithLenient skips malformed lines instead of failing the load.  Skipped
// lines are reported by Table.Skipped.
func WithLenient() ParseOption {
	return func(o *parseOptions) { o.lenient = true }
}

// WithSourceName names the resource in error details.
func WithSourceName(name string) ParseOption {
	return func(o *parseOptions) { o.source = name }
}

// Parse reads a definition resource into a Table.  In the default strict mode
// the first malformed line aborts the load with an ErrCodeSubstituentMalformedLine
// error wrapping a *ParseError.
func Parse(r io.Reader, opts ...ParseOption) (*Table, error) {
	o := parseOptions{source: "substituents"}
	for _, opt := range opts {
		opt(&o)
	}

	t := &Table{}
	seen := make(map[string]int)
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		raw := sc.Text()
		if lineNo == 1 {
			raw = strings.TrimPrefix(raw, utf8BOM)
		}
		entry, ok, perr := parseLine(lineNo, raw)
		if perr == nil && ok && !entry.IsHydrogen() {
			if first, dup := seen[entry.Label]; dup {
				perr = &ParseError{Line: lineNo, Content: raw,
					Reason: fmt.Sprintf("duplicate label %q (first defined on line %d)", entry.Label, first)}
			} else {
				seen[entry.Label] = lineNo
			}
		}
		if perr != nil {
			if o.lenient {
				t.skipped = append(t.skipped, perr)
				continue
			}
			return nil, errors.New(errors.ErrCodeSubstituentMalformedLine, "malformed substituent definition line").
				WithDetail(fmt.Sprintf("%s:%d", o.source, perr.Line)).
				WithCause(perr)
		}
		if ok {
			t.entries = append(t.entries, entry)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSubstituentSourceUnreadable, "failed to read substituent definitions").
			WithDetail(o.source)
	}
	return t, nil
}

// parseLine classifies one raw line.  ok is false for comments and blanks.
func parseLine(lineNo int, raw string) (entry Entry, ok bool, perr *ParseError) {
	line := strings.TrimRight(raw, "\r")
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return Entry{}, false, nil
	}

	parts := strings.Split(trimmed, fieldSeparator)
	label := strings.TrimSpace(parts[0])
	// Any line starting with H is hydrogen, whatever follows.
	if strings.HasPrefix(trimmed, HydrogenLabel) {
		return Entry{Label: label}, true, nil
	}

	values := parts[1:]
	switch {
	case label == "":
		return Entry{}, false, &ParseError{Line: lineNo, Content: raw, Reason: "missing label"}
	case len(values) != 1 && len(values) != 2:
		return Entry{}, false, &ParseError{Line: lineNo, Content: raw,
			Reason: fmt.Sprintf("expected 1 or 2 value fields, got %d", len(values))}
	}

	interior := strings.TrimSpace(values[0])
	leading := interior
	if len(values) == 2 {
		leading = strings.TrimSpace(values[1])
	}
	if interior == "" || leading == "" {
		return Entry{}, false, &ParseError{Line: lineNo, Content: raw, Reason: "empty value field"}
	}
	return Entry{Label: label, Interior: interior, Leading: leading}, true, nil
}

// Load reads a definition resource and resolves it for pos, preserving file
// order.  Hydrogen lines contribute the empty string.
func Load(r io.Reader, pos Position) ([]string, error) {
	t, err := Parse(r)
	if err != nil {
		return nil, err
	}
	return t.Forms(pos), nil
}

// LoadFile parses the definition file at path.  A missing file is reported
// with ErrCodeSubstituentSourceNotFound.
func LoadFile(path string, opts ...ParseOption) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeSubstituentSourceNotFound, "substituent definition file not found").
				WithDetail(path).
				WithCause(err)
		}
		return nil, errors.Wrap(err, errors.ErrCodeSubstituentSourceUnreadable, "failed to open substituent definitions").
			WithDetail(path)
	}
	defer f.Close()

	opts = append([]ParseOption{WithSourceName(path)}, opts...)
	return Parse(f, opts...)
}

//Personal.AI order the ending
