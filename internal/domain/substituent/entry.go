// Package substituent loads R-group substituent definitions from the flat,
// line-oriented definition format and resolves them into the position-specific
// SMILES fragments used by the derivative expander.
//
// Definition file grammar (UTF-8, one entry per line):
//
//	# comment line, ignored
//	<blank line, ignored>
//	H...                   any line starting with H: one empty-string entry
//	label = value          interior = value, leading = value
//	label = value = alt    interior = value, leading = alt
//
// Fields are separated by " = " (space, equals, space) because SMILES
// fragments themselves contain '=' for double bonds.
package substituent

import (
	"fmt"
	"strings"

	"github.com/turtacn/dockprep/pkg/errors"
)

// HydrogenLabel is the reserved prefix meaning "no substituent".  Every
// definition line starting with it contributes one empty-string entry.
const HydrogenLabel = "H"

// Position selects which encoding of a substituent is used.
type Position int

const (
	// Interior is any placeholder that is not the first token of the template.
	Interior Position = iota
	// Leading is a placeholder at the very start of the template.
	Leading
)

func (p Position) String() string {
	switch p {
	case Interior:
		return "interior"
	case Leading:
		return "leading"
	default:
		return fmt.Sprintf("Position(%d)", int(p))
	}
}

// ParsePosition converts "interior" / "leading" (case-insensitive) to a
// Position.
func ParsePosition(s string) (Position, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "interior", "0":
		return Interior, nil
	case "leading", "1":
		return Leading, nil
	default:
		return Interior, errors.New(errors.ErrCodeSubstituentPositionUnknown, "unknown substituent position").
			WithDetail(s)
	}
}

// Entry is one substituent definition.
type Entry struct {
	Label    string `json:"label"`
	Interior string `json:"interior"`
	Leading  string `json:"leading"`
}

// Form returns the encoding of e for the given position.
func (e Entry) Form(pos Position) string {
	if pos == Leading {
		return e.Leading
	}
	return e.Interior
}

// IsHydrogen reports whether e is a "no substituent" entry.
func (e Entry) IsHydrogen() bool { return strings.HasPrefix(e.Label, HydrogenLabel) }

//Personal.AI order the ending
