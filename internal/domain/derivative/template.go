// Package derivative classifies R-group templates and expands them into every
// substituted derivative.  A template is a SMILES-like string in which a fixed
// placeholder token (by default "[R]") marks each substitution site.
package derivative

import (
	"fmt"
	"strings"
)

// DefaultPlaceholder is the token that marks a substitution site.
const DefaultPlaceholder = "[R]"

// Pattern is the placeholder layout of a template.  It is decided once by
// Classify and consumed by a single exhaustive switch in the expander.
type Pattern int

const (
	// PatternEmpty: the template has no placeholder and yields no derivatives.
	PatternEmpty Pattern = iota
	// PatternLeadingOnly: exactly one placeholder, at the start of the template.
	PatternLeadingOnly
	// PatternInteriorOnly: one or more placeholders, all after a fixed prefix.
	PatternInteriorOnly
	// PatternLeadingAndInterior: a leading placeholder plus one or more interior ones.
	PatternLeadingAndInterior
)

var patternNames = map[Pattern]string{
	PatternEmpty:              "empty",
	PatternLeadingOnly:        "leading_only",
	PatternInteriorOnly:       "interior_only",
	PatternLeadingAndInterior: "leading_and_interior",
}

func (p Pattern) String() string {
	if name, ok := patternNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Pattern(%d)", int(p))
}

// MarshalText renders the pattern name in JSON and YAML output.
func (p Pattern) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText accepts the names produced by MarshalText.
func (p *Pattern) UnmarshalText(text []byte) error {
	v, err := ParsePattern(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ParsePattern returns the Pattern with the given name.
func ParsePattern(name string) (Pattern, error) {
	for p, n := range patternNames {
		if n == name {
			return p, nil
		}
	}
	return PatternEmpty, fmt.Errorf("unknown template pattern %q", name)
}

// HasLeading reports whether the first placeholder sits at the template start.
func (p Pattern) HasLeading() bool {
	return p == PatternLeadingOnly || p == PatternLeadingAndInterior
}

// Classification is the result of splitting a template on its placeholder.
type Classification struct {
	Pattern Pattern `json:"pattern"`
	// Segments holds the fixed text around the placeholders; it always has
	// Occurrences+1 elements.
	Segments    []string `json:"segments"`
	Occurrences int      `json:"occurrences"`
}

// InteriorSites returns the number of placeholders filled with interior forms.
func (c Classification) InteriorSites() int {
	switch c.Pattern {
	case PatternInteriorOnly:
		return c.Occurrences
	case PatternLeadingAndInterior:
		return c.Occurrences - 1
	default:
		return 0
	}
}

// Classify splits template on every occurrence of token and determines its
// Pattern.  An empty token never matches, so the template classifies as
// PatternEmpty.
func Classify(template, token string) Classification {
	if token == "" {
		return Classification{Pattern: PatternEmpty, Segments: []string{template}}
	}

	segments := strings.Split(template, token)
	c := Classification{Segments: segments, Occurrences: len(segments) - 1}

	switch {
	case c.Occurrences == 0:
		c.Pattern = PatternEmpty
	case segments[0] != "":
		c.Pattern = PatternInteriorOnly
	case c.Occurrences == 1:
		c.Pattern = PatternLeadingOnly
	default:
		c.Pattern = PatternLeadingAndInterior
	}
	return c
}

//Personal.AI order the ending
