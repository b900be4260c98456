package derivative

import (
	"math"
	"strings"

	"github.com/turtacn/dockprep/internal/domain/substituent"
	"github.com/turtacn/dockprep/pkg/errors"
)

// Expander enumerates every derivative of a template from one substituent
// table.  It is immutable and safe for concurrent use.
type Expander struct {
	placeholder string
	leading     []string
	interior    []string
}

// Option customises an Expander.
type Option func(*Expander)

// WithPlaceholder overrides DefaultPlaceholder.
func WithPlaceholder(token string) Option {
	return func(e *Expander) { e.placeholder = token }
}

// NewExpander resolves the leading and interior forms of table once and
// returns an Expander bound to them.
func NewExpander(table *substituent.Table, opts ...Option) (*Expander, error) {
	if table == nil {
		return nil, errors.InvalidParam("substituent table must not be nil")
	}
	e := &Expander{placeholder: DefaultPlaceholder}
	for _, opt := range opts {
		opt(e)
	}
	if strings.TrimSpace(e.placeholder) == "" {
		return nil, errors.New(errors.ErrCodeTemplatePlaceholderInvalid, "placeholder token must not be blank")
	}
	e.leading = table.Forms(substituent.Leading)
	e.interior = table.Forms(substituent.Interior)
	return e, nil
}

// Placeholder returns the token this Expander substitutes.
func (e *Expander) Placeholder() string { return e.placeholder }

// Classify classifies template with this Expander's placeholder.
func (e *Expander) Classify(template string) Classification {
	return Classify(template, e.placeholder)
}

// Expand returns every derivative of template in nested Cartesian order: the
// leading substituent varies slowest and the rightmost placeholder fastest.
// A template without placeholders, or an empty form list, yields an empty
// (non-nil) slice.
func (e *Expander) Expand(template string) []string {
	return e.ExpandClassified(e.Classify(template))
}

// ExpandClassified expands an already classified template.
func (e *Expander) ExpandClassified(c Classification) []string {
	out := make([]string, 0, clampCap(e.countClassified(c)))

	switch c.Pattern {
	case PatternEmpty:
		// no substitution sites

	case PatternLeadingOnly:
		for _, s := range e.leading {
			out = append(out, s+c.Segments[1])
		}

	case PatternInteriorOnly:
		cartesian(e.interior, c.Occurrences, func(tuple []string) {
			out = append(out, assemble(c.Segments[0], tuple, c.Segments[1:]))
		})

	case PatternLeadingAndInterior:
		for _, first := range e.leading {
			prefix := first + c.Segments[1]
			cartesian(e.interior, c.Occurrences-1, func(tuple []string) {
				out = append(out, assemble(prefix, tuple, c.Segments[2:]))
			})
		}
	}
	return out
}

// Count returns how many derivatives Expand would produce for template
// without materialising them.  The result saturates at math.MaxInt64.
func (e *Expander) Count(template string) int64 {
	return e.countClassified(e.Classify(template))
}

func (e *Expander) countClassified(c Classification) int64 {
	switch c.Pattern {
	case PatternLeadingOnly:
		return int64(len(e.leading))
	case PatternInteriorOnly:
		return power(int64(len(e.interior)), c.Occurrences)
	case PatternLeadingAndInterior:
		return saturatingMul(int64(len(e.leading)), power(int64(len(e.interior)), c.Occurrences-1))
	default:
		return 0
	}
}

// assemble writes prefix followed by "(s_i)" + tails[i] for every tuple element.
func assemble(prefix string, tuple, tails []string) string {
	n := len(prefix)
	for i, s := range tuple {
		n += len(s) + 2 + len(tails[i])
	}
	var sb strings.Builder
	sb.Grow(n)
	sb.WriteString(prefix)
	for i, s := range tuple {
		sb.WriteByte('(')
		sb.WriteString(s)
		sb.WriteByte(')')
		sb.WriteString(tails[i])
	}
	return sb.String()
}

// cartesian calls emit for every r-tuple over forms (repetition allowed), the
// last position varying fastest.  emit must not retain tuple.  With r == 0 it
// emits the empty tuple once; with no forms and r > 0 it emits nothing.
func cartesian(forms []string, r int, emit func(tuple []string)) {
	if r < 0 || (r > 0 && len(forms) == 0) {
		return
	}
	idx := make([]int, r)
	tuple := make([]string, r)
	for {
		for i, k := range idx {
			tuple[i] = forms[k]
		}
		emit(tuple)

		pos := r - 1
		for pos >= 0 {
			idx[pos]++
			if idx[pos] < len(forms) {
				break
			}
			idx[pos] = 0
			pos--
		}
		if pos < 0 {
			return
		}
	}
}

func power(base int64, exp int) int64 {
	result := int64(1)
	for i := 0; i < exp; i++ {
		result = saturatingMul(result, base)
	}
	return result
}

func saturatingMul(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	if a > math.MaxInt64/b {
		return math.MaxInt64
	}
	return a * b
}

// clampCap bounds the pre-allocation hint for very large expansions.
func clampCap(n int64) int {
	const maxPrealloc = 1 << 16
	if n > maxPrealloc {
		return maxPrealloc
	}
	return int(n)
}

//Personal.AI order the ending
