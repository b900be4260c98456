//go:build property
// +build property

package derivative

import (
	"fmt"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/turtacn/dockprep/internal/domain/substituent"
)

func buildTable(forms []string) *substituent.Table {
	entries := make([]substituent.Entry, len(forms))
	for i, f := range forms {
		entries[i] = substituent.Entry{Label: fmt.Sprintf("s%d", i), Interior: f, Leading: "L" + f}
	}
	return substituent.NewTable(entries...)
}

// TestExpansionProperties checks the derivative count law and ordering.
func TestExpansionProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	formGen := gen.SliceOfN(4, gen.RegexMatch(`^[A-Z][a-z]?$`))

	properties.Property("interior only yields n^r", prop.ForAll(
		func(forms []string, r int) bool {
			e, err := NewExpander(buildTable(forms))
			if err != nil {
				return false
			}
			tpl := "C" + strings.Repeat("[R]C", r)
			got := e.Expand(tpl)
			want := 1
			for i := 0; i < r; i++ {
				want *= len(forms)
			}
			return len(got) == want && int64(want) == e.Count(tpl)
		},
		formGen,
		gen.IntRange(1, 4),
	))

	properties.Property("leading and interior yields m*n^(r-1)", prop.ForAll(
		func(forms []string, r int) bool {
			e, err := NewExpander(buildTable(forms))
			if err != nil {
				return false
			}
			tpl := "[R]" + strings.Repeat("C[R]", r-1)
			want := len(forms)
			for i := 0; i < r-1; i++ {
				want *= len(forms)
			}
			return len(e.Expand(tpl)) == want
		},
		formGen,
		gen.IntRange(2, 4),
	))

	properties.Property("leading only uses leading forms in table order", prop.ForAll(
		func(forms []string) bool {
			e, err := NewExpander(buildTable(forms))
			if err != nil {
				return false
			}
			got := e.Expand("[R]N")
			if len(got) != len(forms) {
				return false
			}
			for i, f := range forms {
				if got[i] != "L"+f+"N" {
					return false
				}
			}
			return true
		},
		formGen,
	))

	properties.Property("first derivative uses the first form everywhere", prop.ForAll(
		func(forms []string, r int) bool {
			e, err := NewExpander(buildTable(forms))
			if err != nil {
				return false
			}
			got := e.Expand("O" + strings.Repeat("[R]", r))
			return len(got) > 0 && got[0] == "O"+strings.Repeat("("+forms[0]+")", r)
		},
		formGen,
		gen.IntRange(1, 3),
	))

	properties.Property("templates without placeholders expand to nothing", prop.ForAll(
		func(forms []string, tpl string) bool {
			e, err := NewExpander(buildTable(forms))
			if err != nil {
				return false
			}
			return len(e.Expand(tpl)) == 0 && e.Count(tpl) == 0
		},
		formGen,
		gen.RegexMatch(`^[A-Za-z0-9=()#]{0,12}$`),
	))

	properties.TestingRun(t)
}

//Personal.AI order the ending
