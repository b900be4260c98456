package derivative

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		template    string
		pattern     Pattern
		occurrences int
		segments    []string
	}{
		{"CCO", PatternEmpty, 0, []string{"CCO"}},
		{"", PatternEmpty, 0, []string{""}},
		{"[R]C=C", PatternLeadingOnly, 1, []string{"", "C=C"}},
		{"[R]", PatternLeadingOnly, 1, []string{"", ""}},
		{"c1ccccc1[R]", PatternInteriorOnly, 1, []string{"c1ccccc1", ""}},
		{"A[R]B[R]C", PatternInteriorOnly, 2, []string{"A", "B", "C"}},
		{"[R]CC[R]", PatternLeadingAndInterior, 2, []string{"", "CC", ""}},
		{"[R][R][R]", PatternLeadingAndInterior, 3, []string{"", "", "", ""}},
	}
	for _, tc := range cases {
		t.Run(tc.template, func(t *testing.T) {
			c := Classify(tc.template, DefaultPlaceholder)
			assert.Equal(t, tc.pattern, c.Pattern)
			assert.Equal(t, tc.occurrences, c.Occurrences)
			assert.Equal(t, tc.segments, c.Segments)
			assert.Len(t, c.Segments, c.Occurrences+1)
		})
	}
}

func TestClassify_EmptyTokenNeverMatches(t *testing.T) {
	c := Classify("[R]CC", "")
	assert.Equal(t, PatternEmpty, c.Pattern)
	assert.Equal(t, []string{"[R]CC"}, c.Segments)
}

func TestClassify_CustomToken(t *testing.T) {
	c := Classify("*CC*", "*")
	assert.Equal(t, PatternLeadingAndInterior, c.Pattern)
	assert.Equal(t, 1, c.InteriorSites())
}

func TestClassification_InteriorSites(t *testing.T) {
	assert.Equal(t, 0, Classify("CC", DefaultPlaceholder).InteriorSites())
	assert.Equal(t, 0, Classify("[R]CC", DefaultPlaceholder).InteriorSites())
	assert.Equal(t, 2, Classify("C[R]C[R]", DefaultPlaceholder).InteriorSites())
	assert.Equal(t, 2, Classify("[R]C[R]C[R]", DefaultPlaceholder).InteriorSites())
}

func TestPattern_Names(t *testing.T) {
	assert.Equal(t, "empty", PatternEmpty.String())
	assert.Equal(t, "leading_only", PatternLeadingOnly.String())
	assert.Equal(t, "interior_only", PatternInteriorOnly.String())
	assert.Equal(t, "leading_and_interior", PatternLeadingAndInterior.String())
	assert.Equal(t, "Pattern(9)", Pattern(9).String())

	assert.True(t, PatternLeadingOnly.HasLeading())
	assert.True(t, PatternLeadingAndInterior.HasLeading())
	assert.False(t, PatternInteriorOnly.HasLeading())
	assert.False(t, PatternEmpty.HasLeading())
}

func TestPattern_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Classify("[R]C", DefaultPlaceholder))
	assert.NoError(t, err)
	assert.JSONEq(t, `{"pattern":"leading_only","segments":["","C"],"occurrences":1}`, string(b))
}

func TestPattern_UnmarshalJSON(t *testing.T) {
	var ev BatchGenerated
	require.NoError(t, json.Unmarshal([]byte(`{"pattern":"interior_only","count":3}`), &ev))
	assert.Equal(t, PatternInteriorOnly, ev.Pattern)
	assert.Equal(t, 3, ev.Count)

	assert.Error(t, json.Unmarshal([]byte(`{"pattern":"sideways"}`), &ev))
}

//Personal.AI order the ending
