package substituent

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/dockprep/pkg/errors"
)

const sampleDefinitions = `# comment
H

methyl = C
hydroxy = O = OC
vinyl = C=C = C=CC
`

func TestLoad_InteriorUsesFirstValue(t *testing.T) {
	forms, err := Load(strings.NewReader(sampleDefinitions), Interior)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "C", "O", "C=C"}, forms)
}

func TestLoad_LeadingPrefersAlternate(t *testing.T) {
	forms, err := Load(strings.NewReader(sampleDefinitions), Leading)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "C", "OC", "C=CC"}, forms)
}

func TestParse_HydrogenAlwaysEmpty(t *testing.T) {
	cases := []string{
		"H",
		"H = [H]",
		"H = [H] = [H]",
		"  H  ",
	}
	for _, line := range cases {
		t.Run(line, func(t *testing.T) {
			tbl, err := Parse(strings.NewReader(line))
			require.NoError(t, err)
			require.Equal(t, 1, tbl.Len())
			e := tbl.Entries()[0]
			assert.True(t, e.IsHydrogen())
			assert.Equal(t, "", e.Form(Interior))
			assert.Equal(t, "", e.Form(Leading))
		})
	}
}

func TestParse_LinesStartingWithHAreHydrogen(t *testing.T) {
	src := "H\nHO = O\nHalo = Cl = ClC\nHx\nF = F\n"

	leading, err := Load(strings.NewReader(src), Leading)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "", "", "", "F"}, leading)

	interior, err := Load(strings.NewReader(src), Interior)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "", "", "", "F"}, interior)

	tbl, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	e, ok := tbl.Lookup("HO")
	require.True(t, ok)
	assert.True(t, e.IsHydrogen())
	assert.Equal(t, "", e.Form(Interior))
	assert.Equal(t, "", e.Form(Leading))
	assert.Empty(t, tbl.Skipped())
}

func TestParse_SkipsCommentsBlanksAndCRLF(t *testing.T) {
	src := "\ufeff# header\r\n\r\n   \r\nF = F\r\n  # indented comment\r\nCl = Cl\r\n"
	tbl, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []string{"F", "Cl"}, tbl.Forms(Interior))
}

func TestParse_MalformedLines(t *testing.T) {
	cases := []struct {
		name    string
		src     string
		line    int
		content string
	}{
		{"no value field", "F = F\nchloro\n", 2, "chloro"},
		{"no spaced separator", "F=F\n", 1, "F=F"},
		{"three value fields", "# c\nX = a = b = c\n", 2, "X = a = b = c"},
		{"empty label", " = C\n", 1, " = C"},
		{"duplicate label", "F = F\nF = [F]\n", 2, "F = [F]"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tbl, err := Parse(strings.NewReader(tc.src))
			require.Error(t, err)
			assert.Nil(t, tbl)
			assert.True(t, errors.IsCode(err, errors.ErrCodeSubstituentMalformedLine))

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tc.line, perr.Line)
			assert.Equal(t, tc.content, perr.Content)
		})
	}
}

func TestParse_LenientSkipsMalformed(t *testing.T) {
	src := "F = F\nbroken\nCl = Cl\nX = a = b = c\n"
	tbl, err := Parse(strings.NewReader(src), WithLenient())
	require.NoError(t, err)
	assert.Equal(t, []string{"F", "Cl"}, tbl.Forms(Interior))

	skipped := tbl.Skipped()
	require.Len(t, skipped, 2)
	assert.Equal(t, 2, skipped[0].Line)
	assert.Equal(t, 4, skipped[1].Line)
}

func TestParse_IsIdempotent(t *testing.T) {
	a, err := Parse(strings.NewReader(sampleDefinitions))
	require.NoError(t, err)
	b, err := Parse(strings.NewReader(sampleDefinitions))
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Digest(), b.Digest())
	assert.Equal(t, a.Entries(), b.Entries())
}

func TestTable_DigestChangesWithOrder(t *testing.T) {
	a := NewTable(Entry{Label: "F", Interior: "F", Leading: "F"}, Entry{Label: "Cl", Interior: "Cl", Leading: "Cl"})
	b := NewTable(Entry{Label: "Cl", Interior: "Cl", Leading: "Cl"}, Entry{Label: "F", Interior: "F", Leading: "F"})
	assert.False(t, a.Equal(b))
	assert.NotEqual(t, a.Digest(), b.Digest())
}

func TestNewTable_NormalisesHydrogen(t *testing.T) {
	tbl := NewTable(Entry{Label: HydrogenLabel, Interior: "[H]", Leading: "[H]"})
	assert.Equal(t, []string{""}, tbl.Forms(Leading))
}

func TestTable_EntriesReturnsCopy(t *testing.T) {
	tbl := NewTable(Entry{Label: "F", Interior: "F", Leading: "F"})
	entries := tbl.Entries()
	entries[0].Interior = "mutated"
	assert.Equal(t, []string{"F"}, tbl.Forms(Interior))
}

func TestLoadFile(t *testing.T) {
	tbl, err := LoadFile(filepath.Join("testdata", "substituents.txt"))
	require.NoError(t, err)
	assert.Equal(t, []string{"", "C", "Br", "O", "C=C"}, tbl.Forms(Interior))
	assert.Equal(t, []string{"", "C", "Br", "OC", "C=CC"}, tbl.Forms(Leading))
}

func TestLoadFile_NotFound(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSubstituentSourceNotFound))
	assert.True(t, errors.IsNotFound(err))
}

func TestLoadFile_ErrorDetailNamesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.txt")
	require.NoError(t, os.WriteFile(path, []byte("F = F\noops\n"), 0o644))

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path+":2")
}

func TestParsePosition(t *testing.T) {
	p, err := ParsePosition("Leading")
	require.NoError(t, err)
	assert.Equal(t, Leading, p)

	p, err = ParsePosition("interior")
	require.NoError(t, err)
	assert.Equal(t, Interior, p)

	_, err = ParsePosition("middle")
	assert.True(t, errors.IsCode(err, errors.ErrCodeSubstituentPositionUnknown))

	assert.Equal(t, "leading", Leading.String())
	assert.Equal(t, "Position(7)", Position(7).String())
}

func TestDefaultDefinitionFileParses(t *testing.T) {
	tbl, err := LoadFile(filepath.Join("..", "..", "..", "configs", "substituents.txt"))
	require.NoError(t, err)
	assert.Greater(t, tbl.Len(), 10)
	assert.Empty(t, tbl.Skipped())

	cf3, ok := tbl.Lookup("CF3")
	require.True(t, ok)
	assert.Equal(t, "C(F)(F)F", cf3.Interior)
	assert.Equal(t, "FC(F)(F)", cf3.Leading)
}

//Personal.AI order the ending
