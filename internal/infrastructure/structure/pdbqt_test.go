package structure

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/dockprep/pkg/errors"
)

func openTestdata(t *testing.T, name string) *os.File {
	t.Helper()
	f, err := os.Open(filepath.Join("testdata", name))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestBackbone_SkipsHydrogen(t *testing.T) {
	names, err := Backbone(openTestdata(t, "single.pdb"))
	require.NoError(t, err)
	assert.Equal(t, []string{"N", "CA"}, names)
}

func TestLigandPositions_FixedColumns(t *testing.T) {
	pos, err := LigandPositions(openTestdata(t, "single.pdb"))
	require.NoError(t, err)
	require.Len(t, pos, 2)
	assert.Equal(t, [3]float64{11.104, 6.134, -6.504}, pos[0])
	assert.Equal(t, [3]float64{11.639, 6.071, -5.147}, pos[1])
}

func TestAtoms_ShortRecordUsesWhitespaceFields(t *testing.T) {
	src := "HETATM 1 C UNL 1 1.5 -2.0 3.25\nHETATM 2 H UNL 1 0 0 0\n"
	atoms, err := Atoms(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, atoms, 1)
	assert.Equal(t, Atom{Name: "C", Pos: [3]float64{1.5, -2.0, 3.25}}, atoms[0])
}

func TestAtoms_MalformedRecord(t *testing.T) {
	_, err := Atoms(strings.NewReader("ATOM 1 C\n"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeStructureParseFailed))

	_, err = Atoms(strings.NewReader("ATOM 1 C UNL 1 x y z\n"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeStructureParseFailed))
}

func TestExtractModel(t *testing.T) {
	lines, err := ExtractModel(openTestdata(t, "docked.pdbqt"), 1)
	require.NoError(t, err)
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "REMARK VINA RESULT:      -7.4"))

	lines, err = ExtractModel(openTestdata(t, "docked.pdbqt"), 2)
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "-6.9")
}

func TestExtractModel_NoModelRecords(t *testing.T) {
	lines, err := ExtractModel(openTestdata(t, "single.pdb"), 1)
	require.NoError(t, err)
	assert.Len(t, lines, 5)

	_, err = ExtractModel(openTestdata(t, "single.pdb"), 2)
	assert.True(t, errors.IsCode(err, errors.ErrCodeStructureModelNotFound))
}

func TestExtractModel_Errors(t *testing.T) {
	_, err := ExtractModel(openTestdata(t, "docked.pdbqt"), 3)
	assert.True(t, errors.IsCode(err, errors.ErrCodeStructureModelNotFound))

	_, err = ExtractModel(strings.NewReader(""), 0)
	assert.True(t, errors.IsValidation(err))
}

func TestExtractModel_UnterminatedLastModel(t *testing.T) {
	src := "MODEL 1\nA\nENDMDL\nMODEL 2\nB\n"
	lines, err := ExtractModel(strings.NewReader(src), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, lines)
}

func TestExtractModelFile(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "out.pdbqt")
	require.NoError(t, ExtractModelFile(filepath.Join("testdata", "docked.pdbqt"), dst, 1))

	b, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "MODEL")
	assert.NotContains(t, string(b), "-6.9")
	assert.Equal(t, 4, strings.Count(string(b), "\n"))
}

func TestExtractModelFile_Missing(t *testing.T) {
	err := ExtractModelFile(filepath.Join(t.TempDir(), "nope.pdbqt"), filepath.Join(t.TempDir(), "x"), 1)
	assert.True(t, errors.IsNotFound(err))
}

func TestReadAtomsFile(t *testing.T) {
	atoms, err := ReadAtomsFile(filepath.Join("testdata", "docked.pdbqt"))
	require.NoError(t, err)
	assert.Len(t, atoms, 4)

	_, err = ReadAtomsFile(filepath.Join(t.TempDir(), "missing.pdb"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeStructureFileNotFound))
}

func TestCentroid(t *testing.T) {
	c, err := Centroid([]Atom{
		{Name: "C1", Pos: [3]float64{0, 0, 0}},
		{Name: "C2", Pos: [3]float64{2, 4, -6}},
	})
	require.NoError(t, err)
	assert.Equal(t, [3]float64{1, 2, -3}, c)

	_, err = Centroid(nil)
	assert.True(t, errors.IsValidation(err))
}

//Personal.AI order the ending
