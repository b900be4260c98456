package docking

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/dockprep/pkg/errors"
)

const receptorReport = "receptor_name\tligand_name\tscores\n" +
	"r1\tl1.pdbqt\t-7.4\n" +
	"r1\tl2.pdbqt\t-8.1\n" +
	"r1\tl3.pdbqt\t-8.1\n" +
	"r2\tl1.pdbqt\t3.2\n" +
	"r2\tl2.pdbqt\t1.5\n"

func TestReadReport_WithReceptor(t *testing.T) {
	rep, err := ReadReport(strings.NewReader(receptorReport))
	require.NoError(t, err)
	assert.True(t, rep.WithReceptor)
	require.Len(t, rep.Entries, 5)
	assert.Equal(t, ScoreEntry{Receptor: "r1", Ligand: "l2.pdbqt", Score: -8.1}, rep.Entries[1])
	assert.Equal(t, []string{"r1", "r2"}, rep.Receptors())
}

func TestReadReport_LigandOnly(t *testing.T) {
	rep, err := ReadReport(strings.NewReader("ligand_name\tscores\na.pdbqt\t-5\n\nb.pdbqt\t-6.5\n"))
	require.NoError(t, err)
	assert.False(t, rep.WithReceptor)
	assert.Equal(t, []ScoreEntry{{Ligand: "a.pdbqt", Score: -5}, {Ligand: "b.pdbqt", Score: -6.5}}, rep.Entries)
}

func TestReadReport_Invalid(t *testing.T) {
	cases := map[string]string{
		"empty":        "",
		"bad header":   "name\tscore\n",
		"bad columns":  "ligand_name\tscores\na\tb\tc\n",
		"bad score":    "ligand_name\tscores\na\tlow\n",
		"short record": "receptor_name\tligand_name\tscores\nr1\t-3\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadReport(strings.NewReader(src))
			assert.True(t, errors.IsCode(err, errors.ErrCodeScoreReportInvalid))
		})
	}
}

func TestWriteReport_RoundTrip(t *testing.T) {
	rep, err := ReadReport(strings.NewReader(receptorReport))
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, WriteReport(&sb, rep))
	assert.Equal(t, receptorReport, sb.String())
}

func TestWriteReport_LigandOnlyHeader(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WriteReport(&sb, Report{Entries: []ScoreEntry{{Ligand: "x", Score: -1.25}}}))
	assert.Equal(t, "ligand_name\tscores\nx\t-1.25\n", sb.String())
}

func TestBestScores_KeepsTiesPerReceptor(t *testing.T) {
	rep, err := ReadReport(strings.NewReader(receptorReport))
	require.NoError(t, err)
	before := append([]ScoreEntry(nil), rep.Entries...)

	best := BestScores(rep)
	want := []ScoreEntry{
		{Receptor: "r1", Ligand: "l2.pdbqt", Score: -8.1},
		{Receptor: "r1", Ligand: "l3.pdbqt", Score: -8.1},
		{Receptor: "r2", Ligand: "l2.pdbqt", Score: 1.5},
	}
	if diff := cmp.Diff(want, best.Entries); diff != "" {
		t.Errorf("BestScores mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, best.WithReceptor)
	assert.Equal(t, before, rep.Entries, "input report must not be modified")
}

func TestBestScores_PositiveScoresSeededFromFirst(t *testing.T) {
	best := BestScores(Report{Entries: []ScoreEntry{{Ligand: "a", Score: 2}, {Ligand: "b", Score: 4}}})
	assert.Equal(t, []ScoreEntry{{Ligand: "a", Score: 2}}, best.Entries)
}

func TestBestScores_Empty(t *testing.T) {
	best := BestScores(Report{})
	assert.NotNil(t, best.Entries)
	assert.Empty(t, best.Entries)
}

//Personal.AI order the ending
