package docking

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/turtacn/dockprep/pkg/errors"
)

// Report headers.
const (
	HeaderWithReceptor = "receptor_name\tligand_name\tscores"
	HeaderLigandOnly   = "ligand_name\tscores"
)

// ScoreEntry is one row of a score report.  Receptor is empty in ligand-only
// reports.
type ScoreEntry struct {
	Receptor string  `json:"receptor,omitempty"`
	Ligand   string  `json:"ligand"`
	Score    float64 `json:"score"`
}

// Report is a parsed score report.  Entry order is file order.
type Report struct {
	WithReceptor bool         `json:"with_receptor"`
	Entries      []ScoreEntry `json:"entries"`
}

// WriteReport writes r with the header matching its mode.
func WriteReport(w io.Writer, r Report) error {
	bw := bufio.NewWriter(w)
	header := HeaderLigandOnly
	if r.WithReceptor {
		header = HeaderWithReceptor
	}
	if _, err := bw.WriteString(header + "\n"); err != nil {
		return err
	}
	for _, e := range r.Entries {
		score := strconv.FormatFloat(e.Score, 'f', -1, 64)
		var err error
		if r.WithReceptor {
			_, err = fmt.Fprintf(bw, "%s\t%s\t%s\n", e.Receptor, e.Ligand, score)
		} else {
			_, err = fmt.Fprintf(bw, "%s\t%s\n", e.Ligand, score)
		}
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadReport parses a report, detecting its mode from the header line.
// Blank lines are ignored.
func ReadReport(r io.Reader) (Report, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return Report{}, errors.Wrap(err, errors.ErrCodeScoreReportInvalid, "failed to read score report")
		}
		return Report{}, errors.New(errors.ErrCodeScoreReportInvalid, "score report is empty")
	}

	var rep Report
	header := strings.TrimSpace(sc.Text())
	switch {
	case strings.HasPrefix(header, "receptor_name"):
		rep.WithReceptor = true
	case strings.HasPrefix(header, "ligand_name"):
	default:
		return Report{}, errors.New(errors.ErrCodeScoreReportInvalid, "unrecognised score report header").
			WithDetail(header)
	}

	want := 2
	if rep.WithReceptor {
		want = 3
	}
	lineNo := 1
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != want {
			return Report{}, errors.New(errors.ErrCodeScoreReportInvalid, "wrong number of report columns").
				WithDetail(fmt.Sprintf("line %d: expected %d, got %d", lineNo, want, len(fields)))
		}
		score, err := strconv.ParseFloat(fields[want-1], 64)
		if err != nil {
			return Report{}, errors.Wrap(err, errors.ErrCodeScoreReportInvalid, "invalid score").
				WithDetail(fmt.Sprintf("line %d", lineNo))
		}
		e := ScoreEntry{Ligand: fields[want-2], Score: score}
		if rep.WithReceptor {
			e.Receptor = fields[0]
		}
		rep.Entries = append(rep.Entries, e)
	}
	if err := sc.Err(); err != nil {
		return Report{}, errors.Wrap(err, errors.ErrCodeScoreReportInvalid, "failed to read score report")
	}
	return rep, nil
}

// Receptors returns the distinct receptors in first-appearance order.
func (r Report) Receptors() []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range r.Entries {
		if !seen[e.Receptor] {
			seen[e.Receptor] = true
			out = append(out, e.Receptor)
		}
	}
	return out
}

// BestScores returns a new report holding, for each receptor group, every
// entry whose score equals the group minimum.  r is not modified.
func BestScores(r Report) Report {
	minimum := make(map[string]float64)
	for _, e := range r.Entries {
		if m, ok := minimum[e.Receptor]; !ok || e.Score < m {
			minimum[e.Receptor] = e.Score
		}
	}

	best := Report{WithReceptor: r.WithReceptor, Entries: []ScoreEntry{}}
	for _, e := range r.Entries {
		if e.Score == minimum[e.Receptor] {
			best.Entries = append(best.Entries, e)
		}
	}
	return best
}

//Personal.AI order the ending
