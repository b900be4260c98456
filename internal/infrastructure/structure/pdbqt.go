// Package structure reads docked-pose coordinate files (PDB / PDBQT) and
// writes generated derivatives to local files.
package structure

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/turtacn/dockprep/pkg/errors"
)

const (
	recordAtom   = "ATOM"
	recordHetatm = "HETATM"
	recordModel  = "MODEL"
	recordEndmdl = "ENDMDL"

	hydrogen = "H"
)

// Atom is the subset of an ATOM / HETATM record the pipeline uses.
type Atom struct {
	Name string     `json:"name"`
	Pos  [3]float64 `json:"pos"`
}

func isAtomRecord(line string) bool {
	return strings.HasPrefix(line, recordAtom) || strings.HasPrefix(line, recordHetatm)
}

// Atoms returns every non-hydrogen atom record in r, in file order.  Records
// of full width are read by PDB column (name 13-16, x/y/z 31-54); shorter
// records fall back to whitespace fields 2 and 5-7.
//
//	HETATM    1  C   UNL     1      21.020   0.624  28.104  1.00  0.00      topt C
func Atoms(r io.Reader) ([]Atom, error) {
	var atoms []Atom
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if !isAtomRecord(line) {
			continue
		}
		a, err := parseAtomRecord(line)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeStructureParseFailed, "invalid atom record").
				WithDetail(fmt.Sprintf("line %d: %q", lineNo, line))
		}
		if a.Name == hydrogen {
			continue
		}
		atoms = append(atoms, a)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStructureParseFailed, "failed to read structure")
	}
	return atoms, nil
}

func parseAtomRecord(line string) (Atom, error) {
	var a Atom
	var coords [3]string
	if len(line) >= 54 {
		a.Name = strings.TrimSpace(line[12:16])
		coords = [3]string{line[30:38], line[38:46], line[46:54]}
	} else {
		fields := strings.Fields(line)
		if len(fields) < 8 {
			return a, fmt.Errorf("expected at least 8 fields, got %d", len(fields))
		}
		a.Name = fields[2]
		coords = [3]string{fields[5], fields[6], fields[7]}
	}
	for i, c := range coords {
		v, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err != nil {
			return a, err
		}
		a.Pos[i] = v
	}
	return a, nil
}

// Backbone returns the atom names of every non-hydrogen atom.
func Backbone(r io.Reader) ([]string, error) {
	atoms, err := Atoms(r)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(atoms))
	for i, a := range atoms {
		names[i] = a.Name
	}
	return names, nil
}

// LigandPositions returns the coordinates of every non-hydrogen atom.
func LigandPositions(r io.Reader) ([][3]float64, error) {
	atoms, err := Atoms(r)
	if err != nil {
		return nil, err
	}
	pos := make([][3]float64, len(atoms))
	for i, a := range atoms {
		pos[i] = a.Pos
	}
	return pos, nil
}

// ExtractModel returns the lines of the index-th (1-based) MODEL block,
// excluding the MODEL and ENDMDL records.  A file without MODEL records is a
// single model.
func ExtractModel(r io.Reader, index int) ([]string, error) {
	if index < 1 {
		return nil, errors.InvalidParam("model index must be ≥ 1").WithDetail(strconv.Itoa(index))
	}

	var (
		all      []string
		current  []string
		models   int
		inModel  bool
		sawModel bool
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, recordModel):
			sawModel, inModel = true, true
			models++
			current = nil
		case strings.HasPrefix(line, recordEndmdl):
			if inModel && models == index {
				return current, nil
			}
			inModel = false
		default:
			all = append(all, line)
			if inModel {
				current = append(current, line)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStructureParseFailed, "failed to read structure")
	}
	if inModel && models == index {
		return current, nil
	}
	if !sawModel && index == 1 {
		return all, nil
	}
	return nil, errors.New(errors.ErrCodeStructureModelNotFound, "model not found in structure").
		WithDetail(fmt.Sprintf("model %d of %d", index, models))
}

// ExtractModelFile copies the index-th model of src into dst.
func ExtractModelFile(src, dst string, index int) error {
	in, err := os.Open(src)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.New(errors.ErrCodeStructureFileNotFound, "structure file not found").
				WithDetail(src).WithCause(err)
		}
		return errors.Wrap(err, errors.ErrCodeStructureParseFailed, "failed to open structure").WithDetail(src)
	}
	defer in.Close()

	lines, err := ExtractModel(in, index)
	if err != nil {
		return errors.Wrap(err, errors.CodeUnknown, "extract model").WithDetail(src)
	}

	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(dst, []byte(sb.String()), 0o644); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to write extracted model").WithDetail(dst)
	}
	return nil
}

// ReadAtomsFile is Atoms over the file at path.
func ReadAtomsFile(path string) ([]Atom, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeStructureFileNotFound, "structure file not found").
				WithDetail(path).WithCause(err)
		}
		return nil, errors.Wrap(err, errors.ErrCodeStructureParseFailed, "failed to open structure").WithDetail(path)
	}
	defer f.Close()
	return Atoms(f)
}

// Centroid returns the mean position of atoms.
func Centroid(atoms []Atom) ([3]float64, error) {
	var c [3]float64
	if len(atoms) == 0 {
		return c, errors.InvalidParam("cannot compute the centroid of zero atoms")
	}
	for _, a := range atoms {
		for i := range c {
			c[i] += a.Pos[i]
		}
	}
	n := float64(len(atoms))
	for i := range c {
		c[i] /= n
	}
	return c, nil
}

//Personal.AI order the ending
