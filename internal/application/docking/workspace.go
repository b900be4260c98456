// Package docking organises the on-disk layout of a docking campaign:
// receptor directories, box configs, score reports and extracted poses.
package docking

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	domain "github.com/turtacn/dockprep/internal/domain/docking"
	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/dockprep/internal/infrastructure/structure"
	"github.com/turtacn/dockprep/pkg/errors"
)

const (
	pdbqtExt = ".pdbqt"
	// PreparedReceptorName is the file name a receptor gets inside its directory.
	PreparedReceptorName = "preped.pdbqt"
	configPrefix         = "config"
	// ExtractedModel is the pose extracted from each docked file.
	ExtractedModel = 1
)

// Workspace performs file-system operations of the docking pipeline.
type Workspace struct {
	params domain.SearchParams
	logger logging.Logger
}

// NewWorkspace returns a Workspace writing box configs with params.
func NewWorkspace(params domain.SearchParams, logger logging.Logger) *Workspace {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Workspace{params: params.WithDefaults(), logger: logger}
}

// Params returns the search parameters written into box configs.
func (w *Workspace) Params() domain.SearchParams { return w.params }

// PrepareReceptor creates a directory named after pdbqtPath (minus the
// extension) and moves the file into it as PreparedReceptorName.  It returns
// the new directory.
func (w *Workspace) PrepareReceptor(pdbqtPath string) (string, error) {
	if !strings.EqualFold(filepath.Ext(pdbqtPath), pdbqtExt) {
		return "", errors.New(errors.ErrCodeReceptorInvalid, "receptor must be a .pdbqt file").WithDetail(pdbqtPath)
	}
	info, err := os.Stat(pdbqtPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.New(errors.ErrCodeStructureFileNotFound, "receptor file not found").WithDetail(pdbqtPath)
		}
		return "", errors.Wrap(err, errors.ErrCodeInternal, "failed to stat receptor").WithDetail(pdbqtPath)
	}
	if info.IsDir() {
		return "", errors.New(errors.ErrCodeReceptorInvalid, "receptor path is a directory").WithDetail(pdbqtPath)
	}

	dir := strings.TrimSuffix(pdbqtPath, filepath.Ext(pdbqtPath))
	if err := os.Mkdir(dir, 0o755); err != nil {
		if os.IsExist(err) {
			return "", errors.New(errors.ErrCodeWorkspaceLayout, "receptor directory already exists").WithDetail(dir)
		}
		return "", errors.Wrap(err, errors.ErrCodeInternal, "failed to create receptor directory").WithDetail(dir)
	}
	target := filepath.Join(dir, PreparedReceptorName)
	if err := os.Rename(pdbqtPath, target); err != nil {
		_ = os.Remove(dir)
		return "", errors.Wrap(err, errors.ErrCodeInternal, "failed to move receptor").WithDetail(target)
	}

	w.logger.Info("receptor prepared", logging.String("dir", dir))
	return dir, nil
}

// ConfigFiles lists the files in proteinDir whose names start with
// "config", sorted by name.
func (w *Workspace) ConfigFiles(proteinDir string) ([]string, error) {
	entries, err := os.ReadDir(proteinDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("protein directory not found").WithDetail(proteinDir)
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to list protein directory").WithDetail(proteinDir)
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), configPrefix) {
			out = append(out, filepath.Join(proteinDir, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

// EnsureDir creates dir (and parents) if it does not exist.
func (w *Workspace) EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create directory").WithDetail(dir)
	}
	return nil
}

// RemoveDirIfExists deletes dir recursively; a missing dir is not an error.
func (w *Workspace) RemoveDirIfExists(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to remove directory").WithDetail(dir)
	}
	return nil
}

// WriteBoxConfig writes a box centred on center with edge size to path.
func (w *Workspace) WriteBoxConfig(path string, center [3]float64, size float64) (domain.BoxConfig, error) {
	box := domain.BoxConfig{Center: center, Size: size, Params: w.params}
	if err := box.Validate(); err != nil {
		return box, err
	}
	f, err := os.Create(path)
	if err != nil {
		return box, errors.Wrap(err, errors.ErrCodeInternal, "failed to create box config").WithDetail(path)
	}
	if err := box.Render(f); err != nil {
		f.Close()
		return box, errors.Wrap(err, errors.ErrCodeInternal, "failed to write box config").WithDetail(path)
	}
	if err := f.Close(); err != nil {
		return box, errors.Wrap(err, errors.ErrCodeInternal, "failed to write box config").WithDetail(path)
	}
	return box, nil
}

// ReadReportFile parses the score report at path.
func (w *Workspace) ReadReportFile(path string) (domain.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Report{}, errors.NotFound("score report not found").WithDetail(path)
		}
		return domain.Report{}, errors.Wrap(err, errors.ErrCodeInternal, "failed to open score report").WithDetail(path)
	}
	defer f.Close()

	r, err := domain.ReadReport(f)
	if err != nil {
		return domain.Report{}, errors.Wrap(err, errors.CodeUnknown, "invalid score report").WithDetail(path)
	}
	return r, nil
}

// WriteReportFile writes r to path.
func (w *Workspace) WriteReportFile(path string, r domain.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create score report").WithDetail(path)
	}
	if err := domain.WriteReport(f, r); err != nil {
		f.Close()
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to write score report").WithDetail(path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to write score report").WithDetail(path)
	}
	return nil
}

// BestScoresFile reads the report at in, keeps the best-scoring rows of each
// receptor and writes them to out.
func (w *Workspace) BestScoresFile(in, out string) (domain.Report, error) {
	r, err := w.ReadReportFile(in)
	if err != nil {
		return domain.Report{}, err
	}
	best := domain.BestScores(r)
	if err := w.WriteReportFile(out, best); err != nil {
		return domain.Report{}, err
	}
	w.logger.Info("best scores written",
		logging.String("report", out),
		logging.Int("rows", len(best.Entries)),
		logging.Int("input_rows", len(r.Entries)))
	return best, nil
}

// ExtractionResult lists the pose files written by ExtractFromReport.
type ExtractionResult struct {
	WithReceptor bool     `json:"with_receptor"`
	Files        []string `json:"files"`
}

// ExtractFromReport copies the first model of every docked pose named in the
// report at reportPath into outDir.  The report must sit in the directory
// holding the poses: receptor reports next to one sub-directory per
// receptor, ligand reports next to the .pdbqt files themselves.
func (w *Workspace) ExtractFromReport(reportPath, outDir string) (*ExtractionResult, error) {
	report, err := w.ReadReportFile(reportPath)
	if err != nil {
		return nil, err
	}
	root := filepath.Dir(reportPath)

	if report.WithReceptor {
		ok, err := subdirHasPDBQT(root)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.New(errors.ErrCodeWorkspaceLayout,
				"receptor report must sit next to receptor directories holding .pdbqt files").WithDetail(reportPath)
		}
	} else {
		ok, err := dirHasPDBQT(root)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.New(errors.ErrCodeWorkspaceLayout,
				"ligand report must sit next to the docked .pdbqt files").WithDetail(reportPath)
		}
	}

	if err := w.EnsureDir(outDir); err != nil {
		return nil, err
	}
	result := &ExtractionResult{WithReceptor: report.WithReceptor}
	for _, e := range report.Entries {
		src := filepath.Join(root, e.Ligand)
		dstDir := outDir
		if report.WithReceptor {
			src = filepath.Join(root, e.Receptor, e.Ligand)
			dstDir = filepath.Join(outDir, e.Receptor)
			if err := w.EnsureDir(dstDir); err != nil {
				return nil, err
			}
		}
		src = withPDBQTExt(src)
		dst := filepath.Join(dstDir, ExtractedName(e.Ligand, ExtractedModel))
		if err := structure.ExtractModelFile(src, dst, ExtractedModel); err != nil {
			return nil, err
		}
		result.Files = append(result.Files, dst)
	}

	w.logger.Info("poses extracted",
		logging.String("report", reportPath),
		logging.Int("files", len(result.Files)))
	return result, nil
}

// ExtractedName is the file name of model index extracted from ligand.
func ExtractedName(ligand string, index int) string {
	stem := filepath.Base(ligand)
	if strings.EqualFold(filepath.Ext(stem), pdbqtExt) {
		stem = strings.TrimSuffix(stem, filepath.Ext(stem))
	}
	return fmt.Sprintf("%s_%d%s", stem, index, pdbqtExt)
}

// withPDBQTExt appends the extension when the report names a pose without
// it and only the suffixed file exists.
func withPDBQTExt(path string) string {
	if _, err := os.Stat(path); err == nil {
		return path
	}
	if !strings.EqualFold(filepath.Ext(path), pdbqtExt) {
		if _, err := os.Stat(path + pdbqtExt); err == nil {
			return path + pdbqtExt
		}
	}
	return path
}

func dirHasPDBQT(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeInternal, "failed to list directory").WithDetail(dir)
	}
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), pdbqtExt) {
			return true, nil
		}
	}
	return false, nil
}

func subdirHasPDBQT(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeInternal, "failed to list directory").WithDetail(dir)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		ok, err := dirHasPDBQT(filepath.Join(dir, e.Name()))
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

//Personal.AI order the ending
