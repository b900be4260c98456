package derivative

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/turtacn/dockprep/pkg/errors"
)

// Manifest lists the jobs of a batch run.
//
//	output_root: out
//	jobs:
//	  - template: "[R]C(=O)O"
//	    output_dir: acids
type Manifest struct {
	// OutputRoot is prefixed to relative job output directories.
	OutputRoot string `yaml:"output_root"`
	Jobs       []Job  `yaml:"jobs"`
}

// ParseManifest decodes a YAML manifest and resolves job output directories
// against OutputRoot.
func ParseManifest(r io.Reader) (*Manifest, error) {
	return parseManifest(r, "")
}

// LoadManifest reads the manifest at path.  A relative output_root is
// resolved against the manifest's directory.
func LoadManifest(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("batch manifest not found").WithDetail(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to open batch manifest").WithDetail(path)
	}
	defer f.Close()
	return parseManifest(f, filepath.Dir(path))
}

func parseManifest(r io.Reader, baseDir string) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		if err == io.EOF {
			return nil, errors.New(errors.ErrCodeValidation, "batch manifest is empty")
		}
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode batch manifest")
	}
	if len(m.Jobs) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "batch manifest contains no jobs")
	}

	if m.OutputRoot != "" && baseDir != "" && !filepath.IsAbs(m.OutputRoot) {
		m.OutputRoot = filepath.Join(baseDir, m.OutputRoot)
	}
	for i := range m.Jobs {
		job := &m.Jobs[i]
		label := fmt.Sprintf("jobs[%d]", i)
		if strings.TrimSpace(job.Template) == "" {
			return nil, errors.New(errors.ErrCodeTemplateEmpty, "batch job has an empty template").WithDetail(label)
		}
		if strings.TrimSpace(job.OutputDir) == "" {
			return nil, errors.New(errors.ErrCodeValidation, "batch job has no output_dir").WithDetail(label)
		}
		if m.OutputRoot != "" && !filepath.IsAbs(job.OutputDir) {
			job.OutputDir = filepath.Join(m.OutputRoot, job.OutputDir)
		}
	}
	if err := checkDistinctOutputDirs(m.Jobs); err != nil {
		return nil, err
	}
	return &m, nil
}

//Personal.AI order the ending
