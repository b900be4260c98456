package structure

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/turtacn/dockprep/pkg/errors"
)

const (
	// ExtSMILES is the extension of plain SMILES artifacts.
	ExtSMILES = "smi"
	// ExtMol is the extension of MDL molfile artifacts.
	ExtMol = "mol"

	sinkLocal = "local"
)

// ArtifactName returns the file name of the index-th derivative.
func ArtifactName(index int, ext string) string {
	return strconv.Itoa(index) + "." + ext
}

// prepareDir creates the output directory of a local writer.
func prepareDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, errors.ErrCodeDerivativeWriteFailed, "failed to create output directory").WithDetail(dir)
	}
	return nil
}

// SMILESWriter stores each derivative as a one-line .smi file.
type SMILESWriter struct{}

// NewSMILESWriter returns a SMILESWriter.
func NewSMILESWriter() *SMILESWriter { return &SMILESWriter{} }

func (w *SMILESWriter) Extension() string { return ExtSMILES }
func (w *SMILESWriter) Sink() string      { return sinkLocal }

// Prepare creates dir if needed.
func (w *SMILESWriter) Prepare(_ context.Context, dir string) error { return prepareDir(dir) }

// Write stores smiles in dir as "{index}.smi" and returns the file path.
func (w *SMILESWriter) Write(ctx context.Context, dir string, index int, smiles string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := filepath.Join(dir, ArtifactName(index, ExtSMILES))
	if err := os.WriteFile(path, []byte(smiles+"\n"), 0o644); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeDerivativeWriteFailed, "failed to write derivative").WithDetail(path)
	}
	return path, nil
}

// CommandRunner runs an external program and returns its combined output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// OpenBabelWriter converts each derivative to a 2-D molfile with obabel.
type OpenBabelWriter struct {
	binary string
	run    CommandRunner
}

// OpenBabelOption customises an OpenBabelWriter.
type OpenBabelOption func(*OpenBabelWriter)

// WithCommandRunner replaces the process runner, mainly for tests.
func WithCommandRunner(run CommandRunner) OpenBabelOption {
	return func(w *OpenBabelWriter) { w.run = run }
}

// NewOpenBabelWriter returns a writer invoking the obabel binary at path.  An
// empty path means "obabel" on $PATH.
func NewOpenBabelWriter(binary string, opts ...OpenBabelOption) *OpenBabelWriter {
	if binary == "" {
		binary = "obabel"
	}
	w := &OpenBabelWriter{binary: binary, run: execRunner}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *OpenBabelWriter) Extension() string { return ExtMol }
func (w *OpenBabelWriter) Sink() string      { return sinkLocal }

// Prepare creates dir if needed.
func (w *OpenBabelWriter) Prepare(_ context.Context, dir string) error { return prepareDir(dir) }

// Write runs `obabel -:<smiles> -omol -O <dir>/<index>.mol --gen2d`.
func (w *OpenBabelWriter) Write(ctx context.Context, dir string, index int, smiles string) (string, error) {
	path := filepath.Join(dir, ArtifactName(index, ExtMol))
	out, err := w.run(ctx, w.binary, "-:"+smiles, "-omol", "-O", path, "--gen2d")
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", errors.Wrap(err, errors.ErrCodeStructureConversionFailed, "obabel conversion failed").
			WithDetail(fmt.Sprintf("%s: %s", smiles, bytes.TrimSpace(out)))
	}
	if _, statErr := os.Stat(path); statErr != nil {
		return "", errors.New(errors.ErrCodeStructureConversionFailed, "obabel produced no output").
			WithDetail(fmt.Sprintf("%s: %s", smiles, bytes.TrimSpace(out))).WithCause(statErr)
	}
	return path, nil
}

//Personal.AI order the ending
