package structure

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/dockprep/pkg/errors"
)

func TestArtifactName(t *testing.T) {
	assert.Equal(t, "0.smi", ArtifactName(0, ExtSMILES))
	assert.Equal(t, "12.mol", ArtifactName(12, ExtMol))
}

func TestSMILESWriter_Write(t *testing.T) {
	dir := t.TempDir()
	w := NewSMILESWriter()
	assert.Equal(t, "smi", w.Extension())
	assert.Equal(t, "local", w.Sink())

	loc, err := w.Write(context.Background(), dir, 3, "BrC=C")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "3.smi"), loc)

	b, err := os.ReadFile(loc)
	require.NoError(t, err)
	assert.Equal(t, "BrC=C\n", string(b))
}

func TestSMILESWriter_MissingDir(t *testing.T) {
	_, err := NewSMILESWriter().Write(context.Background(), filepath.Join(t.TempDir(), "absent"), 0, "C")
	assert.True(t, errors.IsCode(err, errors.ErrCodeDerivativeWriteFailed))
}

func TestWriters_PrepareCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, NewSMILESWriter().Prepare(context.Background(), dir))
	require.NoError(t, NewOpenBabelWriter("").Prepare(context.Background(), dir))

	_, err := NewSMILESWriter().Write(context.Background(), dir, 0, "C")
	assert.NoError(t, err)

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	err = NewSMILESWriter().Prepare(context.Background(), filepath.Join(file, "sub"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeDerivativeWriteFailed))
}

func TestSMILESWriter_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewSMILESWriter().Write(ctx, t.TempDir(), 0, "C")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpenBabelWriter_InvokesObabel(t *testing.T) {
	dir := t.TempDir()
	var gotName string
	var gotArgs []string
	fake := func(_ context.Context, name string, args ...string) ([]byte, error) {
		gotName, gotArgs = name, args
		return nil, os.WriteFile(args[3], []byte("mol"), 0o644)
	}
	w := NewOpenBabelWriter("", WithCommandRunner(fake))
	assert.Equal(t, "mol", w.Extension())

	loc, err := w.Write(context.Background(), dir, 0, "c1ccccc1(F)")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "0.mol"), loc)
	assert.Equal(t, "obabel", gotName)
	assert.Equal(t, []string{"-:c1ccccc1(F)", "-omol", "-O", loc, "--gen2d"}, gotArgs)
}

func TestOpenBabelWriter_Failure(t *testing.T) {
	fail := func(context.Context, string, ...string) ([]byte, error) {
		return []byte("0 molecules converted"), assert.AnError
	}
	_, err := NewOpenBabelWriter("/opt/obabel", WithCommandRunner(fail)).Write(context.Background(), t.TempDir(), 1, "C")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeStructureConversionFailed))
	assert.Contains(t, err.Error(), "0 molecules converted")
}

func TestOpenBabelWriter_NoOutputFile(t *testing.T) {
	silent := func(context.Context, string, ...string) ([]byte, error) { return nil, nil }
	_, err := NewOpenBabelWriter("obabel", WithCommandRunner(silent)).Write(context.Background(), t.TempDir(), 1, "C")
	assert.True(t, errors.IsCode(err, errors.ErrCodeStructureConversionFailed))
}

//Personal.AI order the ending
