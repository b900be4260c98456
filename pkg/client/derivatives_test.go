package client

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/dockprep/internal/application/derivative"
	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/logging"
	httpserver "github.com/turtacn/dockprep/internal/interfaces/http"
	"github.com/turtacn/dockprep/internal/interfaces/http/handlers"
	"github.com/turtacn/dockprep/pkg/errors"
)

const testTable = "H\nMe = C\nOMe = OC = CO\n"

// newAPIClient serves the real derivative routes over testTable.
func newAPIClient(t *testing.T, maxExpansion int64) *DerivativesClient {
	t.Helper()
	path := filepath.Join(t.TempDir(), "substituents.txt")
	require.NoError(t, os.WriteFile(path, []byte(testTable), 0o644))

	logger := logging.NewNopLogger()
	svc, err := derivative.NewService(derivative.NewFileTableSource(path, true, logger, nil), nil,
		derivative.ServiceConfig{}, logger)
	require.NoError(t, err)

	server := httptest.NewServer(httpserver.NewRouter(httpserver.RouterConfig{
		DerivativeHandler: handlers.NewDerivativeHandler(svc, maxExpansion, 1<<20, logger),
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, WithRetryMax(0))
	require.NoError(t, err)
	return c.Derivatives()
}

func TestDerivatives_Expand(t *testing.T) {
	d := newAPIClient(t, 0)

	res, err := d.Expand(context.Background(), ExpandRequest{Template: "C[R]"})
	require.NoError(t, err)
	assert.Equal(t, "interior_only", res.Pattern)
	assert.Equal(t, 3, res.Count)
	assert.Equal(t, []string{"C", "CC", "COC"}, res.Derivatives)
	assert.NotEmpty(t, res.TableDigest)
	assert.False(t, res.Cached)
}

func TestDerivatives_ExpandLeading(t *testing.T) {
	d := newAPIClient(t, 0)

	res, err := d.Expand(context.Background(), ExpandRequest{Template: "[R]O"})
	require.NoError(t, err)
	assert.Equal(t, "leading_only", res.Pattern)
	assert.Equal(t, []string{"O", "CO", "COO"}, res.Derivatives)
}

func TestDerivatives_ExpandLimitExceeded(t *testing.T) {
	d := newAPIClient(t, 5)

	_, err := d.Expand(context.Background(), ExpandRequest{Template: "[R]C[R]"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsLimitExceeded())
	assert.False(t, apiErr.IsServerError())
}

func TestDerivatives_ExpandEmptyTemplate(t *testing.T) {
	d := newAPIClient(t, 0)

	res, err := d.Expand(context.Background(), ExpandRequest{Template: "CCO"})
	require.NoError(t, err)
	assert.Equal(t, "empty", res.Pattern)
	assert.Zero(t, res.Count)
}

func TestDerivatives_Count(t *testing.T) {
	d := newAPIClient(t, 5)

	// Counting is not capped by the expansion limit.
	res, err := d.Count(context.Background(), "[R]C[R]")
	require.NoError(t, err)
	assert.Equal(t, int64(9), res.Count)
	assert.Equal(t, "leading_and_interior", res.Pattern)
}

func TestDerivatives_Classify(t *testing.T) {
	d := newAPIClient(t, 0)

	c, err := d.Classify(context.Background(), "[R]CC[R]N[R]")
	require.NoError(t, err)
	assert.Equal(t, "leading_and_interior", c.Pattern)
	assert.Equal(t, 3, c.Occurrences)
	assert.Equal(t, 2, c.InteriorSites)
}

func TestDerivatives_Substituents(t *testing.T) {
	d := newAPIClient(t, 0)

	table, err := d.Substituents(context.Background())
	require.NoError(t, err)
	require.Len(t, table.Entries, 3)
	assert.Equal(t, Substituent{Label: "OMe", Interior: "OC", Leading: "CO"}, table.Entries[2])

	forms, err := d.Forms(context.Background(), "leading")
	require.NoError(t, err)
	assert.Equal(t, table.Digest, forms.Digest)
	assert.Equal(t, "leading", forms.Position)
	assert.Equal(t, []string{"", "C", "CO"}, forms.Forms)
}

func TestDerivatives_FormsUnknownPosition(t *testing.T) {
	d := newAPIClient(t, 0)

	_, err := d.Forms(context.Background(), "sideways")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, string(errors.ErrCodeSubstituentPositionUnknown), apiErr.Code)
	assert.Equal(t, "sideways", apiErr.Detail)
}

//Personal.AI order the ending
