package docking

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/dockprep/pkg/errors"
)

func TestBoxConfig_Render(t *testing.T) {
	box := BoxConfig{
		Center: [3]float64{12.5, -3, 0.125},
		Size:   20,
		Params: DefaultSearchParams(),
	}
	var sb strings.Builder
	require.NoError(t, box.Render(&sb))

	want := `center_x = 12.5
center_y = -3
center_z = 0.125
size_x = 20
size_y = 20
size_z = 20
exhaustiveness = 8
num_modes = 9
energy_range = 3
`
	assert.Equal(t, want, sb.String())
	assert.Equal(t, want, box.String())
}

func TestBoxConfig_ExplicitParams(t *testing.T) {
	box := BoxConfig{Size: 1.5, Params: SearchParams{Exhaustiveness: 32, NumModes: 20, EnergyRange: 4}}
	out := box.String()
	assert.Contains(t, out, "size_z = 1.5\n")
	assert.Contains(t, out, "exhaustiveness = 32\n")
	assert.Contains(t, out, "num_modes = 20\n")
	assert.Contains(t, out, "energy_range = 4\n")
}

func TestBoxConfig_Invalid(t *testing.T) {
	err := BoxConfig{Size: 0, Params: DefaultSearchParams()}.Validate()
	assert.True(t, errors.IsCode(err, errors.ErrCodeBoxConfigInvalid))

	err = BoxConfig{Size: 10}.Render(&strings.Builder{})
	assert.True(t, errors.IsCode(err, errors.ErrCodeBoxConfigInvalid))
}

func TestSearchParams_WithDefaults(t *testing.T) {
	assert.Equal(t, DefaultSearchParams(), SearchParams{}.WithDefaults())
	assert.Equal(t, SearchParams{Exhaustiveness: 16, NumModes: 9, EnergyRange: 3},
		SearchParams{Exhaustiveness: 16}.WithDefaults())
}

//Personal.AI order the ending
