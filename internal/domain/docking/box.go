// Package docking models the inputs and outputs around an external docking
// run: the search-box configuration file and the tab-separated score report.
package docking

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/turtacn/dockprep/pkg/errors"
)

// Search defaults used when no configuration overrides them.
const (
	DefaultExhaustiveness = 8
	DefaultNumModes       = 9
	DefaultEnergyRange    = 3
)

// SearchParams are the docking search settings written into every box file.
type SearchParams struct {
	Exhaustiveness int `json:"exhaustiveness" yaml:"exhaustiveness"`
	NumModes       int `json:"num_modes" yaml:"num_modes"`
	EnergyRange    int `json:"energy_range" yaml:"energy_range"`
}

// DefaultSearchParams returns 8 / 9 / 3.
func DefaultSearchParams() SearchParams {
	return SearchParams{
		Exhaustiveness: DefaultExhaustiveness,
		NumModes:       DefaultNumModes,
		EnergyRange:    DefaultEnergyRange,
	}
}

// WithDefaults replaces zero fields by their defaults.
func (p SearchParams) WithDefaults() SearchParams {
	d := DefaultSearchParams()
	if p.Exhaustiveness == 0 {
		p.Exhaustiveness = d.Exhaustiveness
	}
	if p.NumModes == 0 {
		p.NumModes = d.NumModes
	}
	if p.EnergyRange == 0 {
		p.EnergyRange = d.EnergyRange
	}
	return p
}

// BoxConfig is a cubic search box centred on a binding site.
type BoxConfig struct {
	Center [3]float64   `json:"center"`
	Size   float64      `json:"size"`
	Params SearchParams `json:"params"`
}

// Validate rejects non-positive sizes and search parameters.
func (b BoxConfig) Validate() error {
	switch {
	case b.Size <= 0:
		return errors.New(errors.ErrCodeBoxConfigInvalid, "box size must be positive").
			WithDetail(formatFloat(b.Size))
	case b.Params.Exhaustiveness < 1, b.Params.NumModes < 1, b.Params.EnergyRange < 1:
		return errors.New(errors.ErrCodeBoxConfigInvalid, "search parameters must be positive").
			WithDetail(fmt.Sprintf("%+v", b.Params))
	}
	return nil
}

// Render writes the box in the docking engine's "key = value" format.
func (b BoxConfig) Render(w io.Writer) error {
	if err := b.Validate(); err != nil {
		return err
	}
	var sb strings.Builder
	kv := func(k, v string) { sb.WriteString(k + " = " + v + "\n") }
	kv("center_x", formatFloat(b.Center[0]))
	kv("center_y", formatFloat(b.Center[1]))
	kv("center_z", formatFloat(b.Center[2]))
	for _, axis := range []string{"size_x", "size_y", "size_z"} {
		kv(axis, formatFloat(b.Size))
	}
	kv("exhaustiveness", strconv.Itoa(b.Params.Exhaustiveness))
	kv("num_modes", strconv.Itoa(b.Params.NumModes))
	kv("energy_range", strconv.Itoa(b.Params.EnergyRange))
	_, err := io.WriteString(w, sb.String())
	return err
}

// String renders the box, or the validation error when it is invalid.
func (b BoxConfig) String() string {
	var sb strings.Builder
	if err := b.Render(&sb); err != nil {
		return err.Error()
	}
	return sb.String()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

//Personal.AI order the ending
