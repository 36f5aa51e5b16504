package domain

import (
	"math"

	"github.com/ecoclim/era5merge/internal/table"
)

// ColumnTransform rewrites a single cell of the column it is registered for.
type ColumnTransform interface {
	Apply(c table.Cell) table.Cell
}

// LinearConversion is an affine unit conversion: value' = value*Scale + Offset.
// Non-numeric cells (including the missing marker) pass through unchanged.
type LinearConversion struct {
	Scale  float64
	Offset float64
}

// Apply converts a float64 cell, leaving anything else untouched.
func (lc LinearConversion) Apply(c table.Cell) table.Cell {
	v, ok := c.(float64)
	if !ok {
		return c
	}
	return v*lc.Scale + lc.Offset
}

// Inverse returns the conversion that undoes lc.
func (lc LinearConversion) Inverse() LinearConversion {
	return LinearConversion{Scale: 1 / lc.Scale, Offset: -lc.Offset / lc.Scale}
}

// CategoricalRecode maps non-negative integer codes to labels by index.
// Codes outside the label range become the missing marker. This is an
// explicit fallback, not an error: some exports carry junk codes for points
// the category does not apply to.
type CategoricalRecode struct {
	Labels []string
}

// Apply recodes a numeric cell to its label, or to nil when out of range.
func (cr CategoricalRecode) Apply(c table.Cell) table.Cell {
	var code int
	switch v := c.(type) {
	case float64:
		code = int(math.Round(v))
	case int:
		code = v
	default:
		return nil
	}
	if code < 0 || code >= len(cr.Labels) {
		return nil
	}
	return cr.Labels[code]
}

// KelvinToCelsius converts ERA5 temperature fields.
var KelvinToCelsius = LinearConversion{Scale: 1, Offset: -273.15}

// MetersToMillimeters converts ERA5 daily water fluxes from m/day to mm/day.
var MetersToMillimeters = LinearConversion{Scale: 1000, Offset: 0}

// SoilTypeLabels are the ERA5 soil texture categories for codes 0 through 7.
var SoilTypeLabels = []string{
	"non-land",
	"coarse",
	"medium",
	"medium_fine",
	"fine",
	"very_fine",
	"organic",
	"tropical_organic",
}

// Transforms is the per-variable transform table, keyed by canonical column
// name. Variables without an entry (soil water content, radiation, pressure)
// are exported in their source units.
var Transforms = map[string]ColumnTransform{
	"Temperatura2m":     KelvinToCelsius,
	"TemperaturaSuelo1": KelvinToCelsius,
	"TemperaturaSuelo2": KelvinToCelsius,
	"TemperaturaSuelo3": KelvinToCelsius,
	"TemperaturaSuelo4": KelvinToCelsius,
	"TemperaturaMar":    KelvinToCelsius,

	"Escorrentia":               MetersToMillimeters,
	"EscorrentiaSubsuperficial": MetersToMillimeters,
	"EscorrentiaSuperficial":    MetersToMillimeters,
	"Evaporacion":               MetersToMillimeters,
	"EvaporacionPotencial":      MetersToMillimeters,
	"PrecipitacionTotal":        MetersToMillimeters,

	"TipoSuelo": CategoricalRecode{Labels: SoilTypeLabels},
}

// ApplyTransforms returns a new table with every registered transform applied
// to its matching column. Columns without a registered transform, and
// registered variables absent from the table, pass through unchanged.
func ApplyTransforms(t *table.Table) *table.Table {
	for _, name := range Variables {
		tr, ok := Transforms[name]
		if !ok {
			continue
		}
		t = t.MapColumn(name, tr.Apply)
	}
	return t
}
