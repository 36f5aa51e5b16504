package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoclim/era5merge/internal/table"
)

func TestLinearConversion(t *testing.T) {
	t.Run("kelvin to celsius", func(t *testing.T) {
		assert.InDelta(t, 26.85, KelvinToCelsius.Apply(table.Cell(300.0)).(float64), 1e-9)
		assert.InDelta(t, 0.0, KelvinToCelsius.Apply(table.Cell(273.15)).(float64), 1e-9)
	})

	t.Run("meters to millimeters", func(t *testing.T) {
		assert.InDelta(t, 2.0, MetersToMillimeters.Apply(table.Cell(0.002)).(float64), 1e-9)
	})

	t.Run("inverse round trip", func(t *testing.T) {
		celsiusToKelvin := KelvinToCelsius.Inverse()
		for _, x := range []float64{0, 273.15, 300.0, -40.5, 1e6} {
			got := celsiusToKelvin.Apply(KelvinToCelsius.Apply(table.Cell(x))).(float64)
			assert.InDelta(t, x, got, 1e-6)
		}
	})

	t.Run("non numeric cells pass through", func(t *testing.T) {
		assert.Nil(t, KelvinToCelsius.Apply(nil))
		assert.Equal(t, "medium", KelvinToCelsius.Apply(table.Cell("medium")))
	})
}

func TestCategoricalRecode(t *testing.T) {
	recode := CategoricalRecode{Labels: SoilTypeLabels}

	t.Run("codes map bijectively to the eight labels", func(t *testing.T) {
		expected := []string{
			"non-land", "coarse", "medium", "medium_fine",
			"fine", "very_fine", "organic", "tropical_organic",
		}
		seen := map[string]bool{}
		for code := 0; code <= 7; code++ {
			label, ok := recode.Apply(table.Cell(float64(code))).(string)
			require.True(t, ok, "code %d", code)
			assert.Equal(t, expected[code], label)
			assert.False(t, seen[label], "label %q repeated", label)
			seen[label] = true
		}
	})

	t.Run("out of range is missing, not an error", func(t *testing.T) {
		assert.Nil(t, recode.Apply(table.Cell(9.0)))
		assert.Nil(t, recode.Apply(table.Cell(-1.0)))
		assert.Nil(t, recode.Apply(table.Cell(255.0)))
	})

	t.Run("int cells accepted", func(t *testing.T) {
		assert.Equal(t, "medium_fine", recode.Apply(table.Cell(3)))
	})

	t.Run("non numeric is missing", func(t *testing.T) {
		assert.Nil(t, recode.Apply(table.Cell("3")))
	})
}

func TestApplyTransforms(t *testing.T) {
	tbl := table.New()
	var err error
	tbl, err = tbl.AppendColumn(ColLon, []table.Cell{-70.0})
	require.NoError(t, err)
	tbl, err = tbl.AppendColumn("Temperatura2m", []table.Cell{300.0})
	require.NoError(t, err)
	tbl, err = tbl.AppendColumn("Escorrentia", []table.Cell{0.002})
	require.NoError(t, err)
	tbl, err = tbl.AppendColumn("TipoSuelo", []table.Cell{3.0})
	require.NoError(t, err)
	tbl, err = tbl.AppendColumn("PresionSuperficial", []table.Cell{101325.0})
	require.NoError(t, err)

	out := ApplyTransforms(tbl)

	temp, _ := out.Column("Temperatura2m")
	assert.InDelta(t, 26.85, temp.Cells[0].(float64), 1e-9)

	runoff, _ := out.Column("Escorrentia")
	assert.InDelta(t, 2.0, runoff.Cells[0].(float64), 1e-9)

	soil, _ := out.Column("TipoSuelo")
	assert.Equal(t, "medium_fine", soil.Cells[0])

	// Unregistered column passes through.
	pressure, _ := out.Column("PresionSuperficial")
	assert.Equal(t, 101325.0, pressure.Cells[0])

	// Source table untouched.
	orig, _ := tbl.Column("Temperatura2m")
	assert.Equal(t, 300.0, orig.Cells[0])
}

func TestMasterColumns(t *testing.T) {
	cols := MasterColumns()
	require.Len(t, cols, 25)
	assert.Equal(t, []string{ColLon, ColLat, ColDay, ColMonth, ColYear}, cols[:5])
	assert.Equal(t, Variables, cols[5:])

	// Every transform key is a canonical variable.
	vars := map[string]bool{}
	for _, v := range Variables {
		vars[v] = true
	}
	for name := range Transforms {
		assert.True(t, vars[name], "transform for unknown variable %q", name)
	}
}
