package domain

// Base column names shared by every input file. They are reserved: an input
// file whose sanitized name matches one of these cannot be merged.
const (
	ColDate  = "date"
	ColLon   = "lon"
	ColLat   = "lat"
	ColDay   = "day"
	ColMonth = "month"
	ColYear  = "year"
)

// VariableTable is the normalized content of one input file: the shared
// date/lon/lat columns plus the values of exactly one climate variable.
// It exists only between parsing and merging.
type VariableTable struct {
	// Name is the sanitized variable name derived from the file base name.
	Name string
	// SourceFile is the path the table was parsed from, for diagnostics.
	SourceFile string

	Dates  []string // DD-MM-YYYY
	Lons   []float64
	Lats   []float64
	Values []float64
}

// NumRows returns the number of records in the table.
func (vt VariableTable) NumRows() int {
	return len(vt.Values)
}

// Variables lists the canonical climate variables of the master table, in
// master-column order. The name is both the expected input file base name and
// the output column header.
var Variables = []string{
	"Temperatura2m",
	"TemperaturaSuelo1",
	"TemperaturaSuelo2",
	"TemperaturaSuelo3",
	"TemperaturaSuelo4",
	"TemperaturaMar",
	"TipoSuelo",
	"Escorrentia",
	"EscorrentiaSubsuperficial",
	"EscorrentiaSuperficial",
	"Evaporacion",
	"EvaporacionPotencial",
	"PrecipitacionTotal",
	"HumedadSuelo1",
	"HumedadSuelo2",
	"HumedadSuelo3",
	"HumedadSuelo4",
	"RadiacionSolar",
	"RadiacionTermica",
	"PresionSuperficial",
}

// MasterColumns returns the exact column order of the exported master table:
// the coordinate and calendar columns followed by every canonical variable.
func MasterColumns() []string {
	cols := make([]string, 0, 5+len(Variables))
	cols = append(cols, ColLon, ColLat, ColDay, ColMonth, ColYear)
	cols = append(cols, Variables...)
	return cols
}

// reservedNames are column names an input variable may not sanitize to.
var reservedNames = map[string]bool{
	ColDate:  true,
	ColLon:   true,
	ColLat:   true,
	ColDay:   true,
	ColMonth: true,
	ColYear:  true,
}
