// Package domain models ERA5 single-variable climate exports and the rules
// for merging them into one master table.
//
// # Data Source
//
// Each input file is a delimited text export of one ERA5 reanalysis variable
// over a fixed latitude/longitude grid and time range: a header row followed
// by rows of (timestamp, latitude, longitude, value). The variable's identity
// is not in the file contents at all; it is the file's base name
// (e.g. Temperatura2m.txt holds 2-metre air temperature). Timestamps are
// seconds since the Unix epoch, UTC.
//
// # Positional alignment
//
// All files of a run are produced by the same extraction job and therefore
// share one implicit row ordering (time-major over the same grid). The merge
// exploits that: row i of every file describes the same point and instant, so
// tables are combined by row index, not by key. The shared date/lon/lat
// columns are taken from the first file only. Row counts are validated
// (a mismatch aborts the run) but value-level alignment is otherwise trusted.
// [MergeByKey] is the stricter alternative that joins on (date, lon, lat).
//
// # Units
//
// ERA5 ships temperatures in Kelvin and accumulated fluxes (runoff,
// evaporation, precipitation) in metres of water equivalent per day. The
// master table uses Celsius and millimetres per day. Soil type is an integer
// category 0-7, recoded to its texture label; codes outside that range become
// the missing marker rather than an error, since ocean points carry junk
// codes in some exports.
//
// # Naming
//
// Column names are derived from file base names via [SanitizeVariableName]:
// extension stripped, non-identifier characters replaced with underscores,
// a leading digit prefixed. Two files sanitizing to the same name is a fatal
// collision, never a silent overwrite.
package domain
