// Command genfixtures generates a deterministic, row-aligned set of ERA5
// sample export files covering the full canonical variable set. The output is
// suitable as a local input directory for era5merge and as test fixtures.
//
// Usage:
//
//	go run ./cmd/genfixtures -out era5data/input -days 3 -lats 4 -lons 5
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ecoclim/era5merge/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output directory for the generated .txt files")
	days := flag.Int("days", 3, "number of daily timestamps")
	lats := flag.Int("lats", 4, "number of latitude grid points")
	lons := flag.Int("lons", 5, "number of longitude grid points")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if *days < 1 || *lats < 1 || *lons < 1 {
		return fmt.Errorf("-days, -lats and -lons must all be positive")
	}

	if err := os.MkdirAll(*out, 0o755); err != nil {
		return err
	}

	for _, name := range domain.Variables {
		path := filepath.Join(*out, name+".txt")
		if err := writeVariableFile(path, name, *days, *lats, *lons); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		log.Printf("%s: %d rows", path, *days**lats**lons)
	}
	return nil
}

// writeVariableFile emits one tab-delimited export: header plus one row per
// (day, lat, lon), time-major, matching the row ordering of the real
// extraction job so all generated files are positionally aligned.
func writeVariableFile(path, variable string, days, lats, lons int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := fmt.Fprintln(w, "time\tlatitude\tlongitude\tvalue"); err != nil {
		return err
	}

	for d := 0; d < days; d++ {
		secs := int64(d) * 86400
		for la := 0; la < lats; la++ {
			lat := 12.0 - 0.25*float64(la)
			for lo := 0; lo < lons; lo++ {
				lon := -72.0 + 0.25*float64(lo)
				v := sampleValue(variable, d, la, lo)
				if _, err := fmt.Fprintf(w, "%d\t%.2f\t%.2f\t%g\n", secs, lat, lon, v); err != nil {
					return err
				}
			}
		}
	}
	return w.Flush()
}

// sampleValue produces a plausible source-unit value for the variable at one
// grid point. Deterministic in its inputs, so regenerated fixtures are stable.
func sampleValue(variable string, d, la, lo int) float64 {
	jitter := 0.01 * float64(d+la+lo)
	switch variable {
	case "Temperatura2m":
		return 298.0 + jitter
	case "TemperaturaSuelo1", "TemperaturaSuelo2", "TemperaturaSuelo3", "TemperaturaSuelo4":
		return 293.0 + jitter
	case "TemperaturaMar":
		return 290.5 + jitter
	case "TipoSuelo":
		// Cycles through 0..8: one code past the valid range, so fixtures
		// exercise the missing-marker fallback.
		return float64((la + lo) % 9)
	case "Escorrentia", "EscorrentiaSubsuperficial", "EscorrentiaSuperficial",
		"Evaporacion", "EvaporacionPotencial", "PrecipitacionTotal":
		return 0.001 + jitter/1000
	case "HumedadSuelo1", "HumedadSuelo2", "HumedadSuelo3", "HumedadSuelo4":
		return 0.25 + jitter/10
	case "RadiacionSolar", "RadiacionTermica":
		return 1.5e7 + 1e4*float64(d+la+lo)
	case "PresionSuperficial":
		return 101325.0 - 10*float64(la)
	default:
		return jitter
	}
}
