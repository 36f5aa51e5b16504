package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SanitizeVariableName derives a column-safe variable name from an input file
// path: base name without extension, every character outside [A-Za-z0-9_]
// replaced with an underscore, and an underscore prefixed when the result
// would start with a digit. Reserved base-column names (date, lon, lat, day,
// month, year) are rejected so a stray input file cannot shadow the shared
// columns.
func SanitizeVariableName(path string) (string, error) {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" {
		return "", fmt.Errorf("sanitize %q: empty base name", path)
	}

	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	name := b.String()
	if name[0] >= '0' && name[0] <= '9' {
		name = "_" + name
	}

	if reservedNames[name] {
		return "", fmt.Errorf("sanitize %q: %q is a reserved column name", path, name)
	}
	return name, nil
}
