package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NormalizeName returns the comparison key used for duplicate-name checks.
// Names are NFKC-normalised, case-folded and whitespace-collapsed, so
// "Café  Shoes" and "CAFÉ shoes" collide.
func NormalizeName(name string) string {
	s := norm.NFKC.String(strings.TrimSpace(name))
	s = cases.Fold().String(s)
	return strings.Join(strings.Fields(s), " ")
}
