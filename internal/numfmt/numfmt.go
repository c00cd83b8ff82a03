// Package numfmt renders currency and count magnitudes for dashboard metrics.
package numfmt

import "fmt"

// tiers below the catch-all label
var units = []string{"", "mil"}

const catchAll = "milhões"

// Format divides v by 1000 while it is at least 1000, walking the units and
// falling back to "milhões" for anything larger. The prefix (e.g. "R$") is
// optional.
func Format(v float64, prefix string) string {
	for _, unit := range units {
		if v < 1000 {
			return withPrefix(prefix, fmt.Sprintf("%.2f %s", v, unit))
		}
		v /= 1000
	}
	return withPrefix(prefix, fmt.Sprintf("%.2f %s", v, catchAll))
}

func withPrefix(prefix, s string) string {
	if prefix == "" {
		return s
	}
	return prefix + " " + s
}
