package utils

import "strings"

// SplitCSV splits s on commas and trims each entry. Order is kept and
// nothing is deduplicated.
func SplitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}
