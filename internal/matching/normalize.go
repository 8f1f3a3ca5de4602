package matching

import (
	"regexp"
	"strings"

	"github.com/jonathan/hr-agent/internal/types"
)

// normalizeStrings lowercases and trims a skill list, dropping blanks.
// Order is preserved.
func normalizeStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.ToLower(strings.TrimSpace(item))
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// entryText collapses an experience or education entry to lowercase
// text. Structured entries flatten to their compact JSON form so field
// values stay searchable.
func entryText(e types.Entry) string {
	return strings.ToLower(e.Flatten())
}

// joinEntries concatenates all entries into one lowercase blob.
func joinEntries(entries []types.Entry) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		if t := entryText(e); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

var yearPattern = regexp.MustCompile(`(\d+)\s*(?:year|yr)`)

// extractYears sums every "<N> year(s)" mention across the entries.
// When no entry mentions years, the entry count stands in as a proxy.
func extractYears(entries []types.Entry) int {
	total := 0
	for _, e := range entries {
		for _, m := range yearPattern.FindAllStringSubmatch(entryText(e), -1) {
			total += atoiSafe(m[1])
		}
	}
	if total > 0 {
		return total
	}
	return len(entries)
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
		if n > 1000 {
			return 1000
		}
	}
	return n
}
