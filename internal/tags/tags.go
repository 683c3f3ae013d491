// Package tags canonicalizes note tag lists.
package tags

import (
	"sort"
	"strings"
)

// Canonify trims, deduplicates (case-insensitively, keeping the first
// spelling seen), and sorts a tag list.
func Canonify(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))

	for _, tag := range in {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, tag)
	}

	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}

// Split breaks a space-separated tag string into a list.
func Split(s string) []string {
	return strings.Fields(s)
}

// Join renders a tag list as a space-separated string.
func Join(tags []string) string {
	return strings.Join(tags, " ")
}
