// Package media handles embedded media references in note fields: safe
// filename normalization, the package's name-resolution map, and rewriting
// of references inside field text.
package media

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	htmlRefPattern  = regexp.MustCompile(`(?i)<(?:img|audio|object)\b[^>]*\bsrc=(?:"([^"]+)"|'([^']+)'|([^ >]+))[^>]*/?>`)
	soundRefPattern = regexp.MustCompile(`\[sound:([^\]]+)\]`)
)

// Entry is one resolved media file in a package: the filename references
// should be rewritten to.
type Entry struct {
	Name string
	Used bool
}

// UseMap maps normalized source filenames to the filenames actually used in
// the target collection (possibly renamed to avoid collisions). It is built
// by an earlier package-parsing phase.
type UseMap struct {
	entries map[string]*Entry
}

// NewUseMap creates an empty media use map.
func NewUseMap() *UseMap {
	return &UseMap{entries: make(map[string]*Entry)}
}

// Add registers a resolved target filename under a normalized source name.
func (m *UseMap) Add(normalized, target string) {
	m.entries[normalized] = &Entry{Name: target}
}

// Use looks up the entry for a normalized filename, marking it as referenced
// by at least one imported note. The second return is false if no entry
// exists, meaning the literal or normalized name is kept.
func (m *UseMap) Use(normalized string) (*Entry, bool) {
	entry, ok := m.entries[normalized]
	if ok {
		entry.Used = true
	}
	return entry, ok
}

// Len returns the number of registered entries.
func (m *UseMap) Len() int {
	return len(m.entries)
}

// SafeNormalizedName returns the Unicode-normalized (NFC) form of a media
// filename, or an error if the name is unsafe to reference.
func SafeNormalizedName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty media filename")
	}
	if strings.ContainsAny(name, "/\\\x00") {
		return "", fmt.Errorf("unsafe media filename: %q", name)
	}
	for _, r := range name {
		if r < 0x20 {
			return "", fmt.Errorf("unsafe media filename: %q", name)
		}
	}

	normalized := strings.TrimSpace(norm.NFC.String(name))
	if normalized == "" || normalized == "." || normalized == ".." {
		return "", fmt.Errorf("unsafe media filename: %q", name)
	}

	return normalized, nil
}

// ReplaceRefs rewrites embedded media filename references in field text.
// For each referenced filename, resolve is called with the literal name; a
// non-empty return replaces the reference. The second return reports whether
// anything changed.
func ReplaceRefs(field string, resolve func(name string) string) (string, bool) {
	out, changed := replacePattern(field, htmlRefPattern, resolve)
	out, soundChanged := replacePattern(out, soundRefPattern, resolve)
	return out, changed || soundChanged
}

// replacePattern splices replacements into the filename capture group of
// each match, leaving the surrounding reference syntax intact.
func replacePattern(text string, re *regexp.Regexp, resolve func(string) string) (string, bool) {
	matches := re.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text, false
	}

	var b strings.Builder
	last := 0
	changed := false

	for _, m := range matches {
		start, end := filenameSpan(m)
		if start < 0 {
			continue
		}
		name := text[start:end]
		replacement := resolve(name)
		if replacement == "" || replacement == name {
			continue
		}
		b.WriteString(text[last:start])
		b.WriteString(replacement)
		last = end
		changed = true
	}

	if !changed {
		return text, false
	}
	b.WriteString(text[last:])
	return b.String(), true
}

// filenameSpan returns the bounds of the first non-empty capture group of a
// submatch index slice.
func filenameSpan(m []int) (int, int) {
	for i := 2; i < len(m); i += 2 {
		if m[i] >= 0 {
			return m[i], m[i+1]
		}
	}
	return -1, -1
}
