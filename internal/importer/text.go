package importer

import (
	"golang.org/x/text/unicode/norm"
)

// normalizeText canonicalizes field text to NFC, so that equal-looking
// content compares equal across collections produced on different platforms.
func normalizeText(s string) string {
	if norm.NFC.IsNormalString(s) {
		return s
	}
	return norm.NFC.String(s)
}
