package importer

import (
	"crypto/sha1"

	"github.com/cardbox/cardbox/internal/domain"
)

// schemaHash fingerprints a notetype's structural identity: field names then
// template names, hashed in order. Two notetypes with equal hashes hold the
// same logical schema regardless of styling or other config. The update
// order must stay fixed, since every collaborating collection must derive
// the same digest from the same schema.
func schemaHash(nt *domain.Notetype) [sha1.Size]byte {
	h := sha1.New()
	for _, field := range nt.Fields {
		h.Write([]byte(field.Name))
	}
	for _, template := range nt.Templates {
		h.Write([]byte(template.Name))
	}

	var digest [sha1.Size]byte
	copy(digest[:], h.Sum(nil))
	return digest
}
