package db

import (
	"encoding/binary"

	"github.com/google/uuid"

	"github.com/funvibe/funxy/internal/ids"
)

// fileIdNamespace is a fixed, arbitrary UUID used as the namespace for
// deriving FileIds. Any project-wide constant works; what matters is
// that it never changes, so the same absolute path always yields the
// same FileId across re-analysis (spec.md §3.3 "stable identities").
var fileIdNamespace = uuid.MustParse("8f14e45f-ceea-467e-bd3f-1a8a6e6d6a2e")

// DeriveFileId computes a stable FileId for an absolute file path using
// a name-based (SHA-1) UUID, then folds the 16 bytes into a uint64.
// google/uuid is already a teacher go.mod dependency; this is the one
// place in the db package that needs a collision-resistant, order-
// independent id rather than an incrementing counter (files are added
// and removed in arbitrary order as a workspace is indexed).
func DeriveFileId(absPath string) ids.FileId {
	u := uuid.NewSHA1(fileIdNamespace, []byte(absPath))
	b := u[:]
	return ids.FileId(binary.BigEndian.Uint64(b[:8]) ^ binary.BigEndian.Uint64(b[8:]))
}
