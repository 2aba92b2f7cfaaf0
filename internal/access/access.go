// Package access holds the read-visibility policy applied to content
// fetches. The actor id 0 means "unauthenticated".
package access

import "github.com/geocoder89/filehub/internal/domain/file"

// CanRead reports whether the actor may fetch the file's content. Public
// files are readable by anyone, private files only by their owner. Callers
// must surface a denial as "not found", never "forbidden", so private files
// do not leak their existence.
func CanRead(actor int64, f file.File) bool {
	if f.IsPublic {
		return true
	}

	return actor != 0 && actor == f.OwnerID
}
