package file

import "errors"

// RootID is the reserved parent id meaning "no parent folder".
const RootID int64 = 0

type Type string

const (
	TypeFolder Type = "folder"
	TypeFile   Type = "file"
	TypeImage  Type = "image"
)

// check to see if the type is a known kind

func (t Type) IsValid() bool {
	switch t {
	case TypeFolder, TypeFile, TypeImage:
		return true
	default:
		return false
	}
}

// HasContent reports whether entities of this type carry blob bytes.
func (t Type) HasContent() bool {
	return t != TypeFolder
}

var (
	ErrNotFound        = errors.New("Not found")
	ErrMissingName     = errors.New("Missing name")
	ErrMissingType     = errors.New("Missing type")
	ErrMissingData     = errors.New("Missing data")
	ErrParentNotFound  = errors.New("Parent not found")
	ErrParentNotFolder = errors.New("Parent is not a folder")
	ErrFolderNoContent = errors.New("A folder doesn't have content")
)

// File is the metadata record for one stored entity. LocalPath is the
// opaque blob-store key for non-folder types and is never exposed on the
// wire.
type File struct {
	ID        int64
	Name      string
	Type      Type
	ParentID  int64
	OwnerID   int64
	IsPublic  bool
	LocalPath string
}
