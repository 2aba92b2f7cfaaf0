package handlers

import (
	"bytes"
	"regexp"
	"strconv"

	"github.com/geocoder89/filehub/internal/domain/file"
	"github.com/geocoder89/filehub/internal/domain/user"
	"github.com/gin-gonic/gin"
)

var digitsOnly = regexp.MustCompile(`^\d+$`)

// flexID accepts an id as either a JSON number or a string. Unparseable
// values coerce to the root, matching the permissive parentId handling
// on the query side.
type flexID int64

func (id *flexID) UnmarshalJSON(b []byte) error {
	s := string(bytes.Trim(b, `"`))

	if s == "" || s == "null" {
		*id = 0
		return nil
	}

	v, err := strconv.ParseInt(s, 10, 64)

	if err != nil {
		*id = flexID(file.RootID)
		return nil
	}

	*id = flexID(v)
	return nil
}

// pathID parses an :id path parameter, mapping anything malformed onto
// the same sentinel.
func pathID(raw string) int64 {
	if !digitsOnly.MatchString(raw) {
		return -1
	}

	id, err := strconv.ParseInt(raw, 10, 64)

	if err != nil {
		return -1
	}

	return id
}

// fileJSON is the wire shape of a file. Ids travel as strings except the
// root parent, which is the literal number 0.
func fileJSON(f file.File) gin.H {
	var parent any = f.ParentID

	if f.ParentID != file.RootID {
		parent = strconv.FormatInt(f.ParentID, 10)
	}

	return gin.H{
		"id":       strconv.FormatInt(f.ID, 10),
		"userId":   strconv.FormatInt(f.OwnerID, 10),
		"name":     f.Name,
		"type":     f.Type,
		"isPublic": f.IsPublic,
		"parentId": parent,
	}
}

func userJSON(u user.User) gin.H {
	return gin.H{
		"id":    strconv.FormatInt(u.ID, 10),
		"email": u.Email,
	}
}
