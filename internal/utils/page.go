package utils

import (
	"regexp"
	"strconv"

	"github.com/geocoder89/filehub/internal/domain/file"
)

var digitsOnly = regexp.MustCompile(`^\d+$`)

// NormalizePage turns a raw page query value into a page index. Anything
// that is not a plain non-negative integer falls back to page 0.
func NormalizePage(raw string) int {
	if !digitsOnly.MatchString(raw) {
		return 0
	}

	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return page
}

// NormalizeParentID maps a raw parentId query value onto a folder id.
// Absent or unparseable values mean the root.
func NormalizeParentID(raw string) int64 {
	if !digitsOnly.MatchString(raw) {
		return file.RootID
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return file.RootID
	}
	return id
}
