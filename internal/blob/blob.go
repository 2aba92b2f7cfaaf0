// Package blob stores raw and derived artifact bytes under opaque keys,
// outside the document store. Keys are pipeline-private and never derived
// from user input.
package blob

import (
	"errors"
	"strconv"
)

var ErrNotFound = errors.New("content not found")

// Store is the minimal contract the file service and the thumbnail worker
// need from an artifact store.
type Store interface {
	Write(key string, data []byte) error
	Read(key string) ([]byte, error)
	Exists(key string) (bool, error)
}

// VariantKey names a derived size variant of a stored artifact.
func VariantKey(key string, width int) string {
	return key + "_" + strconv.Itoa(width)
}
