package access

import (
	"testing"

	"github.com/geocoder89/filehub/internal/domain/file"
)

func TestCanRead(t *testing.T) {
	tests := []struct {
		name  string
		actor int64
		f     file.File
		want  bool
	}{
		{"public file, anonymous", 0, file.File{OwnerID: 1, IsPublic: true}, true},
		{"public file, other user", 2, file.File{OwnerID: 1, IsPublic: true}, true},
		{"private file, anonymous", 0, file.File{OwnerID: 1}, false},
		{"private file, owner", 1, file.File{OwnerID: 1}, true},
		{"private file, other user", 2, file.File{OwnerID: 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanRead(tt.actor, tt.f); got != tt.want {
				t.Fatalf("CanRead(%d, %+v) = %v, want %v", tt.actor, tt.f, got, tt.want)
			}
		})
	}
}

func TestCanReadFlipsWithVisibility(t *testing.T) {
	f := file.File{OwnerID: 1}

	if CanRead(0, f) {
		t.Fatalf("anonymous read of private file must be denied")
	}

	f.IsPublic = true

	if !CanRead(0, f) {
		t.Fatalf("anonymous read of public file must be allowed")
	}

	f.IsPublic = false

	if CanRead(0, f) {
		t.Fatalf("unpublish must re-deny anonymous reads")
	}
}
