// Package fileops is the file-entity service: creation with hierarchy
// validation, listing, visibility toggles and content fetches.
package fileops

import (
	"context"
	"errors"
	"log/slog"

	"github.com/geocoder89/filehub/internal/access"
	"github.com/geocoder89/filehub/internal/blob"
	"github.com/geocoder89/filehub/internal/domain/file"
	"github.com/geocoder89/filehub/internal/jobs"
	"github.com/geocoder89/filehub/internal/queue"
	"github.com/google/uuid"
)

// ThumbnailWidths are the derived size variants produced per image.
var ThumbnailWidths = []int{100, 250, 500}

// Keep this small interface so tests can fake it easily.
type FileStore interface {
	Create(ctx context.Context, f file.File) (file.File, error)
	Get(ctx context.Context, id int64) (file.File, error)
	GetOwned(ctx context.Context, id, ownerID int64) (file.File, error)
	SetVisibility(ctx context.Context, id, ownerID int64, isPublic bool) (file.File, error)
	List(ctx context.Context, ownerID, parentID int64, page int) ([]file.File, error)
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	files  FileStore
	blobs  blob.Store
	thumbs queue.Queue
	log    *slog.Logger
}

func New(files FileStore, blobs blob.Store, thumbs queue.Queue, log *slog.Logger) *Service {
	return &Service{
		files:  files,
		blobs:  blobs,
		thumbs: thumbs,
		log:    log,
	}
}

type CreateInput struct {
	OwnerID  int64
	Name     string
	Type     file.Type
	ParentID int64
	IsPublic bool
	Data     []byte // decoded content bytes, empty for folders
}

// Upload validates the input, persists the metadata record and the content
// bytes, and enqueues a thumbnail job for non-folder types. The blob write
// happens after the metadata insert; if it fails the record is deleted
// again so no orphaned metadata survives. The job is enqueued last, so a
// crash mid-create never produces a job pointing at nothing.
func (s *Service) Upload(ctx context.Context, in CreateInput) (file.File, error) {
	if in.Name == "" {
		return file.File{}, file.ErrMissingName
	}
	if !in.Type.IsValid() {
		return file.File{}, file.ErrMissingType
	}
	if in.Type.HasContent() && len(in.Data) == 0 {
		return file.File{}, file.ErrMissingData
	}

	if in.ParentID != file.RootID {
		parent, err := s.files.Get(ctx, in.ParentID)

		if err != nil {
			if errors.Is(err, file.ErrNotFound) {
				return file.File{}, file.ErrParentNotFound
			}

			return file.File{}, err
		}

		if parent.Type != file.TypeFolder {
			return file.File{}, file.ErrParentNotFolder
		}
	}

	f := file.File{
		Name:     in.Name,
		Type:     in.Type,
		ParentID: in.ParentID,
		OwnerID:  in.OwnerID,
		IsPublic: in.IsPublic,
	}

	if in.Type.HasContent() {
		f.LocalPath = uuid.NewString()
	}

	created, err := s.files.Create(ctx, f)

	if err != nil {
		return file.File{}, err
	}

	if !in.Type.HasContent() {
		return created, nil
	}

	if err := s.blobs.Write(created.LocalPath, in.Data); err != nil {
		// compensating action: never leave a metadata record without bytes
		if delErr := s.files.Delete(ctx, created.ID); delErr != nil {
			s.log.Error("compensating delete failed", "file_id", created.ID, "err", delErr)
		}

		return file.File{}, err
	}

	body, err := jobs.EncodePayload(jobs.JobThumbnail, jobs.ThumbnailPayload{
		FileID:  created.ID,
		OwnerID: created.OwnerID,
	})

	if err == nil {
		err = s.thumbs.Enqueue(ctx, body)
	}

	if err != nil {
		// upload already succeeded; the file just won't get variants
		s.log.Error("thumbnail job enqueue failed", "file_id", created.ID, "err", err)
	}

	return created, nil
}

// Stat returns one of the owner's files by id.
func (s *Service) Stat(ctx context.Context, ownerID, id int64) (file.File, error) {
	return s.files.GetOwned(ctx, id, ownerID)
}

// List returns one page of the owner's files under parentID. Negative
// pages are normalized to the first page; a parent that doesn't exist
// simply yields an empty page.
func (s *Service) List(ctx context.Context, ownerID, parentID int64, page int) ([]file.File, error) {
	if page < 0 {
		page = 0
	}

	return s.files.List(ctx, ownerID, parentID, page)
}

// SetVisibility publishes or unpublishes one of the owner's files. A file
// owned by someone else reports ErrNotFound, never a permission error.
func (s *Service) SetVisibility(ctx context.Context, ownerID, id int64, isPublic bool) (file.File, error) {
	return s.files.SetVisibility(ctx, id, ownerID, isPublic)
}

// Content fetches the stored bytes for a file on behalf of actor (0 means
// anonymous). width selects a derived image variant; 0 means the original.
// Denials and missing variants both surface as ErrNotFound.
func (s *Service) Content(ctx context.Context, actor, id int64, width int) ([]byte, file.File, error) {
	f, err := s.files.Get(ctx, id)

	if err != nil {
		return nil, file.File{}, err
	}

	if !access.CanRead(actor, f) {
		return nil, file.File{}, file.ErrNotFound
	}

	if f.Type == file.TypeFolder {
		return nil, file.File{}, file.ErrFolderNoContent
	}

	key := f.LocalPath

	// size variants only exist for images
	if f.Type == file.TypeImage && isThumbnailWidth(width) {
		key = blob.VariantKey(key, width)
	}

	exists, err := s.blobs.Exists(key)

	if err != nil {
		return nil, file.File{}, err
	}

	if !exists {
		return nil, file.File{}, file.ErrNotFound
	}

	data, err := s.blobs.Read(key)

	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return nil, file.File{}, file.ErrNotFound
		}

		return nil, file.File{}, err
	}

	return data, f, nil
}

func isThumbnailWidth(w int) bool {
	for _, known := range ThumbnailWidths {
		if w == known {
			return true
		}
	}

	return false
}
