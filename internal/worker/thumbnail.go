package worker

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/geocoder89/filehub/internal/blob"
	"github.com/geocoder89/filehub/internal/domain/file"
	"github.com/geocoder89/filehub/internal/fileops"
	"github.com/geocoder89/filehub/internal/jobs"
)

// Keep this small interface so tests can fake it easily.
type FileReader interface {
	GetOwned(ctx context.Context, id, ownerID int64) (file.File, error)
}

// ThumbnailProcessor turns one uploaded image into its resized variants.
// It runs with owner-equivalent authority, so it checks ownership but not
// read visibility.
type ThumbnailProcessor struct {
	files FileReader
	blobs blob.Store
	log   *slog.Logger
}

func NewThumbnailProcessor(files FileReader, blobs blob.Store, log *slog.Logger) *ThumbnailProcessor {
	return &ThumbnailProcessor{
		files: files,
		blobs: blobs,
		log:   log,
	}
}

func (p *ThumbnailProcessor) Process(ctx context.Context, raw []byte) error {
	decoded, err := jobs.DecodePayload(jobs.JobThumbnail, raw)

	if err != nil {
		return err
	}

	payload := decoded.(jobs.ThumbnailPayload)

	if err := jobs.ValidatePayload(jobs.JobThumbnail, payload); err != nil {
		return err
	}

	f, err := p.files.GetOwned(ctx, payload.FileID, payload.OwnerID)

	if err != nil {
		return fmt.Errorf("file %d not found for owner %d: %w", payload.FileID, payload.OwnerID, err)
	}

	data, err := p.blobs.Read(f.LocalPath)

	if err != nil {
		// bytes gone out-of-band: the job fails, the metadata stays valid
		return fmt.Errorf("read source bytes for file %d: %w", f.ID, err)
	}

	src, err := imaging.Decode(bytes.NewReader(data))

	if err != nil {
		return fmt.Errorf("decode image for file %d: %w", f.ID, err)
	}

	format, err := imaging.FormatFromFilename(f.Name)

	if err != nil {
		format = imaging.PNG
	}

	// produce every variant in memory first so a failure commits nothing
	variants := make(map[string][]byte, len(fileops.ThumbnailWidths))

	for _, width := range fileops.ThumbnailWidths {
		thumb := imaging.Resize(src, width, 0, imaging.Lanczos)

		var buf bytes.Buffer

		if err := imaging.Encode(&buf, thumb, format); err != nil {
			return fmt.Errorf("encode %dpx variant for file %d: %w", width, f.ID, err)
		}

		variants[blob.VariantKey(f.LocalPath, width)] = buf.Bytes()
	}

	for key, body := range variants {
		if err := p.blobs.Write(key, body); err != nil {
			return fmt.Errorf("write variant %s: %w", key, err)
		}
	}

	p.log.Info("thumbnails generated", "file_id", f.ID, "name", filepath.Base(f.Name), "variants", len(variants))

	return nil
}
