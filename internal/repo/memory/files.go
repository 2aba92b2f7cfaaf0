package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/geocoder89/filehub/internal/domain/file"
)

const pageSize = 20

// FilesRepo mirrors the postgres files repo for tests. IDs are assigned
// sequentially so ascending-id order is creation order, same as BIGSERIAL.
type FilesRepo struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]file.File
}

func NewFilesRepo() *FilesRepo {
	return &FilesRepo{
		nextID: 1,
		items:  make(map[int64]file.File),
	}
}

func (r *FilesRepo) Create(_ context.Context, f file.File) (file.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f.ID = r.nextID
	r.nextID++
	r.items[f.ID] = f

	return f, nil
}

func (r *FilesRepo) Get(_ context.Context, id int64) (file.File, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.items[id]

	if !ok {
		return file.File{}, file.ErrNotFound
	}

	return f, nil
}

func (r *FilesRepo) GetOwned(_ context.Context, id, ownerID int64) (file.File, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.items[id]

	if !ok || f.OwnerID != ownerID {
		return file.File{}, file.ErrNotFound
	}

	return f, nil
}

func (r *FilesRepo) SetVisibility(_ context.Context, id, ownerID int64, isPublic bool) (file.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.items[id]

	if !ok || f.OwnerID != ownerID {
		return file.File{}, file.ErrNotFound
	}

	f.IsPublic = isPublic
	r.items[id] = f

	return f, nil
}

func (r *FilesRepo) List(_ context.Context, ownerID, parentID int64, page int) ([]file.File, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]file.File, 0)

	for _, f := range r.items {
		if f.OwnerID == ownerID && f.ParentID == parentID {
			matched = append(matched, f)
		}
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	start := page * pageSize

	if start >= len(matched) {
		return []file.File{}, nil
	}

	end := start + pageSize

	if end > len(matched) {
		end = len(matched)
	}

	return matched[start:end], nil
}

func (r *FilesRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	delete(r.items, id)
	r.mu.Unlock()

	return nil
}

func (r *FilesRepo) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.items)), nil
}
