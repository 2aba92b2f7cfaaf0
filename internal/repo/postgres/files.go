package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/filehub/internal/domain/file"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PageSize is the fixed listing window.
const PageSize = 20

type FilesRepo struct {
	pool *pgxpool.Pool
}

func NewFilesRepo(pool *pgxpool.Pool) *FilesRepo {
	return &FilesRepo{pool: pool}
}

func (r *FilesRepo) Create(ctx context.Context, f file.File) (file.File, error) {
	err := r.pool.QueryRow(
		ctx,
		`INSERT INTO files (name, type, parent_id, owner_id, is_public, local_path)
         VALUES ($1, $2, $3, $4, $5, $6)
         RETURNING id`,
		f.Name,
		string(f.Type),
		f.ParentID,
		f.OwnerID,
		f.IsPublic,
		f.LocalPath,
	).Scan(&f.ID)

	if err != nil {
		return file.File{}, err
	}

	return f, nil
}

func (r *FilesRepo) Get(ctx context.Context, id int64) (file.File, error) {
	return r.scanOne(r.pool.QueryRow(
		ctx,
		`SELECT id, name, type, parent_id, owner_id, is_public, local_path
         FROM files
         WHERE id = $1`,
		id,
	))
}

// GetOwned scopes the lookup to one owner so non-owners observe "not found".
func (r *FilesRepo) GetOwned(ctx context.Context, id, ownerID int64) (file.File, error) {
	return r.scanOne(r.pool.QueryRow(
		ctx,
		`SELECT id, name, type, parent_id, owner_id, is_public, local_path
         FROM files
         WHERE id = $1 AND owner_id = $2`,
		id,
		ownerID,
	))
}

// SetVisibility is a match-then-set update on {id, ownerID}. A file owned by
// someone else matches nothing, which is indistinguishable from absence.
func (r *FilesRepo) SetVisibility(ctx context.Context, id, ownerID int64, isPublic bool) (file.File, error) {
	tag, err := r.pool.Exec(
		ctx,
		`UPDATE files SET is_public = $3 WHERE id = $1 AND owner_id = $2`,
		id,
		ownerID,
		isPublic,
	)

	if err != nil {
		return file.File{}, err
	}

	if tag.RowsAffected() == 0 {
		return file.File{}, file.ErrNotFound
	}

	return r.Get(ctx, id)
}

// List returns one fixed-size page of the owner's children under parentID,
// in ascending id order. A window past the end yields an empty slice.
func (r *FilesRepo) List(ctx context.Context, ownerID, parentID int64, page int) ([]file.File, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, name, type, parent_id, owner_id, is_public, local_path
         FROM files
         WHERE owner_id = $1 AND parent_id = $2
         ORDER BY id ASC
         OFFSET $3 LIMIT $4`,
		ownerID,
		parentID,
		page*PageSize,
		PageSize,
	)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	out := make([]file.File, 0, PageSize)

	for rows.Next() {
		var f file.File
		var typ string

		err := rows.Scan(&f.ID, &f.Name, &typ, &f.ParentID, &f.OwnerID, &f.IsPublic, &f.LocalPath)

		if err != nil {
			return nil, err
		}

		f.Type = file.Type(typ)
		out = append(out, f)
	}

	return out, rows.Err()
}

// Delete removes a metadata row. Only used as the compensating action when
// the blob write after create fails.
func (r *FilesRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM files WHERE id = $1`, id)

	return err
}

func (r *FilesRepo) Count(ctx context.Context) (int64, error) {
	var n int64

	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM files`).Scan(&n)

	if err != nil {
		return 0, err
	}

	return n, nil
}

func (r *FilesRepo) scanOne(row pgx.Row) (file.File, error) {
	var f file.File
	var typ string

	err := row.Scan(&f.ID, &f.Name, &typ, &f.ParentID, &f.OwnerID, &f.IsPublic, &f.LocalPath)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return file.File{}, file.ErrNotFound
		}

		return file.File{}, err
	}

	f.Type = file.Type(typ)

	return f, nil
}
