package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the users and files tables when they are missing so
// a fresh database works without a separate migration step.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id            BIGSERIAL PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS files (
			id         BIGSERIAL PRIMARY KEY,
			name       TEXT NOT NULL,
			type       TEXT NOT NULL,
			parent_id  BIGINT NOT NULL DEFAULT 0,
			owner_id   BIGINT NOT NULL REFERENCES users(id),
			is_public  BOOLEAN NOT NULL DEFAULT FALSE,
			local_path TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS files_owner_parent_idx
			ON files (owner_id, parent_id, id);
	`)

	return err
}
