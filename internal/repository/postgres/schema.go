package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CreateSchema creates the three logical tables if they do not exist.
// Folders and files reference parents by id without foreign keys to the
// folders table: the root sentinel (NULL parent) is not a stored node, and
// the cascade scope is computed by the storage engine rather than the
// database.
func CreateSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	stmts := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id         VARCHAR(36) PRIMARY KEY,
				parent_id  VARCHAR(36),
				name       VARCHAR(255) NOT NULL,
				created_at TIMESTAMPTZ NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL
			)
		`, tables.Folders),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id         VARCHAR(36) PRIMARY KEY,
				raw_text   TEXT NOT NULL
			)
		`, tables.Contents),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id         VARCHAR(36) PRIMARY KEY,
				parent_id  VARCHAR(36),
				name       VARCHAR(255) NOT NULL,
				content_id VARCHAR(36) NOT NULL REFERENCES %s(id),
				size_bytes BIGINT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL
			)
		`, tables.Files, tables.Contents),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_parent_idx ON %s (parent_id)`, tables.Folders, tables.Folders),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_parent_idx ON %s (parent_id)`, tables.Files, tables.Files),
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}

	return nil
}
