package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"jsonboard/internal/domain"
	models "jsonboard/internal/domain/models/board"
	boardRepo "jsonboard/internal/domain/repositories/board"
)

// PostgresContentRepository implements the ContentRepository interface
type PostgresContentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewContentRepository creates a new content repository
func NewContentRepository(config *RepositoryConfig) boardRepo.ContentRepository {
	return &PostgresContentRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Get retrieves a content record by ID
func (r *PostgresContentRepository) Get(ctx context.Context, id string) (*models.Content, error) {
	query := fmt.Sprintf(`
		SELECT id, raw_text
		FROM %s
		WHERE id = $1
	`, r.tables.Contents)

	var content models.Content
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(&content.ID, &content.RawText)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("content %s not found", id)}
		}
		return nil, &domain.StorageError{Op: "get content", Err: err}
	}

	return &content, nil
}

// Put inserts a new content record
func (r *PostgresContentRepository) Put(ctx context.Context, content *models.Content) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, raw_text)
		VALUES ($1, $2)
	`, r.tables.Contents)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, content.ID, content.RawText); err != nil {
		return &domain.StorageError{Op: "put content", Err: err}
	}

	return nil
}

// Update replaces the raw text of an existing record
func (r *PostgresContentRepository) Update(ctx context.Context, content *models.Content) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET raw_text = $1
		WHERE id = $2
	`, r.tables.Contents)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, content.RawText, content.ID)
	if err != nil {
		return &domain.StorageError{Op: "update content", Err: err}
	}

	if result.RowsAffected() == 0 {
		return &domain.NotFoundError{Message: fmt.Sprintf("content %s not found", content.ID)}
	}

	return nil
}

// DeleteMany removes the given content ids
func (r *PostgresContentRepository) DeleteMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = ANY($1)
	`, r.tables.Contents)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, ids); err != nil {
		return &domain.StorageError{Op: "delete contents", Err: err}
	}

	return nil
}
