package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"jsonboard/internal/domain"
	models "jsonboard/internal/domain/models/board"
	boardRepo "jsonboard/internal/domain/repositories/board"
)

// PostgresFileRepository implements the FileRepository interface
type PostgresFileRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFileRepository creates a new file repository
func NewFileRepository(config *RepositoryConfig) boardRepo.FileRepository {
	return &PostgresFileRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a new file entry
func (r *PostgresFileRepository) Create(ctx context.Context, file *models.FileEntry) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, parent_id, name, content_id, size_bytes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, r.tables.Files)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		file.ID,
		file.ParentID,
		file.Name,
		file.ContentID,
		file.SizeBytes,
		file.CreatedAt,
		file.UpdatedAt,
	)
	if err != nil {
		return &domain.StorageError{Op: "create file", Err: err}
	}

	return nil
}

// GetByID retrieves a file by ID
func (r *PostgresFileRepository) GetByID(ctx context.Context, id string) (*models.FileEntry, error) {
	query := fmt.Sprintf(`
		SELECT id, parent_id, name, content_id, size_bytes, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.Files)

	var file models.FileEntry
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&file.ID,
		&file.ParentID,
		&file.Name,
		&file.ContentID,
		&file.SizeBytes,
		&file.CreatedAt,
		&file.UpdatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("file %s not found", id)}
		}
		return nil, &domain.StorageError{Op: "get file", Err: err}
	}

	return &file, nil
}

// Update updates a file's name, parent, size and updated_at
func (r *PostgresFileRepository) Update(ctx context.Context, file *models.FileEntry) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET parent_id = $1, name = $2, size_bytes = $3, updated_at = $4
		WHERE id = $5
	`, r.tables.Files)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		file.ParentID,
		file.Name,
		file.SizeBytes,
		file.UpdatedAt,
		file.ID,
	)
	if err != nil {
		return &domain.StorageError{Op: "update file", Err: err}
	}

	if result.RowsAffected() == 0 {
		return &domain.NotFoundError{Message: fmt.Sprintf("file %s not found", file.ID)}
	}

	return nil
}

// Delete removes a file entry
func (r *PostgresFileRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1
	`, r.tables.Files)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return &domain.StorageError{Op: "delete file", Err: err}
	}

	if result.RowsAffected() == 0 {
		return &domain.NotFoundError{Message: fmt.Sprintf("file %s not found", id)}
	}

	return nil
}

// ListByFolder lists files directly inside a folder (nil = root level)
func (r *PostgresFileRepository) ListByFolder(ctx context.Context, parentID *string) ([]models.FileEntry, error) {
	var query string
	var args []interface{}

	if parentID == nil {
		query = fmt.Sprintf(`
			SELECT id, parent_id, name, content_id, size_bytes, created_at, updated_at
			FROM %s
			WHERE parent_id IS NULL
			ORDER BY name ASC
		`, r.tables.Files)
	} else {
		query = fmt.Sprintf(`
			SELECT id, parent_id, name, content_id, size_bytes, created_at, updated_at
			FROM %s
			WHERE parent_id = $1
			ORDER BY name ASC
		`, r.tables.Files)
		args = append(args, *parentID)
	}

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, &domain.StorageError{Op: "list files", Err: err}
	}
	defer rows.Close()

	return scanFiles(rows)
}

// ListByFolders lists files directly inside any of the given folders
func (r *PostgresFileRepository) ListByFolders(ctx context.Context, parentIDs []string) ([]models.FileEntry, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT id, parent_id, name, content_id, size_bytes, created_at, updated_at
		FROM %s
		WHERE parent_id = ANY($1)
	`, r.tables.Files)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, parentIDs)
	if err != nil {
		return nil, &domain.StorageError{Op: "list files by folders", Err: err}
	}
	defer rows.Close()

	return scanFiles(rows)
}

// DeleteByFolders removes every file directly inside any of the given folders
func (r *PostgresFileRepository) DeleteByFolders(ctx context.Context, parentIDs []string) error {
	if len(parentIDs) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE parent_id = ANY($1)
	`, r.tables.Files)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, parentIDs); err != nil {
		return &domain.StorageError{Op: "delete files by folders", Err: err}
	}

	return nil
}

func scanFiles(rows pgx.Rows) ([]models.FileEntry, error) {
	var files []models.FileEntry
	for rows.Next() {
		var file models.FileEntry
		err := rows.Scan(
			&file.ID,
			&file.ParentID,
			&file.Name,
			&file.ContentID,
			&file.SizeBytes,
			&file.CreatedAt,
			&file.UpdatedAt,
		)
		if err != nil {
			return nil, &domain.StorageError{Op: "scan file", Err: err}
		}
		files = append(files, file)
	}

	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Op: "iterate files", Err: err}
	}

	return files, nil
}
