package board

import (
	"context"

	"jsonboard/internal/domain/models/board"
)

// FileRepository defines data access operations for file metadata records
type FileRepository interface {
	// Create inserts a new file entry
	Create(ctx context.Context, file *board.FileEntry) error

	// GetByID retrieves a file by ID
	GetByID(ctx context.Context, id string) (*board.FileEntry, error)

	// Update updates a file's name, parent, size and updated_at
	Update(ctx context.Context, file *board.FileEntry) error

	// Delete removes a file entry
	Delete(ctx context.Context, id string) error

	// ListByFolder lists files directly inside a folder (nil = root level)
	ListByFolder(ctx context.Context, parentID *string) ([]board.FileEntry, error)

	// ListByFolders lists files directly inside any of the given folders.
	// Used by cascade delete and subtree listings; root-level files are
	// never matched (the root sentinel is not an id).
	ListByFolders(ctx context.Context, parentIDs []string) ([]board.FileEntry, error)

	// DeleteByFolders removes every file directly inside any of the given folders
	DeleteByFolders(ctx context.Context, parentIDs []string) error
}
