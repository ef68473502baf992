package board

import (
	"context"

	"jsonboard/internal/domain/models/board"
)

// FolderRepository defines data access operations for folder tree nodes.
// Repositories never enforce the tree invariants (cycle guards, cascade
// scope); that is the storage engine's job.
type FolderRepository interface {
	// Create inserts a new folder
	Create(ctx context.Context, folder *board.Folder) error

	// GetByID retrieves a folder by ID
	GetByID(ctx context.Context, id string) (*board.Folder, error)

	// Update updates a folder's name, parent and updated_at
	Update(ctx context.Context, folder *board.Folder) error

	// DeleteMany removes the given folder ids
	DeleteMany(ctx context.Context, ids []string) error

	// ListChildren lists immediate child folders (nil parent = root level)
	ListChildren(ctx context.Context, parentID *string) ([]board.Folder, error)
}
