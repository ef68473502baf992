package board

import (
	"context"

	"jsonboard/internal/domain/models/board"
)

// ContentRepository is the thin key->blob table holding raw document text.
// No versioning, no size limits; size accounting happens in the storage
// engine. Writes only ever occur inside the engine's transactional scopes.
type ContentRepository interface {
	// Get retrieves a content record by ID
	Get(ctx context.Context, id string) (*board.Content, error)

	// Put inserts a new content record
	Put(ctx context.Context, content *board.Content) error

	// Update replaces the raw text of an existing record
	Update(ctx context.Context, content *board.Content) error

	// DeleteMany removes the given content ids
	DeleteMany(ctx context.Context, ids []string) error
}
