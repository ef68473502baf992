package memory

import (
	"context"
	"fmt"

	"jsonboard/internal/domain"
	models "jsonboard/internal/domain/models/board"
	boardRepo "jsonboard/internal/domain/repositories/board"
)

// ContentRepository implements the ContentRepository interface over a Store
type ContentRepository struct {
	store *Store
}

// NewContentRepository creates a new in-memory content repository
func NewContentRepository(store *Store) boardRepo.ContentRepository {
	return &ContentRepository{store: store}
}

func (r *ContentRepository) Get(ctx context.Context, id string) (*models.Content, error) {
	defer r.store.lock(ctx)()
	content, ok := r.store.contents[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("content %s not found", id)}
	}
	return &content, nil
}

func (r *ContentRepository) Put(ctx context.Context, content *models.Content) error {
	defer r.store.lock(ctx)()
	r.store.contents[content.ID] = *content
	return nil
}

func (r *ContentRepository) Update(ctx context.Context, content *models.Content) error {
	defer r.store.lock(ctx)()
	if _, ok := r.store.contents[content.ID]; !ok {
		return &domain.NotFoundError{Message: fmt.Sprintf("content %s not found", content.ID)}
	}
	r.store.contents[content.ID] = *content
	return nil
}

func (r *ContentRepository) DeleteMany(ctx context.Context, ids []string) error {
	defer r.store.lock(ctx)()
	for _, id := range ids {
		delete(r.store.contents, id)
	}
	return nil
}
