package memory

import (
	"context"
	"fmt"
	"sort"

	"jsonboard/internal/domain"
	models "jsonboard/internal/domain/models/board"
	boardRepo "jsonboard/internal/domain/repositories/board"
)

// FolderRepository implements the FolderRepository interface over a Store
type FolderRepository struct {
	store *Store
}

// NewFolderRepository creates a new in-memory folder repository
func NewFolderRepository(store *Store) boardRepo.FolderRepository {
	return &FolderRepository{store: store}
}

func (r *FolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	defer r.store.lock(ctx)()
	r.store.folders[folder.ID] = *folder
	return nil
}

func (r *FolderRepository) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	defer r.store.lock(ctx)()
	folder, ok := r.store.folders[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("folder %s not found", id)}
	}
	return &folder, nil
}

func (r *FolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	defer r.store.lock(ctx)()
	if _, ok := r.store.folders[folder.ID]; !ok {
		return &domain.NotFoundError{Message: fmt.Sprintf("folder %s not found", folder.ID)}
	}
	r.store.folders[folder.ID] = *folder
	return nil
}

func (r *FolderRepository) DeleteMany(ctx context.Context, ids []string) error {
	defer r.store.lock(ctx)()
	for _, id := range ids {
		delete(r.store.folders, id)
	}
	return nil
}

func (r *FolderRepository) ListChildren(ctx context.Context, parentID *string) ([]models.Folder, error) {
	defer r.store.lock(ctx)()
	var folders []models.Folder
	for _, folder := range r.store.folders {
		if sameParent(folder.ParentID, parentID) {
			folders = append(folders, folder)
		}
	}
	sort.Slice(folders, func(i, j int) bool { return folders[i].Name < folders[j].Name })
	return folders, nil
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
