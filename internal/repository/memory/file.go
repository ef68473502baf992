package memory

import (
	"context"
	"fmt"
	"sort"

	"jsonboard/internal/domain"
	models "jsonboard/internal/domain/models/board"
	boardRepo "jsonboard/internal/domain/repositories/board"
)

// FileRepository implements the FileRepository interface over a Store
type FileRepository struct {
	store *Store
}

// NewFileRepository creates a new in-memory file repository
func NewFileRepository(store *Store) boardRepo.FileRepository {
	return &FileRepository{store: store}
}

func (r *FileRepository) Create(ctx context.Context, file *models.FileEntry) error {
	defer r.store.lock(ctx)()
	r.store.files[file.ID] = *file
	return nil
}

func (r *FileRepository) GetByID(ctx context.Context, id string) (*models.FileEntry, error) {
	defer r.store.lock(ctx)()
	file, ok := r.store.files[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("file %s not found", id)}
	}
	return &file, nil
}

func (r *FileRepository) Update(ctx context.Context, file *models.FileEntry) error {
	defer r.store.lock(ctx)()
	if _, ok := r.store.files[file.ID]; !ok {
		return &domain.NotFoundError{Message: fmt.Sprintf("file %s not found", file.ID)}
	}
	r.store.files[file.ID] = *file
	return nil
}

func (r *FileRepository) Delete(ctx context.Context, id string) error {
	defer r.store.lock(ctx)()
	if _, ok := r.store.files[id]; !ok {
		return &domain.NotFoundError{Message: fmt.Sprintf("file %s not found", id)}
	}
	delete(r.store.files, id)
	return nil
}

func (r *FileRepository) ListByFolder(ctx context.Context, parentID *string) ([]models.FileEntry, error) {
	defer r.store.lock(ctx)()
	var files []models.FileEntry
	for _, file := range r.store.files {
		if sameParent(file.ParentID, parentID) {
			files = append(files, file)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

func (r *FileRepository) ListByFolders(ctx context.Context, parentIDs []string) ([]models.FileEntry, error) {
	defer r.store.lock(ctx)()
	wanted := make(map[string]bool, len(parentIDs))
	for _, id := range parentIDs {
		wanted[id] = true
	}
	var files []models.FileEntry
	for _, file := range r.store.files {
		if file.ParentID != nil && wanted[*file.ParentID] {
			files = append(files, file)
		}
	}
	return files, nil
}

func (r *FileRepository) DeleteByFolders(ctx context.Context, parentIDs []string) error {
	defer r.store.lock(ctx)()
	wanted := make(map[string]bool, len(parentIDs))
	for _, id := range parentIDs {
		wanted[id] = true
	}
	for id, file := range r.store.files {
		if file.ParentID != nil && wanted[*file.ParentID] {
			delete(r.store.files, id)
		}
	}
	return nil
}
