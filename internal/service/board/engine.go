package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"jsonboard/internal/config"
	"jsonboard/internal/domain"
	models "jsonboard/internal/domain/models/board"
	"jsonboard/internal/domain/repositories"
	boardRepo "jsonboard/internal/domain/repositories/board"
	boardSvc "jsonboard/internal/domain/services/board"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// storageEngine implements the StorageEngine interface
type storageEngine struct {
	folderRepo  boardRepo.FolderRepository
	fileRepo    boardRepo.FileRepository
	contentRepo boardRepo.ContentRepository
	txManager   repositories.TransactionManager
	settings    *config.Settings
	logger      *slog.Logger
}

// NewStorageEngine creates a new storage engine
func NewStorageEngine(
	folderRepo boardRepo.FolderRepository,
	fileRepo boardRepo.FileRepository,
	contentRepo boardRepo.ContentRepository,
	txManager repositories.TransactionManager,
	settings *config.Settings,
	logger *slog.Logger,
) boardSvc.StorageEngine {
	return &storageEngine{
		folderRepo:  folderRepo,
		fileRepo:    fileRepo,
		contentRepo: contentRepo,
		txManager:   txManager,
		settings:    settings,
		logger:      logger,
	}
}

// ListChildren returns the direct children of a folder (nil = root)
func (s *storageEngine) ListChildren(ctx context.Context, folderID *string) (*boardSvc.FolderContents, error) {
	// Normalize empty string to nil for the root level
	if folderID != nil && *folderID == "" {
		folderID = nil
	}

	var folder *models.Folder
	var err error
	if folderID != nil {
		folder, err = s.folderRepo.GetByID(ctx, *folderID)
		if err != nil {
			return nil, err
		}
	}

	childFolders, err := s.folderRepo.ListChildren(ctx, folderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list child folders: %w", err)
	}

	files, err := s.fileRepo.ListByFolder(ctx, folderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	return &boardSvc.FolderContents{
		Folder:  folder,
		Folders: childFolders,
		Files:   files,
	}, nil
}

// CreateFolder creates a folder under the given parent (nil = root).
// Duplicate sibling names are permitted; callers may warn but the engine
// does not reject.
func (s *storageEngine) CreateFolder(ctx context.Context, name string, parentID *string) (*models.Folder, error) {
	if parentID != nil && *parentID == "" {
		parentID = nil
	}

	if err := validateName(name, config.MaxFolderNameLength); err != nil {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("invalid folder name: %v", err)}
	}

	if parentID != nil {
		if _, err := s.folderRepo.GetByID(ctx, *parentID); err != nil {
			return nil, fmt.Errorf("parent folder: %w", err)
		}
	}

	now := time.Now()
	folder := &models.Folder{
		ID:        uuid.NewString(),
		ParentID:  parentID,
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"parent_id", folder.ParentID,
	)

	return folder, nil
}

// CreateFile writes the FileEntry and its Content as one atomic unit.
// Content arrives already validated as well-formed JSON by the caller's
// decode step; sizeBytes is the byte length of the serialized text.
func (s *storageEngine) CreateFile(ctx context.Context, name, content string, parentID *string) (*models.FileEntry, error) {
	if parentID != nil && *parentID == "" {
		parentID = nil
	}

	if err := validateName(name, config.MaxFileNameLength); err != nil {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("invalid file name: %v", err)}
	}

	if parentID != nil {
		if _, err := s.folderRepo.GetByID(ctx, *parentID); err != nil {
			return nil, fmt.Errorf("parent folder: %w", err)
		}
	}

	now := time.Now()
	file := &models.FileEntry{
		ID:        uuid.NewString(),
		ParentID:  parentID,
		Name:      strings.TrimSpace(name),
		ContentID: uuid.NewString(),
		SizeBytes: int64(len(content)),
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Content first, then metadata, one transaction: a reader must never
	// observe a FileEntry whose content id dangles.
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.contentRepo.Put(txCtx, &models.Content{ID: file.ContentID, RawText: content}); err != nil {
			return err
		}
		return s.fileRepo.Create(txCtx, file)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("file created",
		"id", file.ID,
		"name", file.Name,
		"parent_id", file.ParentID,
		"size_bytes", file.SizeBytes,
	)

	return file, nil
}

// RenameFolder updates a folder's name and updated_at
func (s *storageEngine) RenameFolder(ctx context.Context, id, newName string) (*models.Folder, error) {
	if err := validateName(newName, config.MaxFolderNameLength); err != nil {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("invalid folder name: %v", err)}
	}

	folder, err := s.folderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	folder.Name = strings.TrimSpace(newName)
	folder.UpdatedAt = time.Now()

	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder renamed", "id", folder.ID, "name", folder.Name)
	return folder, nil
}

// RenameFile updates a file's name and updated_at
func (s *storageEngine) RenameFile(ctx context.Context, id, newName string) (*models.FileEntry, error) {
	if err := validateName(newName, config.MaxFileNameLength); err != nil {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("invalid file name: %v", err)}
	}

	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	file.Name = strings.TrimSpace(newName)
	file.UpdatedAt = time.Now()

	if err := s.fileRepo.Update(ctx, file); err != nil {
		return nil, err
	}

	s.logger.Info("file renamed", "id", file.ID, "name", file.Name)
	return file, nil
}

// MoveItems reparents each id onto targetFolderID (nil = root). Files move
// unconditionally. For folders the move-safety rule applies: a folder is
// skipped when it is the target itself or when the target sits inside its
// own subtree, either of which would disconnect the tree. A skip is logged
// and the batch continues; storage failures abort and propagate.
func (s *storageEngine) MoveItems(ctx context.Context, ids []string, targetFolderID *string) (*boardSvc.MoveResult, error) {
	if targetFolderID != nil && *targetFolderID == "" {
		targetFolderID = nil
	}

	if targetFolderID != nil {
		if _, err := s.folderRepo.GetByID(ctx, *targetFolderID); err != nil {
			return nil, fmt.Errorf("target folder: %w", err)
		}
	}

	result := &boardSvc.MoveResult{}

	for _, id := range ids {
		moved, err := s.moveOne(ctx, id, targetFolderID)
		if err != nil {
			return nil, err
		}
		if moved {
			result.Moved = append(result.Moved, id)
		} else {
			result.Skipped = append(result.Skipped, id)
		}
	}

	return result, nil
}

func (s *storageEngine) moveOne(ctx context.Context, id string, targetFolderID *string) (bool, error) {
	file, err := s.fileRepo.GetByID(ctx, id)
	if err == nil {
		file.ParentID = targetFolderID
		file.UpdatedAt = time.Now()
		if err := s.fileRepo.Update(ctx, file); err != nil {
			return false, err
		}
		return true, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}

	folder, err := s.folderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("move skipped: id is neither file nor folder", "id", id)
			return false, nil
		}
		return false, err
	}

	if targetFolderID != nil {
		if *targetFolderID == id {
			s.logger.Warn("move skipped: cannot move folder into itself", "id", id)
			return false, nil
		}

		descendants, err := s.descendantFolderIDs(ctx, id)
		if err != nil {
			return false, err
		}
		for _, d := range descendants {
			if d == *targetFolderID {
				s.logger.Warn("move skipped: target is inside the folder's own subtree",
					"id", id,
					"target_id", *targetFolderID,
				)
				return false, nil
			}
		}
	}

	folder.ParentID = targetFolderID
	folder.UpdatedAt = time.Now()
	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteFile removes the FileEntry and its Content atomically
func (s *storageEngine) DeleteFile(ctx context.Context, id string) error {
	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	// The files table references contents, so the entry goes first
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.fileRepo.Delete(txCtx, id); err != nil {
			return err
		}
		return s.contentRepo.DeleteMany(txCtx, []string{file.ContentID})
	})
	if err != nil {
		return err
	}

	s.logger.Info("file deleted", "id", id, "name", file.Name)
	return nil
}

// DeleteFolder removes the folder, every descendant folder, every file
// rooted anywhere under the subtree and each file's Content, as one atomic
// operation. No partial cascade is observable by other readers.
func (s *storageEngine) DeleteFolder(ctx context.Context, id string) error {
	folder, err := s.folderRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	descendants, err := s.descendantFolderIDs(ctx, id)
	if err != nil {
		return err
	}
	allFolderIDs := append([]string{id}, descendants...)

	files, err := s.fileRepo.ListByFolders(ctx, allFolderIDs)
	if err != nil {
		return err
	}

	contentIDs := make([]string, 0, len(files))
	for _, file := range files {
		contentIDs = append(contentIDs, file.ContentID)
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.fileRepo.DeleteByFolders(txCtx, allFolderIDs); err != nil {
			return err
		}
		if err := s.contentRepo.DeleteMany(txCtx, contentIDs); err != nil {
			return err
		}
		return s.folderRepo.DeleteMany(txCtx, allFolderIDs)
	})
	if err != nil {
		return err
	}

	s.logger.Info("folder deleted",
		"id", id,
		"name", folder.Name,
		"descendant_folders", len(descendants),
		"files", len(files),
	)
	return nil
}

// FolderPath returns the chain of folders from the root down to folderID.
// The walk reads the parent chain upward; the depth cap is the termination
// guarantee if the acyclic invariant is ever violated by out-of-band
// writes. An ancestor that vanishes mid-walk (a concurrent move or delete)
// truncates the chain rather than failing the call.
func (s *storageEngine) FolderPath(ctx context.Context, folderID string) ([]models.Folder, error) {
	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return nil, err
	}

	chain := []models.Folder{*folder}
	for depth := 0; folder.ParentID != nil; depth++ {
		if depth >= s.settings.MaxFolderDepth {
			return nil, fmt.Errorf("folder path for %s exceeds depth cap %d", folderID, s.settings.MaxFolderDepth)
		}

		folder, err = s.folderRepo.GetByID(ctx, *folder.ParentID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				s.logger.Warn("folder path truncated: ancestor vanished mid-walk", "folder_id", folderID)
				break
			}
			return nil, err
		}
		chain = append(chain, *folder)
	}

	// Collected leaf-to-root; callers want root-to-leaf
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// ReadFileContent resolves a file's content id and returns the file with
// its raw serialized text
func (s *storageEngine) ReadFileContent(ctx context.Context, fileID string) (*models.FileEntry, string, error) {
	file, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return nil, "", err
	}

	content, err := s.contentRepo.Get(ctx, file.ContentID)
	if err != nil {
		return nil, "", err
	}

	return file, content.RawText, nil
}

// SaveFileContent replaces a file's raw text and updates its size and
// modification time atomically
func (s *storageEngine) SaveFileContent(ctx context.Context, fileID, rawText string) (*models.FileEntry, error) {
	file, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}

	file.SizeBytes = int64(len(rawText))
	file.UpdatedAt = time.Now()

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.contentRepo.Update(txCtx, &models.Content{ID: file.ContentID, RawText: rawText}); err != nil {
			return err
		}
		return s.fileRepo.Update(txCtx, file)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("file content saved", "id", fileID, "size_bytes", file.SizeBytes)
	return file, nil
}

// IsFolderEmpty reports whether a folder has no direct children
func (s *storageEngine) IsFolderEmpty(ctx context.Context, folderID string) (bool, error) {
	childFolders, err := s.folderRepo.ListChildren(ctx, &folderID)
	if err != nil {
		return false, err
	}
	if len(childFolders) > 0 {
		return false, nil
	}

	files, err := s.fileRepo.ListByFolder(ctx, &folderID)
	if err != nil {
		return false, err
	}
	return len(files) == 0, nil
}

// FilesUnder returns every file in the folder's subtree, the folder itself
// included
func (s *storageEngine) FilesUnder(ctx context.Context, folderID string) ([]models.FileEntry, error) {
	descendants, err := s.descendantFolderIDs(ctx, folderID)
	if err != nil {
		return nil, err
	}
	return s.fileRepo.ListByFolders(ctx, append([]string{folderID}, descendants...))
}

// descendantFolderIDs computes the transitive descendant folder set with
// an explicit work stack, so deep trees cannot blow the goroutine stack.
// The visited set makes the walk cycle-safe by construction even if the
// acyclic invariant has been violated.
func (s *storageEngine) descendantFolderIDs(ctx context.Context, folderID string) ([]string, error) {
	var descendants []string
	visited := map[string]bool{folderID: true}
	stack := []string{folderID}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		children, err := s.folderRepo.ListChildren(ctx, &current)
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			if visited[child.ID] {
				continue
			}
			visited[child.ID] = true
			descendants = append(descendants, child.ID)
			stack = append(stack, child.ID)
		}
	}

	return descendants, nil
}

var nameSlashPattern = regexp.MustCompile(`^[^/]+$`)

func validateName(name string, maxLength int) error {
	name = strings.TrimSpace(name)
	return validation.Validate(name,
		validation.Required,
		validation.Length(1, maxLength),
		validation.Match(nameSlashPattern).Error("name cannot contain slashes"),
	)
}
