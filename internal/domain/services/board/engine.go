package board

import (
	"context"

	"jsonboard/internal/domain/models/board"
)

// FolderContents is a folder listing: the folder itself (nil for root),
// its direct child folders and its direct files. Descendants are never
// included.
type FolderContents struct {
	Folder  *board.Folder
	Folders []board.Folder
	Files   []board.FileEntry
}

// MoveResult reports the outcome of a batch move. Skipped holds the ids
// rejected by the move-safety rule (self-move, move into own subtree);
// a skip never aborts the rest of the batch.
type MoveResult struct {
	Moved   []string
	Skipped []string
}

// StorageEngine owns the Folder/FileEntry/Content tables and enforces all
// tree invariants. Every mutation path goes through these guarded
// operations; no other component writes the tables directly.
type StorageEngine interface {
	// ListChildren returns the direct children of a folder (nil = root)
	ListChildren(ctx context.Context, folderID *string) (*FolderContents, error)

	// CreateFolder creates a folder under the given parent (nil = root)
	CreateFolder(ctx context.Context, name string, parentID *string) (*board.Folder, error)

	// CreateFile writes the FileEntry and its Content as one atomic unit
	CreateFile(ctx context.Context, name, content string, parentID *string) (*board.FileEntry, error)

	// RenameFolder updates a folder's name. Duplicate sibling names are
	// permitted; callers may warn but the engine does not reject.
	RenameFolder(ctx context.Context, id, newName string) (*board.Folder, error)

	// RenameFile updates a file's name
	RenameFile(ctx context.Context, id, newName string) (*board.FileEntry, error)

	// MoveItems reparents each id onto targetFolderID (nil = root). Files
	// move unconditionally; folders are subject to the move-safety rule.
	MoveItems(ctx context.Context, ids []string, targetFolderID *string) (*MoveResult, error)

	// DeleteFile removes the FileEntry and its Content atomically
	DeleteFile(ctx context.Context, id string) error

	// DeleteFolder removes the folder, every descendant folder, every file
	// rooted anywhere under the subtree and each file's Content, as one
	// atomic operation.
	DeleteFolder(ctx context.Context, id string) error

	// FolderPath returns the chain of folders from the root down to
	// folderID, for breadcrumb reconstruction.
	FolderPath(ctx context.Context, folderID string) ([]board.Folder, error)

	// ReadFileContent resolves a file's content id and returns the file
	// together with its raw serialized text.
	ReadFileContent(ctx context.Context, fileID string) (*board.FileEntry, string, error)

	// SaveFileContent replaces a file's raw text and updates its size and
	// modification time atomically.
	SaveFileContent(ctx context.Context, fileID, rawText string) (*board.FileEntry, error)

	// IsFolderEmpty reports whether a folder has no direct children
	IsFolderEmpty(ctx context.Context, folderID string) (bool, error)

	// FilesUnder returns every file in the folder's subtree, the folder
	// itself included.
	FilesUnder(ctx context.Context, folderID string) ([]board.FileEntry, error)
}
