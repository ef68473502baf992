package board

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"jsonboard/internal/config"
	"jsonboard/internal/domain"
	boardRepo "jsonboard/internal/domain/repositories/board"
	boardSvc "jsonboard/internal/domain/services/board"
	"jsonboard/internal/repository/memory"
)

type testEnv struct {
	engine   boardSvc.StorageEngine
	contents boardRepo.ContentRepository
	files    boardRepo.FileRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	settings, err := config.LoadSettings()
	if err != nil {
		t.Fatalf("Failed to load settings: %v", err)
	}

	store := memory.NewStore()
	folderRepo := memory.NewFolderRepository(store)
	fileRepo := memory.NewFileRepository(store)
	contentRepo := memory.NewContentRepository(store)
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	return &testEnv{
		engine: NewStorageEngine(
			folderRepo,
			fileRepo,
			contentRepo,
			memory.NewTransactionManager(store),
			settings,
			logger,
		),
		contents: contentRepo,
		files:    fileRepo,
	}
}

// mkFolder is a test helper creating a folder and returning its id
func (e *testEnv) mkFolder(t *testing.T, name string, parentID *string) string {
	t.Helper()
	folder, err := e.engine.CreateFolder(context.Background(), name, parentID)
	if err != nil {
		t.Fatalf("CreateFolder(%s) failed: %v", name, err)
	}
	return folder.ID
}

func (e *testEnv) mkFile(t *testing.T, name, content string, parentID *string) string {
	t.Helper()
	file, err := e.engine.CreateFile(context.Background(), name, content, parentID)
	if err != nil {
		t.Fatalf("CreateFile(%s) failed: %v", name, err)
	}
	return file.ID
}

func TestCreateFile_RoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	content := `{
  "name": "Aria",
  "hp": 10
}`
	folderID := env.mkFolder(t, "characters", nil)
	fileID := env.mkFile(t, "aria.json", content, &folderID)

	file, rawText, err := env.engine.ReadFileContent(ctx, fileID)
	if err != nil {
		t.Fatalf("ReadFileContent failed: %v", err)
	}
	if rawText != content {
		t.Errorf("read-back content differs from original:\n%q\nvs\n%q", rawText, content)
	}
	if file.SizeBytes != int64(len(content)) {
		t.Errorf("size_bytes = %d, want %d", file.SizeBytes, len(content))
	}
	if file.ParentID == nil || *file.ParentID != folderID {
		t.Errorf("parent_id = %v, want %s", file.ParentID, folderID)
	}
}

func TestCreateFile_EmptyNameRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, name := range []string{"", "   "} {
		_, err := env.engine.CreateFile(ctx, name, `{}`, nil)
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("CreateFile(%q) error = %v, want ErrValidation", name, err)
		}
	}
}

func TestSaveFileContent_UpdatesContentAndSize(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	fileID := env.mkFile(t, "doc.json", `{"a":1}`, nil)

	updated := `{
  "a": 2
}`
	file, err := env.engine.SaveFileContent(ctx, fileID, updated)
	if err != nil {
		t.Fatalf("SaveFileContent failed: %v", err)
	}
	if file.SizeBytes != int64(len(updated)) {
		t.Errorf("size_bytes = %d, want %d", file.SizeBytes, len(updated))
	}

	_, rawText, err := env.engine.ReadFileContent(ctx, fileID)
	if err != nil {
		t.Fatalf("ReadFileContent failed: %v", err)
	}
	if rawText != updated {
		t.Errorf("content = %q, want %q", rawText, updated)
	}
}

func TestListChildren_DirectOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	top := env.mkFolder(t, "top", nil)
	nested := env.mkFolder(t, "nested", &top)
	env.mkFolder(t, "deep", &nested)
	env.mkFile(t, "direct.json", `{}`, &top)
	env.mkFile(t, "buried.json", `{}`, &nested)

	contents, err := env.engine.ListChildren(ctx, &top)
	if err != nil {
		t.Fatalf("ListChildren failed: %v", err)
	}
	if len(contents.Folders) != 1 || contents.Folders[0].ID != nested {
		t.Errorf("expected exactly the direct child folder, got %v", contents.Folders)
	}
	if len(contents.Files) != 1 || contents.Files[0].Name != "direct.json" {
		t.Errorf("expected exactly the direct file, got %v", contents.Files)
	}
}

func TestRename_PermitsDuplicateSiblings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.mkFolder(t, "twin", nil)
	second := env.mkFolder(t, "other", nil)

	// Duplicate sibling names are allowed by design
	folder, err := env.engine.RenameFolder(ctx, second, "twin")
	if err != nil {
		t.Fatalf("RenameFolder to duplicate name failed: %v", err)
	}
	if folder.Name != "twin" {
		t.Errorf("name = %q, want twin", folder.Name)
	}
}

func TestFolderPath_RootToLeaf(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.mkFolder(t, "a", nil)
	b := env.mkFolder(t, "b", &a)
	c := env.mkFolder(t, "c", &b)

	chain, err := env.engine.FolderPath(ctx, c)
	if err != nil {
		t.Fatalf("FolderPath failed: %v", err)
	}
	if len(chain) != 3 {
		t.Fatalf("chain length = %d, want 3", len(chain))
	}
	if chain[0].ID != a || chain[1].ID != b || chain[2].ID != c {
		t.Errorf("chain order wrong: %v", []string{chain[0].ID, chain[1].ID, chain[2].ID})
	}
	if chain[0].ParentID != nil {
		t.Error("first element's parent should be the root sentinel")
	}
}

func TestFolderPath_TerminatesOnParentCycle(t *testing.T) {
	settings, err := config.LoadSettings()
	if err != nil {
		t.Fatalf("Failed to load settings: %v", err)
	}

	store := memory.NewStore()
	folderRepo := memory.NewFolderRepository(store)
	engine := NewStorageEngine(
		folderRepo,
		memory.NewFileRepository(store),
		memory.NewContentRepository(store),
		memory.NewTransactionManager(store),
		settings,
		slog.New(slog.NewTextHandler(os.Stdout, nil)),
	)
	ctx := context.Background()

	a, err := engine.CreateFolder(ctx, "a", nil)
	if err != nil {
		t.Fatalf("CreateFolder failed: %v", err)
	}
	b, err := engine.CreateFolder(ctx, "b", &a.ID)
	if err != nil {
		t.Fatalf("CreateFolder failed: %v", err)
	}

	// Plant a parent cycle behind the engine's back, the way an
	// out-of-band write could. The depth cap must turn the walk into an
	// error instead of a hang.
	a.ParentID = &b.ID
	if err := folderRepo.Update(ctx, a); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if _, err := engine.FolderPath(ctx, b.ID); err == nil {
		t.Fatal("expected a depth cap error walking a cyclic parent chain")
	}
}

func TestMoveItems_SelfMoveIsIdempotentNoOp(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	parent := env.mkFolder(t, "parent", nil)
	a := env.mkFolder(t, "a", &parent)

	for i := 0; i < 2; i++ {
		result, err := env.engine.MoveItems(ctx, []string{a}, &a)
		if err != nil {
			t.Fatalf("MoveItems failed: %v", err)
		}
		if len(result.Moved) != 0 || len(result.Skipped) != 1 {
			t.Fatalf("attempt %d: moved=%v skipped=%v, want pure skip", i, result.Moved, result.Skipped)
		}

		chain, err := env.engine.FolderPath(ctx, a)
		if err != nil {
			t.Fatalf("FolderPath failed: %v", err)
		}
		if chain[0].ID != parent {
			t.Errorf("attempt %d: parent changed to %s", i, chain[0].ID)
		}
	}
}

func TestMoveItems_DescendantMoveRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.mkFolder(t, "a", nil)
	b := env.mkFolder(t, "b", &a)
	c := env.mkFolder(t, "c", &b)

	// Moving a into its own grandchild would disconnect the tree
	result, err := env.engine.MoveItems(ctx, []string{a}, &c)
	if err != nil {
		t.Fatalf("MoveItems failed: %v", err)
	}
	if len(result.Skipped) != 1 || result.Skipped[0] != a {
		t.Fatalf("expected a skipped, got moved=%v skipped=%v", result.Moved, result.Skipped)
	}

	chain, err := env.engine.FolderPath(ctx, c)
	if err != nil {
		t.Fatalf("FolderPath failed: %v", err)
	}
	if len(chain) != 3 || chain[0].ID != a {
		t.Error("tree shape changed by a rejected move")
	}
}

func TestMoveItems_BatchSkipDoesNotAbortOthers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ancestor := env.mkFolder(t, "ancestor", nil)
	target := env.mkFolder(t, "target", &ancestor)
	sub := env.mkFolder(t, "sub", nil)
	fileID := env.mkFile(t, "doc.json", `{}`, nil)

	result, err := env.engine.MoveItems(ctx, []string{fileID, sub, ancestor}, &target)
	if err != nil {
		t.Fatalf("MoveItems failed: %v", err)
	}
	if len(result.Moved) != 2 {
		t.Errorf("moved = %v, want the file and the subfolder", result.Moved)
	}
	if len(result.Skipped) != 1 || result.Skipped[0] != ancestor {
		t.Errorf("skipped = %v, want only the ancestor", result.Skipped)
	}

	contents, err := env.engine.ListChildren(ctx, &target)
	if err != nil {
		t.Fatalf("ListChildren failed: %v", err)
	}
	if len(contents.Files) != 1 || contents.Files[0].ID != fileID {
		t.Error("file did not land in the target folder")
	}
	if len(contents.Folders) != 1 || contents.Folders[0].ID != sub {
		t.Error("subfolder did not land in the target folder")
	}

	// The ancestor stays where it was
	anc, err := env.engine.ListChildren(ctx, nil)
	if err != nil {
		t.Fatalf("ListChildren(root) failed: %v", err)
	}
	found := false
	for _, folder := range anc.Folders {
		if folder.ID == ancestor {
			found = true
		}
	}
	if !found {
		t.Error("ancestor moved despite the skip")
	}
}

func TestDeleteFile_RemovesEntryAndContent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	fileID := env.mkFile(t, "doc.json", `{"x":1}`, nil)
	file, err := env.files.GetByID(ctx, fileID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	if err := env.engine.DeleteFile(ctx, fileID); err != nil {
		t.Fatalf("DeleteFile failed: %v", err)
	}

	if _, _, err := env.engine.ReadFileContent(ctx, fileID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound reading deleted file, got %v", err)
	}
	if _, err := env.contents.Get(ctx, file.ContentID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected orphaned content to be gone, got %v", err)
	}
}

// refCheckedContentRepo mimics the immediate REFERENCES constraint the
// production schema puts on the files table: deleting a content row while
// a file entry still points at it fails the statement.
type refCheckedContentRepo struct {
	boardRepo.ContentRepository
	files boardRepo.FileRepository
}

func (r *refCheckedContentRepo) DeleteMany(ctx context.Context, ids []string) error {
	files, err := r.files.ListByFolder(ctx, nil)
	if err != nil {
		return err
	}
	for _, id := range ids {
		for _, file := range files {
			if file.ContentID == id {
				return &domain.StorageError{Op: "delete contents", Err: errors.New("violates foreign key constraint")}
			}
		}
	}
	return r.ContentRepository.DeleteMany(ctx, ids)
}

func TestDeleteFile_RespectsContentReference(t *testing.T) {
	settings, err := config.LoadSettings()
	if err != nil {
		t.Fatalf("Failed to load settings: %v", err)
	}

	store := memory.NewStore()
	fileRepo := memory.NewFileRepository(store)
	contentRepo := &refCheckedContentRepo{
		ContentRepository: memory.NewContentRepository(store),
		files:             fileRepo,
	}
	engine := NewStorageEngine(
		memory.NewFolderRepository(store),
		fileRepo,
		contentRepo,
		memory.NewTransactionManager(store),
		settings,
		slog.New(slog.NewTextHandler(os.Stdout, nil)),
	)
	ctx := context.Background()

	file, err := engine.CreateFile(ctx, "doc.json", `{"x":1}`, nil)
	if err != nil {
		t.Fatalf("CreateFile failed: %v", err)
	}

	// The entry must be removed before its content or the reference check
	// rejects the delete and the transaction rolls back
	if err := engine.DeleteFile(ctx, file.ID); err != nil {
		t.Fatalf("DeleteFile failed against a reference-checking store: %v", err)
	}
	if _, err := contentRepo.Get(ctx, file.ContentID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("content should be gone after delete, got %v", err)
	}
}

func TestDeleteFolder_CascadeRemovesExactSubtree(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.mkFolder(t, "a", nil)
	b := env.mkFolder(t, "b", &a)
	inA := env.mkFile(t, "in-a.json", `{}`, &a)
	inB := env.mkFile(t, "in-b.json", `{}`, &b)
	inBEntry, err := env.files.GetByID(ctx, inB)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	// A sibling subtree that must survive untouched
	sibling := env.mkFolder(t, "sibling", nil)
	survivor := env.mkFile(t, "survivor.json", `{"keep":true}`, &sibling)

	if err := env.engine.DeleteFolder(ctx, a); err != nil {
		t.Fatalf("DeleteFolder failed: %v", err)
	}

	for _, id := range []string{a, b} {
		if _, err := env.engine.FolderPath(ctx, id); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("folder %s should be gone, got %v", id, err)
		}
	}
	for _, id := range []string{inA, inB} {
		if _, _, err := env.engine.ReadFileContent(ctx, id); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("file %s should be gone, got %v", id, err)
		}
	}
	if _, err := env.contents.Get(ctx, inBEntry.ContentID); !errors.Is(err, domain.ErrNotFound) {
		t.Error("content of a cascaded file should be gone")
	}

	// 1:1 with removed files - the sibling subtree is unaffected
	_, rawText, err := env.engine.ReadFileContent(ctx, survivor)
	if err != nil {
		t.Fatalf("survivor unreadable after unrelated cascade: %v", err)
	}
	if rawText != `{"keep":true}` {
		t.Errorf("survivor content changed: %q", rawText)
	}
}

func TestIsFolderEmpty(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	folderID := env.mkFolder(t, "maybe-empty", nil)

	empty, err := env.engine.IsFolderEmpty(ctx, folderID)
	if err != nil {
		t.Fatalf("IsFolderEmpty failed: %v", err)
	}
	if !empty {
		t.Error("fresh folder should be empty")
	}

	env.mkFile(t, "doc.json", `{}`, &folderID)
	empty, err = env.engine.IsFolderEmpty(ctx, folderID)
	if err != nil {
		t.Fatalf("IsFolderEmpty failed: %v", err)
	}
	if empty {
		t.Error("folder with a file should not be empty")
	}
}

func TestFilesUnder_CollectsWholeSubtree(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	top := env.mkFolder(t, "top", nil)
	mid := env.mkFolder(t, "mid", &top)
	deep := env.mkFolder(t, "deep", &mid)
	want := map[string]bool{
		env.mkFile(t, "one.json", `{}`, &top):    true,
		env.mkFile(t, "two.json", `{}`, &mid):    true,
		env.mkFile(t, "three.json", `{}`, &deep): true,
	}
	env.mkFile(t, "outside.json", `{}`, nil)

	files, err := env.engine.FilesUnder(ctx, top)
	if err != nil {
		t.Fatalf("FilesUnder failed: %v", err)
	}
	if len(files) != len(want) {
		t.Fatalf("got %d files, want %d", len(files), len(want))
	}
	for _, file := range files {
		if !want[file.ID] {
			t.Errorf("unexpected file %s in subtree listing", file.ID)
		}
	}
}
