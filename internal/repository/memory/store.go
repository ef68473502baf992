// Package memory provides in-memory implementations of the board
// repository interfaces. They back the test suites and single-process
// embedded use; the postgres package is the production counterpart.
package memory

import (
	"context"
	"sync"

	models "jsonboard/internal/domain/models/board"
	"jsonboard/internal/domain/repositories"
)

// Store holds the three tables. All access is serialized through one
// mutex; transactions hold it for their full duration, so readers never
// observe a compound operation half-applied.
type Store struct {
	mu       sync.Mutex
	folders  map[string]models.Folder
	files    map[string]models.FileEntry
	contents map[string]models.Content
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		folders:  make(map[string]models.Folder),
		files:    make(map[string]models.FileEntry),
		contents: make(map[string]models.Content),
	}
}

type txKeyType struct{}

var txKey txKeyType

// lock acquires the store mutex unless the context already runs inside a
// transaction (which holds it for the whole transaction scope). Returns
// the matching unlock.
func (s *Store) lock(ctx context.Context) func() {
	if ctx.Value(txKey) != nil {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// snapshot deep-copies the three tables for rollback
func (s *Store) snapshot() (map[string]models.Folder, map[string]models.FileEntry, map[string]models.Content) {
	folders := make(map[string]models.Folder, len(s.folders))
	for k, v := range s.folders {
		folders[k] = v
	}
	files := make(map[string]models.FileEntry, len(s.files))
	for k, v := range s.files {
		files[k] = v
	}
	contents := make(map[string]models.Content, len(s.contents))
	for k, v := range s.contents {
		contents[k] = v
	}
	return folders, files, contents
}

// TransactionManager serializes transactions on the store mutex and rolls
// the tables back to a snapshot when the transaction function fails.
type TransactionManager struct {
	store *Store
}

// NewTransactionManager creates a transaction manager over the store
func NewTransactionManager(store *Store) repositories.TransactionManager {
	return &TransactionManager{store: store}
}

// ExecTx executes a function atomically with respect to every other store
// operation
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	tm.store.mu.Lock()
	defer tm.store.mu.Unlock()

	folders, files, contents := tm.store.snapshot()

	if err := fn(context.WithValue(ctx, txKey, true)); err != nil {
		tm.store.folders = folders
		tm.store.files = files
		tm.store.contents = contents
		return err
	}

	return nil
}
