package viewer

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"jsonboard/internal/broadcast"
	"jsonboard/internal/domain"
	boardSvc "jsonboard/internal/domain/services/board"
	"jsonboard/internal/jsondoc"
)

// FileView is one session's open view of a file. The decoded document and
// the per-path conflict map are separate pieces of state: a remote
// content-update replaces the whole document but leaves conflict flags
// untouched.
//
// Inbound messages arrive on other sessions' goroutines; all state is
// guarded by the mutex.
type FileView struct {
	engine boardSvc.StorageEngine
	logger *slog.Logger

	fileID     string
	contentID  string
	tag        string
	windowSize int

	mu        sync.Mutex
	doc       any
	conflicts map[string]bool
	closed    bool

	sub      *broadcast.Subscription
	dispatch map[broadcast.Kind]func(broadcast.Message)
	cb       Callbacks
}

// Tag returns this view's instance tag
func (v *FileView) Tag() string { return v.tag }

// Document returns the current decoded document. Callers must not mutate
// it; edits go through Edit.
func (v *FileView) Document() any {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.doc
}

// Conflicts returns a snapshot of the advisory editing-conflict flags,
// keyed by flattened path.
func (v *FileView) Conflicts() map[string]bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make(map[string]bool, len(v.conflicts))
	for k, val := range v.conflicts {
		out[k] = val
	}
	return out
}

// WindowAt opens a render window over the array at path, sized by the
// configured window step. Windowing is display-only; Edit always addresses
// the full array.
func (v *FileView) WindowAt(path jsondoc.Path) (*jsondoc.Window, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	val, err := jsondoc.ValueAt(v.doc, path)
	if err != nil {
		return nil, err
	}
	arr, ok := val.([]any)
	if !ok {
		return nil, &domain.PathResolutionError{Path: path.Key(), Step: len(path)}
	}
	return jsondoc.NewWindow(len(arr), v.windowSize), nil
}

// BeginEdit announces that this session's cursor entered the leaf at path
func (v *FileView) BeginEdit(path jsondoc.Path) {
	v.sub.Publish(broadcast.Message{Kind: broadcast.KindEditingStart, Path: path})
}

// EndEdit announces that the cursor left the leaf at path
func (v *FileView) EndEdit(path jsondoc.Path) {
	v.sub.Publish(broadcast.Message{Kind: broadcast.KindEditingStop, Path: path})
}

// Edit applies a leaf edit, persists the new document through the storage
// engine and broadcasts it to sibling sessions. The edit is aborted whole
// when the path no longer resolves (a stale path against an outdated
// document) or when persistence fails.
//
// The mutex is released before persistence and the broadcast: the broker
// dispatches on the publisher's goroutine straight into sibling views'
// handlers, which take their own mutexes. Publishing while holding v.mu
// would let two sessions editing the same file lock each other out.
func (v *FileView) Edit(ctx context.Context, path jsondoc.Path, rawInput string) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return domain.ErrClosed
	}

	newRoot, err := jsondoc.ApplyEdit(v.doc, path, rawInput)
	if err != nil {
		v.mu.Unlock()
		return err
	}

	rawText, err := jsondoc.Marshal(newRoot)
	if err != nil {
		v.mu.Unlock()
		return err
	}
	v.mu.Unlock()

	if _, err := v.engine.SaveFileContent(ctx, v.fileID, rawText); err != nil {
		return err
	}

	v.mu.Lock()
	v.doc = newRoot
	v.mu.Unlock()

	v.sub.Publish(broadcast.Message{
		Kind:    broadcast.KindContentUpdate,
		Content: json.RawMessage(rawText),
	})

	v.logger.Debug("edit committed", "file_id", v.fileID, "path", path.Key())
	return nil
}

// Close leaves the broadcast channel. Safe on every exit path, including
// after errors; repeated calls are no-ops.
func (v *FileView) Close() {
	v.mu.Lock()
	v.closed = true
	v.mu.Unlock()
	v.sub.Close()
}

// receive dispatches one inbound message. Messages stamped with this
// view's own tag are echoes and ignored.
func (v *FileView) receive(msg broadcast.Message) {
	if msg.Tag == v.tag {
		return
	}
	if handler, ok := v.dispatch[msg.Kind]; ok {
		handler(msg)
	} else {
		v.logger.Warn("unknown broadcast message kind", "kind", msg.Kind, "file_id", v.fileID)
	}
}

// handleOpened replies with presence so the opener learns another viewer
// exists
func (v *FileView) handleOpened(broadcast.Message) {
	v.sub.Publish(broadcast.Message{Kind: broadcast.KindPresence})
}

func (v *FileView) handlePresence(broadcast.Message) {
	if v.cb.OnPresence != nil {
		v.cb.OnPresence()
	}
}

func (v *FileView) handleEditingStart(msg broadcast.Message) {
	key := msg.Path.Key()
	v.mu.Lock()
	v.conflicts[key] = true
	v.mu.Unlock()
	if v.cb.OnConflictChange != nil {
		v.cb.OnConflictChange(key, true)
	}
}

func (v *FileView) handleEditingStop(msg broadcast.Message) {
	key := msg.Path.Key()
	v.mu.Lock()
	delete(v.conflicts, key)
	v.mu.Unlock()
	if v.cb.OnConflictChange != nil {
		v.cb.OnConflictChange(key, false)
	}
}

// handleContentUpdate replaces the whole in-memory document with the
// broadcast payload. Last writer wins; no field-level merge is attempted.
func (v *FileView) handleContentUpdate(msg broadcast.Message) {
	var doc any
	if err := json.Unmarshal(msg.Content, &doc); err != nil {
		v.logger.Warn("discarding malformed content-update", "file_id", v.fileID, "error", err)
		return
	}

	v.mu.Lock()
	v.doc = doc
	v.mu.Unlock()

	if v.cb.OnRemoteUpdate != nil {
		v.cb.OnRemoteUpdate(doc)
	}
}
