// Package viewer ties the storage engine, the document editor and the
// broadcast bus together into per-session file views.
package viewer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"jsonboard/internal/broadcast"
	"jsonboard/internal/config"
	boardSvc "jsonboard/internal/domain/services/board"

	"github.com/google/uuid"
)

// Callbacks surface protocol events to the embedding UI. All are optional
// and advisory: presence and editing conflicts never lock or block
// anything.
type Callbacks struct {
	// OnRemoteUpdate fires after another session's committed edit has
	// replaced this view's document
	OnRemoteUpdate func(root any)
	// OnPresence fires when another session reports it already has the
	// file open
	OnPresence func()
	// OnConflictChange fires when a path's editing-conflict flag is set
	// or cleared
	OnConflictChange func(pathKey string, conflicting bool)
}

// Service opens file views
type Service struct {
	engine   boardSvc.StorageEngine
	broker   *broadcast.Broker
	settings *config.Settings
	logger   *slog.Logger
}

// NewService creates a new viewer service
func NewService(engine boardSvc.StorageEngine, broker *broadcast.Broker, settings *config.Settings, logger *slog.Logger) *Service {
	return &Service{
		engine:   engine,
		broker:   broker,
		settings: settings,
		logger:   logger,
	}
}

// OpenView loads and decodes a file, joins its broadcast channel under a
// fresh instance tag and announces itself. The returned view is Open until
// Close; there are no intermediate states because every inbound message is
// applied synchronously.
func (s *Service) OpenView(ctx context.Context, fileID string, cb Callbacks) (*FileView, error) {
	file, rawText, err := s.engine.ReadFileContent(ctx, fileID)
	if err != nil {
		return nil, err
	}

	var doc any
	if err := json.Unmarshal([]byte(rawText), &doc); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", fileID, err)
	}

	v := &FileView{
		engine:     s.engine,
		logger:     s.logger,
		windowSize: s.settings.ArrayWindowSize,
		fileID:     fileID,
		contentID:  file.ContentID,
		tag:        uuid.NewString(),
		doc:        doc,
		conflicts:  make(map[string]bool),
		cb:         cb,
	}
	v.dispatch = map[broadcast.Kind]func(broadcast.Message){
		broadcast.KindOpened:        v.handleOpened,
		broadcast.KindPresence:      v.handlePresence,
		broadcast.KindEditingStart:  v.handleEditingStart,
		broadcast.KindEditingStop:   v.handleEditingStop,
		broadcast.KindContentUpdate: v.handleContentUpdate,
	}

	v.sub = s.broker.Subscribe(fileID, v.tag, v.receive)
	v.sub.Publish(broadcast.Message{Kind: broadcast.KindOpened})

	s.logger.Debug("file view opened", "file_id", fileID, "tag", v.tag)
	return v, nil
}
