package board

import (
	"time"
)

// FileEntry is file metadata. The raw document text lives in a separate
// Content record referenced by ContentID; the file exclusively owns that
// record (deleting the file deletes the content).
type FileEntry struct {
	ID        string    `json:"id" db:"id"`
	ParentID  *string   `json:"parent_id" db:"parent_id"` // NULL = root level
	Name      string    `json:"name" db:"name"`
	ContentID string    `json:"content_id" db:"content_id"`
	SizeBytes int64     `json:"size_bytes" db:"size_bytes"` // byte length of the serialized content
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Content is the raw serialized document text, addressed by an opaque id.
// Never shared between files.
type Content struct {
	ID      string `json:"id" db:"id"`
	RawText string `json:"raw_text" db:"raw_text"`
}
