package broadcast

import (
	"encoding/json"

	"jsonboard/internal/jsondoc"
)

// Kind discriminates the message union carried on a file's channel.
type Kind string

const (
	// KindOpened announces a session opening the file view
	KindOpened Kind = "file-opened"
	// KindPresence is the reply to KindOpened, so the opener learns
	// another viewer exists
	KindPresence Kind = "file-presence"
	// KindEditingStart marks a leaf input gaining focus in the sender
	KindEditingStart Kind = "editing-start"
	// KindEditingStop clears the mark after the sender commits
	KindEditingStop Kind = "editing-stop"
	// KindContentUpdate carries the whole serialized document after a
	// committed edit
	KindContentUpdate Kind = "content-update"
)

// Message is the tagged union sent between sessions viewing one file.
// Every message carries the sender's instance tag so receivers can ignore
// their own echoes. Content is set only for KindContentUpdate, Path only
// for the editing kinds.
type Message struct {
	Kind    Kind            `json:"type"`
	Tag     string          `json:"tag"`
	Content json.RawMessage `json:"content,omitempty"`
	Path    jsondoc.Path    `json:"path,omitempty"`
}
