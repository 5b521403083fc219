package domain

import (
	"time"

	"github.com/google/uuid"
)

type ChangeKind string

const (
	ChangeEdit      ChangeKind = "Edit"
	ChangeDelete    ChangeKind = "Delete"
	ChangeTranslate ChangeKind = "Translate"
)

// ChangeRecord is the audit row written before a message is mutated or
// removed. Unlike change events, records are persisted.
type ChangeRecord struct {
	ID           uuid.UUID
	GroupID      GroupID
	SenderID     string
	Kind         ChangeKind
	OriginalText string
	NewText      string
	At           time.Time
}
