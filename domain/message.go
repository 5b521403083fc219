package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message is a chat event owned by its group. The original text is mutable
// only through the edit/delete operations; the three translation fields stay
// nil until one translation pipeline run completes for all of them.
type Message struct {
	ID         uuid.UUID
	GroupID    GroupID
	SenderID   string
	SenderName string
	Text       string
	TextFr     *string
	TextEn     *string
	TextVn     *string
	CreatedAt  time.Time
}

// Translated reports whether the pipeline already filled the derived fields.
// Partial states never exist: the update is all three fields or none.
func (m Message) Translated() bool {
	return m.TextFr != nil && m.TextEn != nil && m.TextVn != nil
}
