package domain

import (
	"time"

	"github.com/google/uuid"
)

// UnreadMarker is the durable pending-delivery record for one
// (message, recipient) pair. Its existence is the single source of truth for
// "this user has not drained this message through the polling channel yet":
// created at ingestion for every member but the sender, destroyed right after
// a successful batch send.
type UnreadMarker struct {
	ID        uuid.UUID
	MessageID uuid.UUID
	UserID    string
	GroupID   GroupID
	CreatedAt time.Time
}
