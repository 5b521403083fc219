package event

import (
	"encoding/json"
	"time"

	"babelchat/domain"
)

// Text is the frame sent on the unread-delivery channel, one per drained
// marker. Receivers must de-duplicate on the id field: the channel is
// at-least-once, never exactly-once.
type Text struct {
	Message domain.Message
}

func (t Text) MarshalJSON() ([]byte, error) {
	return json.Marshal(textFrame{
		Text:       t.Message.Text,
		SenderName: t.Message.SenderName,
		ID:         t.Message.ID.String(),
		Type:       "Text",
		Datetime:   t.Message.CreatedAt.UTC().Format(time.RFC3339),
	})
}

type textFrame struct {
	Text       string `json:"text"`
	SenderName string `json:"sender_name"`
	ID         string `json:"id"`
	Type       string `json:"type"`
	Datetime   string `json:"datetime"`
}
