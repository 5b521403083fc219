package event

import (
	"encoding/json"
	"testing"
	"time"

	"babelchat/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Clients dispatch on the wire shapes below; changing them breaks every
// connected terminal. These tests pin the exact frames.

func Test_Text_Frame(t *testing.T) {
	req := require.New(t)

	id := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	at := time.Date(2026, 2, 14, 10, 30, 0, 0, time.UTC)
	payload, err := json.Marshal(Text{Message: domain.Message{
		ID:         id,
		SenderName: "alice",
		Text:       "bonjour",
		CreatedAt:  at,
	}})
	req.NoError(err)
	req.JSONEq(`{
		"text": "bonjour",
		"sender_name": "alice",
		"id": "11111111-2222-3333-4444-555555555555",
		"type": "Text",
		"datetime": "2026-02-14T10:30:00Z"
	}`, string(payload))
}

func Test_Edit_Frame(t *testing.T) {
	req := require.New(t)

	id := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	edit := Edit{ID: id, NewText: "bonsoir"}
	req.Equal(domain.ChangeEdit, edit.Kind())
	req.Equal(id, edit.MessageID())

	payload, err := json.Marshal(edit)
	req.NoError(err)
	req.JSONEq(`{
		"type": "Edit",
		"id": "11111111-2222-3333-4444-555555555555",
		"new_text": "bonsoir"
	}`, string(payload))
}

func Test_Delete_Frame(t *testing.T) {
	req := require.New(t)

	id := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	payload, err := json.Marshal(Delete{ID: id})
	req.NoError(err)
	// Deletes mirror the edit frame with an empty replacement
	req.JSONEq(`{
		"type": "Delete",
		"id": "11111111-2222-3333-4444-555555555555",
		"new_text": ""
	}`, string(payload))
}

func Test_Translate_Frame(t *testing.T) {
	req := require.New(t)

	id := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	payload, err := json.Marshal(Translate{
		ID:     id,
		TextFr: "bonjour",
		TextVn: "chào",
		TextEn: "hello",
	})
	req.NoError(err)
	req.JSONEq(`{
		"type": "Translate",
		"id": "11111111-2222-3333-4444-555555555555",
		"text_fr": "bonjour",
		"text_vn": "chào",
		"text_en": "hello"
	}`, string(payload))
}
