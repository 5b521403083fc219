// Package event defines the transient change notifications pushed to
// connected clients. Changes are never persisted: a client offline at
// broadcast time misses the event for good.
package event

import (
	"encoding/json"

	"babelchat/domain"

	"github.com/google/uuid"
)

// Change is the closed set of mutation notifications. Exactly three variants
// exist: Edit, Delete and Translate. Each variant marshals to its own wire
// shape; the type tag travels inside the JSON object.
type Change interface {
	Kind() domain.ChangeKind
	MessageID() uuid.UUID
	json.Marshaler
}

type Edit struct {
	ID      uuid.UUID
	NewText string
}

func (e Edit) Kind() domain.ChangeKind { return domain.ChangeEdit }
func (e Edit) MessageID() uuid.UUID    { return e.ID }

func (e Edit) MarshalJSON() ([]byte, error) {
	return json.Marshal(textChangeFrame{
		Type:    string(domain.ChangeEdit),
		ID:      e.ID.String(),
		NewText: e.NewText,
	})
}

// Delete carries an empty replacement text on the wire, mirroring the edit
// frame so clients handle both with one code path.
type Delete struct {
	ID uuid.UUID
}

func (d Delete) Kind() domain.ChangeKind { return domain.ChangeDelete }
func (d Delete) MessageID() uuid.UUID    { return d.ID }

func (d Delete) MarshalJSON() ([]byte, error) {
	return json.Marshal(textChangeFrame{
		Type:    string(domain.ChangeDelete),
		ID:      d.ID.String(),
		NewText: "",
	})
}

// Translate announces that all three derived texts are available at once.
type Translate struct {
	ID     uuid.UUID
	TextFr string
	TextVn string
	TextEn string
}

func (t Translate) Kind() domain.ChangeKind { return domain.ChangeTranslate }
func (t Translate) MessageID() uuid.UUID    { return t.ID }

func (t Translate) MarshalJSON() ([]byte, error) {
	return json.Marshal(translateFrame{
		Type:   string(domain.ChangeTranslate),
		ID:     t.ID.String(),
		TextFr: t.TextFr,
		TextVn: t.TextVn,
		TextEn: t.TextEn,
	})
}

type textChangeFrame struct {
	Type    string `json:"type"`
	ID      string `json:"id"`
	NewText string `json:"new_text"`
}

type translateFrame struct {
	Type   string `json:"type"`
	ID     string `json:"id"`
	TextFr string `json:"text_fr"`
	TextVn string `json:"text_vn"`
	TextEn string `json:"text_en"`
}
