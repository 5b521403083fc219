//go:generate go run go.uber.org/mock/mockgen -source=index.go -destination=../mocks/mock_search_index.go -package=mocks
// Package search maintains a Bluge full-text index over message texts,
// updated in lockstep with the message repository: indexed on create,
// reindexed on edit, dropped on delete.
package search

import (
	"context"
	"log/slog"

	"babelchat/domain"

	"github.com/blugelabs/bluge"
	"github.com/google/uuid"
)

type IMessageIndex interface {
	Index(message domain.Message) error
	Reindex(id uuid.UUID, group domain.GroupID, newText string) error
	Delete(id uuid.UUID) error
	Search(ctx context.Context, group domain.GroupID, query string, limit int) ([]Hit, error)
}

type Hit struct {
	MessageID uuid.UUID
	Text      string
}

type MessageIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewMessageIndex(writer *bluge.Writer, log *slog.Logger) MessageIndex {
	return MessageIndex{writer: writer, log: log}
}

func toDocument(id uuid.UUID, group domain.GroupID, text string) *bluge.Document {
	return bluge.NewDocument(id.String()).
		AddField(bluge.NewTextField("text", text).StoreValue()).
		AddField(bluge.NewKeywordField("group", string(group)))
}

func (m MessageIndex) Index(message domain.Message) error {
	doc := toDocument(message.ID, message.GroupID, message.Text)
	return m.writer.Update(doc.ID(), doc)
}

// Reindex replaces the document wholesale; Bluge has no partial update.
func (m MessageIndex) Reindex(id uuid.UUID, group domain.GroupID, newText string) error {
	doc := toDocument(id, group, newText)
	return m.writer.Update(doc.ID(), doc)
}

func (m MessageIndex) Delete(id uuid.UUID) error {
	return m.writer.Delete(bluge.Identifier(id.String()))
}

// Search matches the query against message texts, scoped to one group via a
// keyword must-clause so groups never leak into each other's results.
func (m MessageIndex) Search(ctx context.Context, group domain.GroupID, query string, limit int) ([]Hit, error) {
	reader, err := m.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer func() { _ = reader.Close() }()

	q := bluge.NewBooleanQuery().
		AddMust(bluge.NewMatchQuery(query).SetField("text")).
		AddMust(bluge.NewTermQuery(string(group)).SetField("group"))

	iterator, err := reader.Search(ctx, bluge.NewTopNSearch(limit, q))
	if err != nil {
		return nil, err
	}

	var hits []Hit
	match, err := iterator.Next()
	for err == nil && match != nil {
		var hit Hit
		visitErr := match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				if parsed, parseErr := uuid.Parse(string(value)); parseErr == nil {
					hit.MessageID = parsed
				}
			case "text":
				hit.Text = string(value)
			}
			return true
		})
		if visitErr != nil {
			return nil, visitErr
		}
		hits = append(hits, hit)
		match, err = iterator.Next()
	}
	if err != nil {
		return nil, err
	}
	return hits, nil
}
