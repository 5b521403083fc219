//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"babelchat/domain"
	"babelchat/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IMessageRepository interface {
	StoreMessage(message domain.Message) error
	GetMessage(id uuid.UUID) (domain.Message, error)
	UpdateText(id uuid.UUID, newText string) (domain.Message, error)
	SetTranslations(id uuid.UUID, fr, en, vn string) (domain.Message, error)
	DeleteMessage(id uuid.UUID) (domain.Message, error)
	ListMessages(group domain.GroupID, cursor *string) ([]domain.Message, *string, error)
}

type MessageRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) MessageRepository {
	return MessageRepository{db: db, log: log, limitMessages: limitMessages}
}

type diskMessage struct {
	ID         string  `json:"id"`
	Group      string  `json:"group"`
	Sender     string  `json:"sender"`
	SenderName string  `json:"sender_name"`
	Text       string  `json:"text"`
	TextFr     *string `json:"text_fr"`
	TextEn     *string `json:"text_en"`
	TextVn     *string `json:"text_vn"`
	At         int64   `json:"at"`
}

// Two keys per message: a primary row addressed by id (edits, deletes and
// translation updates rewrite only this one) and a time-ordered index entry
// whose value is the primary key.
// The index key is formatted as "msg:{group}:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding
//     (lexicographical order).
//  2. Prevent data loss by using UUID as a collision disconnector if two
//     messages arrive at the same nanosecond.
func primaryKey(id uuid.UUID) []byte {
	return []byte(fmt.Sprintf("msg_id:%s", id))
}

func indexKey(group domain.GroupID, at time.Time, id uuid.UUID) []byte {
	return []byte(fmt.Sprintf("msg:%s:%019d:%s", group, at.UnixNano(), id))
}

func (m MessageRepository) StoreMessage(message domain.Message) error {
	bytes, err := json.Marshal(fromMessage(message))
	if err != nil {
		return err
	}
	return m.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(primaryKey(message.ID), bytes); err != nil {
			return err
		}
		return txn.Set(indexKey(message.GroupID, message.CreatedAt, message.ID), []byte(message.ID.String()))
	})
}

func (m MessageRepository) GetMessage(id uuid.UUID) (domain.Message, error) {
	var message domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		var err error
		message, err = getMessageTxn(txn, id)
		return err
	})
	return message, err
}

// UpdateText replaces the original text and returns the updated message.
// The time index is untouched: editing never re-orders history.
func (m MessageRepository) UpdateText(id uuid.UUID, newText string) (domain.Message, error) {
	return m.mutate(id, func(message *domain.Message) {
		message.Text = newText
	})
}

// SetTranslations fills all three derived fields in a single transaction.
// The pipeline never calls this with a partial result.
func (m MessageRepository) SetTranslations(id uuid.UUID, fr, en, vn string) (domain.Message, error) {
	return m.mutate(id, func(message *domain.Message) {
		message.TextFr = &fr
		message.TextEn = &en
		message.TextVn = &vn
	})
}

func (m MessageRepository) mutate(id uuid.UUID, apply func(*domain.Message)) (domain.Message, error) {
	var message domain.Message
	err := m.db.Update(func(txn *badger.Txn) error {
		var err error
		message, err = getMessageTxn(txn, id)
		if err != nil {
			return err
		}
		apply(&message)
		bytes, err := json.Marshal(fromMessage(message))
		if err != nil {
			return err
		}
		return txn.Set(primaryKey(id), bytes)
	})
	return message, err
}

// DeleteMessage removes the primary row and the index entry, returning the
// prior state so callers can hand back the tombstone text.
func (m MessageRepository) DeleteMessage(id uuid.UUID) (domain.Message, error) {
	var message domain.Message
	err := m.db.Update(func(txn *badger.Txn) error {
		var err error
		message, err = getMessageTxn(txn, id)
		if err != nil {
			return err
		}
		if err := txn.Delete(primaryKey(id)); err != nil {
			return err
		}
		return txn.Delete(indexKey(message.GroupID, message.CreatedAt, message.ID))
	})
	return message, err
}

// ListMessages retrieves messages for a group using a reverse prefix scan.
// Thanks to the padded timestamp in the key, messages are naturally sorted by
// time, newest first. It stops collecting once the configured limitMessages
// is reached and hands back the cursor for the next page.
func (m MessageRepository) ListMessages(group domain.GroupID, cursor *string) ([]domain.Message, *string, error) {
	var messages []domain.Message
	var lastKey string
	err := m.db.View(func(txn *badger.Txn) error {
		prefixStr := fmt.Sprintf("msg:%s:", group)
		prefix := []byte(prefixStr)
		prefixLen := len(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			// Seek past the newest possible entry, then walk backwards.
			seekKey = append(prefix, []byte("9999999999999999999")...)
		default:
			seekKey = append(prefix, []byte(*cursor)...)
		}

		it.Seek(seekKey)

		if cursor != nil && it.ValidForPrefix(prefix) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if m.limitMessages != nil && len(messages) == *m.limitMessages {
				m.log.Debug(fmt.Sprintf("Maximum of %d messages reached", *m.limitMessages))
				break
			}
			item := it.Item()
			// Memorize cursor part of the actual key
			lastKey = string(item.Key()[prefixLen:])

			var id uuid.UUID
			err := item.Value(func(value []byte) error {
				var err error
				id, err = uuid.Parse(string(value))
				return err
			})
			if err != nil {
				return err
			}
			message, err := getMessageTxn(txn, id)
			if err != nil {
				return err
			}
			messages = append(messages, message)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return messages, &lastKey, nil
}

func getMessageTxn(txn *badger.Txn, id uuid.UUID) (domain.Message, error) {
	item, err := txn.Get(primaryKey(id))
	if err == badger.ErrKeyNotFound {
		return domain.Message{}, errors.ErrNotFound
	}
	if err != nil {
		return domain.Message{}, err
	}
	var disk diskMessage
	if err := item.Value(func(value []byte) error {
		return json.Unmarshal(value, &disk)
	}); err != nil {
		return domain.Message{}, err
	}
	return toMessage(disk)
}

func fromMessage(message domain.Message) diskMessage {
	return diskMessage{
		ID:         message.ID.String(),
		Group:      string(message.GroupID),
		Sender:     message.SenderID,
		SenderName: message.SenderName,
		Text:       message.Text,
		TextFr:     message.TextFr,
		TextEn:     message.TextEn,
		TextVn:     message.TextVn,
		At:         message.CreatedAt.UnixNano(),
	}
}

func toMessage(disk diskMessage) (domain.Message, error) {
	parsedID, err := uuid.Parse(disk.ID)
	if err != nil {
		return domain.Message{}, err
	}
	return domain.Message{
		ID:         parsedID,
		GroupID:    domain.GroupID(disk.Group),
		SenderID:   disk.Sender,
		SenderName: disk.SenderName,
		Text:       disk.Text,
		TextFr:     disk.TextFr,
		TextEn:     disk.TextEn,
		TextVn:     disk.TextVn,
		CreatedAt:  time.Unix(0, disk.At).UTC(),
	}, nil
}
