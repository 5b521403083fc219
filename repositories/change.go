//go:generate go run go.uber.org/mock/mockgen -source=change.go -destination=../mocks/mock_change_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"babelchat/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IChangeRepository interface {
	RecordChange(record domain.ChangeRecord) error
	ListChanges(group domain.GroupID) ([]domain.ChangeRecord, error)
}

// ChangeRepository is the audit trail for edit and delete operations. Rows
// are append-only; the live system only writes here, reads are for
// inspection.
type ChangeRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewChangeRepository(db *badger.DB, log *slog.Logger) ChangeRepository {
	return ChangeRepository{db: db, log: log}
}

type diskChange struct {
	ID           string `json:"id"`
	Group        string `json:"group"`
	Sender       string `json:"sender"`
	Kind         string `json:"kind"`
	OriginalText string `json:"original_text"`
	NewText      string `json:"new_text"`
	At           int64  `json:"at"`
}

func changeKey(record domain.ChangeRecord) []byte {
	return []byte(fmt.Sprintf("change:%s:%019d:%s",
		record.GroupID,
		record.At.UnixNano(),
		record.ID,
	))
}

func (c ChangeRepository) RecordChange(record domain.ChangeRecord) error {
	bytes, err := json.Marshal(fromChange(record))
	if err != nil {
		return err
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(changeKey(record), bytes)
	})
}

func (c ChangeRepository) ListChanges(group domain.GroupID) ([]domain.ChangeRecord, error) {
	var records []domain.ChangeRecord
	err := c.db.View(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("change:%s:", group))
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var disk diskChange
			err := it.Item().Value(func(value []byte) error {
				return json.Unmarshal(value, &disk)
			})
			if err != nil {
				return err
			}
			record, err := toChange(disk)
			if err != nil {
				return err
			}
			records = append(records, record)
		}
		return nil
	})
	return records, err
}

func fromChange(record domain.ChangeRecord) diskChange {
	return diskChange{
		ID:           record.ID.String(),
		Group:        string(record.GroupID),
		Sender:       record.SenderID,
		Kind:         string(record.Kind),
		OriginalText: record.OriginalText,
		NewText:      record.NewText,
		At:           record.At.UnixNano(),
	}
}

func toChange(disk diskChange) (domain.ChangeRecord, error) {
	id, err := uuid.Parse(disk.ID)
	if err != nil {
		return domain.ChangeRecord{}, err
	}
	return domain.ChangeRecord{
		ID:           id,
		GroupID:      domain.GroupID(disk.Group),
		SenderID:     disk.Sender,
		Kind:         domain.ChangeKind(disk.Kind),
		OriginalText: disk.OriginalText,
		NewText:      disk.NewText,
		At:           time.Unix(0, disk.At).UTC(),
	}, nil
}
