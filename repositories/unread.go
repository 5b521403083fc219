//go:generate go run go.uber.org/mock/mockgen -source=unread.go -destination=../mocks/mock_unread_repository.go -package=mocks
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

type IUnreadRepository interface {
	CreateMarker(marker domain.UnreadMarker) error
	ListMarkers(userID string, group domain.GroupID) ([]domain.UnreadMarker, error)
	DeleteMarkers(markers []domain.UnreadMarker) error
	FirstUnread(userID string, group domain.GroupID) (domain.UnreadMarker, error)
}

// UnreadRepository stores one marker per (message, recipient) pair under
// "unread:{user}:{group}:{timestamp_padded}:{marker_id}". The user-first key
// layout makes the drain query a single prefix scan, and the padded timestamp
// keeps markers in arrival order so FirstUnread is just the first item.
type UnreadRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewUnreadRepository(db *badger.DB, log *slog.Logger) UnreadRepository {
	return UnreadRepository{db: db, log: log}
}

type diskMarker struct {
	ID      string `json:"id"`
	Message string `json:"message"`
	User    string `json:"user"`
	Group   string `json:"group"`
	At      int64  `json:"at"`
}

func markerKey(marker domain.UnreadMarker) []byte {
	return []byte(fmt.Sprintf("unread:%s:%s:%019d:%s",
		marker.UserID,
		marker.GroupID,
		marker.CreatedAt.UnixNano(),
		marker.ID,
	))
}

func (u UnreadRepository) CreateMarker(marker domain.UnreadMarker) error {
	bytes, err := json.Marshal(fromMarker(marker))
	if err != nil {
		return err
	}
	return u.db.Update(func(txn *badger.Txn) error {
		return txn.Set(markerKey(marker), bytes)
	})
}

func (u UnreadRepository) ListMarkers(userID string, group domain.GroupID) ([]domain.UnreadMarker, error) {
	var markers []domain.UnreadMarker
	err := u.db.View(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("unread:%s:%s:", userID, group))
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var disk diskMarker
			err := it.Item().Value(func(value []byte) error {
				return json.Unmarshal(value, &disk)
			})
			if err != nil {
				return err
			}
			marker, err := toMarker(disk)
			if err != nil {
				return err
			}
			markers = append(markers, marker)
		}
		return nil
	})
	return markers, err
}

// DeleteMarkers removes exactly the given markers in one transaction.
// Delivery commits here: if the process dies between the batch send and this
// call, the markers survive and the batch is re-delivered on reconnect.
func (u UnreadRepository) DeleteMarkers(markers []domain.UnreadMarker) error {
	return u.db.Update(func(txn *badger.Txn) error {
		for _, marker := range markers {
			if err := txn.Delete(markerKey(marker)); err != nil {
				return err
			}
		}
		return nil
	})
}

// FirstUnread returns the oldest pending marker for the pair, or ErrNotFound
// when the user has fully drained the group.
func (u UnreadRepository) FirstUnread(userID string, group domain.GroupID) (domain.UnreadMarker, error) {
	var marker domain.UnreadMarker
	err := u.db.View(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("unread:%s:%s:", userID, group))
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		it.Seek(prefix)
		if !it.ValidForPrefix(prefix) {
			return errors.ErrNotFound
		}
		var disk diskMarker
		if err := it.Item().Value(func(value []byte) error {
			return json.Unmarshal(value, &disk)
		}); err != nil {
			return err
		}
		var err error
		marker, err = toMarker(disk)
		return err
	})
	return marker, err
}

func fromMarker(marker domain.UnreadMarker) diskMarker {
	return diskMarker{
		ID:      marker.ID.String(),
		Message: marker.MessageID.String(),
		User:    marker.UserID,
		Group:   string(marker.GroupID),
		At:      marker.CreatedAt.UnixNano(),
	}
}

func toMarker(disk diskMarker) (domain.UnreadMarker, error) {
	id, err := uuid.Parse(disk.ID)
	if err != nil {
		return domain.UnreadMarker{}, err
	}
	messageID, err := uuid.Parse(disk.Message)
	if err != nil {
		return domain.UnreadMarker{}, err
	}
	return domain.UnreadMarker{
		ID:        id,
		MessageID: messageID,
		UserID:    disk.User,
		GroupID:   domain.GroupID(disk.Group),
		CreatedAt: time.Unix(0, disk.At).UTC(),
	}, nil
}
