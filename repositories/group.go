//go:generate go run go.uber.org/mock/mockgen -source=group.go -destination=../mocks/mock_group_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"babelchat/domain"
	"babelchat/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
)

type IGroupRepository interface {
	CreateGroup(group domain.Group) error
	GetGroup(id domain.GroupID) (domain.Group, error)
	AddMember(id domain.GroupID, userID string) error
	GroupsOf(userID string) ([]domain.Group, error)
}

// GroupRepository keeps the member list inside the group row and mirrors it
// with "member:{user}:{group}" index entries so GroupsOf stays a prefix scan.
// Both sides are maintained in the same transaction.
type GroupRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewGroupRepository(db *badger.DB, log *slog.Logger) GroupRepository {
	return GroupRepository{db: db, log: log}
}

type diskGroup struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

func groupKey(id domain.GroupID) []byte {
	return []byte(fmt.Sprintf("group:%s", id))
}

func memberKey(userID string, id domain.GroupID) []byte {
	return []byte(fmt.Sprintf("member:%s:%s", userID, id))
}

func (g GroupRepository) CreateGroup(group domain.Group) error {
	bytes, err := json.Marshal(fromGroup(group))
	if err != nil {
		return err
	}
	return g.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(groupKey(group.ID), bytes); err != nil {
			return err
		}
		for _, member := range group.Members {
			if err := txn.Set(memberKey(member, group.ID), nil); err != nil {
				return err
			}
		}
		return nil
	})
}

func (g GroupRepository) GetGroup(id domain.GroupID) (domain.Group, error) {
	var group domain.Group
	err := g.db.View(func(txn *badger.Txn) error {
		var err error
		group, err = getGroupTxn(txn, id)
		return err
	})
	return group, err
}

// AddMember is idempotent: joining a group twice leaves one membership.
func (g GroupRepository) AddMember(id domain.GroupID, userID string) error {
	return g.db.Update(func(txn *badger.Txn) error {
		group, err := getGroupTxn(txn, id)
		if err != nil {
			return err
		}
		if group.IsMember(userID) {
			return nil
		}
		group.Members = append(group.Members, userID)
		bytes, err := json.Marshal(fromGroup(group))
		if err != nil {
			return err
		}
		if err := txn.Set(groupKey(id), bytes); err != nil {
			return err
		}
		return txn.Set(memberKey(userID, id), nil)
	})
}

func (g GroupRepository) GroupsOf(userID string) ([]domain.Group, error) {
	var groups []domain.Group
	err := g.db.View(func(txn *badger.Txn) error {
		prefixStr := fmt.Sprintf("member:%s:", userID)
		prefix := []byte(prefixStr)
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			groupID := domain.GroupID(it.Item().Key()[len(prefixStr):])
			group, err := getGroupTxn(txn, groupID)
			if err != nil {
				return err
			}
			groups = append(groups, group)
		}
		return nil
	})
	return groups, err
}

func getGroupTxn(txn *badger.Txn, id domain.GroupID) (domain.Group, error) {
	item, err := txn.Get(groupKey(id))
	if err == badger.ErrKeyNotFound {
		return domain.Group{}, errors.ErrNotFound
	}
	if err != nil {
		return domain.Group{}, err
	}
	var disk diskGroup
	if err := item.Value(func(value []byte) error {
		return json.Unmarshal(value, &disk)
	}); err != nil {
		return domain.Group{}, err
	}
	return toGroup(disk), nil
}

func fromGroup(group domain.Group) diskGroup {
	return diskGroup{
		ID:      string(group.ID),
		Name:    group.Name,
		Members: group.Members,
	}
}

func toGroup(disk diskGroup) domain.Group {
	return domain.Group{
		ID:      domain.GroupID(disk.ID),
		Name:    disk.Name,
		Members: lo.Uniq(disk.Members),
	}
}
