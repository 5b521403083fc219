//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"babelchat/domain"
	"babelchat/errors"

	"github.com/dgraph-io/badger/v4"
)

type IUserRepository interface {
	CreateUser(user domain.User) error
	GetUser(id string) (domain.User, error)
	GetUserByName(username string) (domain.User, error)
}

type UserRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewUserRepository(db *badger.DB, log *slog.Logger) UserRepository {
	return UserRepository{db: db, log: log}
}

type diskUser struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	DisplayName  string `json:"display_name"`
	Language     string `json:"language"`
	PasswordHash string `json:"password_hash"`
}

func userKey(id string) []byte       { return []byte(fmt.Sprintf("user:%s", id)) }
func userNameKey(name string) []byte { return []byte(fmt.Sprintf("user_name:%s", name)) }

// CreateUser persists the user and a username -> id lookup row in one
// transaction. A taken username fails the whole insert.
func (u UserRepository) CreateUser(user domain.User) error {
	bytes, err := json.Marshal(fromUser(user))
	if err != nil {
		return err
	}
	return u.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(userNameKey(user.Username))
		if err == nil {
			return errors.ErrUserAlreadyExists
		}
		if err != badger.ErrKeyNotFound {
			return err
		}
		if err := txn.Set(userKey(user.ID), bytes); err != nil {
			return err
		}
		return txn.Set(userNameKey(user.Username), []byte(user.ID))
	})
}

func (u UserRepository) GetUser(id string) (domain.User, error) {
	var user domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		var err error
		user, err = getUserTxn(txn, id)
		return err
	})
	return user, err
}

func (u UserRepository) GetUserByName(username string) (domain.User, error) {
	var user domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userNameKey(username))
		if err == badger.ErrKeyNotFound {
			return errors.ErrNotFound
		}
		if err != nil {
			return err
		}
		var id string
		if err := item.Value(func(value []byte) error {
			id = string(value)
			return nil
		}); err != nil {
			return err
		}
		user, err = getUserTxn(txn, id)
		return err
	})
	return user, err
}

func getUserTxn(txn *badger.Txn, id string) (domain.User, error) {
	item, err := txn.Get(userKey(id))
	if err == badger.ErrKeyNotFound {
		return domain.User{}, errors.ErrNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	var disk diskUser
	if err := item.Value(func(value []byte) error {
		return json.Unmarshal(value, &disk)
	}); err != nil {
		return domain.User{}, err
	}
	return toUser(disk), nil
}

func fromUser(user domain.User) diskUser {
	return diskUser{
		ID:           user.ID,
		Username:     user.Username,
		DisplayName:  user.DisplayName,
		Language:     user.Language,
		PasswordHash: user.PasswordHash,
	}
}

func toUser(disk diskUser) domain.User {
	return domain.User{
		ID:           disk.ID,
		Username:     disk.Username,
		DisplayName:  disk.DisplayName,
		Language:     disk.Language,
		PasswordHash: disk.PasswordHash,
	}
}
