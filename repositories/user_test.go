package repositories

import (
	"log/slog"
	"testing"

	"babelchat/domain"
	"babelchat/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func testUser(username string) domain.User {
	return domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		DisplayName:  username,
		Language:     "fr",
		PasswordHash: "$argon2id$not-a-real-hash",
	}
}

func Test_Create_And_Get_User(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t), slog.Default())

	user := testUser("alice")
	req.NoError(repository.CreateUser(user))

	fetched, err := repository.GetUser(user.ID)
	req.NoError(err)
	req.Equal(user, fetched)

	_, err = repository.GetUser("nope")
	req.ErrorIs(err, errors.ErrNotFound)
}

func Test_Create_User_Refuses_Taken_Username(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t), slog.Default())

	req.NoError(repository.CreateUser(testUser("alice")))

	err := repository.CreateUser(testUser("alice"))
	req.ErrorIs(err, errors.ErrUserAlreadyExists)
}

func Test_Get_User_By_Name(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t), slog.Default())

	user := testUser("alice")
	req.NoError(repository.CreateUser(user))

	fetched, err := repository.GetUserByName("alice")
	req.NoError(err)
	req.Equal(user.ID, fetched.ID)

	_, err = repository.GetUserByName("bob")
	req.ErrorIs(err, errors.ErrNotFound)
}
