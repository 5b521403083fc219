package repositories

import (
	"log/slog"
	"testing"
	"time"

	"babelchat/domain"
	"babelchat/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testMessage(group domain.GroupID, sender, text string, at time.Time) domain.Message {
	return domain.Message{
		ID:         uuid.New(),
		GroupID:    group,
		SenderID:   sender,
		SenderName: sender,
		Text:       text,
		CreatedAt:  at,
	}
}

func Test_Store_And_Get_Message(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default(), nil)

	message := testMessage("g1", "alice", "this message will self destruct in 5 seconds", time.Now().UTC())

	req.NoError(repository.StoreMessage(message))

	fetched, err := repository.GetMessage(message.ID)
	req.NoError(err)
	req.Equal(message.ID, fetched.ID)
	req.Equal(message.Text, fetched.Text)
	req.Nil(fetched.TextFr)
	req.False(fetched.Translated())
}

func Test_Get_Missing_Message_Is_NotFound(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default(), nil)

	_, err := repository.GetMessage(uuid.New())
	req.ErrorIs(err, errors.ErrNotFound)
}

func Test_List_Messages_Newest_First(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default(), nil)

	group := domain.GroupID("g1")
	at := time.Now().UTC()
	oldest := testMessage(group, "alice", "first", at)
	middle := testMessage(group, "bob", "second", at.Add(1*time.Minute))
	newest := testMessage(group, "carol", "third", at.Add(2*time.Minute))
	for _, m := range []domain.Message{oldest, middle, newest} {
		req.NoError(repository.StoreMessage(m))
	}

	// A message in another group must never leak in
	req.NoError(repository.StoreMessage(testMessage("g2", "dave", "elsewhere", at)))

	fetched, _, err := repository.ListMessages(group, nil)
	req.NoError(err)
	req.Len(fetched, 3)
	req.Equal("third", fetched[0].Text)
	req.Equal("second", fetched[1].Text)
	req.Equal("first", fetched[2].Text)
}

func Test_List_Messages_Paged_With_Cursor(t *testing.T) {
	req := require.New(t)
	limit := 2
	repository := NewMessageRepository(openTestDB(t), slog.Default(), &limit)

	group := domain.GroupID("g1")
	at := time.Now().UTC()
	for i, text := range []string{"one", "two", "three", "four", "five"} {
		m := testMessage(group, "alice", text, at.Add(time.Duration(i)*time.Minute))
		req.NoError(repository.StoreMessage(m))
	}

	// First page: the two newest
	page1, cursor, err := repository.ListMessages(group, nil)
	req.NoError(err)
	req.Len(page1, limit)
	req.Equal("five", page1[0].Text)
	req.Equal("four", page1[1].Text)
	req.NotNil(cursor)

	// Second page resumes past the cursor
	page2, cursor, err := repository.ListMessages(group, cursor)
	req.NoError(err)
	req.Len(page2, limit)
	req.Equal("three", page2[0].Text)
	req.Equal("two", page2[1].Text)

	// Third page holds the remainder
	page3, _, err := repository.ListMessages(group, cursor)
	req.NoError(err)
	req.Len(page3, 1)
	req.Equal("one", page3[0].Text)
}

func Test_Update_Text_Keeps_Order(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default(), nil)

	group := domain.GroupID("g1")
	at := time.Now().UTC()
	first := testMessage(group, "alice", "original", at)
	second := testMessage(group, "bob", "later", at.Add(time.Minute))
	req.NoError(repository.StoreMessage(first))
	req.NoError(repository.StoreMessage(second))

	updated, err := repository.UpdateText(first.ID, "rewritten")
	req.NoError(err)
	req.Equal("rewritten", updated.Text)

	// Editing never re-orders history
	fetched, _, err := repository.ListMessages(group, nil)
	req.NoError(err)
	req.Equal("later", fetched[0].Text)
	req.Equal("rewritten", fetched[1].Text)
}

func Test_Set_Translations_All_Or_Nothing(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default(), nil)

	message := testMessage("g1", "alice", "good morning", time.Now().UTC())
	req.NoError(repository.StoreMessage(message))

	updated, err := repository.SetTranslations(message.ID, "bonjour", "good morning", "chào buổi sáng")
	req.NoError(err)
	req.True(updated.Translated())
	req.Equal(lo.ToPtr("bonjour"), updated.TextFr)

	fetched, err := repository.GetMessage(message.ID)
	req.NoError(err)
	req.True(fetched.Translated())
}

func Test_Delete_Message_Removes_Row_And_Index(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default(), nil)

	group := domain.GroupID("g1")
	message := testMessage(group, "alice", "doomed", time.Now().UTC())
	req.NoError(repository.StoreMessage(message))

	deleted, err := repository.DeleteMessage(message.ID)
	req.NoError(err)
	req.Equal("doomed", deleted.Text)

	_, err = repository.GetMessage(message.ID)
	req.ErrorIs(err, errors.ErrNotFound)

	fetched, _, err := repository.ListMessages(group, nil)
	req.NoError(err)
	req.Empty(fetched)
}
