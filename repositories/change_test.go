package repositories

import (
	"log/slog"
	"testing"
	"time"

	"babelchat/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func Test_Record_And_List_Changes(t *testing.T) {
	req := require.New(t)
	repository := NewChangeRepository(openTestDB(t), slog.Default())

	group := domain.GroupID("g1")
	at := time.Now().UTC()
	edit := domain.ChangeRecord{
		ID:           uuid.New(),
		GroupID:      group,
		SenderID:     "alice",
		Kind:         domain.ChangeEdit,
		OriginalText: "helo",
		NewText:      "hello",
		At:           at,
	}
	deletion := domain.ChangeRecord{
		ID:           uuid.New(),
		GroupID:      group,
		SenderID:     "alice",
		Kind:         domain.ChangeDelete,
		OriginalText: "hello",
		At:           at.Add(time.Second),
	}
	req.NoError(repository.RecordChange(deletion))
	req.NoError(repository.RecordChange(edit))
	// Another group's trail stays separate
	req.NoError(repository.RecordChange(domain.ChangeRecord{
		ID: uuid.New(), GroupID: "g2", SenderID: "bob", Kind: domain.ChangeEdit, At: at,
	}))

	records, err := repository.ListChanges(group)
	req.NoError(err)
	req.Len(records, 2)
	// Oldest first, regardless of insert order
	req.Equal(edit, records[0])
	req.Equal(deletion, records[1])
}

func Test_List_Changes_Empty_Group(t *testing.T) {
	req := require.New(t)
	repository := NewChangeRepository(openTestDB(t), slog.Default())

	records, err := repository.ListChanges("g1")
	req.NoError(err)
	req.Empty(records)
}
