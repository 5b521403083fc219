package repositories

import (
	"log/slog"
	"testing"
	"time"

	"babelchat/domain"
	"babelchat/errors"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func testMarker(userID string, group domain.GroupID, at time.Time) domain.UnreadMarker {
	return domain.UnreadMarker{
		ID:        uuid.New(),
		MessageID: uuid.New(),
		UserID:    userID,
		GroupID:   group,
		CreatedAt: at,
	}
}

func Test_List_Markers_In_Arrival_Order(t *testing.T) {
	req := require.New(t)
	repository := NewUnreadRepository(openTestDB(t), slog.Default())

	group := domain.GroupID("g1")
	at := time.Now().UTC()
	first := testMarker("alice", group, at)
	second := testMarker("alice", group, at.Add(time.Second))
	third := testMarker("alice", group, at.Add(2*time.Second))

	// Insert out of order; the key layout must sort them back
	for _, marker := range []domain.UnreadMarker{third, first, second} {
		req.NoError(repository.CreateMarker(marker))
	}
	// A marker for another pair must stay invisible
	req.NoError(repository.CreateMarker(testMarker("alice", "g2", at)))
	req.NoError(repository.CreateMarker(testMarker("bob", group, at)))

	markers, err := repository.ListMarkers("alice", group)
	req.NoError(err)
	req.Equal(
		[]uuid.UUID{first.ID, second.ID, third.ID},
		lo.Map(markers, func(m domain.UnreadMarker, _ int) uuid.UUID { return m.ID }),
	)
}

func Test_Delete_Markers_Removes_Exactly_The_Given_Ones(t *testing.T) {
	req := require.New(t)
	repository := NewUnreadRepository(openTestDB(t), slog.Default())

	group := domain.GroupID("g1")
	at := time.Now().UTC()
	delivered := testMarker("alice", group, at)
	pending := testMarker("alice", group, at.Add(time.Second))
	req.NoError(repository.CreateMarker(delivered))
	req.NoError(repository.CreateMarker(pending))

	req.NoError(repository.DeleteMarkers([]domain.UnreadMarker{delivered}))

	markers, err := repository.ListMarkers("alice", group)
	req.NoError(err)
	req.Len(markers, 1)
	req.Equal(pending.ID, markers[0].ID)
}

func Test_First_Unread_Is_The_Oldest_Marker(t *testing.T) {
	req := require.New(t)
	repository := NewUnreadRepository(openTestDB(t), slog.Default())

	group := domain.GroupID("g1")
	at := time.Now().UTC()
	oldest := testMarker("alice", group, at)
	req.NoError(repository.CreateMarker(testMarker("alice", group, at.Add(time.Minute))))
	req.NoError(repository.CreateMarker(oldest))

	marker, err := repository.FirstUnread("alice", group)
	req.NoError(err)
	req.Equal(oldest.ID, marker.ID)
	req.Equal(oldest.MessageID, marker.MessageID)
}

func Test_First_Unread_When_Caught_Up_Is_NotFound(t *testing.T) {
	req := require.New(t)
	repository := NewUnreadRepository(openTestDB(t), slog.Default())

	_, err := repository.FirstUnread("alice", "g1")
	req.ErrorIs(err, errors.ErrNotFound)
}
