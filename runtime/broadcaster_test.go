package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"babelchat/contract"
	"babelchat/domain"
	"babelchat/domain/event"
	"babelchat/errors"
	"babelchat/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestBroadcaster_Pushes_To_Connected_Members_Only(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	log := slog.Default()

	registry := mocks.NewMockIRegistry(ctrl)
	groups := mocks.NewMockIGroupRepository(ctrl)
	groupID := domain.GroupID(uuid.NewString())
	change := event.Edit{ID: uuid.New(), NewText: "bonjour"}

	// Given a group of three where only alice holds a polling channel
	groups.EXPECT().GetGroup(groupID).Return(domain.Group{
		ID:      groupID,
		Members: []string{"alice", "bob", "carol"},
	}, nil)

	aliceConn := mocks.NewMockConn(ctrl)
	registry.EXPECT().Lookup("alice", contract.ChannelUnread).Return(aliceConn, true)
	registry.EXPECT().Lookup("bob", contract.ChannelUnread).Return(nil, false)
	registry.EXPECT().Lookup("carol", contract.ChannelUnread).Return(nil, false)

	// Then only alice receives the event
	aliceConn.EXPECT().WriteJSON(change).Return(nil)

	// When the change is broadcast
	err := NewBroadcaster(log, registry, groups).BroadcastChange(context.Background(), groupID, change)
	req.NoError(err)
}

func TestBroadcaster_Failed_Write_Drops_Connection_And_Continues(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	log := slog.Default()

	registry := mocks.NewMockIRegistry(ctrl)
	groups := mocks.NewMockIGroupRepository(ctrl)
	groupID := domain.GroupID(uuid.NewString())
	change := event.Delete{ID: uuid.New()}

	// Given two connected members, the first with a dead socket
	groups.EXPECT().GetGroup(groupID).Return(domain.Group{
		ID:      groupID,
		Members: []string{"alice", "bob"},
	}, nil)

	deadConn := mocks.NewMockConn(ctrl)
	liveConn := mocks.NewMockConn(ctrl)
	registry.EXPECT().Lookup("alice", contract.ChannelUnread).Return(deadConn, true)
	registry.EXPECT().Lookup("bob", contract.ChannelUnread).Return(liveConn, true)

	deadConn.EXPECT().WriteJSON(change).Return(fmt.Errorf("broken pipe"))
	liveConn.EXPECT().WriteJSON(change).Return(nil)

	// Then the dead connection is evicted and bob still gets the event
	registry.EXPECT().Unregister("alice", contract.ChannelUnread)

	// When the change is broadcast
	err := NewBroadcaster(log, registry, groups).BroadcastChange(context.Background(), groupID, change)
	req.NoError(err)
}

func TestBroadcaster_Change_Missed_While_Offline_Is_Never_Replayed(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	log := slog.Default()

	groups := mocks.NewMockIGroupRepository(ctrl)
	groupID := domain.GroupID(uuid.NewString())
	group := domain.Group{ID: groupID, Members: []string{"bob"}}
	groups.EXPECT().GetGroup(groupID).Return(group, nil).Times(2)

	registry := NewRegistry()
	broadcaster := NewBroadcaster(log, registry, groups)

	// Given bob's polling connection dropped
	gone := mocks.NewMockConn(ctrl)
	req.NoError(registry.Register("bob", contract.ChannelUnread, gone))
	registry.Unregister("bob", contract.ChannelUnread)

	// When an edit happens while bob is away
	missed := event.Edit{ID: uuid.New(), NewText: "bonjour"}
	req.NoError(broadcaster.BroadcastChange(context.Background(), groupID, missed))

	// Then a reconnect only ever sees changes from that point on: the
	// missed event was never stored anywhere, so it cannot come back
	reconnected := mocks.NewMockConn(ctrl)
	req.NoError(registry.Register("bob", contract.ChannelUnread, reconnected))

	later := event.Delete{ID: uuid.New()}
	reconnected.EXPECT().WriteJSON(later).Return(nil)
	req.NoError(broadcaster.BroadcastChange(context.Background(), groupID, later))
}

func TestBroadcaster_Unknown_Group_Fails(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	log := slog.Default()

	registry := mocks.NewMockIRegistry(ctrl)
	groups := mocks.NewMockIGroupRepository(ctrl)
	groupID := domain.GroupID(uuid.NewString())

	// Given a group that does not exist
	groups.EXPECT().GetGroup(groupID).Return(domain.Group{}, errors.ErrNotFound)

	// When a change targets it
	err := NewBroadcaster(log, registry, groups).
		BroadcastChange(context.Background(), groupID, event.Delete{ID: uuid.New()})

	// Then the broadcast fails without touching the registry
	req.ErrorIs(err, errors.ErrNotFound)
}
