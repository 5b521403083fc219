package runtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"babelchat/domain"
	"babelchat/domain/event"
	"babelchat/errors"
	"babelchat/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newMarker(userID string, group domain.GroupID, messageID uuid.UUID) domain.UnreadMarker {
	return domain.UnreadMarker{
		ID:        uuid.New(),
		MessageID: messageID,
		UserID:    userID,
		GroupID:   group,
		CreatedAt: time.Now().UTC(),
	}
}

func TestUnreadLoop_Drains_Then_Deletes_Markers(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	log := slog.Default()

	messages := mocks.NewMockIMessageRepository(ctrl)
	markers := mocks.NewMockIUnreadRepository(ctrl)
	conn := mocks.NewMockConn(ctrl)

	group := domain.GroupID(uuid.NewString())
	message := domain.Message{
		ID:         uuid.New(),
		GroupID:    group,
		SenderID:   "alice",
		SenderName: "Alice",
		Text:       "salut",
		CreatedAt:  time.Now().UTC(),
	}
	marker := newMarker("bob", group, message.ID)
	pending := []domain.UnreadMarker{marker}

	payload, err := json.Marshal(event.Text{Message: message})
	req.NoError(err)

	// Given one pending marker, then a peer that hangs up
	gomock.InOrder(
		markers.EXPECT().ListMarkers("bob", group).Return(pending, nil),
		messages.EXPECT().GetMessage(message.ID).Return(message, nil),
		conn.EXPECT().WriteText(payload).Return(nil),
		// The markers go away only after the frame went out
		markers.EXPECT().DeleteMarkers(pending).Return(nil),
		markers.EXPECT().ListMarkers("bob", group).Return(nil, nil),
		conn.EXPECT().ReadFrame(idlePoll).Return(fmt.Errorf("connection reset")),
	)

	// When the loop serves the connection
	err = NewUnreadLoop(log, messages, markers).Serve(context.Background(), "bob", group, conn)

	// Then it ends with the socket error
	req.Error(err)
}

func TestUnreadLoop_Failed_Send_Keeps_Markers(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	log := slog.Default()

	messages := mocks.NewMockIMessageRepository(ctrl)
	markers := mocks.NewMockIUnreadRepository(ctrl)
	conn := mocks.NewMockConn(ctrl)

	group := domain.GroupID(uuid.NewString())
	message := domain.Message{ID: uuid.New(), GroupID: group, SenderName: "Alice", Text: "salut", CreatedAt: time.Now().UTC()}
	pending := []domain.UnreadMarker{newMarker("bob", group, message.ID)}

	// Given a send that fails mid-batch
	markers.EXPECT().ListMarkers("bob", group).Return(pending, nil)
	messages.EXPECT().GetMessage(message.ID).Return(message, nil)
	conn.EXPECT().WriteText(gomock.Any()).Return(fmt.Errorf("broken pipe"))

	// When the loop serves the connection
	err := NewUnreadLoop(log, messages, markers).Serve(context.Background(), "bob", group, conn)

	// Then it fails and DeleteMarkers was never called:
	// the batch will be re-delivered on reconnect
	req.Error(err)
}

func TestUnreadLoop_Redelivers_The_Same_Batch_After_Reconnect(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	log := slog.Default()

	messages := mocks.NewMockIMessageRepository(ctrl)
	markers := mocks.NewMockIUnreadRepository(ctrl)

	group := domain.GroupID(uuid.NewString())
	message := domain.Message{ID: uuid.New(), GroupID: group, SenderName: "Alice", Text: "salut", CreatedAt: time.Now().UTC()}
	pending := []domain.UnreadMarker{newMarker("bob", group, message.ID)}

	payload, err := json.Marshal(event.Text{Message: message})
	req.NoError(err)

	loop := NewUnreadLoop(log, messages, markers)

	// Given a first connection that dies mid-send: the batch stays pending
	dying := mocks.NewMockConn(ctrl)
	markers.EXPECT().ListMarkers("bob", group).Return(pending, nil)
	messages.EXPECT().GetMessage(message.ID).Return(message, nil)
	dying.EXPECT().WriteText(payload).Return(fmt.Errorf("broken pipe"))

	err = loop.Serve(context.Background(), "bob", group, dying)
	req.Error(err)

	// When the user comes back on a fresh socket
	fresh := mocks.NewMockConn(ctrl)
	gomock.InOrder(
		markers.EXPECT().ListMarkers("bob", group).Return(pending, nil),
		messages.EXPECT().GetMessage(message.ID).Return(message, nil),
		// The exact same frame goes out again, and only then do the
		// markers disappear
		fresh.EXPECT().WriteText(payload).Return(nil),
		markers.EXPECT().DeleteMarkers(pending).Return(nil),
		markers.EXPECT().ListMarkers("bob", group).Return(nil, nil),
		fresh.EXPECT().ReadFrame(idlePoll).Return(fmt.Errorf("connection reset")),
	)

	// Then the second pass delivers the batch the first one lost
	err = loop.Serve(context.Background(), "bob", group, fresh)
	req.Error(err)
	req.NotErrorIs(err, errors.ErrIdleTimeout)
}

func TestUnreadLoop_Marker_For_Deleted_Message_Is_Cleaned_Up(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	log := slog.Default()

	messages := mocks.NewMockIMessageRepository(ctrl)
	markers := mocks.NewMockIUnreadRepository(ctrl)
	conn := mocks.NewMockConn(ctrl)

	group := domain.GroupID(uuid.NewString())
	orphan := newMarker("bob", group, uuid.New())
	pending := []domain.UnreadMarker{orphan}

	// Given a marker whose message was deleted in the meantime
	gomock.InOrder(
		markers.EXPECT().ListMarkers("bob", group).Return(pending, nil),
		messages.EXPECT().GetMessage(orphan.MessageID).Return(domain.Message{}, errors.ErrNotFound),
		// No frame to send, but the stale marker is still removed
		markers.EXPECT().DeleteMarkers(pending).Return(nil),
		markers.EXPECT().ListMarkers("bob", group).Return(nil, nil),
		conn.EXPECT().ReadFrame(idlePoll).Return(fmt.Errorf("connection reset")),
	)

	// When the loop serves the connection
	err := NewUnreadLoop(log, messages, markers).Serve(context.Background(), "bob", group, conn)
	req.Error(err)
}

func TestUnreadLoop_Idles_On_Timeout_Until_Markers_Appear(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	log := slog.Default()

	messages := mocks.NewMockIMessageRepository(ctrl)
	markers := mocks.NewMockIUnreadRepository(ctrl)
	conn := mocks.NewMockConn(ctrl)

	group := domain.GroupID(uuid.NewString())
	message := domain.Message{ID: uuid.New(), GroupID: group, SenderName: "Alice", Text: "hello", CreatedAt: time.Now().UTC()}
	pending := []domain.UnreadMarker{newMarker("bob", group, message.ID)}

	// Given two quiet scans before a marker shows up
	gomock.InOrder(
		markers.EXPECT().ListMarkers("bob", group).Return(nil, nil),
		conn.EXPECT().ReadFrame(idlePoll).Return(errors.ErrIdleTimeout),
		markers.EXPECT().ListMarkers("bob", group).Return(nil, nil),
		conn.EXPECT().ReadFrame(idlePoll).Return(nil), // client ping wakes the loop
		markers.EXPECT().ListMarkers("bob", group).Return(pending, nil),
		messages.EXPECT().GetMessage(message.ID).Return(message, nil),
		conn.EXPECT().WriteText(gomock.Any()).Return(nil),
		markers.EXPECT().DeleteMarkers(pending).Return(nil),
		markers.EXPECT().ListMarkers("bob", group).Return(nil, nil),
		conn.EXPECT().ReadFrame(idlePoll).Return(fmt.Errorf("connection reset")),
	)

	// When the loop serves the connection
	err := NewUnreadLoop(log, messages, markers).Serve(context.Background(), "bob", group, conn)

	// Then idle timeouts never killed the loop, only the socket error did
	req.Error(err)
	req.NotErrorIs(err, errors.ErrIdleTimeout)
}
