package runtime

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"log/slog"
	"time"

	"babelchat/contract"
	"babelchat/domain"
	"babelchat/domain/event"
	"babelchat/errors"
	"babelchat/repositories"

	"golang.org/x/sync/errgroup"
)

// idlePoll is how long the loop blocks on the socket between marker scans
// when the user has nothing pending. Any inbound frame (or the timeout)
// triggers the next scan, so a ping doubles as a "check again now" signal.
const idlePoll = 700 * time.Millisecond

// UnreadLoop drives one polling connection: it drains pending markers as
// message frames, then idles until new markers appear. One loop instance is
// stateless and shared across all connections.
type UnreadLoop struct {
	log      *slog.Logger
	messages repositories.IMessageRepository
	markers  repositories.IUnreadRepository
}

func NewUnreadLoop(log *slog.Logger, messages repositories.IMessageRepository, markers repositories.IUnreadRepository) UnreadLoop {
	return UnreadLoop{log: log, messages: messages, markers: markers}
}

// Serve blocks until the peer disconnects or the context ends. It returns nil
// on a clean stop and the socket error otherwise; the caller owns closing the
// connection and releasing the registry slot.
func (l UnreadLoop) Serve(ctx context.Context, userID string, group domain.GroupID, conn contract.Conn) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		pending, err := l.markers.ListMarkers(userID, group)
		if err != nil {
			return err
		}

		if len(pending) == 0 {
			err := conn.ReadFrame(idlePoll)
			if err == nil || goerrors.Is(err, errors.ErrIdleTimeout) {
				continue
			}
			return err
		}

		if err := l.drain(ctx, conn, pending); err != nil {
			return err
		}
	}
}

// drain sends one batch and only then deletes its markers, in one
// transaction. That ordering is the delivery guarantee: a crash between the
// two steps re-delivers the whole batch on reconnect, it never loses it.
func (l UnreadLoop) drain(ctx context.Context, conn contract.Conn, pending []domain.UnreadMarker) error {
	frames := make([][]byte, 0, len(pending))
	for _, marker := range pending {
		message, err := l.messages.GetMessage(marker.MessageID)
		if goerrors.Is(err, errors.ErrNotFound) {
			// Message deleted while the marker waited. The marker still gets
			// cleaned up with the batch below.
			l.log.Warn("Unread marker points to a deleted message, discarding",
				"user", marker.UserID, "message", marker.MessageID)
			continue
		}
		if err != nil {
			return err
		}
		payload, err := json.Marshal(event.Text{Message: message})
		if err != nil {
			return err
		}
		frames = append(frames, payload)
	}

	g, _ := errgroup.WithContext(ctx)
	for _, frame := range frames {
		g.Go(func() error {
			return conn.WriteText(frame)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return l.markers.DeleteMarkers(pending)
}
