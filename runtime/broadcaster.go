package runtime

import (
	"context"
	"log/slog"

	"babelchat/contract"
	"babelchat/domain"
	"babelchat/domain/event"
	"babelchat/repositories"
)

// Broadcaster pushes change events to every group member currently holding a
// polling connection. Delivery is best effort: offline members miss the event
// for good, there is no durable log behind it.
type Broadcaster struct {
	log      *slog.Logger
	registry contract.IRegistry
	groups   repositories.IGroupRepository
}

func NewBroadcaster(log *slog.Logger, registry contract.IRegistry, groups repositories.IGroupRepository) Broadcaster {
	return Broadcaster{log: log, registry: registry, groups: groups}
}

// BroadcastChange resolves the membership once and writes the event to each
// connected member. A failed write means the peer is gone: the connection is
// dropped from the registry and the fan-out continues, one dead client never
// blocks the others.
func (b Broadcaster) BroadcastChange(ctx context.Context, groupID domain.GroupID, change event.Change) error {
	group, err := b.groups.GetGroup(groupID)
	if err != nil {
		return err
	}

	for _, member := range group.Members {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		conn, ok := b.registry.Lookup(member, contract.ChannelUnread)
		if !ok {
			continue
		}
		if err := conn.WriteJSON(change); err != nil {
			b.log.Warn("Change push failed, dropping connection",
				"user", member, "kind", change.Kind(), "message", change.MessageID(), "error", err)
			b.registry.Unregister(member, contract.ChannelUnread)
		}
	}
	return nil
}
