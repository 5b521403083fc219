package workers

import (
	"context"
	"log/slog"

	"babelchat/contract"
	"babelchat/domain"
	"babelchat/repositories"
)

// LivePushWorker forwards each ingested message, as raw text, to every group
// member currently holding a live connection. The sender is excluded: they
// already have the text. No durability here, this channel exists only for
// immediacy.
type LivePushWorker struct {
	log      *slog.Logger
	registry contract.IRegistry
	groups   repositories.IGroupRepository
	commands <-chan domain.LivePushCommand
}

func NewLivePushWorker(
	log *slog.Logger,
	registry contract.IRegistry,
	groups repositories.IGroupRepository,
	commands <-chan domain.LivePushCommand,
) *LivePushWorker {
	return &LivePushWorker{log: log, registry: registry, groups: groups, commands: commands}
}

func (w *LivePushWorker) Run(ctx context.Context) error {
	for {
		select {
		case cmd := <-w.commands:
			w.push(cmd.Message)
		case <-ctx.Done():
			w.log.Debug("Context done, stopping live pushes")
			return nil
		}
	}
}

func (w *LivePushWorker) push(message domain.Message) {
	group, err := w.groups.GetGroup(message.GroupID)
	if err != nil {
		w.log.Error("Live push lost its group", "group", message.GroupID, "error", err)
		return
	}

	for _, member := range group.OtherMembers(message.SenderID) {
		conn, ok := w.registry.Lookup(member, contract.ChannelLive)
		if !ok {
			continue
		}
		if err := conn.WriteText([]byte(message.Text)); err != nil {
			w.log.Warn("Live push failed, dropping connection", "user", member, "error", err)
			w.registry.Unregister(member, contract.ChannelLive)
		}
	}
}
