// Package runtime wires the delivery core together: the connection registry,
// the supervised background workers and the bounded command channels feeding
// them. It orchestrates the flow without owning any business rule.
package runtime

import (
	"context"
	"log/slog"
	"time"

	"babelchat/contract"
	"babelchat/domain"
	"babelchat/repositories"
	"babelchat/runtime/workers"
)

type Orchestrator struct {
	log            *slog.Logger
	numTranslators int
	supervisor     contract.ISupervisor
	registry       contract.IRegistry
	broadcaster    contract.IBroadcaster
	translator     contract.Translator
	groups         repositories.IGroupRepository
	unreadLoop     UnreadLoop
	messages       repositories.IMessageRepository

	livePushCommands  chan domain.LivePushCommand
	translateCommands chan domain.TranslateCommand

	monitorInterval time.Duration
}

func NewOrchestrator(
	log *slog.Logger,
	supervisor contract.ISupervisor,
	registry contract.IRegistry,
	broadcaster contract.IBroadcaster,
	translator contract.Translator,
	messages repositories.IMessageRepository,
	unread repositories.IUnreadRepository,
	groups repositories.IGroupRepository,
	numTranslators, bufferSize int,
	monitorInterval time.Duration,
) *Orchestrator {
	return &Orchestrator{
		log:               log,
		numTranslators:    numTranslators,
		supervisor:        supervisor,
		registry:          registry,
		broadcaster:       broadcaster,
		translator:        translator,
		groups:            groups,
		unreadLoop:        NewUnreadLoop(log, messages, unread),
		messages:          messages,
		livePushCommands:  make(chan domain.LivePushCommand, bufferSize),
		translateCommands: make(chan domain.TranslateCommand, bufferSize),
		monitorInterval:   monitorInterval,
	}
}

// EnqueueLivePush hands a freshly persisted message to the live push worker.
// The channel is bounded and ingestion never blocks on it: when full, the
// push is dropped and logged. Recipients still get the message through their
// unread markers.
func (o *Orchestrator) EnqueueLivePush(cmd domain.LivePushCommand) {
	select {
	case o.livePushCommands <- cmd:
	default:
		o.log.Warn("Live push channel full, dropping push", "message", cmd.Message.ID)
	}
}

// EnqueueTranslate schedules the translation pipeline for a message. Same
// drop policy as live pushes: a full channel means the message simply stays
// untranslated.
func (o *Orchestrator) EnqueueTranslate(cmd domain.TranslateCommand) {
	select {
	case o.translateCommands <- cmd:
	default:
		o.log.Warn("Translation channel full, dropping job", "message", cmd.Message.ID)
	}
}

// ServeUnread runs the drain loop for one polling connection. It blocks for
// the lifetime of the connection.
func (o *Orchestrator) ServeUnread(ctx context.Context, userID string, group domain.GroupID, conn contract.Conn) error {
	return o.unreadLoop.Serve(ctx, userID, group, conn)
}

// Start registers all background workers and launches the supervisor. It
// returns immediately; workers stop when ctx is canceled or Stop is called.
func (o *Orchestrator) Start(ctx context.Context) {
	o.supervisor.Add(workers.NewLivePushWorker(o.log, o.registry, o.groups, o.livePushCommands))
	for i := 0; i < o.numTranslators; i++ {
		o.supervisor.Add(workers.NewTranslationWorker(o.log, o.translator, o.messages, o.broadcaster, o.translateCommands))
	}
	o.supervisor.Add(workers.NewMonitorWorker(o.log, o.monitorInterval))

	o.log.Info("Starting orchestrator and all supervised workers",
		"translators", o.numTranslators)
	go o.supervisor.Run(ctx)
}

// Stop cancels the supervised context; workers drain their current item and
// exit.
func (o *Orchestrator) Stop() {
	o.log.Info("Requesting orchestrator shutdown")
	o.supervisor.Stop()
}
