package runtime

import (
	"log/slog"
	"testing"
	"time"

	"babelchat/domain"
	"babelchat/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestOrchestrator(t *testing.T, bufferSize int) *Orchestrator {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewOrchestrator(
		slog.Default(),
		mocks.NewMockISupervisor(ctrl),
		mocks.NewMockIRegistry(ctrl),
		mocks.NewMockIBroadcaster(ctrl),
		mocks.NewMockTranslator(ctrl),
		mocks.NewMockIMessageRepository(ctrl),
		mocks.NewMockIUnreadRepository(ctrl),
		mocks.NewMockIGroupRepository(ctrl),
		2, bufferSize, time.Minute,
	)
}

func TestOrchestrator_Enqueue_Never_Blocks_When_Full(t *testing.T) {
	req := require.New(t)
	orchestrator := newTestOrchestrator(t, 1)
	message := domain.Message{ID: uuid.New(), Text: "hello"}

	// Given a live push channel with room for a single command
	orchestrator.EnqueueLivePush(domain.LivePushCommand{Message: message})

	// When a second command arrives before the worker drained the first
	orchestrator.EnqueueLivePush(domain.LivePushCommand{Message: message})

	// Then the call returned instead of blocking and the overflow was dropped
	req.Len(orchestrator.livePushCommands, 1)
}

func TestOrchestrator_EnqueueTranslate_Drops_Overflow(t *testing.T) {
	req := require.New(t)
	orchestrator := newTestOrchestrator(t, 1)
	message := domain.Message{ID: uuid.New(), Text: "hello"}

	orchestrator.EnqueueTranslate(domain.TranslateCommand{Message: message, SourceLang: "en"})
	orchestrator.EnqueueTranslate(domain.TranslateCommand{Message: message, SourceLang: "en"})

	req.Len(orchestrator.translateCommands, 1)
}
