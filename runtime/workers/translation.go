package workers

import (
	"context"
	goerrors "errors"
	"fmt"
	"log/slog"

	"babelchat/contract"
	"babelchat/domain"
	"babelchat/domain/event"
	"babelchat/errors"
	"babelchat/repositories"
	"babelchat/translation"

	"golang.org/x/sync/errgroup"
)

// TranslationWorker consumes translation jobs and runs the three-target
// pipeline for each: one backend call per target language, all in flight at
// once, then a single atomic update of the message row. The update is all or
// nothing: a message is never stored with a partial set of translations.
//
// Several instances share the same command channel; that is the whole
// concurrency bound for outbound backend calls.
type TranslationWorker struct {
	log         *slog.Logger
	translator  contract.Translator
	messages    repositories.IMessageRepository
	broadcaster contract.IBroadcaster
	commands    <-chan domain.TranslateCommand
}

func NewTranslationWorker(
	log *slog.Logger,
	translator contract.Translator,
	messages repositories.IMessageRepository,
	broadcaster contract.IBroadcaster,
	commands <-chan domain.TranslateCommand,
) *TranslationWorker {
	return &TranslationWorker{
		log:         log,
		translator:  translator,
		messages:    messages,
		broadcaster: broadcaster,
		commands:    commands,
	}
}

func (w *TranslationWorker) Run(ctx context.Context) error {
	for {
		select {
		case cmd := <-w.commands:
			if err := w.translate(ctx, cmd); err != nil {
				// The message stays untranslated; the worker moves on.
				w.log.Warn("Translation pipeline failed",
					"message", cmd.Message.ID, "source", cmd.SourceLang, "error", err)
			}
		case <-ctx.Done():
			w.log.Debug("Context done, stopping translation pipeline")
			return nil
		}
	}
}

// translate fans out one backend call per target language, the source
// included, persists the full set and broadcasts one Translate event. The
// first failed call cancels its siblings.
func (w *TranslationWorker) translate(ctx context.Context, cmd domain.TranslateCommand) error {
	budget := translation.TokenBudget(cmd.Message.Text)

	// Each goroutine owns exactly one output slot, in target order.
	var textFr, textEn, textVn string
	slots := []*string{&textFr, &textEn, &textVn}

	g, groupCtx := errgroup.WithContext(ctx)
	for i, target := range translation.Targets {
		out := slots[i]
		g.Go(func() error {
			translated, err := w.translator.Translate(groupCtx, cmd.Message.Text, cmd.SourceLang, target, budget)
			if err != nil {
				return fmt.Errorf("%w (%s): %v", errors.ErrTranslationFailed, target, err)
			}
			*out = translated
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	message, err := w.messages.SetTranslations(cmd.Message.ID, textFr, textEn, textVn)
	if goerrors.Is(err, errors.ErrNotFound) {
		// Deleted while the pipeline ran, nothing left to announce.
		w.log.Info("Message deleted mid-translation, dropping result", "message", cmd.Message.ID)
		return nil
	}
	if err != nil {
		return err
	}

	return w.broadcaster.BroadcastChange(ctx, message.GroupID, event.Translate{
		ID:     message.ID,
		TextFr: *message.TextFr,
		TextVn: *message.TextVn,
		TextEn: *message.TextEn,
	})
}
