//go:generate go run go.uber.org/mock/mockgen -source=message_service.go -destination=../mocks/mock_message_service.go -package=mocks
package services

import (
	"context"
	goerrors "errors"
	"log/slog"
	"time"

	"babelchat/contract"
	"babelchat/domain"
	"babelchat/domain/event"
	"babelchat/errors"
	"babelchat/moderation"
	"babelchat/repositories"
	"babelchat/search"
	"babelchat/translation"

	"github.com/google/uuid"
)

type IMessageService interface {
	Ingest(ctx context.Context, senderID string, groupID domain.GroupID, text string) (domain.Message, error)
	Edit(ctx context.Context, userID string, messageID uuid.UUID, newText string) (string, error)
	Delete(ctx context.Context, userID string, messageID uuid.UUID) (string, error)
	History(userID string, groupID domain.GroupID, cursor *string) ([]domain.Message, *string, error)
	FirstUnread(userID string, groupID domain.GroupID) (domain.Message, error)
	Search(ctx context.Context, userID string, groupID domain.GroupID, query string, limit int) ([]search.Hit, error)
}

// MessageService owns the write path of the chat: ingestion, mutation and the
// read queries built on top of them. Everything durable happens here before
// anything transient (live pushes, translations, change events) is attempted.
type MessageService struct {
	log         *slog.Logger
	messages    repositories.IMessageRepository
	unread      repositories.IUnreadRepository
	groups      repositories.IGroupRepository
	users       repositories.IUserRepository
	changes     repositories.IChangeRepository
	index       search.IMessageIndex
	moderator   moderation.Moderator
	dispatcher  contract.IDispatcher
	broadcaster contract.IBroadcaster
}

func NewMessageService(
	log *slog.Logger,
	messages repositories.IMessageRepository,
	unread repositories.IUnreadRepository,
	groups repositories.IGroupRepository,
	users repositories.IUserRepository,
	changes repositories.IChangeRepository,
	index search.IMessageIndex,
	moderator moderation.Moderator,
	dispatcher contract.IDispatcher,
	broadcaster contract.IBroadcaster,
) IMessageService {
	return &MessageService{
		log:         log,
		messages:    messages,
		unread:      unread,
		groups:      groups,
		users:       users,
		changes:     changes,
		index:       index,
		moderator:   moderator,
		dispatcher:  dispatcher,
		broadcaster: broadcaster,
	}
}

// Ingest is the single entry point for new messages. The order is the
// contract: persist the message, then one unread marker per other member,
// and only then hand off to the background pipelines. A message is therefore
// always recoverable from disk before anyone could have seen it live.
func (s *MessageService) Ingest(ctx context.Context, senderID string, groupID domain.GroupID, text string) (domain.Message, error) {
	group, err := s.groups.GetGroup(groupID)
	if err != nil {
		return domain.Message{}, err
	}
	if !group.IsMember(senderID) {
		return domain.Message{}, errors.ErrForbidden
	}

	sender, err := s.users.GetUser(senderID)
	if err != nil {
		return domain.Message{}, err
	}

	// Blacklisted words are starred out before the text becomes durable, so
	// history, search and translations all see the censored form.
	text, flagged := s.moderator.Censor(text)
	if len(flagged) > 0 {
		s.log.Info("Message censored", "sender", senderID, "group", groupID, "words", flagged)
	}

	message := domain.Message{
		ID:         uuid.New(),
		GroupID:    groupID,
		SenderID:   sender.ID,
		SenderName: sender.DisplayName,
		Text:       text,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.messages.StoreMessage(message); err != nil {
		return domain.Message{}, err
	}
	if err := s.index.Index(message); err != nil {
		// The message is already durable; a search gap is acceptable.
		s.log.Warn("Message indexing failed", "message", message.ID, "error", err)
	}

	for _, member := range group.OtherMembers(sender.ID) {
		marker := domain.UnreadMarker{
			ID:        uuid.New(),
			MessageID: message.ID,
			UserID:    member,
			GroupID:   groupID,
			CreatedAt: message.CreatedAt,
		}
		if err := s.unread.CreateMarker(marker); err != nil {
			return domain.Message{}, err
		}
	}

	sourceLang := sender.Language
	if sourceLang == "" {
		sourceLang = translation.DetectLang(text)
	}

	s.dispatcher.EnqueueLivePush(domain.LivePushCommand{Message: message})
	s.dispatcher.EnqueueTranslate(domain.TranslateCommand{Message: message, SourceLang: sourceLang})

	return message, nil
}

// Edit rewrites the original text and returns the text as stored, which may
// differ from the input once screened. Only the sender may do it; the audit
// row is written before the mutation so even a half-applied edit is traceable.
func (s *MessageService) Edit(ctx context.Context, userID string, messageID uuid.UUID, newText string) (string, error) {
	message, err := s.messages.GetMessage(messageID)
	if err != nil {
		return "", err
	}
	if message.SenderID != userID {
		return "", errors.ErrForbidden
	}

	// Edits go through the same screening as fresh messages.
	newText, flagged := s.moderator.Censor(newText)
	if len(flagged) > 0 {
		s.log.Info("Edit censored", "sender", userID, "message", messageID, "words", flagged)
	}

	record := domain.ChangeRecord{
		ID:           uuid.New(),
		GroupID:      message.GroupID,
		SenderID:     userID,
		Kind:         domain.ChangeEdit,
		OriginalText: message.Text,
		NewText:      newText,
		At:           time.Now().UTC(),
	}
	if err := s.changes.RecordChange(record); err != nil {
		return "", err
	}

	updated, err := s.messages.UpdateText(messageID, newText)
	if err != nil {
		return "", err
	}
	if err := s.index.Reindex(messageID, updated.GroupID, newText); err != nil {
		s.log.Warn("Message reindexing failed", "message", messageID, "error", err)
	}

	if err := s.broadcaster.BroadcastChange(ctx, updated.GroupID, event.Edit{ID: messageID, NewText: newText}); err != nil {
		return "", err
	}
	return updated.Text, nil
}

// Delete removes the message and returns the text it held, so callers can
// echo what was destroyed. Pending unread markers are left alone: the drain
// loop discards markers whose message is gone.
func (s *MessageService) Delete(ctx context.Context, userID string, messageID uuid.UUID) (string, error) {
	message, err := s.messages.GetMessage(messageID)
	if err != nil {
		return "", err
	}
	if message.SenderID != userID {
		return "", errors.ErrForbidden
	}

	record := domain.ChangeRecord{
		ID:           uuid.New(),
		GroupID:      message.GroupID,
		SenderID:     userID,
		Kind:         domain.ChangeDelete,
		OriginalText: message.Text,
		At:           time.Now().UTC(),
	}
	if err := s.changes.RecordChange(record); err != nil {
		return "", err
	}

	deleted, err := s.messages.DeleteMessage(messageID)
	if err != nil {
		return "", err
	}
	if err := s.index.Delete(messageID); err != nil {
		s.log.Warn("Message removal from index failed", "message", messageID, "error", err)
	}

	if err := s.broadcaster.BroadcastChange(ctx, deleted.GroupID, event.Delete{ID: messageID}); err != nil {
		return "", err
	}
	return deleted.Text, nil
}

// History pages backwards from the cursor (or the latest message when nil).
func (s *MessageService) History(userID string, groupID domain.GroupID, cursor *string) ([]domain.Message, *string, error) {
	if err := s.requireMember(userID, groupID); err != nil {
		return nil, nil, err
	}
	return s.messages.ListMessages(groupID, cursor)
}

// FirstUnread resolves the oldest pending marker to its message, the anchor
// a client scrolls to on open. ErrNotFound means fully caught up.
func (s *MessageService) FirstUnread(userID string, groupID domain.GroupID) (domain.Message, error) {
	if err := s.requireMember(userID, groupID); err != nil {
		return domain.Message{}, err
	}
	marker, err := s.unread.FirstUnread(userID, groupID)
	if err != nil {
		return domain.Message{}, err
	}
	message, err := s.messages.GetMessage(marker.MessageID)
	if goerrors.Is(err, errors.ErrNotFound) {
		// Stale marker for a deleted message; the drain loop will clean it.
		return domain.Message{}, errors.ErrNotFound
	}
	return message, err
}

func (s *MessageService) Search(ctx context.Context, userID string, groupID domain.GroupID, query string, limit int) ([]search.Hit, error) {
	if err := s.requireMember(userID, groupID); err != nil {
		return nil, err
	}
	return s.index.Search(ctx, groupID, query, limit)
}

func (s *MessageService) requireMember(userID string, groupID domain.GroupID) error {
	group, err := s.groups.GetGroup(groupID)
	if err != nil {
		return err
	}
	if !group.IsMember(userID) {
		return errors.ErrForbidden
	}
	return nil
}
