// File: internal/services/chat_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jvidalgz/go-gympulse/internal/domain"
	"github.com/jvidalgz/go-gympulse/internal/repository/chatmessage"
)

// Push event names shared by the socket layer and the HTTP handlers.
const (
	EventChatMessage    = "chatMessage"
	EventChatHistory    = "chatHistory"
	EventMessageUpdated = "messageUpdated"
	EventMessageDeleted = "messageDeleted"
	EventError          = "error"
)

// Notifier is the fan-out side of the push transport. Emit is
// fire-and-forget: delivery problems of individual clients never
// surface here.
type Notifier interface {
	Emit(event string, payload interface{})
}

// IncomingMessage is a decoded public chat submission. UserID and
// UserName are empty for anonymous messages.
type IncomingMessage struct {
	Text     string
	UserID   string
	UserName string
}

// ChatService owns the public broadcast chat: history, retention,
// moderation, and the push events that keep connected clients in sync.
type ChatService struct {
	messages  chatmessage.ChatMessageRepository
	notifier  Notifier
	retention time.Duration
	logger    Logger
}

func NewChatService(messages chatmessage.ChatMessageRepository, notifier Notifier, retentionDays int, logger Logger) (*ChatService, error) {
	if messages == nil {
		return nil, errors.New("chat message repository is required")
	}
	if notifier == nil {
		return nil, errors.New("notifier is required")
	}
	if retentionDays <= 0 {
		retentionDays = 30
	}
	return &ChatService{
		messages:  messages,
		notifier:  notifier,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		logger:    logger,
	}, nil
}

// History returns the retained chat log in creation order.
func (s *ChatService) History(ctx context.Context) ([]domain.ChatMessage, error) {
	return s.messages.FindAllAscending(ctx)
}

// ReplayHistory prunes expired messages and returns what is left, in
// creation order. Called once per new connection; retention is a side
// effect of connecting, not a scheduled job.
func (s *ChatService) ReplayHistory(ctx context.Context) ([]domain.ChatMessage, error) {
	cutoff := time.Now().Add(-s.retention)
	pruned, err := s.messages.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	if pruned > 0 {
		s.logger.Info("pruned expired chat messages", "count", pruned)
	}
	return s.messages.FindAllAscending(ctx)
}

// PostMessage validates, persists and broadcasts a chat submission.
// The broadcast reaches every connected client, the sender included.
func (s *ChatService) PostMessage(ctx context.Context, in IncomingMessage) (*domain.ChatMessage, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: message text is required", ErrValidation)
	}

	msg := &domain.ChatMessage{
		Text:     text,
		UserID:   in.UserID,
		UserName: in.UserName,
	}
	msg, err := s.messages.Create(ctx, msg)
	if err != nil {
		return nil, err
	}

	s.notifier.Emit(EventChatMessage, msg)
	return msg, nil
}

// GetMessage loads one message by id.
func (s *ChatService) GetMessage(ctx context.Context, id uint) (*domain.ChatMessage, error) {
	msg, err := s.messages.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, chatmessage.ErrMessageNotFound) {
			return nil, fmt.Errorf("%w: message %d", ErrNotFound, id)
		}
		return nil, err
	}
	return msg, nil
}

// UpdateMessage edits a message's text. Only the original author or an
// admin may edit; every open chat view learns about the change through
// a messageUpdated broadcast.
func (s *ChatService) UpdateMessage(ctx context.Context, id uint, text string, actor *domain.User) (*domain.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: message text is required", ErrValidation)
	}

	msg, err := s.GetMessage(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canModerate(msg, actor) {
		return nil, fmt.Errorf("%w: not the author of message %d", ErrForbidden, id)
	}

	updated, err := s.messages.UpdateText(ctx, id, text)
	if err != nil {
		return nil, err
	}

	s.notifier.Emit(EventMessageUpdated, updated)
	return updated, nil
}

// DeleteMessage removes a message, author-or-admin only, and
// broadcasts the removal.
func (s *ChatService) DeleteMessage(ctx context.Context, id uint, actor *domain.User) error {
	msg, err := s.GetMessage(ctx, id)
	if err != nil {
		return err
	}
	if !s.canModerate(msg, actor) {
		return fmt.Errorf("%w: not the author of message %d", ErrForbidden, id)
	}

	if err := s.messages.Delete(ctx, id); err != nil {
		return err
	}

	s.notifier.Emit(EventMessageDeleted, map[string]uint{"_id": id})
	return nil
}

// DeleteAll wipes the whole chat log and pushes an empty history so
// open chat views clear immediately. Admin gating happens in the
// route middleware.
func (s *ChatService) DeleteAll(ctx context.Context) error {
	if err := s.messages.DeleteAll(ctx); err != nil {
		return err
	}
	s.notifier.Emit(EventChatHistory, []domain.ChatMessage{})
	return nil
}

// canModerate implements the author-or-admin rule. Anonymous messages
// have no author, so only admins may touch them.
func (s *ChatService) canModerate(msg *domain.ChatMessage, actor *domain.User) bool {
	if actor == nil {
		return false
	}
	if actor.IsAdmin() {
		return true
	}
	return msg.UserID != "" && msg.UserID == strconv.FormatUint(uint64(actor.ID), 10)
}
