// File: internal/services/private_message_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jvidalgz/go-gympulse/internal/domain"
	"github.com/jvidalgz/go-gympulse/internal/repository/conversation"
	"github.com/jvidalgz/go-gympulse/internal/repository/privatemessage"
	"github.com/jvidalgz/go-gympulse/internal/repository/user"
)

// UserSummary is the slice of a user exposed inside messaging
// responses.
type UserSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// PrivateMessageView is a message with both identities resolved for
// display.
type PrivateMessageView struct {
	domain.PrivateMessage
	Sender    UserSummary `json:"sender"`
	Recipient UserSummary `json:"recipient"`
}

// ConversationSummary is one row of a user's inbox listing.
type ConversationSummary struct {
	ID             uint        `json:"_id"`
	Member         UserSummary `json:"member"`
	Staff          UserSummary `json:"staff"`
	LastMessage    string      `json:"lastMessage"`
	LastActivityAt time.Time   `json:"lastActivityAt"`
	HasUnread      bool        `json:"hasUnread"`
}

// ConversationThread is a conversation together with its messages in
// sent order.
type ConversationThread struct {
	Conversation ConversationSummary  `json:"conversation"`
	Messages     []PrivateMessageView `json:"messages"`
}

// PrivateMessageService orchestrates 1:1 messaging between members and
// staff: authorization, conversation resolution, unread bookkeeping
// and persistence.
type PrivateMessageService struct {
	users         user.UserRepository
	conversations conversation.ConversationRepository
	messages      privatemessage.PrivateMessageRepository
	logger        Logger
}

func NewPrivateMessageService(
	users user.UserRepository,
	conversations conversation.ConversationRepository,
	messages privatemessage.PrivateMessageRepository,
	logger Logger,
) (*PrivateMessageService, error) {
	if users == nil || conversations == nil || messages == nil {
		return nil, errors.New("all repositories are required")
	}
	return &PrivateMessageService{
		users:         users,
		conversations: conversations,
		messages:      messages,
		logger:        logger,
	}, nil
}

// Send delivers a private message from sender to recipientID. The
// conversation between the pair is created on first contact; the
// recipient's unread counter goes up by one.
func (s *PrivateMessageService) Send(ctx context.Context, sender *domain.User, recipientID uint, text string) (*PrivateMessageView, error) {
	text = strings.TrimSpace(text)
	if recipientID == 0 || text == "" {
		return nil, fmt.Errorf("%w: recipient and message are required", ErrValidation)
	}
	if recipientID == sender.ID {
		return nil, fmt.Errorf("%w: cannot message yourself", ErrValidation)
	}

	recipient, err := s.users.FindByID(ctx, recipientID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: recipient %d", ErrNotFound, recipientID)
		}
		return nil, err
	}

	conv, err := s.resolveConversation(ctx, sender, recipientID)
	if err != nil {
		return nil, err
	}

	// Bookkeeping commits before the insert. If the insert below fails
	// the counter runs one high and lastMessage gets ahead until the
	// recipient's next mark-read.
	now := time.Now()
	if err := s.conversations.TouchLastMessage(ctx, conv.ID, text, now); err != nil {
		return nil, err
	}
	if err := s.conversations.IncrementUnread(ctx, conv.ID, recipientID); err != nil {
		return nil, err
	}

	msg := &domain.PrivateMessage{
		ConversationID: conv.ID,
		SenderID:       sender.ID,
		RecipientID:    recipientID,
		Text:           text,
		SentAt:         now,
	}
	msg, err = s.messages.Create(ctx, msg)
	if err != nil {
		return nil, err
	}

	s.logger.Info("private message sent",
		"conversation_id", conv.ID,
		"sender_id", sender.ID,
		"recipient_id", recipientID)

	view := &PrivateMessageView{
		PrivateMessage: *msg,
		Sender:         summarize(*sender),
		Recipient:      summarize(*recipient),
	}
	return view, nil
}

// ListConversations returns every conversation the user is part of,
// most recently active first, each flagged when the caller still has
// unread messages in it.
func (s *PrivateMessageService) ListConversations(ctx context.Context, u *domain.User) ([]ConversationSummary, error) {
	convs, err := s.conversations.FindAllForUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(convs)*2)
	for _, c := range convs {
		ids = append(ids, c.MemberID, c.StaffID)
	}
	directory, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	summaries := make([]ConversationSummary, 0, len(convs))
	for _, c := range convs {
		summaries = append(summaries, summarizeConversation(c, u.ID, directory))
	}
	return summaries, nil
}

// ConversationMessages returns the thread for a conversation the
// caller belongs to. Outsiders get a not-found, never a hint that the
// conversation exists.
func (s *PrivateMessageService) ConversationMessages(ctx context.Context, u *domain.User, conversationID uint) (*ConversationThread, error) {
	conv, err := s.conversations.FindByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, conversation.ErrConversationNotFound) {
			return nil, fmt.Errorf("%w: conversation %d", ErrNotFound, conversationID)
		}
		return nil, err
	}
	if !conv.HasParticipant(u.ID) {
		return nil, fmt.Errorf("%w: conversation %d", ErrNotFound, conversationID)
	}

	return s.buildThread(ctx, conv, u.ID)
}

// ResolveWithUser finds or lazily creates the conversation between the
// caller and otherID and returns it with its messages. Repeated calls
// from either side always land on the same conversation.
func (s *PrivateMessageService) ResolveWithUser(ctx context.Context, u *domain.User, otherID uint) (*ConversationThread, error) {
	if otherID == 0 || otherID == u.ID {
		return nil, fmt.Errorf("%w: a different user is required", ErrValidation)
	}
	if _, err := s.users.FindByID(ctx, otherID); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, otherID)
		}
		return nil, err
	}

	conv, err := s.resolveConversation(ctx, u, otherID)
	if err != nil {
		return nil, err
	}
	return s.buildThread(ctx, conv, u.ID)
}

// MarkRead resets the caller's unread counter for a conversation they
// belong to. The other party's counter is untouched.
func (s *PrivateMessageService) MarkRead(ctx context.Context, u *domain.User, conversationID uint) error {
	conv, err := s.conversations.FindByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, conversation.ErrConversationNotFound) {
			return fmt.Errorf("%w: conversation %d", ErrNotFound, conversationID)
		}
		return err
	}
	if !conv.HasParticipant(u.ID) {
		return fmt.Errorf("%w: conversation %d", ErrNotFound, conversationID)
	}

	return s.conversations.ResetUnread(ctx, conversationID, u.ID)
}

// DeleteMessage removes a private message. Only its sender may delete
// it; anyone else gets a not-found.
func (s *PrivateMessageService) DeleteMessage(ctx context.Context, u *domain.User, messageID uint) error {
	msg, err := s.messages.FindByIDAndSender(ctx, messageID, u.ID)
	if err != nil {
		if errors.Is(err, privatemessage.ErrMessageNotFound) {
			return fmt.Errorf("%w: message %d", ErrNotFound, messageID)
		}
		return err
	}
	return s.messages.Delete(ctx, msg.ID)
}

// UnreadTotal sums the caller's unread counters across all their
// conversations.
func (s *PrivateMessageService) UnreadTotal(ctx context.Context, u *domain.User) (int64, error) {
	return s.conversations.TotalUnread(ctx, u.ID)
}

// resolveConversation finds the conversation for the unordered pair
// {u, otherID}, creating it with zeroed counters on first contact. The
// sender's role decides which side is staff, but only at creation:
// an existing record keeps its original assignment.
func (s *PrivateMessageService) resolveConversation(ctx context.Context, u *domain.User, otherID uint) (*domain.Conversation, error) {
	conv, err := s.conversations.FindByPair(ctx, u.ID, otherID)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, conversation.ErrConversationNotFound) {
		return nil, err
	}

	assign := AssignRoles(u, otherID)
	conv = &domain.Conversation{
		MemberID:       assign.MemberID,
		StaffID:        assign.StaffID,
		LastMessage:    "",
		LastActivityAt: time.Now(),
	}
	created, err := s.conversations.Create(ctx, conv)
	if err != nil {
		return nil, err
	}

	s.logger.Info("conversation created",
		"conversation_id", created.ID,
		"member_id", created.MemberID,
		"staff_id", created.StaffID)
	return created, nil
}

func (s *PrivateMessageService) buildThread(ctx context.Context, conv *domain.Conversation, viewerID uint) (*ConversationThread, error) {
	msgs, err := s.messages.FindByConversation(ctx, conv.ID)
	if err != nil {
		return nil, err
	}

	ids := []uint{conv.MemberID, conv.StaffID}
	directory, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]PrivateMessageView, 0, len(msgs))
	for _, m := range msgs {
		views = append(views, PrivateMessageView{
			PrivateMessage: m,
			Sender:         summarize(directory[m.SenderID]),
			Recipient:      summarize(directory[m.RecipientID]),
		})
	}

	return &ConversationThread{
		Conversation: summarizeConversation(*conv, viewerID, directory),
		Messages:     views,
	}, nil
}

func summarize(u domain.User) UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Role: u.Role}
}

func summarizeConversation(c domain.Conversation, viewerID uint, directory map[uint]domain.User) ConversationSummary {
	hasUnread := false
	for _, counter := range c.Counters {
		if counter.UserID == viewerID && counter.Unread > 0 {
			hasUnread = true
			break
		}
	}
	return ConversationSummary{
		ID:             c.ID,
		Member:         summarize(directory[c.MemberID]),
		Staff:          summarize(directory[c.StaffID]),
		LastMessage:    c.LastMessage,
		LastActivityAt: c.LastActivityAt,
		HasUnread:      hasUnread,
	}
}
