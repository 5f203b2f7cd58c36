package conversation

import (
	"context"
	"time"

	"github.com/jvidalgz/go-gympulse/internal/domain"
)

// ConversationRepository handles conversation records and their
// per-participant unread counters.
type ConversationRepository interface {
	FindByPair(ctx context.Context, userA, userB uint) (*domain.Conversation, error)
	Create(ctx context.Context, conv *domain.Conversation) (*domain.Conversation, error)
	FindByID(ctx context.Context, id uint) (*domain.Conversation, error)
	FindAllForUser(ctx context.Context, userID uint) ([]domain.Conversation, error)
	TouchLastMessage(ctx context.Context, id uint, text string, at time.Time) error
	IncrementUnread(ctx context.Context, conversationID, userID uint) error
	ResetUnread(ctx context.Context, conversationID, userID uint) error
	TotalUnread(ctx context.Context, userID uint) (int64, error)
}
