package privatemessage

import (
	"context"

	"github.com/jvidalgz/go-gympulse/internal/domain"
)

// PrivateMessageRepository handles the messages inside conversations.
type PrivateMessageRepository interface {
	Create(ctx context.Context, msg *domain.PrivateMessage) (*domain.PrivateMessage, error)
	FindByConversation(ctx context.Context, conversationID uint) ([]domain.PrivateMessage, error)
	FindByIDAndSender(ctx context.Context, id, senderID uint) (*domain.PrivateMessage, error)
	Delete(ctx context.Context, id uint) error
}
