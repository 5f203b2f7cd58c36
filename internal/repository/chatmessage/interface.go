package chatmessage

import (
	"context"
	"time"

	"github.com/jvidalgz/go-gympulse/internal/domain"
)

// ChatMessageRepository handles the public chat log.
type ChatMessageRepository interface {
	Create(ctx context.Context, msg *domain.ChatMessage) (*domain.ChatMessage, error)
	FindByID(ctx context.Context, id uint) (*domain.ChatMessage, error)
	FindAllAscending(ctx context.Context) ([]domain.ChatMessage, error)
	UpdateText(ctx context.Context, id uint, text string) (*domain.ChatMessage, error)
	Delete(ctx context.Context, id uint) error
	DeleteAll(ctx context.Context) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
