// File: internal/repository/chatmessage/chat_message_repository.go
package chatmessage

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/jvidalgz/go-gympulse/internal/domain"
	"gorm.io/gorm"
)

var ErrMessageNotFound = errors.New("chat message not found")

type gormChatMessageRepository struct {
	db *gorm.DB
}

func NewChatMessageRepository(db *gorm.DB) ChatMessageRepository {
	return &gormChatMessageRepository{db: db}
}

func (r *gormChatMessageRepository) Create(ctx context.Context, msg *domain.ChatMessage) (*domain.ChatMessage, error) {
	if msg == nil {
		return nil, errors.New("message cannot be nil")
	}
	if strings.TrimSpace(msg.Text) == "" {
		return nil, errors.New("message text is required")
	}

	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		log.Printf("[ChatMessageRepository] Database error creating message: %v", err)
		return nil, errors.New("database error creating message")
	}
	return msg, nil
}

func (r *gormChatMessageRepository) FindByID(ctx context.Context, id uint) (*domain.ChatMessage, error) {
	if id == 0 {
		return nil, errors.New("invalid message ID")
	}

	var msg domain.ChatMessage
	err := r.db.WithContext(ctx).First(&msg, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		log.Printf("[ChatMessageRepository] Database error finding message ID %d: %v", id, err)
		return nil, errors.New("database query failed")
	}
	return &msg, nil
}

// FindAllAscending returns the whole retained history in creation
// order. Ties on created_at fall back to the sequential id, so replay
// order always matches insertion order.
func (r *gormChatMessageRepository) FindAllAscending(ctx context.Context) ([]domain.ChatMessage, error) {
	var messages []domain.ChatMessage
	err := r.db.WithContext(ctx).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		log.Printf("[ChatMessageRepository] Database error listing messages: %v", err)
		return nil, errors.New("database error fetching messages")
	}
	return messages, nil
}

func (r *gormChatMessageRepository) UpdateText(ctx context.Context, id uint, text string) (*domain.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("message text is required")
	}

	result := r.db.WithContext(ctx).
		Model(&domain.ChatMessage{}).
		Where("id = ?", id).
		Update("text", strings.TrimSpace(text))
	if result.Error != nil {
		log.Printf("[ChatMessageRepository] Database error updating message ID %d: %v", id, result.Error)
		return nil, errors.New("database error updating message")
	}
	if result.RowsAffected == 0 {
		return nil, ErrMessageNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *gormChatMessageRepository) Delete(ctx context.Context, id uint) error {
	if id == 0 {
		return errors.New("invalid message ID")
	}

	result := r.db.WithContext(ctx).Delete(&domain.ChatMessage{}, id)
	if result.Error != nil {
		log.Printf("[ChatMessageRepository] Database error deleting message ID %d: %v", id, result.Error)
		return errors.New("database error deleting message")
	}
	if result.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}

func (r *gormChatMessageRepository) DeleteAll(ctx context.Context) error {
	err := r.db.WithContext(ctx).Where("1 = 1").Delete(&domain.ChatMessage{}).Error
	if err != nil {
		log.Printf("[ChatMessageRepository] Database error wiping chat history: %v", err)
		return errors.New("database error deleting messages")
	}
	return nil
}

// DeleteOlderThan removes every message created before cutoff and
// returns how many rows went away. Runs as one statement so a prune
// racing a concurrent insert never loses the new message.
func (r *gormChatMessageRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&domain.ChatMessage{})
	if result.Error != nil {
		log.Printf("[ChatMessageRepository] Database error pruning messages before %v: %v", cutoff, result.Error)
		return 0, errors.New("database error pruning messages")
	}
	return result.RowsAffected, nil
}
