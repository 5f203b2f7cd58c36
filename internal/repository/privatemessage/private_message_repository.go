// File: internal/repository/privatemessage/private_message_repository.go
package privatemessage

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/jvidalgz/go-gympulse/internal/domain"
	"gorm.io/gorm"
)

var ErrMessageNotFound = errors.New("private message not found")

type gormPrivateMessageRepository struct {
	db *gorm.DB
}

func NewPrivateMessageRepository(db *gorm.DB) PrivateMessageRepository {
	return &gormPrivateMessageRepository{db: db}
}

func (r *gormPrivateMessageRepository) Create(ctx context.Context, msg *domain.PrivateMessage) (*domain.PrivateMessage, error) {
	if msg == nil {
		return nil, errors.New("message cannot be nil")
	}
	if msg.ConversationID == 0 || msg.SenderID == 0 || msg.RecipientID == 0 {
		return nil, errors.New("conversation, sender and recipient are required")
	}
	if strings.TrimSpace(msg.Text) == "" {
		return nil, errors.New("message text is required")
	}

	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		log.Printf("[PrivateMessageRepository] Database error creating message in conversation %d: %v",
			msg.ConversationID, err)
		return nil, errors.New("database error creating message")
	}
	return msg, nil
}

func (r *gormPrivateMessageRepository) FindByConversation(ctx context.Context, conversationID uint) ([]domain.PrivateMessage, error) {
	if conversationID == 0 {
		return nil, errors.New("invalid conversation ID")
	}

	var messages []domain.PrivateMessage
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("sent_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		log.Printf("[PrivateMessageRepository] Database error listing messages for conversation %d: %v",
			conversationID, err)
		return nil, errors.New("database error fetching messages")
	}
	return messages, nil
}

// FindByIDAndSender loads a message only if senderID wrote it, so the
// ownership check and the lookup are one query.
func (r *gormPrivateMessageRepository) FindByIDAndSender(ctx context.Context, id, senderID uint) (*domain.PrivateMessage, error) {
	if id == 0 || senderID == 0 {
		return nil, errors.New("invalid message or sender ID")
	}

	var msg domain.PrivateMessage
	err := r.db.WithContext(ctx).
		Where("id = ? AND sender_id = ?", id, senderID).
		First(&msg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		log.Printf("[PrivateMessageRepository] Database error finding message ID %d: %v", id, err)
		return nil, errors.New("database query failed")
	}
	return &msg, nil
}

func (r *gormPrivateMessageRepository) Delete(ctx context.Context, id uint) error {
	if id == 0 {
		return errors.New("invalid message ID")
	}

	result := r.db.WithContext(ctx).Delete(&domain.PrivateMessage{}, id)
	if result.Error != nil {
		log.Printf("[PrivateMessageRepository] Database error deleting message ID %d: %v", id, result.Error)
		return errors.New("database error deleting message")
	}
	if result.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}
