// File: internal/repository/conversation/conversation_repository.go
package conversation

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/jvidalgz/go-gympulse/internal/domain"
	"gorm.io/gorm"
)

var ErrConversationNotFound = errors.New("conversation not found")

type gormConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &gormConversationRepository{db: db}
}

// FindByPair looks a conversation up by its two participants in either
// stored order. The pair is unordered for lookup even though the
// member/staff sides are fixed once the record exists.
func (r *gormConversationRepository) FindByPair(ctx context.Context, userA, userB uint) (*domain.Conversation, error) {
	if userA == 0 || userB == 0 {
		return nil, errors.New("invalid participant ID")
	}

	var conv domain.Conversation
	err := r.db.WithContext(ctx).
		Preload("Counters").
		Where("(member_id = ? AND staff_id = ?) OR (member_id = ? AND staff_id = ?)",
			userA, userB, userB, userA).
		First(&conv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		log.Printf("[ConversationRepository] Database error finding pair (%d,%d): %v", userA, userB, err)
		return nil, errors.New("database query failed")
	}
	return &conv, nil
}

// Create stores a new conversation together with one zeroed counter
// row per participant, all inside a transaction.
func (r *gormConversationRepository) Create(ctx context.Context, conv *domain.Conversation) (*domain.Conversation, error) {
	if conv == nil {
		return nil, errors.New("conversation cannot be nil")
	}
	if conv.MemberID == 0 || conv.StaffID == 0 {
		return nil, errors.New("both participants are required")
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(conv).Error; err != nil {
			return err
		}
		counters := []domain.ConversationCounter{
			{ConversationID: conv.ID, UserID: conv.MemberID, Unread: 0},
			{ConversationID: conv.ID, UserID: conv.StaffID, Unread: 0},
		}
		if err := tx.Create(&counters).Error; err != nil {
			return err
		}
		conv.Counters = counters
		return nil
	})
	if err != nil {
		log.Printf("[ConversationRepository] Database error creating conversation for pair (%d,%d): %v",
			conv.MemberID, conv.StaffID, err)
		return nil, errors.New("database error creating conversation")
	}
	return conv, nil
}

func (r *gormConversationRepository) FindByID(ctx context.Context, id uint) (*domain.Conversation, error) {
	if id == 0 {
		return nil, errors.New("invalid conversation ID")
	}

	var conv domain.Conversation
	err := r.db.WithContext(ctx).Preload("Counters").First(&conv, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		log.Printf("[ConversationRepository] Database error finding conversation ID %d: %v", id, err)
		return nil, errors.New("database query failed")
	}
	return &conv, nil
}

func (r *gormConversationRepository) FindAllForUser(ctx context.Context, userID uint) ([]domain.Conversation, error) {
	if userID == 0 {
		return nil, errors.New("invalid user ID")
	}

	var convs []domain.Conversation
	err := r.db.WithContext(ctx).
		Preload("Counters").
		Where("member_id = ? OR staff_id = ?", userID, userID).
		Order("last_activity_at DESC, id DESC").
		Find(&convs).Error
	if err != nil {
		log.Printf("[ConversationRepository] Database error listing conversations for user ID %d: %v", userID, err)
		return nil, errors.New("database error fetching conversations")
	}
	return convs, nil
}

func (r *gormConversationRepository) TouchLastMessage(ctx context.Context, id uint, text string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Conversation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_message":     text,
			"last_activity_at": at,
		})
	if result.Error != nil {
		log.Printf("[ConversationRepository] Database error touching conversation ID %d: %v", id, result.Error)
		return errors.New("database error updating conversation")
	}
	if result.RowsAffected == 0 {
		return ErrConversationNotFound
	}
	return nil
}

// IncrementUnread bumps one participant's pending count by one. The
// bump is a single UPDATE expression so concurrent sends to the same
// conversation never lose increments. A missing counter row (a record
// predating counter bookkeeping) is inserted starting at 1.
func (r *gormConversationRepository) IncrementUnread(ctx context.Context, conversationID, userID uint) error {
	result := r.db.WithContext(ctx).
		Model(&domain.ConversationCounter{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Update("unread", gorm.Expr("unread + ?", 1))
	if result.Error != nil {
		log.Printf("[ConversationRepository] Database error incrementing unread for conversation %d, user %d: %v",
			conversationID, userID, result.Error)
		return errors.New("database error updating unread counter")
	}
	if result.RowsAffected == 0 {
		counter := domain.ConversationCounter{
			ConversationID: conversationID,
			UserID:         userID,
			Unread:         1,
		}
		if err := r.db.WithContext(ctx).Create(&counter).Error; err != nil {
			log.Printf("[ConversationRepository] Database error inserting unread counter for conversation %d, user %d: %v",
				conversationID, userID, err)
			return errors.New("database error creating unread counter")
		}
	}
	return nil
}

func (r *gormConversationRepository) ResetUnread(ctx context.Context, conversationID, userID uint) error {
	err := r.db.WithContext(ctx).
		Model(&domain.ConversationCounter{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Update("unread", 0).Error
	if err != nil {
		log.Printf("[ConversationRepository] Database error resetting unread for conversation %d, user %d: %v",
			conversationID, userID, err)
		return errors.New("database error resetting unread counter")
	}
	return nil
}

// TotalUnread sums the user's pending counts across every conversation
// they belong to.
func (r *gormConversationRepository) TotalUnread(ctx context.Context, userID uint) (int64, error) {
	if userID == 0 {
		return 0, errors.New("invalid user ID")
	}

	var total int64
	err := r.db.WithContext(ctx).
		Model(&domain.ConversationCounter{}).
		Select("COALESCE(SUM(unread), 0)").
		Where("user_id = ?", userID).
		Scan(&total).Error
	if err != nil {
		log.Printf("[ConversationRepository] Database error summing unread for user ID %d: %v", userID, err)
		return 0, errors.New("database error counting unread messages")
	}
	return total, nil
}
