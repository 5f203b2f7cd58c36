// File: internal/domain/private_message.go
package domain

import "time"

// PrivateMessage is a 1:1 message inside a conversation. Messages are
// immutable after creation; only the sender may delete one.
//
// Read is a leftover column kept for schema compatibility: unread
// state is tracked on the conversation counters, never per message.
type PrivateMessage struct {
	ID             uint      `json:"_id" gorm:"primarykey"`
	ConversationID uint      `json:"conversationId" gorm:"not null;index"`
	SenderID       uint      `json:"senderId" gorm:"not null;index"`
	RecipientID    uint      `json:"recipientId" gorm:"not null"`
	Text           string    `json:"text" gorm:"not null"`
	SentAt         time.Time `json:"sentAt" gorm:"index"`
	Read           bool      `json:"read" gorm:"not null;default:false"`
}
