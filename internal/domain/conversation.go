// File: internal/domain/conversation.go
package domain

import "time"

// Conversation is the single thread between a regular member and a
// staff member. Exactly one conversation exists per unordered pair;
// which side is staff is fixed at creation time.
type Conversation struct {
	ID             uint                  `json:"_id" gorm:"primarykey"`
	MemberID       uint                  `json:"memberId" gorm:"not null;index:idx_conversation_pair"`
	StaffID        uint                  `json:"staffId" gorm:"not null;index:idx_conversation_pair"`
	LastMessage    string                `json:"lastMessage"`
	LastActivityAt time.Time             `json:"lastActivityAt" gorm:"index"`
	Counters       []ConversationCounter `json:"-" gorm:"foreignKey:ConversationID"`
	CreatedAt      time.Time             `json:"createdAt"`
}

// ConversationCounter holds one participant's pending-unread count for
// one conversation. A row exists for both participants from the moment
// the conversation is created.
type ConversationCounter struct {
	ID             uint `gorm:"primarykey"`
	ConversationID uint `gorm:"not null;uniqueIndex:idx_counter_conv_user"`
	UserID         uint `gorm:"not null;uniqueIndex:idx_counter_conv_user"`
	Unread         int  `gorm:"not null;default:0"`
}

// HasParticipant reports whether the given user is one of the two
// parties of the conversation.
func (c *Conversation) HasParticipant(userID uint) bool {
	return c.MemberID == userID || c.StaffID == userID
}
