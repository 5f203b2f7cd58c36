// File: internal/domain/chat_message.go
package domain

import "time"

// ChatMessage is a single entry in the public gym chat. Author fields
// are optional: the chat also accepts anonymous messages sent before a
// client has identified itself. UserID is kept denormalized as a
// string because it travels to and from the browser inside socket
// payloads.
type ChatMessage struct {
	ID        uint      `json:"_id" gorm:"primarykey"`
	Text      string    `json:"text" gorm:"not null"`
	UserID    string    `json:"userId,omitempty" gorm:"index"`
	UserName  string    `json:"userName,omitempty"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
}
