package models

import "time"

// Message is a direct message. IsRead flips once, false to true.
type Message struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	SenderID   uint      `json:"senderId" gorm:"not null;index:idx_message_thread,priority:1"`
	ReceiverID uint      `json:"receiverId" gorm:"not null;index:idx_message_thread,priority:2;index"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	SentAt     time.Time `json:"sentAt" gorm:"not null;index"`
	IsRead     bool      `json:"isRead" gorm:"not null;default:false"`
}

// SendMessageRequest defines the request body for sending a direct message
type SendMessageRequest struct {
	ReceiverID uint   `json:"receiverId" validate:"required"`
	Content    string `json:"content" validate:"required,min=1,max=4000"`
}

// ChatUser is a counterpart in the caller's conversation list
type ChatUser struct {
	ID                uint   `json:"id"`
	Username          string `json:"username"`
	Email             string `json:"email"`
	ProfilePictureURL string `json:"profilePictureUrl,omitempty"`
	LastMessage       string `json:"lastMessage"`
}
