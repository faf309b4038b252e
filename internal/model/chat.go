package model

import (
	"github.com/google/uuid"
)

// ChatMessage is one message between two users.
type ChatMessage struct {
	Base
	SenderID   uuid.UUID `db:"sender_id" json:"sender_id"`
	ReceiverID uuid.UUID `db:"receiver_id" json:"receiver_id"`
	Message    string    `db:"message" json:"message"`
}

type SendMessageRequest struct {
	ReceiverID uuid.UUID `json:"receiver_id" binding:"required"`
	Message    string    `json:"message" binding:"required,max=2000"`
}
