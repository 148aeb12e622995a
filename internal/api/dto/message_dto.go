package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CreateMessageRequest payload.
type CreateMessageRequest struct {
	TicketID string `json:"ticket_id" validate:"required"`
	Body     string `json:"body" validate:"required"`
}

// UpdateMessageRequest payload.
type UpdateMessageRequest struct {
	Body string `json:"body" validate:"required"`
}

// MessageResponse is the public view of a thread message.
type MessageResponse struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	SenderID  string    `json:"sender_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// NewMessageResponse maps a domain message.
func NewMessageResponse(msg *domain.Message) MessageResponse {
	return MessageResponse{
		ID:        msg.ID,
		TicketID:  msg.TicketID,
		SenderID:  msg.SenderID,
		Body:      msg.Body,
		CreatedAt: msg.CreatedAt,
	}
}

// NewMessageResponses maps a slice of domain messages.
func NewMessageResponses(msgs []domain.Message) []MessageResponse {
	items := make([]MessageResponse, 0, len(msgs))
	for i := range msgs {
		items = append(items, NewMessageResponse(&msgs[i]))
	}
	return items
}
