package service

import (
	"context"
	"strings"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

const messagePreviewLen = 120

// MessageService manages ticket conversation threads. Posting touches the
// parent ticket's updated timestamp; editing and deleting are gated on the
// original sender.
type MessageService struct {
	messages   repository.MessageRepository
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
}

// NewMessageService builds the service.
func NewMessageService(messages repository.MessageRepository, tickets repository.TicketRepository, dispatcher events.Dispatcher) *MessageService {
	return &MessageService{messages: messages, tickets: tickets, dispatcher: dispatcher}
}

// Create posts a message to a ticket visible to the actor and refreshes the
// ticket's updated timestamp.
func (s *MessageService) Create(ctx context.Context, actor Actor, ticketID, body string) (*domain.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewValidationError("body required", nil)
	}
	if err := s.checkTicketAccess(ctx, actor, ticketID); err != nil {
		return nil, err
	}

	msg := &domain.Message{
		TicketID: ticketID,
		SenderID: actor.UserID,
		Body:     body,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.tickets.TouchUpdatedAt(ctx, ticketID); err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		preview := msg.Body
		if len(preview) > messagePreviewLen {
			preview = preview[:messagePreviewLen]
		}
		_ = s.dispatcher.Publish(ctx, events.Event{
			Type:      events.EventTicketMessageAdded,
			TicketID:  ticketID,
			ActorID:   actor.UserID,
			Timestamp: time.Now(),
			Payload: events.TicketMessageAddedPayload{
				MessageID:   msg.ID,
				SenderID:    msg.SenderID,
				BodyPreview: preview,
			},
		})
	}
	return msg, nil
}

// ListByTicket returns a ticket's thread in chronological order. The thread
// is visible to whoever can see the ticket.
func (s *MessageService) ListByTicket(ctx context.Context, actor Actor, ticketID string) ([]domain.Message, error) {
	if err := s.checkTicketAccess(ctx, actor, ticketID); err != nil {
		return nil, err
	}
	msgs, err := s.messages.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return msgs, nil
}

// Update edits a message body. Only the original sender may edit.
func (s *MessageService) Update(ctx context.Context, actor Actor, messageID, body string) (*domain.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewValidationError("body required", nil)
	}

	msg, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !actor.Owns(msg.SenderID) {
		return nil, apperrors.NewForbidden("not your message")
	}

	msg.Body = body
	if err := s.messages.Update(ctx, msg); err != nil {
		return nil, apperrors.MapError(err)
	}
	return msg, nil
}

// Delete removes a message. Only the original sender may delete.
func (s *MessageService) Delete(ctx context.Context, actor Actor, messageID string) error {
	msg, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if !actor.Owns(msg.SenderID) {
		return apperrors.NewForbidden("not your message")
	}
	return apperrors.MapError(s.messages.Delete(ctx, messageID))
}

func (s *MessageService) checkTicketAccess(ctx context.Context, actor Actor, ticketID string) error {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if !actor.Owns(ticket.CreatorID) && !actor.IsAdmin() {
		return apperrors.NewForbidden("not your ticket")
	}
	return nil
}
