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

// ticketNumberAttempts bounds the retry loop when concurrent creations race
// to the same derived number and the unique index rejects the loser.
const ticketNumberAttempts = 3

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets     repository.TicketRepository
	categories  repository.CategoryRepository
	departments repository.DepartmentRepository
	dispatcher  events.Dispatcher
}

// TicketDependencies bundles repositories for the ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	CategoryRepo   repository.CategoryRepository
	DepartmentRepo repository.DepartmentRepository
	Dispatcher     events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:     deps.TicketRepo,
		categories:  deps.CategoryRepo,
		departments: deps.DepartmentRepo,
		dispatcher:  deps.Dispatcher,
	}
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	CategoryID   string
	DepartmentID string
	Title        string
	Description  string
	Priority     domain.TicketPriority
}

// TicketUpdateInput describes a ticket mutation. Nil fields are untouched.
type TicketUpdateInput struct {
	CategoryID   *string
	DepartmentID *string
	Title        *string
	Description  *string
	Status       *domain.TicketStatus
	Priority     *domain.TicketPriority
}

// TicketListFilter describes listing filters.
type TicketListFilter struct {
	Statuses    []domain.TicketStatus
	Priorities  []domain.TicketPriority
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// CreateTicket creates a ticket for the actor, assigning the next
// sequential ticket number. The number is derived from the latest stored
// ticket, so two concurrent creations may compute the same value; the
// unique index rejects the loser and the creation re-derives and retries.
func (s *TicketService) CreateTicket(ctx context.Context, actor Actor, input TicketCreateInput) (*domain.Ticket, error) {
	if _, err := s.categories.GetByID(ctx, input.CategoryID); err != nil {
		return nil, apperrors.MapError(err)
	}
	if _, err := s.departments.GetByID(ctx, input.DepartmentID); err != nil {
		return nil, apperrors.MapError(err)
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityMedium
	}
	if !priority.Valid() {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": priority})
	}

	ticket := &domain.Ticket{
		CreatorID:    actor.UserID,
		CategoryID:   input.CategoryID,
		DepartmentID: input.DepartmentID,
		Title:        strings.TrimSpace(input.Title),
		Description:  strings.TrimSpace(input.Description),
		Status:       domain.TicketStatusOpen,
		Priority:     priority,
	}

	for attempt := 0; attempt < ticketNumberAttempts; attempt++ {
		latest, err := s.tickets.LatestTicketNumber(ctx)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		ticket.TicketNumber = NextTicketNumber(latest)

		err = s.tickets.Create(ctx, ticket)
		if err == nil {
			s.publish(ctx, events.Event{
				Type:      events.EventTicketCreated,
				TicketID:  ticket.ID,
				ActorID:   actor.UserID,
				Timestamp: time.Now(),
				Payload: events.TicketCreatedPayload{
					TicketNumber: ticket.TicketNumber,
					CategoryID:   ticket.CategoryID,
					DepartmentID: ticket.DepartmentID,
					Priority:     ticket.Priority,
					Title:        ticket.Title,
				},
			})
			return ticket, nil
		}
		if !apperrors.IsUniqueViolation(err, "") {
			return nil, apperrors.MapError(err)
		}
	}
	return nil, apperrors.NewConflict("could not assign a unique ticket number", map[string]any{
		"attempts": ticketNumberAttempts,
	})
}

// ListAllTickets returns tickets across all creators. Admin only; the
// handler enforces the role, the filter here is unscoped.
func (s *TicketService) ListAllTickets(ctx context.Context, filter TicketListFilter) ([]domain.Ticket, error) {
	tickets, err := s.tickets.List(ctx, repository.TicketFilter{
		Statuses:    filter.Statuses,
		Priorities:  filter.Priorities,
		CreatedFrom: filter.CreatedFrom,
		CreatedTo:   filter.CreatedTo,
		Limit:       filter.Limit,
		Offset:      filter.Offset,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// ListMyTickets returns tickets created by the actor.
func (s *TicketService) ListMyTickets(ctx context.Context, actor Actor, filter TicketListFilter) ([]domain.Ticket, error) {
	creatorID := actor.UserID
	tickets, err := s.tickets.List(ctx, repository.TicketFilter{
		CreatorID:   &creatorID,
		Statuses:    filter.Statuses,
		Priorities:  filter.Priorities,
		CreatedFrom: filter.CreatedFrom,
		CreatedTo:   filter.CreatedTo,
		Limit:       filter.Limit,
		Offset:      filter.Offset,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// GetTicket fetches a ticket visible to the actor: its creator or an admin.
func (s *TicketService) GetTicket(ctx context.Context, actor Actor, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !actor.Owns(ticket.CreatorID) && !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("not your ticket")
	}
	return ticket, nil
}

// UpdateTicket mutates a ticket. Permitted for the creator or an admin; any
// authorized updater may set any status/priority combination.
func (s *TicketService) UpdateTicket(ctx context.Context, actor Actor, ticketID string, input TicketUpdateInput) (*domain.Ticket, error) {
	ticket, err := s.GetTicket(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	oldStatus := ticket.Status

	if input.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *input.CategoryID); err != nil {
			return nil, apperrors.MapError(err)
		}
		ticket.CategoryID = *input.CategoryID
	}
	if input.DepartmentID != nil {
		if _, err := s.departments.GetByID(ctx, *input.DepartmentID); err != nil {
			return nil, apperrors.MapError(err)
		}
		ticket.DepartmentID = *input.DepartmentID
	}
	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, apperrors.NewValidationError("title cannot be empty", nil)
		}
		ticket.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		ticket.Description = strings.TrimSpace(*input.Description)
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": *input.Status})
		}
		ticket.Status = *input.Status
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": *input.Priority})
		}
		ticket.Priority = *input.Priority
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	if ticket.Status != oldStatus {
		s.publish(ctx, events.Event{
			Type:      events.EventTicketStatusChanged,
			TicketID:  ticket.ID,
			ActorID:   actor.UserID,
			Timestamp: time.Now(),
			Payload: events.TicketStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: ticket.Status,
			},
		})
	}
	return ticket, nil
}

// DeleteTicket removes a ticket. Permitted for the creator or an admin.
func (s *TicketService) DeleteTicket(ctx context.Context, actor Actor, ticketID string) error {
	if _, err := s.GetTicket(ctx, actor, ticketID); err != nil {
		return err
	}
	return apperrors.MapError(s.tickets.Delete(ctx, ticketID))
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
