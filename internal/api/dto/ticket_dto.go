package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	CategoryID   string                `json:"category_id" validate:"required"`
	DepartmentID string                `json:"department_id" validate:"required"`
	Title        string                `json:"title" validate:"required"`
	Description  string                `json:"description"`
	Priority     domain.TicketPriority `json:"priority,omitempty"`
}

// UpdateTicketRequest payload. Absent fields are untouched.
type UpdateTicketRequest struct {
	CategoryID   *string                `json:"category_id,omitempty"`
	DepartmentID *string                `json:"department_id,omitempty"`
	Title        *string                `json:"title,omitempty"`
	Description  *string                `json:"description,omitempty"`
	Status       *domain.TicketStatus   `json:"status,omitempty"`
	Priority     *domain.TicketPriority `json:"priority,omitempty"`
}

// TicketResponse is the public view of a ticket.
type TicketResponse struct {
	ID           string                `json:"id"`
	TicketNumber string                `json:"ticket_number"`
	CreatorID    string                `json:"creator_id"`
	CategoryID   string                `json:"category_id"`
	DepartmentID string                `json:"department_id"`
	Title        string                `json:"title"`
	Description  string                `json:"description"`
	Status       domain.TicketStatus   `json:"status"`
	Priority     domain.TicketPriority `json:"priority"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:           ticket.ID,
		TicketNumber: ticket.TicketNumber,
		CreatorID:    ticket.CreatorID,
		CategoryID:   ticket.CategoryID,
		DepartmentID: ticket.DepartmentID,
		Title:        ticket.Title,
		Description:  ticket.Description,
		Status:       ticket.Status,
		Priority:     ticket.Priority,
		CreatedAt:    ticket.CreatedAt,
		UpdatedAt:    ticket.UpdatedAt,
	}
}

// NewTicketResponses maps a slice of domain tickets.
func NewTicketResponses(tickets []domain.Ticket) []TicketResponse {
	items := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, NewTicketResponse(&tickets[i]))
	}
	return items
}
