package service

import (
	"context"
	"errors"
	"testing"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

func assertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("error %v is not a DomainError", err)
	}
	if domainErr.Code != code {
		t.Fatalf("error code = %q, want %q (message: %s)", domainErr.Code, code, domainErr.Message)
	}
}

type ticketFixture struct {
	service    *TicketService
	tickets    *fakeTicketRepo
	dispatcher events.Dispatcher
}

func newTicketFixture() *ticketFixture {
	tickets := newFakeTicketRepo()
	dispatcher := events.NewInMemoryDispatcher()
	svc := NewTicketService(TicketDependencies{
		TicketRepo:     tickets,
		CategoryRepo:   newFakeCategoryRepo("cat-1"),
		DepartmentRepo: newFakeDepartmentRepo("dept-1"),
		Dispatcher:     dispatcher,
	})
	return &ticketFixture{service: svc, tickets: tickets, dispatcher: dispatcher}
}

func validTicketInput() TicketCreateInput {
	return TicketCreateInput{
		CategoryID:   "cat-1",
		DepartmentID: "dept-1",
		Title:        "printer on fire",
		Description:  "it is very much on fire",
	}
}

var creator = Actor{UserID: "user-1", Email: "jane@example.com", Role: domain.RoleUser}
var stranger = Actor{UserID: "user-2", Email: "john@example.com", Role: domain.RoleUser}
var admin = Actor{UserID: "user-9", Email: "root@example.com", Role: domain.RoleAdmin}

func TestCreateTicketAssignsSequentialNumbers(t *testing.T) {
	fx := newTicketFixture()
	ctx := context.Background()

	first, err := fx.service.CreateTicket(ctx, creator, validTicketInput())
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}
	if first.TicketNumber != "TKT0001" {
		t.Errorf("first ticket number = %q, want TKT0001", first.TicketNumber)
	}
	if first.Status != domain.TicketStatusOpen {
		t.Errorf("status = %q, want open", first.Status)
	}
	if first.Priority != domain.TicketPriorityMedium {
		t.Errorf("priority = %q, want default medium", first.Priority)
	}

	second, err := fx.service.CreateTicket(ctx, creator, validTicketInput())
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}
	if second.TicketNumber != "TKT0002" {
		t.Errorf("second ticket number = %q, want TKT0002", second.TicketNumber)
	}
}

func TestCreateTicketRetriesOnNumberConflict(t *testing.T) {
	fx := newTicketFixture()
	ctx := context.Background()

	if _, err := fx.service.CreateTicket(ctx, creator, validTicketInput()); err != nil {
		t.Fatalf("seed ticket: %v", err)
	}
	if _, err := fx.service.CreateTicket(ctx, creator, validTicketInput()); err != nil {
		t.Fatalf("seed ticket: %v", err)
	}

	// A concurrent writer already took TKT0002: the first derivation reads
	// the stale latest, collides, and the retry re-derives from the truth.
	fx.tickets.staleLatest = []string{"TKT0001"}

	ticket, err := fx.service.CreateTicket(ctx, creator, validTicketInput())
	if err != nil {
		t.Fatalf("CreateTicket after stale read: %v", err)
	}
	if ticket.TicketNumber != "TKT0003" {
		t.Errorf("ticket number = %q, want TKT0003", ticket.TicketNumber)
	}
}

func TestCreateTicketGivesUpAfterRepeatedConflicts(t *testing.T) {
	fx := newTicketFixture()
	ctx := context.Background()

	if _, err := fx.service.CreateTicket(ctx, creator, validTicketInput()); err != nil {
		t.Fatalf("seed ticket: %v", err)
	}

	// Every derivation reads a stale latest whose successor is taken.
	fx.tickets.staleLatest = []string{"", "", ""}

	_, err := fx.service.CreateTicket(ctx, creator, validTicketInput())
	assertErrorCode(t, err, "CONFLICT")
}

func TestCreateTicketUnknownCategory(t *testing.T) {
	fx := newTicketFixture()
	input := validTicketInput()
	input.CategoryID = "cat-missing"

	_, err := fx.service.CreateTicket(context.Background(), creator, input)
	assertErrorCode(t, err, "NOT_FOUND")
}

func TestCreateTicketInvalidPriority(t *testing.T) {
	fx := newTicketFixture()
	input := validTicketInput()
	input.Priority = domain.TicketPriority("extreme")

	_, err := fx.service.CreateTicket(context.Background(), creator, input)
	assertErrorCode(t, err, "VALIDATION_FAILED")
}

func TestGetTicketVisibility(t *testing.T) {
	fx := newTicketFixture()
	ctx := context.Background()

	ticket, err := fx.service.CreateTicket(ctx, creator, validTicketInput())
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}

	if _, err := fx.service.GetTicket(ctx, creator, ticket.ID); err != nil {
		t.Errorf("creator GetTicket: %v", err)
	}
	if _, err := fx.service.GetTicket(ctx, admin, ticket.ID); err != nil {
		t.Errorf("admin GetTicket: %v", err)
	}

	_, err = fx.service.GetTicket(ctx, stranger, ticket.ID)
	assertErrorCode(t, err, "FORBIDDEN")
}

func TestUpdateTicketStatusChangePublishesEvent(t *testing.T) {
	fx := newTicketFixture()
	ctx := context.Background()

	var published []events.Event
	fx.dispatcher.Subscribe(events.EventTicketStatusChanged, func(_ context.Context, e events.Event) error {
		published = append(published, e)
		return nil
	})

	ticket, err := fx.service.CreateTicket(ctx, creator, validTicketInput())
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}

	resolved := domain.TicketStatusResolved
	updated, err := fx.service.UpdateTicket(ctx, creator, ticket.ID, TicketUpdateInput{Status: &resolved})
	if err != nil {
		t.Fatalf("UpdateTicket: %v", err)
	}
	if updated.Status != domain.TicketStatusResolved {
		t.Errorf("status = %q, want resolved", updated.Status)
	}
	if len(published) != 1 {
		t.Fatalf("published %d status events, want 1", len(published))
	}
	payload, ok := published[0].Payload.(events.TicketStatusChangedPayload)
	if !ok {
		t.Fatalf("payload type %T", published[0].Payload)
	}
	if payload.OldStatus != domain.TicketStatusOpen || payload.NewStatus != domain.TicketStatusResolved {
		t.Errorf("payload = %+v", payload)
	}

	// An update leaving the status alone publishes nothing further.
	title := "still on fire"
	if _, err := fx.service.UpdateTicket(ctx, creator, ticket.ID, TicketUpdateInput{Title: &title}); err != nil {
		t.Fatalf("UpdateTicket: %v", err)
	}
	if len(published) != 1 {
		t.Errorf("published %d status events after title-only update, want 1", len(published))
	}
}

func TestUpdateTicketInvalidStatus(t *testing.T) {
	fx := newTicketFixture()
	ctx := context.Background()

	ticket, err := fx.service.CreateTicket(ctx, creator, validTicketInput())
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}

	bogus := domain.TicketStatus("reopened")
	_, err = fx.service.UpdateTicket(ctx, creator, ticket.ID, TicketUpdateInput{Status: &bogus})
	assertErrorCode(t, err, "VALIDATION_FAILED")
}

func TestUpdateTicketKeepsNumberImmutable(t *testing.T) {
	fx := newTicketFixture()
	ctx := context.Background()

	ticket, err := fx.service.CreateTicket(ctx, creator, validTicketInput())
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}

	title := "renamed"
	updated, err := fx.service.UpdateTicket(ctx, creator, ticket.ID, TicketUpdateInput{Title: &title})
	if err != nil {
		t.Fatalf("UpdateTicket: %v", err)
	}
	if updated.TicketNumber != ticket.TicketNumber {
		t.Errorf("ticket number changed from %q to %q", ticket.TicketNumber, updated.TicketNumber)
	}
}

func TestDeleteTicketOwnership(t *testing.T) {
	fx := newTicketFixture()
	ctx := context.Background()

	ticket, err := fx.service.CreateTicket(ctx, creator, validTicketInput())
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}

	err = fx.service.DeleteTicket(ctx, stranger, ticket.ID)
	assertErrorCode(t, err, "FORBIDDEN")

	if err := fx.service.DeleteTicket(ctx, creator, ticket.ID); err != nil {
		t.Fatalf("creator DeleteTicket: %v", err)
	}
	_, err = fx.service.GetTicket(ctx, creator, ticket.ID)
	assertErrorCode(t, err, "NOT_FOUND")
}

func TestListMyTicketsScopesToActor(t *testing.T) {
	fx := newTicketFixture()
	ctx := context.Background()

	if _, err := fx.service.CreateTicket(ctx, creator, validTicketInput()); err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}
	if _, err := fx.service.CreateTicket(ctx, stranger, validTicketInput()); err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}

	mine, err := fx.service.ListMyTickets(ctx, creator, TicketListFilter{})
	if err != nil {
		t.Fatalf("ListMyTickets: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("ListMyTickets returned %d tickets, want 1", len(mine))
	}
	if mine[0].CreatorID != creator.UserID {
		t.Errorf("creator = %q, want %q", mine[0].CreatorID, creator.UserID)
	}

	all, err := fx.service.ListAllTickets(ctx, TicketListFilter{})
	if err != nil {
		t.Fatalf("ListAllTickets: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("ListAllTickets returned %d tickets, want 2", len(all))
	}
}
