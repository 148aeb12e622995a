package service

import (
	"context"
	"strings"
	"testing"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
)

type messageFixture struct {
	service  *MessageService
	tickets  *fakeTicketRepo
	ticketID string
}

func newMessageFixture(t *testing.T) *messageFixture {
	t.Helper()
	tickets := newFakeTicketRepo()
	ticket := &domain.Ticket{
		TicketNumber: "TKT0001",
		CreatorID:    creator.UserID,
		CategoryID:   "cat-1",
		DepartmentID: "dept-1",
		Title:        "printer on fire",
		Status:       domain.TicketStatusOpen,
		Priority:     domain.TicketPriorityMedium,
	}
	if err := tickets.Create(context.Background(), ticket); err != nil {
		t.Fatalf("seed ticket: %v", err)
	}
	svc := NewMessageService(newFakeMessageRepo(), tickets, events.NewInMemoryDispatcher())
	return &messageFixture{service: svc, tickets: tickets, ticketID: ticket.ID}
}

func TestCreateMessageTouchesTicket(t *testing.T) {
	fx := newMessageFixture(t)
	ctx := context.Background()

	msg, err := fx.service.Create(ctx, admin, fx.ticketID, "  have you tried water?  ")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if msg.Body != "have you tried water?" {
		t.Errorf("body = %q, want trimmed", msg.Body)
	}
	if msg.SenderID != admin.UserID {
		t.Errorf("sender = %q, want %q", msg.SenderID, admin.UserID)
	}
	if fx.tickets.touched[fx.ticketID] != 1 {
		t.Errorf("ticket touched %d times, want 1", fx.tickets.touched[fx.ticketID])
	}
}

func TestCreateMessageRequiresTicketVisibility(t *testing.T) {
	fx := newMessageFixture(t)
	_, err := fx.service.Create(context.Background(), stranger, fx.ticketID, "hello")
	assertErrorCode(t, err, "FORBIDDEN")
}

func TestCreateMessageRequiresBody(t *testing.T) {
	fx := newMessageFixture(t)
	_, err := fx.service.Create(context.Background(), creator, fx.ticketID, "   ")
	assertErrorCode(t, err, "VALIDATION_FAILED")
}

func TestCreateMessageUnknownTicket(t *testing.T) {
	fx := newMessageFixture(t)
	_, err := fx.service.Create(context.Background(), creator, "ticket-missing", "hello")
	assertErrorCode(t, err, "NOT_FOUND")
}

func TestCreateMessagePublishesPreview(t *testing.T) {
	tickets := newFakeTicketRepo()
	ticket := &domain.Ticket{TicketNumber: "TKT0001", CreatorID: creator.UserID}
	if err := tickets.Create(context.Background(), ticket); err != nil {
		t.Fatalf("seed ticket: %v", err)
	}
	dispatcher := events.NewInMemoryDispatcher()
	svc := NewMessageService(newFakeMessageRepo(), tickets, dispatcher)

	var published []events.Event
	dispatcher.Subscribe(events.EventTicketMessageAdded, func(_ context.Context, e events.Event) error {
		published = append(published, e)
		return nil
	})

	long := strings.Repeat("x", 500)
	if _, err := svc.Create(context.Background(), creator, ticket.ID, long); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(published) != 1 {
		t.Fatalf("published %d events, want 1", len(published))
	}
	payload, ok := published[0].Payload.(events.TicketMessageAddedPayload)
	if !ok {
		t.Fatalf("payload type %T", published[0].Payload)
	}
	if len(payload.BodyPreview) != messagePreviewLen {
		t.Errorf("preview length = %d, want %d", len(payload.BodyPreview), messagePreviewLen)
	}
}

func TestListMessagesByTicket(t *testing.T) {
	fx := newMessageFixture(t)
	ctx := context.Background()

	if _, err := fx.service.Create(ctx, creator, fx.ticketID, "first"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := fx.service.Create(ctx, admin, fx.ticketID, "second"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err := fx.service.ListByTicket(ctx, stranger, fx.ticketID)
	assertErrorCode(t, err, "FORBIDDEN")

	msgs, err := fx.service.ListByTicket(ctx, creator, fx.ticketID)
	if err != nil {
		t.Fatalf("ListByTicket: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[0].Body != "first" || msgs[1].Body != "second" {
		t.Errorf("messages out of order: %q, %q", msgs[0].Body, msgs[1].Body)
	}

	_, err = fx.service.ListByTicket(ctx, creator, "ticket-missing")
	assertErrorCode(t, err, "NOT_FOUND")
}

func TestUpdateMessageSenderOnly(t *testing.T) {
	fx := newMessageFixture(t)
	ctx := context.Background()

	msg, err := fx.service.Create(ctx, creator, fx.ticketID, "original")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = fx.service.Update(ctx, stranger, msg.ID, "defaced")
	assertErrorCode(t, err, "FORBIDDEN")

	// Admin role grants no edit rights over someone else's words.
	_, err = fx.service.Update(ctx, admin, msg.ID, "defaced")
	assertErrorCode(t, err, "FORBIDDEN")

	updated, err := fx.service.Update(ctx, creator, msg.ID, "amended")
	if err != nil {
		t.Fatalf("sender Update: %v", err)
	}
	if updated.Body != "amended" {
		t.Errorf("body = %q", updated.Body)
	}
}

func TestDeleteMessageSenderOnly(t *testing.T) {
	fx := newMessageFixture(t)
	ctx := context.Background()

	msg, err := fx.service.Create(ctx, creator, fx.ticketID, "oops")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	err = fx.service.Delete(ctx, stranger, msg.ID)
	assertErrorCode(t, err, "FORBIDDEN")

	if err := fx.service.Delete(ctx, creator, msg.ID); err != nil {
		t.Fatalf("sender Delete: %v", err)
	}
	err = fx.service.Delete(ctx, creator, msg.ID)
	assertErrorCode(t, err, "NOT_FOUND")
}
