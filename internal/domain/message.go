package domain

import "time"

// Message is a single entry in a ticket conversation thread. Only the
// original sender may update or delete it.
type Message struct {
	ID        string
	TicketID  string
	SenderID  string
	Body      string
	CreatedAt time.Time
}
