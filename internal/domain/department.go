package domain

import "time"

// Department represents an organizational unit tickets are assigned to.
// Names are globally unique.
type Department struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
