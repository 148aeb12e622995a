package service

import (
	"fmt"
	"regexp"
	"strconv"
)

const (
	ticketNumberPrefix    = "TKT"
	ticketNumberMinDigits = 4
)

var ticketNumberPattern = regexp.MustCompile(`^TKT(\d+)$`)

// NextTicketNumber derives the successor of the most recently assigned
// ticket number. An empty or unparseable input restarts the sequence at
// TKT0001. Width is fixed at four digits and grows past 9999.
func NextTicketNumber(last string) string {
	next := 1
	if match := ticketNumberPattern.FindStringSubmatch(last); match != nil {
		if parsed, err := strconv.Atoi(match[1]); err == nil {
			next = parsed + 1
		}
	}
	return fmt.Sprintf("%s%0*d", ticketNumberPrefix, ticketNumberMinDigits, next)
}
