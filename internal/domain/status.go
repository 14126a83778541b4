package domain

import "fmt"

type BookingStatus string

const (
	BookingStatusPending       BookingStatus = "pending"
	BookingStatusApproved      BookingStatus = "approved"
	BookingStatusNeedsRevision BookingStatus = "needs_revision"
	BookingStatusAssigned      BookingStatus = "assigned"
	BookingStatusCompleted     BookingStatus = "completed"
	BookingStatusCancelled     BookingStatus = "cancelled"
)

func ParseBookingStatus(s string) (BookingStatus, error) {
	switch BookingStatus(s) {
	case BookingStatusPending, BookingStatusApproved, BookingStatusNeedsRevision,
		BookingStatusAssigned, BookingStatusCompleted, BookingStatusCancelled:
		return BookingStatus(s), nil
	default:
		return "", fmt.Errorf("unknown booking status: %s", s)
	}
}

// allowedTransitions is the whole lifecycle. A pair absent here is illegal,
// no exceptions: completed and cancelled have no outgoing edges, and the
// needs_revision self-edge covers an admin replacing a pending proposal.
var allowedTransitions = map[BookingStatus]map[BookingStatus]bool{
	BookingStatusPending: {
		BookingStatusApproved:      true,
		BookingStatusNeedsRevision: true,
		BookingStatusCancelled:     true,
	},
	BookingStatusNeedsRevision: {
		BookingStatusApproved:      true,
		BookingStatusNeedsRevision: true,
		BookingStatusCancelled:     true,
	},
	BookingStatusApproved: {
		BookingStatusAssigned:  true,
		BookingStatusCancelled: true,
	},
	BookingStatusAssigned: {
		BookingStatusCompleted: true,
		BookingStatusCancelled: true,
	},
	BookingStatusCompleted: {},
	BookingStatusCancelled: {},
}

func CanTransition(from, to BookingStatus) bool {
	next, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return next[to]
}

// Transition validates the move and stamps the new status, leaving the
// booking untouched when the move is illegal.
func (b *Booking) Transition(to BookingStatus) error {
	if !CanTransition(b.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, b.Status, to)
	}
	b.Status = to
	return nil
}
