// Package seating holds the guest/table state machines and the rules
// for pairing a guest with a table. Everything here is pure: no I/O,
// no hidden state, so the rules can be tested without a database.
package seating

import (
	"fmt"

	"github.com/hostsuite/frontdesk/models"
)

// guestTransitions maps a guest status to the statuses it may move to.
// completed is terminal.
var guestTransitions = map[string][]string{
	models.GuestWaiting:   {models.GuestReserved, models.GuestSeated, models.GuestCompleted},
	models.GuestReserved:  {models.GuestSeated, models.GuestCompleted},
	models.GuestSeated:    {models.GuestCompleted},
	models.GuestCompleted: {},
}

// tableTransitions maps a table status to the statuses it may move to.
var tableTransitions = map[string][]string{
	models.TableAvailable: {models.TableReserved, models.TableOccupied},
	models.TableReserved:  {models.TableAvailable, models.TableOccupied},
	models.TableOccupied:  {models.TableCleaning},
	models.TableCleaning:  {models.TableAvailable},
}

// GuestCanMove reports whether a guest may go from -> to.
func GuestCanMove(from, to string) bool {
	return canMove(guestTransitions, from, to)
}

// TableCanMove reports whether a table may go from -> to.
func TableCanMove(from, to string) bool {
	return canMove(tableTransitions, from, to)
}

func canMove(transitions map[string][]string, from, to string) bool {
	allowed, ok := transitions[from]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == to {
			return true
		}
	}
	return false
}

// ValidGuestStatus reports whether s is a known guest status.
func ValidGuestStatus(s string) bool {
	_, ok := guestTransitions[s]
	return ok
}

// Approval is the token returned by CanSeat. It carries no side effect;
// the caller still has to commit the transition.
type Approval struct {
	GuestID     uint
	TableID     uint
	TableNumber string
}

// CanSeat decides whether guest g may be seated at table t.
//
// A table accepts a new guest only while available. A reserved table is
// the one exception: the guest holding the reservation may be seated
// directly (the hold is released by its owner arriving); anyone else is
// rejected until the hold is explicitly cancelled.
func CanSeat(g *models.Guest, t *models.Table) (*Approval, error) {
	if g.RestaurantID != t.RestaurantID {
		return nil, fmt.Errorf("%w: table %s belongs to another restaurant", ErrTableUnavailable, t.TableNumber)
	}
	if g.Status == models.GuestCompleted {
		return nil, fmt.Errorf("%w: guest %d is completed", ErrInvalidTransition, g.ID)
	}

	switch t.Status {
	case models.TableAvailable:
		// ok
	case models.TableReserved:
		if t.ReservedForID == nil || *t.ReservedForID != g.ID {
			return nil, fmt.Errorf("%w: table %s is held for another party", ErrTableUnavailable, t.TableNumber)
		}
	default:
		return nil, fmt.Errorf("%w: table %s is %s", ErrTableUnavailable, t.TableNumber, t.Status)
	}

	if t.Capacity < g.PartySize {
		return nil, fmt.Errorf("%w: table %s seats %d, party of %d", ErrCapacityExceeded, t.TableNumber, t.Capacity, g.PartySize)
	}

	return &Approval{
		GuestID:     g.ID,
		TableID:     t.ID,
		TableNumber: t.TableNumber,
	}, nil
}
