package models

type ListingStatus string

const (
	StatusActive   ListingStatus = "ACTIVE"
	StatusSoldOut  ListingStatus = "SOLD_OUT"
	StatusInactive ListingStatus = "INACTIVE"
	StatusDeleted  ListingStatus = "DELETED"
)

// INACTIVE with stock left is never produced by an operation but can be
// loaded from a hand-edited store, so it keeps a way out.
var transitions = map[ListingStatus]map[ListingStatus]struct{}{
	StatusActive:   {StatusSoldOut: {}, StatusDeleted: {}},
	StatusSoldOut:  {StatusDeleted: {}},
	StatusInactive: {StatusDeleted: {}},
	StatusDeleted:  {},
}

// CanTransition reports whether a listing may move from one status to another.
func CanTransition(from, to ListingStatus) bool {
	if from == to {
		return true
	}
	allowed, ok := transitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

// Status derives the display status. Precedence: deleted, sold out, inactive.
func (l *Listing) Status() ListingStatus {
	switch {
	case l.Deleted:
		return StatusDeleted
	case l.Quantity <= 0:
		return StatusSoldOut
	case !l.Active:
		return StatusInactive
	}
	return StatusActive
}

// Available reports whether the listing can be found by search and bought.
func (l *Listing) Available() bool {
	return !l.Deleted && l.Active && l.Quantity > 0
}

// SoftDelete marks the listing deleted. It reports false when it already was.
func (l *Listing) SoftDelete() bool {
	if l.Deleted {
		return false
	}
	l.Deleted = true
	l.Active = false
	return true
}

// Take removes quantity units from stock and deactivates the listing once
// nothing is left. The caller validates quantity against the stock first.
func (l *Listing) Take(quantity int) {
	l.Quantity -= quantity
	if l.Quantity <= 0 {
		l.Active = false
	}
}
