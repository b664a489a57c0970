package models

import "time"

type BookingStatus string

const (
	StatusWaiting  BookingStatus = "WAITING"
	StatusApproved BookingStatus = "APPROVED"
	StatusRejected BookingStatus = "REJECTED"
	// StatusCanceled is a valid stored value; no operation sets it yet.
	StatusCanceled BookingStatus = "CANCELED"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case StatusWaiting, StatusApproved, StatusRejected, StatusCanceled:
		return true
	}
	return false
}

// Booking is a reservation of an item. Item and Booker are resolved
// references filled in by the storage layer on reads.
type Booking struct {
	ID       int64         `json:"id"`
	Start    time.Time     `json:"start"`
	End      time.Time     `json:"end"`
	ItemID   int64         `json:"itemId"`
	BookerID int64         `json:"bookerId"`
	Status   BookingStatus `json:"status"`
	Item     Item          `json:"item"`
	Booker   User          `json:"booker"`
}

// IsParty reports whether the user is the booker or the owner of the booked item.
func (b *Booking) IsParty(userID int64) bool {
	return b.BookerID == userID || b.Item.OwnerID == userID
}

// BookingFilter selects bookings for a list. Zero ids are not applied;
// a nil Page returns every match.
type BookingFilter struct {
	BookerID int64
	ItemID   int64
	OwnerID  int64
	State    BookingState
	Now      time.Time
	Page     *Page
}
