package models

import (
	"strings"
	"time"
)

// BookingState is a list filter over bookings, evaluated against a single instant.
type BookingState string

const (
	StateAll      BookingState = "ALL"
	StateCurrent  BookingState = "CURRENT"
	StatePast     BookingState = "PAST"
	StateFuture   BookingState = "FUTURE"
	StateWaiting  BookingState = "WAITING"
	StateRejected BookingState = "REJECTED"
)

var bookingStates = []BookingState{StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected}

type UnknownStateError struct {
	Value string
}

func (e *UnknownStateError) Error() string {
	return "Unknown state: " + e.Value
}

// ParseBookingState accepts any letter case; an empty value means ALL.
func ParseBookingState(raw string) (BookingState, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return StateAll, nil
	}
	upper := BookingState(strings.ToUpper(value))
	for _, s := range bookingStates {
		if s == upper {
			return s, nil
		}
	}
	return "", &UnknownStateError{Value: raw}
}

// Matches evaluates the filter for one booking. The storage layer applies the
// same predicate in SQL; this form is used for in-memory checks.
func (s BookingState) Matches(b *Booking, now time.Time) bool {
	switch s {
	case StateAll:
		return true
	case StateCurrent:
		return !b.Start.After(now) && !b.End.Before(now)
	case StatePast:
		return b.End.Before(now)
	case StateFuture:
		return b.Start.After(now)
	case StateWaiting:
		return b.Status == StatusWaiting
	case StateRejected:
		return b.Status == StatusRejected
	}
	return false
}
