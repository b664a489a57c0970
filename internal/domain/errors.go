package domain

import "errors"

// Error kinds. Every error returned by the service layer matches exactly one
// of these through errors.Is, and the HTTP layer maps kinds to status codes.
var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrBadRequest = errors.New("bad request")
	ErrConflict   = errors.New("conflict")
)

// Booking rule violations.
var (
	ErrInvalidRange    = newError(ErrBadRequest, "booking start and end must be in the future and end must be after start")
	ErrItemUnavailable = newError(ErrBadRequest, "item is not available for booking")
	ErrInvalidState    = newError(ErrBadRequest, "booking has already been decided")
	ErrSelfBooking     = newError(ErrNotFound, "owner cannot book own item")
	ErrNoPastBooking   = newError(ErrBadRequest, "only users who have finished a booking of the item can comment")
)

// Error is a specific failure that belongs to one kind.
type Error struct {
	kind error
	msg  string
}

func newError(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

// NotFound builds an ErrNotFound error for a missing entity.
func NotFound(msg string) error {
	return newError(ErrNotFound, msg)
}

// Validation builds an ErrBadRequest error for malformed input.
func Validation(msg string) error {
	return newError(ErrBadRequest, msg)
}

func Forbidden(msg string) error {
	return newError(ErrForbidden, msg)
}

func Conflict(msg string) error {
	return newError(ErrConflict, msg)
}
