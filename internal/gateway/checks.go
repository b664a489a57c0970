package gateway

import (
	"bytes"
	"net/http"
	"time"

	"shareit/internal/api"
	"shareit/internal/dto"
	"shareit/internal/service"
)

// check rejects a request before it reaches the server.
type check func(r *http.Request, body []byte) error

func requireCaller(r *http.Request, _ []byte) error {
	_, err := api.CallerID(r)
	return err
}

func requireID(name string) check {
	return func(r *http.Request, _ []byte) error {
		_, err := api.PathID(r, name)
		return err
	}
}

func requirePage(defaultSize int) check {
	return func(r *http.Request, _ []byte) error {
		_, err := api.ParsePage(r, defaultSize)
		return err
	}
}

func requireState(r *http.Request, _ []byte) error {
	_, err := api.ParseState(r)
	return err
}

func requireApproved(r *http.Request, _ []byte) error {
	_, err := api.ParseApproved(r)
	return err
}

// requireBody decodes the body into a fresh T and runs its validate tags.
func requireBody[T any]() check {
	return func(_ *http.Request, body []byte) error {
		var v T
		return dto.Decode(bytes.NewReader(body), &v)
	}
}

func requireBookingBody(now func() time.Time) check {
	return func(_ *http.Request, body []byte) error {
		var b dto.BookingCreate
		if err := dto.Decode(bytes.NewReader(body), &b); err != nil {
			return err
		}
		return service.ValidateRange(b.Start.Time(), b.End.Time(), now().UTC())
	}
}
