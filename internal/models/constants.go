package models

const (
	// HeaderUserID carries the caller identity asserted by the client.
	HeaderUserID = "X-Sharer-User-Id"

	// HeaderRequestID is echoed on every response.
	HeaderRequestID = "X-Request-Id"

	// DateTimeLayout is the wire format for timestamps (UTC, no zone).
	DateTimeLayout = "2006-01-02T15:04:05"
)

const (
	DefaultBookingsPageSize = 10
	DefaultItemsPageSize    = 20
	DefaultRequestsPageSize = 20
)
