package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"shareit/internal/domain"
	"shareit/internal/models"
)

// CallerID reads the X-Sharer-User-Id header.
func CallerID(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.Header.Get(models.HeaderUserID))
	if raw == "" {
		return 0, domain.Validation(models.HeaderUserID + " header is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Validation(fmt.Sprintf("%s header must be a positive integer, got %q", models.HeaderUserID, raw))
	}
	return id, nil
}

// PathID reads an integer path segment.
func PathID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, domain.Validation(fmt.Sprintf("%s must be an integer, got %q", name, raw))
	}
	return id, nil
}

// ParsePage reads from and size, defaulting to 0 and defaultSize.
func ParsePage(r *http.Request, defaultSize int) (models.Page, error) {
	page := models.Page{From: 0, Size: defaultSize}
	q := r.URL.Query()

	if raw := q.Get("from"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return page, domain.Validation(fmt.Sprintf("from must be an integer, got %q", raw))
		}
		page.From = v
	}
	if raw := q.Get("size"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return page, domain.Validation(fmt.Sprintf("size must be an integer, got %q", raw))
		}
		page.Size = v
	}

	if !page.Valid() {
		return page, domain.Validation("from must be non-negative and size must be positive")
	}
	return page, nil
}

// ParseState reads the state query parameter; absent means ALL.
func ParseState(r *http.Request) (models.BookingState, error) {
	return models.ParseBookingState(r.URL.Query().Get("state"))
}

// ParseApproved reads the approved query parameter of a booking decision.
func ParseApproved(r *http.Request) (bool, error) {
	approved, err := strconv.ParseBool(r.URL.Query().Get("approved"))
	if err != nil {
		return false, domain.Validation("approved must be true or false")
	}
	return approved, nil
}
