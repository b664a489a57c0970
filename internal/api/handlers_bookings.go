package api

import (
	"net/http"

	"shareit/internal/dto"
)

func (s *HTTPServer) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, err := CallerID(r)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	var body dto.BookingCreate
	if err := dto.Decode(r.Body, &body); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	booking, err := s.svc.Bookings.Create(r.Context(), userID, body.ItemID, body.Start.Time(), body.End.Time())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newBookingResponse(booking))
}

func (s *HTTPServer) handleDecideBooking(w http.ResponseWriter, r *http.Request) {
	userID, err := CallerID(r)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	bookingID, err := PathID(r, "id")
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	approved, err := ParseApproved(r)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	booking, err := s.svc.Bookings.Decide(r.Context(), userID, bookingID, approved)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newBookingResponse(booking))
}

func (s *HTTPServer) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	userID, err := CallerID(r)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	bookingID, err := PathID(r, "id")
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	booking, err := s.svc.Bookings.Get(r.Context(), userID, bookingID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newBookingResponse(booking))
}

func (s *HTTPServer) handleListBookerBookings(w http.ResponseWriter, r *http.Request) {
	userID, err := CallerID(r)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	state, err := ParseState(r)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	page, err := ParsePage(r, s.cfg.Page.BookingsSize)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	bookings, err := s.svc.Bookings.ListByBooker(r.Context(), userID, state, page)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newBookingResponses(bookings))
}

func (s *HTTPServer) handleListOwnerBookings(w http.ResponseWriter, r *http.Request) {
	userID, err := CallerID(r)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	state, err := ParseState(r)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	page, err := ParsePage(r, s.cfg.Page.BookingsSize)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	bookings, err := s.svc.Bookings.ListByOwner(r.Context(), userID, state, page)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newBookingResponses(bookings))
}
