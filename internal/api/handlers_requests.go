package api

import (
	"net/http"

	"shareit/internal/dto"
)

func (s *HTTPServer) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	userID, err := CallerID(r)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	var body dto.RequestCreate
	if err := dto.Decode(r.Body, &body); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	request, err := s.svc.Requests.Create(r.Context(), userID, body.Description)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newRequestResponse(request))
}

func (s *HTTPServer) handleListOwnRequests(w http.ResponseWriter, r *http.Request) {
	userID, err := CallerID(r)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	requests, err := s.svc.Requests.ListMine(r.Context(), userID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newRequestResponses(requests))
}

func (s *HTTPServer) handleListOtherRequests(w http.ResponseWriter, r *http.Request) {
	userID, err := CallerID(r)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	page, err := ParsePage(r, s.cfg.Page.RequestsSize)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	requests, err := s.svc.Requests.ListOthers(r.Context(), userID, page)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newRequestResponses(requests))
}

func (s *HTTPServer) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	userID, err := CallerID(r)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	requestID, err := PathID(r, "id")
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	request, err := s.svc.Requests.Get(r.Context(), userID, requestID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newRequestResponse(request))
}
