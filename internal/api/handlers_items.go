package api

import (
	"net/http"

	"shareit/internal/dto"
)

func (s *HTTPServer) handleListItems(w http.ResponseWriter, r *http.Request) {
	userID, err := CallerID(r)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	page, err := ParsePage(r, s.cfg.Page.ItemsSize)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	items, err := s.svc.Items.ListByOwner(r.Context(), userID, page)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	out := make([]itemDetailsResponse, 0, len(items))
	for _, d := range items {
		out = append(out, newItemDetailsResponse(d))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *HTTPServer) handleGetItem(w http.ResponseWriter, r *http.Request) {
	userID, err := CallerID(r)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	itemID, err := PathID(r, "id")
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	details, err := s.svc.Items.Get(r.Context(), userID, itemID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newItemDetailsResponse(details))
}

func (s *HTTPServer) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	userID, err := CallerID(r)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	var body dto.ItemCreate
	if err := dto.Decode(r.Body, &body); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	item, err := s.svc.Items.Create(r.Context(), userID, body.Model())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newItemResponse(item))
}

func (s *HTTPServer) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, err := CallerID(r)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	itemID, err := PathID(r, "id")
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	var body dto.ItemUpdate
	if err := dto.Decode(r.Body, &body); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	item, err := s.svc.Items.Update(r.Context(), userID, itemID, body.Patch(), body.RequestID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newItemResponse(item))
}

func (s *HTTPServer) handleSearchItems(w http.ResponseWriter, r *http.Request) {
	userID, err := CallerID(r)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	page, err := ParsePage(r, s.cfg.Page.ItemsSize)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	items, err := s.svc.Items.Search(r.Context(), userID, r.URL.Query().Get("text"), page)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newItemResponses(items))
}

func (s *HTTPServer) handleAddComment(w http.ResponseWriter, r *http.Request) {
	userID, err := CallerID(r)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	itemID, err := PathID(r, "id")
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	var body dto.CommentCreate
	if err := dto.Decode(r.Body, &body); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	comment, err := s.svc.Items.AddComment(r.Context(), userID, itemID, body.Text)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCommentResponse(comment))
}
