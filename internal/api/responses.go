package api

import (
	"shareit/internal/models"
)

type userResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

type itemResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	OwnerID     int64  `json:"ownerId"`
	RequestID   *int64 `json:"requestId"`
}

func newItemResponse(i *models.Item) itemResponse {
	return itemResponse{
		ID:          i.ID,
		Name:        i.Name,
		Description: i.Description,
		Available:   i.Available,
		OwnerID:     i.OwnerID,
		RequestID:   i.RequestID,
	}
}

func newItemResponses(items []*models.Item) []itemResponse {
	out := make([]itemResponse, 0, len(items))
	for _, i := range items {
		out = append(out, newItemResponse(i))
	}
	return out
}

// shortBooking is how last/next bookings appear inside an item.
type shortBooking struct {
	ID       int64           `json:"id"`
	BookerID int64           `json:"bookerId"`
	Start    models.DateTime `json:"start"`
	End      models.DateTime `json:"end"`
}

func newShortBooking(b *models.Booking) *shortBooking {
	if b == nil {
		return nil
	}
	return &shortBooking{
		ID:       b.ID,
		BookerID: b.BookerID,
		Start:    models.NewDateTime(b.Start),
		End:      models.NewDateTime(b.End),
	}
}

type commentResponse struct {
	ID         int64           `json:"id"`
	Text       string          `json:"text"`
	AuthorName string          `json:"authorName"`
	Created    models.DateTime `json:"created"`
}

func newCommentResponse(c *models.Comment) commentResponse {
	return commentResponse{ID: c.ID, Text: c.Text, AuthorName: c.AuthorName, Created: models.NewDateTime(c.Created)}
}

type itemDetailsResponse struct {
	itemResponse
	LastBooking *shortBooking     `json:"lastBooking"`
	NextBooking *shortBooking     `json:"nextBooking"`
	Comments    []commentResponse `json:"comments"`
}

func newItemDetailsResponse(d *models.ItemDetails) itemDetailsResponse {
	comments := make([]commentResponse, 0, len(d.Comments))
	for _, c := range d.Comments {
		comments = append(comments, newCommentResponse(c))
	}
	return itemDetailsResponse{
		itemResponse: newItemResponse(&d.Item),
		LastBooking:  newShortBooking(d.LastBooking),
		NextBooking:  newShortBooking(d.NextBooking),
		Comments:     comments,
	}
}

type bookingResponse struct {
	ID     int64           `json:"id"`
	Start  models.DateTime `json:"start"`
	End    models.DateTime `json:"end"`
	Status string          `json:"status"`
	Booker userResponse    `json:"booker"`
	Item   itemResponse    `json:"item"`
}

func newBookingResponse(b *models.Booking) bookingResponse {
	return bookingResponse{
		ID:     b.ID,
		Start:  models.NewDateTime(b.Start),
		End:    models.NewDateTime(b.End),
		Status: string(b.Status),
		Booker: newUserResponse(&b.Booker),
		Item:   newItemResponse(&b.Item),
	}
}

func newBookingResponses(bookings []*models.Booking) []bookingResponse {
	out := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, newBookingResponse(b))
	}
	return out
}

type requestResponse struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	RequestorID int64           `json:"requestorId"`
	Created     models.DateTime `json:"created"`
	Items       []itemResponse  `json:"items"`
}

func newRequestResponse(r *models.ItemRequest) requestResponse {
	return requestResponse{
		ID:          r.ID,
		Description: r.Description,
		RequestorID: r.RequestorID,
		Created:     models.NewDateTime(r.Created),
		Items:       newItemResponses(r.Items),
	}
}

func newRequestResponses(requests []*models.ItemRequest) []requestResponse {
	out := make([]requestResponse, 0, len(requests))
	for _, r := range requests {
		out = append(out, newRequestResponse(r))
	}
	return out
}
