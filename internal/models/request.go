package models

import "time"

// ItemRequest is a wish for an item nobody has listed yet. Items holds the
// answers: items created with a reference to this request.
type ItemRequest struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	RequestorID int64     `json:"requestorId"`
	Requestor   User      `json:"requestor"`
	Created     time.Time `json:"created"`
	Items       []*Item   `json:"items"`
}
