package models

import "time"

type Comment struct {
	ID         int64     `db:"id" json:"id"`
	Text       string    `db:"text" json:"text"`
	ItemID     int64     `db:"item_id" json:"itemId"`
	AuthorID   int64     `db:"author_id" json:"authorId"`
	AuthorName string    `db:"author_name" json:"authorName"`
	Created    time.Time `db:"created" json:"created"`
}
