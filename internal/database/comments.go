package database

import (
	"context"
	"fmt"

	"shareit/internal/models"

	"github.com/doug-martin/goqu/v9"
)

func (db *DB) CreateComment(ctx context.Context, comment *models.Comment) error {
	comment.Created = utc(comment.Created)
	id, err := db.insert(ctx, "comments", goqu.Record{
		"text":      comment.Text,
		"item_id":   comment.ItemID,
		"author_id": comment.AuthorID,
		"created":   comment.Created,
	})
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	comment.ID = id
	return nil
}

// ListCommentsByItem returns the item's comments, newest first.
func (db *DB) ListCommentsByItem(ctx context.Context, itemID int64) ([]*models.Comment, error) {
	query, args, err := build(db.from(goqu.T("comments").As("c")).
		Join(goqu.T("users").As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("c.author_id")))).
		Select(
			goqu.I("c.id").As("id"),
			goqu.I("c.text").As("text"),
			goqu.I("c.item_id").As("item_id"),
			goqu.I("c.author_id").As("author_id"),
			goqu.I("u.name").As("author_name"),
			goqu.I("c.created").As("created"),
		).
		Where(goqu.I("c.item_id").Eq(itemID)).
		Order(goqu.I("c.created").Desc(), goqu.I("c.id").Desc()))
	if err != nil {
		return nil, err
	}

	comments := []*models.Comment{}
	if err := db.SelectContext(ctx, &comments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	for _, c := range comments {
		c.Created = c.Created.UTC()
	}
	return comments, nil
}
