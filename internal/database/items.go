package database

import (
	"context"
	"fmt"
	"strings"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/doug-martin/goqu/v9"
)

var itemColumns = []interface{}{"id", "name", "description", "available", "owner_id", "request_id"}

func (db *DB) CreateItem(ctx context.Context, item *models.Item) error {
	id, err := db.insert(ctx, "items", goqu.Record{
		"name":        item.Name,
		"description": item.Description,
		"available":   item.Available,
		"owner_id":    item.OwnerID,
		"request_id":  item.RequestID,
	})
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}
	item.ID = id
	return nil
}

func (db *DB) GetItemByID(ctx context.Context, id int64) (*models.Item, error) {
	query, args, err := build(db.from("items").Select(itemColumns...).Where(goqu.Ex{"id": id}))
	if err != nil {
		return nil, err
	}
	var item models.Item
	if err := db.GetContext(ctx, &item, query, args...); err != nil {
		return nil, notFound(err, "item %d", id)
	}
	return &item, nil
}

func (db *DB) UpdateItem(ctx context.Context, item *models.Item) error {
	rows, err := db.exec(ctx, db.dialect.Update("items").Prepared(true).
		Set(goqu.Record{
			"name":        item.Name,
			"description": item.Description,
			"available":   item.Available,
			"request_id":  item.RequestID,
		}).
		Where(goqu.Ex{"id": item.ID}))
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	if rows == 0 {
		return domain.NotFound(fmt.Sprintf("item %d not found", item.ID))
	}
	return nil
}

func (db *DB) ListItemsByOwner(ctx context.Context, ownerID int64, page *models.Page) ([]*models.Item, error) {
	ds := db.from("items").Select(itemColumns...).
		Where(goqu.Ex{"owner_id": ownerID}).
		Order(goqu.C("id").Asc())
	if page != nil {
		ds = ds.Limit(uint(page.Limit())).Offset(uint(page.Offset()))
	}
	return db.selectItems(ctx, ds)
}

// SearchAvailableItems matches text case-insensitively against name or
// description. Blank text is handled by the caller.
func (db *DB) SearchAvailableItems(ctx context.Context, text string, page models.Page) ([]*models.Item, error) {
	pattern := "%" + escapeLike(strings.ToLower(text)) + "%"
	ds := db.from("items").Select(itemColumns...).
		Where(
			goqu.C("available").IsTrue(),
			goqu.Or(
				goqu.L(`LOWER(name) LIKE ? ESCAPE '!'`, pattern),
				goqu.L(`LOWER(description) LIKE ? ESCAPE '!'`, pattern),
			),
		).
		Order(goqu.C("id").Asc()).
		Limit(uint(page.Limit())).
		Offset(uint(page.Offset()))
	return db.selectItems(ctx, ds)
}

func (db *DB) ListItemsByRequestIDs(ctx context.Context, requestIDs []int64) ([]*models.Item, error) {
	if len(requestIDs) == 0 {
		return []*models.Item{}, nil
	}
	ds := db.from("items").Select(itemColumns...).
		Where(goqu.C("request_id").In(requestIDs)).
		Order(goqu.C("id").Asc())
	return db.selectItems(ctx, ds)
}

func (db *DB) selectItems(ctx context.Context, ds *goqu.SelectDataset) ([]*models.Item, error) {
	query, args, err := build(ds)
	if err != nil {
		return nil, err
	}
	items := []*models.Item{}
	if err := db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

// '!' works as an escape character on every supported driver; mysql treats
// a backslash inside the literal as a string escape.
var likeEscaper = strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
