package database

import (
	"context"
	"fmt"
	"time"

	"shareit/internal/models"

	"github.com/doug-martin/goqu/v9"
)

type requestRow struct {
	ID             int64     `db:"id"`
	Description    string    `db:"description"`
	RequestorID    int64     `db:"requestor_id"`
	Created        time.Time `db:"created"`
	RequestorName  string    `db:"requestor_name"`
	RequestorEmail string    `db:"requestor_email"`
}

func (r *requestRow) toModel() *models.ItemRequest {
	return &models.ItemRequest{
		ID:          r.ID,
		Description: r.Description,
		RequestorID: r.RequestorID,
		Requestor: models.User{
			ID:    r.RequestorID,
			Name:  r.RequestorName,
			Email: r.RequestorEmail,
		},
		Created: r.Created.UTC(),
		Items:   []*models.Item{},
	}
}

func (db *DB) requestSelect() *goqu.SelectDataset {
	return db.from(goqu.T("requests").As("r")).
		Join(goqu.T("users").As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("r.requestor_id")))).
		Select(
			goqu.I("r.id").As("id"),
			goqu.I("r.description").As("description"),
			goqu.I("r.requestor_id").As("requestor_id"),
			goqu.I("r.created").As("created"),
			goqu.I("u.name").As("requestor_name"),
			goqu.I("u.email").As("requestor_email"),
		)
}

func (db *DB) CreateRequest(ctx context.Context, request *models.ItemRequest) error {
	request.Created = utc(request.Created)
	id, err := db.insert(ctx, "requests", goqu.Record{
		"description":  request.Description,
		"requestor_id": request.RequestorID,
		"created":      request.Created,
	})
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	request.ID = id
	return nil
}

func (db *DB) GetRequest(ctx context.Context, id int64) (*models.ItemRequest, error) {
	query, args, err := build(db.requestSelect().Where(goqu.I("r.id").Eq(id)))
	if err != nil {
		return nil, err
	}
	var row requestRow
	if err := db.GetContext(ctx, &row, query, args...); err != nil {
		return nil, notFound(err, "request %d", id)
	}
	return row.toModel(), nil
}

func (db *DB) RequestExists(ctx context.Context, id int64) (bool, error) {
	ok, err := db.exists(ctx, "requests", id)
	if err != nil {
		return false, fmt.Errorf("failed to check request: %w", err)
	}
	return ok, nil
}

// ListRequestsByRequestor returns the user's own requests, oldest first.
func (db *DB) ListRequestsByRequestor(ctx context.Context, requestorID int64) ([]*models.ItemRequest, error) {
	return db.selectRequests(ctx, db.requestSelect().
		Where(goqu.I("r.requestor_id").Eq(requestorID)).
		Order(goqu.I("r.created").Asc(), goqu.I("r.id").Asc()))
}

// ListRequestsExcept pages through everyone else's requests, oldest first.
func (db *DB) ListRequestsExcept(ctx context.Context, requestorID int64, page models.Page) ([]*models.ItemRequest, error) {
	return db.selectRequests(ctx, db.requestSelect().
		Where(goqu.I("r.requestor_id").Neq(requestorID)).
		Order(goqu.I("r.created").Asc(), goqu.I("r.id").Asc()).
		Limit(uint(page.Limit())).
		Offset(uint(page.Offset())))
}

func (db *DB) selectRequests(ctx context.Context, ds *goqu.SelectDataset) ([]*models.ItemRequest, error) {
	query, args, err := build(ds)
	if err != nil {
		return nil, err
	}
	var rows []requestRow
	if err := db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	requests := make([]*models.ItemRequest, 0, len(rows))
	for i := range rows {
		requests = append(requests, rows[i].toModel())
	}
	return requests, nil
}
