package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shareit/internal/models"

	"github.com/doug-martin/goqu/v9"
)

// bookingRow is a booking joined with its item and booker.
type bookingRow struct {
	ID              int64     `db:"id"`
	Start           time.Time `db:"start_date"`
	End             time.Time `db:"end_date"`
	ItemID          int64     `db:"item_id"`
	BookerID        int64     `db:"booker_id"`
	Status          string    `db:"status"`
	ItemName        string    `db:"item_name"`
	ItemDescription string    `db:"item_description"`
	ItemAvailable   bool      `db:"item_available"`
	ItemOwnerID     int64     `db:"item_owner_id"`
	ItemRequestID   *int64    `db:"item_request_id"`
	BookerName      string    `db:"booker_name"`
	BookerEmail     string    `db:"booker_email"`
}

func (r *bookingRow) toModel() *models.Booking {
	return &models.Booking{
		ID:       r.ID,
		Start:    r.Start.UTC(),
		End:      r.End.UTC(),
		ItemID:   r.ItemID,
		BookerID: r.BookerID,
		Status:   models.BookingStatus(r.Status),
		Item: models.Item{
			ID:          r.ItemID,
			Name:        r.ItemName,
			Description: r.ItemDescription,
			Available:   r.ItemAvailable,
			OwnerID:     r.ItemOwnerID,
			RequestID:   r.ItemRequestID,
		},
		Booker: models.User{
			ID:    r.BookerID,
			Name:  r.BookerName,
			Email: r.BookerEmail,
		},
	}
}

func (db *DB) bookingSelect() *goqu.SelectDataset {
	return db.from(goqu.T("bookings").As("b")).
		Join(goqu.T("items").As("i"), goqu.On(goqu.I("i.id").Eq(goqu.I("b.item_id")))).
		Join(goqu.T("users").As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("b.booker_id")))).
		Select(
			goqu.I("b.id").As("id"),
			goqu.I("b.start_date").As("start_date"),
			goqu.I("b.end_date").As("end_date"),
			goqu.I("b.item_id").As("item_id"),
			goqu.I("b.booker_id").As("booker_id"),
			goqu.I("b.status").As("status"),
			goqu.I("i.name").As("item_name"),
			goqu.I("i.description").As("item_description"),
			goqu.I("i.available").As("item_available"),
			goqu.I("i.owner_id").As("item_owner_id"),
			goqu.I("i.request_id").As("item_request_id"),
			goqu.I("u.name").As("booker_name"),
			goqu.I("u.email").As("booker_email"),
		)
}

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	if booking.Status == "" {
		booking.Status = models.StatusWaiting
	}
	id, err := db.insert(ctx, "bookings", goqu.Record{
		"start_date": utc(booking.Start),
		"end_date":   utc(booking.End),
		"item_id":    booking.ItemID,
		"booker_id":  booking.BookerID,
		"status":     string(booking.Status),
	})
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	booking.ID = id
	return nil
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query, args, err := build(db.bookingSelect().Where(goqu.I("b.id").Eq(id)))
	if err != nil {
		return nil, err
	}
	var row bookingRow
	if err := db.GetContext(ctx, &row, query, args...); err != nil {
		return nil, notFound(err, "booking %d", id)
	}
	return row.toModel(), nil
}

// UpdateBookingStatus is a compare-and-swap on the status column: of two
// concurrent callers expecting the same from-status only one succeeds.
func (db *DB) UpdateBookingStatus(ctx context.Context, id int64, from, to models.BookingStatus) error {
	rows, err := db.exec(ctx, db.dialect.Update("bookings").Prepared(true).
		Set(goqu.Record{"status": string(to)}).
		Where(goqu.Ex{"id": id, "status": string(from)}))
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if rows == 0 {
		return ErrConcurrentModification
	}
	return nil
}

func (db *DB) ListBookings(ctx context.Context, filter models.BookingFilter) ([]*models.Booking, error) {
	ds := applyBookingFilter(db.bookingSelect(), filter)
	return db.selectBookings(ctx, ds)
}

func applyBookingFilter(ds *goqu.SelectDataset, f models.BookingFilter) *goqu.SelectDataset {
	if f.BookerID != 0 {
		ds = ds.Where(goqu.I("b.booker_id").Eq(f.BookerID))
	}
	if f.ItemID != 0 {
		ds = ds.Where(goqu.I("b.item_id").Eq(f.ItemID))
	}
	if f.OwnerID != 0 {
		ds = ds.Where(goqu.I("i.owner_id").Eq(f.OwnerID))
	}

	now := utc(f.Now)
	switch f.State {
	case models.StateCurrent:
		ds = ds.Where(goqu.I("b.start_date").Lte(now), goqu.I("b.end_date").Gte(now))
	case models.StatePast:
		ds = ds.Where(goqu.I("b.end_date").Lt(now))
	case models.StateFuture:
		ds = ds.Where(goqu.I("b.start_date").Gt(now))
	case models.StateWaiting:
		ds = ds.Where(goqu.I("b.status").Eq(string(models.StatusWaiting)))
	case models.StateRejected:
		ds = ds.Where(goqu.I("b.status").Eq(string(models.StatusRejected)))
	}

	ds = ds.Order(goqu.I("b.start_date").Desc(), goqu.I("b.id").Desc())
	if f.Page != nil {
		ds = ds.Limit(uint(f.Page.Limit())).Offset(uint(f.Page.Offset()))
	}
	return ds
}

// LastBooking is the booking of the item that ended most recently before now.
func (db *DB) LastBooking(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error) {
	ds := db.bookingSelect().
		Where(goqu.I("b.item_id").Eq(itemID), goqu.I("b.end_date").Lt(utc(now))).
		Order(goqu.I("b.end_date").Desc()).
		Limit(1)
	return db.firstBooking(ctx, ds)
}

// NextBooking is the booking of the item that starts soonest after now.
func (db *DB) NextBooking(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error) {
	ds := db.bookingSelect().
		Where(goqu.I("b.item_id").Eq(itemID), goqu.I("b.start_date").Gt(utc(now))).
		Order(goqu.I("b.start_date").Asc()).
		Limit(1)
	return db.firstBooking(ctx, ds)
}

func (db *DB) HasFinishedBooking(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error) {
	query, args, err := build(db.from("bookings").
		Select(goqu.COUNT("*")).
		Where(goqu.Ex{"booker_id": bookerID, "item_id": itemID}, goqu.C("end_date").Lt(utc(now))))
	if err != nil {
		return false, err
	}
	var count int
	if err := db.GetContext(ctx, &count, query, args...); err != nil {
		return false, fmt.Errorf("failed to check past bookings: %w", err)
	}
	return count > 0, nil
}

func (db *DB) firstBooking(ctx context.Context, ds *goqu.SelectDataset) (*models.Booking, error) {
	query, args, err := build(ds)
	if err != nil {
		return nil, err
	}
	var row bookingRow
	if err := db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return row.toModel(), nil
}

func (db *DB) selectBookings(ctx context.Context, ds *goqu.SelectDataset) ([]*models.Booking, error) {
	query, args, err := build(ds)
	if err != nil {
		return nil, err
	}
	var rows []bookingRow
	if err := db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	bookings := make([]*models.Booking, 0, len(rows))
	for i := range rows {
		bookings = append(bookings, rows[i].toModel())
	}
	return bookings, nil
}
