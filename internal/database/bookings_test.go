package database

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookingIDs(bookings []*models.Booking) []int64 {
	ids := make([]int64, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.ID)
	}
	return ids
}

type bookingFixture struct {
	db      *DB
	owner   *models.User
	booker  *models.User
	item    *models.Item
	now     time.Time
	past    *models.Booking
	current *models.Booking
	future  *models.Booking
	waiting *models.Booking
}

func setupBookings(t *testing.T) *bookingFixture {
	t.Helper()
	db := setupTestDB(t)
	f := &bookingFixture{db: db, now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}

	f.owner = createUser(t, db, "Owner", "owner@example.com")
	f.booker = createUser(t, db, "Booker", "booker@example.com")
	f.item = createItem(t, db, f.owner.ID, "Drill", "Cordless drill", true)

	day := 24 * time.Hour
	f.past = createBooking(t, db, f.item.ID, f.booker.ID, f.now.Add(-3*day), f.now.Add(-2*day), models.StatusApproved)
	f.current = createBooking(t, db, f.item.ID, f.booker.ID, f.now.Add(-time.Hour), f.now.Add(time.Hour), models.StatusRejected)
	f.future = createBooking(t, db, f.item.ID, f.booker.ID, f.now.Add(2*day), f.now.Add(3*day), models.StatusApproved)
	f.waiting = createBooking(t, db, f.item.ID, f.booker.ID, f.now.Add(5*day), f.now.Add(6*day), models.StatusWaiting)
	return f
}

func TestGetBooking(t *testing.T) {
	f := setupBookings(t)
	ctx := context.Background()

	got, err := f.db.GetBooking(ctx, f.future.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)
	assert.True(t, f.future.Start.Equal(got.Start))
	assert.True(t, f.future.End.Equal(got.End))
	assert.Equal(t, time.UTC, got.Start.Location())
	assert.Equal(t, f.item.ID, got.Item.ID)
	assert.Equal(t, "Drill", got.Item.Name)
	assert.Equal(t, f.owner.ID, got.Item.OwnerID)
	assert.Equal(t, f.booker.ID, got.Booker.ID)
	assert.Equal(t, "booker@example.com", got.Booker.Email)

	_, err = f.db.GetBooking(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateBookingDefaultsToWaiting(t *testing.T) {
	f := setupBookings(t)
	ctx := context.Background()

	b := &models.Booking{ItemID: f.item.ID, BookerID: f.booker.ID, Start: f.now, End: f.now.Add(time.Hour)}
	require.NoError(t, f.db.CreateBooking(ctx, b))
	assert.Equal(t, models.StatusWaiting, b.Status)

	got, err := f.db.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusWaiting, got.Status)
}

func TestListBookingsByState(t *testing.T) {
	f := setupBookings(t)
	ctx := context.Background()

	tests := []struct {
		state models.BookingState
		want  []int64
	}{
		{models.StateAll, []int64{f.waiting.ID, f.future.ID, f.current.ID, f.past.ID}},
		{models.StateCurrent, []int64{f.current.ID}},
		{models.StatePast, []int64{f.past.ID}},
		{models.StateFuture, []int64{f.waiting.ID, f.future.ID}},
		{models.StateWaiting, []int64{f.waiting.ID}},
		{models.StateRejected, []int64{f.current.ID}},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			byBooker, err := f.db.ListBookings(ctx, models.BookingFilter{BookerID: f.booker.ID, State: tt.state, Now: f.now})
			require.NoError(t, err)
			assert.Equal(t, tt.want, bookingIDs(byBooker))

			byItem, err := f.db.ListBookings(ctx, models.BookingFilter{ItemID: f.item.ID, State: tt.state, Now: f.now})
			require.NoError(t, err)
			assert.Equal(t, tt.want, bookingIDs(byItem))

			byOwner, err := f.db.ListBookings(ctx, models.BookingFilter{OwnerID: f.owner.ID, State: tt.state, Now: f.now})
			require.NoError(t, err)
			assert.Equal(t, tt.want, bookingIDs(byOwner))
		})
	}

	t.Run("CurrentBoundaries", func(t *testing.T) {
		edge, err := f.db.ListBookings(ctx, models.BookingFilter{BookerID: f.booker.ID, State: models.StateCurrent, Now: f.current.End})
		require.NoError(t, err)
		assert.Equal(t, []int64{f.current.ID}, bookingIDs(edge))

		edge, err = f.db.ListBookings(ctx, models.BookingFilter{BookerID: f.booker.ID, State: models.StateCurrent, Now: f.current.Start})
		require.NoError(t, err)
		assert.Equal(t, []int64{f.current.ID}, bookingIDs(edge))
	})

	t.Run("Paged", func(t *testing.T) {
		page, err := f.db.ListBookings(ctx, models.BookingFilter{
			BookerID: f.booker.ID, State: models.StateAll, Now: f.now, Page: &models.Page{From: 2, Size: 2},
		})
		require.NoError(t, err)
		assert.Equal(t, []int64{f.current.ID, f.past.ID}, bookingIDs(page))
	})

	t.Run("OtherUser", func(t *testing.T) {
		none, err := f.db.ListBookings(ctx, models.BookingFilter{BookerID: f.owner.ID, State: models.StateAll, Now: f.now})
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

func TestLastAndNextBooking(t *testing.T) {
	f := setupBookings(t)
	ctx := context.Background()

	last, err := f.db.LastBooking(ctx, f.item.ID, f.now)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, f.past.ID, last.ID)

	next, err := f.db.NextBooking(ctx, f.item.ID, f.now)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, f.future.ID, next.ID)

	none, err := f.db.LastBooking(ctx, f.item.ID, f.now.Add(-10*24*time.Hour))
	require.NoError(t, err)
	assert.Nil(t, none)

	none, err = f.db.NextBooking(ctx, f.item.ID, f.now.Add(10*24*time.Hour))
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestHasFinishedBooking(t *testing.T) {
	f := setupBookings(t)
	ctx := context.Background()

	ok, err := f.db.HasFinishedBooking(ctx, f.booker.ID, f.item.ID, f.now)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.db.HasFinishedBooking(ctx, f.booker.ID, f.item.ID, f.past.Start)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.db.HasFinishedBooking(ctx, f.owner.ID, f.item.ID, f.now)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdateBookingStatus(t *testing.T) {
	f := setupBookings(t)
	ctx := context.Background()

	require.NoError(t, f.db.UpdateBookingStatus(ctx, f.waiting.ID, models.StatusWaiting, models.StatusApproved))

	got, err := f.db.GetBooking(ctx, f.waiting.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)

	err = f.db.UpdateBookingStatus(ctx, f.waiting.ID, models.StatusWaiting, models.StatusRejected)
	assert.ErrorIs(t, err, ErrConcurrentModification)

	err = f.db.UpdateBookingStatus(ctx, 999, models.StatusWaiting, models.StatusRejected)
	assert.ErrorIs(t, err, ErrConcurrentModification)
}

func TestConcurrentDecision(t *testing.T) {
	f := setupBookings(t)
	ctx := context.Background()

	const numGoroutines = 10
	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	results := make(chan error, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(i int) {
			defer wg.Done()
			to := models.StatusApproved
			if i%2 == 1 {
				to = models.StatusRejected
			}
			results <- f.db.UpdateBookingStatus(ctx, f.waiting.ID, models.StatusWaiting, to)
		}(i)
	}

	wg.Wait()
	close(results)

	successCount := 0
	for err := range results {
		if err == nil {
			successCount++
			continue
		}
		assert.True(t, errors.Is(err, ErrConcurrentModification), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, successCount)

	got, err := f.db.GetBooking(ctx, f.waiting.ID)
	require.NoError(t, err)
	assert.NotEqual(t, models.StatusWaiting, got.Status)
}
