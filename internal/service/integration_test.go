package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"shareit/internal/config"
	"shareit/internal/database"
	"shareit/internal/models"

	"github.com/stretchr/testify/require"
)

// env wires every service to one real sqlite database and a movable clock.
type env struct {
	db       *database.DB
	clock    *movableClock
	users    *UserService
	items    *ItemService
	bookings *BookingService
	requests *RequestService
}

type movableClock struct {
	now time.Time
}

func (c *movableClock) Now() time.Time { return c.now }

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := database.NewDB(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "shareit.db"),
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	clock := &movableClock{now: testNow}
	return &env{
		db:       db,
		clock:    clock,
		users:    NewUserService(db, nil),
		items:    NewItemService(db, db, db, db, db, clock, nil),
		bookings: NewBookingService(db, db, db, nil, clock, nil),
		requests: NewRequestService(db, db, db, clock, nil),
	}
}

func (e *env) user(t *testing.T, name string) *models.User {
	t.Helper()
	u, err := e.users.Create(context.Background(), &models.User{Name: name, Email: name + "@example.com"})
	require.NoError(t, err)
	return u
}

func (e *env) item(t *testing.T, ownerID int64, name string) *models.Item {
	t.Helper()
	i, err := e.items.Create(context.Background(), ownerID, &models.Item{Name: name, Description: name + " for rent", Available: true})
	require.NoError(t, err)
	return i
}
