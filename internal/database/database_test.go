package database

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"shareit/internal/config"
	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	logger := zerolog.New(io.Discard)
	db, err := NewDB(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "shareit.db"),
	}, &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func createUser(t *testing.T, db *DB, name, email string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: email}
	require.NoError(t, db.CreateUser(context.Background(), user))
	return user
}

func createItem(t *testing.T, db *DB, ownerID int64, name, description string, available bool) *models.Item {
	t.Helper()
	item := &models.Item{Name: name, Description: description, Available: available, OwnerID: ownerID}
	require.NoError(t, db.CreateItem(context.Background(), item))
	return item
}

func createBooking(t *testing.T, db *DB, itemID, bookerID int64, start, end time.Time, status models.BookingStatus) *models.Booking {
	t.Helper()
	b := &models.Booking{ItemID: itemID, BookerID: bookerID, Start: start, End: end, Status: status}
	require.NoError(t, db.CreateBooking(context.Background(), b))
	return b
}

func TestNewDB(t *testing.T) {
	logger := zerolog.New(io.Discard)

	t.Run("CreatesDirectory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "shareit.db")
		db, err := NewDB(config.DatabaseConfig{Driver: config.DriverSQLite, Path: path}, &logger)
		require.NoError(t, err)
		defer db.Close()

		assert.Equal(t, config.DriverSQLite, db.Driver())
		assert.NoError(t, db.Ping(context.Background()))
	})

	t.Run("Reopen", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "shareit.db")
		db, err := NewDB(config.DatabaseConfig{Driver: config.DriverSQLite, Path: path}, &logger)
		require.NoError(t, err)
		createUser(t, db, "Ann", "ann@example.com")
		require.NoError(t, db.Close())

		db, err = NewDB(config.DatabaseConfig{Driver: config.DriverSQLite, Path: path}, &logger)
		require.NoError(t, err)
		defer db.Close()

		users, err := db.ListUsers(context.Background())
		require.NoError(t, err)
		assert.Len(t, users, 1)
	})

	t.Run("MissingPath", func(t *testing.T) {
		_, err := NewDB(config.DatabaseConfig{Driver: config.DriverSQLite}, &logger)
		assert.Error(t, err)
	})

	t.Run("UnknownDriver", func(t *testing.T) {
		_, err := NewDB(config.DatabaseConfig{Driver: "oracle"}, &logger)
		assert.Error(t, err)
	})
}

func TestCascadeOnUserDelete(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createUser(t, db, "Owner", "owner@example.com")
	booker := createUser(t, db, "Booker", "booker@example.com")
	item := createItem(t, db, owner.ID, "Drill", "Cordless drill", true)
	start := time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC)
	b := createBooking(t, db, item.ID, booker.ID, start, start.Add(time.Hour), models.StatusWaiting)

	require.NoError(t, db.DeleteUser(ctx, owner.ID))

	_, err := db.GetItemByID(ctx, item.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = db.GetBooking(ctx, b.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMySQLDSN(t *testing.T) {
	dsn := mysqlDSN(config.MySQLConfig{Host: "db", Port: 3306, User: "shareit", Password: "secret", DBName: "shareit"})

	parsed, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "tcp", parsed.Net)
	assert.Equal(t, "db:3306", parsed.Addr)
	assert.Equal(t, "shareit", parsed.User)
	assert.Equal(t, "secret", parsed.Passwd)
	assert.Equal(t, "shareit", parsed.DBName)
	assert.True(t, parsed.ParseTime)
	assert.Equal(t, time.UTC, parsed.Loc)
	assert.True(t, parsed.ClientFoundRows)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pq.Error{Code: pqUniqueViolation}))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}))
	assert.True(t, isUniqueViolation(&mysql.MySQLError{Number: mysqlDuplicateEntry}))
	assert.False(t, isUniqueViolation(&mysql.MySQLError{Number: 1452}))
	assert.False(t, isUniqueViolation(io.EOF))

	db := setupTestDB(t)
	createUser(t, db, "Ann", "ann@example.com")
	_, err := db.insert(context.Background(), "users", map[string]interface{}{"name": "Dup", "email": "ann@example.com"})
	assert.True(t, isUniqueViolation(err))
}
