package database

import (
	"database/sql"
	"errors"
	"fmt"

	"shareit/internal/domain"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// ErrConcurrentModification is returned when a conditional update matched no row.
var ErrConcurrentModification = errors.New("concurrent modification")

const (
	pqUniqueViolation   = "23505"
	mysqlDuplicateEntry = 1062
)

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDuplicateEntry
	}
	return false
}

// notFound maps sql.ErrNoRows to a domain NotFound error and wraps anything else.
func notFound(err error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound(msg + " not found")
	}
	return fmt.Errorf("failed to get %s: %w", msg, err)
}
