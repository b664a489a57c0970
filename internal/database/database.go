package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"shareit/internal/config"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql"    // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect registration
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

const (
	defaultMaxOpenConnections = 10
	defaultMaxIdleConnections = 5
	connMaxLifetime           = 30 * time.Minute

	// sqliteDriverName is go-sqlite3 with a Unicode-aware lower(); the
	// built-in one folds ASCII only.
	sqliteDriverName = "sqlite3_shareit"
)

func init() {
	sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("lower", strings.ToLower, true)
		},
	})
	sqlx.BindDriver(sqliteDriverName, sqlx.QUESTION)
}

// DB is the storage for users, items, bookings, comments and requests.
// It implements every repository interface in the domain package.
type DB struct {
	*sqlx.DB
	driver  string
	dialect goqu.DialectWrapper
	logger  *zerolog.Logger
}

func NewDB(cfg config.DatabaseConfig, logger *zerolog.Logger) (*DB, error) {
	driver, dsn, err := dataSource(cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := sqlx.Open(openName(driver), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == config.DriverSQLite {
		// sqlite serialises writers; a single connection avoids SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
	} else {
		maxOpen := cfg.Postgres.MaxConnections
		if driver == config.DriverMySQL {
			maxOpen = cfg.MySQL.MaxConnections
		}
		if maxOpen <= 0 {
			maxOpen = defaultMaxOpenConnections
		}
		sqlDB.SetMaxOpenConns(maxOpen)
		sqlDB.SetMaxIdleConns(defaultMaxIdleConnections)
		sqlDB.SetConnMaxLifetime(connMaxLifetime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := &DB{
		DB:      sqlDB,
		driver:  driver,
		dialect: goqu.Dialect(driver),
		logger:  logger,
	}

	if err := db.migrate(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	if logger != nil {
		logger.Info().Str("driver", driver).Msg("database initialized")
	}
	return db, nil
}

func dataSource(cfg config.DatabaseConfig) (driver, dsn string, err error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return config.DriverPostgres, cfg.Postgres.DSN(), nil
	case config.DriverMySQL:
		return config.DriverMySQL, mysqlDSN(cfg.MySQL), nil
	case config.DriverSQLite, "":
		if cfg.Path == "" {
			return "", "", fmt.Errorf("database path is required")
		}
		if cfg.Path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
				return "", "", fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		return config.DriverSQLite, cfg.Path + "?_foreign_keys=on&_busy_timeout=5000", nil
	default:
		return "", "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func openName(driver string) string {
	if driver == config.DriverSQLite {
		return sqliteDriverName
	}
	return driver
}

// mysqlDSN keeps DATETIME columns in UTC and scans them into time.Time.
// ClientFoundRows makes RowsAffected count matched rows like the other drivers.
func mysqlDSN(cfg config.MySQLConfig) string {
	mc := mysql.NewConfig()
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.DBName = cfg.DBName
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.ClientFoundRows = true
	return mc.FormatDSN()
}

func (db *DB) migrate(ctx context.Context) error {
	var statements []string
	switch db.driver {
	case config.DriverPostgres:
		statements = postgresSchema
	case config.DriverMySQL:
		statements = mysqlSchema
	default:
		statements = sqliteSchema
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("error executing query %s: %w", stmt, err)
		}
	}
	return nil
}

// Driver reports the sql driver name in use.
func (db *DB) Driver() string {
	return db.driver
}

// Ping checks the connection for readiness probes.
func (db *DB) Ping(ctx context.Context) error {
	return db.PingContext(ctx)
}

type sqlBuilder interface {
	ToSQL() (string, []interface{}, error)
}

func build(b sqlBuilder) (string, []interface{}, error) {
	query, args, err := b.ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("failed to build query: %w", err)
	}
	return query, args, nil
}

func (db *DB) from(table interface{}) *goqu.SelectDataset {
	return db.dialect.From(table).Prepared(true)
}

// insert writes one row and returns its generated id. Only postgres gets
// RETURNING; goqu's sqlite3 and mysql dialects rely on LastInsertId.
func (db *DB) insert(ctx context.Context, table string, rec goqu.Record) (int64, error) {
	ds := db.dialect.Insert(table).Rows(rec).Prepared(true)

	if db.driver == config.DriverPostgres {
		query, args, err := build(ds.Returning("id"))
		if err != nil {
			return 0, err
		}
		var id int64
		if err := db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	query, args, err := build(ds)
	if err != nil {
		return 0, err
	}
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// exec runs an update or delete and returns the affected row count.
func (db *DB) exec(ctx context.Context, b sqlBuilder) (int64, error) {
	query, args, err := build(b)
	if err != nil {
		return 0, err
	}
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (db *DB) exists(ctx context.Context, table string, id int64) (bool, error) {
	query, args, err := build(db.from(table).Select(goqu.COUNT("*")).Where(goqu.Ex{"id": id}))
	if err != nil {
		return false, err
	}
	var count int
	if err := db.GetContext(ctx, &count, query, args...); err != nil {
		return false, err
	}
	return count > 0, nil
}

func utc(t time.Time) time.Time {
	return t.UTC()
}
