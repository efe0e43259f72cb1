package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Database configuration constants.
const (
	// dirPermissions is the permission mode for the database directory.
	dirPermissions = 0750

	// filePermissions is the permission mode for a database file this package creates.
	filePermissions = 0600

	// msPerSecond converts seconds to milliseconds.
	msPerSecond = 1000

	// connectionTimeout is the timeout for verifying database connectivity.
	connectionTimeout = 5 * time.Second

	// connMaxIdleTime is how long idle connections are kept open.
	connMaxIdleTime = 30 * time.Minute
)

// ErrNotFound is returned by Open in read-only mode when the file does not exist.
var ErrNotFound = errors.New("database: file not found")

// DB wraps a sql.DB connection with health checks and lifecycle management.
type DB struct {
	*sql.DB
	path     string
	readOnly bool
}

// Config contains database configuration options.
type Config struct {
	// Path is the filesystem path to the SQLite database file.
	Path string

	// ReadOnly opens an existing file without write access. The file is never
	// created and its directory is left alone.
	ReadOnly bool

	// BusyTimeout is the maximum time to wait for a database lock (seconds).
	BusyTimeout int
}

// Open creates a new database connection with the specified configuration.
//
// In read-write mode it creates the directory and the file as needed. In
// read-only mode the file must already exist; ErrNotFound is returned otherwise.
// The connection is verified with a ping before returning.
//
// Parameters:
//   - cfg: Database configuration
//
// Returns:
//   - *DB: Connected database wrapper
//   - error: ErrNotFound for a missing read-only file, or if connection fails
func Open(cfg Config) (*DB, error) {
	connStr, err := dsn(cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite only supports one writer; readers share the single connection too.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	db := &DB{
		DB:       sqlDB,
		path:     cfg.Path,
		readOnly: cfg.ReadOnly,
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		sqlDB.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("verifying database connection: %w", err)
	}

	if !cfg.ReadOnly {
		_ = os.Chmod(cfg.Path, filePermissions) //nolint:errcheck // File may not exist until the first write
	}

	return db, nil
}

// dsn builds the connection string with pragmas.
// See: https://github.com/mattn/go-sqlite3#connection-string
//
// The path is URI-escaped so that '?', '#' and '%' in a file name stay part of
// the path instead of starting the query or fragment.
func dsn(cfg Config) (string, error) {
	timeout := fmt.Sprintf("_busy_timeout=%d", cfg.BusyTimeout*msPerSecond)

	if cfg.ReadOnly {
		info, err := os.Stat(cfg.Path)
		if err != nil || info.IsDir() {
			return "", fmt.Errorf("%w: %s", ErrNotFound, cfg.Path)
		}
		return fileURI(cfg.Path, "mode=ro&"+timeout), nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), dirPermissions); err != nil {
		return "", fmt.Errorf("creating database directory: %w", err)
	}
	return fileURI(cfg.Path, timeout+"&_foreign_keys=on"), nil
}

// fileURI returns a "file:" URI for path with the given raw query.
func fileURI(path, query string) string {
	u := &url.URL{
		Scheme:   "file",
		OmitHost: true,
		Path:     filepath.ToSlash(path),
		RawQuery: query,
	}
	return u.String()
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.DB == nil {
		return nil
	}
	if err := db.DB.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}

// Path returns the filesystem path to the database file.
func (db *DB) Path() string {
	return db.path
}

// ReadOnly reports whether the connection was opened read-only.
func (db *DB) ReadOnly() bool {
	return db.readOnly
}

// HealthCheck verifies the database is accessible and functioning.
// It performs a simple query to ensure the connection is alive.
func (db *DB) HealthCheck(ctx context.Context) error {
	var result int
	err := db.QueryRowContext(ctx, "SELECT 1").Scan(&result)
	if err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}

// HasTable reports whether a table with the given name exists.
//
// Parameters:
//   - ctx: Context for cancellation
//   - name: Table name, matched exactly
//
// Returns:
//   - bool: True if the table exists
//   - error: If the schema query fails
func (db *DB) HasTable(ctx context.Context, name string) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking table %s: %w", name, err)
	}
	return count > 0, nil
}

// ExecContext executes a query that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	result, err := db.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}
	return result, nil
}

// QueryContext executes a query that returns rows.
// The caller must close the returned rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	rows, err := db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying: %w", err)
	}
	return rows, nil
}

// QueryRowContext executes a query that returns at most one row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.DB.QueryRowContext(ctx, query, args...)
}
