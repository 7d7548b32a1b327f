// Package db is a task store backed by a private in-memory SQLite database.
// The database lives exactly as long as the DB value; nothing is written to
// disk.
package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/dori/ticklist/internal/model"
	"github.com/dori/ticklist/internal/store"
)

//go:embed migrations/*.sql
var migrations embed.FS

// dsn opens an anonymous in-memory database. Every connection to ":memory:"
// gets its own database, so the pool is pinned to a single connection.
const dsn = "file::memory:?_foreign_keys=ON&_busy_timeout=5000"

// DB wraps the SQL database connection
type DB struct {
	*sql.DB

	mu       sync.Mutex
	rev      uint64
	snapshot []model.Task
	snapRev  uint64
	tags     []string
	tagsRev  uint64

	now    func() time.Time
	newID  func() string
	logger *log.Logger
}

var _ store.Store = (*DB)(nil)
var _ store.Loader = (*DB)(nil)

// Option configures a DB
type Option func(*DB)

// WithClock sets the time source used for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(db *DB) { db.now = now }
}

// WithIDGenerator sets the identifier source.
func WithIDGenerator(newID func() string) Option {
	return func(db *DB) { db.newID = newID }
}

// WithLogger sets the logger used for mutation traces and migrations.
func WithLogger(logger *log.Logger) Option {
	return func(db *DB) { db.logger = logger }
}

// Open opens a fresh in-memory database and runs migrations
func Open(opts ...Option) (*DB, error) {
	db := &DB{
		now:    time.Now,
		newID:  uuid.NewString,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(db)
	}

	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Closing the only connection would drop the database.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	sqlDB.SetConnMaxIdleTime(0)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	db.DB = sqlDB

	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// migrate runs database migrations using embedded SQL files
func (db *DB) migrate() error {
	// goose logs through our logger so it never writes over the TUI
	goose.SetLogger(db.logger)
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	if err := goose.Up(db.DB, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Close closes the database connection, discarding all data
func (db *DB) Close() error {
	return db.DB.Close()
}

// Transaction executes a function within a transaction
func (db *DB) Transaction(fn func(*sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// Revision increases on every mutation that changed a row.
func (db *DB) Revision() uint64 {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.rev
}

func (db *DB) bump() uint64 {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.rev++
	return db.rev
}

// errNoRow aborts a transaction whose target row does not exist.
var errNoRow = errors.New("no such task")

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
