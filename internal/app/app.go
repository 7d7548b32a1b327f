package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofrs/flock"

	"github.com/dori/ticklist/internal/config"
	"github.com/dori/ticklist/internal/db"
	"github.com/dori/ticklist/internal/notify"
	"github.com/dori/ticklist/internal/stats"
	"github.com/dori/ticklist/internal/store"
)

// ErrAlreadyRunning is returned when another TUI holds the instance lock.
var ErrAlreadyRunning = errors.New("another instance of ticklist is already running")

// App holds the application state and dependencies
type App struct {
	Config   *config.Config
	Store    store.Store
	Logger   *log.Logger
	Notifier *notify.Notifier
	Now      func() time.Time

	lockFile *flock.Flock
	logFile  *os.File
	closeDB  func() error
}

// Option adjusts how New builds the application
type Option func(*options)

type options struct {
	lock   bool
	now    func() time.Time
	logOut io.Writer
}

// WithLock takes the single-instance lock in the state directory.
func WithLock() Option {
	return func(o *options) { o.lock = true }
}

// WithClock sets the time source for the store and date handling.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLogOutput sends logs to w instead of the log file.
func WithLogOutput(w io.Writer) Option {
	return func(o *options) { o.logOut = w }
}

// New creates a new application instance from validated settings
func New(cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	app := &App{
		Config:   cfg,
		Notifier: notify.NewNotifier(cfg.Notifications),
		Now:      o.now,
	}

	if o.lock || (cfg.Debug && o.logOut == nil) {
		// Ensure state directory exists
		if err := os.MkdirAll(cfg.StateDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	if err := app.openLogger(o.logOut); err != nil {
		return nil, err
	}

	// Acquire lock to ensure single instance
	if o.lock {
		if err := app.acquireLock(); err != nil {
			app.closeLog()
			return nil, err
		}
	}

	if err := app.openStore(); err != nil {
		app.releaseLock()
		app.closeLog()
		return nil, err
	}

	app.Logger.Debug("started", "backend", cfg.Backend, "demo", cfg.Demo, "config", cfg.Path)
	return app, nil
}

// openLogger writes to the debug log file when debug is on and discards
// everything otherwise. The TUI owns the terminal.
func (a *App) openLogger(out io.Writer) error {
	w := io.Discard
	switch {
	case out != nil:
		w = out
	case a.Config.Debug:
		path := a.Config.LogPath()
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		a.logFile = f
		w = f
	}

	a.Logger = log.NewWithOptions(w, log.Options{
		Level:           a.Config.Level(),
		ReportTimestamp: true,
		Prefix:          "ticklist",
	})
	return nil
}

// openStore builds the configured backend and seeds demo data.
func (a *App) openStore() error {
	switch a.Config.Backend {
	case config.BackendSQLite:
		database, err := db.Open(db.WithClock(a.Now), db.WithLogger(a.Logger))
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		a.Store = database
		a.closeDB = database.Close
	default:
		mem := store.NewMemory(store.WithClock(a.Now), store.WithLogger(a.Logger))
		a.Store = mem
	}

	if a.Config.Demo {
		loader, ok := a.Store.(store.Loader)
		if !ok {
			return fmt.Errorf("backend %s cannot load demo data", a.Config.Backend)
		}
		if err := store.Seed(loader, a.Now()); err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
	}
	return nil
}

// NotifyDueToday sends a desktop reminder listing open tasks due today.
func (a *App) NotifyDueToday() error {
	titles := stats.DueTodayTitles(a.Store.Tasks(), a.Now())
	if err := a.Notifier.SendDueToday(titles); err != nil {
		a.Logger.Warn("notification failed", "err", err)
		return err
	}
	return nil
}

// acquireLock acquires an exclusive file lock to prevent multiple instances
func (a *App) acquireLock() error {
	lockPath := filepath.Join(a.Config.StateDir, "ticklist.lock")
	a.lockFile = flock.New(lockPath)

	locked, err := a.lockFile.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	if !locked {
		return ErrAlreadyRunning
	}

	return nil
}

// releaseLock releases the file lock
func (a *App) releaseLock() {
	if a.lockFile != nil {
		a.lockFile.Unlock()
	}
}

func (a *App) closeLog() error {
	if a.logFile == nil {
		return nil
	}
	err := a.logFile.Close()
	a.logFile = nil
	return err
}

// Close cleans up application resources
func (a *App) Close() error {
	var errs []error

	if a.closeDB != nil {
		if err := a.closeDB(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	a.releaseLock()

	if err := a.closeLog(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close log file: %w", err))
	}

	return errors.Join(errs...)
}
