package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Config controls how the durable store connection is established.
type Config struct {
	// DSN is the database connection string. The driver is inferred from it
	// unless Driver is set explicitly: "postgres://" selects pgx, a DSN with
	// "@tcp(" selects mysql (append parseTime=true for timestamp scanning),
	// everything else selects the embedded sqlite driver. Pass ":memory:" for
	// an in-process store.
	DSN    string
	Driver string

	// ConnectTimeout bounds the initial connection attempt (default 10s).
	ConnectTimeout time.Duration
	// ConnMaxIdleTime closes idle connections after this long (default 45s).
	ConnMaxIdleTime time.Duration
	MaxOpenConns    int

	// RetryAttempts is the total number of connection attempts OpenWithRetry
	// makes before giving up (default 4). RetryInterval is the fixed wait
	// between attempts (default 5s).
	RetryAttempts int
	RetryInterval time.Duration
}

// DefaultConfig returns a Config with the production connection policy.
func DefaultConfig(dsn string) Config {
	return Config{
		DSN:             dsn,
		ConnectTimeout:  10 * time.Second,
		ConnMaxIdleTime: 45 * time.Second,
		MaxOpenConns:    25,
		RetryAttempts:   4,
		RetryInterval:   5 * time.Second,
	}
}

// Store persists the administrator identity, the movie catalog, and the
// visitor counter. It is the single shared storage handle for the process;
// the supervisor owns its lifecycle (Open / Close).
type Store struct {
	db     *sqlx.DB
	driver string
}

// Open establishes the database connection, verifies it with a ping bounded
// by cfg.ConnectTimeout, and runs idempotent migrations.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = inferDriver(cfg.DSN)
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	db, err := sqlx.ConnectContext(connectCtx, driver, normalizeDSN(driver, cfg.DSN))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if driver == "sqlite" {
		db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes
	} else if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	s := &Store{db: db, driver: driver}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return s, nil
}

// OpenWithRetry calls Open up to cfg.RetryAttempts times, waiting
// cfg.RetryInterval between attempts. The service must not begin accepting
// requests until this succeeds; exhaustion is a fatal startup error.
func OpenWithRetry(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	attempts := cfg.RetryAttempts
	if attempts <= 0 {
		attempts = 4
	}
	interval := cfg.RetryInterval

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		s, err := Open(ctx, cfg)
		if err == nil {
			if attempt > 1 {
				logger.Info("database connected", "attempt", attempt)
			}
			return s, nil
		}
		lastErr = err
		logger.Warn("database connection failed",
			"attempt", attempt,
			"max_attempts", attempts,
			"error", err,
		)

		if attempt == attempts {
			break
		}
		select {
		case <-time.After(interval):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("connect database after %d attempts: %w", attempts, lastErr)
}

// Driver returns the name of the SQL driver in use.
func (s *Store) Driver() string {
	return s.driver
}

// Ping verifies the connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// MonitorConnectivity pings the store on the given interval and logs
// connected/disconnected/reconnected transitions until ctx is cancelled.
// The transitions are diagnostic only; request admission is not gated on
// them, so writes racing a dead connection surface as per-request errors.
func (s *Store) MonitorConnectivity(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	connected := true
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		pingCtx, cancel := context.WithTimeout(ctx, interval)
		err := s.db.PingContext(pingCtx)
		cancel()

		switch {
		case err != nil && connected:
			connected = false
			logger.Error("database disconnected", "error", err)
		case err == nil && !connected:
			connected = true
			logger.Info("database reconnected")
		}
	}
}

// rebind converts "?" placeholders to the driver's bindvar style.
func (s *Store) rebind(query string) string {
	return s.db.Rebind(query)
}

func inferDriver(dsn string) string {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return "pgx"
	case strings.HasPrefix(dsn, "mysql://"), strings.Contains(dsn, "@tcp("):
		return "mysql"
	default:
		return "sqlite"
	}
}

func normalizeDSN(driver, dsn string) string {
	switch driver {
	case "mysql":
		// Accept URL-style DSNs for consistency with the other drivers.
		return strings.TrimPrefix(dsn, "mysql://")
	case "sqlite":
		if dsn == "" || dsn == ":memory:" {
			return ":memory:?_journal_mode=WAL"
		}
		return strings.TrimPrefix(dsn, "sqlite:")
	default:
		return dsn
	}
}
