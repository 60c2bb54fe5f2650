package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// IncrementVisitors bumps the visitor counter by one. The counter is a single
// row with a fixed key, created on first use; the increment is a single atomic
// upsert so concurrent tracks never lose counts.
func (s *Store) IncrementVisitors(ctx context.Context) error {
	now := time.Now().UTC()

	q := `INSERT INTO visitors (singleton, count, last_updated) VALUES (1, 1, ?)
		ON CONFLICT (singleton) DO UPDATE SET count = visitors.count + 1, last_updated = excluded.last_updated`
	if s.driver == "mysql" {
		q = `INSERT INTO visitors (singleton, count, last_updated) VALUES (1, 1, ?)
			ON DUPLICATE KEY UPDATE count = count + 1, last_updated = VALUES(last_updated)`
	}

	if _, err := s.db.ExecContext(ctx, s.rebind(q), now); err != nil {
		return fmt.Errorf("increment visitors: %w", err)
	}
	return nil
}

// VisitorCount returns the current visitor count, zero if never tracked.
func (s *Store) VisitorCount(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count, "SELECT count FROM visitors WHERE singleton = 1")
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("visitor count: %w", err)
	}
	return count, nil
}
