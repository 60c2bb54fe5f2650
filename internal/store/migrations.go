package store

import "fmt"

func (s *Store) migrate() error {
	for _, m := range s.migrations() {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// migrations returns the DDL for the current driver. The admins table carries
// a singleton column fixed to 1 with a UNIQUE constraint, so bootstrap can be
// a single atomic insert-if-absent instead of a racy count-then-create.
func (s *Store) migrations() []string {
	timestamp := "DATETIME"
	if s.driver == "pgx" {
		timestamp = "TIMESTAMPTZ"
	}

	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS admins (
			id VARCHAR(36) PRIMARY KEY,
			username VARCHAR(255) UNIQUE NOT NULL,
			secret_hash VARCHAR(255) NOT NULL,
			singleton INTEGER UNIQUE NOT NULL DEFAULT 1,
			created_at %s NOT NULL,
			updated_at %s NOT NULL
		)`, timestamp, timestamp),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS movies (
			id VARCHAR(36) PRIMARY KEY,
			title VARCHAR(512) NOT NULL,
			poster_url TEXT NOT NULL,
			category VARCHAR(255) NOT NULL,
			links_json TEXT NOT NULL,
			created_at %s NOT NULL,
			updated_at %s NOT NULL
		)`, timestamp, timestamp),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS visitors (
			singleton INTEGER PRIMARY KEY,
			count BIGINT NOT NULL DEFAULT 0,
			last_updated %s NOT NULL
		)`, timestamp),
	}
}
