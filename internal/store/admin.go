package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cinevault/cinevault/internal/model"
)

// adminRow maps 1:1 to the admins table. The singleton column is fixed to 1
// and UNIQUE, making "at most one administrator" a structural constraint.
type adminRow struct {
	ID         string    `db:"id"`
	Username   string    `db:"username"`
	SecretHash string    `db:"secret_hash"`
	Singleton  int       `db:"singleton"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r adminRow) toModel() model.Admin {
	return model.Admin{
		ID:         r.ID,
		Username:   r.Username,
		SecretHash: r.SecretHash,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// InsertAdminIfAbsent atomically creates the administrator identity unless one
// already exists. It reports whether a row was inserted. Concurrent callers
// converge on a single winner through the singleton unique constraint.
func (s *Store) InsertAdminIfAbsent(ctx context.Context, username, secretHash string) (bool, error) {
	now := time.Now().UTC()
	row := adminRow{
		ID:         uuid.Must(uuid.NewV7()).String(),
		Username:   username,
		SecretHash: secretHash,
		Singleton:  1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	q := `INSERT INTO admins (id, username, secret_hash, singleton, created_at, updated_at)
		VALUES (:id, :username, :secret_hash, :singleton, :created_at, :updated_at)
		ON CONFLICT (singleton) DO NOTHING`
	if s.driver == "mysql" {
		q = `INSERT IGNORE INTO admins (id, username, secret_hash, singleton, created_at, updated_at)
			VALUES (:id, :username, :secret_hash, :singleton, :created_at, :updated_at)`
	}

	result, err := s.db.NamedExecContext(ctx, q, row)
	if err != nil {
		return false, fmt.Errorf("insert admin: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert admin rows affected: %w", err)
	}
	return n > 0, nil
}

// GetAdminByUsername returns the admin with the given (already normalized)
// username.
func (s *Store) GetAdminByUsername(ctx context.Context, username string) (*model.Admin, error) {
	var row adminRow
	err := s.db.GetContext(ctx, &row, s.rebind("SELECT * FROM admins WHERE username = ?"), username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get admin by username: %w", err)
	}
	admin := row.toModel()
	return &admin, nil
}

// GetAdmin returns the admin with the given ID.
func (s *Store) GetAdmin(ctx context.Context, id string) (*model.Admin, error) {
	var row adminRow
	err := s.db.GetContext(ctx, &row, s.rebind("SELECT * FROM admins WHERE id = ?"), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get admin: %w", err)
	}
	admin := row.toModel()
	return &admin, nil
}

// FirstAdmin returns the administrator identity, or ErrNotFound if none
// exists. Used by the status endpoint.
func (s *Store) FirstAdmin(ctx context.Context) (*model.Admin, error) {
	var row adminRow
	err := s.db.GetContext(ctx, &row, "SELECT * FROM admins ORDER BY created_at LIMIT 1")
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("first admin: %w", err)
	}
	admin := row.toModel()
	return &admin, nil
}

// CountAdmins returns the number of administrator identities.
func (s *Store) CountAdmins(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM admins"); err != nil {
		return 0, fmt.Errorf("count admins: %w", err)
	}
	return count, nil
}

// UpdateAdmin persists a credential rotation. The UpdatedAt field on admin is
// refreshed automatically. Returns ErrConflict if the new username collides.
func (s *Store) UpdateAdmin(ctx context.Context, admin *model.Admin) error {
	admin.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx,
		s.rebind("UPDATE admins SET username = ?, secret_hash = ?, updated_at = ? WHERE id = ?"),
		admin.Username, admin.SecretHash, admin.UpdatedAt, admin.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("update admin: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update admin rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAllAdmins removes every administrator identity. Debug-only; the
// single-identity invariant is restored by the next bootstrap run.
func (s *Store) DeleteAllAdmins(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM admins"); err != nil {
		return fmt.Errorf("delete admins: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether err is a unique-constraint error from any
// of the supported drivers.
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}
