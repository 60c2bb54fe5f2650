package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cinevault/cinevault/internal/model"
)

// movieRow maps 1:1 to the movies table. The links_json column stores the
// JSON-encoded model.DownloadLinks.
type movieRow struct {
	ID        string    `db:"id"`
	Title     string    `db:"title"`
	PosterURL string    `db:"poster_url"`
	Category  string    `db:"category"`
	LinksJSON string    `db:"links_json"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func movieRowFromModel(m *model.Movie) (movieRow, error) {
	linksJSON, err := json.Marshal(m.DownloadLinks)
	if err != nil {
		return movieRow{}, fmt.Errorf("marshal download links: %w", err)
	}
	return movieRow{
		ID:        m.ID,
		Title:     m.Title,
		PosterURL: m.PosterURL,
		Category:  m.Category,
		LinksJSON: string(linksJSON),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

func (r movieRow) toModel() (model.Movie, error) {
	var links model.DownloadLinks
	if err := json.Unmarshal([]byte(r.LinksJSON), &links); err != nil {
		return model.Movie{}, fmt.Errorf("unmarshal download links: %w", err)
	}
	return model.Movie{
		ID:            r.ID,
		Title:         r.Title,
		PosterURL:     r.PosterURL,
		Category:      r.Category,
		DownloadLinks: links,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}, nil
}

// CreateMovie inserts a new catalog entry. The ID, CreatedAt, and UpdatedAt
// fields on m are populated after a successful insert.
func (s *Store) CreateMovie(ctx context.Context, m *model.Movie) error {
	now := time.Now().UTC()
	m.ID = uuid.Must(uuid.NewV7()).String()
	m.CreatedAt = now
	m.UpdatedAt = now

	row, err := movieRowFromModel(m)
	if err != nil {
		return err
	}

	const q = `INSERT INTO movies (id, title, poster_url, category, links_json, created_at, updated_at)
		VALUES (:id, :title, :poster_url, :category, :links_json, :created_at, :updated_at)`
	if _, err := s.db.NamedExecContext(ctx, q, row); err != nil {
		return fmt.Errorf("insert movie: %w", err)
	}
	return nil
}

// GetMovie returns a catalog entry by ID.
func (s *Store) GetMovie(ctx context.Context, id string) (*model.Movie, error) {
	var row movieRow
	err := s.db.GetContext(ctx, &row, s.rebind("SELECT * FROM movies WHERE id = ?"), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get movie: %w", err)
	}
	m, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMovies returns all catalog entries, newest first.
func (s *Store) ListMovies(ctx context.Context) ([]model.Movie, error) {
	var rows []movieRow
	if err := s.db.SelectContext(ctx, &rows, "SELECT * FROM movies ORDER BY created_at DESC"); err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}

	movies := make([]model.Movie, 0, len(rows))
	for _, r := range rows {
		m, err := r.toModel()
		if err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, nil
}

// UpdateMovie replaces an existing catalog entry. The UpdatedAt field on m is
// refreshed automatically.
func (s *Store) UpdateMovie(ctx context.Context, m *model.Movie) error {
	m.UpdatedAt = time.Now().UTC()

	row, err := movieRowFromModel(m)
	if err != nil {
		return err
	}

	const q = `UPDATE movies SET title = :title, poster_url = :poster_url, category = :category,
		links_json = :links_json, updated_at = :updated_at WHERE id = :id`
	result, err := s.db.NamedExecContext(ctx, q, row)
	if err != nil {
		return fmt.Errorf("update movie: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update movie rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMovie removes a catalog entry by ID.
func (s *Store) DeleteMovie(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, s.rebind("DELETE FROM movies WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete movie rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
