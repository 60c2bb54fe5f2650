package model

import (
	"strings"
	"time"
)

// DownloadLinks holds the download URL for each quality tier. The three fixed
// tiers are required on every movie; Extra carries any additional qualities.
type DownloadLinks struct {
	Q720  string            `json:"720p"`
	Q1080 string            `json:"1080p"`
	Q1440 string            `json:"1440p"`
	Extra map[string]string `json:"extra,omitempty"`
}

// Complete reports whether all three required quality tiers are present.
func (l DownloadLinks) Complete() bool {
	return l.Q720 != "" && l.Q1080 != "" && l.Q1440 != ""
}

// Movie is a downloadable catalog entry.
type Movie struct {
	ID            string        `json:"id" db:"id"`
	Title         string        `json:"title" db:"title"`
	PosterURL     string        `json:"posterUrl" db:"poster_url"`
	Category      string        `json:"category" db:"category"`
	DownloadLinks DownloadLinks `json:"downloadLinks" db:"-"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}

// Normalize trims whitespace from the user-supplied text fields.
func (m *Movie) Normalize() {
	m.Title = strings.TrimSpace(m.Title)
	m.PosterURL = strings.TrimSpace(m.PosterURL)
	m.Category = strings.TrimSpace(m.Category)
}

// MissingFields returns the names of required fields that are empty.
func (m *Movie) MissingFields() []string {
	var missing []string
	if m.Title == "" {
		missing = append(missing, "title")
	}
	if m.PosterURL == "" {
		missing = append(missing, "posterUrl")
	}
	if m.Category == "" {
		missing = append(missing, "category")
	}
	return missing
}
