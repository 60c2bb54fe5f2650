package model

import "time"

// VisitorCounter is the single-row visit counter for the public site.
type VisitorCounter struct {
	Count       int64     `json:"count" db:"count"`
	LastUpdated time.Time `json:"last_updated" db:"last_updated"`
}
