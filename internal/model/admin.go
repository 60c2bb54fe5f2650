package model

import "time"

// Admin is the single administrator identity permitted to mutate the catalog
// and its own credentials. Secrets are stored as bcrypt hashes.
type Admin struct {
	ID         string    `json:"id" db:"id"`
	Username   string    `json:"username" db:"username"`
	SecretHash string    `json:"-" db:"secret_hash"` // bcrypt hash, never expose
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
