package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/cinevault/cinevault/internal/model"
	"github.com/cinevault/cinevault/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrSecretTooShort     = errors.New("password must be at least 6 characters long")
)

const (
	// MinSecretLength is the minimum administrator password length.
	MinSecretLength = 6

	// DefaultAdminUsername and DefaultAdminSecret are the well-known bootstrap
	// credentials. They are documented, not secret; operators are expected to
	// rotate them immediately after first login.
	DefaultAdminUsername = "admin"
	DefaultAdminSecret   = "admin123"

	// TokenTTL is the fixed validity window of issued access tokens. Tokens
	// are stateless, so there is no revocation before natural expiry.
	TokenTTL = 24 * time.Hour
)

// AuthService owns the administrator credential lifecycle and the access
// token lifecycle. Secrets are bcrypt-hashed (randomized per-identity salt,
// constant-time comparison); tokens are HS256 JWTs signed with the
// process-wide secret, immutable after start.
type AuthService struct {
	store     *store.Store
	jwtSecret []byte
}

// NewAuthService creates an AuthService backed by the given store.
func NewAuthService(st *store.Store, jwtSecret string) *AuthService {
	return &AuthService{
		store:     st,
		jwtSecret: []byte(jwtSecret),
	}
}

// NormalizeUsername lowercases and trims a username for storage and lookup.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// HashSecret bcrypt-hashes a plaintext secret after validating its length.
func HashSecret(secret string) (string, error) {
	if len(secret) < MinSecretLength {
		return "", ErrSecretTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash secret: %w", err)
	}
	return string(hash), nil
}

// VerifySecret compares a candidate plaintext against the stored hash in
// constant time.
func VerifySecret(admin *model.Admin, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(admin.SecretHash), []byte(candidate)) == nil
}

// EnsureDefaultAdmin guarantees exactly one administrator identity exists,
// creating the well-known default when none does. The underlying insert is
// atomic, so concurrent invocations converge on a single identity. Reports
// whether a new identity was created.
func (s *AuthService) EnsureDefaultAdmin(ctx context.Context) (bool, error) {
	hash, err := HashSecret(DefaultAdminSecret)
	if err != nil {
		return false, err
	}
	return s.store.InsertAdminIfAbsent(ctx, DefaultAdminUsername, hash)
}

// Login verifies the supplied credentials and issues an access token. The
// username comparison is case-normalized. Unknown usernames and wrong
// passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.Admin, string, error) {
	admin, err := s.store.GetAdminByUsername(ctx, NormalizeUsername(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !VerifySecret(admin, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.IssueToken(admin)
	if err != nil {
		return nil, "", err
	}
	return admin, token, nil
}

// RotateCredentials updates the administrator's username and/or secret after
// verifying the current secret. The secret is re-hashed on change; the stored
// identity is untouched when verification fails.
func (s *AuthService) RotateCredentials(ctx context.Context, adminID, currentSecret, newUsername, newSecret string) (*model.Admin, error) {
	admin, err := s.store.GetAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}

	if !VerifySecret(admin, currentSecret) {
		return nil, ErrInvalidCredentials
	}

	if newUsername != "" {
		admin.Username = NormalizeUsername(newUsername)
	}
	if newSecret != "" {
		hash, err := HashSecret(newSecret)
		if err != nil {
			return nil, err
		}
		admin.SecretHash = hash
	}

	if err := s.store.UpdateAdmin(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// IssueToken creates a signed access token bound to the administrator
// identity, valid for TokenTTL from now.
func (s *AuthService) IssueToken(admin *model.Admin) (string, error) {
	return s.issueTokenAt(admin.ID, time.Now())
}

func (s *AuthService) issueTokenAt(adminID string, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   adminID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		Issuer:    "cinevault",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// VerifyToken checks a token string and returns the administrator ID it is
// bound to. Verification is a local cryptographic check; no storage access.
// Malformed encoding, bad signatures, and expired tokens all fail with
// ErrInvalidToken.
func (s *AuthService) VerifyToken(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
