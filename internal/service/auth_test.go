package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cinevault/cinevault/internal/model"
	"github.com/cinevault/cinevault/internal/store"
)

func newTestAuth(t *testing.T) (*AuthService, *store.Store) {
	t.Helper()
	st, err := store.Open(context.Background(), store.DefaultConfig(":memory:"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	auth := NewAuthService(st, "test-secret-key-for-jwt")
	return auth, st
}

func TestHashAndVerifySecret(t *testing.T) {
	hash, err := HashSecret("secret1")
	if err != nil {
		t.Fatalf("HashSecret: %v", err)
	}
	if hash == "secret1" {
		t.Fatal("hash must not equal the plaintext")
	}

	admin := &model.Admin{SecretHash: hash}
	if !VerifySecret(admin, "secret1") {
		t.Error("VerifySecret should accept the original secret")
	}
	if VerifySecret(admin, "secret1x") {
		t.Error("VerifySecret should reject a modified secret")
	}
}

func TestHashSecretPerIdentitySalt(t *testing.T) {
	h1, err := HashSecret("secret1")
	if err != nil {
		t.Fatalf("HashSecret: %v", err)
	}
	h2, err := HashSecret("secret1")
	if err != nil {
		t.Fatalf("HashSecret: %v", err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same secret should differ (randomized salt)")
	}
}

func TestHashSecretLengthBoundary(t *testing.T) {
	if _, err := HashSecret("12345"); !errors.Is(err, ErrSecretTooShort) {
		t.Errorf("5-char secret: got %v, want ErrSecretTooShort", err)
	}
	if _, err := HashSecret("123456"); err != nil {
		t.Errorf("6-char secret: got %v, want nil", err)
	}
}

func TestEnsureDefaultAdminIdempotent(t *testing.T) {
	auth, st := newTestAuth(t)
	ctx := context.Background()

	created, err := auth.EnsureDefaultAdmin(ctx)
	if err != nil {
		t.Fatalf("EnsureDefaultAdmin: %v", err)
	}
	if !created {
		t.Error("first run should create the default admin")
	}

	created, err = auth.EnsureDefaultAdmin(ctx)
	if err != nil {
		t.Fatalf("EnsureDefaultAdmin (second run): %v", err)
	}
	if created {
		t.Error("second run should be a no-op")
	}

	count, err := st.CountAdmins(ctx)
	if err != nil {
		t.Fatalf("CountAdmins: %v", err)
	}
	if count != 1 {
		t.Errorf("admin count = %d, want 1", count)
	}
}

func TestLoginCaseNormalized(t *testing.T) {
	auth, _ := newTestAuth(t)
	ctx := context.Background()

	if _, err := auth.EnsureDefaultAdmin(ctx); err != nil {
		t.Fatalf("EnsureDefaultAdmin: %v", err)
	}

	admin, token, err := auth.Login(ctx, "Admin", DefaultAdminSecret)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if admin.Username != "admin" {
		t.Errorf("Username = %q, want %q", admin.Username, "admin")
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	if _, _, err := auth.Login(ctx, "admin", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := auth.Login(ctx, "nobody", DefaultAdminSecret); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown username: got %v, want ErrInvalidCredentials", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	auth, _ := newTestAuth(t)
	ctx := context.Background()

	if _, err := auth.EnsureDefaultAdmin(ctx); err != nil {
		t.Fatalf("EnsureDefaultAdmin: %v", err)
	}
	admin, err := auth.store.GetAdminByUsername(ctx, "admin")
	if err != nil {
		t.Fatalf("GetAdminByUsername: %v", err)
	}

	token, err := auth.IssueToken(admin)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	subject, err := auth.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if subject != admin.ID {
		t.Errorf("subject = %q, want %q", subject, admin.ID)
	}
}

func TestTokenExpiryWindow(t *testing.T) {
	auth, _ := newTestAuth(t)

	// Issued just inside the 24h window: still valid.
	token, err := auth.issueTokenAt("admin-id", time.Now().Add(-23*time.Hour-59*time.Minute))
	if err != nil {
		t.Fatalf("issueTokenAt: %v", err)
	}
	if _, err := auth.VerifyToken(token); err != nil {
		t.Errorf("token at 23h59m: got %v, want valid", err)
	}

	// Issued just outside the window: expired.
	token, err = auth.issueTokenAt("admin-id", time.Now().Add(-24*time.Hour-time.Second))
	if err != nil {
		t.Fatalf("issueTokenAt: %v", err)
	}
	if _, err := auth.VerifyToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("token at 24h1s: got %v, want ErrInvalidToken", err)
	}
}

func TestVerifyTokenRejectsGarbageAndForgeries(t *testing.T) {
	auth, _ := newTestAuth(t)

	if _, err := auth.VerifyToken("garbage.token.here"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage token: got %v, want ErrInvalidToken", err)
	}
	if _, err := auth.VerifyToken(""); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("empty token: got %v, want ErrInvalidToken", err)
	}

	// A token signed with a different key must not verify.
	other := &AuthService{jwtSecret: []byte("a-different-secret")}
	forged, err := other.issueTokenAt("admin-id", time.Now())
	if err != nil {
		t.Fatalf("issueTokenAt: %v", err)
	}
	if _, err := auth.VerifyToken(forged); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("forged token: got %v, want ErrInvalidToken", err)
	}
}

func TestRotateCredentials(t *testing.T) {
	auth, st := newTestAuth(t)
	ctx := context.Background()

	if _, err := auth.EnsureDefaultAdmin(ctx); err != nil {
		t.Fatalf("EnsureDefaultAdmin: %v", err)
	}
	admin, err := st.GetAdminByUsername(ctx, "admin")
	if err != nil {
		t.Fatalf("GetAdminByUsername: %v", err)
	}

	// Wrong current password leaves the identity unchanged.
	if _, err := auth.RotateCredentials(ctx, admin.ID, "wrong", "", "newsecret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong current secret: got %v, want ErrInvalidCredentials", err)
	}
	unchanged, err := st.GetAdmin(ctx, admin.ID)
	if err != nil {
		t.Fatalf("GetAdmin: %v", err)
	}
	if unchanged.SecretHash != admin.SecretHash {
		t.Error("secret hash changed despite failed verification")
	}

	// Short new password is rejected.
	if _, err := auth.RotateCredentials(ctx, admin.ID, DefaultAdminSecret, "", "12345"); !errors.Is(err, ErrSecretTooShort) {
		t.Fatalf("short new secret: got %v, want ErrSecretTooShort", err)
	}

	// Rotating both fields re-hashes and normalizes.
	rotated, err := auth.RotateCredentials(ctx, admin.ID, DefaultAdminSecret, " Operator ", "newsecret")
	if err != nil {
		t.Fatalf("RotateCredentials: %v", err)
	}
	if rotated.Username != "operator" {
		t.Errorf("Username = %q, want %q", rotated.Username, "operator")
	}
	if rotated.SecretHash == admin.SecretHash {
		t.Error("secret hash should change after rotation")
	}

	if _, _, err := auth.Login(ctx, "operator", "newsecret"); err != nil {
		t.Errorf("login with rotated credentials: %v", err)
	}
	if _, _, err := auth.Login(ctx, "admin", DefaultAdminSecret); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("login with old credentials: got %v, want ErrInvalidCredentials", err)
	}
}
