package auth

import (
	"context"
	"testing"
	"time"

	"github.com/moneta-app/moneta/internal/config"
	"github.com/moneta-app/moneta/internal/identity"
)

func testConfig() config.Config {
	return config.Config{
		JWTSecret:       "test-secret",
		RefreshSecret:   "test-refresh-secret",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
	}
}

func TestLoginIssuesVerifiableTokens(t *testing.T) {
	repo := identity.NewMemoryRepository()
	ids := identity.NewService(repo)
	svc := NewService(testConfig(), repo)

	user, err := ids.Register(context.Background(), identity.Credentials{Email: "anna@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	pair, err := svc.Login(user)
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := Verify(pair.AccessToken, []byte("test-secret"))
	if err != nil {
		t.Fatalf("verify access token: %v", err)
	}
	if claims.Subject != user.ID {
		t.Fatalf("expected subject %s, got %s", user.ID, claims.Subject)
	}

	if _, err := Verify(pair.AccessToken, []byte("wrong-secret")); err == nil {
		t.Fatalf("expected signature mismatch")
	}
}

func TestLogoutInvalidatesRefresh(t *testing.T) {
	repo := identity.NewMemoryRepository()
	ids := identity.NewService(repo)
	svc := NewService(testConfig(), repo)
	ctx := context.Background()

	user, err := ids.Register(ctx, identity.Credentials{Email: "bob@example.com", Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	pair, err := svc.Login(user)
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, _, err := svc.Refresh(ctx, pair.RefreshToken); err != nil {
		t.Fatalf("refresh before logout: %v", err)
	}

	if err := svc.Logout(ctx, user.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if _, _, err := svc.Refresh(ctx, pair.RefreshToken); err == nil {
		t.Fatalf("expected refresh to fail after logout")
	}
}
