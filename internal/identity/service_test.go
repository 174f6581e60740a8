package identity

import (
	"context"
	"testing"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)

	ctx := context.Background()
	user, err := svc.Register(ctx, Credentials{Email: "Anna@Example.com", Password: "correct-horse", Name: "Anna"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "anna@example.com" {
		t.Fatalf("expected normalized email, got %s", user.Email)
	}

	authed, err := svc.Authenticate(ctx, Credentials{Email: "anna@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if authed.ID != user.ID {
		t.Fatalf("expected user %s, got %s", user.ID, authed.ID)
	}
}

func TestAuthenticateWrongPassword(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, Credentials{Email: "bob@example.com", Password: "hunter2hunter2"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Authenticate(ctx, Credentials{Email: "bob@example.com", Password: "wrong-password"}); err == nil {
		t.Fatalf("expected authentication failure")
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc := NewService(NewMemoryRepository())

	if _, err := svc.Register(context.Background(), Credentials{Email: "eve@example.com", Password: "short"}); err == nil {
		t.Fatalf("expected password length error")
	}
}
