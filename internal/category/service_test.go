package category

import (
	"context"
	"errors"
	"testing"

	"github.com/moneta-app/moneta/internal/ledger"
)

func TestSharedDefaultsVisibleButImmutable(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	svc.SeedDefaults(ctx)

	cats, err := svc.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(cats) == 0 {
		t.Fatalf("expected seeded defaults")
	}
	shared := cats[0]
	if !shared.Shared {
		t.Fatalf("expected shared category, got %+v", shared)
	}

	if _, err := svc.Rename(ctx, "user-1", shared.ID, "Mine now"); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected rename of shared category to fail, got %v", err)
	}
	if err := svc.Delete(ctx, "user-1", shared.ID); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected delete of shared category to fail, got %v", err)
	}
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	if _, err := svc.Create(ctx, "user-1", "Books"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, "user-1", "Books"); !errors.Is(err, ledger.ErrInvalidOperation) {
		t.Fatalf("expected duplicate rejection, got %v", err)
	}
}

func TestDeleteBlockedWhileReferenced(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	cat, err := svc.Create(ctx, "user-1", "Rent")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	repo.InUse = func(id string) bool { return id == cat.ID }
	if err := svc.Delete(ctx, "user-1", cat.ID); !errors.Is(err, ledger.ErrConflictInUse) {
		t.Fatalf("expected ErrConflictInUse, got %v", err)
	}

	repo.InUse = nil
	if err := svc.Delete(ctx, "user-1", cat.ID); err != nil {
		t.Fatalf("delete after release: %v", err)
	}
}
