package wallet

import (
	"context"
	"errors"
	"testing"

	"github.com/moneta-app/moneta/internal/ledger"
)

func newTestService() *Service {
	return NewService(NewMemoryRepository(), ledger.NewInMemory())
}

func TestCreateWithInitialDeposit(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	w, err := svc.Create(ctx, CreateInput{
		OwnerID:        "user-1",
		Name:           "Checking",
		Type:           TypeBank,
		InitialBalance: 100_000,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if w.Balance != 100_000 {
		t.Fatalf("expected balance 100000, got %d", w.Balance)
	}

	avail, err := svc.Balance(ctx, "user-1", w.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if avail.Balance != 100_000 || avail.Available != 100_000 {
		t.Fatalf("expected 100000/100000, got %d/%d", avail.Balance, avail.Available)
	}
}

func TestCreateRejectsUnknownType(t *testing.T) {
	svc := newTestService()

	_, err := svc.Create(context.Background(), CreateInput{OwnerID: "user-1", Name: "X", Type: "cash"})
	if !errors.Is(err, ledger.ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}
}

func TestGetScopedToOwner(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	w, err := svc.Create(ctx, CreateInput{OwnerID: "user-1", Name: "Savings", Type: TypeBank})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Get(ctx, "user-2", w.ID); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign owner, got %v", err)
	}
}

func TestDeleteRefusedWhileGoalsHoldFunds(t *testing.T) {
	store := ledger.NewInMemory()
	svc := NewService(NewMemoryRepository(), store)
	ctx := context.Background()

	w, err := svc.Create(ctx, CreateInput{OwnerID: "user-1", Name: "Main", Type: TypeEWallet, InitialBalance: 50_000})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	goal := ledger.GoalRef{ID: "goal-1", OwnerID: "user-1", Name: "Trip", Target: 40_000}
	if err := store.EnsureGoal(ctx, goal); err != nil {
		t.Fatalf("ensure goal: %v", err)
	}
	if _, err := store.Contribute(ctx, ledger.ContributionInput{
		UserID: "user-1", GoalID: goal.ID, WalletID: w.ID, Amount: 10_000,
	}); err != nil {
		t.Fatalf("contribute: %v", err)
	}

	if err := svc.Delete(ctx, "user-1", w.ID); !errors.Is(err, ledger.ErrConflictInUse) {
		t.Fatalf("expected ErrConflictInUse, got %v", err)
	}
}
