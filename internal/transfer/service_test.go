package transfer

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/moneta-app/moneta/internal/ledger"
	"github.com/moneta-app/moneta/internal/notification"
)

type captureNotifier struct {
	mu     sync.Mutex
	events []notification.Event
}

func (n *captureNotifier) Notify(_ context.Context, e notification.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
}

func TestTransferMovesFundsAndNotifies(t *testing.T) {
	store := ledger.NewInMemory()
	notifier := &captureNotifier{}
	svc := NewService(store, notifier)
	ctx := context.Background()

	ledger.SeedWallet(store, "wallet-a", "user-1", "Checking", 50_000)
	ledger.SeedWallet(store, "wallet-b", "user-1", "Savings", 10_000)

	res, err := svc.Transfer(ctx, Input{
		UserID: "user-1", SourceID: "wallet-a", DestID: "wallet-b", Amount: 20_000,
	})
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if res.SourceBalance != 30_000 || res.DestBalance != 30_000 {
		t.Fatalf("expected 30000/30000, got %d/%d", res.SourceBalance, res.DestBalance)
	}
	if len(notifier.events) != 1 || notifier.events[0].Kind != notification.KindTransfer {
		t.Fatalf("expected one transfer event, got %+v", notifier.events)
	}
}

func TestTransferRejectsSameWallet(t *testing.T) {
	store := ledger.NewInMemory()
	svc := NewService(store, &captureNotifier{})

	ledger.SeedWallet(store, "wallet-a", "user-1", "Checking", 50_000)

	_, err := svc.Transfer(context.Background(), Input{
		UserID: "user-1", SourceID: "wallet-a", DestID: "wallet-a", Amount: 1_000,
	})
	if !errors.Is(err, ledger.ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}
}

func TestTransferRejectsOverdraw(t *testing.T) {
	store := ledger.NewInMemory()
	notifier := &captureNotifier{}
	svc := NewService(store, notifier)

	ledger.SeedWallet(store, "wallet-a", "user-1", "Checking", 5_000)
	ledger.SeedWallet(store, "wallet-b", "user-1", "Savings", 0)

	_, err := svc.Transfer(context.Background(), Input{
		UserID: "user-1", SourceID: "wallet-a", DestID: "wallet-b", Amount: 6_000,
	})
	if !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if len(notifier.events) != 0 {
		t.Fatalf("failed transfer must not notify, got %+v", notifier.events)
	}
}
