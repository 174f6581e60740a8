package transaction

import (
	"context"
	"errors"
	"testing"

	"github.com/moneta-app/moneta/internal/ledger"
)

func TestRecordValidatesShape(t *testing.T) {
	svc := NewService(ledger.NewInMemory())
	ctx := context.Background()

	_, _, err := svc.Record(ctx, ledger.RecordInput{UserID: "u", WalletID: "w", Name: "x", Amount: 0, Type: ledger.TypeIncome})
	if !errors.Is(err, ledger.ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation for zero amount, got %v", err)
	}

	_, _, err = svc.Record(ctx, ledger.RecordInput{UserID: "u", WalletID: "w", Name: "x", Amount: 100, Type: "refund"})
	if !errors.Is(err, ledger.ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation for unknown type, got %v", err)
	}
}

func TestRecordListDelete(t *testing.T) {
	store := ledger.NewInMemory()
	svc := NewService(store)
	ctx := context.Background()

	ledger.SeedWallet(store, "wallet-1", "user-1", "Main", 10_000)

	tx, balance, err := svc.Record(ctx, ledger.RecordInput{
		UserID: "user-1", WalletID: "wallet-1", Name: "Groceries", Amount: 2_500, Type: ledger.TypeExpense,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if balance != 7_500 {
		t.Fatalf("expected balance 7500, got %d", balance)
	}

	txs, err := svc.List(ctx, "user-1", ledger.ListFilter{WalletID: "wallet-1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 1 || txs[0].ID != tx.ID {
		t.Fatalf("expected one row %s, got %+v", tx.ID, txs)
	}

	if err := svc.Delete(ctx, "user-1", tx.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	avail, err := store.AvailableBalance(ctx, "wallet-1")
	if err != nil {
		t.Fatalf("available: %v", err)
	}
	if avail.Balance != 10_000 {
		t.Fatalf("expected balance restored to 10000, got %d", avail.Balance)
	}
}

func TestListRequiresWallet(t *testing.T) {
	svc := NewService(ledger.NewInMemory())
	if _, err := svc.List(context.Background(), "user-1", ledger.ListFilter{}); !errors.Is(err, ledger.ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}
}
