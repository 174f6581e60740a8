package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/moneta-app/moneta/internal/ledger"
	"github.com/moneta-app/moneta/internal/wallet"
)

func TestStoreSourceSummarize(t *testing.T) {
	store := ledger.NewInMemory()
	wallets := wallet.NewMemoryRepository()
	source := NewStoreSource(store, wallets)
	ctx := context.Background()

	w := wallet.Wallet{ID: "wallet-1", OwnerID: "user-1", Name: "Main", Type: wallet.TypeBank}
	if err := wallets.Create(ctx, w); err != nil {
		t.Fatalf("create wallet: %v", err)
	}
	ledger.SeedWallet(store, w.ID, w.OwnerID, w.Name, 0)

	day := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	food := "cat-food"
	entries := []ledger.RecordInput{
		{UserID: "user-1", WalletID: w.ID, Name: "Salary", Amount: 300_000, Type: ledger.TypeIncome, Date: day},
		{UserID: "user-1", WalletID: w.ID, CategoryID: &food, Name: "Groceries", Amount: 40_000, Type: ledger.TypeExpense, Date: day},
		{UserID: "user-1", WalletID: w.ID, CategoryID: &food, Name: "Dinner", Amount: 10_000, Type: ledger.TypeExpense, Date: day},
	}
	for _, in := range entries {
		if _, _, err := store.RecordTransaction(ctx, in); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	summary, err := source.Summarize(ctx, "user-1", from, from.AddDate(0, 1, 0))
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}

	if summary.TotalIncome != 300_000 || summary.TotalExpense != 50_000 {
		t.Fatalf("expected 300000/50000, got %d/%d", summary.TotalIncome, summary.TotalExpense)
	}
	if summary.Net != 250_000 {
		t.Fatalf("expected net 250000, got %d", summary.Net)
	}

	var foodExpense int64
	for _, b := range summary.ByCategory {
		if b.CategoryID != nil && *b.CategoryID == food {
			foodExpense = b.Expense
		}
	}
	if foodExpense != 50_000 {
		t.Fatalf("expected food expense 50000, got %d", foodExpense)
	}
}

func TestStoreSourceWindowExcludesOutside(t *testing.T) {
	store := ledger.NewInMemory()
	wallets := wallet.NewMemoryRepository()
	source := NewStoreSource(store, wallets)
	ctx := context.Background()

	w := wallet.Wallet{ID: "wallet-1", OwnerID: "user-1", Name: "Main", Type: wallet.TypeBank}
	if err := wallets.Create(ctx, w); err != nil {
		t.Fatalf("create wallet: %v", err)
	}
	ledger.SeedWallet(store, w.ID, w.OwnerID, w.Name, 0)

	if _, _, err := store.RecordTransaction(ctx, ledger.RecordInput{
		UserID: "user-1", WalletID: w.ID, Name: "Old salary", Amount: 100_000,
		Type: ledger.TypeIncome, Date: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("record: %v", err)
	}

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	summary, err := source.Summarize(ctx, "user-1", from, from.AddDate(0, 1, 0))
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if summary.TotalIncome != 0 {
		t.Fatalf("expected empty window, got income %d", summary.TotalIncome)
	}
}
