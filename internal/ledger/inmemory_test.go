package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
)

func sumSigned(t *testing.T, s Store, userID, walletID string) int64 {
	t.Helper()
	rows, err := s.ListTransactions(context.Background(), userID, ListFilter{WalletID: walletID})
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	var total int64
	for _, r := range rows {
		total += r.SignedAmount()
	}
	return total
}

func TestContributeScenario(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	userID := uuid.NewString()
	walletID := uuid.NewString()
	goalID := uuid.NewString()

	SeedWallet(s, walletID, userID, "Checking", 1_000)
	SeedGoal(s, GoalRef{ID: goalID, OwnerID: userID, WalletID: walletID, Name: "Vacation", Target: 5_000}, 0, GoalActive)

	res, err := s.Contribute(ctx, ContributionInput{UserID: userID, GoalID: goalID, WalletID: walletID, Amount: 300})
	if err != nil {
		t.Fatalf("contribute: %v", err)
	}
	if res.WalletBalance != 700 {
		t.Fatalf("expected balance 700, got %d", res.WalletBalance)
	}
	if res.GoalAmount != 300 {
		t.Fatalf("expected goal amount 300, got %d", res.GoalAmount)
	}

	avail, err := s.AvailableBalance(ctx, walletID)
	if err != nil {
		t.Fatalf("available: %v", err)
	}
	if avail.Available != 700 {
		t.Fatalf("expected available 700 after the debit, got %d", avail.Available)
	}
	if avail.Allocated != 300 {
		t.Fatalf("expected 300 allocated to the goal, got %d", avail.Allocated)
	}

	// Over-contributing fails and leaves state untouched.
	if _, err := s.Contribute(ctx, ContributionInput{UserID: userID, GoalID: goalID, WalletID: walletID, Amount: 800}); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}
	avail, _ = s.AvailableBalance(ctx, walletID)
	if avail.Balance != 700 || avail.Available != 700 {
		t.Fatalf("state changed after rejected contribution: %+v", avail)
	}

	// Revert restores the pre-contribution state.
	rev, err := s.RevertContribution(ctx, userID, res.AuditTxID)
	if err != nil {
		t.Fatalf("revert: %v", err)
	}
	if rev.WalletBalance != 1_000 {
		t.Fatalf("expected balance 1000 after revert, got %d", rev.WalletBalance)
	}
	if rev.GoalAmount != 0 {
		t.Fatalf("expected goal amount 0 after revert, got %d", rev.GoalAmount)
	}
	if _, err := s.RevertContribution(ctx, userID, res.AuditTxID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found on second revert, got %v", err)
	}
}

func TestContributeCanAllocateFullBalance(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	userID := uuid.NewString()
	walletID := uuid.NewString()
	goalID := uuid.NewString()

	SeedWallet(s, walletID, userID, "Checking", 1_000)
	SeedGoal(s, GoalRef{ID: goalID, OwnerID: userID, WalletID: walletID, Name: "House", Target: 10_000}, 0, GoalActive)

	// Contributed funds count against the balance exactly once, so a wallet
	// can put more than half of itself toward a goal.
	res, err := s.Contribute(ctx, ContributionInput{UserID: userID, GoalID: goalID, WalletID: walletID, Amount: 800})
	if err != nil {
		t.Fatalf("contribute 800 of 1000: %v", err)
	}
	if res.WalletBalance != 200 || res.GoalAmount != 800 {
		t.Fatalf("expected 200/800, got %d/%d", res.WalletBalance, res.GoalAmount)
	}

	if _, err := s.Contribute(ctx, ContributionInput{UserID: userID, GoalID: goalID, WalletID: walletID, Amount: 300}); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds beyond the balance, got %v", err)
	}

	avail, err := s.AvailableBalance(ctx, walletID)
	if err != nil {
		t.Fatalf("available: %v", err)
	}
	if avail.Balance != 200 || avail.Allocated != 800 || avail.Available != 200 {
		t.Fatalf("unexpected availability: %+v", avail)
	}
}

func TestContributeConservation(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	userID := uuid.NewString()
	walletID := uuid.NewString()
	goalID := uuid.NewString()

	SeedWallet(s, walletID, userID, "Checking", 10_000)
	SeedGoal(s, GoalRef{ID: goalID, OwnerID: userID, WalletID: walletID, Name: "Car", Target: 50_000}, 0, GoalActive)

	res, err := s.Contribute(ctx, ContributionInput{UserID: userID, GoalID: goalID, WalletID: walletID, Amount: 2_000})
	if err != nil {
		t.Fatalf("contribute: %v", err)
	}
	withdrawal, err := s.Contribute(ctx, ContributionInput{UserID: userID, GoalID: goalID, WalletID: walletID, Amount: -500})
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if _, err := s.RevertContribution(ctx, userID, withdrawal.AuditTxID); err != nil {
		t.Fatalf("revert withdrawal: %v", err)
	}
	if _, err := s.RevertContribution(ctx, userID, res.AuditTxID); err != nil {
		t.Fatalf("revert contribution: %v", err)
	}

	avail, err := s.AvailableBalance(ctx, walletID)
	if err != nil {
		t.Fatalf("available: %v", err)
	}
	if got := 10_000 + sumSigned(t, s, userID, walletID); got != avail.Balance {
		t.Fatalf("balance %d diverged from ledger sum %d", avail.Balance, got)
	}
	if avail.Available < 0 {
		t.Fatalf("available went negative: %d", avail.Available)
	}
}

func TestContributeOwnership(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	owner := uuid.NewString()
	stranger := uuid.NewString()
	walletID := uuid.NewString()
	goalID := uuid.NewString()

	SeedWallet(s, walletID, owner, "Checking", 1_000)
	SeedGoal(s, GoalRef{ID: goalID, OwnerID: owner, WalletID: walletID, Name: "Vacation", Target: 5_000}, 0, GoalActive)

	if _, err := s.Contribute(ctx, ContributionInput{UserID: stranger, GoalID: goalID, WalletID: walletID, Amount: 100}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	res, err := s.Contribute(ctx, ContributionInput{UserID: owner, GoalID: goalID, WalletID: walletID, Amount: 100})
	if err != nil {
		t.Fatalf("contribute: %v", err)
	}
	if _, err := s.RevertContribution(ctx, stranger, res.AuditTxID); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized revert, got %v", err)
	}
}

func TestGoalWithdrawalLimitedToHeldAmount(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	userID := uuid.NewString()
	walletID := uuid.NewString()
	goalID := uuid.NewString()

	SeedWallet(s, walletID, userID, "Checking", 1_000)
	SeedGoal(s, GoalRef{ID: goalID, OwnerID: userID, WalletID: walletID, Name: "Vacation", Target: 5_000}, 200, GoalActive)

	if _, err := s.Contribute(ctx, ContributionInput{UserID: userID, GoalID: goalID, WalletID: walletID, Amount: -300}); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds withdrawing more than held, got %v", err)
	}

	res, err := s.Contribute(ctx, ContributionInput{UserID: userID, GoalID: goalID, WalletID: walletID, Amount: -200})
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if res.WalletBalance != 1_200 || res.GoalAmount != 0 {
		t.Fatalf("unexpected state after withdrawal: %+v", res)
	}
}

func TestTransferScenario(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	userID := uuid.NewString()
	a := uuid.NewString()
	b := uuid.NewString()

	SeedWallet(s, a, userID, "A", 500)
	SeedWallet(s, b, userID, "B", 100)

	res, err := s.Transfer(ctx, TransferInput{UserID: userID, SourceID: a, DestID: b, Amount: 200})
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if res.SourceBalance != 300 || res.DestBalance != 300 {
		t.Fatalf("unexpected balances: %+v", res)
	}

	// Self-transfer is rejected without touching state.
	if _, err := s.Transfer(ctx, TransferInput{UserID: userID, SourceID: a, DestID: a, Amount: 50}); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("expected invalid operation, got %v", err)
	}
	avail, _ := s.AvailableBalance(ctx, a)
	if avail.Balance != 300 {
		t.Fatalf("self-transfer mutated state: %+v", avail)
	}

	if _, err := s.Transfer(ctx, TransferInput{UserID: userID, SourceID: a, DestID: b, Amount: 1_000}); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}

	// Both sides carry dated ledger rows.
	if got := sumSigned(t, s, userID, a); got != -200 {
		t.Fatalf("source ledger sum %d, want -200", got)
	}
	if got := sumSigned(t, s, userID, b); got != 200 {
		t.Fatalf("dest ledger sum %d, want 200", got)
	}
}

func TestGoalStatusToggleInvertible(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	userID := uuid.NewString()
	walletID := uuid.NewString()
	goalID := uuid.NewString()

	SeedWallet(s, walletID, userID, "Checking", 8_000)
	SeedGoal(s, GoalRef{ID: goalID, OwnerID: userID, WalletID: walletID, Name: "Laptop", Target: 3_000}, 1_000, GoalActive)

	// 1000 is already saved, so completing withdraws the missing 2000.
	done, err := s.SetGoalStatus(ctx, userID, goalID, GoalCompleted)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.WalletBalance != 6_000 {
		t.Fatalf("expected balance 6000 after completion, got %d", done.WalletBalance)
	}

	back, err := s.SetGoalStatus(ctx, userID, goalID, GoalActive)
	if err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	if back.WalletBalance != 8_000 {
		t.Fatalf("expected balance restored to 8000, got %d", back.WalletBalance)
	}

	if got := 8_000 + sumSigned(t, s, userID, walletID); got != back.WalletBalance {
		t.Fatalf("toggle broke ledger conservation: sum %d, balance %d", got, back.WalletBalance)
	}
}

func TestGoalCompletionRequiresCoverage(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	userID := uuid.NewString()
	walletID := uuid.NewString()
	goalID := uuid.NewString()

	SeedWallet(s, walletID, userID, "Checking", 1_000)
	SeedGoal(s, GoalRef{ID: goalID, OwnerID: userID, WalletID: walletID, Name: "House", Target: 2_000}, 500, GoalActive)

	if _, err := s.SetGoalStatus(ctx, userID, goalID, GoalCompleted); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}
	if _, err := s.SetGoalStatus(ctx, userID, goalID, GoalActive); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("expected invalid operation for no-op toggle, got %v", err)
	}
}

func TestRecordAndDeleteTransactionReversesBalance(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	userID := uuid.NewString()
	walletID := uuid.NewString()

	SeedWallet(s, walletID, userID, "Checking", 1_000)

	tx, balance, err := s.RecordTransaction(ctx, RecordInput{UserID: userID, WalletID: walletID, Name: "Groceries", Amount: 250, Type: TypeExpense})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if balance != 750 {
		t.Fatalf("expected balance 750, got %d", balance)
	}

	if err := s.DeleteTransaction(ctx, userID, tx.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	avail, _ := s.AvailableBalance(ctx, walletID)
	if avail.Balance != 1_000 {
		t.Fatalf("delete did not reverse balance: %d", avail.Balance)
	}
}

func TestUpdateTransactionAdjustsBalance(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	userID := uuid.NewString()
	walletID := uuid.NewString()

	SeedWallet(s, walletID, userID, "Checking", 1_000)

	tx, _, err := s.RecordTransaction(ctx, RecordInput{UserID: userID, WalletID: walletID, Name: "Dinner", Amount: 100, Type: TypeExpense})
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	updated, err := s.UpdateTransaction(ctx, UpdateInput{UserID: userID, TxID: tx.ID, Name: "Dinner out", Amount: 180, Type: TypeExpense})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Amount != 180 {
		t.Fatalf("expected amount 180, got %d", updated.Amount)
	}
	avail, _ := s.AvailableBalance(ctx, walletID)
	if avail.Balance != 820 {
		t.Fatalf("expected balance 820 after edit, got %d", avail.Balance)
	}
}

func TestConcurrentContributionsCannotOverdraw(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	userID := uuid.NewString()
	walletID := uuid.NewString()
	goalID := uuid.NewString()

	SeedWallet(s, walletID, userID, "Checking", 10_000)
	SeedGoal(s, GoalRef{ID: goalID, OwnerID: userID, WalletID: walletID, Name: "Vacation", Target: 100_000}, 0, GoalActive)

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Some of these must fail once availability is exhausted.
			_, _ = s.Contribute(ctx, ContributionInput{UserID: userID, GoalID: goalID, WalletID: walletID, Amount: 1_000})
		}()
	}
	wg.Wait()

	avail, err := s.AvailableBalance(ctx, walletID)
	if err != nil {
		t.Fatalf("available: %v", err)
	}
	if avail.Available < 0 {
		t.Fatalf("availability went negative under concurrency: %d", avail.Available)
	}
	if got := 10_000 + sumSigned(t, s, userID, walletID); got != avail.Balance {
		t.Fatalf("money created or destroyed: sum %d, balance %d", got, avail.Balance)
	}
}
