package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/moneta-app/moneta/internal/ledger"
)

// Service posts income and expense rows through the ledger store. All
// balance arithmetic lives in the store; the service validates shape.
type Service struct {
	store ledger.Store
}

// NewService builds a transaction service.
func NewService(store ledger.Store) *Service {
	return &Service{store: store}
}

// Record posts one income/expense row and returns it with the new wallet
// balance.
func (s *Service) Record(ctx context.Context, in ledger.RecordInput) (ledger.Transaction, int64, error) {
	if in.Amount <= 0 {
		return ledger.Transaction{}, 0, fmt.Errorf("%w: amount must be positive", ledger.ErrInvalidOperation)
	}
	if in.Type != ledger.TypeIncome && in.Type != ledger.TypeExpense {
		return ledger.Transaction{}, 0, fmt.Errorf("%w: unknown transaction type %q", ledger.ErrInvalidOperation, in.Type)
	}
	if in.Date.IsZero() {
		in.Date = time.Now().UTC()
	}
	return s.store.RecordTransaction(ctx, in)
}

// Update edits a posted row, re-applying the balance difference.
func (s *Service) Update(ctx context.Context, in ledger.UpdateInput) (ledger.Transaction, error) {
	if in.Amount <= 0 {
		return ledger.Transaction{}, fmt.Errorf("%w: amount must be positive", ledger.ErrInvalidOperation)
	}
	if in.Type != ledger.TypeIncome && in.Type != ledger.TypeExpense {
		return ledger.Transaction{}, fmt.Errorf("%w: unknown transaction type %q", ledger.ErrInvalidOperation, in.Type)
	}
	return s.store.UpdateTransaction(ctx, in)
}

// Delete removes a row and reverses its balance effect.
func (s *Service) Delete(ctx context.Context, userID, txID string) error {
	return s.store.DeleteTransaction(ctx, userID, txID)
}

// List returns ledger rows for one of the user's wallets, newest first.
func (s *Service) List(ctx context.Context, userID string, filter ledger.ListFilter) ([]ledger.Transaction, error) {
	if filter.WalletID == "" {
		return nil, fmt.Errorf("%w: wallet_id is required", ledger.ErrInvalidOperation)
	}
	return s.store.ListTransactions(ctx, userID, filter)
}
