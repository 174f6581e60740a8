package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memWallet struct {
	ID      string
	OwnerID string
	Name    string
	Balance int64
}

type memGoal struct {
	ID       string
	OwnerID  string
	WalletID string
	Name     string
	Target   int64
	Current  int64
	Status   string
}

type inMemoryStore struct {
	mu           sync.Mutex
	wallets      map[string]*memWallet
	goals        map[string]*memGoal
	transactions map[string]Transaction
	goalTx       map[string]GoalTransaction
}

// NewInMemory creates a concurrency-safe in-memory store mirroring the
// Postgres semantics. Used by unit tests and when no database is configured.
func NewInMemory() Store {
	return &inMemoryStore{
		wallets:      make(map[string]*memWallet),
		goals:        make(map[string]*memGoal),
		transactions: make(map[string]Transaction),
		goalTx:       make(map[string]GoalTransaction),
	}
}

func (s *inMemoryStore) EnsureWallet(_ context.Context, walletID, ownerID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.wallets[walletID]; !exists {
		s.wallets[walletID] = &memWallet{ID: walletID, OwnerID: ownerID, Name: name}
	}
	return nil
}

func (s *inMemoryStore) EnsureGoal(_ context.Context, g GoalRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.goals[g.ID]; !exists {
		s.goals[g.ID] = &memGoal{
			ID:       g.ID,
			OwnerID:  g.OwnerID,
			WalletID: g.WalletID,
			Name:     g.Name,
			Target:   g.Target,
			Status:   GoalActive,
		}
	}
	return nil
}

func (s *inMemoryStore) walletFor(walletID, userID string) (*memWallet, error) {
	w, ok := s.wallets[walletID]
	if !ok || w.OwnerID != userID {
		return nil, fmt.Errorf("%w: wallet %s", ErrNotFound, walletID)
	}
	return w, nil
}

func (s *inMemoryStore) allocated(walletID string) int64 {
	var total int64
	for _, g := range s.goals {
		if g.WalletID == walletID && g.Status == GoalActive {
			total += g.Current
		}
	}
	return total
}

func (s *inMemoryStore) appendTransaction(walletID, name string, amount int64, entryType string, categoryID *string, date time.Time, description string) Transaction {
	t := Transaction{
		ID:          uuid.NewString(),
		WalletID:    walletID,
		CategoryID:  categoryID,
		Name:        name,
		Amount:      amount,
		Type:        entryType,
		Date:        date,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	s.transactions[t.ID] = t
	return t
}

func (s *inMemoryStore) Contribute(_ context.Context, in ContributionInput) (ContributionResult, error) {
	if in.Amount == 0 {
		return ContributionResult{}, fmt.Errorf("%w: amount must be non-zero", ErrInvalidOperation)
	}
	if in.Date.IsZero() {
		in.Date = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	goal, ok := s.goals[in.GoalID]
	if !ok {
		return ContributionResult{}, fmt.Errorf("%w: goal %s", ErrNotFound, in.GoalID)
	}
	if goal.OwnerID != in.UserID {
		return ContributionResult{}, fmt.Errorf("%w: goal %s", ErrUnauthorized, in.GoalID)
	}
	if goal.Status != GoalActive {
		return ContributionResult{}, fmt.Errorf("%w: goal is %s", ErrInvalidOperation, goal.Status)
	}

	wallet, err := s.walletFor(in.WalletID, in.UserID)
	if err != nil {
		return ContributionResult{}, err
	}

	switch goal.WalletID {
	case "":
		goal.WalletID = wallet.ID
	case wallet.ID:
	default:
		return ContributionResult{}, fmt.Errorf("%w: goal is funded from a different wallet", ErrInvalidOperation)
	}

	if in.Amount < 0 && goal.Current+in.Amount < 0 {
		return ContributionResult{}, fmt.Errorf("%w: goal holds %d", ErrInsufficientFunds, goal.Current)
	}

	if wallet.Balance-in.Amount < 0 {
		return ContributionResult{}, fmt.Errorf("%w: available %d", ErrInsufficientFunds, wallet.Balance)
	}

	wallet.Balance -= in.Amount
	goal.Current += in.Amount

	entryType := TypeExpense
	entryName := fmt.Sprintf("Contribution to %s", goal.Name)
	if in.Amount < 0 {
		entryType = TypeIncome
		entryName = fmt.Sprintf("Withdrawal from %s", goal.Name)
	}
	s.appendTransaction(wallet.ID, entryName, abs(in.Amount), entryType, nil, in.Date, "")

	audit := GoalTransaction{
		ID:        uuid.NewString(),
		GoalID:    goal.ID,
		WalletID:  wallet.ID,
		Amount:    in.Amount,
		Date:      in.Date,
		CreatedAt: time.Now().UTC(),
	}
	s.goalTx[audit.ID] = audit

	return ContributionResult{AuditTxID: audit.ID, WalletBalance: wallet.Balance, GoalAmount: goal.Current}, nil
}

func (s *inMemoryStore) RevertContribution(_ context.Context, userID, auditTxID string) (RevertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	audit, ok := s.goalTx[auditTxID]
	if !ok {
		return RevertResult{}, fmt.Errorf("%w: goal transaction %s", ErrNotFound, auditTxID)
	}
	goal, ok := s.goals[audit.GoalID]
	if !ok {
		return RevertResult{}, fmt.Errorf("%w: goal %s", ErrNotFound, audit.GoalID)
	}
	if goal.OwnerID != userID {
		return RevertResult{}, fmt.Errorf("%w: goal transaction %s", ErrUnauthorized, auditTxID)
	}
	wallet, ok := s.wallets[audit.WalletID]
	if !ok {
		return RevertResult{}, fmt.Errorf("%w: wallet %s", ErrNotFound, audit.WalletID)
	}
	if goal.Current-audit.Amount < 0 {
		return RevertResult{}, fmt.Errorf("%w: goal no longer holds the contributed amount", ErrInvalidOperation)
	}

	if wallet.Balance+audit.Amount < 0 {
		return RevertResult{}, fmt.Errorf("%w: available %d", ErrInsufficientFunds, wallet.Balance)
	}

	wallet.Balance += audit.Amount
	goal.Current -= audit.Amount

	entryType := TypeIncome
	if audit.Amount < 0 {
		entryType = TypeExpense
	}
	s.appendTransaction(wallet.ID, fmt.Sprintf("Reverted contribution to %s", goal.Name), abs(audit.Amount), entryType, nil, time.Now().UTC(), "")

	delete(s.goalTx, auditTxID)

	return RevertResult{WalletBalance: wallet.Balance, GoalAmount: goal.Current}, nil
}

func (s *inMemoryStore) Transfer(_ context.Context, in TransferInput) (TransferResult, error) {
	if in.SourceID == in.DestID {
		return TransferResult{}, fmt.Errorf("%w: cannot transfer to the same wallet", ErrInvalidOperation)
	}
	if in.Amount <= 0 {
		return TransferResult{}, fmt.Errorf("%w: amount must be positive", ErrInvalidOperation)
	}
	if in.Date.IsZero() {
		in.Date = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	source, err := s.walletFor(in.SourceID, in.UserID)
	if err != nil {
		return TransferResult{}, err
	}
	dest, err := s.walletFor(in.DestID, in.UserID)
	if err != nil {
		return TransferResult{}, err
	}

	if source.Balance-in.Amount < 0 {
		return TransferResult{}, fmt.Errorf("%w: available %d", ErrInsufficientFunds, source.Balance)
	}

	source.Balance -= in.Amount
	dest.Balance += in.Amount

	name := in.Name
	if name == "" {
		name = "Transfer"
	}
	s.appendTransaction(source.ID, fmt.Sprintf("%s to %s", name, dest.Name), in.Amount, TypeExpense, nil, in.Date, "")
	s.appendTransaction(dest.ID, fmt.Sprintf("%s from %s", name, source.Name), in.Amount, TypeIncome, nil, in.Date, "")

	return TransferResult{SourceBalance: source.Balance, DestBalance: dest.Balance}, nil
}

func (s *inMemoryStore) SetGoalStatus(_ context.Context, userID, goalID, status string) (StatusResult, error) {
	if status != GoalActive && status != GoalCompleted {
		return StatusResult{}, fmt.Errorf("%w: unknown status %q", ErrInvalidOperation, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	goal, ok := s.goals[goalID]
	if !ok {
		return StatusResult{}, fmt.Errorf("%w: goal %s", ErrNotFound, goalID)
	}
	if goal.OwnerID != userID {
		return StatusResult{}, fmt.Errorf("%w: goal %s", ErrUnauthorized, goalID)
	}
	if goal.Status == status {
		return StatusResult{}, fmt.Errorf("%w: goal already %s", ErrInvalidOperation, status)
	}
	if goal.WalletID == "" {
		return StatusResult{}, fmt.Errorf("%w: goal has no source wallet", ErrInvalidOperation)
	}
	wallet, ok := s.wallets[goal.WalletID]
	if !ok {
		return StatusResult{}, fmt.Errorf("%w: wallet %s", ErrNotFound, goal.WalletID)
	}

	// Contributed funds already left the balance, so only the still-missing
	// remainder of the target moves on a toggle.
	remainder := goal.Target - goal.Current
	delta := -remainder
	entryName := fmt.Sprintf("Goal completed: %s", goal.Name)
	if status == GoalActive {
		delta = remainder
		entryName = fmt.Sprintf("Goal reactivated: %s", goal.Name)
	}

	if status == GoalCompleted && wallet.Balance < remainder {
		return StatusResult{}, fmt.Errorf("%w: balance %d, needs %d", ErrInsufficientFunds, wallet.Balance, remainder)
	}

	wallet.Balance += delta
	if delta != 0 {
		entryType := TypeIncome
		if delta < 0 {
			entryType = TypeExpense
		}
		s.appendTransaction(wallet.ID, entryName, abs(delta), entryType, nil, time.Now().UTC(), "")
	}
	goal.Status = status

	return StatusResult{Status: status, WalletBalance: wallet.Balance}, nil
}

func (s *inMemoryStore) RecordTransaction(_ context.Context, in RecordInput) (Transaction, int64, error) {
	if in.Amount <= 0 {
		return Transaction{}, 0, fmt.Errorf("%w: amount must be positive", ErrInvalidOperation)
	}
	if in.Type != TypeIncome && in.Type != TypeExpense {
		return Transaction{}, 0, fmt.Errorf("%w: unknown type %q", ErrInvalidOperation, in.Type)
	}
	if in.Date.IsZero() {
		in.Date = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	wallet, err := s.walletFor(in.WalletID, in.UserID)
	if err != nil {
		return Transaction{}, 0, err
	}

	if in.Type == TypeExpense {
		if wallet.Balance-in.Amount < 0 {
			return Transaction{}, 0, fmt.Errorf("%w: available %d", ErrInsufficientFunds, wallet.Balance)
		}
		wallet.Balance -= in.Amount
	} else {
		wallet.Balance += in.Amount
	}

	t := s.appendTransaction(wallet.ID, in.Name, in.Amount, in.Type, in.CategoryID, in.Date, in.Description)
	return t, wallet.Balance, nil
}

func (s *inMemoryStore) UpdateTransaction(_ context.Context, in UpdateInput) (Transaction, error) {
	if in.Amount <= 0 {
		return Transaction{}, fmt.Errorf("%w: amount must be positive", ErrInvalidOperation)
	}
	if in.Type != TypeIncome && in.Type != TypeExpense {
		return Transaction{}, fmt.Errorf("%w: unknown type %q", ErrInvalidOperation, in.Type)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.transactions[in.TxID]
	if !ok {
		return Transaction{}, fmt.Errorf("%w: transaction %s", ErrNotFound, in.TxID)
	}
	wallet, err := s.walletFor(old.WalletID, in.UserID)
	if err != nil {
		return Transaction{}, fmt.Errorf("%w: transaction %s", ErrNotFound, in.TxID)
	}

	updated := old
	updated.CategoryID = in.CategoryID
	updated.Name = in.Name
	updated.Amount = in.Amount
	updated.Type = in.Type
	updated.Description = in.Description
	if !in.Date.IsZero() {
		updated.Date = in.Date
	}

	delta := updated.SignedAmount() - old.SignedAmount()
	if delta != 0 {
		if wallet.Balance+delta < 0 {
			return Transaction{}, fmt.Errorf("%w: available %d", ErrInsufficientFunds, wallet.Balance)
		}
		wallet.Balance += delta
	}
	s.transactions[in.TxID] = updated

	return updated, nil
}

func (s *inMemoryStore) DeleteTransaction(_ context.Context, userID, txID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.transactions[txID]
	if !ok {
		return fmt.Errorf("%w: transaction %s", ErrNotFound, txID)
	}
	wallet, err := s.walletFor(old.WalletID, userID)
	if err != nil {
		return fmt.Errorf("%w: transaction %s", ErrNotFound, txID)
	}

	delta := -old.SignedAmount()
	if wallet.Balance+delta < 0 {
		return fmt.Errorf("%w: available %d", ErrInsufficientFunds, wallet.Balance)
	}
	wallet.Balance += delta
	delete(s.transactions, txID)
	return nil
}

func (s *inMemoryStore) ListTransactions(_ context.Context, userID string, filter ListFilter) ([]Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Transaction
	for _, t := range s.transactions {
		w, ok := s.wallets[t.WalletID]
		if !ok || w.OwnerID != userID {
			continue
		}
		if filter.WalletID != "" && t.WalletID != filter.WalletID {
			continue
		}
		if filter.CategoryID != "" && (t.CategoryID == nil || *t.CategoryID != filter.CategoryID) {
			continue
		}
		if filter.Type != "" && t.Type != filter.Type {
			continue
		}
		if !filter.From.IsZero() && t.Date.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && t.Date.After(filter.To) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *inMemoryStore) ListGoalTransactions(_ context.Context, userID, goalID string) ([]GoalTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	goal, ok := s.goals[goalID]
	if !ok {
		return nil, fmt.Errorf("%w: goal %s", ErrNotFound, goalID)
	}
	if goal.OwnerID != userID {
		return nil, fmt.Errorf("%w: goal %s", ErrUnauthorized, goalID)
	}

	var out []GoalTransaction
	for _, t := range s.goalTx {
		if t.GoalID == goalID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *inMemoryStore) AvailableBalance(_ context.Context, walletID string) (Availability, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wallet, ok := s.wallets[walletID]
	if !ok {
		return Availability{}, fmt.Errorf("%w: wallet %s", ErrNotFound, walletID)
	}
	return Availability{
		WalletID:  walletID,
		Balance:   wallet.Balance,
		Allocated: s.allocated(walletID),
		Available: wallet.Balance,
		AsOf:      time.Now().UTC(),
	}, nil
}
