package ledger

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound occurs when a wallet, goal or transaction does not exist or
	// is not owned by the caller.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized occurs when the caller does not own the goal behind an
	// audit record it is trying to act on.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInsufficientFunds occurs when an operation would overdraw a wallet or
	// push its available balance below zero.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidOperation occurs for structurally invalid requests such as a
	// transfer to the same wallet or a zero amount.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrConflictInUse occurs when deleting a row still referenced elsewhere.
	ErrConflictInUse = errors.New("resource in use")
)

// Entry type values for ledger transactions.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Goal status values.
const (
	GoalActive    = "active"
	GoalCompleted = "completed"
)

// Transaction is one row of the append-style ledger. Amount is always stored
// positive; Type carries the sign.
type Transaction struct {
	ID          string
	WalletID    string
	CategoryID  *string
	Name        string
	Amount      int64
	Type        string
	Date        time.Time
	Description string
	CreatedAt   time.Time
}

// SignedAmount returns the amount with its sign restored from Type.
func (t Transaction) SignedAmount() int64 {
	if t.Type == TypeExpense {
		return -t.Amount
	}
	return t.Amount
}

// GoalTransaction is one row of the goal audit trail. Amount is signed:
// positive means a contribution, negative a withdrawal back to the wallet.
type GoalTransaction struct {
	ID        string
	GoalID    string
	WalletID  string
	Amount    int64
	Date      time.Time
	CreatedAt time.Time
}

// Availability is the read-side view of a wallet. Contributions debit the
// balance when they happen, so every unit still in Balance is spendable and
// Available equals Balance. Allocated reports the funds currently held by
// the wallet's active goals, outside the balance.
type Availability struct {
	WalletID  string
	Balance   int64
	Allocated int64
	Available int64
	AsOf      time.Time
}

// ContributionInput moves funds between a wallet and a saving goal.
// A negative amount withdraws from the goal back into the wallet.
type ContributionInput struct {
	UserID   string
	GoalID   string
	WalletID string
	Amount   int64
	Date     time.Time
}

// ContributionResult reports the committed outcome of a contribution.
type ContributionResult struct {
	AuditTxID     string
	WalletBalance int64
	GoalAmount    int64
}

// RevertResult reports the committed outcome of reverting a contribution.
type RevertResult struct {
	WalletBalance int64
	GoalAmount    int64
}

// TransferInput moves funds between two wallets owned by the same user.
type TransferInput struct {
	UserID   string
	SourceID string
	DestID   string
	Amount   int64
	Date     time.Time
	Name     string
}

// TransferResult reports the committed outcome of a transfer.
type TransferResult struct {
	SourceBalance int64
	DestBalance   int64
}

// StatusResult reports the wallet balance after a goal status toggle.
type StatusResult struct {
	Status        string
	WalletBalance int64
}

// RecordInput inserts one ledger row and applies its delta to the wallet.
type RecordInput struct {
	UserID      string
	WalletID    string
	CategoryID  *string
	Name        string
	Amount      int64
	Type        string
	Date        time.Time
	Description string
}

// UpdateInput replaces the mutable fields of an existing ledger row. Changing
// the amount or type re-applies the difference to the wallet balance.
type UpdateInput struct {
	UserID      string
	TxID        string
	CategoryID  *string
	Name        string
	Amount      int64
	Type        string
	Date        time.Time
	Description string
}

// ListFilter narrows transaction listings.
type ListFilter struct {
	WalletID   string
	CategoryID string
	Type       string
	From       time.Time
	To         time.Time
	Limit      int
}

// GoalRef identifies a goal to the ledger store. WalletID may be empty until
// the first contribution binds a source wallet.
type GoalRef struct {
	ID       string
	OwnerID  string
	WalletID string
	Name     string
	Target   int64
}

// Store is the transactional core keeping wallet balances, goal allocations
// and the ledger mutually consistent. Every method that touches more than one
// balance-bearing row executes as a single database transaction with row
// locks, so concurrent requests cannot create or destroy money.
type Store interface {
	// EnsureWallet guarantees the store knows the wallet before movements are
	// posted against it.
	EnsureWallet(ctx context.Context, walletID, ownerID, name string) error

	// EnsureGoal guarantees the store knows the goal.
	EnsureGoal(ctx context.Context, g GoalRef) error

	// Contribute debits the wallet, credits the goal, and appends one ledger
	// row plus one audit row, all or nothing.
	Contribute(ctx context.Context, in ContributionInput) (ContributionResult, error)

	// RevertContribution negates the effect of a prior contribution keyed by
	// its audit row, then removes the audit row.
	RevertContribution(ctx context.Context, userID, auditTxID string) (RevertResult, error)

	// Transfer moves funds between two wallets of the same owner.
	Transfer(ctx context.Context, in TransferInput) (TransferResult, error)

	// SetGoalStatus toggles active/completed. Completing debits the part of
	// the target not yet covered by contributions; reactivating credits it
	// back.
	SetGoalStatus(ctx context.Context, userID, goalID, status string) (StatusResult, error)

	// RecordTransaction posts one income/expense row and mutates the wallet
	// balance in the same transaction.
	RecordTransaction(ctx context.Context, in RecordInput) (Transaction, int64, error)

	// UpdateTransaction edits a posted row, re-applying the balance delta.
	UpdateTransaction(ctx context.Context, in UpdateInput) (Transaction, error)

	// DeleteTransaction removes a row and reverses its effect on the wallet.
	DeleteTransaction(ctx context.Context, userID, txID string) error

	// ListTransactions returns ledger rows for one of the user's wallets,
	// newest first.
	ListTransactions(ctx context.Context, userID string, filter ListFilter) ([]Transaction, error)

	// ListGoalTransactions returns the audit trail for one goal.
	ListGoalTransactions(ctx context.Context, userID, goalID string) ([]GoalTransaction, error)

	// AvailableBalance reports the wallet balance alongside the total held
	// by its active goals.
	AvailableBalance(ctx context.Context, walletID string) (Availability, error)
}
