package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps balances, goal allocations and the ledger consistent
// using row-locked transactions in PostgreSQL.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore constructs a Postgres-backed ledger store.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureWallet verifies the wallet row exists. The wallet repository owns the
// insert; the ledger only posts against existing rows.
func (s *PostgresStore) EnsureWallet(ctx context.Context, walletID, ownerID, _ string) error {
	wid, err := uuid.Parse(walletID)
	if err != nil {
		return fmt.Errorf("%w: wallet %s", ErrNotFound, walletID)
	}
	var exists bool
	if err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM wallets WHERE id = $1)`, wid).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: wallet %s", ErrNotFound, walletID)
	}
	return nil
}

// EnsureGoal verifies the goal row exists.
func (s *PostgresStore) EnsureGoal(ctx context.Context, g GoalRef) error {
	gid, err := uuid.Parse(g.ID)
	if err != nil {
		return fmt.Errorf("%w: goal %s", ErrNotFound, g.ID)
	}
	var exists bool
	if err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM saving_goals WHERE id = $1)`, gid).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: goal %s", ErrNotFound, g.ID)
	}
	return nil
}

type lockedWallet struct {
	ID      uuid.UUID
	Name    string
	Balance int64
}

type lockedGoal struct {
	ID       uuid.UUID
	OwnerID  uuid.UUID
	WalletID *uuid.UUID
	Name     string
	Target   int64
	Current  int64
	Status   string
}

// lockWallet locks the wallet row for the remainder of the transaction and
// verifies ownership. Both a missing row and an ownership mismatch surface as
// ErrNotFound so callers cannot enumerate other users' wallet ids.
func lockWallet(ctx context.Context, tx pgx.Tx, walletID, userID string) (lockedWallet, error) {
	wid, err := uuid.Parse(walletID)
	if err != nil {
		return lockedWallet{}, fmt.Errorf("%w: wallet %s", ErrNotFound, walletID)
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return lockedWallet{}, fmt.Errorf("%w: wallet %s", ErrNotFound, walletID)
	}
	var w lockedWallet
	err = tx.QueryRow(ctx, `SELECT id, name, balance FROM wallets WHERE id = $1 AND owner_id = $2 FOR UPDATE`, wid, uid).
		Scan(&w.ID, &w.Name, &w.Balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return lockedWallet{}, fmt.Errorf("%w: wallet %s", ErrNotFound, walletID)
	}
	if err != nil {
		return lockedWallet{}, err
	}
	return w, nil
}

func lockGoal(ctx context.Context, tx pgx.Tx, goalID string) (lockedGoal, error) {
	gid, err := uuid.Parse(goalID)
	if err != nil {
		return lockedGoal{}, fmt.Errorf("%w: goal %s", ErrNotFound, goalID)
	}
	var g lockedGoal
	err = tx.QueryRow(ctx, `SELECT id, owner_id, wallet_id, name, target_amount, current_amount, status
        FROM saving_goals WHERE id = $1 FOR UPDATE`, gid).
		Scan(&g.ID, &g.OwnerID, &g.WalletID, &g.Name, &g.Target, &g.Current, &g.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return lockedGoal{}, fmt.Errorf("%w: goal %s", ErrNotFound, goalID)
	}
	if err != nil {
		return lockedGoal{}, err
	}
	return g, nil
}

// applyDelta mutates the wallet balance. The caller must already hold the row
// lock; applyDelta is never used standalone for user-facing money movement.
func applyDelta(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, delta int64) (int64, error) {
	var balance int64
	err := tx.QueryRow(ctx, `UPDATE wallets SET balance = balance + $1 WHERE id = $2 RETURNING balance`, delta, walletID).
		Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("%w: wallet %s", ErrNotFound, walletID)
	}
	return balance, err
}

func insertTransaction(ctx context.Context, tx pgx.Tx, t Transaction) error {
	id, err := uuid.Parse(t.ID)
	if err != nil {
		return err
	}
	wid, err := uuid.Parse(t.WalletID)
	if err != nil {
		return err
	}
	var cid *uuid.UUID
	if t.CategoryID != nil {
		parsed, err := uuid.Parse(*t.CategoryID)
		if err != nil {
			return fmt.Errorf("%w: category %s", ErrNotFound, *t.CategoryID)
		}
		cid = &parsed
	}
	_, err = tx.Exec(ctx, `INSERT INTO transactions (id, wallet_id, category_id, name, amount, type, date, description, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		id, wid, cid, t.Name, t.Amount, t.Type, t.Date.UTC(), t.Description, t.CreatedAt.UTC())
	return err
}

// Contribute moves funds between a wallet and a goal inside one transaction:
// the wallet row and goal row are locked before the balance check, so two
// concurrent contributions cannot jointly overdraw the wallet.
func (s *PostgresStore) Contribute(ctx context.Context, in ContributionInput) (ContributionResult, error) {
	if in.Amount == 0 {
		return ContributionResult{}, fmt.Errorf("%w: amount must be non-zero", ErrInvalidOperation)
	}
	if in.Date.IsZero() {
		in.Date = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return ContributionResult{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	goal, err := lockGoal(ctx, tx, in.GoalID)
	if err != nil {
		return ContributionResult{}, err
	}
	if goal.OwnerID.String() != in.UserID {
		return ContributionResult{}, fmt.Errorf("%w: goal %s", ErrUnauthorized, in.GoalID)
	}
	if goal.Status != GoalActive {
		return ContributionResult{}, fmt.Errorf("%w: goal is %s", ErrInvalidOperation, goal.Status)
	}

	wallet, err := lockWallet(ctx, tx, in.WalletID, in.UserID)
	if err != nil {
		return ContributionResult{}, err
	}

	switch {
	case goal.WalletID == nil:
		// First contribution binds the goal to its source wallet.
		if _, err := tx.Exec(ctx, `UPDATE saving_goals SET wallet_id = $1 WHERE id = $2`, wallet.ID, goal.ID); err != nil {
			return ContributionResult{}, err
		}
	case *goal.WalletID != wallet.ID:
		return ContributionResult{}, fmt.Errorf("%w: goal is funded from a different wallet", ErrInvalidOperation)
	}

	if in.Amount < 0 && goal.Current+in.Amount < 0 {
		return ContributionResult{}, fmt.Errorf("%w: goal holds %d", ErrInsufficientFunds, goal.Current)
	}

	if wallet.Balance-in.Amount < 0 {
		return ContributionResult{}, fmt.Errorf("%w: available %d", ErrInsufficientFunds, wallet.Balance)
	}

	newBalance, err := applyDelta(ctx, tx, wallet.ID, -in.Amount)
	if err != nil {
		return ContributionResult{}, err
	}

	newCurrent := goal.Current + in.Amount
	if _, err := tx.Exec(ctx, `UPDATE saving_goals SET current_amount = $1 WHERE id = $2`, newCurrent, goal.ID); err != nil {
		return ContributionResult{}, err
	}

	entryType := TypeExpense
	entryName := fmt.Sprintf("Contribution to %s", goal.Name)
	if in.Amount < 0 {
		entryType = TypeIncome
		entryName = fmt.Sprintf("Withdrawal from %s", goal.Name)
	}
	now := time.Now().UTC()
	entry := Transaction{
		ID:        uuid.NewString(),
		WalletID:  wallet.ID.String(),
		Name:      entryName,
		Amount:    abs(in.Amount),
		Type:      entryType,
		Date:      in.Date,
		CreatedAt: now,
	}
	if err := insertTransaction(ctx, tx, entry); err != nil {
		return ContributionResult{}, err
	}

	auditID := uuid.New()
	if _, err := tx.Exec(ctx, `INSERT INTO saving_goal_transactions (id, goal_id, wallet_id, amount, date, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`, auditID, goal.ID, wallet.ID, in.Amount, in.Date.UTC(), now); err != nil {
		return ContributionResult{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return ContributionResult{}, err
	}

	return ContributionResult{AuditTxID: auditID.String(), WalletBalance: newBalance, GoalAmount: newCurrent}, nil
}

// RevertContribution undoes a contribution by exactly the recorded amount and
// removes the audit row, with a compensating ledger entry so the wallet's
// transaction history still sums to its balance.
func (s *PostgresStore) RevertContribution(ctx context.Context, userID, auditTxID string) (RevertResult, error) {
	aid, err := uuid.Parse(auditTxID)
	if err != nil {
		return RevertResult{}, fmt.Errorf("%w: goal transaction %s", ErrNotFound, auditTxID)
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return RevertResult{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	var (
		goalID   uuid.UUID
		walletID uuid.UUID
		ownerID  uuid.UUID
		amount   int64
		goalName string
	)
	err = tx.QueryRow(ctx, `SELECT sgt.goal_id, sgt.wallet_id, sgt.amount, g.owner_id, g.name
        FROM saving_goal_transactions sgt
        JOIN saving_goals g ON g.id = sgt.goal_id
        WHERE sgt.id = $1
        FOR UPDATE OF sgt, g`, aid).Scan(&goalID, &walletID, &amount, &ownerID, &goalName)
	if errors.Is(err, pgx.ErrNoRows) {
		return RevertResult{}, fmt.Errorf("%w: goal transaction %s", ErrNotFound, auditTxID)
	}
	if err != nil {
		return RevertResult{}, err
	}
	if ownerID.String() != userID {
		return RevertResult{}, fmt.Errorf("%w: goal transaction %s", ErrUnauthorized, auditTxID)
	}

	var balance int64
	err = tx.QueryRow(ctx, `SELECT balance FROM wallets WHERE id = $1 FOR UPDATE`, walletID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return RevertResult{}, fmt.Errorf("%w: wallet %s", ErrNotFound, walletID)
	}
	if err != nil {
		return RevertResult{}, err
	}

	var current int64
	if err := tx.QueryRow(ctx, `SELECT current_amount FROM saving_goals WHERE id = $1`, goalID).Scan(&current); err != nil {
		return RevertResult{}, err
	}
	if current-amount < 0 {
		return RevertResult{}, fmt.Errorf("%w: goal no longer holds the contributed amount", ErrInvalidOperation)
	}

	if balance+amount < 0 {
		return RevertResult{}, fmt.Errorf("%w: available %d", ErrInsufficientFunds, balance)
	}

	newBalance, err := applyDelta(ctx, tx, walletID, amount)
	if err != nil {
		return RevertResult{}, err
	}
	newCurrent := current - amount
	if _, err := tx.Exec(ctx, `UPDATE saving_goals SET current_amount = $1 WHERE id = $2`, newCurrent, goalID); err != nil {
		return RevertResult{}, err
	}

	entryType := TypeIncome
	if amount < 0 {
		entryType = TypeExpense
	}
	now := time.Now().UTC()
	entry := Transaction{
		ID:        uuid.NewString(),
		WalletID:  walletID.String(),
		Name:      fmt.Sprintf("Reverted contribution to %s", goalName),
		Amount:    abs(amount),
		Type:      entryType,
		Date:      now,
		CreatedAt: now,
	}
	if err := insertTransaction(ctx, tx, entry); err != nil {
		return RevertResult{}, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM saving_goal_transactions WHERE id = $1`, aid); err != nil {
		return RevertResult{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return RevertResult{}, err
	}

	return RevertResult{WalletBalance: newBalance, GoalAmount: newCurrent}, nil
}

// Transfer debits one wallet and credits another, posting an expense row on
// the source and an income row on the destination. Wallet rows are locked in
// id order so two opposing transfers cannot deadlock.
func (s *PostgresStore) Transfer(ctx context.Context, in TransferInput) (TransferResult, error) {
	if in.SourceID == in.DestID {
		return TransferResult{}, fmt.Errorf("%w: cannot transfer to the same wallet", ErrInvalidOperation)
	}
	if in.Amount <= 0 {
		return TransferResult{}, fmt.Errorf("%w: amount must be positive", ErrInvalidOperation)
	}
	if in.Date.IsZero() {
		in.Date = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return TransferResult{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	first, second := in.SourceID, in.DestID
	if second < first {
		first, second = second, first
	}
	locked := make(map[string]lockedWallet, 2)
	for _, id := range []string{first, second} {
		w, err := lockWallet(ctx, tx, id, in.UserID)
		if err != nil {
			return TransferResult{}, err
		}
		locked[id] = w
	}
	source := locked[in.SourceID]
	dest := locked[in.DestID]

	if source.Balance-in.Amount < 0 {
		return TransferResult{}, fmt.Errorf("%w: available %d", ErrInsufficientFunds, source.Balance)
	}

	sourceBalance, err := applyDelta(ctx, tx, source.ID, -in.Amount)
	if err != nil {
		return TransferResult{}, err
	}
	destBalance, err := applyDelta(ctx, tx, dest.ID, in.Amount)
	if err != nil {
		return TransferResult{}, err
	}

	name := in.Name
	if name == "" {
		name = "Transfer"
	}
	now := time.Now().UTC()
	out := Transaction{
		ID:        uuid.NewString(),
		WalletID:  source.ID.String(),
		Name:      fmt.Sprintf("%s to %s", name, dest.Name),
		Amount:    in.Amount,
		Type:      TypeExpense,
		Date:      in.Date,
		CreatedAt: now,
	}
	if err := insertTransaction(ctx, tx, out); err != nil {
		return TransferResult{}, err
	}
	inRow := Transaction{
		ID:        uuid.NewString(),
		WalletID:  dest.ID.String(),
		Name:      fmt.Sprintf("%s from %s", name, source.Name),
		Amount:    in.Amount,
		Type:      TypeIncome,
		Date:      in.Date,
		CreatedAt: now,
	}
	if err := insertTransaction(ctx, tx, inRow); err != nil {
		return TransferResult{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return TransferResult{}, err
	}

	return TransferResult{SourceBalance: sourceBalance, DestBalance: destBalance}, nil
}

// SetGoalStatus traverses the two-state goal machine. Contributed funds have
// already left the wallet, so completing withdraws only the still-missing
// remainder of the target; reactivating credits it back. Any moved remainder
// is posted as a ledger row so balances stay equal to the transaction history.
func (s *PostgresStore) SetGoalStatus(ctx context.Context, userID, goalID, status string) (StatusResult, error) {
	if status != GoalActive && status != GoalCompleted {
		return StatusResult{}, fmt.Errorf("%w: unknown status %q", ErrInvalidOperation, status)
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return StatusResult{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	goal, err := lockGoal(ctx, tx, goalID)
	if err != nil {
		return StatusResult{}, err
	}
	if goal.OwnerID.String() != userID {
		return StatusResult{}, fmt.Errorf("%w: goal %s", ErrUnauthorized, goalID)
	}
	if goal.Status == status {
		return StatusResult{}, fmt.Errorf("%w: goal already %s", ErrInvalidOperation, status)
	}
	if goal.WalletID == nil {
		return StatusResult{}, fmt.Errorf("%w: goal has no source wallet", ErrInvalidOperation)
	}

	wallet, err := lockWallet(ctx, tx, goal.WalletID.String(), userID)
	if err != nil {
		return StatusResult{}, err
	}

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

	newBalance, err := applyDelta(ctx, tx, wallet.ID, delta)
	if err != nil {
		return StatusResult{}, err
	}
	if _, err := tx.Exec(ctx, `UPDATE saving_goals SET status = $1 WHERE id = $2`, status, goal.ID); err != nil {
		return StatusResult{}, err
	}

	if delta != 0 {
		entryType := TypeIncome
		if delta < 0 {
			entryType = TypeExpense
		}
		now := time.Now().UTC()
		entry := Transaction{
			ID:        uuid.NewString(),
			WalletID:  wallet.ID.String(),
			Name:      entryName,
			Amount:    abs(delta),
			Type:      entryType,
			Date:      now,
			CreatedAt: now,
		}
		if err := insertTransaction(ctx, tx, entry); err != nil {
			return StatusResult{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return StatusResult{}, err
	}

	return StatusResult{Status: status, WalletBalance: newBalance}, nil
}

// RecordTransaction posts an income/expense row and mutates the wallet
// balance under the same row lock.
func (s *PostgresStore) RecordTransaction(ctx context.Context, in RecordInput) (Transaction, int64, error) {
	if in.Amount <= 0 {
		return Transaction{}, 0, fmt.Errorf("%w: amount must be positive", ErrInvalidOperation)
	}
	if in.Type != TypeIncome && in.Type != TypeExpense {
		return Transaction{}, 0, fmt.Errorf("%w: unknown type %q", ErrInvalidOperation, in.Type)
	}
	if in.Date.IsZero() {
		in.Date = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Transaction{}, 0, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	wallet, err := lockWallet(ctx, tx, in.WalletID, in.UserID)
	if err != nil {
		return Transaction{}, 0, err
	}

	delta := in.Amount
	if in.Type == TypeExpense {
		delta = -in.Amount
		if wallet.Balance-in.Amount < 0 {
			return Transaction{}, 0, fmt.Errorf("%w: available %d", ErrInsufficientFunds, wallet.Balance)
		}
	}

	newBalance, err := applyDelta(ctx, tx, wallet.ID, delta)
	if err != nil {
		return Transaction{}, 0, err
	}

	record := Transaction{
		ID:          uuid.NewString(),
		WalletID:    wallet.ID.String(),
		CategoryID:  in.CategoryID,
		Name:        in.Name,
		Amount:      in.Amount,
		Type:        in.Type,
		Date:        in.Date,
		Description: in.Description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := insertTransaction(ctx, tx, record); err != nil {
		return Transaction{}, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Transaction{}, 0, err
	}

	return record, newBalance, nil
}

// lockTransaction fetches a ledger row and locks both it and its wallet.
func lockTransaction(ctx context.Context, tx pgx.Tx, txID, userID string) (Transaction, uuid.UUID, error) {
	id, err := uuid.Parse(txID)
	if err != nil {
		return Transaction{}, uuid.Nil, fmt.Errorf("%w: transaction %s", ErrNotFound, txID)
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return Transaction{}, uuid.Nil, fmt.Errorf("%w: transaction %s", ErrNotFound, txID)
	}
	var (
		t        Transaction
		rowID    uuid.UUID
		walletID uuid.UUID
		catID    *uuid.UUID
	)
	err = tx.QueryRow(ctx, `SELECT t.id, t.wallet_id, t.category_id, t.name, t.amount, t.type, t.date, t.description, t.created_at
        FROM transactions t
        JOIN wallets w ON w.id = t.wallet_id
        WHERE t.id = $1 AND w.owner_id = $2
        FOR UPDATE OF t, w`, id, uid).
		Scan(&rowID, &walletID, &catID, &t.Name, &t.Amount, &t.Type, &t.Date, &t.Description, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Transaction{}, uuid.Nil, fmt.Errorf("%w: transaction %s", ErrNotFound, txID)
	}
	if err != nil {
		return Transaction{}, uuid.Nil, err
	}
	t.ID = rowID.String()
	t.WalletID = walletID.String()
	if catID != nil {
		cs := catID.String()
		t.CategoryID = &cs
	}
	return t, walletID, nil
}

// UpdateTransaction replaces the row's fields. The balance difference between
// the old and new signed amounts is applied to the wallet in the same
// transaction, so editing never desynchronizes the balance.
func (s *PostgresStore) UpdateTransaction(ctx context.Context, in UpdateInput) (Transaction, error) {
	if in.Amount <= 0 {
		return Transaction{}, fmt.Errorf("%w: amount must be positive", ErrInvalidOperation)
	}
	if in.Type != TypeIncome && in.Type != TypeExpense {
		return Transaction{}, fmt.Errorf("%w: unknown type %q", ErrInvalidOperation, in.Type)
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Transaction{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	old, walletID, err := lockTransaction(ctx, tx, in.TxID, in.UserID)
	if err != nil {
		return Transaction{}, err
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
		var balance int64
		if err := tx.QueryRow(ctx, `SELECT balance FROM wallets WHERE id = $1`, walletID).Scan(&balance); err != nil {
			return Transaction{}, err
		}
		if balance+delta < 0 {
			return Transaction{}, fmt.Errorf("%w: available %d", ErrInsufficientFunds, balance)
		}
		if _, err := applyDelta(ctx, tx, walletID, delta); err != nil {
			return Transaction{}, err
		}
	}

	var cid *uuid.UUID
	if updated.CategoryID != nil {
		parsed, err := uuid.Parse(*updated.CategoryID)
		if err != nil {
			return Transaction{}, fmt.Errorf("%w: category %s", ErrNotFound, *updated.CategoryID)
		}
		cid = &parsed
	}
	if _, err := tx.Exec(ctx, `UPDATE transactions SET category_id = $1, name = $2, amount = $3, type = $4, date = $5, description = $6
        WHERE id = $7`, cid, updated.Name, updated.Amount, updated.Type, updated.Date.UTC(), updated.Description, old.ID); err != nil {
		return Transaction{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Transaction{}, err
	}

	return updated, nil
}

// DeleteTransaction removes a ledger row and reverses its effect on the
// wallet balance by exactly the recorded amount.
func (s *PostgresStore) DeleteTransaction(ctx context.Context, userID, txID string) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	old, walletID, err := lockTransaction(ctx, tx, txID, userID)
	if err != nil {
		return err
	}

	delta := -old.SignedAmount()
	var balance int64
	if err := tx.QueryRow(ctx, `SELECT balance FROM wallets WHERE id = $1`, walletID).Scan(&balance); err != nil {
		return err
	}
	if balance+delta < 0 {
		return fmt.Errorf("%w: available %d", ErrInsufficientFunds, balance)
	}
	if _, err := applyDelta(ctx, tx, walletID, delta); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, old.ID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ListTransactions returns ledger rows across the user's wallets, optionally
// filtered, newest first.
func (s *PostgresStore) ListTransactions(ctx context.Context, userID string, filter ListFilter) ([]Transaction, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}

	query := `SELECT t.id, t.wallet_id, t.category_id, t.name, t.amount, t.type, t.date, t.description, t.created_at
        FROM transactions t
        JOIN wallets w ON w.id = t.wallet_id
        WHERE w.owner_id = $1`
	args := []any{uid}
	idx := 2
	if filter.WalletID != "" {
		query += fmt.Sprintf(" AND t.wallet_id = $%d", idx)
		args = append(args, filter.WalletID)
		idx++
	}
	if filter.CategoryID != "" {
		query += fmt.Sprintf(" AND t.category_id = $%d", idx)
		args = append(args, filter.CategoryID)
		idx++
	}
	if filter.Type != "" {
		query += fmt.Sprintf(" AND t.type = $%d", idx)
		args = append(args, filter.Type)
		idx++
	}
	if !filter.From.IsZero() {
		query += fmt.Sprintf(" AND t.date >= $%d", idx)
		args = append(args, filter.From.UTC())
		idx++
	}
	if !filter.To.IsZero() {
		query += fmt.Sprintf(" AND t.date <= $%d", idx)
		args = append(args, filter.To.UTC())
		idx++
	}
	query += " ORDER BY t.date DESC, t.created_at DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", idx)
		args = append(args, filter.Limit)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var (
			t        Transaction
			id       uuid.UUID
			walletID uuid.UUID
			catID    *uuid.UUID
		)
		if err := rows.Scan(&id, &walletID, &catID, &t.Name, &t.Amount, &t.Type, &t.Date, &t.Description, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.ID = id.String()
		t.WalletID = walletID.String()
		if catID != nil {
			cs := catID.String()
			t.CategoryID = &cs
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListGoalTransactions returns the audit trail for a goal owned by the user.
func (s *PostgresStore) ListGoalTransactions(ctx context.Context, userID, goalID string) ([]GoalTransaction, error) {
	gid, err := uuid.Parse(goalID)
	if err != nil {
		return nil, fmt.Errorf("%w: goal %s", ErrNotFound, goalID)
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: goal %s", ErrNotFound, goalID)
	}

	var ownerID uuid.UUID
	err = s.db.QueryRow(ctx, `SELECT owner_id FROM saving_goals WHERE id = $1`, gid).Scan(&ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: goal %s", ErrNotFound, goalID)
	}
	if err != nil {
		return nil, err
	}
	if ownerID != uid {
		return nil, fmt.Errorf("%w: goal %s", ErrUnauthorized, goalID)
	}

	rows, err := s.db.Query(ctx, `SELECT id, goal_id, wallet_id, amount, date, created_at
        FROM saving_goal_transactions WHERE goal_id = $1 ORDER BY created_at DESC`, gid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GoalTransaction
	for rows.Next() {
		var (
			t        GoalTransaction
			id       uuid.UUID
			gID      uuid.UUID
			walletID uuid.UUID
		)
		if err := rows.Scan(&id, &gID, &walletID, &t.Amount, &t.Date, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.ID = id.String()
		t.GoalID = gID.String()
		t.WalletID = walletID.String()
		out = append(out, t)
	}
	return out, rows.Err()
}

// AvailableBalance recomputes the active-goal allocation total on every call;
// it is never stored. The balance itself already excludes contributed funds,
// so it is returned as the available amount unchanged.
func (s *PostgresStore) AvailableBalance(ctx context.Context, walletID string) (Availability, error) {
	wid, err := uuid.Parse(walletID)
	if err != nil {
		return Availability{}, fmt.Errorf("%w: wallet %s", ErrNotFound, walletID)
	}
	var (
		balance   int64
		allocated int64
	)
	err = s.db.QueryRow(ctx, `SELECT w.balance,
        COALESCE((SELECT SUM(g.current_amount) FROM saving_goals g WHERE g.wallet_id = w.id AND g.status = 'active'), 0)
        FROM wallets w WHERE w.id = $1`, wid).Scan(&balance, &allocated)
	if errors.Is(err, pgx.ErrNoRows) {
		return Availability{}, fmt.Errorf("%w: wallet %s", ErrNotFound, walletID)
	}
	if err != nil {
		return Availability{}, err
	}
	return Availability{WalletID: walletID, Balance: balance, Allocated: allocated, Available: balance, AsOf: time.Now().UTC()}, nil
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
