package goal

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moneta-app/moneta/internal/ledger"
)

// Repository persists goal rows. CurrentAmount, status and the wallet
// binding are written by the ledger store; this repository reads them back.
type Repository interface {
	Create(ctx context.Context, g Goal) error
	FindByID(ctx context.Context, ownerID, id string) (Goal, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Goal, error)
	Update(ctx context.Context, ownerID, id, name string, target int64, pinned bool) (Goal, error)
	Delete(ctx context.Context, ownerID, id string) error

	// SetStatus records a status change already applied through the ledger
	// store, for backends that keep their own copy of the goal row.
	SetStatus(ctx context.Context, id, status string) error
}

// PostgresRepository stores goals in Postgres, sharing the saving_goals
// table with the ledger store.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed goal repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Create(ctx context.Context, g Goal) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO saving_goals (id, owner_id, wallet_id, name, target_amount, current_amount, status, is_pinned, created_at)
         VALUES ($1, $2, NULL, $3, $4, 0, $5, $6, $7)`,
		g.ID, g.OwnerID, g.Name, g.TargetAmount, g.Status, g.IsPinned, g.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert goal: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, ownerID, id string) (Goal, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, owner_id, wallet_id, name, target_amount, current_amount, status, is_pinned, created_at
         FROM saving_goals WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	return scanGoal(row)
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]Goal, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, owner_id, wallet_id, name, target_amount, current_amount, status, is_pinned, created_at
         FROM saving_goals WHERE owner_id = $1 ORDER BY is_pinned DESC, created_at`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var out []Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Update(ctx context.Context, ownerID, id, name string, target int64, pinned bool) (Goal, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE saving_goals SET name = $3, target_amount = $4, is_pinned = $5
         WHERE id = $1 AND owner_id = $2
         RETURNING id, owner_id, wallet_id, name, target_amount, current_amount, status, is_pinned, created_at`,
		id, ownerID, name, target, pinned,
	)
	return scanGoal(row)
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM saving_goals WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

// SetStatus is satisfied by the ledger store's own UPDATE of the shared
// saving_goals row inside the status transaction; there is nothing left to
// write here.
func (r *PostgresRepository) SetStatus(_ context.Context, _, _ string) error {
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGoal(row rowScanner) (Goal, error) {
	var g Goal
	err := row.Scan(&g.ID, &g.OwnerID, &g.WalletID, &g.Name, &g.TargetAmount,
		&g.CurrentAmount, &g.Status, &g.IsPinned, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Goal{}, ledger.ErrNotFound
		}
		return Goal{}, fmt.Errorf("scan goal: %w", err)
	}
	return g, nil
}
