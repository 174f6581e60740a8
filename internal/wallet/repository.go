package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moneta-app/moneta/internal/ledger"
)

// Repository persists wallet rows. Balance mutation happens in the ledger
// store; this repository only reads balances back.
type Repository interface {
	Create(ctx context.Context, w Wallet) error
	FindByID(ctx context.Context, ownerID, id string) (Wallet, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Wallet, error)
	Update(ctx context.Context, ownerID, id, name, purpose string) (Wallet, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// PostgresRepository stores wallets in Postgres.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed wallet repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Create(ctx context.Context, w Wallet) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO wallets (id, owner_id, name, type, balance, purpose, created_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		w.ID, w.OwnerID, w.Name, w.Type, w.Balance, w.Purpose, w.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert wallet: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, ownerID, id string) (Wallet, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, owner_id, name, type, balance, purpose, created_at
         FROM wallets WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	var w Wallet
	if err := row.Scan(&w.ID, &w.OwnerID, &w.Name, &w.Type, &w.Balance, &w.Purpose, &w.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Wallet{}, ledger.ErrNotFound
		}
		return Wallet{}, fmt.Errorf("find wallet: %w", err)
	}
	return w, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]Wallet, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, owner_id, name, type, balance, purpose, created_at
         FROM wallets WHERE owner_id = $1 ORDER BY created_at`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	defer rows.Close()

	var wallets []Wallet
	for rows.Next() {
		var w Wallet
		if err := rows.Scan(&w.ID, &w.OwnerID, &w.Name, &w.Type, &w.Balance, &w.Purpose, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan wallet: %w", err)
		}
		wallets = append(wallets, w)
	}
	return wallets, rows.Err()
}

func (r *PostgresRepository) Update(ctx context.Context, ownerID, id, name, purpose string) (Wallet, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE wallets SET name = $3, purpose = $4
         WHERE id = $1 AND owner_id = $2
         RETURNING id, owner_id, name, type, balance, purpose, created_at`,
		id, ownerID, name, purpose,
	)
	var w Wallet
	if err := row.Scan(&w.ID, &w.OwnerID, &w.Name, &w.Type, &w.Balance, &w.Purpose, &w.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Wallet{}, ledger.ErrNotFound
		}
		return Wallet{}, fmt.Errorf("update wallet: %w", err)
	}
	return w, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM wallets WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ledger.ErrConflictInUse
		}
		return fmt.Errorf("delete wallet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ledger.ErrNotFound
	}
	return nil
}
