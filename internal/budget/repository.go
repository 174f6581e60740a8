package budget

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moneta-app/moneta/internal/ledger"
)

// Repository persists budget rows. At most one budget per (owner, category)
// exists at a time.
type Repository interface {
	Create(ctx context.Context, b Budget) error
	FindByID(ctx context.Context, ownerID, id string) (Budget, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Budget, error)
	Update(ctx context.Context, b Budget) (Budget, error)
	Delete(ctx context.Context, ownerID, id string) error
	ExistsForCategory(ctx context.Context, ownerID, categoryID string) (bool, error)
}

// PostgresRepository stores budgets in Postgres; the unique index on
// (owner_id, category_id) enforces one budget per category.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed budget repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Create(ctx context.Context, b Budget) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO budgets (id, owner_id, category_id, limit_amount, start_date, end_date, is_pinned)
         VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		b.ID, b.OwnerID, b.CategoryID, b.LimitAmount, b.StartDate, b.EndDate, b.IsPinned,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return fmt.Errorf("%w: budget already exists for category", ledger.ErrInvalidOperation)
			case "23503":
				return fmt.Errorf("%w: category", ledger.ErrNotFound)
			}
		}
		return fmt.Errorf("insert budget: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, ownerID, id string) (Budget, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, owner_id, category_id, limit_amount, start_date, end_date, is_pinned
         FROM budgets WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	return scanBudget(row)
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]Budget, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, owner_id, category_id, limit_amount, start_date, end_date, is_pinned
         FROM budgets WHERE owner_id = $1 ORDER BY is_pinned DESC, start_date`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Update(ctx context.Context, b Budget) (Budget, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE budgets SET limit_amount = $3, start_date = $4, end_date = $5, is_pinned = $6
         WHERE id = $1 AND owner_id = $2
         RETURNING id, owner_id, category_id, limit_amount, start_date, end_date, is_pinned`,
		b.ID, b.OwnerID, b.LimitAmount, b.StartDate, b.EndDate, b.IsPinned,
	)
	return scanBudget(row)
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM budgets WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) ExistsForCategory(ctx context.Context, ownerID, categoryID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM budgets WHERE owner_id = $1 AND category_id = $2)`,
		ownerID, categoryID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("budget existence: %w", err)
	}
	return exists, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBudget(row rowScanner) (Budget, error) {
	var b Budget
	err := row.Scan(&b.ID, &b.OwnerID, &b.CategoryID, &b.LimitAmount, &b.StartDate, &b.EndDate, &b.IsPinned)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Budget{}, ledger.ErrNotFound
		}
		return Budget{}, fmt.Errorf("scan budget: %w", err)
	}
	return b, nil
}
