package category

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moneta-app/moneta/internal/ledger"
)

// Repository persists categories. FindByID and ListForUser see both the
// user's own categories and the shared defaults.
type Repository interface {
	Create(ctx context.Context, c Category) error
	FindByID(ctx context.Context, ownerID, id string) (Category, error)
	ListForUser(ctx context.Context, ownerID string) ([]Category, error)
	Update(ctx context.Context, ownerID, id, name string) (Category, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// PostgresRepository stores categories in Postgres. Referential integrity
// guards deletion: budgets and transactions reference categories with ON
// DELETE RESTRICT.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed category repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Create(ctx context.Context, c Category) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO categories (id, owner_id, name) VALUES ($1, $2, $3)`,
		c.ID, c.OwnerID, c.Name,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: category name already exists", ledger.ErrInvalidOperation)
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, ownerID, id string) (Category, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, owner_id, name FROM categories
         WHERE id = $1 AND owner_id IN ($2, $3)`,
		id, ownerID, SystemOwnerID,
	)
	return scanCategory(row)
}

func (r *PostgresRepository) ListForUser(ctx context.Context, ownerID string) ([]Category, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, owner_id, name FROM categories
         WHERE owner_id IN ($1, $2) ORDER BY name`,
		ownerID, SystemOwnerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Update(ctx context.Context, ownerID, id, name string) (Category, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE categories SET name = $3
         WHERE id = $1 AND owner_id = $2
         RETURNING id, owner_id, name`,
		id, ownerID, name,
	)
	return scanCategory(row)
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM categories WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("%w: category still referenced", ledger.ErrConflictInUse)
		}
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (Category, error) {
	var c Category
	if err := row.Scan(&c.ID, &c.OwnerID, &c.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, ledger.ErrNotFound
		}
		return Category{}, fmt.Errorf("scan category: %w", err)
	}
	c.Shared = c.OwnerID == SystemOwnerID
	return c, nil
}
