package budget

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moneta-app/moneta/internal/ledger"
	"github.com/moneta-app/moneta/internal/wallet"
)

// Aggregator derives total expense spending per category and window.
type Aggregator interface {
	Spent(ctx context.Context, ownerID, categoryID string, from, to time.Time) (int64, error)
}

// PostgresAggregator sums expense rows with one SQL query.
type PostgresAggregator struct {
	pool *pgxpool.Pool
}

// NewPostgresAggregator builds a SQL-backed spend aggregator.
func NewPostgresAggregator(pool *pgxpool.Pool) *PostgresAggregator {
	return &PostgresAggregator{pool: pool}
}

func (a *PostgresAggregator) Spent(ctx context.Context, ownerID, categoryID string, from, to time.Time) (int64, error) {
	var total int64
	err := a.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(t.amount), 0)
         FROM transactions t
         JOIN wallets w ON w.id = t.wallet_id
         WHERE w.owner_id = $1 AND t.category_id = $2
           AND t.type = 'expense' AND t.date >= $3 AND t.date <= $4`,
		ownerID, categoryID, from, to,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("aggregate spending: %w", err)
	}
	return total, nil
}

// StoreAggregator walks the ledger store wallet by wallet. Used in
// database-less runs where no SQL aggregation is available.
type StoreAggregator struct {
	store   ledger.Store
	wallets wallet.Repository
}

// NewStoreAggregator builds a ledger-walking spend aggregator.
func NewStoreAggregator(store ledger.Store, wallets wallet.Repository) *StoreAggregator {
	return &StoreAggregator{store: store, wallets: wallets}
}

func (a *StoreAggregator) Spent(ctx context.Context, ownerID, categoryID string, from, to time.Time) (int64, error) {
	ws, err := a.wallets.ListByOwner(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, w := range ws {
		txs, err := a.store.ListTransactions(ctx, ownerID, ledger.ListFilter{
			WalletID:   w.ID,
			CategoryID: categoryID,
			Type:       ledger.TypeExpense,
			From:       from,
			To:         to,
		})
		if err != nil {
			return 0, err
		}
		for _, tx := range txs {
			total += tx.Amount
		}
	}
	return total, nil
}
