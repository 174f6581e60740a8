package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moneta-app/moneta/internal/ledger"
	"github.com/moneta-app/moneta/internal/wallet"
)

// CategoryTotal is one row of the per-category rollup. A nil CategoryID
// bucket collects uncategorized transactions.
type CategoryTotal struct {
	CategoryID *string `json:"category_id"`
	Income     int64   `json:"income"`
	Expense    int64   `json:"expense"`
}

// Summary aggregates a user's money movement over a window.
type Summary struct {
	From         time.Time       `json:"from"`
	To           time.Time       `json:"to"`
	TotalIncome  int64           `json:"total_income"`
	TotalExpense int64           `json:"total_expense"`
	Net          int64           `json:"net"`
	ByCategory   []CategoryTotal `json:"by_category"`
}

// Source produces summaries from the underlying storage.
type Source interface {
	Summarize(ctx context.Context, ownerID string, from, to time.Time) (Summary, error)
}

// PostgresSource rolls up with one grouped SQL query.
type PostgresSource struct {
	pool *pgxpool.Pool
}

// NewPostgresSource builds a SQL-backed analytics source.
func NewPostgresSource(pool *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{pool: pool}
}

func (s *PostgresSource) Summarize(ctx context.Context, ownerID string, from, to time.Time) (Summary, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT t.category_id, t.type, COALESCE(SUM(t.amount), 0)
         FROM transactions t
         JOIN wallets w ON w.id = t.wallet_id
         WHERE w.owner_id = $1 AND t.date >= $2 AND t.date <= $3
         GROUP BY t.category_id, t.type`,
		ownerID, from, to,
	)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize: %w", err)
	}
	defer rows.Close()

	buckets := map[string]*CategoryTotal{}
	summary := Summary{From: from, To: to}
	for rows.Next() {
		var categoryID *string
		var txType string
		var total int64
		if err := rows.Scan(&categoryID, &txType, &total); err != nil {
			return Summary{}, fmt.Errorf("scan summary row: %w", err)
		}
		addToBucket(buckets, &summary, categoryID, txType, total)
	}
	if err := rows.Err(); err != nil {
		return Summary{}, err
	}
	finish(&summary, buckets)
	return summary, nil
}

// StoreSource walks the ledger store wallet by wallet for database-less runs.
type StoreSource struct {
	store   ledger.Store
	wallets wallet.Repository
}

// NewStoreSource builds a ledger-walking analytics source.
func NewStoreSource(store ledger.Store, wallets wallet.Repository) *StoreSource {
	return &StoreSource{store: store, wallets: wallets}
}

func (s *StoreSource) Summarize(ctx context.Context, ownerID string, from, to time.Time) (Summary, error) {
	ws, err := s.wallets.ListByOwner(ctx, ownerID)
	if err != nil {
		return Summary{}, err
	}

	buckets := map[string]*CategoryTotal{}
	summary := Summary{From: from, To: to}
	for _, w := range ws {
		txs, err := s.store.ListTransactions(ctx, ownerID, ledger.ListFilter{
			WalletID: w.ID,
			From:     from,
			To:       to,
		})
		if err != nil {
			return Summary{}, err
		}
		for _, tx := range txs {
			addToBucket(buckets, &summary, tx.CategoryID, tx.Type, tx.Amount)
		}
	}
	finish(&summary, buckets)
	return summary, nil
}

func addToBucket(buckets map[string]*CategoryTotal, summary *Summary, categoryID *string, txType string, total int64) {
	key := ""
	if categoryID != nil {
		key = *categoryID
	}
	bucket, ok := buckets[key]
	if !ok {
		bucket = &CategoryTotal{CategoryID: categoryID}
		buckets[key] = bucket
	}
	if txType == ledger.TypeExpense {
		bucket.Expense += total
		summary.TotalExpense += total
	} else {
		bucket.Income += total
		summary.TotalIncome += total
	}
}

func finish(summary *Summary, buckets map[string]*CategoryTotal) {
	summary.Net = summary.TotalIncome - summary.TotalExpense
	for _, b := range buckets {
		summary.ByCategory = append(summary.ByCategory, *b)
	}
	sort.Slice(summary.ByCategory, func(i, j int) bool {
		return summary.ByCategory[i].Expense > summary.ByCategory[j].Expense
	})
}
