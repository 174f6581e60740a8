package goal

import (
	"context"
	"sort"
	"sync"

	"github.com/moneta-app/moneta/internal/ledger"
)

// MemoryRepository keeps goal metadata in memory and derives CurrentAmount,
// status and the wallet binding from the ledger store's audit trail.
type MemoryRepository struct {
	mu    sync.Mutex
	goals map[string]Goal
	store ledger.Store
}

// NewMemoryRepository builds an in-memory goal repository over a ledger
// store.
func NewMemoryRepository(store ledger.Store) *MemoryRepository {
	return &MemoryRepository{goals: make(map[string]Goal), store: store}
}

func (r *MemoryRepository) Create(_ context.Context, g Goal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g.WalletID = nil
	g.CurrentAmount = 0
	r.goals[g.ID] = g
	return nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, ownerID, id string) (Goal, error) {
	r.mu.Lock()
	g, ok := r.goals[id]
	r.mu.Unlock()
	if !ok || g.OwnerID != ownerID {
		return Goal{}, ledger.ErrNotFound
	}
	return r.hydrate(ctx, g)
}

func (r *MemoryRepository) ListByOwner(ctx context.Context, ownerID string) ([]Goal, error) {
	r.mu.Lock()
	var out []Goal
	for _, g := range r.goals {
		if g.OwnerID == ownerID {
			out = append(out, g)
		}
	}
	r.mu.Unlock()

	for i := range out {
		g, err := r.hydrate(ctx, out[i])
		if err != nil {
			return nil, err
		}
		out[i] = g
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsPinned != out[j].IsPinned {
			return out[i].IsPinned
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepository) Update(ctx context.Context, ownerID, id, name string, target int64, pinned bool) (Goal, error) {
	r.mu.Lock()
	g, ok := r.goals[id]
	if !ok || g.OwnerID != ownerID {
		r.mu.Unlock()
		return Goal{}, ledger.ErrNotFound
	}
	g.Name = name
	g.TargetAmount = target
	g.IsPinned = pinned
	r.goals[id] = g
	r.mu.Unlock()
	return r.hydrate(ctx, g)
}

func (r *MemoryRepository) Delete(_ context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.goals[id]
	if !ok || g.OwnerID != ownerID {
		return ledger.ErrNotFound
	}
	delete(r.goals, id)
	return nil
}

// SetStatus mirrors a status change applied through the ledger store.
func (r *MemoryRepository) SetStatus(_ context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.goals[id]
	if !ok {
		return ledger.ErrNotFound
	}
	g.Status = status
	r.goals[id] = g
	return nil
}

// hydrate sums the audit trail into CurrentAmount and recovers the wallet
// binding from the first contribution.
func (r *MemoryRepository) hydrate(ctx context.Context, g Goal) (Goal, error) {
	txs, err := r.store.ListGoalTransactions(ctx, g.OwnerID, g.ID)
	if err != nil {
		return Goal{}, err
	}
	g.CurrentAmount = 0
	for _, tx := range txs {
		g.CurrentAmount += tx.Amount
		if g.WalletID == nil {
			walletID := tx.WalletID
			g.WalletID = &walletID
		}
	}
	return g, nil
}
