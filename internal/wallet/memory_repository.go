package wallet

import (
	"context"
	"sync"

	"github.com/moneta-app/moneta/internal/ledger"
)

// MemoryRepository keeps wallets in memory for tests and database-less runs.
type MemoryRepository struct {
	mu      sync.Mutex
	wallets map[string]Wallet
}

// NewMemoryRepository builds an empty in-memory wallet repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{wallets: make(map[string]Wallet)}
}

func (r *MemoryRepository) Create(_ context.Context, w Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.wallets[w.ID] = w
	return nil
}

func (r *MemoryRepository) FindByID(_ context.Context, ownerID, id string) (Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[id]
	if !ok || w.OwnerID != ownerID {
		return Wallet{}, ledger.ErrNotFound
	}
	return w, nil
}

func (r *MemoryRepository) ListByOwner(_ context.Context, ownerID string) ([]Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Wallet
	for _, w := range r.wallets {
		if w.OwnerID == ownerID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r *MemoryRepository) Update(_ context.Context, ownerID, id, name, purpose string) (Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[id]
	if !ok || w.OwnerID != ownerID {
		return Wallet{}, ledger.ErrNotFound
	}
	w.Name = name
	w.Purpose = purpose
	r.wallets[id] = w
	return w, nil
}

func (r *MemoryRepository) Delete(_ context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[id]
	if !ok || w.OwnerID != ownerID {
		return ledger.ErrNotFound
	}
	delete(r.wallets, id)
	return nil
}
