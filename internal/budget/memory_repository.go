package budget

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/moneta-app/moneta/internal/ledger"
)

// MemoryRepository keeps budgets in memory for tests and database-less runs.
type MemoryRepository struct {
	mu      sync.Mutex
	budgets map[string]Budget
}

// NewMemoryRepository builds an empty in-memory budget repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{budgets: make(map[string]Budget)}
}

func (r *MemoryRepository) Create(_ context.Context, b Budget) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.budgets {
		if existing.OwnerID == b.OwnerID && existing.CategoryID == b.CategoryID {
			return fmt.Errorf("%w: budget already exists for category", ledger.ErrInvalidOperation)
		}
	}
	r.budgets[b.ID] = b
	return nil
}

func (r *MemoryRepository) FindByID(_ context.Context, ownerID, id string) (Budget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.budgets[id]
	if !ok || b.OwnerID != ownerID {
		return Budget{}, ledger.ErrNotFound
	}
	return b, nil
}

func (r *MemoryRepository) ListByOwner(_ context.Context, ownerID string) ([]Budget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Budget
	for _, b := range r.budgets {
		if b.OwnerID == ownerID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsPinned != out[j].IsPinned {
			return out[i].IsPinned
		}
		return out[i].StartDate.Before(out[j].StartDate)
	})
	return out, nil
}

func (r *MemoryRepository) Update(_ context.Context, b Budget) (Budget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.budgets[b.ID]
	if !ok || existing.OwnerID != b.OwnerID {
		return Budget{}, ledger.ErrNotFound
	}
	existing.LimitAmount = b.LimitAmount
	existing.StartDate = b.StartDate
	existing.EndDate = b.EndDate
	existing.IsPinned = b.IsPinned
	r.budgets[b.ID] = existing
	return existing, nil
}

func (r *MemoryRepository) Delete(_ context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.budgets[id]
	if !ok || b.OwnerID != ownerID {
		return ledger.ErrNotFound
	}
	delete(r.budgets, id)
	return nil
}

// AnyForCategory reports whether any owner's budget references the category.
// Used as the reference check for category deletion in database-less runs.
func (r *MemoryRepository) AnyForCategory(categoryID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.budgets {
		if b.CategoryID == categoryID {
			return true
		}
	}
	return false
}

func (r *MemoryRepository) ExistsForCategory(_ context.Context, ownerID, categoryID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.budgets {
		if b.OwnerID == ownerID && b.CategoryID == categoryID {
			return true, nil
		}
	}
	return false, nil
}
