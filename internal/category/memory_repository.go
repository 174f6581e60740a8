package category

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/moneta-app/moneta/internal/ledger"
)

// MemoryRepository keeps categories in memory for tests and database-less
// runs. InUse, when set, guards deletion the way foreign keys do in Postgres.
type MemoryRepository struct {
	mu         sync.Mutex
	categories map[string]Category

	// InUse reports whether a category is still referenced by budgets or
	// transactions. Nil means no reference check.
	InUse func(categoryID string) bool
}

// NewMemoryRepository builds an empty in-memory category repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{categories: make(map[string]Category)}
}

func (r *MemoryRepository) Create(_ context.Context, c Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.categories {
		if existing.OwnerID == c.OwnerID && existing.Name == c.Name {
			return fmt.Errorf("%w: category name already exists", ledger.ErrInvalidOperation)
		}
	}
	c.Shared = c.OwnerID == SystemOwnerID
	r.categories[c.ID] = c
	return nil
}

func (r *MemoryRepository) FindByID(_ context.Context, ownerID, id string) (Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[id]
	if !ok || (c.OwnerID != ownerID && c.OwnerID != SystemOwnerID) {
		return Category{}, ledger.ErrNotFound
	}
	return c, nil
}

func (r *MemoryRepository) ListForUser(_ context.Context, ownerID string) ([]Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Category
	for _, c := range r.categories {
		if c.OwnerID == ownerID || c.OwnerID == SystemOwnerID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MemoryRepository) Update(_ context.Context, ownerID, id, name string) (Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[id]
	if !ok || c.OwnerID != ownerID {
		return Category{}, ledger.ErrNotFound
	}
	c.Name = name
	r.categories[id] = c
	return c, nil
}

func (r *MemoryRepository) Delete(_ context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[id]
	if !ok || c.OwnerID != ownerID {
		return ledger.ErrNotFound
	}
	if r.InUse != nil && r.InUse(id) {
		return fmt.Errorf("%w: category still referenced", ledger.ErrConflictInUse)
	}
	delete(r.categories, id)
	return nil
}
