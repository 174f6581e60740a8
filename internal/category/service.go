package category

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/moneta-app/moneta/internal/ledger"
)

// Service provides category CRUD. Shared defaults are read-only for users.
type Service struct {
	repo Repository
}

// NewService builds a category service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create adds a category owned by the user.
func (s *Service) Create(ctx context.Context, ownerID, name string) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Category{}, fmt.Errorf("%w: empty category name", ledger.ErrInvalidOperation)
	}
	c := Category{ID: uuid.NewString(), OwnerID: ownerID, Name: name}
	if err := s.repo.Create(ctx, c); err != nil {
		return Category{}, err
	}
	return c, nil
}

// List returns the user's categories plus the shared defaults.
func (s *Service) List(ctx context.Context, ownerID string) ([]Category, error) {
	return s.repo.ListForUser(ctx, ownerID)
}

// Get returns one category visible to the user.
func (s *Service) Get(ctx context.Context, ownerID, id string) (Category, error) {
	return s.repo.FindByID(ctx, ownerID, id)
}

// Rename changes a category's name. Shared defaults cannot be renamed.
func (s *Service) Rename(ctx context.Context, ownerID, id, name string) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Category{}, fmt.Errorf("%w: empty category name", ledger.ErrInvalidOperation)
	}
	return s.repo.Update(ctx, ownerID, id, name)
}

// Delete removes a user-owned category. Categories still referenced by
// budgets or transactions are refused with ErrConflictInUse.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	return s.repo.Delete(ctx, ownerID, id)
}

// SeedDefaults inserts the shared default categories when missing. Safe to
// call on every startup of a database-less run.
func (s *Service) SeedDefaults(ctx context.Context) {
	for _, name := range []string{"Groceries", "Transport", "Housing", "Entertainment", "Health", "Salary"} {
		_ = s.repo.Create(ctx, Category{ID: uuid.NewString(), OwnerID: SystemOwnerID, Name: name})
	}
}
