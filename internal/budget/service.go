package budget

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/moneta-app/moneta/internal/ledger"
)

// CreateInput carries a budget creation request.
type CreateInput struct {
	OwnerID     string
	CategoryID  string
	LimitAmount int64
	StartDate   time.Time
	EndDate     time.Time
	IsPinned    bool
}

// Service provides budget CRUD with derived spending totals.
type Service struct {
	repo   Repository
	agg    Aggregator
	logger *slog.Logger
}

// NewService builds a budget service.
func NewService(repo Repository, agg Aggregator, logger *slog.Logger) *Service {
	return &Service{repo: repo, agg: agg, logger: logger}
}

// Create adds a budget. One budget per category per owner.
func (s *Service) Create(ctx context.Context, in CreateInput) (Budget, error) {
	if in.LimitAmount <= 0 {
		return Budget{}, fmt.Errorf("%w: limit must be positive", ledger.ErrInvalidOperation)
	}
	if !in.EndDate.After(in.StartDate) {
		return Budget{}, fmt.Errorf("%w: end date must follow start date", ledger.ErrInvalidOperation)
	}
	exists, err := s.repo.ExistsForCategory(ctx, in.OwnerID, in.CategoryID)
	if err != nil {
		return Budget{}, err
	}
	if exists {
		return Budget{}, fmt.Errorf("%w: budget already exists for category", ledger.ErrInvalidOperation)
	}

	b := Budget{
		ID:          uuid.NewString(),
		OwnerID:     in.OwnerID,
		CategoryID:  in.CategoryID,
		LimitAmount: in.LimitAmount,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		IsPinned:    in.IsPinned,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return Budget{}, err
	}
	return b, nil
}

// Get returns one budget with derived spending.
func (s *Service) Get(ctx context.Context, ownerID, id string) (Budget, error) {
	b, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return Budget{}, err
	}
	s.fillSpent(ctx, &b)
	return b, nil
}

// List returns the owner's budgets with derived spending, pinned first.
func (s *Service) List(ctx context.Context, ownerID string) ([]Budget, error) {
	budgets, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	for i := range budgets {
		s.fillSpent(ctx, &budgets[i])
	}
	return budgets, nil
}

// Update edits a budget's limit, window and pin flag.
func (s *Service) Update(ctx context.Context, b Budget) (Budget, error) {
	if b.LimitAmount <= 0 {
		return Budget{}, fmt.Errorf("%w: limit must be positive", ledger.ErrInvalidOperation)
	}
	if !b.EndDate.After(b.StartDate) {
		return Budget{}, fmt.Errorf("%w: end date must follow start date", ledger.ErrInvalidOperation)
	}
	updated, err := s.repo.Update(ctx, b)
	if err != nil {
		return Budget{}, err
	}
	s.fillSpent(ctx, &updated)
	return updated, nil
}

// Delete removes a budget.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	return s.repo.Delete(ctx, ownerID, id)
}

// fillSpent derives Spent and IsOver. Aggregation failures degrade to zero so
// a read never fails on the derived field.
func (s *Service) fillSpent(ctx context.Context, b *Budget) {
	spent, err := s.agg.Spent(ctx, b.OwnerID, b.CategoryID, b.StartDate, b.EndDate)
	if err != nil {
		s.logger.Warn("budget spend aggregation failed",
			slog.String("budget_id", b.ID), slog.Any("error", err))
		spent = 0
	}
	b.Spent = spent
	b.IsOver = spent > b.LimitAmount
}
