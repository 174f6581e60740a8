package goal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/moneta-app/moneta/internal/ledger"
	"github.com/moneta-app/moneta/internal/notification"
)

// CreateInput carries a goal creation request.
type CreateInput struct {
	OwnerID      string
	Name         string
	TargetAmount int64
	IsPinned     bool
}

// Service provides goal CRUD plus the contribution lifecycle. All money
// movement goes through the ledger store.
type Service struct {
	repo     Repository
	store    ledger.Store
	notifier notification.Notifier
}

// NewService builds a goal service.
func NewService(repo Repository, store ledger.Store, notifier notification.Notifier) *Service {
	return &Service{repo: repo, store: store, notifier: notifier}
}

// Create registers an active goal with zero progress.
func (s *Service) Create(ctx context.Context, in CreateInput) (Goal, error) {
	if in.TargetAmount <= 0 {
		return Goal{}, fmt.Errorf("%w: target must be positive", ledger.ErrInvalidOperation)
	}
	g := Goal{
		ID:           uuid.NewString(),
		OwnerID:      in.OwnerID,
		Name:         in.Name,
		TargetAmount: in.TargetAmount,
		Status:       ledger.GoalActive,
		IsPinned:     in.IsPinned,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, g); err != nil {
		return Goal{}, err
	}
	if err := s.store.EnsureGoal(ctx, ledger.GoalRef{
		ID: g.ID, OwnerID: g.OwnerID, Name: g.Name, Target: g.TargetAmount,
	}); err != nil {
		return Goal{}, err
	}
	return g, nil
}

// Get returns one goal.
func (s *Service) Get(ctx context.Context, ownerID, id string) (Goal, error) {
	return s.repo.FindByID(ctx, ownerID, id)
}

// List returns the owner's goals, pinned first.
func (s *Service) List(ctx context.Context, ownerID string) ([]Goal, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// Update edits name, target and pin flag. The target cannot drop below the
// amount already saved.
func (s *Service) Update(ctx context.Context, ownerID, id, name string, target int64, pinned bool) (Goal, error) {
	if target <= 0 {
		return Goal{}, fmt.Errorf("%w: target must be positive", ledger.ErrInvalidOperation)
	}
	current, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return Goal{}, err
	}
	if target < current.CurrentAmount {
		return Goal{}, fmt.Errorf("%w: target below saved amount", ledger.ErrInvalidOperation)
	}
	return s.repo.Update(ctx, ownerID, id, name, target, pinned)
}

// Delete removes a goal. Goals still holding funds are refused; withdraw
// first so the allocation returns to the wallet.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	g, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if g.CurrentAmount > 0 {
		return fmt.Errorf("%w: goal still holds funds", ledger.ErrConflictInUse)
	}
	return s.repo.Delete(ctx, ownerID, id)
}

// Contribute moves funds between wallet and goal. Negative amounts withdraw
// back to the wallet.
func (s *Service) Contribute(ctx context.Context, userID, goalID, walletID string, amount int64, date time.Time) (ledger.ContributionResult, error) {
	if amount == 0 {
		return ledger.ContributionResult{}, fmt.Errorf("%w: zero contribution", ledger.ErrInvalidOperation)
	}
	if date.IsZero() {
		date = time.Now().UTC()
	}
	return s.store.Contribute(ctx, ledger.ContributionInput{
		UserID:   userID,
		GoalID:   goalID,
		WalletID: walletID,
		Amount:   amount,
		Date:     date,
	})
}

// Revert undoes a prior contribution by its audit row id.
func (s *Service) Revert(ctx context.Context, userID, auditTxID string) (ledger.RevertResult, error) {
	return s.store.RevertContribution(ctx, userID, auditTxID)
}

// SetStatus toggles a goal between active and completed.
func (s *Service) SetStatus(ctx context.Context, userID, goalID, status string) (ledger.StatusResult, error) {
	if status != ledger.GoalActive && status != ledger.GoalCompleted {
		return ledger.StatusResult{}, fmt.Errorf("%w: unknown status %q", ledger.ErrInvalidOperation, status)
	}
	res, err := s.store.SetGoalStatus(ctx, userID, goalID, status)
	if err != nil {
		return ledger.StatusResult{}, err
	}
	if err := s.repo.SetStatus(ctx, goalID, res.Status); err != nil {
		return ledger.StatusResult{}, err
	}
	if res.Status == ledger.GoalCompleted {
		s.notifier.Notify(ctx, notification.Event{
			Kind:   notification.KindGoalCompleted,
			UserID: userID,
			Ref:    goalID,
		})
	}
	return res, nil
}

// History returns the goal's contribution audit trail.
func (s *Service) History(ctx context.Context, userID, goalID string) ([]ledger.GoalTransaction, error) {
	return s.store.ListGoalTransactions(ctx, userID, goalID)
}
