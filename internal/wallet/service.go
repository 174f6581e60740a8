package wallet

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/moneta-app/moneta/internal/ledger"
)

// CreateInput carries a wallet creation request.
type CreateInput struct {
	OwnerID        string
	Name           string
	Type           string
	Purpose        string
	InitialBalance int64
}

// Service provides wallet lifecycle and balance reads on top of the
// repository and the ledger store.
type Service struct {
	repo  Repository
	store ledger.Store
}

// NewService builds a wallet service.
func NewService(repo Repository, store ledger.Store) *Service {
	return &Service{repo: repo, store: store}
}

// Create registers a wallet and, when an initial balance is given, posts the
// opening deposit through the ledger so conservation holds from the start.
func (s *Service) Create(ctx context.Context, in CreateInput) (Wallet, error) {
	if !ValidType(in.Type) {
		return Wallet{}, fmt.Errorf("%w: unknown wallet type %q", ledger.ErrInvalidOperation, in.Type)
	}
	if in.InitialBalance < 0 {
		return Wallet{}, fmt.Errorf("%w: negative initial balance", ledger.ErrInvalidOperation)
	}

	w := Wallet{
		ID:        uuid.NewString(),
		OwnerID:   in.OwnerID,
		Name:      in.Name,
		Type:      in.Type,
		Purpose:   in.Purpose,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, w); err != nil {
		return Wallet{}, err
	}
	if err := s.store.EnsureWallet(ctx, w.ID, w.OwnerID, w.Name); err != nil {
		return Wallet{}, err
	}

	if in.InitialBalance > 0 {
		_, balance, err := s.store.RecordTransaction(ctx, ledger.RecordInput{
			UserID:   in.OwnerID,
			WalletID: w.ID,
			Name:     "Initial deposit",
			Amount:   in.InitialBalance,
			Type:     ledger.TypeIncome,
			Date:     w.CreatedAt,
		})
		if err != nil {
			return Wallet{}, err
		}
		w.Balance = balance
	}
	return w, nil
}

// Get returns one wallet with its current ledger balance.
func (s *Service) Get(ctx context.Context, ownerID, id string) (Wallet, error) {
	w, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return Wallet{}, err
	}
	avail, err := s.store.AvailableBalance(ctx, w.ID)
	if err != nil {
		return Wallet{}, err
	}
	w.Balance = avail.Balance
	return w, nil
}

// List returns the owner's wallets with current ledger balances.
func (s *Service) List(ctx context.Context, ownerID string) ([]Wallet, error) {
	wallets, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	for i := range wallets {
		avail, err := s.store.AvailableBalance(ctx, wallets[i].ID)
		if err != nil {
			return nil, err
		}
		wallets[i].Balance = avail.Balance
	}
	return wallets, nil
}

// Update renames a wallet or changes its purpose. Type and balance are not
// editable here.
func (s *Service) Update(ctx context.Context, ownerID, id, name, purpose string) (Wallet, error) {
	return s.repo.Update(ctx, ownerID, id, name, purpose)
}

// Delete removes a wallet. Wallets whose active goals still hold contributed
// funds are refused so those funds cannot vanish with the wallet.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := s.repo.FindByID(ctx, ownerID, id); err != nil {
		return err
	}
	avail, err := s.store.AvailableBalance(ctx, id)
	if err != nil {
		return err
	}
	if avail.Allocated != 0 {
		return fmt.Errorf("%w: wallet funds active saving goals", ledger.ErrConflictInUse)
	}
	return s.repo.Delete(ctx, ownerID, id)
}

// Balance returns the stored and available balance for one wallet.
func (s *Service) Balance(ctx context.Context, ownerID, id string) (ledger.Availability, error) {
	if _, err := s.repo.FindByID(ctx, ownerID, id); err != nil {
		return ledger.Availability{}, err
	}
	return s.store.AvailableBalance(ctx, id)
}
