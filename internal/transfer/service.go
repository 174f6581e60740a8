package transfer

import (
	"context"
	"fmt"
	"time"

	"github.com/moneta-app/moneta/internal/ledger"
	"github.com/moneta-app/moneta/internal/notification"
)

// Input carries a wallet-to-wallet transfer request.
type Input struct {
	UserID   string
	SourceID string
	DestID   string
	Amount   int64
	Date     time.Time
	Name     string
}

// Service moves funds between two wallets of the same owner through the
// ledger store.
type Service struct {
	store    ledger.Store
	notifier notification.Notifier
}

// NewService builds a transfer service.
func NewService(store ledger.Store, notifier notification.Notifier) *Service {
	return &Service{store: store, notifier: notifier}
}

// Transfer debits the source, credits the destination and posts the paired
// ledger rows atomically.
func (s *Service) Transfer(ctx context.Context, in Input) (ledger.TransferResult, error) {
	if in.Amount <= 0 {
		return ledger.TransferResult{}, fmt.Errorf("%w: amount must be positive", ledger.ErrInvalidOperation)
	}
	if in.Date.IsZero() {
		in.Date = time.Now().UTC()
	}
	if in.Name == "" {
		in.Name = "Transfer"
	}

	res, err := s.store.Transfer(ctx, ledger.TransferInput{
		UserID:   in.UserID,
		SourceID: in.SourceID,
		DestID:   in.DestID,
		Amount:   in.Amount,
		Date:     in.Date,
		Name:     in.Name,
	})
	if err != nil {
		return ledger.TransferResult{}, err
	}

	s.notifier.Notify(ctx, notification.Event{
		Kind:   notification.KindTransfer,
		UserID: in.UserID,
		Ref:    in.DestID,
		Body:   fmt.Sprintf("moved %d from %s", in.Amount, in.SourceID),
	})
	return res, nil
}
