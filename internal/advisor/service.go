package advisor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/moneta-app/moneta/internal/budget"
	"github.com/moneta-app/moneta/internal/goal"
	"github.com/moneta-app/moneta/internal/ledger"
	"github.com/moneta-app/moneta/internal/wallet"
)

const systemPrompt = "You are a personal finance assistant. Answer using only " +
	"the financial snapshot provided. Amounts are integer minor units (cents)."

const recentTransactionLimit = 20

// Service assembles a read-only financial snapshot and forwards the user's
// question to the chat backend. It never mutates ledger state.
type Service struct {
	client  Client
	wallets *wallet.Service
	budgets *budget.Service
	goals   *goal.Service
	store   ledger.Store
}

// NewService builds an advisor service.
func NewService(client Client, wallets *wallet.Service, budgets *budget.Service, goals *goal.Service, store ledger.Store) *Service {
	return &Service{client: client, wallets: wallets, budgets: budgets, goals: goals, store: store}
}

// Chat answers one user question against the user's current finances.
func (s *Service) Chat(ctx context.Context, userID, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("%w: empty question", ledger.ErrInvalidOperation)
	}

	snapshot, err := s.snapshot(ctx, userID)
	if err != nil {
		return "", err
	}

	return s.client.Complete(ctx, []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "system", Content: snapshot},
		{Role: "user", Content: question},
	})
}

// snapshot serializes wallets, budgets, goals and recent transactions into a
// compact plain-text context block.
func (s *Service) snapshot(ctx context.Context, userID string) (string, error) {
	var b strings.Builder

	wallets, err := s.wallets.List(ctx, userID)
	if err != nil {
		return "", err
	}
	b.WriteString("Wallets:\n")
	for _, w := range wallets {
		avail, err := s.store.AvailableBalance(ctx, w.ID)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "- %s (%s): balance %d, available %d\n", w.Name, w.Type, avail.Balance, avail.Available)
	}

	budgets, err := s.budgets.List(ctx, userID)
	if err != nil {
		return "", err
	}
	b.WriteString("Budgets:\n")
	for _, bd := range budgets {
		fmt.Fprintf(&b, "- category %s: limit %d, spent %d, over=%t\n", bd.CategoryID, bd.LimitAmount, bd.Spent, bd.IsOver)
	}

	goals, err := s.goals.List(ctx, userID)
	if err != nil {
		return "", err
	}
	b.WriteString("Saving goals:\n")
	for _, g := range goals {
		fmt.Fprintf(&b, "- %s: %d of %d, status %s\n", g.Name, g.CurrentAmount, g.TargetAmount, g.Status)
	}

	b.WriteString("Recent transactions:\n")
	for _, w := range wallets {
		txs, err := s.store.ListTransactions(ctx, userID, ledger.ListFilter{
			WalletID: w.ID,
			Limit:    recentTransactionLimit,
		})
		if err != nil {
			return "", err
		}
		for _, tx := range txs {
			fmt.Fprintf(&b, "- %s %s %d on %s (%s)\n",
				tx.Type, tx.Name, tx.Amount, tx.Date.Format(time.DateOnly), w.Name)
		}
	}

	return b.String(), nil
}
