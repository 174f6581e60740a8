package advisor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/moneta-app/moneta/internal/budget"
	"github.com/moneta-app/moneta/internal/goal"
	"github.com/moneta-app/moneta/internal/ledger"
	"github.com/moneta-app/moneta/internal/logging"
	"github.com/moneta-app/moneta/internal/notification"
	"github.com/moneta-app/moneta/internal/wallet"
)

type recordingClient struct {
	messages []Message
}

func (c *recordingClient) Complete(_ context.Context, messages []Message) (string, error) {
	c.messages = messages
	return "advice", nil
}

func newTestService(client Client) (*Service, ledger.Store) {
	store := ledger.NewInMemory()
	walletRepo := wallet.NewMemoryRepository()
	wallets := wallet.NewService(walletRepo, store)
	budgets := budget.NewService(budget.NewMemoryRepository(), budget.NewStoreAggregator(store, walletRepo), logging.Discard())
	goals := goal.NewService(goal.NewMemoryRepository(store), store, notification.NewLoggerNotifier(nil))
	return NewService(client, wallets, budgets, goals, store), store
}

func TestChatIncludesSnapshot(t *testing.T) {
	client := &recordingClient{}
	svc, _ := newTestService(client)
	ctx := context.Background()

	wallets := svc.wallets
	w, err := wallets.Create(ctx, wallet.CreateInput{
		OwnerID: "user-1", Name: "Checking", Type: wallet.TypeBank, InitialBalance: 75_000,
	})
	if err != nil {
		t.Fatalf("create wallet: %v", err)
	}

	answer, err := svc.Chat(ctx, "user-1", "How am I doing this month?")
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if answer != "advice" {
		t.Fatalf("expected advice, got %q", answer)
	}

	if len(client.messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(client.messages))
	}
	snapshot := client.messages[1].Content
	if !strings.Contains(snapshot, w.Name) || !strings.Contains(snapshot, "75000") {
		t.Fatalf("snapshot missing wallet data: %s", snapshot)
	}
	if client.messages[2].Content != "How am I doing this month?" {
		t.Fatalf("question not forwarded: %q", client.messages[2].Content)
	}
}

func TestChatRejectsEmptyQuestion(t *testing.T) {
	svc, _ := newTestService(StaticClient{})
	if _, err := svc.Chat(context.Background(), "user-1", "  "); !errors.Is(err, ledger.ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}
}

func TestHTTPClientUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "key", "model", time.Second)
	_, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestHTTPClientParsesCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"spend less"}}]}`))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "key", "model", time.Second)
	answer, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if answer != "spend less" {
		t.Fatalf("expected parsed answer, got %q", answer)
	}
}
