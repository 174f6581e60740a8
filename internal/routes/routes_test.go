package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/moneta-app/moneta/internal/config"
	"github.com/moneta-app/moneta/internal/logging"
)

func testApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := config.Config{
		AppName:         "moneta-test",
		AppEnv:          "development",
		JWTSecret:       "test-secret",
		RefreshSecret:   "test-refresh",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
	}
	app := fiber.New()
	if err := Setup(app, Deps{Cfg: cfg, Logger: logging.Discard()}); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var payload bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&payload).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp.StatusCode, decoded
}

func TestRegisterLoginAndWalletFlow(t *testing.T) {
	app := testApp(t)

	status, _ := doJSON(t, app, fiber.MethodPost, "/api/v1/identity/register", "", fiber.Map{
		"email":    "anna@example.com",
		"password": "correct-horse",
		"name":     "Anna",
	})
	if status != fiber.StatusCreated {
		t.Fatalf("register: expected 201, got %d", status)
	}

	status, login := doJSON(t, app, fiber.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"email":    "anna@example.com",
		"password": "correct-horse",
	})
	if status != fiber.StatusOK {
		t.Fatalf("login: expected 200, got %d (%v)", status, login)
	}
	token, _ := login["access_token"].(string)
	if token == "" {
		t.Fatalf("missing access token: %v", login)
	}

	status, created := doJSON(t, app, fiber.MethodPost, "/api/v1/wallets", token, fiber.Map{
		"name":            "Checking",
		"type":            "bank",
		"initial_balance": 100000,
	})
	if status != fiber.StatusCreated {
		t.Fatalf("create wallet: expected 201, got %d (%v)", status, created)
	}
	walletID, _ := created["id"].(string)

	status, goalResp := doJSON(t, app, fiber.MethodPost, "/api/v1/goals", token, fiber.Map{
		"name":          "Vacation",
		"target_amount": 50000,
	})
	if status != fiber.StatusCreated {
		t.Fatalf("create goal: expected 201, got %d (%v)", status, goalResp)
	}
	goalID, _ := goalResp["id"].(string)

	status, contrib := doJSON(t, app, fiber.MethodPost,
		fmt.Sprintf("/api/v1/goals/%s/contributions", goalID), token, fiber.Map{
			"wallet_id": walletID,
			"amount":    30000,
		})
	if status != fiber.StatusCreated {
		t.Fatalf("contribute: expected 201, got %d (%v)", status, contrib)
	}

	status, balance := doJSON(t, app, fiber.MethodGet,
		fmt.Sprintf("/api/v1/wallets/%s/balance", walletID), token, nil)
	if status != fiber.StatusOK {
		t.Fatalf("balance: expected 200, got %d", status)
	}
	if got := balance["balance"].(float64); got != 70000 {
		t.Fatalf("expected balance 70000, got %v", got)
	}
	if got := balance["available_balance"].(float64); got != 70000 {
		t.Fatalf("expected available 70000, got %v", got)
	}
	if got := balance["allocated"].(float64); got != 30000 {
		t.Fatalf("expected 30000 allocated, got %v", got)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := testApp(t)

	status, _ := doJSON(t, app, fiber.MethodGet, "/api/v1/wallets", "", nil)
	if status != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", status)
	}
}

func TestHealthAndPing(t *testing.T) {
	app := testApp(t)

	status, _ := doJSON(t, app, fiber.MethodGet, "/healthz", "", nil)
	if status != fiber.StatusOK {
		t.Fatalf("healthz: expected 200, got %d", status)
	}
	status, ping := doJSON(t, app, fiber.MethodGet, "/api/v1/ping", "", nil)
	if status != fiber.StatusOK || ping["status"] != "ok" {
		t.Fatalf("ping: expected ok, got %d %v", status, ping)
	}
}
