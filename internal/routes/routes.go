package routes

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/moneta-app/moneta/internal/advisor"
	"github.com/moneta-app/moneta/internal/analytics"
	"github.com/moneta-app/moneta/internal/auth"
	"github.com/moneta-app/moneta/internal/budget"
	"github.com/moneta-app/moneta/internal/category"
	"github.com/moneta-app/moneta/internal/config"
	"github.com/moneta-app/moneta/internal/goal"
	"github.com/moneta-app/moneta/internal/identity"
	"github.com/moneta-app/moneta/internal/ledger"
	"github.com/moneta-app/moneta/internal/middleware"
	"github.com/moneta-app/moneta/internal/notification"
	"github.com/moneta-app/moneta/internal/transaction"
	"github.com/moneta-app/moneta/internal/transfer"
	"github.com/moneta-app/moneta/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes. A nil DB or Cache
// falls back to in-memory implementations, allowed only in dev.
func Setup(app *fiber.App, d Deps) error {
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)

	// Storage backends
	var store ledger.Store
	if d.DB != nil {
		store = ledger.NewPostgresStore(d.DB)
	} else {
		store = ledger.NewInMemory()
	}

	var identityRepo identity.Repository
	var walletRepo wallet.Repository
	var categoryRepo category.Repository
	var budgetRepo budget.Repository
	var goalRepo goal.Repository
	var spendAgg budget.Aggregator
	var summarySource analytics.Source

	if d.DB != nil {
		identityRepo = identity.NewPostgresRepository(d.DB)
		walletRepo = wallet.NewPostgresRepository(d.DB)
		categoryRepo = category.NewPostgresRepository(d.DB)
		budgetRepo = budget.NewPostgresRepository(d.DB)
		goalRepo = goal.NewPostgresRepository(d.DB)
		spendAgg = budget.NewPostgresAggregator(d.DB)
		summarySource = analytics.NewPostgresSource(d.DB)
	} else {
		identityRepo = identity.NewMemoryRepository()
		walletRepo = wallet.NewMemoryRepository()
		memBudgets := budget.NewMemoryRepository()
		memCategories := category.NewMemoryRepository()
		memCategories.InUse = memBudgets.AnyForCategory
		categoryRepo = memCategories
		budgetRepo = memBudgets
		goalRepo = goal.NewMemoryRepository(store)
		spendAgg = budget.NewStoreAggregator(store, walletRepo)
		summarySource = analytics.NewStoreSource(store, walletRepo)
	}

	// Services
	notifier := notification.NewLoggerNotifier(d.Logger)
	identitySvc := identity.NewService(identityRepo)
	authSvc := auth.NewService(d.Cfg, identityRepo)
	walletSvc := wallet.NewService(walletRepo, store)
	txSvc := transaction.NewService(store)
	categorySvc := category.NewService(categoryRepo)
	budgetSvc := budget.NewService(budgetRepo, spendAgg, d.Logger)
	goalSvc := goal.NewService(goalRepo, store, notifier)
	transferSvc := transfer.NewService(store, notifier)

	var advisorClient advisor.Client
	if d.Cfg.AdvisorURL != "" {
		advisorClient = advisor.NewHTTPClient(d.Cfg.AdvisorURL, d.Cfg.AdvisorAPIKey, d.Cfg.AdvisorModel, d.Cfg.AdvisorTimeout)
	} else {
		advisorClient = advisor.StaticClient{}
	}
	advisorSvc := advisor.NewService(advisorClient, walletSvc, budgetSvc, goalSvc, store)

	if d.DB == nil {
		categorySvc.SeedDefaults(context.Background())
	}

	// Handlers
	authHandler := auth.NewHandler(identitySvc, authSvc)
	walletHandler := wallet.NewHandler(walletSvc)
	txHandler := transaction.NewHandler(txSvc)
	categoryHandler := category.NewHandler(categorySvc)
	budgetHandler := budget.NewHandler(budgetSvc)
	goalHandler := goal.NewHandler(goalSvc)
	transferHandler := transfer.NewHandler(transferSvc)
	analyticsHandler := analytics.NewHandler(summarySource)
	advisorHandler := advisor.NewHandler(advisorSvc)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public
	RegisterIdentityRoutes(api, identitySvc, d.Logger)
	RegisterAuthRoutes(api, authHandler, middleware.LoginRateLimit(d.Cache, 5))

	// Protected
	protected := api.Group("", middleware.JWTAuth(d.Cfg, identityRepo))

	// Money-moving POSTs additionally require an Idempotency-Key.
	var idem fiber.Handler
	if d.Cache != nil {
		idem = middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger)
	}

	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/me", func(c *fiber.Ctx) error {
		uid, _ := c.Locals("user_id").(string)
		user, err := identityRepo.FindByID(c.UserContext(), uid)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "user not found")
		}
		return c.JSON(fiber.Map{
			"user_id":    user.ID,
			"email":      user.Email,
			"name":       user.Name,
			"created_at": user.CreatedAt,
		})
	})

	RegisterWalletRoutes(protected, walletHandler)
	RegisterTransactionRoutes(protected, txHandler, idem)
	RegisterCategoryRoutes(protected, categoryHandler)
	RegisterBudgetRoutes(protected, budgetHandler)
	RegisterGoalRoutes(protected, goalHandler, idem)
	RegisterTransferRoutes(protected, transferHandler, idem)
	RegisterAnalyticsRoutes(protected, analyticsHandler)
	RegisterAdvisorRoutes(protected, advisorHandler)

	return nil
}
