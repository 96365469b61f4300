package api

import (
	"net/http"

	"fintrack-server/src/handlers"
	"fintrack-server/src/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/plaid/plaid-go/v41/plaid"
	"golang.org/x/time/rate"
)

func NewRouter(pool *pgxpool.Pool, plaidClient *plaid.APIClient, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware(allowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	// Auth endpoints are rate limited; everything else sits behind JWT auth.
	authLimiter := rate.NewLimiter(rate.Limit(5), 10)

	r.Route("/api", func(r chi.Router) {
		r.With(middleware.RateLimitMiddleware(authLimiter)).Group(func(r chi.Router) {
			r.Post("/login", handlers.Login(pool))
			r.Post("/register", handlers.Register(pool))
		})

		// Protected routes
		r.With(middleware.JWTAuthMiddleware).Group(func(r chi.Router) {
			// User
			r.Get("/user", handlers.GetUser(pool))
			r.Put("/user", handlers.UpdateUser(pool))
			r.Post("/user/change-password", handlers.ChangePassword(pool))
			r.Delete("/user", handlers.DeleteUser(pool))

			// Bank accounts
			r.Post("/bank-accounts", handlers.CreateBankAccount(pool))
			r.Get("/bank-accounts", handlers.GetAllBankAccounts(pool))
			r.Get("/bank-accounts/{account_id}", handlers.GetBankAccountByID(pool))
			r.Put("/bank-accounts/{account_id}", handlers.UpdateBankAccount(pool))
			r.Delete("/bank-accounts/{account_id}", handlers.DeleteBankAccount(pool))

			// Transactions
			r.Post("/transactions", handlers.CreateTransaction(pool))
			r.Get("/transactions", handlers.GetAllTransactions(pool))
			r.Get("/transactions/{transaction_id}", handlers.GetTransactionByID(pool))
			r.Put("/transactions/{transaction_id}", handlers.UpdateTransaction(pool))
			r.Delete("/transactions/{transaction_id}", handlers.DeleteTransaction(pool))

			// Categories
			r.Post("/categories", handlers.CreateCategory(pool))
			r.Get("/categories", handlers.GetAllCategories(pool))
			r.Put("/categories/{category_id}", handlers.UpdateCategory(pool))
			r.Delete("/categories/{category_id}", handlers.DeleteCategory(pool))

			// Budgets
			r.Post("/budgets", handlers.CreateBudget(pool))
			r.Get("/budgets", handlers.GetAllBudgetsForUser(pool))
			r.Get("/budgets/by-category", handlers.GetBudgetByCategory(pool))
			r.Get("/budgets/{budget_id}", handlers.GetBudgetByID(pool))
			r.Put("/budgets/{budget_id}", handlers.UpdateBudget(pool))
			r.Delete("/budgets/{budget_id}", handlers.DeleteBudget(pool))

			// Wealth snapshots
			r.Post("/wealth", handlers.CreateWealthSnapshot(pool))
			r.Get("/wealth", handlers.GetAllWealthSnapshots(pool))
			r.Put("/wealth/{snapshot_id}", handlers.UpdateWealthSnapshot(pool))
			r.Delete("/wealth/{snapshot_id}", handlers.DeleteWealthSnapshot(pool))

			// Transaction Rules
			r.Post("/transaction-rules", handlers.CreateTransactionRule(pool))
			r.Get("/transaction-rules", handlers.GetAllTransactionRules(pool))
			r.Get("/transaction-rules/{rule_id}", handlers.GetTransactionRuleByID(pool))
			r.Put("/transaction-rules/{rule_id}", handlers.UpdateTransactionRule(pool))
			r.Delete("/transaction-rules/{rule_id}", handlers.DeleteTransactionRule(pool))
			r.Put("/transaction-rules/reorder", handlers.ReorderTransactionRules(pool))
			r.Post("/transaction-rules/process", handlers.ProcessTransactionRules(pool))

			// Plaid
			r.Post("/plaid/create-link-token", handlers.CreateLinkToken(plaidClient, pool))
			r.Post("/plaid/exchange-public-token", handlers.ExchangePublicToken(plaidClient, pool))
			r.Get("/plaid/items", handlers.GetPlaidItemsFromDB(pool))
			r.Get("/plaid/accounts/{item_id}", handlers.GetPlaidAccounts(plaidClient, pool))
			r.Post("/plaid/transactions/{item_id}/sync", handlers.SyncTransactions(plaidClient, pool))
			r.Delete("/plaid/items/{item_id}", handlers.DeletePlaidItem(pool))
		})

		// Super Admin Routes
		r.With(middleware.JWTAuthMiddleware, middleware.SuperAdminMiddleware).Group(func(r chi.Router) {
			r.Get("/admin/users", handlers.GetAllUsers(pool))
			r.Post("/admin/cache/clear/{cache_name}", handlers.ClearCache(pool))
		})
	})

	return r
}
