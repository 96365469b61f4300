package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/models"
	"fintrack-server/src/util"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func CreateBudget(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		var req struct {
			Category string  `json:"category"`
			Amount   float64 `json:"amount"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create budget request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		req.Category = util.SanitizeText(req.Category)
		if req.Category == "" {
			http.Error(w, "category is required", http.StatusBadRequest)
			return
		}
		if req.Amount < 0 {
			http.Error(w, "amount must not be negative", http.StatusBadRequest)
			return
		}
		budget := &models.Budget{
			UserID:   userID,
			Category: req.Category,
			Amount:   req.Amount,
		}
		created, err := db.CreateBudget(r.Context(), pool, budget)
		if err != nil {
			log.Printf("ERROR: Failed to create budget for user %d: %v", userID, err)
			http.Error(w, "failed to create budget", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Created budget %s for user %d, category %s", created.ID, userID, created.Category)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

func GetBudgetByID(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		budgetID := chi.URLParam(r, "budget_id")
		budget, err := db.GetBudgetByID(r.Context(), pool, userID, budgetID)
		if err != nil {
			log.Printf("ERROR: Budget %s not found for user %d: %v", budgetID, userID, err)
			http.Error(w, "budget not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(budget)
	}
}

func GetBudgetByCategory(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		category := r.URL.Query().Get("category")
		budget, err := db.GetBudgetByCategory(r.Context(), pool, userID, category)
		if err != nil {
			log.Printf("ERROR: Budget for category %s not found for user %d: %v", category, userID, err)
			http.Error(w, "budget not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(budget)
	}
}

func GetAllBudgetsForUser(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		budgets, err := db.GetAllBudgetsForUser(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get budgets for user %d: %v", userID, err)
			http.Error(w, "failed to get budgets", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(budgets)
	}
}

func UpdateBudget(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		budgetID := chi.URLParam(r, "budget_id")
		var req struct {
			Category string  `json:"category"`
			Amount   float64 `json:"amount"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update budget request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if req.Amount < 0 {
			http.Error(w, "amount must not be negative", http.StatusBadRequest)
			return
		}
		budget := &models.Budget{
			ID:       budgetID,
			UserID:   userID,
			Category: util.SanitizeText(req.Category),
			Amount:   req.Amount,
		}
		updated, err := db.UpdateBudget(r.Context(), pool, budget)
		if err != nil {
			log.Printf("ERROR: Failed to update budget %s for user %d: %v", budgetID, userID, err)
			http.Error(w, "failed to update budget", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Updated budget %s for user %d", updated.ID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

func DeleteBudget(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		budgetID := chi.URLParam(r, "budget_id")
		if err := db.DeleteBudget(r.Context(), pool, userID, budgetID); err != nil {
			log.Printf("ERROR: Failed to delete budget %s for user %d: %v", budgetID, userID, err)
			http.Error(w, "failed to delete budget", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Deleted budget %s for user %d", budgetID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "budget deleted"})
	}
}
