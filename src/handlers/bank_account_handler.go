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

func CreateBankAccount(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		var req struct {
			Name string `json:"name"`
			Type string `json:"type"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create bank account request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		req.Name = util.SanitizeText(req.Name)
		if req.Name == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}
		account := &models.BankAccount{
			UserID: userID,
			Name:   req.Name,
			Type:   util.SanitizeText(req.Type),
		}
		created, err := db.CreateBankAccount(r.Context(), pool, account)
		if err != nil {
			log.Printf("ERROR: Failed to create bank account for user %d: %v", userID, err)
			http.Error(w, "failed to create bank account", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Created bank account %s for user %d", created.ID, userID)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

func GetBankAccountByID(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		accountID := chi.URLParam(r, "account_id")
		account, err := db.GetBankAccountByID(r.Context(), pool, userID, accountID)
		if err != nil {
			log.Printf("ERROR: Bank account %s not found for user %d: %v", accountID, userID, err)
			http.Error(w, "bank account not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(account)
	}
}

func GetAllBankAccounts(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		accounts, err := db.GetAllBankAccounts(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get bank accounts for user %d: %v", userID, err)
			http.Error(w, "failed to get bank accounts", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(accounts)
	}
}

func UpdateBankAccount(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		accountID := chi.URLParam(r, "account_id")
		var req struct {
			Name string `json:"name"`
			Type string `json:"type"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update bank account request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		account := &models.BankAccount{
			ID:     accountID,
			UserID: userID,
			Name:   util.SanitizeText(req.Name),
			Type:   util.SanitizeText(req.Type),
		}
		updated, err := db.UpdateBankAccount(r.Context(), pool, account)
		if err != nil {
			log.Printf("ERROR: Failed to update bank account %s for user %d: %v", accountID, userID, err)
			http.Error(w, "failed to update bank account", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Updated bank account %s for user %d", updated.ID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

func DeleteBankAccount(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		accountID := chi.URLParam(r, "account_id")
		if err := db.DeleteBankAccount(r.Context(), pool, userID, accountID); err != nil {
			log.Printf("ERROR: Failed to delete bank account %s for user %d: %v", accountID, userID, err)
			http.Error(w, "failed to delete bank account", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Deleted bank account %s for user %d", accountID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "bank account deleted"})
	}
}
