package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"fintrack-server/src/db"
	dbsql "fintrack-server/src/db/sql"
	"fintrack-server/src/models"
	"fintrack-server/src/util"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type transactionRequest struct {
	BankAccountID  string   `json:"bank_account_id"`
	Date           string   `json:"date"`
	AccountingDate string   `json:"accounting_date"`
	Amount         float64  `json:"amount"`
	Type           string   `json:"type"`
	Description    string   `json:"description"`
	Category       string   `json:"category"`
	Notes          string   `json:"notes"`
	Reason         string   `json:"reason"`
	IsInternal     bool     `json:"is_internal"`
	Tags           []string `json:"tags"`
}

func (req *transactionRequest) toModel(userID int64) (*models.Transaction, error) {
	if req.Type != "credit" && req.Type != "debit" {
		return nil, fmt.Errorf("type must be credit or debit")
	}
	if req.Amount < 0 {
		return nil, fmt.Errorf("amount must not be negative")
	}
	date, err := util.ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}
	accountingDate := date
	if req.AccountingDate != "" {
		accountingDate, err = util.ParseDate(req.AccountingDate)
		if err != nil {
			return nil, fmt.Errorf("invalid accounting date: %w", err)
		}
	}
	return &models.Transaction{
		UserID:         userID,
		BankAccountID:  req.BankAccountID,
		Date:           date,
		AccountingDate: accountingDate,
		Amount:         req.Amount,
		Type:           req.Type,
		Description:    util.SanitizeText(req.Description),
		Category:       util.SanitizeText(req.Category),
		Notes:          util.SanitizeText(req.Notes),
		Reason:         util.SanitizeText(req.Reason),
		IsInternal:     req.IsInternal,
		Tags:           util.SanitizeTags(req.Tags),
	}, nil
}

func CreateTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		var req transactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create transaction request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		txn, err := req.toModel(userID)
		if err != nil {
			log.Printf("ERROR: Invalid transaction from user %d: %v", userID, err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		created, err := dbsql.CreateTransaction(r.Context(), pool, txn)
		if err != nil {
			log.Printf("ERROR: Failed to create transaction for user %d: %v", userID, err)
			http.Error(w, "failed to create transaction", http.StatusInternalServerError)
			return
		}
		db.ClearAllTransactionCaches()
		log.Printf("INFO: Created transaction %s for user %d", created.ID, userID)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

func GetTransactionByID(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		transactionID := chi.URLParam(r, "transaction_id")
		txn, err := dbsql.GetTransactionByID(r.Context(), pool, userID, transactionID)
		if err != nil {
			log.Printf("ERROR: Transaction %s not found for user %d: %v", transactionID, userID, err)
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(txn)
	}
}

func GetAllTransactions(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		bankAccountID := r.URL.Query().Get("bank_account_id")

		cacheKey := fmt.Sprintf("transactions:%d:%s", userID, bankAccountID)
		if cached, found := db.Cache.Get(cacheKey); found {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(cached)
			return
		}

		transactions, err := dbsql.GetAllTransactions(r.Context(), pool, userID, bankAccountID)
		if err != nil {
			log.Printf("ERROR: Failed to get transactions for user %d: %v", userID, err)
			http.Error(w, "failed to get transactions", http.StatusInternalServerError)
			return
		}
		db.SetTransactionCache(cacheKey, transactions)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(transactions)
	}
}

func UpdateTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		transactionID := chi.URLParam(r, "transaction_id")
		var req transactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update transaction request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		txn, err := req.toModel(userID)
		if err != nil {
			log.Printf("ERROR: Invalid transaction update from user %d: %v", userID, err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		txn.ID = transactionID
		updated, err := dbsql.UpdateTransaction(r.Context(), pool, txn)
		if err != nil {
			log.Printf("ERROR: Failed to update transaction %s for user %d: %v", transactionID, userID, err)
			http.Error(w, "failed to update transaction", http.StatusInternalServerError)
			return
		}
		db.ClearAllTransactionCaches()
		log.Printf("INFO: Updated transaction %s for user %d", updated.ID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

func DeleteTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		transactionID := chi.URLParam(r, "transaction_id")
		if err := dbsql.DeleteTransaction(r.Context(), pool, userID, transactionID); err != nil {
			log.Printf("ERROR: Failed to delete transaction %s for user %d: %v", transactionID, userID, err)
			http.Error(w, "failed to delete transaction", http.StatusInternalServerError)
			return
		}
		db.ClearAllTransactionCaches()
		log.Printf("INFO: Deleted transaction %s for user %d", transactionID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "transaction deleted"})
	}
}
