package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/models"
	"fintrack-server/src/rules"
	"fintrack-server/src/util"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type transactionRuleRequest struct {
	Title  string            `json:"title"`
	Filter rules.GroupFilter `json:"filter"`
	Action rules.Action      `json:"action"`
	Order  int               `json:"order"`
}

func sanitizeRule(req *transactionRuleRequest) {
	req.Title = util.SanitizeText(req.Title)
	req.Action.Category = util.SanitizeText(req.Action.Category)
	req.Action.Notes = util.SanitizeText(req.Action.Notes)
	req.Action.Tags = util.SanitizeTags(req.Action.Tags)
}

func CreateTransactionRule(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		var req transactionRuleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create transaction rule request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		sanitizeRule(&req)
		rule := &models.TransactionRule{
			UserID: userID,
			Title:  req.Title,
			Filter: req.Filter,
			Action: req.Action,
			Order:  req.Order,
		}
		if err := rule.ToEngine().Validate(); err != nil {
			log.Printf("ERROR: Invalid transaction rule from user %d: %v", userID, err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		created, err := db.CreateTransactionRule(r.Context(), pool, rule)
		if err != nil {
			log.Printf("ERROR: Failed to create transaction rule for user %d: %v", userID, err)
			http.Error(w, "failed to create transaction rule", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Created transaction rule %s for user %d, title %s", created.ID, userID, created.Title)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

func GetTransactionRuleByID(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		ruleID := chi.URLParam(r, "rule_id")
		rule, err := db.GetTransactionRuleByID(r.Context(), pool, userID, ruleID)
		if err != nil {
			log.Printf("ERROR: Transaction rule %s not found for user %d: %v", ruleID, userID, err)
			http.Error(w, "transaction rule not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(rule)
	}
}

func GetAllTransactionRules(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		ruleList, err := db.GetAllTransactionRules(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get transaction rules for user %d: %v", userID, err)
			http.Error(w, "failed to get transaction rules", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ruleList)
	}
}

func UpdateTransactionRule(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		ruleID := chi.URLParam(r, "rule_id")
		var req transactionRuleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update transaction rule request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		sanitizeRule(&req)
		rule := &models.TransactionRule{
			ID:     ruleID,
			UserID: userID,
			Title:  req.Title,
			Filter: req.Filter,
			Action: req.Action,
			Order:  req.Order,
		}
		if err := rule.ToEngine().Validate(); err != nil {
			log.Printf("ERROR: Invalid transaction rule %s from user %d: %v", ruleID, userID, err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		updated, err := db.UpdateTransactionRule(r.Context(), pool, rule)
		if err != nil {
			log.Printf("ERROR: Failed to update transaction rule %s for user %d: %v", ruleID, userID, err)
			http.Error(w, "failed to update transaction rule", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Updated transaction rule %s for user %d", updated.ID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

func DeleteTransactionRule(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		ruleID := chi.URLParam(r, "rule_id")
		err := db.DeleteTransactionRule(r.Context(), pool, userID, ruleID)
		if err != nil {
			log.Printf("ERROR: Failed to delete transaction rule %s for user %d: %v", ruleID, userID, err)
			http.Error(w, "failed to delete transaction rule", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Deleted transaction rule %s for user %d", ruleID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "transaction rule deleted"})
	}
}

func ReorderTransactionRules(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		var req struct {
			Updates []db.RuleOrderUpdate `json:"updates"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode reorder request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if len(req.Updates) == 0 {
			http.Error(w, "no rules to reorder", http.StatusBadRequest)
			return
		}
		if err := db.ReorderTransactionRules(r.Context(), pool, userID, req.Updates); err != nil {
			log.Printf("ERROR: Failed to reorder transaction rules for user %d: %v", userID, err)
			http.Error(w, "failed to reorder transaction rules", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Reordered %d transaction rules for user %d", len(req.Updates), userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "transaction rules reordered"})
	}
}

// ProcessTransactionRules runs the batch processor. Preview reports what
// would change without touching any transaction; apply persists the change
// for every matched transaction and reports per-transaction failures.
func ProcessTransactionRules(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		var req struct {
			Mode           string   `json:"mode"`
			TransactionIDs []string `json:"transactionIds"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode process rules request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		mode := rules.Mode(strings.ToLower(strings.TrimSpace(req.Mode)))
		if mode != rules.ModePreview && mode != rules.ModeApply {
			log.Printf("ERROR: Invalid process mode %q from user %d", req.Mode, userID)
			http.Error(w, "mode must be preview or apply", http.StatusBadRequest)
			return
		}

		result, err := db.RunTransactionRules(r.Context(), pool, userID, mode, req.TransactionIDs)
		if err != nil {
			log.Printf("ERROR: Failed to process transaction rules for user %d: %v", userID, err)
			http.Error(w, "failed to process transaction rules", http.StatusInternalServerError)
			return
		}

		resp := map[string]any{
			"success": true,
			"updated": result.Updated,
			"skipped": result.Skipped,
		}
		if mode == rules.ModePreview {
			breakdown := result.RuleBreakdown
			if breakdown == nil {
				breakdown = []rules.RuleMatchCount{}
			}
			resp["ruleBreakdown"] = breakdown
		} else {
			errs := result.Errors
			if errs == nil {
				errs = []rules.TransactionError{}
			}
			resp["errors"] = errs
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}
