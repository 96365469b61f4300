package db

import (
	"context"
	"fmt"
	"log"

	"fintrack-server/src/db"
	"fintrack-server/src/models"
	"fintrack-server/src/rules"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

func CreateTransactionRule(ctx context.Context, pool *pgxpool.Pool, rule *models.TransactionRule) (*models.TransactionRule, error) {
	rule.ID = uuid.NewString()
	query := `
		INSERT INTO transaction_rules (id, user_id, title, filter, action, rule_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, user_id, title, filter, action, rule_order, created_at, updated_at
	`
	var r models.TransactionRule
	err := pool.QueryRow(ctx, query, rule.ID, rule.UserID, rule.Title, rule.Filter, rule.Action, rule.Order).
		Scan(&r.ID, &r.UserID, &r.Title, &r.Filter, &r.Action, &r.Order, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	db.ClearAllRuleCaches()
	return &r, nil
}

func GetTransactionRuleByID(ctx context.Context, pool *pgxpool.Pool, userID int64, ruleID string) (*models.TransactionRule, error) {
	query := `
		SELECT id, user_id, title, filter, action, rule_order, created_at, updated_at
		FROM transaction_rules
		WHERE id = $1 AND user_id = $2
	`
	var r models.TransactionRule
	err := pool.QueryRow(ctx, query, ruleID, userID).
		Scan(&r.ID, &r.UserID, &r.Title, &r.Filter, &r.Action, &r.Order, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetAllTransactionRules returns a user's rules in evaluation priority order.
func GetAllTransactionRules(ctx context.Context, pool *pgxpool.Pool, userID int64) ([]models.TransactionRule, error) {
	cacheKey := fmt.Sprintf("rules:%d", userID)
	if cached, found := db.Cache.Get(cacheKey); found {
		if ruleList, ok := cached.([]models.TransactionRule); ok {
			return ruleList, nil
		}
	}

	query := `
		SELECT id, user_id, title, filter, action, rule_order, created_at, updated_at
		FROM transaction_rules
		WHERE user_id = $1
		ORDER BY rule_order, created_at
	`
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ruleList []models.TransactionRule
	for rows.Next() {
		var r models.TransactionRule
		err := rows.Scan(&r.ID, &r.UserID, &r.Title, &r.Filter, &r.Action, &r.Order, &r.CreatedAt, &r.UpdatedAt)
		if err != nil {
			return nil, err
		}
		ruleList = append(ruleList, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	db.SetRuleCache(cacheKey, ruleList)
	return ruleList, nil
}

func UpdateTransactionRule(ctx context.Context, pool *pgxpool.Pool, rule *models.TransactionRule) (*models.TransactionRule, error) {
	query := `
		UPDATE transaction_rules
		SET title = $1, filter = $2, action = $3, updated_at = NOW()
		WHERE id = $4 AND user_id = $5
		RETURNING id, user_id, title, filter, action, rule_order, created_at, updated_at
	`
	var r models.TransactionRule
	err := pool.QueryRow(ctx, query, rule.Title, rule.Filter, rule.Action, rule.ID, rule.UserID).
		Scan(&r.ID, &r.UserID, &r.Title, &r.Filter, &r.Action, &r.Order, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	db.ClearAllRuleCaches()
	return &r, nil
}

func DeleteTransactionRule(ctx context.Context, pool *pgxpool.Pool, userID int64, ruleID string) error {
	query := `DELETE FROM transaction_rules WHERE id = $1 AND user_id = $2`
	cmd, err := pool.Exec(ctx, query, ruleID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("transaction rule not found")
	}
	db.ClearAllRuleCaches()
	return nil
}

// RuleOrderUpdate is one entry of a full reordering, as persisted after the
// rule list is rearranged client-side.
type RuleOrderUpdate struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}

// ReorderTransactionRules renumbers a user's rules in one database
// transaction so a half-applied reordering can never be observed.
func ReorderTransactionRules(ctx context.Context, pool *pgxpool.Pool, userID int64, updates []RuleOrderUpdate) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin reorder transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, update := range updates {
		cmd, err := tx.Exec(ctx,
			`UPDATE transaction_rules SET rule_order = $1, updated_at = NOW() WHERE id = $2 AND user_id = $3`,
			update.Order, update.ID, userID,
		)
		if err != nil {
			return fmt.Errorf("failed to reorder rule %s: %w", update.ID, err)
		}
		if cmd.RowsAffected() == 0 {
			return fmt.Errorf("transaction rule %s not found", update.ID)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit reorder: %w", err)
	}
	db.ClearAllRuleCaches()
	return nil
}

// RunTransactionRules loads the user's ordered rules and scoped transactions
// and runs the engine in the given mode. In apply mode each resolved update
// is persisted individually; per-transaction failures are reported in the
// result and never abort the batch.
func RunTransactionRules(ctx context.Context, pool *pgxpool.Pool, userID int64, mode rules.Mode, transactionIDs []string) (rules.Result, error) {
	ruleRows, err := GetAllTransactionRules(ctx, pool, userID)
	if err != nil {
		return rules.Result{}, fmt.Errorf("failed to fetch transaction rules: %w", err)
	}
	engineRules := make([]rules.Rule, 0, len(ruleRows))
	for _, r := range ruleRows {
		engineRules = append(engineRules, r.ToEngine())
	}

	txnRows, err := GetTransactionsScoped(ctx, pool, userID, transactionIDs)
	if err != nil {
		return rules.Result{}, fmt.Errorf("failed to fetch transactions: %w", err)
	}
	txns := make([]rules.Transaction, 0, len(txnRows))
	for _, t := range txnRows {
		txns = append(txns, t.ToEngine())
	}

	var applier rules.Applier
	if mode == rules.ModeApply {
		applier = rules.ApplierFunc(func(ctx context.Context, transactionID string, update rules.TransactionUpdate) error {
			return ApplyTransactionUpdate(ctx, pool, userID, transactionID, update)
		})
	}

	result, err := rules.Process(ctx, txns, engineRules, mode, applier)
	if err != nil {
		return rules.Result{}, err
	}

	if mode == rules.ModeApply && result.Updated > 0 {
		log.Printf("INFO: Transaction rules updated %d of %d transactions for user %d (%d skipped, %d errors)",
			result.Updated, len(txns), userID, result.Skipped, len(result.Errors))
		db.ClearAllTransactionCaches()
	}
	return result, nil
}
