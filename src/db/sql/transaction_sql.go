package db

import (
	"context"
	"fmt"
	"strings"

	"fintrack-server/src/models"
	"fintrack-server/src/rules"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionColumns = `
	t.id, t.user_id, t.bank_account_id, a.name, t.date, t.accounting_date, t.amount, t.type,
	t.description, t.category, t.notes, t.reason, t.is_internal, t.tags, t.created_at, t.updated_at
`

func scanTransaction(row interface{ Scan(dest ...any) error }) (*models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(
		&t.ID, &t.UserID, &t.BankAccountID, &t.BankAccount, &t.Date, &t.AccountingDate, &t.Amount, &t.Type,
		&t.Description, &t.Category, &t.Notes, &t.Reason, &t.IsInternal, &t.Tags, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func CreateTransaction(ctx context.Context, pool *pgxpool.Pool, txn *models.Transaction) (*models.Transaction, error) {
	txn.ID = uuid.NewString()
	query := `
		INSERT INTO transactions (id, user_id, bank_account_id, date, accounting_date, amount, type, description, category, notes, reason, is_internal, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := pool.Exec(ctx, query,
		txn.ID, txn.UserID, txn.BankAccountID, txn.Date, txn.AccountingDate, txn.Amount, txn.Type,
		txn.Description, txn.Category, txn.Notes, txn.Reason, txn.IsInternal, txn.Tags,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return GetTransactionByID(ctx, pool, txn.UserID, txn.ID)
}

func GetTransactionByID(ctx context.Context, pool *pgxpool.Pool, userID int64, transactionID string) (*models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions t
		JOIN bank_accounts a ON t.bank_account_id = a.id
		WHERE t.id = $1 AND t.user_id = $2
	`
	return scanTransaction(pool.QueryRow(ctx, query, transactionID, userID))
}

// GetAllTransactions returns a user's transactions, optionally scoped to one
// bank account, newest first.
func GetAllTransactions(ctx context.Context, pool *pgxpool.Pool, userID int64, bankAccountID string) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions t
		JOIN bank_accounts a ON t.bank_account_id = a.id
		WHERE t.user_id = $1
	`
	args := []any{userID}
	if bankAccountID != "" {
		query += ` AND t.bank_account_id = $2`
		args = append(args, bankAccountID)
	}
	query += ` ORDER BY t.date DESC, t.created_at DESC`

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, *t)
	}
	return txns, rows.Err()
}

// GetTransactionsScoped returns the transactions the rule processor should
// evaluate: all of the user's transactions, or only the given IDs.
func GetTransactionsScoped(ctx context.Context, pool *pgxpool.Pool, userID int64, transactionIDs []string) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions t
		JOIN bank_accounts a ON t.bank_account_id = a.id
		WHERE t.user_id = $1
	`
	args := []any{userID}
	if len(transactionIDs) > 0 {
		query += ` AND t.id = ANY($2)`
		args = append(args, transactionIDs)
	}
	query += ` ORDER BY t.date, t.created_at`

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, *t)
	}
	return txns, rows.Err()
}

func UpdateTransaction(ctx context.Context, pool *pgxpool.Pool, txn *models.Transaction) (*models.Transaction, error) {
	query := `
		UPDATE transactions
		SET date = $1, accounting_date = $2, amount = $3, type = $4, description = $5,
			category = $6, notes = $7, reason = $8, is_internal = $9, tags = $10, updated_at = NOW()
		WHERE id = $11 AND user_id = $12
	`
	cmd, err := pool.Exec(ctx, query,
		txn.Date, txn.AccountingDate, txn.Amount, txn.Type, txn.Description,
		txn.Category, txn.Notes, txn.Reason, txn.IsInternal, txn.Tags, txn.ID, txn.UserID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return nil, fmt.Errorf("transaction not found")
	}
	return GetTransactionByID(ctx, pool, txn.UserID, txn.ID)
}

func DeleteTransaction(ctx context.Context, pool *pgxpool.Pool, userID int64, transactionID string) error {
	query := `DELETE FROM transactions WHERE id = $1 AND user_id = $2`
	cmd, err := pool.Exec(ctx, query, transactionID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("transaction not found")
	}
	return nil
}

// ApplyTransactionUpdate persists one sparse update produced by the rule
// engine. Only the fields the update carries are written.
func ApplyTransactionUpdate(ctx context.Context, pool *pgxpool.Pool, userID int64, transactionID string, update rules.TransactionUpdate) error {
	if update.IsZero() {
		return nil
	}

	var sets []string
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Category != nil {
		add("category", *update.Category)
	}
	if update.IsInternal != nil {
		add("is_internal", *update.IsInternal)
	}
	if update.Notes != nil {
		add("notes", *update.Notes)
	}
	if update.Tags != nil {
		add("tags", update.Tags)
	}
	sets = append(sets, "updated_at = NOW()")

	args = append(args, transactionID)
	idArg := len(args)
	args = append(args, userID)
	userArg := len(args)

	query := fmt.Sprintf(
		"UPDATE transactions SET %s WHERE id = $%d AND user_id = $%d",
		strings.Join(sets, ", "), idArg, userArg,
	)
	cmd, err := pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to apply rule update: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("transaction not found")
	}
	return nil
}
