package db

import (
	"context"
	"fmt"

	"fintrack-server/src/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

func CreateBankAccount(ctx context.Context, pool *pgxpool.Pool, account *models.BankAccount) (*models.BankAccount, error) {
	account.ID = uuid.NewString()
	query := `
		INSERT INTO bank_accounts (id, user_id, name, type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, name, type, plaid_item_id, plaid_account_id, created_at
	`
	var a models.BankAccount
	err := pool.QueryRow(ctx, query, account.ID, account.UserID, account.Name, account.Type).
		Scan(&a.ID, &a.UserID, &a.Name, &a.Type, &a.PlaidItemID, &a.PlaidAccountID, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func GetBankAccountByID(ctx context.Context, pool *pgxpool.Pool, userID int64, accountID string) (*models.BankAccount, error) {
	query := `
		SELECT id, user_id, name, type, plaid_item_id, plaid_account_id, created_at
		FROM bank_accounts WHERE id = $1 AND user_id = $2
	`
	var a models.BankAccount
	err := pool.QueryRow(ctx, query, accountID, userID).
		Scan(&a.ID, &a.UserID, &a.Name, &a.Type, &a.PlaidItemID, &a.PlaidAccountID, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func GetAllBankAccounts(ctx context.Context, pool *pgxpool.Pool, userID int64) ([]models.BankAccount, error) {
	query := `
		SELECT id, user_id, name, type, plaid_item_id, plaid_account_id, created_at
		FROM bank_accounts WHERE user_id = $1
		ORDER BY created_at
	`
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []models.BankAccount
	for rows.Next() {
		var a models.BankAccount
		err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Type, &a.PlaidItemID, &a.PlaidAccountID, &a.CreatedAt)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func UpdateBankAccount(ctx context.Context, pool *pgxpool.Pool, account *models.BankAccount) (*models.BankAccount, error) {
	query := `
		UPDATE bank_accounts
		SET name = $1, type = $2
		WHERE id = $3 AND user_id = $4
		RETURNING id, user_id, name, type, plaid_item_id, plaid_account_id, created_at
	`
	var a models.BankAccount
	err := pool.QueryRow(ctx, query, account.Name, account.Type, account.ID, account.UserID).
		Scan(&a.ID, &a.UserID, &a.Name, &a.Type, &a.PlaidItemID, &a.PlaidAccountID, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func DeleteBankAccount(ctx context.Context, pool *pgxpool.Pool, userID int64, accountID string) error {
	query := `DELETE FROM bank_accounts WHERE id = $1 AND user_id = $2`
	cmd, err := pool.Exec(ctx, query, accountID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("bank account not found")
	}
	return nil
}
