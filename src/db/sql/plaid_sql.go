package db

import (
	"context"
	"errors"
	"math"

	"fintrack-server/src/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/plaid/plaid-go/v41/plaid"
)

func SavePlaidItem(ctx context.Context, pool *pgxpool.Pool, userID int64, itemID, accessToken, institutionName string) (int64, error) {
	query := `
		INSERT INTO plaid_items (user_id, item_id, access_token, institution_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (item_id) DO UPDATE SET access_token = $3, institution_name = $4
		RETURNING id
	`
	var id int64
	err := pool.QueryRow(ctx, query, userID, itemID, accessToken, institutionName).Scan(&id)
	return id, err
}

func GetPlaidItems(ctx context.Context, pool *pgxpool.Pool, userID int64) ([]models.PlaidItem, error) {
	query := `
		SELECT id, user_id, item_id, access_token, institution_name, COALESCE(sync_cursor, ''), created_at
		FROM plaid_items WHERE user_id = $1
	`
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.PlaidItem
	for rows.Next() {
		var item models.PlaidItem
		err := rows.Scan(&item.ID, &item.UserID, &item.ItemID, &item.AccessToken, &item.InstitutionName, &item.SyncCursor, &item.CreatedAt)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func GetPlaidItemByID(ctx context.Context, pool *pgxpool.Pool, userID, itemID int64) (*models.PlaidItem, error) {
	query := `
		SELECT id, user_id, item_id, access_token, institution_name, COALESCE(sync_cursor, ''), created_at
		FROM plaid_items WHERE user_id = $1 AND id = $2
	`
	var item models.PlaidItem
	err := pool.QueryRow(ctx, query, userID, itemID).
		Scan(&item.ID, &item.UserID, &item.ItemID, &item.AccessToken, &item.InstitutionName, &item.SyncCursor, &item.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func UpdateSyncCursor(ctx context.Context, pool *pgxpool.Pool, itemID int64, cursor string) error {
	query := `UPDATE plaid_items SET sync_cursor = $1 WHERE id = $2`
	_, err := pool.Exec(ctx, query, cursor, itemID)
	return err
}

func DeletePlaidItem(ctx context.Context, pool *pgxpool.Pool, userID, itemID int64) error {
	query := `DELETE FROM plaid_items WHERE id = $1 AND user_id = $2`
	_, err := pool.Exec(ctx, query, itemID, userID)
	return err
}

// SavePlaidAccounts upserts the item's accounts as bank accounts.
func SavePlaidAccounts(ctx context.Context, pool *pgxpool.Pool, userID, itemID int64, accounts []plaid.AccountBase) error {
	for _, acc := range accounts {
		query := `
			INSERT INTO bank_accounts (id, user_id, name, type, plaid_item_id, plaid_account_id)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (plaid_account_id) DO UPDATE SET name = $3, type = $4
		`
		_, err := pool.Exec(ctx, query,
			uuid.NewString(),
			userID,
			acc.GetName(),
			string(acc.GetType()),
			itemID,
			acc.GetAccountId(),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// SaveSyncedTransactions stores newly synced transactions against their bank
// accounts and returns the IDs of the rows actually inserted. Plaid reports
// outflows as positive amounts; amounts are stored positive with the sign
// carried by type.
func SaveSyncedTransactions(ctx context.Context, pool *pgxpool.Pool, userID int64, transactions []plaid.Transaction) ([]string, error) {
	var inserted []string
	for _, txn := range transactions {
		txnType := "debit"
		if txn.GetAmount() < 0 {
			txnType = "credit"
		}

		query := `
			INSERT INTO transactions (id, user_id, bank_account_id, date, accounting_date, amount, type, description, plaid_transaction_id)
			SELECT $1, $2, a.id, $3, $4, $5, $6, $7, $8
			FROM bank_accounts a
			WHERE a.user_id = $2 AND a.plaid_account_id = $9
			ON CONFLICT (plaid_transaction_id) DO NOTHING
			RETURNING id
		`
		var id string
		err := pool.QueryRow(ctx, query,
			uuid.NewString(),
			userID,
			txn.GetDate(),
			txn.GetDate(),
			math.Abs(txn.GetAmount()),
			txnType,
			txn.GetName(),
			txn.GetTransactionId(),
			txn.GetAccountId(),
		).Scan(&id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				continue // duplicate or unknown account
			}
			return inserted, err
		}
		inserted = append(inserted, id)
	}
	return inserted, nil
}
