package db

import (
	"context"
	"fmt"

	"fintrack-server/src/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

func CreateBudget(ctx context.Context, pool *pgxpool.Pool, budget *models.Budget) (*models.Budget, error) {
	budget.ID = uuid.NewString()
	query := `
		INSERT INTO budgets (id, user_id, category, amount)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, category, amount, created_at, updated_at
	`
	var b models.Budget
	err := pool.QueryRow(ctx, query, budget.ID, budget.UserID, budget.Category, budget.Amount).
		Scan(&b.ID, &b.UserID, &b.Category, &b.Amount, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func GetBudgetByID(ctx context.Context, pool *pgxpool.Pool, userID int64, budgetID string) (*models.Budget, error) {
	query := `
		SELECT id, user_id, category, amount, created_at, updated_at
		FROM budgets WHERE id = $1 AND user_id = $2
	`
	var b models.Budget
	err := pool.QueryRow(ctx, query, budgetID, userID).
		Scan(&b.ID, &b.UserID, &b.Category, &b.Amount, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func GetBudgetByCategory(ctx context.Context, pool *pgxpool.Pool, userID int64, category string) (*models.Budget, error) {
	query := `
		SELECT id, user_id, category, amount, created_at, updated_at
		FROM budgets WHERE user_id = $1 AND category = $2
	`
	var b models.Budget
	err := pool.QueryRow(ctx, query, userID, category).
		Scan(&b.ID, &b.UserID, &b.Category, &b.Amount, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func GetAllBudgetsForUser(ctx context.Context, pool *pgxpool.Pool, userID int64) ([]models.Budget, error) {
	query := `
		SELECT id, user_id, category, amount, created_at, updated_at
		FROM budgets WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		var b models.Budget
		err := rows.Scan(&b.ID, &b.UserID, &b.Category, &b.Amount, &b.CreatedAt, &b.UpdatedAt)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func UpdateBudget(ctx context.Context, pool *pgxpool.Pool, budget *models.Budget) (*models.Budget, error) {
	query := `
		UPDATE budgets
		SET category = $1, amount = $2, updated_at = NOW()
		WHERE id = $3 AND user_id = $4
		RETURNING id, user_id, category, amount, created_at, updated_at
	`
	var b models.Budget
	err := pool.QueryRow(ctx, query, budget.Category, budget.Amount, budget.ID, budget.UserID).
		Scan(&b.ID, &b.UserID, &b.Category, &b.Amount, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func DeleteBudget(ctx context.Context, pool *pgxpool.Pool, userID int64, budgetID string) error {
	query := `DELETE FROM budgets WHERE id = $1 AND user_id = $2`
	cmd, err := pool.Exec(ctx, query, budgetID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("budget not found")
	}
	return nil
}
