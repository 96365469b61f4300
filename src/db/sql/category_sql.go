package db

import (
	"context"
	"fmt"

	"fintrack-server/src/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

func CreateCategory(ctx context.Context, pool *pgxpool.Pool, category *models.Category) (*models.Category, error) {
	category.ID = uuid.NewString()
	query := `
		INSERT INTO categories (id, user_id, name, kind)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, name, kind, created_at, updated_at
	`
	var c models.Category
	err := pool.QueryRow(ctx, query, category.ID, category.UserID, category.Name, category.Kind).
		Scan(&c.ID, &c.UserID, &c.Name, &c.Kind, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func GetAllCategories(ctx context.Context, pool *pgxpool.Pool, userID int64) ([]models.Category, error) {
	query := `
		SELECT id, user_id, name, kind, created_at, updated_at
		FROM categories WHERE user_id = $1
		ORDER BY name
	`
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Kind, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func UpdateCategory(ctx context.Context, pool *pgxpool.Pool, category *models.Category) (*models.Category, error) {
	query := `
		UPDATE categories
		SET name = $1, kind = $2, updated_at = NOW()
		WHERE id = $3 AND user_id = $4
		RETURNING id, user_id, name, kind, created_at, updated_at
	`
	var c models.Category
	err := pool.QueryRow(ctx, query, category.Name, category.Kind, category.ID, category.UserID).
		Scan(&c.ID, &c.UserID, &c.Name, &c.Kind, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func DeleteCategory(ctx context.Context, pool *pgxpool.Pool, userID int64, categoryID string) error {
	query := `DELETE FROM categories WHERE id = $1 AND user_id = $2`
	cmd, err := pool.Exec(ctx, query, categoryID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("category not found")
	}
	return nil
}
