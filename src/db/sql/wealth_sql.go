package db

import (
	"context"
	"fmt"

	"fintrack-server/src/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

func CreateWealthSnapshot(ctx context.Context, pool *pgxpool.Pool, snapshot *models.WealthSnapshot) (*models.WealthSnapshot, error) {
	snapshot.ID = uuid.NewString()
	query := `
		INSERT INTO wealth_snapshots (id, user_id, date, assets, liabilities, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, user_id, date, assets, liabilities, notes, created_at
	`
	var s models.WealthSnapshot
	err := pool.QueryRow(ctx, query, snapshot.ID, snapshot.UserID, snapshot.Date, snapshot.Assets, snapshot.Liabilities, snapshot.Notes).
		Scan(&s.ID, &s.UserID, &s.Date, &s.Assets, &s.Liabilities, &s.Notes, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func GetAllWealthSnapshots(ctx context.Context, pool *pgxpool.Pool, userID int64) ([]models.WealthSnapshot, error) {
	query := `
		SELECT id, user_id, date, assets, liabilities, notes, created_at
		FROM wealth_snapshots WHERE user_id = $1
		ORDER BY date DESC
	`
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []models.WealthSnapshot
	for rows.Next() {
		var s models.WealthSnapshot
		err := rows.Scan(&s.ID, &s.UserID, &s.Date, &s.Assets, &s.Liabilities, &s.Notes, &s.CreatedAt)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}

func UpdateWealthSnapshot(ctx context.Context, pool *pgxpool.Pool, snapshot *models.WealthSnapshot) (*models.WealthSnapshot, error) {
	query := `
		UPDATE wealth_snapshots
		SET date = $1, assets = $2, liabilities = $3, notes = $4
		WHERE id = $5 AND user_id = $6
		RETURNING id, user_id, date, assets, liabilities, notes, created_at
	`
	var s models.WealthSnapshot
	err := pool.QueryRow(ctx, query, snapshot.Date, snapshot.Assets, snapshot.Liabilities, snapshot.Notes, snapshot.ID, snapshot.UserID).
		Scan(&s.ID, &s.UserID, &s.Date, &s.Assets, &s.Liabilities, &s.Notes, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func DeleteWealthSnapshot(ctx context.Context, pool *pgxpool.Pool, userID int64, snapshotID string) error {
	query := `DELETE FROM wealth_snapshots WHERE id = $1 AND user_id = $2`
	cmd, err := pool.Exec(ctx, query, snapshotID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("wealth snapshot not found")
	}
	return nil
}
