package db

import (
	"context"
	"errors"
	"fmt"

	"fintrack-server/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func GetUserByID(ctx context.Context, pool *pgxpool.Pool, id int64) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, username, email, first_name, last_name, password_hash, super_admin, locked, created_at
		FROM users
		WHERE id = $1
	`
	err := pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.PasswordHash,
		&user.SuperAdmin,
		&user.Locked,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, errors.New("user not found")
	}
	return &user, nil
}

func GetUserByUsername(ctx context.Context, pool *pgxpool.Pool, username string) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, username, email, first_name, last_name, password_hash, super_admin, locked, created_at
		FROM users
		WHERE username = $1
	`
	err := pool.QueryRow(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.PasswordHash,
		&user.SuperAdmin,
		&user.Locked,
		&user.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("query error: %w", err)
	}
	return &user, nil
}

func GetUserByEmail(ctx context.Context, pool *pgxpool.Pool, email string) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, username, email, first_name, last_name, password_hash, super_admin, locked, created_at
		FROM users
		WHERE email = $1
	`
	err := pool.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.PasswordHash,
		&user.SuperAdmin,
		&user.Locked,
		&user.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("query error: %w", err)
	}
	return &user, nil
}

func CreateUser(ctx context.Context, pool *pgxpool.Pool, req models.RegisterRequest, hashedPassword string) (*models.RegisterResponse, error) {
	query := `
		INSERT INTO users (first_name, last_name, username, email, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var userID int64
	err := pool.QueryRow(ctx, query,
		req.FirstName,
		req.LastName,
		req.Username,
		req.Email,
		hashedPassword,
	).Scan(&userID)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	resp := models.RegisterResponse{
		ID:       userID,
		Email:    req.Email,
		Username: req.Username,
	}
	return &resp, nil
}

func UpdateUserProfile(ctx context.Context, pool *pgxpool.Pool, userID int64, email, firstName, lastName string) error {
	query := `UPDATE users SET email = $1, first_name = $2, last_name = $3 WHERE id = $4`
	result, err := pool.Exec(ctx, query, email, firstName, lastName, userID)
	if err != nil {
		return fmt.Errorf("failed to update user profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return errors.New("user not found")
	}
	return nil
}

func UpdateUserPassword(ctx context.Context, pool *pgxpool.Pool, userID int64, hashedPassword string) error {
	query := `UPDATE users SET password_hash = $1 WHERE id = $2`
	_, err := pool.Exec(ctx, query, hashedPassword, userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func UpdateUserLastLogin(ctx context.Context, pool *pgxpool.Pool, userID int64) error {
	query := `UPDATE users SET last_login = NOW() WHERE id = $1`
	_, err := pool.Exec(ctx, query, userID)
	return err
}

func DeleteUser(ctx context.Context, pool *pgxpool.Pool, userID int64) error {
	query := `DELETE FROM users WHERE id = $1`
	_, err := pool.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func GetAllUsers(ctx context.Context, pool *pgxpool.Pool) ([]models.User, error) {
	query := `
		SELECT id, username, email, first_name, last_name, password_hash, super_admin, locked, created_at
		FROM users
		ORDER BY id
	`
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &u.SuperAdmin, &u.Locked, &u.CreatedAt)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
