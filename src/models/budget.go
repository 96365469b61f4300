package models

import "time"

type Budget struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	Category  string    `json:"category"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
