package models

import "time"

// WealthSnapshot is a point-in-time net-worth record.
type WealthSnapshot struct {
	ID          string    `json:"id"`
	UserID      int64     `json:"user_id"`
	Date        time.Time `json:"date"`
	Assets      float64   `json:"assets"`
	Liabilities float64   `json:"liabilities"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
}
