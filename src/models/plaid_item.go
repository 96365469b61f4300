package models

import "time"

type PlaidItem struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	ItemID          string    `json:"item_id"`
	AccessToken     string    `json:"-"`
	InstitutionName string    `json:"institution_name"`
	SyncCursor      string    `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
}
