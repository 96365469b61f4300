package models

import "time"

// BankAccount is either user-authored or created by a Plaid sync, in which
// case PlaidItemID and PlaidAccountID are set.
type BankAccount struct {
	ID             string    `json:"id"`
	UserID         int64     `json:"user_id"`
	Name           string    `json:"name"`
	Type           string    `json:"type"`
	PlaidItemID    *int64    `json:"plaid_item_id,omitempty"`
	PlaidAccountID *string   `json:"plaid_account_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
