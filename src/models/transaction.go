package models

import (
	"time"

	"fintrack-server/src/rules"
)

// Transaction stores amounts as positive values; the sign is carried by
// Type ("credit" or "debit").
type Transaction struct {
	ID             string    `json:"id"`
	UserID         int64     `json:"user_id"`
	BankAccountID  string    `json:"bank_account_id"`
	BankAccount    string    `json:"bank_account"`
	Date           time.Time `json:"date"`
	AccountingDate time.Time `json:"accounting_date"`
	Amount         float64   `json:"amount"`
	Type           string    `json:"type"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	Notes          string    `json:"notes"`
	Reason         string    `json:"reason"`
	IsInternal     bool      `json:"is_internal"`
	Tags           []string  `json:"tags"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ToEngine converts the stored record into the rule engine's view.
func (t Transaction) ToEngine() rules.Transaction {
	return rules.Transaction{
		ID:             t.ID,
		Date:           t.Date,
		AccountingDate: t.AccountingDate,
		Amount:         t.Amount,
		Type:           t.Type,
		Description:    t.Description,
		BankAccount:    t.BankAccount,
		Category:       t.Category,
		Notes:          t.Notes,
		Reason:         t.Reason,
		IsInternal:     t.IsInternal,
		Tags:           t.Tags,
	}
}
