package models

import (
	"time"

	"fintrack-server/src/rules"
)

// TransactionRule is the stored form of a rule; Filter and Action are
// persisted as JSONB.
type TransactionRule struct {
	ID        string            `json:"id"`
	UserID    int64             `json:"user_id"`
	Title     string            `json:"title"`
	Filter    rules.GroupFilter `json:"filter"`
	Action    rules.Action      `json:"action"`
	Order     int               `json:"order"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// ToEngine converts the stored rule into the engine's evaluation form.
func (r TransactionRule) ToEngine() rules.Rule {
	return rules.Rule{
		ID:     r.ID,
		Title:  r.Title,
		Filter: r.Filter,
		Action: r.Action,
		Order:  r.Order,
	}
}
