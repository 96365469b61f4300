package rules

import (
	"errors"
	"strings"
)

// Rule pairs a filter tree with the action applied to matching
// transactions. Order defines evaluation priority, ascending.
type Rule struct {
	ID     string      `json:"id"`
	Title  string      `json:"title"`
	Filter GroupFilter `json:"filter"`
	Action Action      `json:"action"`
	Order  int         `json:"order"`
}

// Validate checks the rule is well formed for authoring: non-empty title,
// valid filter tree, non-trivial action.
func (r Rule) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("rule title must not be empty")
	}
	if err := r.Filter.Validate(); err != nil {
		return err
	}
	return r.Action.Validate()
}

// MatchRule walks the ordered rule list and returns the first rule whose
// filter matches the transaction, together with the resolved update.
// First match wins: later rules are not evaluated for this transaction.
// A malformed rule simply never matches, so the walk continues past it.
func MatchRule(t Transaction, orderedRules []Rule) (*Rule, TransactionUpdate, bool) {
	for i := range orderedRules {
		rule := &orderedRules[i]
		if rule.Filter.Matches(t) {
			return rule, rule.Action.Resolve(t), true
		}
	}
	return nil, TransactionUpdate{}, false
}
