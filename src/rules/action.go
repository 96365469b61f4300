package rules

import (
	"errors"
	"fmt"
)

// ErrEmptyAction is returned for actions with no effective fields; such
// actions are rejected at authoring time and never reach evaluation.
var ErrEmptyAction = errors.New("rule action must set at least one field")

// Action is the effect a matching rule applies to a transaction.
// IsInternal uses "yes"/"no" strings as authored in the rule editor;
// the resolver maps them to a boolean.
type Action struct {
	Category   string   `json:"category,omitempty"`
	IsInternal string   `json:"isInternal,omitempty"`
	Notes      string   `json:"notes,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

// Validate rejects trivial actions and malformed isInternal values.
func (a Action) Validate() error {
	if a.IsInternal != "" && a.IsInternal != "yes" && a.IsInternal != "no" {
		return fmt.Errorf("isInternal must be \"yes\" or \"no\", got %q", a.IsInternal)
	}
	if a.Category == "" && a.IsInternal == "" && a.Notes == "" && len(a.Tags) == 0 {
		return ErrEmptyAction
	}
	return nil
}

// TransactionUpdate is a sparse update: only the fields the action sets
// are non-nil/non-empty. The calling layer owns the write-back.
type TransactionUpdate struct {
	Category   *string  `json:"category,omitempty"`
	IsInternal *bool    `json:"isInternal,omitempty"`
	Notes      *string  `json:"notes,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

// IsZero reports whether the update carries no changes.
func (u TransactionUpdate) IsZero() bool {
	return u.Category == nil && u.IsInternal == nil && u.Notes == nil && u.Tags == nil
}

// Resolve computes the field updates the action applies to the given
// transaction. Notes are a full replace; tags are unioned into the
// transaction's existing tags, de-duplicated, existing tags first.
// The input transaction is not mutated.
func (a Action) Resolve(t Transaction) TransactionUpdate {
	var u TransactionUpdate
	if a.Category != "" {
		category := a.Category
		u.Category = &category
	}
	switch a.IsInternal {
	case "yes":
		internal := true
		u.IsInternal = &internal
	case "no":
		internal := false
		u.IsInternal = &internal
	}
	if a.Notes != "" {
		notes := a.Notes
		u.Notes = &notes
	}
	if len(a.Tags) > 0 {
		u.Tags = unionTags(t.Tags, a.Tags)
	}
	return u
}

// unionTags appends new tags to existing ones, dropping duplicates while
// preserving insertion order.
func unionTags(existing, added []string) []string {
	seen := make(map[string]bool, len(existing)+len(added))
	out := make([]string, 0, len(existing)+len(added))
	for _, lists := range [2][]string{existing, added} {
		for _, tag := range lists {
			if tag == "" || seen[tag] {
				continue
			}
			seen[tag] = true
			out = append(out, tag)
		}
	}
	return out
}
