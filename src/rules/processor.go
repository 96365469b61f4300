package rules

import (
	"context"
	"fmt"
	"sort"
)

// Mode selects the processing phase: preview computes statistics without
// touching persistence, apply additionally hands each resolved update to
// the Applier.
type Mode string

const (
	ModePreview Mode = "preview"
	ModeApply   Mode = "apply"
)

// Applier is the persistence collaborator used in apply mode. Each call
// persists one targeted update; the engine never batches writes into one
// multi-row transaction.
type Applier interface {
	ApplyUpdate(ctx context.Context, transactionID string, update TransactionUpdate) error
}

// ApplierFunc adapts a function to the Applier interface.
type ApplierFunc func(ctx context.Context, transactionID string, update TransactionUpdate) error

func (f ApplierFunc) ApplyUpdate(ctx context.Context, transactionID string, update TransactionUpdate) error {
	return f(ctx, transactionID, update)
}

// RuleMatchCount is one ruleBreakdown entry: how many transactions a rule
// matched in this run.
type RuleMatchCount struct {
	RuleID    string `json:"ruleId"`
	RuleTitle string `json:"ruleTitle"`
	Count     int    `json:"count"`
}

// TransactionError records a per-transaction persistence failure in apply
// mode. Failures never abort the batch.
type TransactionError struct {
	TransactionID string `json:"transactionId"`
	Message       string `json:"message"`
}

// ProposedUpdate is one resolved update keyed by the transaction it targets.
type ProposedUpdate struct {
	TransactionID string            `json:"transactionId"`
	Update        TransactionUpdate `json:"update"`
}

// Result aggregates one processing run. RuleBreakdown lists only rules that
// matched at least once, ordered by first match. In apply mode Updated counts
// successfully persisted transactions and Updates holds every payload handed
// to the Applier; in preview mode Updated counts matches and Updates is nil.
type Result struct {
	Updated       int
	Skipped       int
	RuleBreakdown []RuleMatchCount
	Errors        []TransactionError
	Updates       []ProposedUpdate
}

// Process runs the matcher over every transaction in the batch. It holds no
// state between invocations: callers pass the full rule and transaction sets
// each time, and two preview runs over identical inputs produce identical
// results. Rules are evaluated in ascending Order regardless of slice order.
func Process(ctx context.Context, transactions []Transaction, orderedRules []Rule, mode Mode, applier Applier) (Result, error) {
	switch mode {
	case ModePreview, ModeApply:
	default:
		return Result{}, fmt.Errorf("unknown processing mode %q", mode)
	}
	if mode == ModeApply && applier == nil {
		return Result{}, fmt.Errorf("apply mode requires an applier")
	}

	sorted := make([]Rule, len(orderedRules))
	copy(sorted, orderedRules)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })

	var result Result
	breakdownIndex := make(map[string]int, len(sorted))

	for _, txn := range transactions {
		rule, update, ok := MatchRule(txn, sorted)
		if !ok {
			result.Skipped++
			continue
		}

		idx, seen := breakdownIndex[rule.ID]
		if !seen {
			idx = len(result.RuleBreakdown)
			breakdownIndex[rule.ID] = idx
			result.RuleBreakdown = append(result.RuleBreakdown, RuleMatchCount{
				RuleID:    rule.ID,
				RuleTitle: rule.Title,
			})
		}
		result.RuleBreakdown[idx].Count++

		if mode == ModePreview {
			result.Updated++
			continue
		}

		result.Updates = append(result.Updates, ProposedUpdate{TransactionID: txn.ID, Update: update})
		if err := applier.ApplyUpdate(ctx, txn.ID, update); err != nil {
			result.Errors = append(result.Errors, TransactionError{
				TransactionID: txn.ID,
				Message:       err.Error(),
			})
			continue
		}
		result.Updated++
	}

	return result, nil
}
