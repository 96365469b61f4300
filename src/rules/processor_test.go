package rules

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingApplier struct {
	applied []string
	failOn  map[string]error
}

func (a *recordingApplier) ApplyUpdate(ctx context.Context, transactionID string, update TransactionUpdate) error {
	if err := a.failOn[transactionID]; err != nil {
		return err
	}
	a.applied = append(a.applied, transactionID)
	return nil
}

func swiggyRuleSet() []Rule {
	return []Rule{
		descriptionRule("r1", "Swiggy is food", 0, "swiggy", Action{Category: "Food"}),
	}
}

func TestProcessPreviewScenario(t *testing.T) {
	t.Parallel()

	txns := []Transaction{
		{ID: "t1", Description: "SWIGGY ORDER #123"},
		{ID: "t2", Description: "Rent payment"},
	}

	result, err := Process(context.Background(), txns, swiggyRuleSet(), ModePreview, nil)
	require.NoError(t, err)
	require.Equal(t, 1, result.Updated)
	require.Equal(t, 1, result.Skipped)
	require.Len(t, result.RuleBreakdown, 1)
	require.Equal(t, "Swiggy is food", result.RuleBreakdown[0].RuleTitle)
	require.Equal(t, 1, result.RuleBreakdown[0].Count)
	require.Empty(t, result.Errors)
	require.Nil(t, result.Updates)
}

func TestProcessPreviewDeterminism(t *testing.T) {
	t.Parallel()

	txns := []Transaction{
		{ID: "t1", Description: "SWIGGY ORDER", Amount: 300},
		{ID: "t2", Description: "UBER TRIP", Amount: 180},
		{ID: "t3", Description: "Salary", Type: "credit", Amount: 90000},
	}
	ruleSet := []Rule{
		descriptionRule("r1", "Swiggy is food", 0, "swiggy", Action{Category: "Food"}),
		descriptionRule("r2", "Uber is transport", 1, "uber", Action{Category: "Transport"}),
	}

	first, err := Process(context.Background(), txns, ruleSet, ModePreview, nil)
	require.NoError(t, err)
	second, err := Process(context.Background(), txns, ruleSet, ModePreview, nil)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestProcessPreviewApplyEquivalence(t *testing.T) {
	t.Parallel()

	txns := []Transaction{
		{ID: "t1", Description: "SWIGGY ORDER"},
		{ID: "t2", Description: "SWIGGY DINNER"},
		{ID: "t3", Description: "Rent payment"},
	}

	preview, err := Process(context.Background(), txns, swiggyRuleSet(), ModePreview, nil)
	require.NoError(t, err)

	applier := &recordingApplier{}
	applied, err := Process(context.Background(), txns, swiggyRuleSet(), ModeApply, applier)
	require.NoError(t, err)

	require.Equal(t, preview.Updated, applied.Updated)
	require.Equal(t, preview.Skipped, applied.Skipped)
	require.Equal(t, preview.RuleBreakdown, applied.RuleBreakdown)
	require.Equal(t, []string{"t1", "t2"}, applier.applied)
}

func TestProcessFirstMatchPrecedence(t *testing.T) {
	t.Parallel()

	txns := []Transaction{{ID: "t1", Description: "SWIGGY ORDER"}}
	ruleSet := []Rule{
		descriptionRule("r1", "Food first", 0, "swiggy", Action{Category: "Food"}),
		descriptionRule("r2", "Shopping second", 1, "order", Action{Category: "Shopping"}),
	}

	applier := &recordingApplier{}
	result, err := Process(context.Background(), txns, ruleSet, ModeApply, applier)
	require.NoError(t, err)

	require.Len(t, result.RuleBreakdown, 1)
	require.Equal(t, "r1", result.RuleBreakdown[0].RuleID)
	require.Len(t, result.Updates, 1)
	require.Equal(t, "Food", *result.Updates[0].Update.Category)
}

func TestProcessRespectsOrderNotSliceOrder(t *testing.T) {
	t.Parallel()

	txns := []Transaction{{ID: "t1", Description: "SWIGGY ORDER"}}
	// Slice order is the reverse of evaluation priority.
	ruleSet := []Rule{
		descriptionRule("r2", "Shopping second", 1, "order", Action{Category: "Shopping"}),
		descriptionRule("r1", "Food first", 0, "swiggy", Action{Category: "Food"}),
	}

	result, err := Process(context.Background(), txns, ruleSet, ModePreview, nil)
	require.NoError(t, err)
	require.Len(t, result.RuleBreakdown, 1)
	require.Equal(t, "r1", result.RuleBreakdown[0].RuleID)
}

func TestProcessBreakdownFirstMatchOrder(t *testing.T) {
	t.Parallel()

	// "Zomato" rule has the lowest order but matches a later transaction,
	// so the breakdown is ordered by first match, not by rule priority.
	txns := []Transaction{
		{ID: "t1", Description: "UBER TRIP"},
		{ID: "t2", Description: "ZOMATO ORDER"},
		{ID: "t3", Description: "UBER EATS"},
	}
	ruleSet := []Rule{
		descriptionRule("rz", "Zomato", 0, "zomato", Action{Category: "Food"}),
		descriptionRule("ru", "Uber", 1, "uber", Action{Category: "Transport"}),
	}

	result, err := Process(context.Background(), txns, ruleSet, ModePreview, nil)
	require.NoError(t, err)
	require.Len(t, result.RuleBreakdown, 2)
	require.Equal(t, "ru", result.RuleBreakdown[0].RuleID)
	require.Equal(t, 2, result.RuleBreakdown[0].Count)
	require.Equal(t, "rz", result.RuleBreakdown[1].RuleID)
	require.Equal(t, 1, result.RuleBreakdown[1].Count)
}

func TestProcessApplyPartialFailureIsolation(t *testing.T) {
	t.Parallel()

	txns := make([]Transaction, 0, 10)
	for i := 1; i <= 10; i++ {
		txns = append(txns, Transaction{ID: fmt.Sprintf("t%d", i), Description: "SWIGGY ORDER"})
	}

	applier := &recordingApplier{failOn: map[string]error{
		"t7": fmt.Errorf("write conflict"),
	}}
	result, err := Process(context.Background(), txns, swiggyRuleSet(), ModeApply, applier)
	require.NoError(t, err)

	require.Equal(t, 9, result.Updated)
	require.Equal(t, 0, result.Skipped)
	require.Len(t, result.Errors, 1)
	require.Equal(t, "t7", result.Errors[0].TransactionID)
	require.Equal(t, "write conflict", result.Errors[0].Message)
	// Every matched transaction was handed to the applier, including the failure.
	require.Len(t, result.Updates, 10)
	require.Len(t, applier.applied, 9)
	// Match counts are unaffected by persistence failures.
	require.Equal(t, 10, result.RuleBreakdown[0].Count)
}

func TestProcessStatelessBetweenRuns(t *testing.T) {
	t.Parallel()

	txns := []Transaction{{ID: "t1", Description: "SWIGGY ORDER"}}
	ruleSet := swiggyRuleSet()

	for i := 0; i < 3; i++ {
		result, err := Process(context.Background(), txns, ruleSet, ModePreview, nil)
		require.NoError(t, err)
		require.Equal(t, 1, result.Updated)
		require.Equal(t, 1, result.RuleBreakdown[0].Count)
	}
}

func TestProcessInvalidInputs(t *testing.T) {
	t.Parallel()

	_, err := Process(context.Background(), nil, nil, Mode("dryrun"), nil)
	require.Error(t, err)

	_, err = Process(context.Background(), nil, nil, ModeApply, nil)
	require.Error(t, err)
}

func TestProcessEmptyRuleSetSkipsEverything(t *testing.T) {
	t.Parallel()

	txns := []Transaction{{ID: "t1"}, {ID: "t2"}}
	result, err := Process(context.Background(), txns, nil, ModePreview, nil)
	require.NoError(t, err)
	require.Equal(t, 0, result.Updated)
	require.Equal(t, 2, result.Skipped)
	require.Empty(t, result.RuleBreakdown)
}
