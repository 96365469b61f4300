package rules

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func descriptionRule(id, title string, order int, needle string, action Action) Rule {
	return Rule{
		ID:    id,
		Title: title,
		Order: order,
		Filter: GroupFilter{
			Operator: GroupAnd,
			Filters:  []Filter{{Field: FieldDescription, Operator: OpContains, Value: needle}},
		},
		Action: action,
	}
}

func TestMatchRuleFirstMatchWins(t *testing.T) {
	t.Parallel()

	txn := Transaction{ID: "t1", Description: "SWIGGY ORDER #123"}
	ordered := []Rule{
		descriptionRule("r1", "Swiggy is food", 0, "swiggy", Action{Category: "Food"}),
		descriptionRule("r2", "Orders are shopping", 1, "order", Action{Category: "Shopping"}),
	}

	rule, update, ok := MatchRule(txn, ordered)
	require.True(t, ok)
	require.Equal(t, "r1", rule.ID)
	require.NotNil(t, update.Category)
	require.Equal(t, "Food", *update.Category)
}

func TestMatchRuleNoMatch(t *testing.T) {
	t.Parallel()

	txn := Transaction{ID: "t1", Description: "Rent payment"}
	ordered := []Rule{
		descriptionRule("r1", "Swiggy is food", 0, "swiggy", Action{Category: "Food"}),
	}

	rule, update, ok := MatchRule(txn, ordered)
	require.False(t, ok)
	require.Nil(t, rule)
	require.True(t, update.IsZero())
}

func TestMatchRuleSkipsMalformedRule(t *testing.T) {
	t.Parallel()

	txn := Transaction{ID: "t1", Description: "SWIGGY ORDER", Amount: 300}
	broken := Rule{
		ID:    "r1",
		Title: "Broken amount rule",
		Order: 0,
		Filter: GroupFilter{
			Operator: GroupAnd,
			Filters:  []Filter{{Field: FieldAmount, Operator: OpGreaterThan, Value: "not-a-number"}},
		},
		Action: Action{Category: "Misc"},
	}
	ordered := []Rule{
		broken,
		descriptionRule("r2", "Swiggy is food", 1, "swiggy", Action{Category: "Food"}),
	}

	rule, _, ok := MatchRule(txn, ordered)
	require.True(t, ok)
	require.Equal(t, "r2", rule.ID)
}

func TestRuleValidate(t *testing.T) {
	t.Parallel()

	valid := descriptionRule("r1", "Swiggy is food", 0, "swiggy", Action{Category: "Food"})
	require.NoError(t, valid.Validate())

	noTitle := valid
	noTitle.Title = "   "
	require.Error(t, noTitle.Validate())

	emptyAction := valid
	emptyAction.Action = Action{}
	require.ErrorIs(t, emptyAction.Validate(), ErrEmptyAction)

	badFilter := valid
	badFilter.Filter = GroupFilter{Operator: "XOR"}
	require.Error(t, badFilter.Validate())
}
