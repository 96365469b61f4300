package rules

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGroupFilterEmptyGroupAsymmetry(t *testing.T) {
	t.Parallel()

	txn := Transaction{ID: "t1", Description: "anything at all"}

	// An empty AND group matches every transaction; an empty OR group matches none.
	require.True(t, GroupFilter{Operator: GroupAnd}.Matches(txn))
	require.False(t, GroupFilter{Operator: GroupOr}.Matches(txn))
}

func TestGroupFilterAndOr(t *testing.T) {
	t.Parallel()

	txn := Transaction{ID: "t1", Description: "SWIGGY ORDER #123", Amount: 420, Type: "debit"}

	swiggy := Filter{Field: FieldDescription, Operator: OpContains, Value: "swiggy"}
	expensive := Filter{Field: FieldAmount, Operator: OpGreaterThan, Value: "1000"}
	debit := Filter{Field: FieldTxnType, Operator: OpEquals, Value: "debit"}

	tests := []struct {
		name  string
		group GroupFilter
		want  bool
	}{
		{"AND all true", GroupFilter{Operator: GroupAnd, Filters: []Filter{swiggy, debit}}, true},
		{"AND one false", GroupFilter{Operator: GroupAnd, Filters: []Filter{swiggy, expensive}}, false},
		{"OR one true", GroupFilter{Operator: GroupOr, Filters: []Filter{expensive, swiggy}}, true},
		{"OR all false", GroupFilter{Operator: GroupOr, Filters: []Filter{expensive, {Field: FieldDescription, Operator: OpContains, Value: "zomato"}}}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.group.Matches(txn))
		})
	}
}

func TestGroupFilterNestedGroups(t *testing.T) {
	t.Parallel()

	// (description contains "uber" AND (type = debit OR amount > 100))
	group := GroupFilter{
		Operator: GroupAnd,
		Filters:  []Filter{{Field: FieldDescription, Operator: OpContains, Value: "uber"}},
		Groups: []GroupFilter{{
			Operator: GroupOr,
			Filters: []Filter{
				{Field: FieldTxnType, Operator: OpEquals, Value: "debit"},
				{Field: FieldAmount, Operator: OpGreaterThan, Value: "100"},
			},
		}},
	}

	require.True(t, group.Matches(Transaction{ID: "t1", Description: "UBER TRIP", Type: "credit", Amount: 250}))
	require.True(t, group.Matches(Transaction{ID: "t2", Description: "UBER TRIP", Type: "debit", Amount: 50}))
	require.False(t, group.Matches(Transaction{ID: "t3", Description: "UBER TRIP", Type: "credit", Amount: 50}))
	require.False(t, group.Matches(Transaction{ID: "t4", Description: "OLA TRIP", Type: "debit", Amount: 250}))
}

func TestGroupFilterEmptyNestedGroupSemantics(t *testing.T) {
	t.Parallel()

	txn := Transaction{ID: "t1", Description: "RENT"}

	// An empty OR child makes an AND parent fail.
	parent := GroupFilter{Operator: GroupAnd, Groups: []GroupFilter{{Operator: GroupOr}}}
	require.False(t, parent.Matches(txn))

	// An empty AND child satisfies an OR parent.
	parent = GroupFilter{Operator: GroupOr, Groups: []GroupFilter{{Operator: GroupAnd}}}
	require.True(t, parent.Matches(txn))
}

func TestGroupFilterValidateDepth(t *testing.T) {
	t.Parallel()

	level2 := GroupFilter{Operator: GroupAnd}
	level1 := GroupFilter{Operator: GroupOr, Groups: []GroupFilter{level2}}
	root := GroupFilter{Operator: GroupAnd, Groups: []GroupFilter{level1}}
	require.NoError(t, root.Validate())

	level3 := GroupFilter{Operator: GroupAnd}
	level2.Groups = []GroupFilter{level3}
	level1 = GroupFilter{Operator: GroupOr, Groups: []GroupFilter{level2}}
	root = GroupFilter{Operator: GroupAnd, Groups: []GroupFilter{level1}}
	require.ErrorIs(t, root.Validate(), ErrGroupTooDeep)
}

func TestGroupFilterValidateRejectsBadChildren(t *testing.T) {
	t.Parallel()

	require.Error(t, GroupFilter{Operator: "XOR"}.Validate())

	group := GroupFilter{
		Operator: GroupAnd,
		Filters:  []Filter{{Field: FieldDescription, Operator: OpGreaterThan, Value: "x"}},
	}
	require.Error(t, group.Validate())

	group = GroupFilter{
		Operator: GroupAnd,
		Groups:   []GroupFilter{{Operator: "NAND"}},
	}
	require.Error(t, group.Validate())
}
