package rules

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestActionResolveSparseUpdate(t *testing.T) {
	t.Parallel()

	txn := Transaction{ID: "t1", Category: "Uncategorised", Notes: "old note"}

	update := Action{Category: "Food"}.Resolve(txn)
	require.NotNil(t, update.Category)
	require.Equal(t, "Food", *update.Category)
	require.Nil(t, update.IsInternal)
	require.Nil(t, update.Notes)
	require.Nil(t, update.Tags)

	update = Action{Notes: "rule note"}.Resolve(txn)
	require.Nil(t, update.Category)
	require.NotNil(t, update.Notes)
	// Notes are a full replace, not an append.
	require.Equal(t, "rule note", *update.Notes)
}

func TestActionResolveIsInternal(t *testing.T) {
	t.Parallel()

	txn := Transaction{ID: "t1"}

	update := Action{IsInternal: "yes"}.Resolve(txn)
	require.NotNil(t, update.IsInternal)
	require.True(t, *update.IsInternal)

	update = Action{IsInternal: "no"}.Resolve(txn)
	require.NotNil(t, update.IsInternal)
	require.False(t, *update.IsInternal)

	update = Action{IsInternal: "", Category: "Food"}.Resolve(txn)
	require.Nil(t, update.IsInternal)
}

func TestActionResolveTagUnion(t *testing.T) {
	t.Parallel()

	txn := Transaction{ID: "t1", Tags: []string{"food", "delivery"}}

	update := Action{Tags: []string{"swiggy", "food"}}.Resolve(txn)
	require.Equal(t, []string{"food", "delivery", "swiggy"}, update.Tags)
}

func TestActionResolveTagUnionIdempotent(t *testing.T) {
	t.Parallel()

	txn := Transaction{ID: "t1", Tags: []string{"food"}}
	action := Action{Tags: []string{"swiggy", "delivery"}}

	once := action.Resolve(txn)
	txn.Tags = once.Tags
	twice := action.Resolve(txn)
	require.Equal(t, once.Tags, twice.Tags)
}

func TestActionResolveDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	txn := Transaction{ID: "t1", Tags: []string{"food"}, Notes: "keep", Category: "keep"}
	Action{Tags: []string{"new"}, Notes: "replace", Category: "Shopping"}.Resolve(txn)

	require.Equal(t, []string{"food"}, txn.Tags)
	require.Equal(t, "keep", txn.Notes)
	require.Equal(t, "keep", txn.Category)
}

func TestActionValidate(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, Action{}.Validate(), ErrEmptyAction)
	require.Error(t, Action{IsInternal: "maybe"}.Validate())
	require.NoError(t, Action{Category: "Food"}.Validate())
	require.NoError(t, Action{IsInternal: "no"}.Validate())
	require.NoError(t, Action{Tags: []string{"a"}}.Validate())
}
