package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func day(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func TestFieldKindsResolve(t *testing.T) {
	t.Parallel()

	want := map[Field]FieldType{
		FieldDate:        FieldTypeDate,
		FieldAmount:      FieldTypeNumeric,
		FieldTxnType:     FieldTypeEnumerated,
		FieldDescription: FieldTypeText,
		FieldBankAccount: FieldTypeText,
		FieldCategory:    FieldTypeText,
		FieldNotes:       FieldTypeText,
		FieldReason:      FieldTypeText,
	}
	for field, kind := range want {
		got, ok := fieldTypes[field]
		require.True(t, ok, "field %q has no resolved kind", field)
		require.Equal(t, kind, got, "field %q", field)
	}
}

func TestFilterMatchesText(t *testing.T) {
	t.Parallel()

	txn := Transaction{
		ID:          "t1",
		Description: "AMAZON.IN PURCHASE",
		BankAccount: "HDFC Savings",
		Category:    "Shopping",
	}

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"contains case-insensitive", Filter{Field: FieldDescription, Operator: OpContains, Value: "Amazon"}, true},
		{"contains miss", Filter{Field: FieldDescription, Operator: OpContains, Value: "Flipkart"}, false},
		{"equals case-insensitive", Filter{Field: FieldCategory, Operator: OpEquals, Value: "shopping"}, true},
		{"equals miss", Filter{Field: FieldCategory, Operator: OpEquals, Value: "food"}, false},
		{"startsWith", Filter{Field: FieldDescription, Operator: OpStartsWith, Value: "amazon"}, true},
		{"startsWith miss", Filter{Field: FieldDescription, Operator: OpStartsWith, Value: "purchase"}, false},
		{"endsWith", Filter{Field: FieldDescription, Operator: OpEndsWith, Value: "purchase"}, true},
		{"notEquals", Filter{Field: FieldBankAccount, Operator: OpNotEquals, Value: "ICICI Current"}, true},
		{"notEquals same value", Filter{Field: FieldBankAccount, Operator: OpNotEquals, Value: "hdfc savings"}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.filter.Matches(txn))
		})
	}
}

func TestFilterMatchesEmptyFieldValue(t *testing.T) {
	t.Parallel()

	// Notes and reason are unset: treated as "" for text operators.
	txn := Transaction{ID: "t1", Description: "RENT"}

	require.False(t, Filter{Field: FieldNotes, Operator: OpContains, Value: "landlord"}.Matches(txn))
	require.False(t, Filter{Field: FieldReason, Operator: OpStartsWith, Value: "a"}.Matches(txn))
	require.True(t, Filter{Field: FieldNotes, Operator: OpNotEquals, Value: "landlord"}.Matches(txn))
	require.True(t, Filter{Field: FieldNotes, Operator: OpEquals, Value: ""}.Matches(txn))
}

func TestFilterMatchesNumeric(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		amount float64
		filter Filter
		want   bool
	}{
		{"greaterThan strict", 750, Filter{Field: FieldAmount, Operator: OpGreaterThan, Value: "500"}, true},
		{"greaterThan boundary", 500, Filter{Field: FieldAmount, Operator: OpGreaterThan, Value: "500"}, false},
		{"greaterThanOrEqual boundary", 500, Filter{Field: FieldAmount, Operator: OpGreaterThanOrEqual, Value: "500"}, true},
		{"lessThan", 100, Filter{Field: FieldAmount, Operator: OpLessThan, Value: "500"}, true},
		{"lessThanOrEqual miss", 750, Filter{Field: FieldAmount, Operator: OpLessThanOrEqual, Value: "500"}, false},
		{"equals as text", 500, Filter{Field: FieldAmount, Operator: OpEquals, Value: "500"}, true},
		{"unparseable value fails closed", 750, Filter{Field: FieldAmount, Operator: OpGreaterThan, Value: "abc"}, false},
		{"empty value fails closed", 750, Filter{Field: FieldAmount, Operator: OpGreaterThan, Value: ""}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			txn := Transaction{ID: "t1", Amount: tc.amount}
			require.Equal(t, tc.want, tc.filter.Matches(txn))
		})
	}
}

func TestFilterMatchesDate(t *testing.T) {
	t.Parallel()

	txn := Transaction{ID: "t1", Date: day("2026-03-15")}

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"greaterThan", Filter{Field: FieldDate, Operator: OpGreaterThan, Value: "2026-03-01"}, true},
		{"greaterThan same day", Filter{Field: FieldDate, Operator: OpGreaterThan, Value: "2026-03-15"}, false},
		{"lessThanOrEqual same day", Filter{Field: FieldDate, Operator: OpLessThanOrEqual, Value: "2026-03-15"}, true},
		{"equals formatted", Filter{Field: FieldDate, Operator: OpEquals, Value: "2026-03-15"}, true},
		{"startsWith month", Filter{Field: FieldDate, Operator: OpStartsWith, Value: "2026-03"}, true},
		{"unparseable date fails closed", Filter{Field: FieldDate, Operator: OpLessThan, Value: "15/03/2026"}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.filter.Matches(txn))
		})
	}
}

func TestFilterMatchesDateIgnoresTimeOfDay(t *testing.T) {
	t.Parallel()

	txn := Transaction{ID: "t1", Date: time.Date(2026, 3, 15, 23, 45, 0, 0, time.UTC)}
	require.False(t, Filter{Field: FieldDate, Operator: OpGreaterThan, Value: "2026-03-15"}.Matches(txn))
	require.True(t, Filter{Field: FieldDate, Operator: OpGreaterThanOrEqual, Value: "2026-03-15"}.Matches(txn))
}

func TestFilterMatchesEnumeratedType(t *testing.T) {
	t.Parallel()

	txn := Transaction{ID: "t1", Type: "debit"}
	require.True(t, Filter{Field: FieldTxnType, Operator: OpEquals, Value: "DEBIT"}.Matches(txn))
	require.False(t, Filter{Field: FieldTxnType, Operator: OpEquals, Value: "credit"}.Matches(txn))
}

func TestFilterMatchesUnknownFieldOrOperator(t *testing.T) {
	t.Parallel()

	txn := Transaction{ID: "t1", Description: "anything"}
	require.False(t, Filter{Field: "merchant", Operator: OpEquals, Value: "anything"}.Matches(txn))
	require.False(t, Filter{Field: FieldDescription, Operator: "matches", Value: "anything"}.Matches(txn))
}

func TestFilterValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		filter  Filter
		wantErr bool
	}{
		{"text operator on text field", Filter{Field: FieldDescription, Operator: OpContains, Value: "x"}, false},
		{"ordered operator on numeric field", Filter{Field: FieldAmount, Operator: OpGreaterThan, Value: "10"}, false},
		{"ordered operator on date field", Filter{Field: FieldDate, Operator: OpLessThan, Value: "2026-01-01"}, false},
		{"ordered operator on text field", Filter{Field: FieldDescription, Operator: OpGreaterThan, Value: "x"}, true},
		{"ordered operator on enumerated field", Filter{Field: FieldTxnType, Operator: OpLessThan, Value: "debit"}, true},
		{"unknown field", Filter{Field: "merchant", Operator: OpEquals, Value: "x"}, true},
		{"unknown operator", Filter{Field: FieldDescription, Operator: "regex", Value: "x"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.filter.Validate()
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
