// Package rules implements the transaction rule engine: user-authored
// nested AND/OR filter trees evaluated against transactions, the actions
// a matching rule applies, and the two-phase (preview/apply) batch
// processor. The package is pure computation; persistence is delegated
// to the caller through the Applier interface.
package rules

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Field names a filterable transaction attribute.
type Field string

const (
	FieldDate        Field = "date"
	FieldAmount      Field = "amount"
	FieldTxnType     Field = "type"
	FieldDescription Field = "description"
	FieldBankAccount Field = "bankAccount"
	FieldCategory    Field = "category"
	FieldNotes       Field = "notes"
	FieldReason      Field = "reason"
)

// FieldType is resolved once per filter at validation time so evaluation
// dispatches on a closed set of comparison kinds.
type FieldType int

const (
	FieldTypeText FieldType = iota
	FieldTypeNumeric
	FieldTypeDate
	FieldTypeEnumerated
)

var fieldTypes = map[Field]FieldType{
	FieldDate:        FieldTypeDate,
	FieldAmount:      FieldTypeNumeric,
	FieldTxnType:     FieldTypeEnumerated,
	FieldDescription: FieldTypeText,
	FieldBankAccount: FieldTypeText,
	FieldCategory:    FieldTypeText,
	FieldNotes:       FieldTypeText,
	FieldReason:      FieldTypeText,
}

// Operator is a comparison applied between a transaction field and a
// filter value.
type Operator string

const (
	OpContains           Operator = "contains"
	OpEquals             Operator = "equals"
	OpStartsWith         Operator = "startsWith"
	OpEndsWith           Operator = "endsWith"
	OpNotEquals          Operator = "notEquals"
	OpGreaterThan        Operator = "greaterThan"
	OpLessThan           Operator = "lessThan"
	OpGreaterThanOrEqual Operator = "greaterThanOrEqual"
	OpLessThanOrEqual    Operator = "lessThanOrEqual"
)

var textOperators = map[Operator]bool{
	OpContains:   true,
	OpEquals:     true,
	OpStartsWith: true,
	OpEndsWith:   true,
	OpNotEquals:  true,
}

var orderedOperators = map[Operator]bool{
	OpGreaterThan:        true,
	OpLessThan:           true,
	OpGreaterThanOrEqual: true,
	OpLessThanOrEqual:    true,
}

// dateLayout is the calendar-day format filter values use for date fields.
const dateLayout = "2006-01-02"

// Transaction is the engine's view of a transaction record. Amount is
// stored positive; the sign is carried by Type ("credit" or "debit").
type Transaction struct {
	ID             string
	Date           time.Time
	AccountingDate time.Time
	Amount         float64
	Type           string
	Description    string
	BankAccount    string
	Category       string
	Notes          string
	Reason         string
	IsInternal     bool
	Tags           []string
}

// Filter is a single leaf condition compared against one transaction field.
type Filter struct {
	ID       string   `json:"id"`
	Field    Field    `json:"field"`
	Operator Operator `json:"operator"`
	Value    string   `json:"value"`
}

// Validate rejects filters whose operator is not valid for the field's
// declared type. Evaluation assumes validated filters but still fails
// closed on anything malformed.
func (f Filter) Validate() error {
	ft, ok := fieldTypes[f.Field]
	if !ok {
		return fmt.Errorf("unknown filter field %q", f.Field)
	}
	if !textOperators[f.Operator] && !orderedOperators[f.Operator] {
		return fmt.Errorf("unknown filter operator %q", f.Operator)
	}
	if orderedOperators[f.Operator] && (ft == FieldTypeText || ft == FieldTypeEnumerated) {
		return fmt.Errorf("operator %q is not valid for text field %q", f.Operator, f.Field)
	}
	return nil
}

// Matches evaluates the filter against one transaction. Malformed
// filters and unparseable comparison values evaluate to false rather
// than erroring so a bad rule degrades to "never matches".
func (f Filter) Matches(t Transaction) bool {
	ft, ok := fieldTypes[f.Field]
	if !ok {
		return false
	}

	switch ft {
	case FieldTypeText, FieldTypeEnumerated:
		return matchText(textValue(t, f.Field), f.Operator, f.Value)
	case FieldTypeNumeric:
		if orderedOperators[f.Operator] {
			want, err := strconv.ParseFloat(strings.TrimSpace(f.Value), 64)
			if err != nil {
				return false
			}
			return matchOrdered(compareFloats(t.Amount, want), f.Operator)
		}
		return matchText(strconv.FormatFloat(t.Amount, 'f', -1, 64), f.Operator, f.Value)
	case FieldTypeDate:
		if orderedOperators[f.Operator] {
			want, err := time.Parse(dateLayout, strings.TrimSpace(f.Value))
			if err != nil {
				return false
			}
			return matchOrdered(compareDays(t.Date, want), f.Operator)
		}
		return matchText(t.Date.Format(dateLayout), f.Operator, f.Value)
	default:
		return false
	}
}

func textValue(t Transaction, field Field) string {
	switch field {
	case FieldTxnType:
		return t.Type
	case FieldDescription:
		return t.Description
	case FieldBankAccount:
		return t.BankAccount
	case FieldCategory:
		return t.Category
	case FieldNotes:
		return t.Notes
	case FieldReason:
		return t.Reason
	default:
		return ""
	}
}

func matchText(have string, op Operator, want string) bool {
	have = strings.ToLower(have)
	want = strings.ToLower(want)
	switch op {
	case OpContains:
		return want != "" && strings.Contains(have, want)
	case OpEquals:
		return have == want
	case OpNotEquals:
		return have != want
	case OpStartsWith:
		return want != "" && strings.HasPrefix(have, want)
	case OpEndsWith:
		return want != "" && strings.HasSuffix(have, want)
	default:
		return false
	}
}

// matchOrdered maps a three-way comparison result onto an ordered operator.
func matchOrdered(cmp int, op Operator) bool {
	switch op {
	case OpGreaterThan:
		return cmp > 0
	case OpLessThan:
		return cmp < 0
	case OpGreaterThanOrEqual:
		return cmp >= 0
	case OpLessThanOrEqual:
		return cmp <= 0
	default:
		return false
	}
}

func compareFloats(a, b float64) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}

// compareDays compares calendar days, ignoring the time of day.
func compareDays(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	at := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	bt := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	switch {
	case at.After(bt):
		return 1
	case at.Before(bt):
		return -1
	default:
		return 0
	}
}
