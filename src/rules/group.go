package rules

import (
	"errors"
	"fmt"
)

// GroupOperator combines the results of a group's children.
type GroupOperator string

const (
	GroupAnd GroupOperator = "AND"
	GroupOr  GroupOperator = "OR"
)

// MaxGroupDepth bounds filter tree nesting: the root group sits at level 0
// and children may nest down to level 2.
const MaxGroupDepth = 3

// ErrGroupTooDeep is returned when a filter tree nests beyond MaxGroupDepth
// levels. Deep trees are rejected at authoring time, never truncated.
var ErrGroupTooDeep = errors.New("group filter nesting exceeds maximum depth")

// GroupFilter is an AND/OR combinator over leaf filters and nested groups.
// It is a strictly tree-shaped owned value, so evaluation needs no cycle
// detection.
type GroupFilter struct {
	ID       string        `json:"id"`
	Operator GroupOperator `json:"operator"`
	Filters  []Filter      `json:"filters,omitempty"`
	Groups   []GroupFilter `json:"groups,omitempty"`
}

// Validate checks the whole tree: known operators on every node, operator/field
// compatibility on every leaf, and the nesting depth bound.
func (g GroupFilter) Validate() error {
	return g.validate(0)
}

func (g GroupFilter) validate(level int) error {
	if level >= MaxGroupDepth {
		return ErrGroupTooDeep
	}
	if g.Operator != GroupAnd && g.Operator != GroupOr {
		return fmt.Errorf("unknown group operator %q", g.Operator)
	}
	for _, f := range g.Filters {
		if err := f.Validate(); err != nil {
			return err
		}
	}
	for _, sub := range g.Groups {
		if err := sub.validate(level + 1); err != nil {
			return err
		}
	}
	return nil
}

// Matches recursively evaluates the group against one transaction.
// An empty AND group matches vacuously; an empty OR group matches nothing.
// Evaluation short-circuits: AND stops at the first false child, OR at the
// first true one.
func (g GroupFilter) Matches(t Transaction) bool {
	switch g.Operator {
	case GroupAnd:
		for _, f := range g.Filters {
			if !f.Matches(t) {
				return false
			}
		}
		for _, sub := range g.Groups {
			if !sub.Matches(t) {
				return false
			}
		}
		return true
	case GroupOr:
		for _, f := range g.Filters {
			if f.Matches(t) {
				return true
			}
		}
		for _, sub := range g.Groups {
			if sub.Matches(t) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
