package filter

import (
	"errors"
	"net/url"
	"strconv"
)

// Mode is the combinator joining all conditions of one query. The Vikunja
// filter grammar supports exactly one combinator per query.
type Mode string

const (
	ModeAnd Mode = "and"
	ModeOr  Mode = "or"
)

// Comparator compares a field against a value.
type Comparator string

const (
	Equals        Comparator = "equals"
	GreaterEquals Comparator = "greater_equals"
	LessEquals    Comparator = "less_equals"
	In            Comparator = "in"
	Like          Comparator = "like"
)

var (
	// ErrEmptyFilter is returned for a filter with no predicates. An empty
	// filter is rejected rather than treated as "match everything", since a
	// caller supplying a filter expects scoping.
	ErrEmptyFilter = errors.New("filter has no predicates")

	// ErrMixedModes is returned when one filter call combines AND and OR
	// predicates. The query grammar takes a single combinator, and silently
	// picking one would change the caller's meaning.
	ErrMixedModes = errors.New("filter mixes AND and OR modes")
)

// Condition is a single field comparison in a filter query.
type Condition struct {
	Field      string
	Comparator Comparator
	Value      string
}

// Apply appends conditions to the query parameters in the repeated
// filter_by/filter_value/filter_comparator form the API expects, with one
// filter_concat combinator. Parameters already present in q (pagination,
// sort) are left untouched.
func Apply(q url.Values, mode Mode, conds ...Condition) {
	for _, c := range conds {
		q.Add("filter_by", c.Field)
		q.Add("filter_value", c.Value)
		q.Add("filter_comparator", string(c.Comparator))
	}
	if len(conds) > 0 {
		q.Set("filter_concat", string(mode))
	}
}

// Predicate is a single label-membership requirement.
type Predicate struct {
	LabelID int64
	Mode    Mode
}

// Labels builds a predicate set where every predicate shares one mode.
func Labels(mode Mode, labelIDs ...int64) []Predicate {
	preds := make([]Predicate, 0, len(labelIDs))
	for _, id := range labelIDs {
		preds = append(preds, Predicate{LabelID: id, Mode: mode})
	}
	return preds
}

// ModeOf validates a predicate set and returns its shared combination mode.
// It fails before any request is issued: empty sets and sets mixing AND with
// OR are both rejected.
func ModeOf(preds []Predicate) (Mode, error) {
	if len(preds) == 0 {
		return "", ErrEmptyFilter
	}
	mode := preds[0].Mode
	for _, p := range preds[1:] {
		if p.Mode != mode {
			return "", ErrMixedModes
		}
	}
	return mode, nil
}

// BuildLabelQuery translates a validated predicate set into query
// parameters. AND means a matching task carries every listed label, OR means
// it carries at least one.
func BuildLabelQuery(preds []Predicate) (url.Values, error) {
	mode, err := ModeOf(preds)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	conds := make([]Condition, 0, len(preds))
	for _, p := range preds {
		conds = append(conds, Condition{
			Field:      "labels",
			Comparator: In,
			Value:      strconv.FormatInt(p.LabelID, 10),
		})
	}
	Apply(q, mode, conds...)
	return q, nil
}

// Matches reports whether a task carrying the given label IDs satisfies the
// predicate set. The service-side labels comparator is membership-based, so
// AND queries are re-verified locally against the returned records.
func Matches(labelIDs []int64, preds []Predicate) bool {
	mode, err := ModeOf(preds)
	if err != nil {
		return false
	}

	have := make(map[int64]bool, len(labelIDs))
	for _, id := range labelIDs {
		have[id] = true
	}

	switch mode {
	case ModeOr:
		for _, p := range preds {
			if have[p.LabelID] {
				return true
			}
		}
		return false
	default:
		for _, p := range preds {
			if !have[p.LabelID] {
				return false
			}
		}
		return true
	}
}
