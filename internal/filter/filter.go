package filter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mohammed-shakir/sales-dashboard/internal/core/model"
)

// EmptySelection decides what an empty categorical selection means.
type EmptySelection int

const (
	SelectAll EmptySelection = iota
	SelectNone
)

func (e EmptySelection) String() string {
	if e == SelectNone {
		return "select_none"
	}
	return "select_all"
}

func ParseEmptySelection(s string) (EmptySelection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "select_all", "all":
		return SelectAll, nil
	case "select_none", "none":
		return SelectNone, nil
	}
	return SelectAll, fmt.Errorf("invalid empty selection %q (want select_all|select_none)", s)
}

// PredicateSet is an immutable set of at most one predicate per field.
type PredicateSet struct {
	onEmpty EmptySelection
	preds   []Predicate // sorted by field
}

func NewPredicateSet(onEmpty EmptySelection, preds ...Predicate) (PredicateSet, error) {
	s := PredicateSet{onEmpty: onEmpty}
	for _, p := range preds {
		if err := p.validate(); err != nil {
			return PredicateSet{}, err
		}
		if _, dup := s.Get(p.Field()); dup {
			return PredicateSet{}, fmt.Errorf("duplicate predicate for %q", p.Field().String())
		}
		s.preds = append(s.preds, p)
		s.sort()
	}
	return s, nil
}

// With returns a copy of s where p replaces any predicate on the same field.
func (s PredicateSet) With(p Predicate) (PredicateSet, error) {
	if err := p.validate(); err != nil {
		return s, err
	}
	out := PredicateSet{onEmpty: s.onEmpty, preds: make([]Predicate, 0, len(s.preds)+1)}
	for _, q := range s.preds {
		if q.Field() != p.Field() {
			out.preds = append(out.preds, q)
		}
	}
	out.preds = append(out.preds, p)
	out.sort()
	return out, nil
}

func (s PredicateSet) Get(f model.Field) (Predicate, bool) {
	for _, p := range s.preds {
		if p.Field() == f {
			return p, true
		}
	}
	return nil, false
}

func (s PredicateSet) Len() int { return len(s.preds) }

func (s *PredicateSet) sort() {
	slices.SortFunc(s.preds, func(a, b Predicate) int { return int(a.Field()) - int(b.Field()) })
}

// predicates that take part in evaluation under the empty-selection policy
func (s PredicateSet) active() []Predicate {
	out := make([]Predicate, 0, len(s.preds))
	for _, p := range s.preds {
		if c, ok := p.(Categorical); ok && c.Empty() && s.onEmpty == SelectAll {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Apply keeps the records for which every predicate holds, preserving order.
// A predicate that cannot be evaluated against a record is an error.
func Apply(records []model.Record, set PredicateSet) ([]model.Record, error) {
	active := set.active()
	out := make([]model.Record, 0, len(records))
	for i, r := range records {
		keep := true
		for _, p := range active {
			ok, err := p.Match(r)
			if err != nil {
				return nil, fmt.Errorf("record %d: %w", i, err)
			}
			if !ok {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, r)
		}
	}
	return out, nil
}
