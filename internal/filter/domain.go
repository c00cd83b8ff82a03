package filter

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mohammed-shakir/sales-dashboard/internal/core/model"
)

// FieldDomain is the observed value space of one filterable field.
type FieldDomain struct {
	Field  model.Field      `json:"-"`
	Name   string           `json:"field"`
	Key    string           `json:"key"`
	Kind   string           `json:"kind"`
	Values []string         `json:"values,omitempty"`
	Min    *decimal.Decimal `json:"min,omitempty"`
	Max    *decimal.Decimal `json:"max,omitempty"`
	From   *time.Time       `json:"from,omitempty"`
	To     *time.Time       `json:"to,omitempty"`
}

// Domain collects, per filterable field, the distinct values (first-seen
// order) or the min/max seen in records.
func Domain(records []model.Record) ([]FieldDomain, error) {
	fields := model.FilterableFields()
	out := make([]FieldDomain, 0, len(fields))
	for _, f := range fields {
		d := FieldDomain{Field: f, Name: f.String(), Key: f.QueryKey(), Kind: f.Kind().String()}
		switch f.Kind() {
		case model.KindCategorical:
			seen := map[string]struct{}{}
			d.Values = []string{}
			for _, r := range records {
				v, err := r.Text(f)
				if err != nil {
					return nil, err
				}
				if _, ok := seen[v]; !ok {
					seen[v] = struct{}{}
					d.Values = append(d.Values, v)
				}
			}
		case model.KindNumeric:
			for i, r := range records {
				v, err := r.Number(f)
				if err != nil {
					return nil, err
				}
				if i == 0 {
					lo, hi := v, v
					d.Min, d.Max = &lo, &hi
					continue
				}
				if v.LessThan(*d.Min) {
					*d.Min = v
				}
				if v.GreaterThan(*d.Max) {
					*d.Max = v
				}
			}
		case model.KindDate:
			for i, r := range records {
				t, err := r.Date(f)
				if err != nil {
					return nil, err
				}
				if i == 0 {
					from, to := t, t
					d.From, d.To = &from, &to
					continue
				}
				if t.Before(*d.From) {
					*d.From = t
				}
				if t.After(*d.To) {
					*d.To = t
				}
			}
		}
		out = append(out, d)
	}
	return out, nil
}

// Defaults selects every observed value and the full observed range of each
// field, so Apply with the result returns records unchanged.
func Defaults(records []model.Record, onEmpty EmptySelection) (PredicateSet, error) {
	doms, err := Domain(records)
	if err != nil {
		return PredicateSet{}, err
	}
	preds := make([]Predicate, 0, len(doms))
	for _, d := range doms {
		switch {
		case d.Values != nil:
			preds = append(preds, In(d.Field, d.Values...))
		case d.Min != nil:
			preds = append(preds, Between(d.Field, *d.Min, *d.Max))
		case d.From != nil:
			preds = append(preds, During(d.Field, *d.From, *d.To))
		}
	}
	return NewPredicateSet(onEmpty, preds...)
}

// FromValues overrides the defaults of records with the selections found in
// query values. Categorical keys are repeatable ("vendedor=a&vendedor=b"); a
// key given with no values is an empty selection. Range keys take "_min" and
// "_max" suffixes; a missing side extends to the observed bound, or to the
// given side when that lies beyond everything observed.
func FromValues(values url.Values, records []model.Record, onEmpty EmptySelection) (PredicateSet, error) {
	set, err := Defaults(records, onEmpty)
	if err != nil {
		return PredicateSet{}, err
	}

	for _, f := range model.FilterableFields() {
		key := f.QueryKey()
		var p Predicate

		switch f.Kind() {
		case model.KindCategorical:
			raw, ok := values[key]
			if !ok {
				continue
			}
			sel := make([]string, 0, len(raw))
			for _, v := range raw {
				if v = strings.TrimSpace(v); v != "" {
					sel = append(sel, v)
				}
			}
			p = In(f, sel...)

		case model.KindNumeric:
			lo, hasLo, err := numberParam(values, key+"_min")
			if err != nil {
				return PredicateSet{}, err
			}
			hi, hasHi, err := numberParam(values, key+"_max")
			if err != nil {
				return PredicateSet{}, err
			}
			if !hasLo && !hasHi {
				continue
			}
			cur, ok := set.Get(f)
			if !ok && (!hasLo || !hasHi) {
				// nothing observed to complete a half-open range
				continue
			}
			if !hasLo {
				lo = decimal.Min(cur.(NumericRange).Min, hi)
			}
			if !hasHi {
				hi = decimal.Max(cur.(NumericRange).Max, lo)
			}
			p = Between(f, lo, hi)

		case model.KindDate:
			from, hasFrom, err := dateParam(values, key+"_min")
			if err != nil {
				return PredicateSet{}, err
			}
			to, hasTo, err := dateParam(values, key+"_max")
			if err != nil {
				return PredicateSet{}, err
			}
			if !hasFrom && !hasTo {
				continue
			}
			cur, ok := set.Get(f)
			if !ok && (!hasFrom || !hasTo) {
				continue
			}
			if !hasFrom {
				from = earliest(cur.(DateRange).From, to)
			}
			if !hasTo {
				to = latest(cur.(DateRange).To, from)
			}
			p = During(f, from, to)
		}

		if set, err = set.With(p); err != nil {
			return PredicateSet{}, err
		}
	}
	return set, nil
}

func earliest(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}

func latest(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}

func numberParam(values url.Values, key string) (decimal.Decimal, bool, error) {
	s := strings.TrimSpace(values.Get(key))
	if s == "" {
		return decimal.Zero, false, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("%s: %w: %q", key, model.ErrInvalidRange, s)
	}
	return d, true, nil
}

func dateParam(values url.Values, key string) (time.Time, bool, error) {
	s := strings.TrimSpace(values.Get(key))
	if s == "" {
		return time.Time{}, false, nil
	}
	for _, layout := range []string{time.DateOnly, model.DateLayout} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("%s: %w: %q (want YYYY-MM-DD or DD/MM/YYYY)", key, model.ErrInvalidRange, s)
}
