// Package filter narrows a sales record set by a conjunction of per-field
// predicates.
package filter

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mohammed-shakir/sales-dashboard/internal/core/model"
)

type Predicate interface {
	Field() model.Field
	Match(r model.Record) (bool, error)
	validate() error
}

// Categorical holds when the record's value is one of the selected values.
type Categorical struct {
	field  model.Field
	values map[string]struct{}
}

func In(f model.Field, values ...string) Categorical {
	c := Categorical{field: f, values: make(map[string]struct{}, len(values))}
	for _, v := range values {
		c.values[v] = struct{}{}
	}
	return c
}

func (c Categorical) Field() model.Field { return c.field }

func (c Categorical) Empty() bool { return len(c.values) == 0 }

func (c Categorical) Match(r model.Record) (bool, error) {
	v, err := r.Text(c.field)
	if err != nil {
		return false, err
	}
	_, ok := c.values[v]
	return ok, nil
}

func (c Categorical) validate() error {
	return checkKind(c.field, model.KindCategorical)
}

// NumericRange holds when Min <= value <= Max.
type NumericRange struct {
	field    model.Field
	Min, Max decimal.Decimal
}

func Between(f model.Field, lo, hi decimal.Decimal) NumericRange {
	return NumericRange{field: f, Min: lo, Max: hi}
}

func (n NumericRange) Field() model.Field { return n.field }

func (n NumericRange) Match(r model.Record) (bool, error) {
	v, err := r.Number(n.field)
	if err != nil {
		return false, err
	}
	return v.GreaterThanOrEqual(n.Min) && v.LessThanOrEqual(n.Max), nil
}

func (n NumericRange) validate() error {
	if err := checkKind(n.field, model.KindNumeric); err != nil {
		return err
	}
	if n.Min.GreaterThan(n.Max) {
		return fmt.Errorf("%w: %q min %s > max %s", model.ErrInvalidRange, n.field.String(), n.Min, n.Max)
	}
	return nil
}

// DateRange holds when the record's calendar day lies in [From, To].
type DateRange struct {
	field    model.Field
	From, To time.Time
}

func During(f model.Field, from, to time.Time) DateRange {
	return DateRange{field: f, From: day(from), To: day(to)}
}

func (d DateRange) Field() model.Field { return d.field }

func (d DateRange) Match(r model.Record) (bool, error) {
	t, err := r.Date(d.field)
	if err != nil {
		return false, err
	}
	t = day(t)
	return !t.Before(d.From) && !t.After(d.To), nil
}

func (d DateRange) validate() error {
	if err := checkKind(d.field, model.KindDate); err != nil {
		return err
	}
	if d.From.After(d.To) {
		return fmt.Errorf("%w: %q from %s after to %s", model.ErrInvalidRange, d.field.String(),
			d.From.Format(time.DateOnly), d.To.Format(time.DateOnly))
	}
	return nil
}

func day(t time.Time) time.Time {
	y, m, dd := t.Date()
	return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
}

func checkKind(f model.Field, want model.Kind) error {
	if !f.Valid() {
		return fmt.Errorf("%w: %d", model.ErrUnknownField, int(f))
	}
	if f.Kind() != want {
		return fmt.Errorf("%w: %q is %s, predicate needs %s", model.ErrFieldKind, f.String(), f.Kind(), want)
	}
	return nil
}
