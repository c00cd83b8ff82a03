package model

import (
	"fmt"
	"strings"
)

type Kind int

const (
	KindCategorical Kind = iota
	KindNumeric
	KindDate
	KindCoordinate
)

func (k Kind) String() string {
	switch k {
	case KindCategorical:
		return "categorical"
	case KindNumeric:
		return "numeric"
	case KindDate:
		return "date"
	case KindCoordinate:
		return "coordinate"
	}
	return "unknown"
}

// Field identifies a record column. Order matches the source column order.
type Field int

const (
	FieldProduct Field = iota
	FieldCategory
	FieldPrice
	FieldFreight
	FieldPurchaseDate
	FieldSeller
	FieldLocation
	FieldRating
	FieldPaymentType
	FieldInstallments
	FieldLat
	FieldLon
	numFields
)

type fieldInfo struct {
	name  string // source column name
	query string // query parameter key
	kind  Kind
}

var fields = [numFields]fieldInfo{
	FieldProduct:      {"Produto", "produto", KindCategorical},
	FieldCategory:     {"Categoria do Produto", "categoria", KindCategorical},
	FieldPrice:        {"Preço", "preco", KindNumeric},
	FieldFreight:      {"Frete", "frete", KindNumeric},
	FieldPurchaseDate: {"Data da Compra", "data", KindDate},
	FieldSeller:       {"Vendedor", "vendedor", KindCategorical},
	FieldLocation:     {"Local da compra", "local", KindCategorical},
	FieldRating:       {"Avaliação da compra", "avaliacao", KindNumeric},
	FieldPaymentType:  {"Tipo de pagamento", "pagamento", KindCategorical},
	FieldInstallments: {"Quantidade de parcelas", "parcelas", KindNumeric},
	FieldLat:          {"lat", "lat", KindCoordinate},
	FieldLon:          {"lon", "lon", KindCoordinate},
}

func (f Field) Valid() bool { return f >= 0 && f < numFields }

// String returns the source column name.
func (f Field) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fields[f].name
}

func (f Field) QueryKey() string {
	if !f.Valid() {
		return ""
	}
	return fields[f].query
}

func (f Field) Kind() Kind {
	if !f.Valid() {
		return -1
	}
	return fields[f].kind
}

// Filterable reports whether predicates may reference the field.
func (f Field) Filterable() bool {
	return f.Valid() && f.Kind() != KindCoordinate
}

// Fields returns every field in source column order.
func Fields() []Field {
	out := make([]Field, 0, numFields)
	for f := Field(0); f < numFields; f++ {
		out = append(out, f)
	}
	return out
}

// FilterableFields returns the fields that accept predicates, in source order.
func FilterableFields() []Field {
	out := make([]Field, 0, numFields)
	for _, f := range Fields() {
		if f.Filterable() {
			out = append(out, f)
		}
	}
	return out
}

// ParseField resolves a source column name or a query key.
func ParseField(s string) (Field, error) {
	s = strings.TrimSpace(s)
	for f := Field(0); f < numFields; f++ {
		if fields[f].name == s || strings.EqualFold(fields[f].query, s) {
			return f, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrUnknownField, s)
}
