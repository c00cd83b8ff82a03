package loader

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mohammed-shakir/sales-dashboard/internal/core/model"
)

// mirrors one upstream object; pointers tell missing members apart from zero values
type wireRecord struct {
	Product      *string          `json:"Produto"`
	Category     *string          `json:"Categoria do Produto"`
	Price        *decimal.Decimal `json:"Preço"`
	Freight      *decimal.Decimal `json:"Frete"`
	PurchaseDate *string          `json:"Data da Compra"`
	Seller       *string          `json:"Vendedor"`
	Location     *string          `json:"Local da compra"`
	Rating       *json.Number     `json:"Avaliação da compra"`
	PaymentType  *string          `json:"Tipo de pagamento"`
	Installments *json.Number     `json:"Quantidade de parcelas"`
	Lat          *float64         `json:"lat"`
	Lon          *float64         `json:"lon"`
}

// Decode parses the upstream JSON array into records. Any missing member or
// malformed value fails the whole set.
func Decode(r io.Reader) ([]model.Record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw []wireRecord
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode sales json: %w", err)
	}

	out := make([]model.Record, 0, len(raw))
	for i, w := range raw {
		rec, err := w.record()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (w wireRecord) record() (model.Record, error) {
	missing := func(f model.Field) error {
		return fmt.Errorf("%w: %q", model.ErrMissingField, f.String())
	}

	switch {
	case w.Product == nil:
		return model.Record{}, missing(model.FieldProduct)
	case w.Category == nil:
		return model.Record{}, missing(model.FieldCategory)
	case w.Price == nil:
		return model.Record{}, missing(model.FieldPrice)
	case w.Freight == nil:
		return model.Record{}, missing(model.FieldFreight)
	case w.PurchaseDate == nil:
		return model.Record{}, missing(model.FieldPurchaseDate)
	case w.Seller == nil:
		return model.Record{}, missing(model.FieldSeller)
	case w.Location == nil:
		return model.Record{}, missing(model.FieldLocation)
	case w.Rating == nil:
		return model.Record{}, missing(model.FieldRating)
	case w.PaymentType == nil:
		return model.Record{}, missing(model.FieldPaymentType)
	case w.Installments == nil:
		return model.Record{}, missing(model.FieldInstallments)
	case w.Lat == nil:
		return model.Record{}, missing(model.FieldLat)
	case w.Lon == nil:
		return model.Record{}, missing(model.FieldLon)
	}

	date, err := ParseDate(*w.PurchaseDate)
	if err != nil {
		return model.Record{}, err
	}
	rating, err := wholeNumber(*w.Rating)
	if err != nil {
		return model.Record{}, fmt.Errorf("%q: %w", model.FieldRating.String(), err)
	}
	installments, err := wholeNumber(*w.Installments)
	if err != nil {
		return model.Record{}, fmt.Errorf("%q: %w", model.FieldInstallments.String(), err)
	}

	return model.Record{
		Product:      *w.Product,
		Category:     *w.Category,
		Price:        *w.Price,
		Freight:      *w.Freight,
		PurchaseDate: date,
		Seller:       *w.Seller,
		Location:     *w.Location,
		Rating:       rating,
		PaymentType:  *w.PaymentType,
		Installments: installments,
		Lat:          *w.Lat,
		Lon:          *w.Lon,
	}, nil
}

// ParseDate parses a DD/MM/YYYY purchase date as a UTC calendar day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(model.DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q %q: %w", model.FieldPurchaseDate.String(), s, err)
	}
	return t, nil
}

func wholeNumber(n json.Number) (int, error) {
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		return int(i), nil
	}
	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil {
		return 0, fmt.Errorf("parse number %q: %w", n.String(), err)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("expected whole number, got %q", n.String())
	}
	return int(f), nil
}
