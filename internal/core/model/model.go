// Package model defines core domain types shared across the service.
package model

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrMissingField  = errors.New("missing field")
	ErrFieldKind     = errors.New("field kind mismatch")
	ErrUnknownField  = errors.New("unknown field")
	ErrInvalidRange  = errors.New("invalid range")
	ErrInvalidRegion = errors.New("invalid region")
	ErrInvalidYear   = errors.New("invalid year")
)

// Amounts leave the service as JSON numbers, not strings.
func init() { decimal.MarshalJSONWithoutQuotes = true }

// wire format of "Data da Compra"
const DateLayout = "02/01/2006"

type Record struct {
	Product      string
	Category     string
	Price        decimal.Decimal
	Freight      decimal.Decimal
	PurchaseDate time.Time
	Seller       string
	Location     string
	Rating       int
	PaymentType  string
	Installments int
	Lat          float64
	Lon          float64
}

// Text returns the value of a categorical field.
func (r Record) Text(f Field) (string, error) {
	switch f {
	case FieldProduct:
		return r.Product, nil
	case FieldCategory:
		return r.Category, nil
	case FieldSeller:
		return r.Seller, nil
	case FieldLocation:
		return r.Location, nil
	case FieldPaymentType:
		return r.PaymentType, nil
	}
	return "", fieldErr(f, KindCategorical)
}

// Number returns the value of a numeric field.
func (r Record) Number(f Field) (decimal.Decimal, error) {
	switch f {
	case FieldPrice:
		return r.Price, nil
	case FieldFreight:
		return r.Freight, nil
	case FieldRating:
		return decimal.NewFromInt(int64(r.Rating)), nil
	case FieldInstallments:
		return decimal.NewFromInt(int64(r.Installments)), nil
	}
	return decimal.Zero, fieldErr(f, KindNumeric)
}

// Date returns the value of a date field.
func (r Record) Date(f Field) (time.Time, error) {
	if f == FieldPurchaseDate {
		return r.PurchaseDate, nil
	}
	return time.Time{}, fieldErr(f, KindDate)
}

// Column renders a field as a flat text cell.
func (r Record) Column(f Field) (string, error) {
	switch f.Kind() {
	case KindCategorical:
		return r.Text(f)
	case KindNumeric:
		d, err := r.Number(f)
		if err != nil {
			return "", err
		}
		return d.String(), nil
	case KindDate:
		t, err := r.Date(f)
		if err != nil {
			return "", err
		}
		return t.Format(time.DateOnly), nil
	case KindCoordinate:
		v := r.Lat
		if f == FieldLon {
			v = r.Lon
		}
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	}
	return "", fmt.Errorf("%w: %d", ErrUnknownField, int(f))
}

func fieldErr(f Field, want Kind) error {
	if !f.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownField, int(f))
	}
	return fmt.Errorf("%w: %q is %s, not %s", ErrFieldKind, f.String(), f.Kind(), want)
}

const (
	MinYear = 2022
	MaxYear = 2023
)

// Regions are the fixed region choices; the first one means nationwide.
var Regions = []string{"Brasil", "Nordeste", "Sudeste", "Sul", "Norte", "Centro-Oeste"}

// ParseRegion returns the canonical region name. Empty input means nationwide.
func ParseRegion(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Regions[0], nil
	}
	for _, r := range Regions {
		if strings.EqualFold(r, s) {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRegion, s)
}

// ParseYear accepts an empty string (all years) or a year in [MinYear, MaxYear].
func ParseYear(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	y, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidYear, s)
	}
	if y < MinYear || y > MaxYear {
		return 0, fmt.Errorf("%w: %d outside %d..%d", ErrInvalidYear, y, MinYear, MaxYear)
	}
	return y, nil
}

// Params selects which slice of the dataset the upstream returns.
type Params struct {
	Region string
	Year   int // 0 means all years
}

// Query encodes the params the way the upstream expects them.
func (p Params) Query() url.Values {
	region := ""
	if p.Region != "" && !strings.EqualFold(p.Region, Regions[0]) {
		region = strings.ToLower(p.Region)
	}
	year := ""
	if p.Year != 0 {
		year = strconv.Itoa(p.Year)
	}
	return url.Values{"regiao": {region}, "ano": {year}}
}

func (p Params) String() string {
	region := p.Region
	if region == "" {
		region = Regions[0]
	}
	if p.Year == 0 {
		return region + "/all"
	}
	return fmt.Sprintf("%s/%d", region, p.Year)
}
