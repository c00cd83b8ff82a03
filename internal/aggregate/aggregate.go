// Package aggregate turns a filtered sales record set into the grouped
// tables behind the dashboard charts.
package aggregate

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mohammed-shakir/sales-dashboard/internal/core/model"
)

// Measure selects what each group reports.
type Measure int

const (
	Sum   Measure = iota // sum of price
	Count                // number of records
)

func (m Measure) String() string {
	if m == Count {
		return "count"
	}
	return "sum"
}

func ParseMeasure(s string) (Measure, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sum", "receita":
		return Sum, nil
	case "count", "quantidade":
		return Count, nil
	}
	return Sum, fmt.Errorf("invalid measure %q (want sum|count)", s)
}

type Row struct {
	Key   string          `json:"key"`
	Value decimal.Decimal `json:"value"`
}

type LocationRow struct {
	Location string          `json:"location"`
	Lat      float64         `json:"lat"`
	Lon      float64         `json:"lon"`
	Value    decimal.Decimal `json:"value"`
}

type MonthRow struct {
	MonthEnd time.Time       `json:"month_end"`
	Year     int             `json:"year"`
	Month    string          `json:"month"`
	Value    decimal.Decimal `json:"value"`
}

type SellerRow struct {
	Seller string          `json:"seller"`
	Sum    decimal.Decimal `json:"sum"`
	Count  int             `json:"count"`
}

func (r SellerRow) Measure(m Measure) decimal.Decimal {
	if m == Count {
		return decimal.NewFromInt(int64(r.Count))
	}
	return r.Sum
}

var one = decimal.NewFromInt(1)

func contribution(r model.Record, m Measure) decimal.Decimal {
	if m == Count {
		return one
	}
	return r.Price
}

// groups in first-seen order
type grouper struct {
	index map[string]int
	keys  []string
	vals  []decimal.Decimal
	first []int // index of the first record of each group
}

func newGrouper() *grouper { return &grouper{index: map[string]int{}} }

func (g *grouper) add(key string, rec int, v decimal.Decimal) {
	i, ok := g.index[key]
	if !ok {
		i = len(g.keys)
		g.index[key] = i
		g.keys = append(g.keys, key)
		g.vals = append(g.vals, decimal.Zero)
		g.first = append(g.first, rec)
	}
	g.vals[i] = g.vals[i].Add(v)
}

// descending by value, ties by key so output is deterministic
func byValueDesc(av, bv decimal.Decimal, ak, bk string) int {
	if c := bv.Cmp(av); c != 0 {
		return c
	}
	return cmp.Compare(ak, bk)
}

// ByLocation groups by purchase location, descending by measure. Each row
// carries the coordinates of the first record seen for the location.
func ByLocation(records []model.Record, m Measure) []LocationRow {
	g := newGrouper()
	for i, r := range records {
		g.add(r.Location, i, contribution(r, m))
	}
	out := make([]LocationRow, len(g.keys))
	for i, k := range g.keys {
		rep := records[g.first[i]]
		out[i] = LocationRow{Location: k, Lat: rep.Lat, Lon: rep.Lon, Value: g.vals[i]}
	}
	slices.SortStableFunc(out, func(a, b LocationRow) int {
		return byValueDesc(a.Value, b.Value, a.Location, b.Location)
	})
	return out
}

// ByCategory groups by product category, descending by measure.
func ByCategory(records []model.Record, m Measure) []Row {
	g := newGrouper()
	for i, r := range records {
		g.add(r.Category, i, contribution(r, m))
	}
	out := make([]Row, len(g.keys))
	for i, k := range g.keys {
		out[i] = Row{Key: k, Value: g.vals[i]}
	}
	slices.SortStableFunc(out, func(a, b Row) int {
		return byValueDesc(a.Value, b.Value, a.Key, b.Key)
	})
	return out
}

// ByMonth buckets purchases by month end in chronological order. Months
// between the first and last bucket without sales are reported as zero.
func ByMonth(records []model.Record, m Measure, names MonthNames) []MonthRow {
	if len(records) == 0 {
		return []MonthRow{}
	}
	sums := map[time.Time]decimal.Decimal{}
	first, last := monthEnd(records[0].PurchaseDate), monthEnd(records[0].PurchaseDate)
	for _, r := range records {
		end := monthEnd(r.PurchaseDate)
		sums[end] = sums[end].Add(contribution(r, m))
		if end.Before(first) {
			first = end
		}
		if end.After(last) {
			last = end
		}
	}

	var out []MonthRow
	for end := first; !end.After(last); end = nextMonthEnd(end) {
		out = append(out, MonthRow{
			MonthEnd: end,
			Year:     end.Year(),
			Month:    names.Name(end.Month()),
			Value:    sums[end],
		})
	}
	return out
}

func monthEnd(t time.Time) time.Time {
	y, mo, _ := t.Date()
	return time.Date(y, mo+1, 0, 0, 0, 0, 0, time.UTC)
}

func nextMonthEnd(end time.Time) time.Time {
	y, mo, _ := end.Date()
	return time.Date(y, mo+2, 0, 0, 0, 0, 0, time.UTC)
}

// BySeller computes both revenue and sale count per seller in one pass, in
// first-seen order. Ranking is left to TopSellers.
func BySeller(records []model.Record) []SellerRow {
	index := map[string]int{}
	out := []SellerRow{}
	for _, r := range records {
		i, ok := index[r.Seller]
		if !ok {
			i = len(out)
			index[r.Seller] = i
			out = append(out, SellerRow{Seller: r.Seller})
		}
		out[i].Sum = out[i].Sum.Add(r.Price)
		out[i].Count++
	}
	return out
}

const (
	MinTopSellers     = 2
	MaxTopSellers     = 10
	DefaultTopSellers = 5
)

// ClampTopSellers bounds n to [MinTopSellers, MaxTopSellers].
func ClampTopSellers(n int) int {
	return min(max(n, MinTopSellers), MaxTopSellers)
}

// TopSellers returns the n best sellers by the given measure, n clamped to
// [MinTopSellers, MaxTopSellers]. rows is not modified.
func TopSellers(rows []SellerRow, by Measure, n int) []SellerRow {
	out := slices.Clone(rows)
	slices.SortStableFunc(out, func(a, b SellerRow) int {
		return byValueDesc(a.Measure(by), b.Measure(by), a.Seller, b.Seller)
	})
	if n = ClampTopSellers(n); len(out) > n {
		out = out[:n]
	}
	return out
}

// Totals returns overall revenue and sale count.
func Totals(records []model.Record) (decimal.Decimal, int) {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Price)
	}
	return total, len(records)
}
