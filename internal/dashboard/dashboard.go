// Package dashboard assembles the main page view from a filtered record set:
// header metrics plus the revenue, sale count and seller tabs.
package dashboard

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mohammed-shakir/sales-dashboard/internal/aggregate"
	"github.com/mohammed-shakir/sales-dashboard/internal/core/model"
	"github.com/mohammed-shakir/sales-dashboard/internal/mapper"
	"github.com/mohammed-shakir/sales-dashboard/internal/numfmt"
)

const (
	TabRevenue = "Receita"
	TabCount   = "Quantidade de vendas"
	TabSellers = "Vendedores"

	DefaultTopLocations = 5
)

type Options struct {
	TopLocations   int
	TopSellers     int
	Months         aggregate.MonthNames
	CurrencyPrefix string
	// H3 cell per map point; nil leaves Point.Cell empty
	Mapper mapper.Interface
	H3Res  int
}

type Metric struct {
	Label     string          `json:"label"`
	Value     decimal.Decimal `json:"value"`
	Formatted string          `json:"formatted"`
}

type Point struct {
	Location string          `json:"location"`
	Lat      float64         `json:"lat"`
	Lon      float64         `json:"lon"`
	Cell     string          `json:"h3_cell,omitempty"`
	Value    decimal.Decimal `json:"value"`
}

// Series is one line of the monthly chart.
type Series struct {
	Year   int                  `json:"year"`
	Points []aggregate.MonthRow `json:"points"`
}

type Bar struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

type Chart struct {
	Title string `json:"title"`
	Bars  []Bar  `json:"bars"`
}

type Tab struct {
	Name    string   `json:"name"`
	Map     []Point  `json:"map,omitempty"`
	Monthly []Series `json:"monthly,omitempty"`
	Charts  []Chart  `json:"charts"`
}

type View struct {
	Params  string   `json:"params,omitempty"`
	Records int      `json:"records"`
	Empty   bool     `json:"empty"`
	Metrics []Metric `json:"metrics"`
	Tabs    []Tab    `json:"tabs"`
}

func (o Options) withDefaults() Options {
	if o.TopLocations <= 0 {
		o.TopLocations = DefaultTopLocations
	}
	if o.TopSellers == 0 {
		o.TopSellers = aggregate.DefaultTopSellers
	}
	o.TopSellers = aggregate.ClampTopSellers(o.TopSellers)
	if o.Months == (aggregate.MonthNames{}) {
		o.Months = aggregate.PortugueseMonths
	}
	return o
}

// Build computes the full view. An empty record set yields zero metrics and
// empty charts, not an error.
func Build(records []model.Record, opts Options) (View, error) {
	opts = opts.withDefaults()

	total, n := aggregate.Totals(records)
	count := decimal.NewFromInt(int64(n))
	v := View{
		Records: n,
		Empty:   n == 0,
		Metrics: []Metric{
			{Label: "Receita", Value: total, Formatted: numfmt.Format(total.InexactFloat64(), opts.CurrencyPrefix)},
			{Label: "Quantidade de vendas", Value: count, Formatted: numfmt.Format(float64(n), "")},
		},
	}

	revenue, err := measureTab(TabRevenue, records, aggregate.Sum, opts)
	if err != nil {
		return View{}, err
	}
	quantity, err := measureTab(TabCount, records, aggregate.Count, opts)
	if err != nil {
		return View{}, err
	}
	v.Tabs = []Tab{revenue, quantity, sellerTab(records, opts)}
	return v, nil
}

// ForMeasure narrows v to the tab computed with m and the seller rankings.
func (v View) ForMeasure(m aggregate.Measure) View {
	name := TabRevenue
	if m == aggregate.Count {
		name = TabCount
	}
	tabs := make([]Tab, 0, 2)
	for _, t := range v.Tabs {
		if t.Name == name || t.Name == TabSellers {
			tabs = append(tabs, t)
		}
	}
	v.Tabs = tabs
	return v
}

func measureTab(name string, records []model.Record, m aggregate.Measure, opts Options) (Tab, error) {
	title := "Receita"
	if m == aggregate.Count {
		title = "Quantidade de vendas"
	}

	locs := aggregate.ByLocation(records, m)
	points := make([]Point, len(locs))
	for i, l := range locs {
		points[i] = Point{Location: l.Location, Lat: l.Lat, Lon: l.Lon, Value: l.Value}
		if opts.Mapper == nil {
			continue
		}
		cell, err := opts.Mapper.CellForPoint(l.Lat, l.Lon, opts.H3Res)
		if err != nil {
			return Tab{}, fmt.Errorf("map point %q: %w", l.Location, err)
		}
		points[i].Cell = cell
	}

	top := locs[:min(len(locs), opts.TopLocations)]
	states := make([]Bar, len(top))
	for i, l := range top {
		states[i] = Bar{Label: l.Location, Value: l.Value}
	}

	cats := aggregate.ByCategory(records, m)
	categories := make([]Bar, len(cats))
	for i, c := range cats {
		categories[i] = Bar{Label: c.Key, Value: c.Value}
	}

	return Tab{
		Name:    name,
		Map:     points,
		Monthly: splitByYear(aggregate.ByMonth(records, m, opts.Months)),
		Charts: []Chart{
			{Title: fmt.Sprintf("Top estados (%s)", title), Bars: states},
			{Title: fmt.Sprintf("%s por categoria", title), Bars: categories},
		},
	}, nil
}

// rows are chronological, so each year is a contiguous run
func splitByYear(rows []aggregate.MonthRow) []Series {
	out := []Series{}
	for _, r := range rows {
		if len(out) == 0 || out[len(out)-1].Year != r.Year {
			out = append(out, Series{Year: r.Year})
		}
		last := &out[len(out)-1]
		last.Points = append(last.Points, r)
	}
	return out
}

func sellerTab(records []model.Record, opts Options) Tab {
	rows := aggregate.BySeller(records)
	bars := func(by aggregate.Measure) []Bar {
		top := aggregate.TopSellers(rows, by, opts.TopSellers)
		out := make([]Bar, len(top))
		for i, s := range top {
			out[i] = Bar{Label: s.Seller, Value: s.Measure(by)}
		}
		return out
	}
	return Tab{
		Name: TabSellers,
		Charts: []Chart{
			{Title: fmt.Sprintf("Top-%d vendedores (receita)", opts.TopSellers), Bars: bars(aggregate.Sum)},
			{Title: fmt.Sprintf("Top-%d vendedores (quantidade de vendas)", opts.TopSellers), Bars: bars(aggregate.Count)},
		},
	}
}
