package router

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mohammed-shakir/sales-dashboard/internal/core/model"
	"github.com/mohammed-shakir/sales-dashboard/internal/export"
	"github.com/mohammed-shakir/sales-dashboard/internal/filter"
)

type fakeLoader struct {
	recs  []model.Record
	err   error
	lastP model.Params
	calls int
}

func (f *fakeLoader) Fetch(_ context.Context, p model.Params) ([]model.Record, error) {
	f.lastP = p
	f.calls++
	return f.recs, f.err
}

func rec(seller, loc string, price string, when time.Time) model.Record {
	return model.Record{
		Product: "Fone", Category: "eletronicos", Price: decimal.RequireFromString(price),
		Freight: decimal.Zero, PurchaseDate: when, Seller: seller, Location: loc,
		Rating: 5, PaymentType: "boleto", Installments: 1, Lat: -23.5, Lon: -46.6,
	}
}

func fixture() []model.Record {
	return []model.Record{
		rec("Ana", "SP", "100", time.Date(2022, 1, 2, 0, 0, 0, 0, time.UTC)),
		rec("Bruno", "RJ", "200", time.Date(2022, 2, 3, 0, 0, 0, 0, time.UTC)),
		rec("Ana", "SP", "300", time.Date(2022, 3, 4, 0, 0, 0, 0, time.UTC)),
	}
}

func newAPI(ld *fakeLoader, onEmpty filter.EmptySelection) *API {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAPI(logger, ld, export.NewMemo(export.NewMemoryStore(8), logger, 0), Options{EmptySelection: onEmpty})
}

func get(h http.HandlerFunc, path string, q url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.URL.RawQuery = q.Encode()
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func TestParseParams(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard?regiao=sudeste&ano=2023", nil)
	p, err := ParseParams(req)
	if err != nil {
		t.Fatalf("ParseParams: %v", err)
	}
	if p.Region != "Sudeste" || p.Year != 2023 {
		t.Fatalf("params=%+v", p)
	}

	for _, raw := range []string{"regiao=Europa", "ano=2019", "ano=abc"} {
		req := httptest.NewRequest(http.MethodGet, "/api/dashboard?"+raw, nil)
		if _, err := ParseParams(req); err == nil {
			t.Fatalf("%s: expected error", raw)
		}
	}
}

func TestDashboard_OK(t *testing.T) {
	ld := &fakeLoader{recs: fixture()}
	api := newAPI(ld, filter.SelectAll)

	rr := get(api.Dashboard, "/api/dashboard", url.Values{"regiao": {"Sul"}, "vendedor": {"Ana"}})
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	if ld.lastP.Region != "Sul" {
		t.Fatalf("loader params=%+v", ld.lastP)
	}
	var body struct {
		Params  string `json:"params"`
		Records int    `json:"records"`
		Empty   bool   `json:"empty"`
		Metrics []struct {
			Formatted string `json:"formatted"`
		} `json:"metrics"`
		Tabs []struct {
			Name string `json:"name"`
		} `json:"tabs"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Params != "Sul/all" || body.Records != 2 || body.Empty {
		t.Fatalf("body=%+v", body)
	}
	if body.Metrics[0].Formatted != "400.00 " {
		t.Fatalf("revenue=%q", body.Metrics[0].Formatted)
	}
	if len(body.Tabs) != 3 {
		t.Fatalf("tabs=%d want 3", len(body.Tabs))
	}
}

func TestDashboard_NumbersAreJSONNumbers(t *testing.T) {
	api := newAPI(&fakeLoader{recs: fixture()}, filter.SelectAll)
	rr := get(api.Dashboard, "/api/dashboard", url.Values{"vendedor": {"Ana"}})
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"value":400,`) {
		t.Fatalf("revenue should be a bare number: %s", rr.Body.String())
	}
	if strings.Contains(rr.Body.String(), `"value":"`) {
		t.Fatalf("quoted value in %s", rr.Body.String())
	}
}

func TestDashboard_HalfOpenRangeBeyondObserved(t *testing.T) {
	api := newAPI(&fakeLoader{recs: fixture()}, filter.SelectAll)
	for _, q := range []url.Values{
		{"preco_min": {"5000"}},
		{"preco_max": {"10"}},
		{"data_min": {"2030-01-01"}},
		{"data_max": {"01/01/2020"}},
	} {
		rr := get(api.Dashboard, "/api/dashboard", q)
		if rr.Code != http.StatusOK {
			t.Fatalf("%v: status=%d body=%s", q, rr.Code, rr.Body.String())
		}
		if !strings.Contains(rr.Body.String(), `"records":0,"empty":true`) {
			t.Fatalf("%v: body=%s", q, rr.Body.String())
		}

		rr = get(api.Records, "/api/records", q)
		if rr.Code != http.StatusOK {
			t.Fatalf("%v: records status=%d", q, rr.Code)
		}
		var body recordsResponse
		if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.RowCount != 0 || body.Total != 3 {
			t.Fatalf("%v: counts=%+v", q, body)
		}
	}
}

func TestDashboard_Errors(t *testing.T) {
	api := newAPI(&fakeLoader{recs: fixture()}, filter.SelectAll)
	cases := []url.Values{
		{"ano": {"1999"}},
		{"top_vendedores": {"many"}},
		{"preco_min": {"x"}},
	}
	for _, q := range cases {
		if rr := get(api.Dashboard, "/api/dashboard", q); rr.Code != http.StatusBadRequest {
			t.Fatalf("%v: status=%d want 400", q, rr.Code)
		}
	}

	failing := newAPI(&fakeLoader{err: errors.New("connection refused")}, filter.SelectAll)
	rr := get(failing.Dashboard, "/api/dashboard", nil)
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status=%d want 502", rr.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil || !strings.Contains(body["error"], "connection refused") {
		t.Fatalf("body=%s err=%v", rr.Body.String(), err)
	}
}

func TestDashboard_EmptySelectionNone(t *testing.T) {
	api := newAPI(&fakeLoader{recs: fixture()}, filter.SelectNone)
	rr := get(api.Dashboard, "/api/dashboard", url.Values{"vendedor": {""}})
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"empty":true`) {
		t.Fatalf("body=%s", rr.Body.String())
	}
}

func TestFilters(t *testing.T) {
	api := newAPI(&fakeLoader{recs: fixture()}, filter.SelectAll)
	rr := get(api.Filters, "/api/filters", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	var body struct {
		Regions []string             `json:"regions"`
		Fields  []filter.FieldDomain `json:"fields"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Regions) != len(model.Regions) {
		t.Fatalf("regions=%v", body.Regions)
	}
	if len(body.Fields) != len(model.FilterableFields()) {
		t.Fatalf("fields=%d", len(body.Fields))
	}
}

func TestRecords_SelectedColumns(t *testing.T) {
	api := newAPI(&fakeLoader{recs: fixture()}, filter.SelectAll)
	q := url.Values{"coluna": {"vendedor,preco"}, "preco_min": {"150"}}
	rr := get(api.Records, "/api/records", q)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	var body recordsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.RowCount != 2 || body.ColumnCount != 2 || body.Total != 3 {
		t.Fatalf("counts=%+v", body)
	}
	if body.Columns[0] != "Vendedor" || body.Columns[1] != "Preço" {
		t.Fatalf("columns=%v", body.Columns)
	}
	if body.Rows[0][0] != "Bruno" || body.Rows[0][1] != "200" {
		t.Fatalf("row0=%v", body.Rows[0])
	}

	if rr := get(api.Records, "/api/records", url.Values{"coluna": {"nope"}}); rr.Code != http.StatusBadRequest {
		t.Fatalf("unknown column status=%d", rr.Code)
	}
}

func TestExport_AttachmentAndMemo(t *testing.T) {
	api := newAPI(&fakeLoader{recs: fixture()}, filter.SelectAll)
	q := url.Values{"coluna": {"vendedor"}, "arquivo": {"vendas_sul"}}

	first := get(api.Export, "/api/export", q)
	if first.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", first.Code, first.Body.String())
	}
	if ct := first.Header().Get("Content-Type"); ct != "text/csv; charset=utf-8" {
		t.Fatalf("content-type=%q", ct)
	}
	if cd := first.Header().Get("Content-Disposition"); cd != "attachment; filename=vendas_sul.csv" {
		t.Fatalf("content-disposition=%q", cd)
	}
	if got := first.Header().Get("X-Export-Cache"); got != "miss" {
		t.Fatalf("first cache=%q", got)
	}
	if got := first.Body.String(); got != "Vendedor\nAna\nBruno\nAna\n" {
		t.Fatalf("csv=%q", got)
	}

	second := get(api.Export, "/api/export", q)
	if got := second.Header().Get("X-Export-Cache"); got != "hit" {
		t.Fatalf("second cache=%q", got)
	}
	if second.Body.String() != first.Body.String() {
		t.Fatal("cached export differs")
	}
}

func TestExport_DefaultName(t *testing.T) {
	api := newAPI(&fakeLoader{recs: fixture()}, filter.SelectAll)
	rr := get(api.Export, "/api/export", nil)
	if cd := rr.Header().Get("Content-Disposition"); cd != "attachment; filename=dados.csv" {
		t.Fatalf("content-disposition=%q", cd)
	}
}
