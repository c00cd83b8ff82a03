package router

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mohammed-shakir/sales-dashboard/internal/core/loader"
	"github.com/mohammed-shakir/sales-dashboard/internal/core/model"
	"github.com/mohammed-shakir/sales-dashboard/internal/dashboard"
	"github.com/mohammed-shakir/sales-dashboard/internal/export"
	"github.com/mohammed-shakir/sales-dashboard/internal/filter"
	mylog "github.com/mohammed-shakir/sales-dashboard/internal/logger"
)

type Options struct {
	EmptySelection filter.EmptySelection
	Dashboard      dashboard.Options
	ExportName     string
}

// API serves the dashboard, raw-data and export endpoints. Every request
// fetches the upstream slice it names and recomputes from scratch.
type API struct {
	logger *slog.Logger
	loader loader.Interface
	memo   *export.Memo
	opts   Options
}

func NewAPI(logger *slog.Logger, ld loader.Interface, memo *export.Memo, opts Options) *API {
	if memo == nil {
		memo = export.NewMemo(nil, logger, 0)
	}
	if opts.ExportName == "" {
		opts.ExportName = export.DefaultName
	}
	return &API{logger: logger, loader: ld, memo: memo, opts: opts}
}

type selection struct {
	params  model.Params
	all     []model.Record
	records []model.Record
}

func (a *API) selectRecords(r *http.Request) (*http.Request, selection, error) {
	p, err := ParseParams(r)
	if err != nil {
		return r, selection{}, badRequest(err)
	}
	r = r.WithContext(mylog.WithRegion(r.Context(), p.String()))

	all, err := a.loader.Fetch(r.Context(), p)
	if err != nil {
		return r, selection{}, badGateway(fmt.Errorf("fetch %s: %w", p, err))
	}
	set, err := filter.FromValues(r.URL.Query(), all, a.opts.EmptySelection)
	if err != nil {
		return r, selection{}, badRequest(err)
	}
	recs, err := filter.Apply(all, set)
	if err != nil {
		return r, selection{}, internalErr(err)
	}
	a.logger.DebugContext(r.Context(), "records selected", "predicates", set.Len(), "records", len(recs), "total", len(all))
	return r, selection{params: p, all: all, records: recs}, nil
}

func (a *API) Dashboard(w http.ResponseWriter, r *http.Request) {
	top, err := parseTopSellers(r, a.opts.Dashboard.TopSellers)
	if err != nil {
		writeError(r.Context(), a.logger, w, badRequest(err))
		return
	}
	r, sel, err := a.selectRecords(r)
	if err != nil {
		writeError(r.Context(), a.logger, w, err)
		return
	}

	opts := a.opts.Dashboard
	opts.TopSellers = top
	view, err := dashboard.Build(sel.records, opts)
	if err != nil {
		writeError(r.Context(), a.logger, w, internalErr(err))
		return
	}
	view.Params = sel.params.String()
	writeJSON(w, http.StatusOK, view)
}

func (a *API) Filters(w http.ResponseWriter, r *http.Request) {
	p, err := ParseParams(r)
	if err != nil {
		writeError(r.Context(), a.logger, w, badRequest(err))
		return
	}
	ctx := mylog.WithRegion(r.Context(), p.String())
	all, err := a.loader.Fetch(ctx, p)
	if err != nil {
		writeError(ctx, a.logger, w, badGateway(fmt.Errorf("fetch %s: %w", p, err)))
		return
	}
	doms, err := filter.Domain(all)
	if err != nil {
		writeError(ctx, a.logger, w, internalErr(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"params":          p.String(),
		"regions":         model.Regions,
		"years":           []int{model.MinYear, model.MaxYear},
		"empty_selection": a.opts.EmptySelection.String(),
		"fields":          doms,
	})
}

type recordsResponse struct {
	Params      string     `json:"params"`
	Columns     []string   `json:"columns"`
	Rows        [][]string `json:"rows"`
	RowCount    int        `json:"row_count"`
	ColumnCount int        `json:"column_count"`
	Total       int        `json:"total"`
}

func (a *API) Records(w http.ResponseWriter, r *http.Request) {
	cols, err := export.ParseColumns(columnNames(r))
	if err != nil {
		writeError(r.Context(), a.logger, w, badRequest(err))
		return
	}
	r, sel, err := a.selectRecords(r)
	if err != nil {
		writeError(r.Context(), a.logger, w, err)
		return
	}

	resp := recordsResponse{
		Params:      sel.params.String(),
		Columns:     make([]string, len(cols)),
		Rows:        make([][]string, 0, len(sel.records)),
		RowCount:    len(sel.records),
		ColumnCount: len(cols),
		Total:       len(sel.all),
	}
	for i, c := range cols {
		resp.Columns[i] = c.String()
	}
	for _, rec := range sel.records {
		row := make([]string, len(cols))
		for i, c := range cols {
			if row[i], err = rec.Column(c); err != nil {
				writeError(r.Context(), a.logger, w, internalErr(err))
				return
			}
		}
		resp.Rows = append(resp.Rows, row)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) Export(w http.ResponseWriter, r *http.Request) {
	cols, err := export.ParseColumns(columnNames(r))
	if err != nil {
		writeError(r.Context(), a.logger, w, badRequest(err))
		return
	}
	r, sel, err := a.selectRecords(r)
	if err != nil {
		writeError(r.Context(), a.logger, w, err)
		return
	}

	res, err := a.memo.Encode(r.Context(), sel.records, cols)
	if err != nil {
		writeError(r.Context(), a.logger, w, internalErr(err))
		return
	}
	outcome := "miss"
	if res.Hit {
		outcome = "hit"
	}
	name := export.FileName(r.URL.Query().Get("arquivo"), a.opts.ExportName)

	ctx := mylog.WithExportCache(r.Context(), outcome)
	a.logger.InfoContext(ctx, "csv export", "file", name, "rows", len(sel.records), "bytes", len(res.Data))

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", attachment(name))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Data)))
	w.Header().Set("X-Export-Cache", outcome)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Data)
}
