package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/mohammed-shakir/sales-dashboard/internal/core/model"
)

// ParseParams reads the upstream selection (regiao, ano) from the request.
func ParseParams(r *http.Request) (model.Params, error) {
	q := r.URL.Query()
	region, err := model.ParseRegion(q.Get("regiao"))
	if err != nil {
		return model.Params{}, err
	}
	year, err := model.ParseYear(q.Get("ano"))
	if err != nil {
		return model.Params{}, err
	}
	return model.Params{Region: region, Year: year}, nil
}

// parseTopSellers reads top_vendedores; absent means def.
func parseTopSellers(r *http.Request, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("top_vendedores"))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid top_vendedores %q", raw)
	}
	return n, nil
}

// columns come as repeated coluna keys or one comma separated value
func columnNames(r *http.Request) []string {
	var out []string
	for _, v := range r.URL.Query()["coluna"] {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}

type apiError struct {
	status int
	err    error
}

func (e *apiError) Error() string { return e.err.Error() }
func (e *apiError) Unwrap() error { return e.err }

func badRequest(err error) error  { return &apiError{status: http.StatusBadRequest, err: err} }
func badGateway(err error) error  { return &apiError{status: http.StatusBadGateway, err: err} }
func internalErr(err error) error { return &apiError{status: http.StatusInternalServerError, err: err} }

func statusOf(err error) int {
	var ae *apiError
	if errors.As(err, &ae) {
		return ae.status
	}
	if isUserError(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func isUserError(err error) bool {
	for _, target := range []error{
		model.ErrInvalidRegion, model.ErrInvalidYear, model.ErrInvalidRange,
		model.ErrUnknownField, model.ErrFieldKind,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(ctx context.Context, logger *slog.Logger, w http.ResponseWriter, err error) {
	status := statusOf(err)
	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logger.Log(ctx, level, "request failed", "status", status, "err", err)
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func attachment(filename string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return "attachment"
}
