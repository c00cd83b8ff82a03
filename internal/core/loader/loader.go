// Package loader fetches the sales dataset from the upstream endpoint.
package loader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/mohammed-shakir/sales-dashboard/internal/core/model"
	"github.com/mohammed-shakir/sales-dashboard/internal/core/observability"
)

const DefaultURL = "https://labdados.com/produtos"

type Interface interface {
	Fetch(ctx context.Context, p model.Params) ([]model.Record, error)
}

type Loader struct {
	logger  *slog.Logger
	client  *http.Client
	dataURL *url.URL

	mu        sync.Mutex
	lastErr   error
	lastFetch time.Time
}

var _ Interface = (*Loader)(nil)

func New(logger *slog.Logger, client *http.Client, dataURL string) (*Loader, error) {
	u, err := url.Parse(dataURL)
	if err != nil {
		return nil, fmt.Errorf("parse data url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("data url %q must be absolute", dataURL)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Loader{
		logger:  logger,
		client:  client,
		dataURL: u,
	}, nil
}

// Fetch issues one GET for the given region/year and decodes the record set.
// Failures are returned as-is; nothing is retried.
func (l *Loader) Fetch(ctx context.Context, p model.Params) ([]model.Record, error) {
	recs, err := l.fetch(ctx, p)
	l.mu.Lock()
	l.lastErr = err
	if err == nil {
		l.lastFetch = time.Now()
	}
	l.mu.Unlock()
	return recs, err
}

func (l *Loader) fetch(ctx context.Context, p model.Params) ([]model.Record, error) {
	u := *l.dataURL
	q := u.Query()
	for k, v := range p.Query() {
		q[k] = v
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	dur := time.Since(start)
	observability.ObserveUpstreamLatency("sales", dur.Seconds())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
		return nil, fmt.Errorf("upstream status %d: %s", resp.StatusCode, string(bytes.TrimSpace(b)))
	}

	recs, err := Decode(resp.Body)
	if err != nil {
		return nil, err
	}

	observability.SetUpstreamRecords(len(recs))
	l.logger.DebugContext(ctx, "sales fetched",
		"params", p.String(),
		"records", len(recs),
		"duration", dur.String())
	return recs, nil
}

// Readiness reports false while the most recent fetch failed.
func (l *Loader) Readiness() (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr == nil, l.lastFetch
}
