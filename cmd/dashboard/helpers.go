package main

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mohammed-shakir/sales-dashboard/internal/aggregate"
	"github.com/mohammed-shakir/sales-dashboard/internal/core/config"
	"github.com/mohammed-shakir/sales-dashboard/internal/core/httpclient"
	"github.com/mohammed-shakir/sales-dashboard/internal/core/loader"
	"github.com/mohammed-shakir/sales-dashboard/internal/core/model"
	"github.com/mohammed-shakir/sales-dashboard/internal/dashboard"
	"github.com/mohammed-shakir/sales-dashboard/internal/filter"
	h3mapper "github.com/mohammed-shakir/sales-dashboard/internal/mapper/h3"
)

func newLoader(rt *app) (*loader.Loader, error) {
	return loader.New(rt.log, httpclient.NewOutbound(rt.cfg.UpstreamTimeout), rt.cfg.DataURL)
}

func dashboardOptions(cfg config.Config) (dashboard.Options, filter.EmptySelection, error) {
	onEmpty, err := filter.ParseEmptySelection(cfg.EmptySelection)
	if err != nil {
		return dashboard.Options{}, 0, err
	}
	months, err := aggregate.MonthNamesFor(cfg.MonthLocale)
	if err != nil {
		return dashboard.Options{}, 0, err
	}
	return dashboard.Options{
		TopLocations:   cfg.TopLocations,
		TopSellers:     cfg.TopSellers,
		Months:         months,
		CurrencyPrefix: cfg.CurrencyPrefix,
		Mapper:         h3mapper.New(),
		H3Res:          cfg.H3Res,
	}, onEmpty, nil
}

// selection mirrors the query parameters accepted by the HTTP API
type selection struct {
	region  string
	year    string
	filters []string
}

func (s *selection) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.region, "regiao", "", "region: Brasil, Nordeste, Sudeste, Sul, Norte, Centro-Oeste")
	cmd.Flags().StringVar(&s.year, "ano", "", "year (2022-2023); empty for all years")
	cmd.Flags().StringArrayVar(&s.filters, "filter", nil, "filter as key=value, e.g. vendedor=Ana or preco_min=100 (repeatable)")
}

func (s *selection) params() (model.Params, error) {
	region, err := model.ParseRegion(s.region)
	if err != nil {
		return model.Params{}, err
	}
	year, err := model.ParseYear(s.year)
	if err != nil {
		return model.Params{}, err
	}
	return model.Params{Region: region, Year: year}, nil
}

func (s *selection) values() (url.Values, error) {
	v := url.Values{}
	for _, f := range s.filters {
		key, val, ok := strings.Cut(f, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --filter %q (want key=value)", f)
		}
		v.Add(key, strings.TrimSpace(val))
	}
	return v, nil
}

// fetch loads the upstream slice and applies the filters.
func (s *selection) fetch(ctx context.Context, ld loader.Interface, onEmpty filter.EmptySelection) (model.Params, []model.Record, error) {
	p, err := s.params()
	if err != nil {
		return model.Params{}, nil, err
	}
	v, err := s.values()
	if err != nil {
		return model.Params{}, nil, err
	}
	all, err := ld.Fetch(ctx, p)
	if err != nil {
		return model.Params{}, nil, fmt.Errorf("fetch %s: %w", p, err)
	}
	set, err := filter.FromValues(v, all, onEmpty)
	if err != nil {
		return model.Params{}, nil, err
	}
	recs, err := filter.Apply(all, set)
	if err != nil {
		return model.Params{}, nil, err
	}
	return p, recs, nil
}
