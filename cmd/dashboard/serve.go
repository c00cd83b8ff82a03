package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mohammed-shakir/sales-dashboard/internal/cache/redisstore"
	"github.com/mohammed-shakir/sales-dashboard/internal/core/config"
	"github.com/mohammed-shakir/sales-dashboard/internal/core/observability"
	"github.com/mohammed-shakir/sales-dashboard/internal/core/router"
	"github.com/mohammed-shakir/sales-dashboard/internal/core/server"
	"github.com/mohammed-shakir/sales-dashboard/internal/export"
)

const redisKeyPrefix = "sales-dashboard:export:"

func serveCmd(rt *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				rt.cfg.Addr = addr
			}
			return serve(cmd.Context(), rt)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address; overrides ADDR")
	return cmd
}

func serve(ctx context.Context, rt *app) error {
	cfg := rt.cfg
	observability.ExposeBuildInfo(Version)
	rt.log.Info("starting dashboard",
		"addr", cfg.Addr,
		"version", Version,
		"data_url", cfg.DataURL,
		"export_cache", cfg.ExportCache.Driver)

	ld, err := newLoader(rt)
	if err != nil {
		return fmt.Errorf("init loader: %w", err)
	}
	opts, onEmpty, err := dashboardOptions(cfg)
	if err != nil {
		return err
	}

	store, closeStore, err := exportStore(ctx, cfg.ExportCache)
	if err != nil {
		return err
	}
	defer closeStore()

	api := router.NewAPI(rt.log, ld, export.NewMemo(store, rt.log, cfg.ExportCache.OpTimeout), router.Options{
		EmptySelection: onEmpty,
		Dashboard:      opts,
		ExportName:     cfg.ExportName,
	})
	return server.Run(ctx, cfg, rt.log, server.NewHandler(rt.log, api, ld))
}

// exportStore picks the memo backend; "none" disables memoization.
func exportStore(ctx context.Context, c config.ExportCacheCfg) (export.Store, func(), error) {
	noop := func() {}
	switch c.Driver {
	case "", "memory":
		return export.NewMemoryStore(c.Size), noop, nil
	case "redis":
		opts := []redisstore.Option{
			redisstore.WithReadTimeout(c.OpTimeout),
			redisstore.WithWriteTimeout(c.OpTimeout),
		}
		if c.PoolSize > 0 {
			opts = append(opts, redisstore.WithPoolSize(c.PoolSize))
		}
		if c.DialTimeout > 0 {
			opts = append(opts, redisstore.WithDialTimeout(c.DialTimeout))
		}
		rc, err := redisstore.New(ctx, c.RedisAddr, redisKeyPrefix, c.TTL, opts...)
		if err != nil {
			return nil, noop, fmt.Errorf("connect export cache: %w", err)
		}
		return rc, func() { _ = rc.Close() }, nil
	case "none":
		return nil, noop, nil
	}
	return nil, noop, fmt.Errorf("unknown EXPORT_CACHE_DRIVER %q (want memory|redis|none)", c.Driver)
}
