package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"ADDR", "DATA_URL", "EMPTY_SELECTION", "H3_RES", "EXPORT_CACHE_DRIVER", "EXPORT_CACHE_TTL", "REDIS_POOL_SIZE", "REDIS_DIAL_TIMEOUT"} {
		t.Setenv(k, "")
	}
	cfg := FromEnv()
	if cfg.Addr != ":8090" {
		t.Fatalf("addr=%q", cfg.Addr)
	}
	if cfg.DataURL != "https://labdados.com/produtos" {
		t.Fatalf("data url=%q", cfg.DataURL)
	}
	if cfg.EmptySelection != "select_all" {
		t.Fatalf("empty selection=%q", cfg.EmptySelection)
	}
	if cfg.ExportCache.Driver != "memory" || cfg.ExportCache.TTL != 0 {
		t.Fatalf("export cache=%+v", cfg.ExportCache)
	}
	if cfg.ExportCache.PoolSize != 16 || cfg.ExportCache.DialTimeout != 2*time.Second {
		t.Fatalf("redis pool=%d dial=%v", cfg.ExportCache.PoolSize, cfg.ExportCache.DialTimeout)
	}
	if cfg.H3Res != 5 {
		t.Fatalf("h3 res=%d", cfg.H3Res)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("EMPTY_SELECTION", "select_none")
	t.Setenv("LOG_CONSOLE", "yes")
	t.Setenv("UPSTREAM_TIMEOUT", "5s")
	t.Setenv("EXPORT_CACHE_DRIVER", "REDIS")
	t.Setenv("H3_RES", "42")
	t.Setenv("TOP_SELLERS", "notanumber")
	t.Setenv("REDIS_POOL_SIZE", "4")
	t.Setenv("REDIS_DIAL_TIMEOUT", "750ms")

	cfg := FromEnv()
	if cfg.EmptySelection != "select_none" || !cfg.LogConsole || cfg.UpstreamTimeout != 5*time.Second {
		t.Fatalf("cfg=%+v", cfg)
	}
	if cfg.ExportCache.Driver != "redis" {
		t.Fatalf("driver=%q", cfg.ExportCache.Driver)
	}
	if cfg.ExportCache.PoolSize != 4 || cfg.ExportCache.DialTimeout != 750*time.Millisecond {
		t.Fatalf("redis pool=%d dial=%v", cfg.ExportCache.PoolSize, cfg.ExportCache.DialTimeout)
	}
	if cfg.H3Res != 5 {
		t.Fatalf("out-of-range H3_RES should fall back, got %d", cfg.H3Res)
	}
	if cfg.TopSellers != 5 {
		t.Fatalf("bad int should fall back, got %d", cfg.TopSellers)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("MONTH_LOCALE=en\nCURRENCY_PREFIX=US$\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	// already-set variables win over the file
	t.Setenv("CURRENCY_PREFIX", "R$")
	t.Setenv("MONTH_LOCALE", "")
	_ = os.Unsetenv("MONTH_LOCALE")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MonthLocale != "en" {
		t.Fatalf("month locale=%q want en", cfg.MonthLocale)
	}
	if cfg.CurrencyPrefix != "R$" {
		t.Fatalf("currency prefix=%q want R$", cfg.CurrencyPrefix)
	}
}

func TestLoad_MissingFileIsFine(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("Load: %v", err)
	}
}
