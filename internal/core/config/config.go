package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type ExportCacheCfg struct {
	Driver    string // memory | redis | none
	Size      int
	TTL       time.Duration
	OpTimeout time.Duration
	RedisAddr string
	// connection pool of the redis driver
	PoolSize    int
	DialTimeout time.Duration
}

type Config struct {
	Addr            string
	LogLevel        string
	LogConsole      bool
	LogSampleN      int
	DataURL         string
	UpstreamTimeout time.Duration
	EmptySelection  string
	MonthLocale     string
	CurrencyPrefix  string
	TopLocations    int
	TopSellers      int
	H3Res           int
	ExportName      string
	ExportCache     ExportCacheCfg
}

// Load reads envFile (when it exists) into the process environment without
// overriding variables that are already set, then builds the config.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	return FromEnv(), nil
}

func FromEnv() Config {
	res := getint("H3_RES", 5)
	if res < 0 || res > 15 {
		res = 5
	}

	return Config{
		Addr:            getenv("ADDR", ":8090"),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		LogConsole:      getbool("LOG_CONSOLE", false),
		LogSampleN:      getint("LOG_SAMPLE_N", 0),
		DataURL:         getenv("DATA_URL", "https://labdados.com/produtos"),
		UpstreamTimeout: getduration("UPSTREAM_TIMEOUT", 30*time.Second),
		EmptySelection:  getenv("EMPTY_SELECTION", "select_all"),
		MonthLocale:     getenv("MONTH_LOCALE", "pt_BR"),
		CurrencyPrefix:  getenv("CURRENCY_PREFIX", "R$"),
		TopLocations:    getint("TOP_LOCATIONS", 5),
		TopSellers:      getint("TOP_SELLERS", 5),
		H3Res:           res,
		ExportName:      getenv("EXPORT_DEFAULT_NAME", "dados"),
		ExportCache: ExportCacheCfg{
			Driver:    strings.ToLower(getenv("EXPORT_CACHE_DRIVER", "memory")),
			Size:      getint("EXPORT_CACHE_SIZE", 64),
			TTL:       getduration("EXPORT_CACHE_TTL", 0),
			OpTimeout: getduration("EXPORT_CACHE_OP_TIMEOUT", 250*time.Millisecond),
			RedisAddr: getenv("REDIS_ADDR", "localhost:6379"),

			PoolSize:    getint("REDIS_POOL_SIZE", 16),
			DialTimeout: getduration("REDIS_DIAL_TIMEOUT", 2*time.Second),
		},
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "t", "true", "y", "yes":
			return true
		case "0", "f", "false", "n", "no":
			return false
		}
	}
	return def
}

func getduration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
