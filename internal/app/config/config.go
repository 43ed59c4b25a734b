package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/ijalalfrz/award-search-crawler/internal/pkg/crawler"
)

type LogLeveler string

func (l LogLeveler) Level() slog.Level {
	var level slog.Level

	_ = level.UnmarshalText([]byte(l))

	return level
}

// Config holds the service and crawler configuration.
type Config struct {
	LogLevel LogLeveler `mapstructure:"LOG_LEVEL"`
	HTTP     HTTP       `mapstructure:",squash"`
	Redis    Redis      `mapstructure:",squash"`
	Crawler  Crawler    `mapstructure:",squash"`
	Browser  Browser    `mapstructure:",squash"`
	Proxy    Proxy      `mapstructure:",squash"`
	Carriers Carriers   `mapstructure:",squash"`
	Search   Search     `mapstructure:",squash"`
}

type HTTP struct {
	Port        int           `mapstructure:"HTTP_PORT"`
	Timeout     time.Duration `mapstructure:"HTTP_TIMEOUT"`
	CORSOrigins string        `mapstructure:"HTTP_CORS_ORIGINS"`
}

// OriginList splits the comma separated HTTP_CORS_ORIGINS value.
func (h HTTP) OriginList() []string {
	return splitList(h.CORSOrigins)
}

type Redis struct {
	Addr     string        `mapstructure:"REDIS_ADDR"`
	Password string        `mapstructure:"REDIS_PASSWORD"`
	DB       int           `mapstructure:"REDIS_DB"`
	Timeout  time.Duration `mapstructure:"REDIS_TIMEOUT"`
}

type Crawler struct {
	MaxAttempts      int           `mapstructure:"CRAWLER_MAX_ATTEMPTS"`
	RetryBackoff     time.Duration `mapstructure:"CRAWLER_RETRY_BACKOFF"`
	MaxMonthAdvances int           `mapstructure:"CRAWLER_MAX_MONTH_ADVANCES"`
	ResultsTimeout   time.Duration `mapstructure:"CRAWLER_RESULTS_TIMEOUT"`
	// WaitTimeout bounds a whole query run, all attempts included.
	WaitTimeout      time.Duration `mapstructure:"CRAWLER_WAIT_TIMEOUT"`
	SkipBrokenRows   bool          `mapstructure:"EXTRACT_SKIP_BROKEN_ROWS"`
}

type Browser struct {
	Headless  bool   `mapstructure:"BROWSER_HEADLESS"`
	UserAgent string `mapstructure:"BROWSER_USER_AGENT"`
	ExecPath  string `mapstructure:"BROWSER_EXEC_PATH"`
}

type Proxy struct {
	Enabled  bool          `mapstructure:"PROXY_ENABLED"`
	APIURL   string        `mapstructure:"PROXY_API_URL"`
	APIKey   string        `mapstructure:"PROXY_API_KEY"`
	Packages string        `mapstructure:"PROXY_PACKAGES"`
	CheckURL string        `mapstructure:"PROXY_CHECK_URL"`
	Timeout  time.Duration `mapstructure:"PROXY_TIMEOUT"`
}

// PackageList splits the comma separated PROXY_PACKAGES value.
func (p Proxy) PackageList() []string {
	return splitList(p.Packages)
}

func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Carriers holds per-carrier settings. Credentials is a JSON list of
// {"airline","username","password"} objects.
type Carriers struct {
	Credentials        []crawler.Credential `mapstructure:"CARRIER_CREDENTIALS"`
	AirCanadaHomePage  string               `mapstructure:"AIR_CANADA_HOME_PAGE_URL"`
	AirCanadaRateLimit int                  `mapstructure:"AIR_CANADA_RATE_LIMIT"`
}

type Search struct {
	CacheExpiration time.Duration `mapstructure:"SEARCH_CACHE_EXPIRATION"`
	LockTimeout     time.Duration `mapstructure:"SEARCH_LOCK_TIMEOUT"`
}
