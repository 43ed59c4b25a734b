// Package proxy keeps a pool of private proxies pulled from a provider API and
// hands one out per browser session.
package proxy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"github.com/ijalalfrz/award-search-crawler/internal/pkg/pagedriver"
)

const defaultTimeout = 10 * time.Second

var ErrNoProxy = errors.New("no proxy available")

type Proxy struct {
	Host     string
	Port     int
	User     string
	Password string
}

func (p Proxy) Addr() string {
	return net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
}

// URL renders the proxy with its credentials embedded.
func (p Proxy) URL() string {
	u := url.URL{Scheme: "http", Host: p.Addr()}
	if p.User != "" {
		u.User = url.UserPassword(p.User, p.Password)
	}
	return u.String()
}

func (p Proxy) String() string {
	return p.Addr()
}

func (p Proxy) DriverConfig() *pagedriver.ProxyConfig {
	return &pagedriver.ProxyConfig{
		Server:   "http://" + p.Addr(),
		Username: p.User,
		Password: p.Password,
	}
}

type Config struct {
	APIURL   string
	APIKey   string
	Packages []string
	CheckURL string
	Timeout  time.Duration
}

type Service struct {
	client   *resty.Client
	packages []string
	checkURL string
	timeout  time.Duration

	mu      sync.Mutex
	proxies []Proxy
}

func NewService(cfg Config) *Service {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.APIURL, "/")).
		SetBasicAuth("api", cfg.APIKey).
		SetTimeout(timeout)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	return &Service{
		client:   client,
		packages: cfg.Packages,
		checkURL: cfg.CheckURL,
		timeout:  timeout,
	}
}

// List pulls every package's proxy list. A failing package is logged and
// skipped so one bad subscription does not empty the pool.
func (s *Service) List(ctx context.Context) []Proxy {
	var proxies []Proxy

	for _, pkg := range s.packages {
		resp, err := s.client.R().
			SetContext(ctx).
			SetPathParam("package", pkg).
			Get("/package_subscriptions/{package}/ips")
		if err != nil {
			slog.WarnContext(ctx, "fetch proxy list",
				slog.String("package", pkg),
				slog.String("error", err.Error()))
			continue
		}

		if resp.StatusCode() != http.StatusOK {
			slog.WarnContext(ctx, "fetch proxy list",
				slog.String("package", pkg),
				slog.Int("status", resp.StatusCode()))
			continue
		}

		parsed, err := ParseList(resp.String())
		if err != nil {
			slog.WarnContext(ctx, "parse proxy list",
				slog.String("package", pkg),
				slog.String("error", err.Error()))
		}
		proxies = append(proxies, parsed...)
	}

	slog.InfoContext(ctx, "proxy list refreshed", slog.Int("count", len(proxies)))

	return proxies
}

// Choose picks a random proxy that passes the health check, refreshing the
// pool when it is empty. Proxies failing the check are dropped from the pool.
func (s *Service) Choose(ctx context.Context) (Proxy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.proxies) == 0 {
		s.proxies = s.List(ctx)
	}

	for len(s.proxies) > 0 {
		i := rand.IntN(len(s.proxies))
		p := s.proxies[i]

		if s.Check(ctx, p) {
			slog.DebugContext(ctx, "proxy selected",
				slog.String("proxy", p.String()),
				slog.Int("pool", len(s.proxies)))
			return p, nil
		}

		if err := ctx.Err(); err != nil {
			return Proxy{}, err
		}

		s.proxies = slices.Delete(s.proxies, i, i+1)
		slog.WarnContext(ctx, "proxy dropped",
			slog.String("proxy", p.String()),
			slog.Int("pool", len(s.proxies)))
	}

	return Proxy{}, ErrNoProxy
}

func (s *Service) Acquire(ctx context.Context) (*pagedriver.ProxyConfig, error) {
	p, err := s.Choose(ctx)
	if err != nil {
		return nil, err
	}
	return p.DriverConfig(), nil
}

// Check reports whether a request routed through p reaches the check URL.
func (s *Service) Check(ctx context.Context, p Proxy) bool {
	if s.checkURL == "" {
		return true
	}

	client := resty.New().
		SetProxy(p.URL()).
		SetTimeout(s.timeout)

	resp, err := client.R().SetContext(ctx).Get(s.checkURL)
	if err != nil {
		slog.WarnContext(ctx, "proxy check failed",
			slog.String("proxy", p.String()),
			slog.String("error", err.Error()))
		return false
	}

	if resp.IsError() {
		slog.WarnContext(ctx, "proxy check failed",
			slog.String("proxy", p.String()),
			slog.Int("status", resp.StatusCode()))
		return false
	}
	return true
}

// ParseList reads host:port:user:password lines. Blank lines are ignored;
// malformed lines are reported but do not drop the valid ones.
func ParseList(body string) ([]Proxy, error) {
	var (
		proxies []Proxy
		errs    []error
	)

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := strings.Split(line, ":")
		if len(parts) != 4 {
			errs = append(errs, fmt.Errorf("malformed proxy line %q", line))
			continue
		}

		port, err := strconv.Atoi(parts[1])
		if err != nil || port <= 0 || port > 65535 {
			errs = append(errs, fmt.Errorf("invalid proxy port %q", parts[1]))
			continue
		}

		proxies = append(proxies, Proxy{
			Host:     parts[0],
			Port:     port,
			User:     parts[2],
			Password: parts[3],
		})
	}

	return proxies, errors.Join(errs...)
}
