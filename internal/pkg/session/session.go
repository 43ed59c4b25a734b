package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	browser "github.com/EDDYCJY/fake-useragent"
	"github.com/google/uuid"
	"github.com/ijalalfrz/award-search-crawler/internal/pkg/pagedriver"
)

var ErrOpen = errors.New("session open failed")

// ProxySource hands out an upstream proxy for one session.
type ProxySource interface {
	Acquire(ctx context.Context) (*pagedriver.ProxyConfig, error)
}

type Config struct {
	Headless  bool
	UserAgent string
	ExecPath  string
	UseProxy  bool
}

type Manager struct {
	launcher pagedriver.Launcher
	proxies  ProxySource
	cfg      Config

	// overridable in tests
	makeProfileDir func() (string, error)
	removeAll      func(string) error
}

func NewManager(launcher pagedriver.Launcher, proxies ProxySource, cfg Config) *Manager {
	return &Manager{
		launcher: launcher,
		proxies:  proxies,
		cfg:      cfg,
		makeProfileDir: func() (string, error) {
			return os.MkdirTemp("", "award-crawler-")
		},
		removeAll: os.RemoveAll,
	}
}

// Handle is one live browser session. The zero value and nil are valid and
// closing them does nothing.
type Handle struct {
	ID     string
	Driver pagedriver.Driver
	Proxy  *pagedriver.ProxyConfig

	profileDir string
	removeAll  func(string) error
	once       sync.Once
	closeErr   error
}

// Open launches a browser, binds a proxy when configured and loads homeURL.
// Anything launched is released again when Open fails.
func (m *Manager) Open(ctx context.Context, homeURL string) (*Handle, error) {
	h := &Handle{
		ID:        uuid.New().String(),
		removeAll: m.removeAll,
	}

	opts := pagedriver.LaunchOptions{
		Headless:          m.cfg.Headless,
		UserAgent:         m.cfg.UserAgent,
		ExecPath:          m.cfg.ExecPath,
		ConcealAutomation: true,
	}

	if opts.UserAgent == "" {
		opts.UserAgent = browser.Chrome()
	}

	if m.cfg.UseProxy && m.proxies != nil {
		p, err := m.proxies.Acquire(ctx)
		if err != nil {
			slog.WarnContext(ctx, "no proxy available, continuing without one",
				slog.String("session_id", h.ID),
				slog.String("error", err.Error()))
		} else {
			opts.Proxy = p
			h.Proxy = p
		}
	}

	dir, err := m.makeProfileDir()
	if err != nil {
		return nil, fmt.Errorf("%w: create profile dir: %w", ErrOpen, err)
	}
	h.profileDir = dir
	opts.ProfileDir = dir

	slog.InfoContext(ctx, "opening session",
		slog.String("session_id", h.ID),
		slog.String("url", homeURL),
		slog.Bool("proxy", opts.Proxy != nil))

	driver, err := m.launcher.Launch(ctx, opts)
	if err != nil {
		_ = h.Close()
		return nil, fmt.Errorf("%w: launch driver: %w", ErrOpen, err)
	}
	h.Driver = driver

	if err := driver.Navigate(ctx, homeURL); err != nil {
		_ = h.Close()
		return nil, fmt.Errorf("%w: navigate to %s: %w", ErrOpen, homeURL, err)
	}

	return h, nil
}

// Close releases the driver and the temporary profile. Only the first call does
// any work; later calls return the first result.
func (h *Handle) Close() error {
	if h == nil {
		return nil
	}

	h.once.Do(func() {
		var errs []error

		if h.Driver != nil {
			if err := h.Driver.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close driver: %w", err))
			}
		}

		if h.profileDir != "" && h.removeAll != nil {
			if err := h.removeAll(h.profileDir); err != nil {
				errs = append(errs, fmt.Errorf("remove profile dir: %w", err))
			}
		}

		h.closeErr = errors.Join(errs...)
		slog.Debug("session closed", slog.String("session_id", h.ID))
	})

	return h.closeErr
}
