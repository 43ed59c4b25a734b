package session

import (
	"context"
	"errors"
	"testing"

	"github.com/ijalalfrz/award-search-crawler/internal/pkg/pagedriver"
	"github.com/ijalalfrz/award-search-crawler/internal/pkg/pagedriver/pagedrivertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProxySource struct {
	proxy *pagedriver.ProxyConfig
	err   error
}

func (s stubProxySource) Acquire(context.Context) (*pagedriver.ProxyConfig, error) {
	return s.proxy, s.err
}

type harness struct {
	manager  *Manager
	page     *pagedrivertest.Page
	launched []pagedriver.LaunchOptions
	removed  []string
}

func newHarness(launchErr error, proxies ProxySource, cfg Config) *harness {
	h := &harness{page: pagedrivertest.New()}

	launcher := pagedriver.LauncherFunc(func(_ context.Context, opts pagedriver.LaunchOptions) (pagedriver.Driver, error) {
		h.launched = append(h.launched, opts)
		if launchErr != nil {
			return nil, launchErr
		}
		return h.page, nil
	})

	h.manager = NewManager(launcher, proxies, cfg)
	h.manager.makeProfileDir = func() (string, error) { return "/tmp/profile-test", nil }
	h.manager.removeAll = func(dir string) error {
		h.removed = append(h.removed, dir)
		return nil
	}

	return h
}

func TestManager_Open_Closure(t *testing.T) {
	proxy := &pagedriver.ProxyConfig{Server: "http://10.0.0.1:8080", Username: "u", Password: "p"}

	openRequest := func(
		launchErr error,
		navigateErr error,
		proxies ProxySource,
		cfg Config,
		wantErr bool,
		check func(t *testing.T, h *harness, handle *Handle),
	) func(t *testing.T) {
		return func(t *testing.T) {
			h := newHarness(launchErr, proxies, cfg)
			h.page.NavigateErr = navigateErr

			handle, err := h.manager.Open(context.Background(), "https://example.test/home")
			if wantErr {
				assert.ErrorIs(t, err, ErrOpen)
				assert.Nil(t, handle)
			} else {
				require.NoError(t, err)
			}
			check(t, h, handle)
		}
	}

	t.Run("opens_and_navigates", openRequest(nil, nil, nil, Config{Headless: true}, false,
		func(t *testing.T, h *harness, handle *Handle) {
			assert.Equal(t, []string{"https://example.test/home"}, h.page.Navigated())
			require.Len(t, h.launched, 1)
			assert.True(t, h.launched[0].ConcealAutomation)
			assert.True(t, h.launched[0].Headless)
			assert.NotEmpty(t, h.launched[0].UserAgent)
			assert.Equal(t, "/tmp/profile-test", h.launched[0].ProfileDir)
			assert.NotEmpty(t, handle.ID)
		}))

	t.Run("configured_user_agent_wins", openRequest(nil, nil, nil, Config{UserAgent: "ua/1.0"}, false,
		func(t *testing.T, h *harness, _ *Handle) {
			assert.Equal(t, "ua/1.0", h.launched[0].UserAgent)
		}))

	t.Run("binds_proxy", openRequest(nil, nil, stubProxySource{proxy: proxy}, Config{UseProxy: true}, false,
		func(t *testing.T, h *harness, handle *Handle) {
			assert.Equal(t, proxy, h.launched[0].Proxy)
			assert.Equal(t, proxy, handle.Proxy)
		}))

	t.Run("proxy_disabled", openRequest(nil, nil, stubProxySource{proxy: proxy}, Config{}, false,
		func(t *testing.T, h *harness, _ *Handle) {
			assert.Nil(t, h.launched[0].Proxy)
		}))

	t.Run("proxy_failure_is_not_fatal", openRequest(nil, nil, stubProxySource{err: errors.New("empty pool")}, Config{UseProxy: true}, false,
		func(t *testing.T, h *harness, _ *Handle) {
			assert.Nil(t, h.launched[0].Proxy)
		}))

	t.Run("launch_failure_cleans_profile", openRequest(errors.New("no chrome"), nil, nil, Config{}, true,
		func(t *testing.T, h *harness, _ *Handle) {
			assert.Equal(t, []string{"/tmp/profile-test"}, h.removed)
			assert.Equal(t, 0, h.page.CloseCalls())
		}))

	t.Run("navigation_failure_releases_driver", openRequest(nil, errors.New("dns"), nil, Config{}, true,
		func(t *testing.T, h *harness, _ *Handle) {
			assert.Equal(t, 1, h.page.CloseCalls())
			assert.Equal(t, []string{"/tmp/profile-test"}, h.removed)
		}))
}

func TestHandle_Close_Idempotent(t *testing.T) {
	h := newHarness(nil, nil, Config{})

	handle, err := h.manager.Open(context.Background(), "https://example.test/home")
	require.NoError(t, err)

	assert.NoError(t, handle.Close())
	assert.NoError(t, handle.Close())
	assert.Equal(t, 1, h.page.CloseCalls())
	assert.Len(t, h.removed, 1)
}

func TestHandle_Close_NilAndZero(t *testing.T) {
	var nilHandle *Handle
	assert.NoError(t, nilHandle.Close())

	zero := &Handle{}
	assert.NoError(t, zero.Close())
}
