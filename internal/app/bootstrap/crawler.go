package bootstrap

import (
	"github.com/ijalalfrz/award-search-crawler/internal/app/config"
	"github.com/ijalalfrz/award-search-crawler/internal/pkg/carrier/aircanada"
	"github.com/ijalalfrz/award-search-crawler/internal/pkg/crawler"
	"github.com/ijalalfrz/award-search-crawler/internal/pkg/extract"
	"github.com/ijalalfrz/award-search-crawler/internal/pkg/pagedriver"
	"github.com/ijalalfrz/award-search-crawler/internal/pkg/pagedriver/chromedriver"
	"github.com/ijalalfrz/award-search-crawler/internal/pkg/proxy"
	"github.com/ijalalfrz/award-search-crawler/internal/pkg/session"
)

// Crawler is the crawl stack shared by the HTTP service and the CLI.
type Crawler struct {
	Registry *crawler.Registry
	Runner   *crawler.Runner
}

// NewCrawler registers every carrier adapter and builds a runner that opens a
// fresh browser session per run.
func NewCrawler(cfg *config.Config) Crawler {
	return newCrawler(cfg, chromedriver.Launcher{})
}

func newCrawler(cfg *config.Config, launcher pagedriver.Launcher) Crawler {
	registry := crawler.NewRegistry(
		aircanada.New(aircanada.Config{
			HomePageURL: cfg.Carriers.AirCanadaHomePage,
			Extract:     ExtractOptions(cfg),
		}),
	)

	var proxies session.ProxySource
	if cfg.Proxy.Enabled {
		proxies = proxy.NewService(proxy.Config{
			APIURL:   cfg.Proxy.APIURL,
			APIKey:   cfg.Proxy.APIKey,
			Packages: cfg.Proxy.PackageList(),
			CheckURL: cfg.Proxy.CheckURL,
			Timeout:  cfg.Proxy.Timeout,
		})
	}

	sessions := session.NewManager(launcher, proxies, session.Config{
		Headless:  cfg.Browser.Headless,
		UserAgent: cfg.Browser.UserAgent,
		ExecPath:  cfg.Browser.ExecPath,
		UseProxy:  cfg.Proxy.Enabled,
	})

	orchestrator := crawler.NewOrchestrator(crawler.OrchestratorConfig{
		MaxMonthAdvances: cfg.Crawler.MaxMonthAdvances,
		ResultsTimeout:   cfg.Crawler.ResultsTimeout,
	})

	runner := crawler.NewRunner(registry, sessions, orchestrator,
		crawler.Credentials(cfg.Carriers.Credentials),
		crawler.RunnerConfig{
			MaxAttempts:  cfg.Crawler.MaxAttempts,
			RetryBackoff: cfg.Crawler.RetryBackoff,
		})

	return Crawler{Registry: registry, Runner: runner}
}

func ExtractOptions(cfg *config.Config) extract.Options {
	if cfg.Crawler.SkipBrokenRows {
		return extract.Options{DetailFailure: extract.DetailFailureSkipRow}
	}
	return extract.Options{}
}
