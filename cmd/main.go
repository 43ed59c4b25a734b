package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/go-redis/redis_rate/v10"
	"github.com/ijalalfrz/award-search-crawler/internal/app/bootstrap"
	"github.com/ijalalfrz/award-search-crawler/internal/app/config"
	"github.com/ijalalfrz/award-search-crawler/internal/app/dto"
	"github.com/ijalalfrz/award-search-crawler/internal/app/endpoints"
	"github.com/ijalalfrz/award-search-crawler/internal/app/service"
	"github.com/ijalalfrz/award-search-crawler/internal/app/transport"
	"github.com/ijalalfrz/award-search-crawler/internal/pkg/award"
	"github.com/ijalalfrz/award-search-crawler/internal/pkg/flight"
	"github.com/ijalalfrz/award-search-crawler/internal/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// @title           Award Search Crawler API
// @version         0.0.1
// @description     award-search-crawler
// @host      localhost:8080
// @BasePath  /
// @license.name Rizal Alfarizi
// @license.url https://github.com/ijalalfrz
func main() {
	cfg := config.MustInitConfig(".env")
	logger.InitStructuredLogger(cfg.LogLevel)

	slog.Debug("config loaded successfully", slog.Int("http_port", cfg.HTTP.Port),
		slog.Bool("proxy_enabled", cfg.Proxy.Enabled),
		slog.Int("credentials", len(cfg.Carriers.Credentials)))
	runApp(cfg)
}

func runApp(cfg config.Config) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	slog.InfoContext(ctx, "starting...", slog.String("log_level", string(cfg.LogLevel)))

	var waitGroup sync.WaitGroup
	// Starts the server in a go routine
	waitGroup.Add(1)
	go func() {
		defer waitGroup.Done()
		startHTTPServer(ctx, cfg)
	}()

	sigChannel := make(chan os.Signal, 1)
	signal.Notify(sigChannel, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case sig := <-sigChannel:
		cancel()
		slog.InfoContext(ctx, "received OS signal. Exiting...", slog.String("signal", sig.String()))
	case <-ctx.Done():
		slog.ErrorContext(ctx, "failed to start HTTP server")
	}

	waitGroup.Wait()
	slog.InfoContext(ctx, "All service closed...")
}

func startHTTPServer(ctx context.Context, cfg config.Config) {
	endpts := makeEndpoints(ctx, &cfg)
	router := transport.MakeHTTPRouter(&cfg, endpts)
	server := &http.Server{
		Handler:      router,
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		WriteTimeout: cfg.HTTP.Timeout,
		ReadTimeout:  cfg.HTTP.Timeout,
	}

	slog.Info("running HTTP server...", slog.Int("port", cfg.HTTP.Port))

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.ErrorContext(ctx, "failed to start HTTP server", slog.String("error", err.Error()))
		}
	}()

	<-ctx.Done()

	if err := server.Shutdown(context.WithoutCancel(ctx)); err != nil {
		slog.ErrorContext(ctx, "failed to shutdown HTTP server", slog.String("error", err.Error()))
	}

	slog.InfoContext(ctx, "HTTP server shutdown gracefully")
}

func makeEndpoints(ctx context.Context, cfg *config.Config) endpoints.Endpoints {
	// init redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:        cfg.Redis.Addr,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		ReadTimeout: cfg.Redis.Timeout,
	})

	// init validator
	if err := dto.InitValidator(); err != nil {
		slog.ErrorContext(ctx, "failed to init validator", slog.String("error", err.Error()))
		panic(err)
	}

	// init crawler
	crawl := bootstrap.NewCrawler(cfg)

	// init service endpoint
	return endpoints.Endpoints{
		AwardEndpoint: makeAwardEndpoint(crawl, redisClient, cfg),
	}
}

func makeAwardEndpoint(crawl bootstrap.Crawler, redisClient *redis.Client, cfg *config.Config) endpoints.AwardEndpoint {
	// cache
	awardCache := flight.NewAwardCache(redisClient)

	// rate limit
	limiter := redis_rate.NewLimiter(redisClient)

	// service
	awardService := service.NewAwardService(crawl.Runner, crawl.Registry, awardCache, limiter,
		service.AwardServiceConfig{
			RateLimits: map[award.Airline]int{
				award.AirCanada: cfg.Carriers.AirCanadaRateLimit,
			},
			CacheExpiration: cfg.Search.CacheExpiration,
			LockTimeout:     cfg.Search.LockTimeout,
			SearchTimeout:   cfg.Crawler.WaitTimeout,
		})

	// endpoint
	return endpoints.MakeAwardEndpoint(awardService)
}
