package service

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/ijalalfrz/award-search-crawler/internal/app/dto"
	"github.com/ijalalfrz/award-search-crawler/internal/pkg/award"
	"github.com/ijalalfrz/award-search-crawler/internal/pkg/flight"
	"github.com/redis/go-redis/v9"
)

type AwardSearcher interface {
	RunQuery(ctx context.Context, airline award.Airline, q award.Query) iter.Seq2[award.Flight, error]
}

type CarrierLister interface {
	Airlines() []award.Airline
}

type AwardCacher interface {
	GetLockKey(airline award.Airline, q award.Query) string
	GetCacheKey(airline award.Airline, q award.Query) string
	AcquireLock(ctx context.Context, key string, timeout time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key string) error
	GetFlights(ctx context.Context, key string) ([]award.Flight, error)
	SetFlights(ctx context.Context, key string, flights []award.Flight, expiration time.Duration) error
}

type RateLimiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error)
}

type AwardService struct {
	Searcher AwardSearcher
	Carriers CarrierLister
	Cache    AwardCacher
	Limiter  RateLimiter
	// RateLimits is the number of crawls per minute allowed for a carrier.
	// Carriers without an entry are not limited.
	RateLimits      map[award.Airline]int
	CacheExpiration time.Duration
	LockTimeout     time.Duration
	SearchTimeout   time.Duration

	now func() time.Time
}

type AwardServiceConfig struct {
	RateLimits      map[award.Airline]int
	CacheExpiration time.Duration
	LockTimeout     time.Duration
	SearchTimeout   time.Duration
}

func NewAwardService(searcher AwardSearcher, carriers CarrierLister, cache AwardCacher,
	limiter RateLimiter, cfg AwardServiceConfig) *AwardService {
	return &AwardService{
		Searcher:        searcher,
		Carriers:        carriers,
		Cache:           cache,
		Limiter:         limiter,
		RateLimits:      cfg.RateLimits,
		CacheExpiration: cfg.CacheExpiration,
		LockTimeout:     cfg.LockTimeout,
		SearchTimeout:   cfg.SearchTimeout,
		now:             time.Now,
	}
}

// SearchAwards godoc
// @Summary      Search award flights
// @Tags         Awards
// @Description  Crawl a carrier's award search and return the matching flights
// @Param        request  body      dto.AwardSearchRequest  true  "Search criteria"
// @Success      200      {object}  dto.AwardSearchResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      404      {object}  dto.ErrorResponse
// @Failure      429      {object}  dto.ErrorResponse
// @Failure      502      {object}  dto.ErrorResponse
// @Router       /api/v1/awards/search [post]
func (s *AwardService) SearchAwards(ctx context.Context, req dto.AwardSearchRequest) (dto.AwardSearchResponse, error) {
	startTime := time.Now()

	airline, ok := award.ParseAirline(req.Carrier)
	if !ok || !s.supports(airline) {
		return dto.AwardSearchResponse{}, ErrUnknownCarrier
	}

	q, err := award.ParseQuery(req.Origin, req.Destination, req.DepartureDate, req.CabinClass, s.today())
	if err != nil {
		return dto.AwardSearchResponse{}, ErrInvalidQuery.WithCause(err)
	}

	cacheKey := s.Cache.GetCacheKey(airline, q)

	crawled, err := s.Cache.GetFlights(ctx, cacheKey)
	cacheHit := err == nil
	if err != nil && !errors.Is(err, redis.Nil) {
		slog.WarnContext(ctx, "failed to get awards from cache", slog.String("error", err.Error()))
	}

	if !cacheHit {
		crawled, err = s.crawl(ctx, airline, q)
		if err != nil {
			return dto.AwardSearchResponse{}, err
		}

		s.store(ctx, airline, q, cacheKey, crawled)
	}

	flights := make([]dto.AwardFlight, 0, len(crawled))
	for _, f := range crawled {
		flights = append(flights, dto.NewAwardFlight(airline, f))
	}

	flights = flight.FilterFlights(ctx, flights, req.FilterOption)
	flights = flight.RankFlights(flights)
	flights = flight.SortFlights(flights, req.SortOption)

	if len(flights) == 0 {
		return dto.AwardSearchResponse{}, ErrNoAwardsFound
	}

	return dto.AwardSearchResponse{
		SearchCriteria: req,
		Metadata: dto.Metadata{
			Carrier:      string(airline),
			CrawledCount: len(crawled),
			TotalResults: len(flights),
			SearchTimeMs: int(time.Since(startTime).Milliseconds()),
			CacheHit:     cacheHit,
		},
		Flights: flights,
	}, nil
}

// crawl runs the query against the carrier site after checking its rate limit.
func (s *AwardService) crawl(ctx context.Context, airline award.Airline, q award.Query) ([]award.Flight, error) {
	if err := s.allow(ctx, airline); err != nil {
		return nil, err
	}

	if s.SearchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.SearchTimeout)
		defer cancel()
	}

	flights := []award.Flight{}
	for f, err := range s.Searcher.RunQuery(ctx, airline, q) {
		if err != nil {
			slog.ErrorContext(ctx, "award crawl failed",
				slog.String("airline", string(airline)),
				slog.String("query", q.String()),
				slog.Int("collected", len(flights)),
				slog.Any("error", err))
			return nil, crawlError(err)
		}
		flights = append(flights, f)
	}

	slog.InfoContext(ctx, "award crawl finished",
		slog.String("airline", string(airline)),
		slog.String("query", q.String()),
		slog.Int("flights", len(flights)))

	return flights, nil
}

func (s *AwardService) allow(ctx context.Context, airline award.Airline) error {
	perMinute := s.RateLimits[airline]
	if s.Limiter == nil || perMinute <= 0 {
		return nil
	}

	res, err := s.Limiter.Allow(ctx, fmt.Sprintf("limit:%s", airline), redis_rate.PerMinute(perMinute))
	if err != nil {
		return fmt.Errorf("failed to rate limit: %w", err)
	}

	if res.Allowed == 0 {
		slog.WarnContext(ctx, "carrier rate limit reached",
			slog.String("airline", string(airline)),
			slog.Duration("retry_after", res.RetryAfter))
		return ErrRateLimited
	}

	return nil
}

// store caches a crawl result. Concurrent crawls of the same query race for
// the lock and only the winner writes. Cache failures are logged, not returned.
func (s *AwardService) store(ctx context.Context, airline award.Airline, q award.Query, cacheKey string, flights []award.Flight) {
	lockKey := s.Cache.GetLockKey(airline, q)

	acquired, err := s.Cache.AcquireLock(ctx, lockKey, s.LockTimeout)
	if err != nil {
		slog.WarnContext(ctx, "failed to acquire cache lock", slog.String("error", err.Error()))
		return
	}

	if !acquired {
		return
	}

	defer func() {
		if err := s.Cache.ReleaseLock(ctx, lockKey); err != nil {
			slog.WarnContext(ctx, "failed to release cache lock", slog.String("error", err.Error()))
		}
	}()

	if err := s.Cache.SetFlights(ctx, cacheKey, flights, s.CacheExpiration); err != nil {
		slog.WarnContext(ctx, "failed to cache awards", slog.String("error", err.Error()))
	}
}

// ListCarriers returns the carriers the crawler has an adapter for.
func (s *AwardService) ListCarriers(_ context.Context) (dto.CarriersResponse, error) {
	airlines := s.Carriers.Airlines()

	carriers := make([]dto.Carrier, 0, len(airlines))
	for _, a := range airlines {
		carriers = append(carriers, dto.Carrier{Code: string(a), Name: a.Name()})
	}

	return dto.CarriersResponse{Carriers: carriers}, nil
}

// supports reports whether a crawler is registered for the airline. Without a
// carrier list every known airline is passed through to the searcher.
func (s *AwardService) supports(airline award.Airline) bool {
	if s.Carriers == nil {
		return true
	}
	return slices.Contains(s.Carriers.Airlines(), airline)
}

func (s *AwardService) today() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}
