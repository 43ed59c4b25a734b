package flight

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ijalalfrz/award-search-crawler/internal/pkg/award"
	"github.com/redis/go-redis/v9"
)

type RedisClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// AwardCache keeps the unfiltered crawl result of a query so that requests
// differing only in filter or sort options share one crawl.
type AwardCache struct {
	redis RedisClient
}

func NewAwardCache(redis RedisClient) *AwardCache {
	return &AwardCache{
		redis: redis,
	}
}

func queryKey(airline award.Airline, q award.Query) string {
	return fmt.Sprintf("%s:%s:%s:%s:%s",
		airline, q.Origin(), q.Destination(), q.DepartureDate().Format(award.DateLayout), q.CabinClass())
}

func (c *AwardCache) GetLockKey(airline award.Airline, q award.Query) string {
	return "award:lock:" + queryKey(airline, q)
}

func (c *AwardCache) GetCacheKey(airline award.Airline, q award.Query) string {
	return "award:cache:" + queryKey(airline, q)
}

func (c *AwardCache) AcquireLock(ctx context.Context, key string, timeout time.Duration) (bool, error) {
	return c.redis.SetNX(ctx, key, "1", timeout).Result()
}

func (c *AwardCache) ReleaseLock(ctx context.Context, key string) error {
	return c.redis.Del(ctx, key).Err()
}

// SetFlights stores flights under key, an empty result included.
func (c *AwardCache) SetFlights(ctx context.Context, key string, flights []award.Flight, expiration time.Duration) error {
	if flights == nil {
		flights = []award.Flight{}
	}

	data, err := json.Marshal(flights)
	if err != nil {
		return fmt.Errorf("failed to marshal flights: %w", err)
	}

	if err := c.redis.Set(ctx, key, data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set flights: %w", err)
	}

	return nil
}

// GetFlights returns redis.Nil on a miss.
func (c *AwardCache) GetFlights(ctx context.Context, key string) ([]award.Flight, error) {
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}

	var flights []award.Flight
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, fmt.Errorf("failed to unmarshal flights: %w", err)
	}

	return flights, nil
}
