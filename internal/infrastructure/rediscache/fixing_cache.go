package rediscache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "fixing:usdpln:"

// Store caches resolved USD/PLN fixings keyed by date, so repeated pipeline
// runs and the 7-day fallback walk skip the NBP API.
type Store struct {
	Client *redis.Client
	TTL    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *Store {
	return &Store{Client: client, TTL: ttl}
}

func (s *Store) Get(ctx context.Context, date string) (float64, bool, error) {
	v, err := s.Client.Get(ctx, keyPrefix+date).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	rate, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false, err
	}
	return rate, true, nil
}

func (s *Store) Set(ctx context.Context, date string, rate float64) error {
	return s.Client.Set(ctx, keyPrefix+date, strconv.FormatFloat(rate, 'g', -1, 64), s.TTL).Err()
}
