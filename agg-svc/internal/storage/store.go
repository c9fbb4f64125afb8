package storage

import (
	"context"
	"errors"
	"strconv"
	"time"

	"foodhub/agg-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

// Keys shared with the food-svc stats reader.
const (
	DailyKeyPrefix = "sales:daily:"
	AllTimeKey     = "sales:alltime"
	RevenueKey     = "sales:revenue"
	OrdersKey      = "sales:orders"
	RatingsKey     = "ratings:daily:"
	RatingsAllKey  = "ratings:alltime"
	processedKey   = "agg:processed:"
)

const (
	dailyTTL     = 35 * 24 * time.Hour
	processedTTL = 7 * 24 * time.Hour
)

type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// apply runs write under a WATCH on the dedup key so the marker and the
// aggregates change together.
func (s *Store) apply(ctx context.Context, key string, write func(pipe redis.Pipeliner)) (bool, error) {
	marker := processedKey + key
	applied := false
	err := s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, marker).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, marker, 1, processedTTL)
			write(pipe)
			return nil
		})
		if err == nil {
			applied = true
		}
		return err
	}, marker)
	if errors.Is(err, redis.TxFailedErr) {
		// Another consumer applied the same event concurrently.
		return false, nil
	}
	return applied, err
}

func (s *Store) RecordSale(ctx context.Context, key, day string, items []domain.EventItem, revenue float64) (bool, error) {
	return s.apply(ctx, key, func(pipe redis.Pipeliner) {
		s.addSale(ctx, pipe, day, items, revenue, 1)
	})
}

func (s *Store) RevertSale(ctx context.Context, key, day string, items []domain.EventItem, revenue float64) (bool, error) {
	return s.apply(ctx, key, func(pipe redis.Pipeliner) {
		s.addSale(ctx, pipe, day, items, revenue, -1)
	})
}

func (s *Store) addSale(ctx context.Context, pipe redis.Pipeliner, day string, items []domain.EventItem, revenue float64, sign float64) {
	dailyKey := DailyKeyPrefix + day
	for _, it := range items {
		member := strconv.FormatInt(it.ItemID, 10)
		qty := sign * float64(it.Quantity)
		pipe.ZIncrBy(ctx, dailyKey, qty, member)
		pipe.ZIncrBy(ctx, AllTimeKey, qty, member)
	}
	pipe.Expire(ctx, dailyKey, dailyTTL)
	pipe.HIncrByFloat(ctx, RevenueKey, day, sign*revenue)
	pipe.HIncrBy(ctx, OrdersKey, day, int64(sign))
}

func (s *Store) RecordRating(ctx context.Context, key, day string, rating int) (bool, error) {
	return s.apply(ctx, key, func(pipe redis.Pipeliner) {
		dailyKey := RatingsKey + day
		pipe.HIncrBy(ctx, dailyKey, "sum", int64(rating))
		pipe.HIncrBy(ctx, dailyKey, "count", 1)
		pipe.Expire(ctx, dailyKey, dailyTTL)
		pipe.HIncrBy(ctx, RatingsAllKey, "sum", int64(rating))
		pipe.HIncrBy(ctx, RatingsAllKey, "count", 1)
	})
}

// AverageRating returns the all-time mean rating and how many ratings it
// covers.
func (s *Store) AverageRating(ctx context.Context) (float64, int64, error) {
	vals, err := s.rdb.HMGet(ctx, RatingsAllKey, "sum", "count").Result()
	if err != nil {
		return 0, 0, err
	}
	sum, _ := toInt(vals[0])
	count, _ := toInt(vals[1])
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

func toInt(v any) (int64, bool) {
	str, ok := v.(string)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(str, 10, 64)
	return n, err == nil
}
