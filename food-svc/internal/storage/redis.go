package storage

import (
	"context"
	"crypto/subtle"
	"errors"
	"strconv"
	"time"

	"foodhub/food-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

// Sales keys are written by agg-svc.
const (
	salesDailyKeyPrefix = "sales:daily:"
	salesRevenueKey     = "sales:revenue"
	salesDateLayout     = "2006-01-02"
)

type OTPStore struct {
	Client      *redis.Client
	TTL         time.Duration
	MaxAttempts int
}

func NewOTPStore(client *redis.Client, ttl time.Duration, maxAttempts int) *OTPStore {
	return &OTPStore{Client: client, TTL: ttl, MaxAttempts: maxAttempts}
}

func (s *OTPStore) key(purpose, email string) string {
	return "otp:" + purpose + ":" + email
}

// Save replaces any pending code for the same purpose and email.
func (s *OTPStore) Save(ctx context.Context, purpose, email, code string) error {
	key := s.key(purpose, email)
	_, err := s.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, "code", code, "attempts", 0)
		pipe.Expire(ctx, key, s.TTL)
		return nil
	})
	return err
}

func (s *OTPStore) Verify(ctx context.Context, purpose, email, code string) (bool, error) {
	key := s.key(purpose, email)
	stored, err := s.Client.HGet(ctx, key, "code").Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) == 1 {
		return true, s.Client.Del(ctx, key).Err()
	}

	attempts, err := s.Client.HIncrBy(ctx, key, "attempts", 1).Result()
	if err != nil {
		return false, err
	}
	if s.MaxAttempts > 0 && attempts >= int64(s.MaxAttempts) {
		return false, s.Client.Del(ctx, key).Err()
	}
	return false, nil
}

type RatingMarker struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRatingMarker(client *redis.Client, ttl time.Duration) *RatingMarker {
	return &RatingMarker{Client: client, TTL: ttl}
}

func (m *RatingMarker) RatingMarkerKey(orderID int64) string {
	return "rating:" + strconv.FormatInt(orderID, 10)
}

func (m *RatingMarker) Exists(ctx context.Context, key string) (bool, error) {
	res, err := m.Client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return res > 0, nil
}

func (m *RatingMarker) SetMarker(ctx context.Context, key string) error {
	return m.Client.Set(ctx, key, "1", m.TTL).Err()
}

// SalesReader reads the daily aggregates folded from order events.
type SalesReader struct {
	Client *redis.Client
	Now    func() time.Time
}

func NewSalesReader(client *redis.Client) *SalesReader {
	return &SalesReader{Client: client, Now: time.Now}
}

func (r *SalesReader) today() string {
	return r.Now().UTC().Format(salesDateLayout)
}

func (r *SalesReader) TopItemsToday(ctx context.Context, limit int) ([]domain.TopItem, error) {
	res, err := r.Client.ZRevRangeWithScores(ctx, salesDailyKeyPrefix+r.today(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	top := make([]domain.TopItem, 0, len(res))
	for _, z := range res {
		if z.Score <= 0 {
			continue
		}
		member, _ := z.Member.(string)
		id, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			continue
		}
		top = append(top, domain.TopItem{ItemID: id, Quantity: z.Score})
	}
	return top, nil
}

func (r *SalesReader) RevenueToday(ctx context.Context) (float64, error) {
	v, err := r.Client.HGet(ctx, salesRevenueKey, r.today()).Float64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}
