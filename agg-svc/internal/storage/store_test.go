package storage

import (
	"context"
	"testing"

	"foodhub/agg-svc/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*Store, *redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewStore(rdb), rdb, mr
}

func TestStore_RecordAndRevertSale(t *testing.T) {
	ctx := context.Background()
	store, rdb, mr := setupRedis(t)
	items := []domain.EventItem{{ItemID: 1, Quantity: 2, Total: 20}, {ItemID: 4, Quantity: 1, Total: 5.5}}

	applied, err := store.RecordSale(ctx, "order_created:A", "2026-05-10", items, 25.5)
	require.NoError(t, err)
	assert.True(t, applied)

	_, err = store.RecordSale(ctx, "order_created:B", "2026-05-10", items[:1], 10)
	require.NoError(t, err)

	score, err := rdb.ZScore(ctx, DailyKeyPrefix+"2026-05-10", "1").Result()
	require.NoError(t, err)
	assert.Equal(t, 4.0, score)
	assert.True(t, mr.TTL(DailyKeyPrefix+"2026-05-10") > 0)

	revenue, err := rdb.HGet(ctx, RevenueKey, "2026-05-10").Float64()
	require.NoError(t, err)
	assert.InDelta(t, 35.5, revenue, 1e-9)

	applied, err = store.RevertSale(ctx, "order_cancelled:A", "2026-05-10", items, 25.5)
	require.NoError(t, err)
	assert.True(t, applied)

	score, _ = rdb.ZScore(ctx, DailyKeyPrefix+"2026-05-10", "4").Result()
	assert.Equal(t, 0.0, score)
	score, _ = rdb.ZScore(ctx, AllTimeKey, "1").Result()
	assert.Equal(t, 2.0, score)
	revenue, _ = rdb.HGet(ctx, RevenueKey, "2026-05-10").Float64()
	assert.InDelta(t, 10.0, revenue, 1e-9)
	orders, _ := rdb.HGet(ctx, OrdersKey, "2026-05-10").Int()
	assert.Equal(t, 1, orders)
}

func TestStore_DuplicateEventIsAppliedOnce(t *testing.T) {
	ctx := context.Background()
	store, rdb, _ := setupRedis(t)
	items := []domain.EventItem{{ItemID: 7, Quantity: 3}}

	first, err := store.RecordSale(ctx, "order_created:A", "2026-05-10", items, 9)
	require.NoError(t, err)
	second, err := store.RecordSale(ctx, "order_created:A", "2026-05-10", items, 9)
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)
	score, _ := rdb.ZScore(ctx, AllTimeKey, "7").Result()
	assert.Equal(t, 3.0, score)
}

func TestStore_Ratings(t *testing.T) {
	ctx := context.Background()
	store, rdb, _ := setupRedis(t)

	avg, count, err := store.AverageRating(ctx)
	require.NoError(t, err)
	assert.Zero(t, avg)
	assert.Zero(t, count)

	_, err = store.RecordRating(ctx, "order_rated:A", "2026-05-10", 5)
	require.NoError(t, err)
	_, err = store.RecordRating(ctx, "order_rated:B", "2026-05-10", 2)
	require.NoError(t, err)

	avg, count, err = store.AverageRating(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3.5, avg)
	assert.Equal(t, int64(2), count)

	daily, err := rdb.HGetAll(ctx, RatingsKey+"2026-05-10").Result()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"sum": "7", "count": "2"}, daily)
}
