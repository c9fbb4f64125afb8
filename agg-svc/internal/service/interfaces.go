package service

import (
	"context"

	"foodhub/agg-svc/internal/domain"
	"foodhub/agg-svc/internal/storage"

	"github.com/segmentio/kafka-go"
)

// StoreInterface applies each event at most once per dedup key; applied is
// false when the key was seen before.
type StoreInterface interface {
	RecordSale(ctx context.Context, key, day string, items []domain.EventItem, revenue float64) (applied bool, err error)
	RevertSale(ctx context.Context, key, day string, items []domain.EventItem, revenue float64) (applied bool, err error)
	RecordRating(ctx context.Context, key, day string, rating int) (applied bool, err error)
	AverageRating(ctx context.Context) (avg float64, count int64, err error)
}

type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

type ConsumerInterface interface {
	Start(ctx context.Context) error
	Process(ctx context.Context, ev domain.OrderEvent) error
}

var (
	_ StoreInterface    = (*storage.Store)(nil)
	_ MessageReader     = (*kafka.Reader)(nil)
	_ ConsumerInterface = (*Consumer)(nil)
)
