package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"foodhub/agg-svc/internal/domain"
	"foodhub/logger"

	"github.com/segmentio/kafka-go"
)

const retryDelay = time.Second

type Consumer struct {
	Reader     MessageReader
	Store      StoreInterface
	Log        *logger.Logger
	RetryDelay time.Duration
}

func NewConsumer(reader MessageReader, store StoreInterface, log *logger.Logger) *Consumer {
	return &Consumer{
		Reader:     reader,
		Store:      store,
		Log:        log,
		RetryDelay: retryDelay,
	}
}

// Start reads until ctx is cancelled. A message is retried until it has been
// applied or found to be undecodable, and only then committed. The reader
// never hands the same offset back, so moving on would lose it.
func (c *Consumer) Start(ctx context.Context) error {
	c.Log.Info("starting aggregation consumer")
	for {
		message, err := c.Reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.Log.Error("error reading message", err)
			if !sleep(ctx, c.RetryDelay) {
				return nil
			}
			continue
		}

		for attempt := 1; ; attempt++ {
			err := c.handle(ctx, message)
			if err == nil {
				break
			}
			c.Log.Error("error processing message", err, "offset", message.Offset, "attempt", attempt)
			if !sleep(ctx, c.RetryDelay) {
				return nil
			}
		}

		if err := c.Reader.CommitMessages(ctx, message); err != nil && ctx.Err() == nil {
			c.Log.Error("error committing message", err, "offset", message.Offset)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, message kafka.Message) error {
	var ev domain.OrderEvent
	if err := json.Unmarshal(message.Value, &ev); err != nil {
		c.Log.Warn("skipping undecodable message", "offset", message.Offset, "error", err.Error())
		return nil
	}
	return c.Process(ctx, ev)
}

// Process folds one order event into the aggregates. Redelivered events are
// applied once.
func (c *Consumer) Process(ctx context.Context, ev domain.OrderEvent) error {
	switch ev.Type {
	case domain.EventOrderCreated, domain.EventOrderCancelled, domain.EventOrderRated:
	default:
		return nil
	}
	if ev.OrderNumber == "" {
		c.Log.Warn("skipping event without order number", "type", ev.Type, "order_id", ev.OrderID)
		return nil
	}

	key := ev.DedupKey()
	day := ev.SalesDay()
	var applied bool
	var err error
	switch ev.Type {
	case domain.EventOrderCreated:
		applied, err = c.Store.RecordSale(ctx, key, day, ev.Items, ev.Total)
	case domain.EventOrderCancelled:
		applied, err = c.Store.RevertSale(ctx, key, day, ev.Items, ev.Total)
	case domain.EventOrderRated:
		if ev.Rating < 1 || ev.Rating > 5 {
			c.Log.Warn("ignoring out of range rating", "order", ev.OrderNumber, "rating", ev.Rating)
			return nil
		}
		applied, err = c.Store.RecordRating(ctx, key, ev.Timestamp.UTC().Format(domain.DayLayout), ev.Rating)
	}
	if err != nil {
		return fmt.Errorf("%s %s: %w", ev.Type, ev.OrderNumber, err)
	}
	if !applied {
		c.Log.Debug("duplicate event", "key", key)
		return nil
	}

	c.Log.Info("processed order event", "type", ev.Type, "order", ev.OrderNumber, "day", day)
	if ev.Type == domain.EventOrderRated {
		if avg, count, err := c.Store.AverageRating(ctx); err == nil {
			c.Log.Info("rating average", "average", avg, "ratings", count)
		}
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
