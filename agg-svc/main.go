package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"foodhub/agg-svc/internal/service"
	"foodhub/agg-svc/internal/storage"
	"foodhub/config"
	"foodhub/logger"
)

func main() {
	cfg, err := config.Load(os.Getenv("FOODHUB_CONFIG_FILE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New("agg-svc")

	rdb := config.MustInitRedis(cfg.Redis)
	defer rdb.Close()

	reader := config.NewKafkaReader(cfg.Kafka)
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := service.NewConsumer(reader, storage.NewStore(rdb), log.Action("consume"))
	if err := consumer.Start(ctx); err != nil {
		log.Error("consumer stopped", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
