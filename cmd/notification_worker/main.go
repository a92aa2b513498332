package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"order_engine/internal/application/notify"
	"order_engine/internal/config"
	"order_engine/internal/infrastructure/encoding/avro"
	kafkainfra "order_engine/internal/infrastructure/messaging/kafka"
	"order_engine/pkg/logger"
)

// Consumes notification events from Kafka and hands them to the
// notify service. Runs until interrupted.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	zlog, err := logger.NewZapLogger(cfg.App.Env)
	if err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	codec, err := avro.NewCodec()
	if err != nil {
		zlog.Fatal("init avro codec failed", logger.Error(err))
	}

	consumer := kafkainfra.NewEventConsumer(cfg.Kafka, codec, notify.NewService(zlog))
	defer consumer.Close()

	zlog.Info("notification worker started",
		logger.String("topic", cfg.Kafka.EventTopic),
		logger.String("group", cfg.Kafka.ConsumerGroup),
	)
	if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
		zlog.Fatal("consumer stopped", logger.Error(err))
	}
}
