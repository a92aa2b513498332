package main

import (
	"context"
	"log"

	cartapp "order_engine/internal/application/cart"
	checkoutapp "order_engine/internal/application/checkout"
	feedbackapp "order_engine/internal/application/feedback"
	lifecycleapp "order_engine/internal/application/lifecycle"
	stockapp "order_engine/internal/application/stock"
	"order_engine/internal/config"
	"order_engine/internal/infrastructure/encoding/avro"
	ginserver "order_engine/internal/infrastructure/http/gin"
	kafkainfra "order_engine/internal/infrastructure/messaging/kafka"
	"order_engine/internal/infrastructure/persistence/postgres"
	"order_engine/internal/interfaces/http/handler"
	"order_engine/internal/interfaces/http/router"
	"order_engine/pkg/logger"
	"order_engine/pkg/metrics"
)

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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := postgres.NewPool(cfg.DB)
	if err != nil {
		zlog.Fatal("postgres connection failed", logger.Error(err))
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		zlog.Fatal("migrate schema failed", logger.Error(err))
	}

	productRepo := postgres.NewProductRepository(pool)
	cartRepo := postgres.NewCartRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	outboxRepo := postgres.NewOutboxRepository(pool)
	txManager := postgres.NewTxManager(pool)

	engineMetrics := metrics.NewEngineMetrics()
	ledger := stockapp.NewLedger(productRepo, engineMetrics, zlog)

	cartService := cartapp.NewService(cartRepo, productRepo, zlog)
	checkoutService := checkoutapp.NewService(
		cartRepo, productRepo, orderRepo, ledger, txManager,
		outboxRepo, cfg.Kafka.EventTopic, engineMetrics, zlog,
	)
	lifecycleService := lifecycleapp.NewService(
		orderRepo, ledger, txManager,
		outboxRepo, cfg.Kafka.EventTopic, engineMetrics, zlog,
	)
	feedbackService := feedbackapp.NewService(orderRepo, zlog)

	codec, err := avro.NewCodec()
	if err != nil {
		zlog.Fatal("init avro codec failed", logger.Error(err))
	}

	producer, err := kafkainfra.NewEventProducer(cfg.Kafka, zlog)
	if err != nil {
		zlog.Fatal("init kafka producer failed", logger.Error(err))
	}
	defer producer.Close()

	relay := kafkainfra.NewRelay(outboxRepo, producer, codec, cfg.Kafka, zlog)
	go func() {
		if err := relay.Start(ctx); err != nil && ctx.Err() == nil {
			zlog.Error("outbox relay stopped", logger.Error(err))
		}
	}()

	productHandler := handler.NewProductHandler(productRepo)
	cartHandler := handler.NewCartHandler(cartService)
	orderHandler := handler.NewOrderHandler(checkoutService, lifecycleService, orderRepo)
	feedbackHandler := handler.NewFeedbackHandler(feedbackService)

	engine := ginserver.NewEngine()
	router.RegisterRoutes(engine, productHandler, cartHandler, orderHandler, feedbackHandler)

	server := ginserver.NewServer(cfg.Server, engine)
	zlog.Info("api listening", logger.String("addr", cfg.Server.Address()))
	if err := server.Run(); err != nil {
		zlog.Fatal("server run failed", logger.Error(err))
	}
}
