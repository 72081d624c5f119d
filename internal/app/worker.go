package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go-leave/internal/config"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/messaging/kafka/producer"
	"go-leave/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker publishes pending outbox rows to kafka until SIGINT/SIGTERM.
func RunWorker() error {
	logger := zap.L().Named("app.worker")
	cfg := config.Load()

	if cfg.KafkaBroker == "" {
		return errors.New("KAFKA_BROKER is required")
	}

	a, err := connect(cfg, false)
	if err != nil {
		return err
	}
	defer a.Close()

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, cfg.Database.MaxRetries)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(a.GormDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go producer.ProcessOutboxEvents(ctx, outboxRepo, kafkaWriter, logger, cfg.OutboxPollInterval)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()

	return nil
}
