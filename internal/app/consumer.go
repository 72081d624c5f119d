package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go-leave/internal/balance"
	"go-leave/internal/config"
	"go-leave/internal/events"
	"go-leave/internal/leavetype"
	"go-leave/internal/messaging/kafka/consumer"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer opens default balances for every employee_created event until
// SIGINT/SIGTERM.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")
	cfg := config.Load()

	if cfg.KafkaBroker == "" {
		return errors.New("KAFKA_BROKER is required")
	}

	a, err := connect(cfg, false)
	if err != nil {
		return err
	}
	defer a.Close()

	balanceService := balance.NewService(
		a.DB,
		balance.NewRepository(a.GormDB),
		leavetype.NewRepository(a.GormDB),
		logger,
	)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.KafkaBroker},
		Topic:          events.EmployeeCreatedTopic,
		GroupID:        cfg.ConsumerGroupID,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeEmployeeLifecycle(ctx, reader, balanceService, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
