package producer

import (
	"context"
	"time"

	"go-leave/internal/messaging/kafka"

	"go.uber.org/zap"
)

const batchSize = 50

func ProcessOutboxEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer MessageWriter,
	logger *zap.Logger,
	pollInterval time.Duration,
) {
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}

	log := logger.Named("kafka.producer.worker")
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	log.Info("outbox worker started", zap.Duration("poll_interval", pollInterval))

	for {
		select {
		case <-ctx.Done():
			log.Info("outbox worker stopped")
			return
		case <-ticker.C:
			if err := processPendingEvents(ctx, repo, writer, log); err != nil {
				log.Error("process outbox events failed", zap.Error(err))
			}
		}
	}
}

func processPendingEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer MessageWriter,
	logger *zap.Logger,
) error {
	events, err := repo.ListPending(ctx, batchSize)
	if err != nil {
		return err
	}

	if len(events) == 0 {
		return nil
	}

	logger.Info("processing pending outbox events", zap.Int("count", len(events)))

	for _, event := range events {
		log := logger.With(
			zap.String("outbox_id", event.ID),
			zap.String("request_id", event.RequestID),
			zap.String("aggregate", event.AggregateType+"/"+event.AggregateID),
			zap.String("event_type", event.EventType),
		)

		if err := publishEvent(ctx, writer, event); err != nil {
			log.Error("publish outbox event failed", zap.String("topic", event.Topic), zap.Error(err))
			if markErr := repo.MarkFailed(ctx, event.ID, err.Error()); markErr != nil {
				log.Error("mark outbox failed failed", zap.Error(markErr))
			}
			continue
		}

		if err := repo.MarkSent(ctx, event.ID); err != nil {
			log.Error("mark outbox sent failed", zap.Error(err))
			continue
		}

		log.Info("outbox event sent", zap.String("topic", event.Topic))
	}

	return nil
}
