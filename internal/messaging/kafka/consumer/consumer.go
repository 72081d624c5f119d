package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	employeeerrors "go-leave/internal/employee/errors"
	"go-leave/internal/events"

	"github.com/jackc/pgx/v5/pgconn"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const seedAttempts = 3

// seedRetryDelay is multiplied by the attempt number between seeding attempts.
var seedRetryDelay = 500 * time.Millisecond

// MessageReader is the part of *kafkago.Reader the consumer uses.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// BalanceSeeder opens the default balances of a new employee.
type BalanceSeeder interface {
	SeedDefaults(ctx context.Context, employeeID string) (int, error)
}

func ConsumeEmployeeLifecycle(
	ctx context.Context,
	reader MessageReader,
	seeder BalanceSeeder,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.employee_lifecycle")
	log.Info("employee lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("employee lifecycle consumer stopped")
				return
			}
			log.Error("fetch employee lifecycle message failed", zap.Error(err))
			continue
		}

		handleEmployeeCreated(ctx, reader, seeder, msg, log)
	}
}

func handleEmployeeCreated(
	ctx context.Context,
	reader MessageReader,
	seeder BalanceSeeder,
	msg kafkago.Message,
	log *zap.Logger,
) {
	var event events.EmployeeCreatedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error("decode employee_created event failed", zap.Error(err))
		_ = reader.CommitMessages(ctx, msg)
		return
	}
	if event.EventType != "" && event.EventType != events.EmployeeCreatedType {
		_ = reader.CommitMessages(ctx, msg)
		return
	}

	log = log.With(
		zap.String("request_id", event.RequestID),
		zap.String("employee_id", event.EmployeeID),
	)

	created, err := seedWithRetry(ctx, seeder, event.EmployeeID, log)
	if err != nil {
		if isSkippable(err) {
			log.Warn("balance seeding skipped", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			return
		}
		if ctx.Err() != nil {
			return
		}

		// A later commit moves the offset past this message, so it is dropped
		// here. Approval opens any balance that was never seeded.
		log.Error("seed default balances failed, dropping event",
			zap.Int("attempts", seedAttempts),
			zap.Error(err),
		)
		_ = reader.CommitMessages(ctx, msg)
		return
	}

	if err := reader.CommitMessages(ctx, msg); err != nil {
		log.Error("commit employee lifecycle message failed", zap.Error(err))
		return
	}

	log.Info("default balances seeded from employee_created event", zap.Int("created", created))
}

func seedWithRetry(ctx context.Context, seeder BalanceSeeder, employeeID string, log *zap.Logger) (int, error) {
	var err error
	for attempt := 1; attempt <= seedAttempts; attempt++ {
		var created int
		created, err = seeder.SeedDefaults(ctx, employeeID)
		if err == nil || isSkippable(err) {
			return created, err
		}
		if attempt == seedAttempts {
			break
		}

		log.Warn("seed default balances attempt failed", zap.Int("attempt", attempt), zap.Error(err))
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(time.Duration(attempt) * seedRetryDelay):
		}
	}
	return 0, err
}

// isSkippable reports errors that redelivery can never fix: the employee is
// gone or another seeder already opened the balance.
func isSkippable(err error) bool {
	if errors.Is(err, employeeerrors.ErrEmployeeNotFound) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key value") || strings.Contains(errMsg, "unique constraint failed")
}
