package kafka

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/dbtx"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	OutboxStatusPending = "pending"
	OutboxStatusSent    = "sent"
	OutboxStatusFailed  = "failed"
)

const (
	maxErrorMessageLen = 500
	retryBackoffStep   = 15 * time.Second
	maxBackoffSteps    = 10
)

type OutboxEvent struct {
	ID            string     `gorm:"type:varchar(36);primaryKey"`
	RequestID     string     `gorm:"type:varchar(64)"`
	AggregateType string     `gorm:"type:varchar(50);not null"`
	AggregateID   string     `gorm:"type:varchar(36);not null;index"`
	EventType     string     `gorm:"type:varchar(100);not null"`
	Topic         string     `gorm:"type:varchar(150);not null"`
	Payload       []byte     `gorm:"not null"`
	Status        string     `gorm:"type:varchar(20);not null;index:idx_outbox_status_retry"`
	RetryCount    int        `gorm:"not null;default:0"`
	NextRetryAt   time.Time  `gorm:"index:idx_outbox_status_retry"`
	ErrorMessage  *string    `gorm:"type:text"`
	ProcessedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (OutboxEvent) TableName() string {
	return "outbox_events"
}

// NewEvent marshals payload into a pending outbox row. The request id is
// taken from ctx so async consumers can correlate logs.
func NewEvent(ctx context.Context, aggregateType, aggregateID, eventType, topic string, payload any) (OutboxEvent, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return OutboxEvent{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Topic:         topic,
		Payload:       body,
		Status:        OutboxStatusPending,
	}, nil
}

//go:generate mockgen -source=outbox_repo.go -destination=mock/outbox_repo_mock.go -package=mock

type OutboxRepository interface {
	WithTx(tx *sql.Tx) OutboxRepository
	Create(ctx context.Context, event OutboxEvent) error
	ListPending(ctx context.Context, limit int) ([]OutboxEvent, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, reason string) error
}

type outboxRepository struct {
	db  *gorm.DB
	tx  *sql.Tx
	now func() time.Time
}

func NewOutboxRepository(db *gorm.DB) OutboxRepository {
	return &outboxRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (r *outboxRepository) WithTx(tx *sql.Tx) OutboxRepository {
	return &outboxRepository{db: r.db, tx: tx, now: r.now}
}

func (r *outboxRepository) conn(ctx context.Context) *gorm.DB {
	return dbtx.Bind(ctx, r.db, r.tx)
}

func (r *outboxRepository) Create(ctx context.Context, event OutboxEvent) error {
	if err := ValidateOutboxEvent(event); err != nil {
		return err
	}
	if event.NextRetryAt.IsZero() {
		event.NextRetryAt = r.now()
	}
	return r.conn(ctx).Create(&event).Error
}

func (r *outboxRepository) ListPending(ctx context.Context, limit int) ([]OutboxEvent, error) {
	events := make([]OutboxEvent, 0, limit)
	err := r.conn(ctx).
		Where("status IN ?", []string{OutboxStatusPending, OutboxStatusFailed}).
		Where("next_retry_at <= ?", r.now()).
		Order("created_at ASC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

func (r *outboxRepository) MarkSent(ctx context.Context, id string) error {
	now := r.now()
	return r.conn(ctx).
		Model(&OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":        OutboxStatusSent,
			"processed_at":  now,
			"error_message": nil,
			"updated_at":    now,
		}).Error
}

// MarkFailed schedules a retry with a linear backoff capped at
// maxBackoffSteps * retryBackoffStep.
func (r *outboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	var event OutboxEvent
	if err := r.conn(ctx).First(&event, "id = ?", id).Error; err != nil {
		return err
	}

	if len(reason) > maxErrorMessageLen {
		reason = reason[:maxErrorMessageLen]
	}

	steps := event.RetryCount + 1
	if steps > maxBackoffSteps {
		steps = maxBackoffSteps
	}
	now := r.now()

	return r.conn(ctx).
		Model(&OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":        OutboxStatusFailed,
			"retry_count":   event.RetryCount + 1,
			"error_message": reason,
			"next_retry_at": now.Add(time.Duration(steps) * retryBackoffStep),
			"updated_at":    now,
		}).Error
}

func ValidateOutboxEvent(event OutboxEvent) error {
	if event.ID == "" {
		return errors.New("outbox id is required")
	}
	if event.Topic == "" {
		return errors.New("outbox topic is required")
	}
	if len(event.Payload) == 0 {
		return errors.New("outbox payload is required")
	}
	switch event.Status {
	case OutboxStatusPending, OutboxStatusSent, OutboxStatusFailed:
		return nil
	default:
		return fmt.Errorf("invalid outbox status: %s", event.Status)
	}
}
