package kafka

import (
	"context"
	"testing"
	"time"

	"go-leave/internal/shared/connection"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func setupOutboxRepo(t *testing.T) (*outboxRepository, *gorm.DB, *time.Time) {
	t.Helper()

	db, err := connection.OpenSQLite(":memory:")
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&OutboxEvent{}))

	clock := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	repo := &outboxRepository{db: db, now: func() time.Time { return clock }}
	return repo, db, &clock
}

func TestOutboxRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo, db, clock := setupOutboxRepo(t)

	event, err := NewEvent(ctx, "leave_request", "req-1", "leave_request_decided", "leave.request.decided.v1", map[string]string{"status": "approved"})
	assert.NoError(t, err)
	assert.NoError(t, repo.Create(ctx, event))

	pending, err := repo.ListPending(ctx, 10)
	assert.NoError(t, err)
	assert.Len(t, pending, 1)
	assert.JSONEq(t, `{"status":"approved"}`, string(pending[0].Payload))

	assert.NoError(t, repo.MarkFailed(ctx, event.ID, "broker unavailable"))

	pending, err = repo.ListPending(ctx, 10)
	assert.NoError(t, err)
	assert.Empty(t, pending, "failed event waits for its backoff")

	*clock = clock.Add(16 * time.Second)
	pending, err = repo.ListPending(ctx, 10)
	assert.NoError(t, err)
	assert.Len(t, pending, 1)
	assert.Equal(t, 1, pending[0].RetryCount)

	assert.NoError(t, repo.MarkSent(ctx, event.ID))

	var stored OutboxEvent
	assert.NoError(t, db.First(&stored, "id = ?", event.ID).Error)
	assert.Equal(t, OutboxStatusSent, stored.Status)
	assert.NotNil(t, stored.ProcessedAt)
	assert.Nil(t, stored.ErrorMessage)
}

func TestOutboxRepository_CreateRejectsInvalid(t *testing.T) {
	repo, _, _ := setupOutboxRepo(t)

	err := repo.Create(context.Background(), OutboxEvent{ID: "x", Topic: "t", Status: OutboxStatusPending})
	assert.EqualError(t, err, "outbox payload is required")
}
