package worker

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medinfo/medinfo-api/internal/model"
	"github.com/medinfo/medinfo-api/pkg/logger"
)

type statusUpdate struct {
	id      uuid.UUID
	status  model.OutboxStatus
	retryAt *time.Time
}

type fakeOutboxRepo struct {
	pending []*model.OutboxEvent
	updates []statusUpdate
}

func (f *fakeOutboxRepo) Create(ctx context.Context, event *model.OutboxEvent) error {
	f.pending = append(f.pending, event)
	return nil
}

func (f *fakeOutboxRepo) GetPendingEventsWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	if len(f.pending) > limit {
		return f.pending[:limit], nil
	}
	return f.pending, nil
}

func (f *fakeOutboxRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string, retryAt *time.Time) error {
	f.updates = append(f.updates, statusUpdate{id: id, status: status, retryAt: retryAt})
	return nil
}

func (f *fakeOutboxRepo) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

type fakeBroker struct {
	published []string
	err       error
}

func (b *fakeBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	if b.err != nil {
		return b.err
	}
	raw, _ := json.Marshal(message)
	b.published = append(b.published, string(raw))
	return nil
}

func (b *fakeBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	return nil, nil
}

func (b *fakeBroker) Close() error { return nil }

func testLogger() *logger.Logger {
	return logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: os.Stderr})
}

func event(eventType string, retries int) *model.OutboxEvent {
	return &model.OutboxEvent{
		ID:         uuid.New(),
		EventType:  eventType,
		Payload:    json.RawMessage(`{"drug_name":"Aspirin"}`),
		Status:     model.OutboxStatusPending,
		RetryCount: retries,
	}
}

func TestProcessBatchPublishesAndMarksProcessed(t *testing.T) {
	repo := &fakeOutboxRepo{}
	broker := &fakeBroker{}
	ev := event("DRUG_CREATE", 0)
	repo.pending = []*model.OutboxEvent{ev}

	p := NewOutboxProcessor(repo, broker, OutboxConfig{}, nil, testLogger())
	require.NoError(t, p.processBatch(context.Background()))

	require.Len(t, broker.published, 1)
	assert.Contains(t, broker.published[0], "DRUG_CREATE")
	assert.Contains(t, broker.published[0], "Aspirin")

	require.Len(t, repo.updates, 1)
	assert.Equal(t, ev.ID, repo.updates[0].id)
	assert.Equal(t, model.OutboxStatusProcessed, repo.updates[0].status)
}

func TestProcessBatchSchedulesRetryOnPublishFailure(t *testing.T) {
	repo := &fakeOutboxRepo{}
	broker := &fakeBroker{err: errors.New("broker down")}
	ev := event("DRUG_CREATE", 0)
	repo.pending = []*model.OutboxEvent{ev}

	p := NewOutboxProcessor(repo, broker, OutboxConfig{MaxRetries: 3, RetryBackoff: time.Minute}, nil, testLogger())
	require.NoError(t, p.processBatch(context.Background()))

	require.Len(t, repo.updates, 1)
	assert.Equal(t, model.OutboxStatusRetry, repo.updates[0].status)
	require.NotNil(t, repo.updates[0].retryAt)
	assert.WithinDuration(t, time.Now().Add(time.Minute), *repo.updates[0].retryAt, 5*time.Second)
}

func TestProcessBatchMarksFailedAfterMaxRetries(t *testing.T) {
	repo := &fakeOutboxRepo{}
	broker := &fakeBroker{err: errors.New("broker down")}
	ev := event("DRUG_CREATE", 2)
	repo.pending = []*model.OutboxEvent{ev}

	p := NewOutboxProcessor(repo, broker, OutboxConfig{MaxRetries: 3}, nil, testLogger())
	require.NoError(t, p.processBatch(context.Background()))

	require.Len(t, repo.updates, 1)
	assert.Equal(t, model.OutboxStatusFailed, repo.updates[0].status)
	assert.Nil(t, repo.updates[0].retryAt)
}

func TestProcessBatchEmptyQueueIsNoop(t *testing.T) {
	repo := &fakeOutboxRepo{}
	broker := &fakeBroker{}

	p := NewOutboxProcessor(repo, broker, OutboxConfig{}, nil, testLogger())
	require.NoError(t, p.processBatch(context.Background()))

	assert.Empty(t, broker.published)
	assert.Empty(t, repo.updates)
}
