package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/medinfo/medinfo-api/internal/model"
	"github.com/medinfo/medinfo-api/internal/repository"
	"github.com/medinfo/medinfo-api/pkg/logger"
	"github.com/medinfo/medinfo-api/pkg/messaging"
	"github.com/medinfo/medinfo-api/pkg/metrics"
)

const eventsChannel = "drug_events"

type OutboxConfig struct {
	PollInterval time.Duration
	BatchSize    int
	MaxRetries   int
	RetryBackoff time.Duration
	Retention    time.Duration
}

// OutboxProcessor drains the outbox table and publishes catalog events to
// the broker. Events that keep failing past MaxRetries are marked failed and
// left in the table for inspection.
type OutboxProcessor struct {
	repo   repository.OutboxRepository
	broker messaging.Broker
	cfg    OutboxConfig
	met    *metrics.Metrics
	logger *logger.Logger
}

func NewOutboxProcessor(repo repository.OutboxRepository, broker messaging.Broker, cfg OutboxConfig, met *metrics.Metrics, log *logger.Logger) *OutboxProcessor {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 5
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 30 * time.Second
	}
	return &OutboxProcessor{repo: repo, broker: broker, cfg: cfg, met: met, logger: log}
}

// Run polls until ctx is cancelled.
func (p *OutboxProcessor) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()

	cleanup := time.NewTicker(1 * time.Hour)
	defer cleanup.Stop()

	p.logger.WithFields(map[string]interface{}{
		"poll_interval": p.cfg.PollInterval.String(),
		"batch_size":    p.cfg.BatchSize,
	}).Info("outbox processor started")

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("outbox processor stopping")
			return ctx.Err()
		case <-ticker.C:
			if err := p.processBatch(ctx); err != nil {
				p.logger.Error(err, "failed to process outbox batch")
			}
		case <-cleanup.C:
			if p.cfg.Retention > 0 {
				p.purge(ctx)
			}
		}
	}
}

func (p *OutboxProcessor) processBatch(ctx context.Context) error {
	start := time.Now()

	events, err := p.repo.GetPendingEventsWithLock(ctx, p.cfg.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to fetch pending events: %w", err)
	}
	if len(events) == 0 {
		return nil
	}

	for _, event := range events {
		p.handleEvent(ctx, event)
	}

	if p.met != nil {
		p.met.OutboxLatency.Observe(time.Since(start).Seconds())
	}
	return nil
}

func (p *OutboxProcessor) handleEvent(ctx context.Context, event *model.OutboxEvent) {
	msg := messaging.Message{Type: event.EventType, Payload: json.RawMessage(event.Payload)}

	publishErr := p.broker.Publish(ctx, eventsChannel, msg)
	if publishErr == nil {
		if err := p.repo.UpdateStatus(ctx, event.ID, model.OutboxStatusProcessed, nil, nil); err != nil {
			p.logger.WithFields(map[string]interface{}{"event_id": event.ID.String()}).Error(err, "failed to mark event processed")
			return
		}
		if p.met != nil {
			p.met.OutboxEventsProcessed.Inc()
		}
		return
	}

	errMsg := publishErr.Error()
	if event.RetryCount+1 >= p.cfg.MaxRetries {
		if err := p.repo.UpdateStatus(ctx, event.ID, model.OutboxStatusFailed, &errMsg, nil); err != nil {
			p.logger.WithFields(map[string]interface{}{"event_id": event.ID.String()}).Error(err, "failed to mark event failed")
			return
		}
		if p.met != nil {
			p.met.OutboxEventsFailed.Inc()
		}
		p.logger.WithFields(map[string]interface{}{
			"event_id":   event.ID.String(),
			"event_type": event.EventType,
		}).Error(publishErr, "outbox event exhausted retries")
		return
	}

	// Linear backoff keeps retries spread out without starving newer events.
	retryAt := time.Now().Add(p.cfg.RetryBackoff * time.Duration(event.RetryCount+1))
	if err := p.repo.UpdateStatus(ctx, event.ID, model.OutboxStatusRetry, &errMsg, &retryAt); err != nil {
		p.logger.WithFields(map[string]interface{}{"event_id": event.ID.String()}).Error(err, "failed to schedule event retry")
		return
	}
	if p.met != nil {
		p.met.OutboxRetries.WithLabelValues(event.EventType).Inc()
	}
}

func (p *OutboxProcessor) purge(ctx context.Context) {
	cutoff := time.Now().Add(-p.cfg.Retention)
	deleted, err := p.repo.DeleteProcessedBefore(ctx, cutoff)
	if err != nil {
		p.logger.Error(err, "failed to purge processed events")
		return
	}
	if deleted > 0 {
		p.logger.WithFields(map[string]interface{}{"count": deleted}).Info("purged processed outbox events")
	}
}
