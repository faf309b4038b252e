package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/telemedly/telemed-api/internal/model"
	"github.com/telemedly/telemed-api/internal/repository"
	"github.com/telemedly/telemed-api/pkg/logger"
	"github.com/telemedly/telemed-api/pkg/messaging"
)

const eventsChannel = "events"

var (
	processedEvents = promauto.NewCounter(prometheus.CounterOpts{
		Name: "outbox_events_processed_total",
		Help: "The total number of processed outbox events",
	})
	failedEvents = promauto.NewCounter(prometheus.CounterOpts{
		Name: "outbox_events_failed_total",
		Help: "The total number of failed outbox events",
	})
	processingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "outbox_processing_duration_seconds",
		Help:    "Time spent processing outbox batches",
		Buckets: prometheus.DefBuckets,
	})
)

type Config struct {
	PollInterval time.Duration
	BatchSize    int
}

func DefaultConfig() Config {
	return Config{
		PollInterval: 5 * time.Second,
		BatchSize:    100,
	}
}

// OutboxProcessor drains pending outbox events to the message broker. Events
// that fail to publish are marked failed with the error preserved; they are
// never retried automatically.
type OutboxProcessor struct {
	outboxRepo repository.OutboxRepository
	broker     messaging.Broker
	config     Config
	logger     *logger.Logger
}

func NewOutboxProcessor(outboxRepo repository.OutboxRepository, broker messaging.Broker, config Config, logger *logger.Logger) *OutboxProcessor {
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultConfig().PollInterval
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultConfig().BatchSize
	}
	return &OutboxProcessor{
		outboxRepo: outboxRepo,
		broker:     broker,
		config:     config,
		logger:     logger,
	}
}

func (p *OutboxProcessor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	p.logger.Info("outbox processor started")

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("outbox processor shutting down")
			return
		case <-ticker.C:
			if err := p.processEvents(ctx); err != nil {
				p.logger.Error(err, "failed to process outbox events")
			}
		}
	}
}

func (p *OutboxProcessor) processEvents(ctx context.Context) error {
	timer := prometheus.NewTimer(processingDuration)
	defer timer.ObserveDuration()

	events, err := p.outboxRepo.GetPending(ctx, p.config.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to get pending events: %w", err)
	}

	for _, event := range events {
		if err := p.publish(ctx, event); err != nil {
			failedEvents.Inc()
			p.logger.Error(err, "failed to publish event", "event_id", event.ID.String())
			if markErr := p.outboxRepo.MarkFailed(ctx, event.ID, err.Error()); markErr != nil {
				p.logger.Error(markErr, "failed to mark event failed", "event_id", event.ID.String())
			}
			continue
		}

		if err := p.outboxRepo.MarkProcessed(ctx, event.ID); err != nil {
			p.logger.Error(err, "failed to mark event processed", "event_id", event.ID.String())
			continue
		}
		processedEvents.Inc()
	}
	return nil
}

func (p *OutboxProcessor) publish(ctx context.Context, event *model.OutboxEvent) error {
	return p.broker.Publish(ctx, eventsChannel, messaging.Message{
		Type:    event.EventType,
		Payload: json.RawMessage(event.Payload),
	})
}
