package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hadirly/hadirly-api/internal/models"
	"github.com/hadirly/hadirly-api/pkg/jobs"
)

// ChangeEvent is the payload broadcast after a successful mutating write so
// connected clients know to schedule a pull. Delivery is best-effort and not
// part of the sync contract.
type ChangeEvent struct {
	Entity    models.EntityType `json:"entity"`
	Operation models.Operation  `json:"operation"`
	At        time.Time         `json:"at"`
}

// NotifyService publishes change events to a Redis channel through a small
// worker queue so the request path never blocks on the broker.
type NotifyService struct {
	client  *redis.Client
	channel string
	queue   *jobs.Queue
	logger  *zap.Logger
}

// NewNotifyService constructs the notifier. A nil client disables it.
func NewNotifyService(client *redis.Client, channel string, logger *zap.Logger) *NotifyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if channel == "" {
		channel = "sync_update"
	}
	s := &NotifyService{client: client, channel: channel, logger: logger}
	s.queue = jobs.NewQueue("sync-notify", s.publish, jobs.QueueConfig{
		Workers:    1,
		BufferSize: 64,
		MaxRetries: 1,
		RetryDelay: 500 * time.Millisecond,
		Logger:     logger,
	})
	return s
}

// Start launches the publisher workers.
func (s *NotifyService) Start(ctx context.Context) {
	if s == nil || s.client == nil {
		return
	}
	s.queue.Start(ctx)
}

// Stop drains the publisher workers.
func (s *NotifyService) Stop() {
	if s == nil || s.client == nil {
		return
	}
	s.queue.Stop()
}

// EntityChanged enqueues a change broadcast. Failures are logged and dropped;
// the write that triggered the event has already succeeded.
func (s *NotifyService) EntityChanged(entity models.EntityType, operation models.Operation) {
	if s == nil || s.client == nil {
		return
	}
	event := ChangeEvent{Entity: entity, Operation: operation, At: time.Now().UTC()}
	err := s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    "entity_changed",
		Payload: event,
	})
	if err != nil {
		s.logger.Warn("change notification dropped", zap.String("entity", string(entity)), zap.Error(err))
	}
}

func (s *NotifyService) publish(ctx context.Context, job jobs.Job) error {
	event, ok := job.Payload.(ChangeEvent)
	if !ok {
		return fmt.Errorf("unexpected notify payload %T", job.Payload)
	}
	raw, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}
	if err := s.client.Publish(ctx, s.channel, raw).Err(); err != nil {
		return fmt.Errorf("publish change event: %w", err)
	}
	return nil
}
