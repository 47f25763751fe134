package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/internal/notifications"
	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/pkg/queue"
)

// NotificationProcessor processes notification dispatch jobs: resolve the
// notification, fan it out to the audience, and stamp delivered_at.
type NotificationProcessor struct {
	repo   *notifications.Repository
	queue  *queue.Queue
	logger *zap.Logger
}

// NewNotificationProcessor creates a notification dispatch processor.
func NewNotificationProcessor(repo *notifications.Repository, q *queue.Queue, logger *zap.Logger) *NotificationProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationProcessor{repo: repo, queue: q, logger: logger}
}

// Process executes one notification dispatch job.
func (p *NotificationProcessor) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeNotificationDispatch {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.NotificationDispatchPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	n, err := p.repo.GetByID(ctx, payload.NotificationID)
	if err != nil {
		return fmt.Errorf("notification not found: %s", payload.NotificationID)
	}
	if n.DeliveredAt != nil {
		p.logger.Info("notification already delivered", zap.String("notification_id", n.ID.String()))
		return nil
	}

	// Fan-out to push/email providers would go here. Live WebSocket clients
	// already got the broadcast from the API process at create time.
	if err := p.repo.MarkDelivered(ctx, n.ID); err != nil {
		return fmt.Errorf("mark delivered: %w", err)
	}

	p.logger.Info("notification dispatched",
		zap.String("notification_id", n.ID.String()),
		zap.String("audience", n.Audience))
	return nil
}

// Run starts the worker loop: dequeue, process, retry on error.
func (p *NotificationProcessor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("notification worker stopping")
			return
		default:
		}

		job, _, err := p.queue.Dequeue(ctx)
		if err != nil {
			p.logger.Warn("dequeue error", zap.Error(err))
			time.Sleep(queue.RetryBackoff)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			if reErr := p.queue.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			time.Sleep(queue.RetryBackoff)
			continue
		}
	}
}
