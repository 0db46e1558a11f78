package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// QueueDefault is the asynq queue notifications go to.
	QueueDefault = "default"
	// TaskRequisition carries a Summary to the worker.
	TaskRequisition = "notify:requisition"
)

const enqueueTimeout = 5 * time.Second

// NewRequisitionTask encodes s as an asynq task.
func NewRequisitionTask(s Summary) (*asynq.Task, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRequisition, data), nil
}

// Enqueuer is the part of *asynq.Client used by Queue.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Queue hands summaries to an asynq worker through Redis.
type Queue struct {
	client  Enqueuer
	logger  *slog.Logger
	retries int
	results *prometheus.CounterVec
}

func NewQueue(client Enqueuer, logger *slog.Logger, retries int, results *prometheus.CounterVec) *Queue {
	return &Queue{client: client, logger: logger, retries: retries, results: results}
}

func (q *Queue) NotifyRequisition(ctx context.Context, s Summary) {
	log := q.logger.With(slog.Int64("requisition_id", s.RequisitionID))
	task, err := NewRequisitionTask(s)
	if err != nil {
		observe(q.results, ResultFailed)
		log.Error("encode notification task", slog.Any("error", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), enqueueTimeout)
	defer cancel()
	info, err := q.client.EnqueueContext(ctx, task,
		asynq.TaskID(uuid.NewString()),
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(q.retries))
	if err != nil {
		observe(q.results, ResultFailed)
		log.Warn("enqueue notification failed", slog.Any("error", err))
		return
	}
	observe(q.results, ResultQueued)
	log.Debug("notification queued", slog.String("task_id", info.ID))
}

// HandleRequisitionTask returns the worker handler for TaskRequisition.
func HandleRequisitionTask(sender Sender, logger *slog.Logger, results *prometheus.CounterVec) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var s Summary
		if err := json.Unmarshal(t.Payload(), &s); err != nil {
			return fmt.Errorf("decode %s: %v: %w", TaskRequisition, err, asynq.SkipRetry)
		}
		if err := sender.Send(ctx, FormatRequisition(s)); err != nil {
			observe(results, ResultFailed)
			logger.Warn("telegram notification failed",
				slog.Int64("requisition_id", s.RequisitionID), slog.Any("error", err))
			return err
		}
		observe(results, ResultSent)
		return nil
	}
}
