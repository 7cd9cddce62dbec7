package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// TaskWelcome is the Asynq task type of welcome emails.
const TaskWelcome = "email:welcome"

// WelcomeEmailPayload is the JSON payload of a TaskWelcome task.
type WelcomeEmailPayload struct {
	To       string `json:"to"`
	Username string `json:"username"`
	FullName string `json:"full_name,omitempty"`
}

// NewWelcomeEmailTask builds a welcome email task: 3 retries, default
// queue, 30s timeout.
func NewWelcomeEmailTask(p WelcomeEmailPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskWelcome,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue(QueueDefault),
		asynq.Timeout(30*time.Second),
	), nil
}

// EnqueueWelcome queues a welcome email for a freshly created user.
func (j *JobService) EnqueueWelcome(ctx context.Context, to, username, fullName string) error {
	task, err := NewWelcomeEmailTask(WelcomeEmailPayload{To: to, Username: username, FullName: fullName})
	if err != nil {
		return fmt.Errorf("building welcome task: %w", err)
	}

	info, err := j.Client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("enqueueing welcome task: %w", err)
	}

	j.logger.Debug().Str("task_id", info.ID).Str("queue", info.Queue).Msg("welcome email queued")
	return nil
}
