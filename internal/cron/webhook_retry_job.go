package cron

import (
	"context"
	"fmt"

	squarewebhook "github.com/mateoreynoso/tripline-backend/internal/webhooks/square"
	"github.com/mateoreynoso/tripline-backend/pkg/logger"
)

type parkedEventRetrier interface {
	RetryParked(ctx context.Context) (squarewebhook.RetryStats, error)
}

// WebhookRetryJobParams configure the parked webhook replay job.
type WebhookRetryJobParams struct {
	Logger   *logger.Logger
	Listener parkedEventRetrier
}

// NewWebhookRetryJob builds the job that replays gateway events whose
// booking had not landed when the webhook arrived.
func NewWebhookRetryJob(params WebhookRetryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Listener == nil {
		return nil, fmt.Errorf("webhook listener required")
	}
	return &webhookRetryJob{
		logg:     params.Logger,
		listener: params.Listener,
	}, nil
}

type webhookRetryJob struct {
	logg     *logger.Logger
	listener parkedEventRetrier
}

func (j *webhookRetryJob) Name() string { return "webhook-retry" }

func (j *webhookRetryJob) Run(ctx context.Context) error {
	stats, err := j.listener.RetryParked(ctx)
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"processed":     stats.Processed,
		"retried":       stats.Retried,
		"dead_lettered": stats.DeadLettered,
	})
	if err != nil {
		j.logg.Error(logCtx, "webhook retry pass finished with errors", err)
		return fmt.Errorf("retry parked webhook events: %w", err)
	}
	j.logg.Info(logCtx, "webhook retry pass complete")
	return nil
}
