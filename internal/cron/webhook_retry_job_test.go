package cron

import (
	"context"
	"errors"
	"testing"

	squarewebhook "github.com/mateoreynoso/tripline-backend/internal/webhooks/square"
	"github.com/mateoreynoso/tripline-backend/pkg/logger"
)

type fakeRetrier struct {
	stats  squarewebhook.RetryStats
	err    error
	called int
}

func (f *fakeRetrier) RetryParked(_ context.Context) (squarewebhook.RetryStats, error) {
	f.called++
	return f.stats, f.err
}

func TestWebhookRetryJobRuns(t *testing.T) {
	retrier := &fakeRetrier{stats: squarewebhook.RetryStats{Processed: 2, Retried: 1}}
	job, err := NewWebhookRetryJob(WebhookRetryJobParams{
		Logger:   logger.New(logger.Options{ServiceName: "test"}),
		Listener: retrier,
	})
	if err != nil {
		t.Fatalf("NewWebhookRetryJob: %v", err)
	}

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if retrier.called != 1 {
		t.Fatalf("expected one pass, got %d", retrier.called)
	}
	if job.Name() != "webhook-retry" {
		t.Fatalf("unexpected name %q", job.Name())
	}
}

func TestWebhookRetryJobPropagatesError(t *testing.T) {
	job, err := NewWebhookRetryJob(WebhookRetryJobParams{
		Logger:   logger.New(logger.Options{ServiceName: "test"}),
		Listener: &fakeRetrier{err: errors.New("boom")},
	})
	if err != nil {
		t.Fatalf("NewWebhookRetryJob: %v", err)
	}
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
