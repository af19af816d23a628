package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/mateoreynoso/tripline-backend/pkg/logger"
)

type bookingExpirer interface {
	ExpirePendingBookings(ctx context.Context, cutoff time.Time) (int, error)
}

// BookingExpiryJobParams configure the pending booking sweeper.
type BookingExpiryJobParams struct {
	Logger *logger.Logger
	Ledger bookingExpirer
}

// NewBookingExpiryJob builds the job that cancels bookings still pending
// after their activity date passed, releasing the held slot capacity.
func NewBookingExpiryJob(params BookingExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Ledger == nil {
		return nil, fmt.Errorf("booking ledger required")
	}
	return &bookingExpiryJob{
		logg:   params.Logger,
		ledger: params.Ledger,
		now:    time.Now,
	}, nil
}

type bookingExpiryJob struct {
	logg   *logger.Logger
	ledger bookingExpirer
	now    func() time.Time
}

func (j *bookingExpiryJob) Name() string { return "booking-expiry" }

func (j *bookingExpiryJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC()
	expired, err := j.ledger.ExpirePendingBookings(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("expire pending bookings: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":  cutoff,
		"expired": expired,
	})
	j.logg.Info(logCtx, "booking expiry sweep complete")
	return nil
}
