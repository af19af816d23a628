package squarewebhook

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/mateoreynoso/tripline-backend/internal/bookings"
	"github.com/mateoreynoso/tripline-backend/internal/payments"
	"github.com/mateoreynoso/tripline-backend/pkg/db/models"
	"github.com/mateoreynoso/tripline-backend/pkg/enums"
	pkgerrors "github.com/mateoreynoso/tripline-backend/pkg/errors"
	"github.com/mateoreynoso/tripline-backend/pkg/logger"
)

const (
	defaultRetryWindow    = 24 * time.Hour
	defaultMaxAttempts    = 10
	defaultRetryBatchSize = 100
)

type ledger interface {
	ReconcilePayment(ctx context.Context, input bookings.ReconcilePaymentInput) (*bookings.ReconcileResult, error)
}

type refunder interface {
	Refund(ctx context.Context, input payments.RefundInput) (string, error)
}

// RetryStats summarizes one pass over the parked event backlog.
type RetryStats struct {
	Processed    int
	Retried      int
	DeadLettered int
}

// Service folds verified gateway notifications into the booking ledger.
type Service interface {
	// HandleEvent applies one delivery. Events for bookings that do not
	// exist yet are parked and acknowledged; the retry pass picks them up.
	HandleEvent(ctx context.Context, raw []byte, event *Event) error
	// RetryParked replays parked events, dead-lettering those that stay
	// unresolvable past the retry window or attempt cap.
	RetryParked(ctx context.Context) (RetryStats, error)
}

// RetryPolicy bounds how long parked events are replayed before
// dead-lettering. Zero fields fall back to defaults.
type RetryPolicy struct {
	Window      time.Duration
	MaxAttempts int
	BatchSize   int
}

type service struct {
	ledger  ledger
	refunds refunder
	repo    Repository
	logg    *logger.Logger

	retryWindow time.Duration
	maxAttempts int
	batchSize   int
	now         func() time.Time
}

// NewService wires the reconciliation listener.
func NewService(ldg ledger, refunds refunder, repo Repository, logg *logger.Logger, policy RetryPolicy) (Service, error) {
	if ldg == nil {
		return nil, fmt.Errorf("booking ledger required")
	}
	if refunds == nil {
		return nil, fmt.Errorf("payment refunder required")
	}
	if repo == nil {
		return nil, fmt.Errorf("webhook event repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if policy.Window <= 0 {
		policy.Window = defaultRetryWindow
	}
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = defaultMaxAttempts
	}
	if policy.BatchSize <= 0 {
		policy.BatchSize = defaultRetryBatchSize
	}
	return &service{
		ledger:      ldg,
		refunds:     refunds,
		repo:        repo,
		logg:        logg,
		retryWindow: policy.Window,
		maxAttempts: policy.MaxAttempts,
		batchSize:   policy.BatchSize,
		now:         time.Now,
	}, nil
}

func (s *service) HandleEvent(ctx context.Context, raw []byte, event *Event) error {
	if event == nil || event.EventID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "webhook event id required")
	}

	input, ok := reconcileInput(event)
	if !ok {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"event_id":   event.EventID,
			"event_type": event.Type,
		}), "ignoring webhook event")
		return nil
	}

	err := s.applyAndSettle(ctx, input)
	if err == nil {
		return nil
	}
	if appErr := pkgerrors.As(err); appErr != nil && appErr.Code() == pkgerrors.CodeNotFound {
		// The booking row may simply not have committed yet. Park the
		// event and acknowledge so the gateway stops redelivering.
		return s.park(ctx, raw, event, input.GatewayPaymentID)
	}
	return err
}

func (s *service) RetryParked(ctx context.Context) (RetryStats, error) {
	var stats RetryStats
	parked, err := s.repo.ListPending(ctx, s.batchSize)
	if err != nil {
		return stats, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list parked webhook events")
	}

	now := s.now()
	var errs error
	for _, item := range parked {
		event, parseErr := ParseEvent(item.Payload)
		if parseErr != nil {
			stats.DeadLettered++
			errs = multierr.Append(errs, s.repo.MarkDeadLettered(ctx, item.ID, parseErr.Error(), now))
			continue
		}

		input, ok := reconcileInput(event)
		if !ok {
			stats.DeadLettered++
			errs = multierr.Append(errs, s.repo.MarkDeadLettered(ctx, item.ID, "event carries no reconcilable payment fact", now))
			continue
		}

		applyErr := s.applyAndSettle(ctx, input)
		if applyErr == nil {
			stats.Processed++
			errs = multierr.Append(errs, s.repo.MarkProcessed(ctx, item.ID))
			continue
		}

		expired := item.AttemptCount+1 >= s.maxAttempts || now.Sub(item.FirstSeenAt) > s.retryWindow
		if expired {
			stats.DeadLettered++
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
				"event_id":           item.GatewayEventID,
				"gateway_payment_id": item.GatewayPaymentID,
				"attempts":           item.AttemptCount + 1,
			}), "dead-lettering webhook event")
			errs = multierr.Append(errs, s.repo.MarkDeadLettered(ctx, item.ID, applyErr.Error(), now))
			continue
		}

		stats.Retried++
		errs = multierr.Append(errs, s.repo.MarkFailedAttempt(ctx, item.ID, applyErr.Error()))
	}
	return stats, errs
}

// applyAndSettle lands the payment fact on the ledger and, when a settlement
// arrived for an already cancelled booking, pushes the money straight back.
func (s *service) applyAndSettle(ctx context.Context, input bookings.ReconcilePaymentInput) error {
	result, err := s.ledger.ReconcilePayment(ctx, input)
	if err != nil {
		return err
	}
	if result.Action != bookings.ActionRefundRequired {
		return nil
	}
	_, err = s.refunds.Refund(ctx, payments.RefundInput{
		GatewayPaymentID: input.GatewayPaymentID,
		AmountCents:      result.RefundCents,
		Currency:         result.Currency,
		Reason:           "booking cancelled before settlement",
	})
	return err
}

func (s *service) park(ctx context.Context, raw []byte, event *Event, gatewayPaymentID string) error {
	s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
		"event_id":           event.EventID,
		"event_type":         event.Type,
		"gateway_payment_id": gatewayPaymentID,
	}), "parking webhook event for unknown booking")
	err := s.repo.Park(ctx, &models.WebhookEvent{
		GatewayEventID:   event.EventID,
		GatewayPaymentID: gatewayPaymentID,
		EventType:        event.Type,
		Payload:          raw,
		Status:           enums.WebhookEventStatusPending,
		FirstSeenAt:      s.now(),
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "park webhook event")
	}
	return nil
}

// reconcileInput extracts the ledger-facing payment fact from an event.
// The second return is false when the event carries nothing to reconcile.
func reconcileInput(event *Event) (bookings.ReconcilePaymentInput, bool) {
	switch event.Type {
	case "payment.created", "payment.updated":
		p := event.Data.Object.Payment
		if p == nil || p.ID == "" {
			return bookings.ReconcilePaymentInput{}, false
		}
		input := bookings.ReconcilePaymentInput{
			GatewayPaymentID: p.ID,
			Status:           payments.NormalizeGatewayStatus(p.Status),
		}
		if input.Status == enums.PaymentStatusFailed {
			reason := p.Status
			input.FailureReason = &reason
		}
		return input, true

	case "refund.created", "refund.updated":
		r := event.Data.Object.Refund
		if r == nil || r.PaymentID == "" {
			return bookings.ReconcilePaymentInput{}, false
		}
		// Refunds only carry a ledger fact once completed.
		if payments.NormalizeRefundStatus(r.Status) != enums.PaymentStatusRefunded {
			return bookings.ReconcilePaymentInput{}, false
		}
		refundID := r.ID
		input := bookings.ReconcilePaymentInput{
			GatewayPaymentID: r.PaymentID,
			Status:           enums.PaymentStatusRefunded,
			GatewayRefundID:  &refundID,
		}
		if r.AmountMoney != nil {
			amount := r.AmountMoney.Amount
			input.RefundCents = &amount
		}
		return input, true
	}
	return bookings.ReconcilePaymentInput{}, false
}
