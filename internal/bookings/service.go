package bookings

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mateoreynoso/tripline-backend/internal/availability"
	"github.com/mateoreynoso/tripline-backend/internal/catalog"
	"github.com/mateoreynoso/tripline-backend/internal/pricing"
	"github.com/mateoreynoso/tripline-backend/pkg/db/models"
	"github.com/mateoreynoso/tripline-backend/pkg/enums"
	pkgerrors "github.com/mateoreynoso/tripline-backend/pkg/errors"
	"github.com/mateoreynoso/tripline-backend/pkg/logger"
	"github.com/mateoreynoso/tripline-backend/pkg/outbox"
	"github.com/mateoreynoso/tripline-backend/pkg/outbox/payloads"
	"github.com/mateoreynoso/tripline-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type quoter interface {
	Quote(ctx context.Context, in pricing.Input) (pricing.Quote, error)
}

// SlotReserver consumes and releases slot capacity inside the ledger's
// transactions.
type SlotReserver interface {
	Reserve(ctx context.Context, tx *gorm.DB, slot availability.SlotRef, participants, capacity int) error
	Release(ctx context.Context, tx *gorm.DB, slot availability.SlotRef, participants int) error
}

type slotReserverImpl struct {
	logg *logger.Logger
}

// NewSlotReserver exposes the default slot reservation implementation.
func NewSlotReserver(logg *logger.Logger) SlotReserver {
	return slotReserverImpl{logg: logg}
}

func (s slotReserverImpl) Reserve(ctx context.Context, tx *gorm.DB, slot availability.SlotRef, participants, capacity int) error {
	return availability.Reserve(ctx, tx, s.logg, slot, participants, capacity)
}

func (s slotReserverImpl) Release(ctx context.Context, tx *gorm.DB, slot availability.SlotRef, participants int) error {
	return availability.Release(ctx, tx, slot, participants)
}

// Service is the booking ledger. It is the only writer of booking status;
// payment lifecycle facts reach it through ReconcilePayment.
type Service interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*models.Booking, error)
	GetBooking(ctx context.Context, actor Actor, bookingID uuid.UUID) (*models.Booking, error)
	ListBookings(ctx context.Context, input ListBookingsInput) (*BookingList, error)
	CancelBooking(ctx context.Context, input CancelBookingInput) (*CancelResult, error)
	UpdateBookingStatus(ctx context.Context, input UpdateStatusInput) (*models.Booking, error)
	ReconcilePayment(ctx context.Context, input ReconcilePaymentInput) (*ReconcileResult, error)
	ExpirePendingBookings(ctx context.Context, cutoff time.Time) (int, error)
}

type service struct {
	repo    Repository
	catalog catalog.Repository
	pricing quoter
	slots   SlotReserver
	tx      txRunner
	outbox  outboxPublisher
	logg    *logger.Logger
	now     func() time.Time
}

// NewService builds the booking ledger service with its dependencies.
func NewService(repo Repository, cat catalog.Repository, calc quoter, slots SlotReserver, tx txRunner, publisher outboxPublisher, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("bookings repository required")
	}
	if cat == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if calc == nil {
		return nil, fmt.Errorf("pricing calculator required")
	}
	if slots == nil {
		return nil, fmt.Errorf("slot reserver required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:    repo,
		catalog: cat,
		pricing: calc,
		slots:   slots,
		tx:      tx,
		outbox:  publisher,
		logg:    logg,
		now:     time.Now,
	}, nil
}

const referenceAttempts = 3

func (s *service) CreateBooking(ctx context.Context, input CreateBookingInput) (*models.Booking, error) {
	if input.Actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.ActivityID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "activity id required")
	}
	if input.Participants < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one participant required")
	}
	if input.SlotStart == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slot start required")
	}
	if len(input.Details) > input.Participants {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "more participant details than participants")
	}

	activity, err := s.catalog.GetActivity(ctx, input.ActivityID)
	if err != nil {
		return nil, err
	}
	if !activity.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "activity is not bookable")
	}
	vendor, err := s.catalog.GetVendor(ctx, activity.VendorID)
	if err != nil {
		return nil, err
	}
	if !vendor.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor is not active")
	}

	slot, err := availability.Validate(activity, availability.Request{
		Date:         input.EventDate,
		SlotStart:    input.SlotStart,
		Participants: input.Participants,
	})
	if err != nil {
		return nil, err
	}

	startAt, err := slotStartAt(input.EventDate, input.SlotStart)
	if err != nil {
		return nil, err
	}
	if !startAt.After(s.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "activity start is in the past")
	}

	quote, err := s.pricing.Quote(ctx, pricing.Input{
		BasePriceCents:     activity.BasePriceCents,
		Participants:       input.Participants,
		DiscountCents:      input.DiscountCents,
		TaxRateBPS:         activity.TaxRateBPS,
		PlatformFeeCents:   activity.PlatformFeeCents,
		ProcessingFeeCents: activity.ProcessingFeeCents,
	})
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		ID:           uuid.New(),
		UserID:       input.Actor.UserID,
		ActivityID:   activity.ID,
		VendorID:     activity.VendorID,
		EventDate:    dateOnly(input.EventDate),
		SlotStart:    slot.Start,
		SlotEnd:      slot.End,
		Participants: input.Participants,

		Currency:           activity.Currency,
		BasePriceCents:     activity.BasePriceCents,
		DiscountCents:      quote.DiscountCents,
		DiscountReason:     input.DiscountReason,
		TaxRateBPS:         activity.TaxRateBPS,
		TaxCents:           quote.TaxCents,
		PlatformFeeCents:   activity.PlatformFeeCents,
		ProcessingFeeCents: activity.ProcessingFeeCents,
		TotalCents:         quote.TotalCents,

		Status: enums.BookingStatusPending,
	}
	for _, detail := range input.Details {
		booking.ParticipantDetails = append(booking.ParticipantDetails, models.BookingParticipant{
			ID:           uuid.New(),
			UserID:       detail.UserID,
			Name:         detail.Name,
			Email:        detail.Email,
			Phone:        detail.Phone,
			Requirements: detail.Requirements,
		})
	}
	booking.Payment = &models.BookingPayment{
		ID:          uuid.New(),
		Status:      enums.PaymentStatusPending,
		AmountCents: quote.TotalCents,
		Currency:    activity.Currency,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.slots.Reserve(ctx, tx, availability.SlotRef{
			ActivityID: activity.ID,
			Date:       booking.EventDate,
			Start:      booking.SlotStart,
		}, input.Participants, availability.SlotCapacity(activity, slot)); err != nil {
			return err
		}

		repo := s.repo.WithTx(tx)
		for attempt := 0; attempt < referenceAttempts; attempt++ {
			booking.Reference = NewReference()
			err := repo.Create(ctx, booking)
			if err == nil {
				break
			}
			if pkgerrors.IsUniqueViolation(err, "reference") && attempt < referenceAttempts-1 {
				continue
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist booking")
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventBookingCreated,
			AggregateType: enums.AggregateBooking,
			AggregateID:   booking.ID,
			Version:       1,
			Actor:         actorRef(input.Actor),
			Data: payloads.BookingCreatedEvent{
				BookingID:    booking.ID,
				Reference:    booking.Reference,
				UserID:       booking.UserID,
				ActivityID:   booking.ActivityID,
				VendorID:     booking.VendorID,
				EventDate:    booking.EventDate.Format(types.DateFormat),
				SlotStart:    booking.SlotStart,
				Participants: booking.Participants,
				TotalCents:   booking.TotalCents,
				Currency:     booking.Currency.String(),
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *service) GetBooking(ctx context.Context, actor Actor, bookingID uuid.UUID) (*models.Booking, error) {
	if bookingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking id required")
	}
	booking, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		if notFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
	}
	if err := authorizeActor(actor, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *service) ListBookings(ctx context.Context, input ListBookingsInput) (*BookingList, error) {
	if input.Actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	switch input.Actor.Role {
	case enums.ActorRoleVendor:
		return s.repo.ListByVendor(ctx, input.Actor.UserID, input.Pagination, input.Filters)
	default:
		return s.repo.ListByUser(ctx, input.Actor.UserID, input.Pagination, input.Filters)
	}
}

func (s *service) CancelBooking(ctx context.Context, input CancelBookingInput) (*CancelResult, error) {
	if input.BookingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking id required")
	}
	if input.Actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var result CancelResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		booking, err := repo.FindByID(ctx, input.BookingID)
		if err != nil {
			if notFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
		}
		if err := authorizeActor(input.Actor, booking); err != nil {
			return err
		}
		if booking.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "booking is already terminal").
				WithDetails(map[string]string{"status": booking.Status.String()})
		}

		// The refund window is evaluated at the instant of the request,
		// never cached. The gate applies to pending bookings too.
		refundCents, err := ComputeRefund(booking.TotalCents, booking.SlotStartAt().Sub(s.now()))
		if err != nil {
			return err
		}
		paid := booking.Payment != nil &&
			booking.Payment.Status == enums.PaymentStatusPaid &&
			booking.Payment.GatewayPaymentID != nil
		if !paid {
			// Nothing was charged, so nothing comes back.
			refundCents = 0
		}

		cancelledAt := s.now()
		updates := map[string]any{
			"status":              enums.BookingStatusCancelled,
			"cancelled_by":        input.Actor.UserID,
			"cancelled_role":      input.Actor.Role,
			"cancelled_at":        cancelledAt,
			"cancellation_reason": input.Reason,
			"refund_cents":        refundCents,
		}
		if err := repo.UpdateGuarded(ctx, booking.ID, booking.Version, updates); err != nil {
			return err
		}

		if err := s.slots.Release(ctx, tx, availability.SlotRef{
			ActivityID: booking.ActivityID,
			Date:       booking.EventDate,
			Start:      booking.SlotStart,
		}, booking.Participants); err != nil {
			return err
		}

		if paid && refundCents > 0 {
			result.RequiresRefund = true
			result.GatewayPaymentID = *booking.Payment.GatewayPaymentID
		}
		result.RefundCents = refundCents
		result.Currency = booking.Currency

		reason := ""
		if input.Reason != nil {
			reason = *input.Reason
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventBookingCancelled,
			AggregateType: enums.AggregateBooking,
			AggregateID:   booking.ID,
			Version:       1,
			Actor:         actorRef(input.Actor),
			Data: payloads.BookingCancelledEvent{
				BookingID:   booking.ID,
				Reference:   booking.Reference,
				UserID:      booking.UserID,
				VendorID:    booking.VendorID,
				CancelledBy: input.Actor.UserID,
				Role:        input.Actor.Role,
				Reason:      reason,
				RefundCents: refundCents,
				CancelledAt: cancelledAt,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *service) UpdateBookingStatus(ctx context.Context, input UpdateStatusInput) (*models.Booking, error) {
	if input.BookingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking id required")
	}
	if input.Actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.Actor.Role != enums.ActorRoleVendor && input.Actor.Role != enums.ActorRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "vendor or admin role required")
	}
	switch input.NewStatus {
	case enums.BookingStatusInProgress, enums.BookingStatusCompleted, enums.BookingStatusNoShow:
	case enums.BookingStatusConfirmed:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "confirmation is driven by payment settlement")
	case enums.BookingStatusCancelled:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "use the cancellation operation")
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid target status")
	}

	var updated *models.Booking
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		booking, err := repo.FindByID(ctx, input.BookingID)
		if err != nil {
			if notFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
		}
		if err := authorizeActor(input.Actor, booking); err != nil {
			return err
		}
		if !CanTransition(booking.Status, input.NewStatus) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "transition not allowed from current status").
				WithDetails(map[string]string{
					"from": booking.Status.String(),
					"to":   input.NewStatus.String(),
				})
		}

		updates := map[string]any{"status": input.NewStatus}
		completedAt := s.now()
		if input.NewStatus == enums.BookingStatusCompleted {
			updates["completed_at"] = completedAt
		}
		if err := repo.UpdateGuarded(ctx, booking.ID, booking.Version, updates); err != nil {
			return err
		}
		booking.Status = input.NewStatus
		booking.Version++
		if input.NewStatus == enums.BookingStatusCompleted {
			booking.CompletedAt = &completedAt
		}
		updated = booking

		switch input.NewStatus {
		case enums.BookingStatusCompleted:
			return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventBookingCompleted,
				AggregateType: enums.AggregateBooking,
				AggregateID:   booking.ID,
				Version:       1,
				Actor:         actorRef(input.Actor),
				Data: payloads.BookingCompletedEvent{
					BookingID:   booking.ID,
					Reference:   booking.Reference,
					UserID:      booking.UserID,
					VendorID:    booking.VendorID,
					CompletedAt: completedAt,
				},
			})
		case enums.BookingStatusNoShow:
			return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventBookingNoShow,
				AggregateType: enums.AggregateBooking,
				AggregateID:   booking.ID,
				Version:       1,
				Actor:         actorRef(input.Actor),
				Data: payloads.BookingNoShowEvent{
					BookingID: booking.ID,
					Reference: booking.Reference,
					UserID:    booking.UserID,
					VendorID:  booking.VendorID,
				},
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) ReconcilePayment(ctx context.Context, input ReconcilePaymentInput) (*ReconcileResult, error) {
	if input.GatewayPaymentID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "gateway payment id required")
	}
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment status")
	}

	var result ReconcileResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		booking, err := repo.FindByGatewayPaymentID(ctx, input.GatewayPaymentID)
		if err != nil {
			if notFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "no booking for gateway payment id")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking by payment")
		}
		payment := booking.Payment
		if payment == nil {
			return pkgerrors.New(pkgerrors.CodeInternal, "booking has no payment record")
		}
		result.BookingID = booking.ID
		result.Currency = payment.Currency

		// Monotonic rule: never step payment status backwards.
		if input.Status.Rank() <= payment.Status.Rank() {
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
				"booking_id": booking.ID.String(),
				"stored":     payment.Status.String(),
				"incoming":   input.Status.String(),
			}), "discarding out-of-order payment event")
			return nil
		}

		now := s.now()
		paymentUpdates := map[string]any{"status": input.Status}
		if input.CardBrand != nil {
			paymentUpdates["card_brand"] = input.CardBrand
		}
		if input.CardLast4 != nil {
			paymentUpdates["card_last4"] = input.CardLast4
		}

		switch input.Status {
		case enums.PaymentStatusPaid:
			paymentUpdates["paid_at"] = now
			if err := repo.UpdatePayment(ctx, payment.ID, paymentUpdates); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment")
			}
			result.Applied = true

			switch booking.Status {
			case enums.BookingStatusPending:
				if err := repo.UpdateGuarded(ctx, booking.ID, booking.Version, map[string]any{
					"status": enums.BookingStatusConfirmed,
				}); err != nil {
					return err
				}
				return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
					EventType:     enums.EventBookingConfirmed,
					AggregateType: enums.AggregateBooking,
					AggregateID:   booking.ID,
					Version:       1,
					Data: payloads.BookingConfirmedEvent{
						BookingID:        booking.ID,
						Reference:        booking.Reference,
						UserID:           booking.UserID,
						VendorID:         booking.VendorID,
						GatewayPaymentID: input.GatewayPaymentID,
						AmountCents:      payment.AmountCents,
						PaidAt:           now,
					},
				})
			case enums.BookingStatusCancelled:
				// A late settlement never resurrects a cancelled
				// booking; the money goes straight back.
				result.Action = ActionRefundRequired
				result.RefundCents = payment.AmountCents
				return nil
			default:
				return nil
			}

		case enums.PaymentStatusFailed:
			if input.FailureReason != nil {
				paymentUpdates["failure_reason"] = input.FailureReason
			}
			if err := repo.UpdatePayment(ctx, payment.ID, paymentUpdates); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment")
			}
			result.Applied = true
			reason := ""
			if input.FailureReason != nil {
				reason = *input.FailureReason
			}
			return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventPaymentFailed,
				AggregateType: enums.AggregateBooking,
				AggregateID:   booking.ID,
				Version:       1,
				Data: payloads.PaymentFailedEvent{
					BookingID:        booking.ID,
					Reference:        booking.Reference,
					UserID:           booking.UserID,
					GatewayPaymentID: input.GatewayPaymentID,
					FailureReason:    reason,
				},
			})

		case enums.PaymentStatusRefunded:
			refundCents := payment.AmountCents
			if input.RefundCents != nil {
				refundCents = *input.RefundCents
			}
			paymentUpdates["refunded_at"] = now
			paymentUpdates["refund_cents"] = refundCents
			if input.GatewayRefundID != nil {
				paymentUpdates["gateway_refund_id"] = input.GatewayRefundID
			}
			if err := repo.UpdatePayment(ctx, payment.ID, paymentUpdates); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment")
			}
			if err := repo.UpdateGuarded(ctx, booking.ID, booking.Version, map[string]any{
				"refund_processed": true,
			}); err != nil {
				return err
			}
			result.Applied = true
			refundID := ""
			if input.GatewayRefundID != nil {
				refundID = *input.GatewayRefundID
			}
			return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventPaymentRefunded,
				AggregateType: enums.AggregateBooking,
				AggregateID:   booking.ID,
				Version:       1,
				Data: payloads.PaymentRefundedEvent{
					BookingID:       booking.ID,
					Reference:       booking.Reference,
					UserID:          booking.UserID,
					GatewayRefundID: refundID,
					RefundCents:     refundCents,
					RefundedAt:      now,
				},
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *service) ExpirePendingBookings(ctx context.Context, cutoff time.Time) (int, error) {
	stale, err := s.repo.FindPendingBefore(ctx, cutoff)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stale pending bookings")
	}

	expired := 0
	for _, booking := range stale {
		booking := booking
		err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			repo := s.repo.WithTx(tx)
			if err := repo.UpdateGuarded(ctx, booking.ID, booking.Version, map[string]any{
				"status":       enums.BookingStatusCancelled,
				"cancelled_at": s.now(),
			}); err != nil {
				return err
			}
			if err := s.slots.Release(ctx, tx, availability.SlotRef{
				ActivityID: booking.ActivityID,
				Date:       booking.EventDate,
				Start:      booking.SlotStart,
			}, booking.Participants); err != nil {
				return err
			}
			return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventBookingExpired,
				AggregateType: enums.AggregateBooking,
				AggregateID:   booking.ID,
				Version:       1,
				Data: payloads.BookingExpiredEvent{
					BookingID: booking.ID,
					Reference: booking.Reference,
					UserID:    booking.UserID,
					VendorID:  booking.VendorID,
					ExpiredAt: s.now(),
				},
			})
		})
		if err != nil {
			// A concurrent confirmation losing the version race is
			// expected; skip and move on.
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
				"booking_id": booking.ID.String(),
				"error":      err.Error(),
			}), "skipping booking expiry")
			continue
		}
		expired++
	}
	return expired, nil
}

// authorizeActor gates booking access. Customers see their own bookings,
// vendor actors act on bookings for their own listings, admins see all.
func authorizeActor(actor Actor, booking *models.Booking) error {
	switch actor.Role {
	case enums.ActorRoleAdmin:
		return nil
	case enums.ActorRoleVendor:
		if booking.VendorID == actor.UserID {
			return nil
		}
	default:
		if booking.UserID == actor.UserID {
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "booking does not belong to caller")
}

func actorRef(actor Actor) *outbox.ActorRef {
	if actor.UserID == uuid.Nil {
		return nil
	}
	return &outbox.ActorRef{UserID: actor.UserID, Role: actor.Role.String()}
}

func slotStartAt(date time.Time, start string) (time.Time, error) {
	parsed, err := time.Parse(types.SlotTimeFormat, start)
	if err != nil {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "slot start must be HH:MM")
	}
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, time.UTC,
	), nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
