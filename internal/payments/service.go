package payments

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	sq "github.com/square/square-go-sdk"

	"github.com/mateoreynoso/tripline-backend/internal/bookings"
	"github.com/mateoreynoso/tripline-backend/pkg/db/models"
	"github.com/mateoreynoso/tripline-backend/pkg/enums"
	pkgerrors "github.com/mateoreynoso/tripline-backend/pkg/errors"
	"github.com/mateoreynoso/tripline-backend/pkg/logger"
	"github.com/mateoreynoso/tripline-backend/pkg/square"
)

type gateway interface {
	CreatePayment(ctx context.Context, params square.PaymentCreateParams) (*sq.Payment, error)
	RefundPayment(ctx context.Context, params square.RefundCreateParams) (*sq.PaymentRefund, error)
	LocationID() string
}

type paymentRecorder interface {
	UpdatePayment(ctx context.Context, paymentID uuid.UUID, updates map[string]any) error
}

type ledger interface {
	GetBooking(ctx context.Context, actor bookings.Actor, bookingID uuid.UUID) (*models.Booking, error)
	ReconcilePayment(ctx context.Context, input bookings.ReconcilePaymentInput) (*bookings.ReconcileResult, error)
}

// InitiatePaymentInput charges a pending booking with the supplied source.
type InitiatePaymentInput struct {
	Actor     bookings.Actor
	BookingID uuid.UUID
	Source    PaymentSource
}

// InitiatePaymentResult reports the synchronous charge outcome. A pending
// status means the webhook stream settles the payment later.
type InitiatePaymentResult struct {
	GatewayPaymentID string
	Status           enums.PaymentStatus
}

// RefundInput issues a gateway refund for an amount the ledger computed.
type RefundInput struct {
	GatewayPaymentID string
	AmountCents      int64
	Currency         enums.Currency
	Reason           string
}

// Service is the payment gateway adapter. It never computes refund amounts;
// those always come from the booking ledger.
type Service interface {
	InitiatePayment(ctx context.Context, input InitiatePaymentInput) (*InitiatePaymentResult, error)
	Refund(ctx context.Context, input RefundInput) (string, error)
}

type service struct {
	gw     gateway
	ledger ledger
	repo   paymentRecorder
	logg   *logger.Logger
}

// NewService builds the payment adapter service.
func NewService(gw gateway, ldg ledger, repo paymentRecorder, logg *logger.Logger) (Service, error) {
	if gw == nil {
		return nil, fmt.Errorf("gateway client required")
	}
	if ldg == nil {
		return nil, fmt.Errorf("booking ledger required")
	}
	if repo == nil {
		return nil, fmt.Errorf("bookings repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{gw: gw, ledger: ldg, repo: repo, logg: logg}, nil
}

func (s *service) InitiatePayment(ctx context.Context, input InitiatePaymentInput) (*InitiatePaymentResult, error) {
	if input.BookingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking id required")
	}

	resolved, err := resolveSource(input.Source)
	if err != nil {
		return nil, err
	}

	booking, err := s.ledger.GetBooking(ctx, input.Actor, input.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != enums.BookingStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "booking is not awaiting payment").
			WithDetails(map[string]string{"status": booking.Status.String()})
	}
	payment := booking.Payment
	if payment == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "booking has no payment record")
	}
	if payment.GatewayPaymentID != nil {
		// A charge is already in flight; report its current state instead
		// of charging twice.
		return &InitiatePaymentResult{
			GatewayPaymentID: *payment.GatewayPaymentID,
			Status:           payment.Status,
		}, nil
	}

	// The booking reference keys idempotency, so a retried initiation can
	// never double-charge.
	created, err := s.gw.CreatePayment(ctx, square.PaymentCreateParams{
		AmountCents:    payment.AmountCents,
		Currency:       payment.Currency.String(),
		LocationID:     s.gw.LocationID(),
		CustomerID:     resolved.customerID,
		SourceID:       resolved.sourceID,
		IdempotencyKey: booking.Reference,
		ReferenceID:    booking.Reference,
	})
	if err != nil {
		// The booking stays pending; the caller may retry or wait for
		// the webhook stream.
		return nil, err
	}

	gatewayID := stringValue(created.ID)
	if gatewayID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "gateway returned no payment id")
	}
	status := NormalizeGatewayStatus(stringValue(created.Status))
	brand, last4 := cardSummary(created)

	updates := map[string]any{
		"gateway_payment_id": gatewayID,
		"method":             resolved.method,
	}
	if brand != nil {
		updates["card_brand"] = brand
	}
	if last4 != nil {
		updates["card_last4"] = last4
	}
	if err := s.repo.UpdatePayment(ctx, payment.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record gateway payment id")
	}

	// Settled-synchronously outcomes go through the same reconciliation
	// path the webhook stream uses.
	if status != enums.PaymentStatusPending {
		if _, err := s.ledger.ReconcilePayment(ctx, bookings.ReconcilePaymentInput{
			GatewayPaymentID: gatewayID,
			Status:           status,
			CardBrand:        brand,
			CardLast4:        last4,
		}); err != nil {
			return nil, err
		}
	}

	return &InitiatePaymentResult{GatewayPaymentID: gatewayID, Status: status}, nil
}

func (s *service) Refund(ctx context.Context, input RefundInput) (string, error) {
	if input.GatewayPaymentID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "gateway payment id required")
	}
	if input.AmountCents <= 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "refund amount must be positive")
	}

	refund, err := s.gw.RefundPayment(ctx, square.RefundCreateParams{
		PaymentID:      input.GatewayPaymentID,
		AmountCents:    input.AmountCents,
		Currency:       input.Currency.String(),
		Reason:         input.Reason,
		IdempotencyKey: fmt.Sprintf("refund-%s", input.GatewayPaymentID),
	})
	if err != nil {
		return "", err
	}

	refundID := refund.ID
	status := NormalizeRefundStatus(stringValue(refund.Status))
	if status == enums.PaymentStatusRefunded {
		// Completed immediately; fold it into the ledger now rather than
		// waiting for the webhook echo.
		if _, err := s.ledger.ReconcilePayment(ctx, bookings.ReconcilePaymentInput{
			GatewayPaymentID: input.GatewayPaymentID,
			Status:           enums.PaymentStatusRefunded,
			GatewayRefundID:  &refundID,
			RefundCents:      &input.AmountCents,
		}); err != nil {
			return refundID, err
		}
	}
	return refundID, nil
}

func cardSummary(payment *sq.Payment) (brand, last4 *string) {
	if payment == nil {
		return nil, nil
	}
	details := payment.GetCardDetails()
	if details == nil {
		return nil, nil
	}
	card := details.GetCard()
	if card == nil {
		return nil, nil
	}
	if b := card.GetCardBrand(); b != nil {
		value := string(*b)
		brand = &value
	}
	return brand, card.GetLast4()
}

func stringValue(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}
