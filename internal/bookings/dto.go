package bookings

import (
	"time"

	"github.com/google/uuid"

	"github.com/mateoreynoso/tripline-backend/pkg/enums"
	"github.com/mateoreynoso/tripline-backend/pkg/pagination"
)

// Actor is the authenticated caller acting on a booking.
type Actor struct {
	UserID uuid.UUID
	Role   enums.ActorRole
}

// ParticipantInput carries one attendee's contact details on creation.
type ParticipantInput struct {
	UserID       *uuid.UUID
	Name         string
	Email        *string
	Phone        *string
	Requirements *string
}

// CreateBookingInput captures everything needed to open a pending booking.
type CreateBookingInput struct {
	Actor          Actor
	ActivityID     uuid.UUID
	EventDate      time.Time
	SlotStart      string
	Participants   int
	Details        []ParticipantInput
	DiscountCents  int64
	DiscountReason *string
}

// CancelBookingInput captures a cancellation request.
type CancelBookingInput struct {
	Actor     Actor
	BookingID uuid.UUID
	Reason    *string
}

// CancelResult reports the cancellation outcome. When RequiresRefund is set
// the caller issues the gateway refund for RefundCents against
// GatewayPaymentID after the ledger transaction commits.
type CancelResult struct {
	RefundCents      int64
	Currency         enums.Currency
	RequiresRefund   bool
	GatewayPaymentID string
}

// UpdateStatusInput captures a vendor or admin status change request.
type UpdateStatusInput struct {
	Actor     Actor
	BookingID uuid.UUID
	NewStatus enums.BookingStatus
}

// ListBookingsInput captures booking list queries for any caller role.
type ListBookingsInput struct {
	Actor      Actor
	Pagination pagination.Params
	Filters    ListFilters
}

// ReconcilePaymentInput is a normalized payment lifecycle fact to apply to
// the ledger, sourced from a gateway webhook or a synchronous charge result.
type ReconcilePaymentInput struct {
	GatewayPaymentID string
	Status           enums.PaymentStatus
	CardBrand        *string
	CardLast4        *string
	FailureReason    *string
	GatewayRefundID  *string
	RefundCents      *int64
}

// ReconcileAction tells the caller what follow-up, if any, the ledger needs
// after a payment fact was applied.
type ReconcileAction int

const (
	// ActionNone means the event was applied or discarded with nothing left to do.
	ActionNone ReconcileAction = iota
	// ActionRefundRequired means a payment settled on an already-cancelled
	// booking; the caller must issue a full refund through the gateway.
	ActionRefundRequired
)

// ReconcileResult reports how a payment fact landed on the ledger.
type ReconcileResult struct {
	BookingID   uuid.UUID
	Action      ReconcileAction
	RefundCents int64
	Currency    enums.Currency
	// Applied is false when the monotonic rule discarded the event.
	Applied bool
}
