package payloads

import (
	"time"

	"github.com/google/uuid"

	"github.com/mateoreynoso/tripline-backend/pkg/enums"
)

// BookingCreatedEvent signals a new pending booking holding slot capacity.
type BookingCreatedEvent struct {
	BookingID    uuid.UUID `json:"booking_id"`
	Reference    string    `json:"reference"`
	UserID       uuid.UUID `json:"user_id"`
	ActivityID   uuid.UUID `json:"activity_id"`
	VendorID     uuid.UUID `json:"vendor_id"`
	EventDate    string    `json:"event_date"`
	SlotStart    string    `json:"slot_start"`
	Participants int       `json:"participants"`
	TotalCents   int64     `json:"total_cents"`
	Currency     string    `json:"currency"`
}

// BookingConfirmedEvent is emitted when payment settles and the booking confirms.
type BookingConfirmedEvent struct {
	BookingID        uuid.UUID `json:"booking_id"`
	Reference        string    `json:"reference"`
	UserID           uuid.UUID `json:"user_id"`
	VendorID         uuid.UUID `json:"vendor_id"`
	GatewayPaymentID string    `json:"gateway_payment_id"`
	AmountCents      int64     `json:"amount_cents"`
	PaidAt           time.Time `json:"paid_at"`
}

// BookingCancelledEvent carries the cancellation outcome including any refund due.
type BookingCancelledEvent struct {
	BookingID   uuid.UUID       `json:"booking_id"`
	Reference   string          `json:"reference"`
	UserID      uuid.UUID       `json:"user_id"`
	VendorID    uuid.UUID       `json:"vendor_id"`
	CancelledBy uuid.UUID       `json:"cancelled_by"`
	Role        enums.ActorRole `json:"role"`
	Reason      string          `json:"reason,omitempty"`
	RefundCents int64           `json:"refund_cents"`
	CancelledAt time.Time       `json:"cancelled_at"`
}

// BookingCompletedEvent fires when a vendor marks the activity delivered.
type BookingCompletedEvent struct {
	BookingID   uuid.UUID `json:"booking_id"`
	Reference   string    `json:"reference"`
	UserID      uuid.UUID `json:"user_id"`
	VendorID    uuid.UUID `json:"vendor_id"`
	CompletedAt time.Time `json:"completed_at"`
}

// BookingNoShowEvent fires when a vendor records the customer as absent.
type BookingNoShowEvent struct {
	BookingID uuid.UUID `json:"booking_id"`
	Reference string    `json:"reference"`
	UserID    uuid.UUID `json:"user_id"`
	VendorID  uuid.UUID `json:"vendor_id"`
}

// BookingExpiredEvent reports a pending booking released by the reconciler.
type BookingExpiredEvent struct {
	BookingID uuid.UUID `json:"bookingId"`
	Reference string    `json:"reference"`
	UserID    uuid.UUID `json:"userId"`
	VendorID  uuid.UUID `json:"vendorId"`
	ExpiredAt time.Time `json:"expiredAt"`
}

// PaymentFailedEvent surfaces a declined or errored charge.
type PaymentFailedEvent struct {
	BookingID        uuid.UUID `json:"booking_id"`
	Reference        string    `json:"reference"`
	UserID           uuid.UUID `json:"user_id"`
	GatewayPaymentID string    `json:"gateway_payment_id,omitempty"`
	FailureReason    string    `json:"failure_reason,omitempty"`
}

// PaymentRefundedEvent is emitted once the gateway acknowledges a refund.
type PaymentRefundedEvent struct {
	BookingID       uuid.UUID `json:"booking_id"`
	Reference       string    `json:"reference"`
	UserID          uuid.UUID `json:"user_id"`
	GatewayRefundID string    `json:"gateway_refund_id,omitempty"`
	RefundCents     int64     `json:"refund_cents"`
	RefundedAt      time.Time `json:"refunded_at"`
}

// RatingSubmittedEvent triggers community score recomputes for rated users.
type RatingSubmittedEvent struct {
	RatingID    uuid.UUID   `json:"rating_id"`
	BookingID   uuid.UUID   `json:"booking_id"`
	RaterID     uuid.UUID   `json:"rater_id"`
	ActivityID  uuid.UUID   `json:"activity_id"`
	RateeIDs    []uuid.UUID `json:"ratee_ids"`
	EventRating int         `json:"event_rating"`
}

// NotificationRequestedEvent tells downstream systems to alert a user or vendor.
type NotificationRequestedEvent struct {
	BookingID uuid.UUID `json:"booking_id"`
	UserID    uuid.UUID `json:"user_id"`
	VendorID  uuid.UUID `json:"vendor_id"`
	Type      string    `json:"type"`
}
