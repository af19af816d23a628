package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mateoreynoso/tripline-backend/pkg/enums"
)

// BookingPayment tracks gateway payment progress for a booking. The gateway
// payment id is the reconciliation anchor for webhook events.
type BookingPayment struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	BookingID        uuid.UUID           `gorm:"column:booking_id;type:uuid;not null;unique"`
	GatewayPaymentID *string             `gorm:"column:gateway_payment_id;unique"`
	Method           enums.PaymentMethod `gorm:"column:method;type:payment_method;not null;default:'card'"`
	Status           enums.PaymentStatus `gorm:"column:status;type:payment_status;not null;default:'pending'"`
	AmountCents      int64               `gorm:"column:amount_cents;not null"`
	Currency         enums.Currency      `gorm:"column:currency;type:text;not null;default:'USD'"`
	CardBrand        *string             `gorm:"column:card_brand"`
	CardLast4        *string             `gorm:"column:card_last4"`
	PaidAt           *time.Time          `gorm:"column:paid_at"`
	RefundedAt       *time.Time          `gorm:"column:refunded_at"`
	RefundCents      int64               `gorm:"column:refund_cents;not null;default:0"`
	GatewayRefundID  *string             `gorm:"column:gateway_refund_id"`
	FailureReason    *string             `gorm:"column:failure_reason"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
