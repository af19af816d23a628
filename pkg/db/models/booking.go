package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mateoreynoso/tripline-backend/pkg/enums"
)

// Booking is the central ledger entity. The pricing snapshot columns are
// frozen at creation time; later activity price changes never touch them.
type Booking struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Reference  string    `gorm:"column:reference;not null;unique"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	ActivityID uuid.UUID `gorm:"column:activity_id;type:uuid;not null;index"`
	VendorID   uuid.UUID `gorm:"column:vendor_id;type:uuid;not null;index"`

	EventDate time.Time `gorm:"column:event_date;type:date;not null"`
	SlotStart string    `gorm:"column:slot_start;not null"`
	SlotEnd   string    `gorm:"column:slot_end;not null"`

	Participants int `gorm:"column:participants;not null"`

	Currency           enums.Currency `gorm:"column:currency;type:text;not null;default:'USD'"`
	BasePriceCents     int64          `gorm:"column:base_price_cents;not null"`
	DiscountCents      int64          `gorm:"column:discount_cents;not null;default:0"`
	DiscountReason     *string        `gorm:"column:discount_reason"`
	TaxRateBPS         int            `gorm:"column:tax_rate_bps;not null;default:0"`
	TaxCents           int64          `gorm:"column:tax_cents;not null;default:0"`
	PlatformFeeCents   int64          `gorm:"column:platform_fee_cents;not null;default:0"`
	ProcessingFeeCents int64          `gorm:"column:processing_fee_cents;not null;default:0"`
	TotalCents         int64          `gorm:"column:total_cents;not null"`

	Status enums.BookingStatus `gorm:"column:status;type:booking_status;not null;default:'pending'"`

	CancelledBy        *uuid.UUID       `gorm:"column:cancelled_by;type:uuid"`
	CancelledRole      *enums.ActorRole `gorm:"column:cancelled_role;type:text"`
	CancelledAt        *time.Time       `gorm:"column:cancelled_at"`
	CancellationReason *string          `gorm:"column:cancellation_reason"`
	RefundCents        *int64           `gorm:"column:refund_cents"`
	RefundProcessed    bool             `gorm:"column:refund_processed;not null;default:false"`

	CompletedAt *time.Time `gorm:"column:completed_at"`

	// Version serializes the ledger and the reconciliation listener writing
	// to the same row.
	Version int64 `gorm:"column:version;not null;default:0"`

	ParticipantDetails []BookingParticipant `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE"`
	Payment            *BookingPayment      `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// SlotStartAt combines the booking date and slot start time in UTC.
func (b Booking) SlotStartAt() time.Time {
	parsed, err := time.Parse("15:04", b.SlotStart)
	if err != nil {
		return b.EventDate
	}
	return time.Date(
		b.EventDate.Year(), b.EventDate.Month(), b.EventDate.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, time.UTC,
	)
}
