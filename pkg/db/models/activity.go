package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mateoreynoso/tripline-backend/pkg/enums"
	"github.com/mateoreynoso/tripline-backend/pkg/types"
)

// Activity is read-only catalog reference data. The engine never mutates it.
type Activity struct {
	ID       uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	VendorID uuid.UUID `gorm:"column:vendor_id;type:uuid;not null;index"`
	Title    string    `gorm:"column:title;not null"`

	Currency           enums.Currency `gorm:"column:currency;type:text;not null;default:'USD'"`
	BasePriceCents     int64          `gorm:"column:base_price_cents;not null"`
	TaxRateBPS         int            `gorm:"column:tax_rate_bps;not null;default:0"`
	PlatformFeeCents   int64          `gorm:"column:platform_fee_cents;not null;default:0"`
	ProcessingFeeCents int64          `gorm:"column:processing_fee_cents;not null;default:0"`

	CapacityMin int `gorm:"column:capacity_min;not null;default:1"`
	CapacityMax int `gorm:"column:capacity_max;not null"`

	Schedule      types.Schedule `gorm:"column:schedule;type:jsonb;serializer:json"`
	BlackoutDates types.DateList `gorm:"column:blackout_dates;type:jsonb;serializer:json"`

	// CancellationPolicy is display-only text; refund tiers are fixed.
	CancellationPolicy *string `gorm:"column:cancellation_policy"`

	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Vendor is read-only directory reference data.
type Vendor struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
