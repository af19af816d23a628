package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/mateoreynoso/tripline-backend/pkg/enums"
)

// WebhookEvent parks a verified gateway notification whose booking could not
// be resolved yet. The reconciler worker retries these for a bounded window
// before dead-lettering.
type WebhookEvent struct {
	ID               uuid.UUID                `gorm:"column:id;type:uuid;primaryKey"`
	GatewayEventID   string                   `gorm:"column:gateway_event_id;not null;unique"`
	GatewayPaymentID string                   `gorm:"column:gateway_payment_id;not null;index"`
	EventType        string                   `gorm:"column:event_type;not null"`
	Payload          json.RawMessage          `gorm:"column:payload;type:jsonb;not null"`
	Status           enums.WebhookEventStatus `gorm:"column:status;type:webhook_event_status;not null;default:'pending'"`
	AttemptCount     int                      `gorm:"column:attempt_count;not null;default:0"`
	LastError        *string                  `gorm:"column:last_error"`
	FirstSeenAt      time.Time                `gorm:"column:first_seen_at;not null"`
	DeadLetteredAt   *time.Time               `gorm:"column:dead_lettered_at"`
	CreatedAt        time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}
