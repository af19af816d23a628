package models

import (
	"time"

	"github.com/google/uuid"
)

// BookingParticipant holds per-attendee contact and requirement details.
type BookingParticipant struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	BookingID    uuid.UUID  `gorm:"column:booking_id;type:uuid;not null;index"`
	UserID       *uuid.UUID `gorm:"column:user_id;type:uuid;index"`
	Name         string     `gorm:"column:name;not null"`
	Email        *string    `gorm:"column:email"`
	Phone        *string    `gorm:"column:phone"`
	Requirements *string    `gorm:"column:requirements"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
}
