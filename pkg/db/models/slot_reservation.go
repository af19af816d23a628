package models

import (
	"time"

	"github.com/google/uuid"
)

// SlotReservation tracks consumed participant capacity per activity slot.
// Capacity consumption happens through a single conditional UPDATE so
// concurrent booking attempts can never jointly exceed the slot.
type SlotReservation struct {
	ActivityID    uuid.UUID `gorm:"column:activity_id;type:uuid;primaryKey"`
	EventDate     time.Time `gorm:"column:event_date;type:date;primaryKey"`
	SlotStart     string    `gorm:"column:slot_start;primaryKey"`
	Capacity      int       `gorm:"column:capacity;not null"`
	ReservedCount int       `gorm:"column:reserved_count;not null;default:0"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
