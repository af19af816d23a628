package models

import (
	"time"

	"github.com/google/uuid"
)

// Rating is a rater's post-event submission. At most one exists per
// (rater, event occurrence); the unique index enforces it.
type Rating struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	RaterID   uuid.UUID `gorm:"column:rater_id;type:uuid;not null;uniqueIndex:ux_ratings_rater_event"`
	BookingID uuid.UUID `gorm:"column:booking_id;type:uuid;not null;unique"`

	ActivityID uuid.UUID `gorm:"column:activity_id;type:uuid;not null;uniqueIndex:ux_ratings_rater_event"`
	EventDate  time.Time `gorm:"column:event_date;type:date;not null;uniqueIndex:ux_ratings_rater_event"`
	SlotStart  string    `gorm:"column:slot_start;not null;uniqueIndex:ux_ratings_rater_event"`

	EventRating   int     `gorm:"column:event_rating;not null"`
	PartnerRating int     `gorm:"column:partner_rating;not null"`
	Feedback      *string `gorm:"column:feedback"`

	Entries []RatingEntry `gorm:"foreignKey:RatingID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// RatingEntry scores one other attendee within a Rating.
type RatingEntry struct {
	ID       uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	RatingID uuid.UUID `gorm:"column:rating_id;type:uuid;not null;index"`
	RateeID  uuid.UUID `gorm:"column:ratee_id;type:uuid;not null;index"`
	Score    int       `gorm:"column:score;not null"`
	Comment  *string   `gorm:"column:comment"`
}
