package ratings

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mateoreynoso/tripline-backend/pkg/db/models"
)

// EventRef identifies one event occurrence: an activity on a given date
// and slot.
type EventRef struct {
	ActivityID uuid.UUID
	EventDate  time.Time
	SlotStart  string
}

// Repository persists ratings and the per-user community aggregates.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, rating *models.Rating) error
	// FindQualifyingBooking returns the rater's attended booking for the
	// event, or gorm.ErrRecordNotFound.
	FindQualifyingBooking(ctx context.Context, raterID uuid.UUID, event EventRef) (*models.Booking, error)
	HasRated(ctx context.Context, raterID uuid.UUID, event EventRef) (bool, error)
	// ListAttendees returns the distinct user ids present at the event,
	// booking owners and named participants alike.
	ListAttendees(ctx context.Context, event EventRef) ([]uuid.UUID, error)
	ListEntriesForUser(ctx context.Context, userID uuid.UUID) ([]models.RatingEntry, error)
	UpsertCommunityRating(ctx context.Context, agg *models.CommunityRating) error
	GetCommunityRating(ctx context.Context, userID uuid.UUID) (*models.CommunityRating, error)
}
