package ratings

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mateoreynoso/tripline-backend/pkg/db/models"
	"github.com/mateoreynoso/tripline-backend/pkg/enums"
)

// attendedStatuses are booking states that put their holders at the event.
var attendedStatuses = []enums.BookingStatus{
	enums.BookingStatusConfirmed,
	enums.BookingStatusInProgress,
	enums.BookingStatusCompleted,
}

// qualifyingStatuses gate rating submission.
var qualifyingStatuses = []enums.BookingStatus{
	enums.BookingStatusConfirmed,
	enums.BookingStatusCompleted,
}

type repository struct {
	db *gorm.DB
}

// NewRepository wires a gorm-backed ratings store.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, rating *models.Rating) error {
	if rating.ID == uuid.Nil {
		rating.ID = uuid.New()
	}
	for i := range rating.Entries {
		if rating.Entries[i].ID == uuid.Nil {
			rating.Entries[i].ID = uuid.New()
		}
	}
	return r.db.WithContext(ctx).Create(rating).Error
}

func (r *repository) FindQualifyingBooking(ctx context.Context, raterID uuid.UUID, event EventRef) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND activity_id = ? AND event_date = ? AND slot_start = ?",
			raterID, event.ActivityID, event.EventDate, event.SlotStart).
		Where("status IN ?", qualifyingStatuses).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) HasRated(ctx context.Context, raterID uuid.UUID, event EventRef) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Where("rater_id = ? AND activity_id = ? AND event_date = ? AND slot_start = ?",
			raterID, event.ActivityID, event.EventDate, event.SlotStart).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) ListAttendees(ctx context.Context, event EventRef) ([]uuid.UUID, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Preload("ParticipantDetails").
		Where("activity_id = ? AND event_date = ? AND slot_start = ?",
			event.ActivityID, event.EventDate, event.SlotStart).
		Where("status IN ?", attendedStatuses).
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]struct{})
	var attendees []uuid.UUID
	add := func(id uuid.UUID) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		attendees = append(attendees, id)
	}
	for _, booking := range bookings {
		add(booking.UserID)
		for _, participant := range booking.ParticipantDetails {
			if participant.UserID != nil {
				add(*participant.UserID)
			}
		}
	}
	return attendees, nil
}

func (r *repository) ListEntriesForUser(ctx context.Context, userID uuid.UUID) ([]models.RatingEntry, error) {
	var entries []models.RatingEntry
	err := r.db.WithContext(ctx).
		Where("ratee_id = ?", userID).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) UpsertCommunityRating(ctx context.Context, agg *models.CommunityRating) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"total_score", "total_ratings", "average", "distribution", "updated_at",
			}),
		}).
		Create(agg).Error
}

func (r *repository) GetCommunityRating(ctx context.Context, userID uuid.UUID) (*models.CommunityRating, error) {
	var agg models.CommunityRating
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&agg).Error
	if err != nil {
		return nil, err
	}
	return &agg, nil
}
