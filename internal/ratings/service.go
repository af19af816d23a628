package ratings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mateoreynoso/tripline-backend/pkg/db/models"
	"github.com/mateoreynoso/tripline-backend/pkg/enums"
	pkgerrors "github.com/mateoreynoso/tripline-backend/pkg/errors"
	"github.com/mateoreynoso/tripline-backend/pkg/logger"
	"github.com/mateoreynoso/tripline-backend/pkg/outbox"
	"github.com/mateoreynoso/tripline-backend/pkg/outbox/payloads"
	"github.com/mateoreynoso/tripline-backend/pkg/types"
)

// RejectReason labels why a rating submission was refused.
type RejectReason string

const (
	ReasonNotAttended              RejectReason = "NotAttended"
	ReasonAlreadyRated             RejectReason = "AlreadyRated"
	ReasonInvalidParticipant       RejectReason = "InvalidParticipant"
	ReasonInsufficientParticipants RejectReason = "InsufficientParticipants"
	ReasonOutOfRange               RejectReason = "OutOfRange"
)

const minScore, maxScore = 1, 5

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// ParticipantRating scores one other attendee.
type ParticipantRating struct {
	RateeID uuid.UUID
	Score   int
	Comment *string
}

// SubmitRatingInput is one rater's post-event submission.
type SubmitRatingInput struct {
	RaterID            uuid.UUID
	Event              EventRef
	ParticipantRatings []ParticipantRating
	EventRating        int
	PartnerRating      int
	Feedback           *string
}

// Service gates and aggregates post-event ratings.
type Service interface {
	SubmitRating(ctx context.Context, input SubmitRatingInput) (*models.Rating, error)
	// RecomputeCommunityRating rebuilds one user's aggregate from every
	// entry referencing them. The rating-submitted consumer drives it.
	RecomputeCommunityRating(ctx context.Context, userID uuid.UUID) (*models.CommunityRating, error)
	GetCommunityRating(ctx context.Context, userID uuid.UUID) (*models.CommunityRating, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
	logg   *logger.Logger
}

// NewService wires the rating gate.
func NewService(repo Repository, tx txRunner, publisher outboxPublisher, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ratings repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, tx: tx, outbox: publisher, logg: logg}, nil
}

func rejected(reason RejectReason, message string) error {
	code := pkgerrors.CodeValidation
	if reason == ReasonAlreadyRated {
		code = pkgerrors.CodeConflict
	}
	return pkgerrors.New(code, message).
		WithDetails(map[string]string{"reason": string(reason)})
}

func (s *service) SubmitRating(ctx context.Context, input SubmitRatingInput) (*models.Rating, error) {
	if input.RaterID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rater id required")
	}
	if input.Event.ActivityID == uuid.Nil || input.Event.SlotStart == "" || input.Event.EventDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event reference required")
	}
	input.Event.EventDate = dateOnly(input.Event.EventDate)

	booking, err := s.repo.FindQualifyingBooking(ctx, input.RaterID, input.Event)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, rejected(ReasonNotAttended, "no attended booking for this event")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load qualifying booking")
	}

	rated, err := s.repo.HasRated(ctx, input.RaterID, input.Event)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check prior rating")
	}
	if rated {
		return nil, rejected(ReasonAlreadyRated, "event already rated")
	}

	attendees, err := s.repo.ListAttendees(ctx, input.Event)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list attendees")
	}
	others := make(map[uuid.UUID]struct{}, len(attendees))
	for _, id := range attendees {
		if id != input.RaterID {
			others[id] = struct{}{}
		}
	}

	seen := make(map[uuid.UUID]struct{}, len(input.ParticipantRatings))
	for _, pr := range input.ParticipantRatings {
		if pr.RateeID == input.RaterID {
			return nil, rejected(ReasonInvalidParticipant, "cannot rate yourself")
		}
		if _, ok := others[pr.RateeID]; !ok {
			return nil, rejected(ReasonInvalidParticipant, "rated user did not attend this event")
		}
		if _, dup := seen[pr.RateeID]; dup {
			return nil, rejected(ReasonInvalidParticipant, "duplicate participant rating")
		}
		seen[pr.RateeID] = struct{}{}
	}

	// A two-person event needs exactly one other-participant rating.
	required := 2
	if len(others) < required {
		required = len(others)
	}
	if len(seen) < required {
		return nil, rejected(ReasonInsufficientParticipants,
			fmt.Sprintf("at least %d participant ratings required", required))
	}

	if !inRange(input.EventRating) || !inRange(input.PartnerRating) {
		return nil, rejected(ReasonOutOfRange, "ratings must be between 1 and 5")
	}
	for _, pr := range input.ParticipantRatings {
		if !inRange(pr.Score) {
			return nil, rejected(ReasonOutOfRange, "ratings must be between 1 and 5")
		}
	}

	rating := &models.Rating{
		ID:            uuid.New(),
		RaterID:       input.RaterID,
		BookingID:     booking.ID,
		ActivityID:    input.Event.ActivityID,
		EventDate:     input.Event.EventDate,
		SlotStart:     input.Event.SlotStart,
		EventRating:   input.EventRating,
		PartnerRating: input.PartnerRating,
		Feedback:      input.Feedback,
	}
	rateeIDs := make([]uuid.UUID, 0, len(input.ParticipantRatings))
	for _, pr := range input.ParticipantRatings {
		rating.Entries = append(rating.Entries, models.RatingEntry{
			ID:      uuid.New(),
			RateeID: pr.RateeID,
			Score:   pr.Score,
			Comment: pr.Comment,
		})
		rateeIDs = append(rateeIDs, pr.RateeID)
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, rating); err != nil {
			// Two submissions can pass HasRated concurrently; the unique
			// index settles the race.
			if pkgerrors.IsUniqueViolation(err, "") {
				return rejected(ReasonAlreadyRated, "event already rated")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist rating")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventRatingSubmitted,
			AggregateType: enums.AggregateRating,
			AggregateID:   rating.ID,
			Version:       1,
			Data: payloads.RatingSubmittedEvent{
				RatingID:    rating.ID,
				BookingID:   booking.ID,
				RaterID:     input.RaterID,
				ActivityID:  input.Event.ActivityID,
				RateeIDs:    rateeIDs,
				EventRating: input.EventRating,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return rating, nil
}

func (s *service) RecomputeCommunityRating(ctx context.Context, userID uuid.UUID) (*models.CommunityRating, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	entries, err := s.repo.ListEntriesForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list rating entries")
	}

	agg := &models.CommunityRating{
		UserID:       userID,
		Distribution: make(types.Histogram),
	}
	for _, entry := range entries {
		agg.TotalScore += int64(entry.Score)
		agg.TotalRatings++
		agg.Distribution[fmt.Sprintf("%d", entry.Score)]++
	}
	if agg.TotalRatings > 0 {
		agg.Average = roundAverage(agg.TotalScore, agg.TotalRatings)
	}

	if err := s.repo.UpsertCommunityRating(ctx, agg); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store community rating")
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"user_id":       userID.String(),
		"total_ratings": agg.TotalRatings,
		"average":       agg.Average,
	}), "community rating recomputed")
	return agg, nil
}

func (s *service) GetCommunityRating(ctx context.Context, userID uuid.UUID) (*models.CommunityRating, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	agg, err := s.repo.GetCommunityRating(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.CommunityRating{UserID: userID, Distribution: make(types.Histogram)}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load community rating")
	}
	return agg, nil
}

// roundAverage rounds half-up to two decimals, so [5,5,4] averages 4.67.
func roundAverage(totalScore, totalRatings int64) float64 {
	avg := decimal.NewFromInt(totalScore).
		Div(decimal.NewFromInt(totalRatings)).
		Round(2)
	value, _ := avg.Float64()
	return value
}

func inRange(score int) bool {
	return score >= minScore && score <= maxScore
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
