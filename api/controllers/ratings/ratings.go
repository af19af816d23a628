package ratings

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mateoreynoso/tripline-backend/api/middleware"
	"github.com/mateoreynoso/tripline-backend/api/responses"
	"github.com/mateoreynoso/tripline-backend/api/validators"
	internalratings "github.com/mateoreynoso/tripline-backend/internal/ratings"
	pkgerrors "github.com/mateoreynoso/tripline-backend/pkg/errors"
	"github.com/mateoreynoso/tripline-backend/pkg/logger"
)

const eventDateLayout = "2006-01-02"

type participantRatingRequest struct {
	RateeID string  `json:"ratee_id" validate:"required,uuid4"`
	Score   int     `json:"score" validate:"required"`
	Comment *string `json:"comment,omitempty" validate:"omitempty,max=1000"`
}

type submitRatingRequest struct {
	ActivityID         string                     `json:"activity_id" validate:"required,uuid4"`
	EventDate          string                     `json:"event_date" validate:"required"`
	SlotStart          string                     `json:"slot_start" validate:"required"`
	ParticipantRatings []participantRatingRequest `json:"participant_ratings" validate:"omitempty,dive"`
	EventRating        int                        `json:"event_rating" validate:"required"`
	PartnerRating      int                        `json:"partner_rating" validate:"required"`
	Feedback           *string                    `json:"feedback,omitempty" validate:"omitempty,max=2000"`
}

// Submit records one rater's post-event scores.
func Submit(svc internalratings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ratings service unavailable"))
			return
		}

		raterID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload submitRatingRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput(raterID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rating, err := svc.SubmitRating(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, rating)
	}
}

// Community returns a user's running average and score histogram.
func Community(svc internalratings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ratings service unavailable"))
			return
		}

		raw := strings.TrimSpace(chi.URLParam(r, "userId"))
		if raw == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "user id is required"))
			return
		}
		userID, err := uuid.Parse(raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id"))
			return
		}

		aggregate, err := svc.GetCommunityRating(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, aggregate)
	}
}

func (req submitRatingRequest) toInput(raterID uuid.UUID) (internalratings.SubmitRatingInput, error) {
	activityID, err := uuid.Parse(strings.TrimSpace(req.ActivityID))
	if err != nil {
		return internalratings.SubmitRatingInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid activity id")
	}

	eventDate, err := time.Parse(eventDateLayout, strings.TrimSpace(req.EventDate))
	if err != nil {
		return internalratings.SubmitRatingInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "event_date must be YYYY-MM-DD")
	}

	ratings := make([]internalratings.ParticipantRating, 0, len(req.ParticipantRatings))
	for _, pr := range req.ParticipantRatings {
		rateeID, err := uuid.Parse(strings.TrimSpace(pr.RateeID))
		if err != nil {
			return internalratings.SubmitRatingInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid ratee id")
		}
		ratings = append(ratings, internalratings.ParticipantRating{
			RateeID: rateeID,
			Score:   pr.Score,
			Comment: pr.Comment,
		})
	}

	return internalratings.SubmitRatingInput{
		RaterID: raterID,
		Event: internalratings.EventRef{
			ActivityID: activityID,
			EventDate:  eventDate,
			SlotStart:  strings.TrimSpace(req.SlotStart),
		},
		ParticipantRatings: ratings,
		EventRating:        req.EventRating,
		PartnerRating:      req.PartnerRating,
		Feedback:           req.Feedback,
	}, nil
}

func callerID(r *http.Request) (uuid.UUID, error) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	parsed, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	return parsed, nil
}
