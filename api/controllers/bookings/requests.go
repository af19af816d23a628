package bookings

import (
	"strings"
	"time"

	"github.com/google/uuid"

	internalbookings "github.com/mateoreynoso/tripline-backend/internal/bookings"
	pkgerrors "github.com/mateoreynoso/tripline-backend/pkg/errors"
)

const eventDateLayout = "2006-01-02"

type participantDetailRequest struct {
	UserID       *string `json:"user_id,omitempty" validate:"omitempty,uuid4"`
	Name         string  `json:"name" validate:"required,max=200"`
	Email        *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone        *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Requirements *string `json:"requirements,omitempty" validate:"omitempty,max=1000"`
}

type createBookingRequest struct {
	ActivityID     string                     `json:"activity_id" validate:"required,uuid4"`
	EventDate      string                     `json:"event_date" validate:"required"`
	SlotStart      string                     `json:"slot_start" validate:"required"`
	Participants   int                        `json:"participants" validate:"required,min=1"`
	Details        []participantDetailRequest `json:"participant_details" validate:"omitempty,dive"`
	DiscountCents  int64                      `json:"discount_cents" validate:"omitempty,min=0"`
	DiscountReason *string                    `json:"discount_reason,omitempty" validate:"omitempty,max=200"`
}

type cancelBookingRequest struct {
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (req createBookingRequest) toInput(actor internalbookings.Actor) (internalbookings.CreateBookingInput, error) {
	activityID, err := uuid.Parse(strings.TrimSpace(req.ActivityID))
	if err != nil {
		return internalbookings.CreateBookingInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid activity id")
	}

	eventDate, err := parseEventDate(req.EventDate)
	if err != nil {
		return internalbookings.CreateBookingInput{}, err
	}

	details := make([]internalbookings.ParticipantInput, 0, len(req.Details))
	for _, d := range req.Details {
		detail := internalbookings.ParticipantInput{
			Name:         strings.TrimSpace(d.Name),
			Email:        d.Email,
			Phone:        d.Phone,
			Requirements: d.Requirements,
		}
		if d.UserID != nil {
			parsed, err := uuid.Parse(strings.TrimSpace(*d.UserID))
			if err != nil {
				return internalbookings.CreateBookingInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid participant user id")
			}
			detail.UserID = &parsed
		}
		details = append(details, detail)
	}

	return internalbookings.CreateBookingInput{
		Actor:          actor,
		ActivityID:     activityID,
		EventDate:      eventDate,
		SlotStart:      strings.TrimSpace(req.SlotStart),
		Participants:   req.Participants,
		Details:        details,
		DiscountCents:  req.DiscountCents,
		DiscountReason: req.DiscountReason,
	}, nil
}

func parseDateParam(value, field string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(eventDateLayout, value)
	if err != nil {
		t, err = time.Parse(time.RFC3339, value)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+field)
		}
	}
	return &t, nil
}

func parseEventDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	t, err := time.Parse(eventDateLayout, raw)
	if err != nil {
		return time.Time{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "event_date must be YYYY-MM-DD")
	}
	return t, nil
}
