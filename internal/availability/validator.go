package availability

import (
	"time"

	"github.com/mateoreynoso/tripline-backend/pkg/db/models"
	pkgerrors "github.com/mateoreynoso/tripline-backend/pkg/errors"
	"github.com/mateoreynoso/tripline-backend/pkg/types"
)

// RejectReason is the machine-readable reason a slot request was refused.
type RejectReason string

const (
	ReasonDateBlackedOut   RejectReason = "DateBlackedOut"
	ReasonOutOfSchedule    RejectReason = "OutOfSchedule"
	ReasonCapacityExceeded RejectReason = "CapacityExceeded"
	ReasonSlotFull         RejectReason = "SlotFull"
)

// Request is a candidate booking to validate against an activity.
type Request struct {
	Date         time.Time
	SlotStart    string
	Participants int
}

// Rejected builds the typed error for a refused slot request. SlotFull is a
// conflict (retryable with fresh data); the rest are validation failures.
func Rejected(reason RejectReason) *pkgerrors.Error {
	var err *pkgerrors.Error
	switch reason {
	case ReasonSlotFull:
		err = pkgerrors.New(pkgerrors.CodeConflict, "slot capacity exhausted")
	case ReasonDateBlackedOut:
		err = pkgerrors.New(pkgerrors.CodeValidation, "requested date is blacked out")
	case ReasonOutOfSchedule:
		err = pkgerrors.New(pkgerrors.CodeValidation, "requested slot is not on the activity schedule")
	case ReasonCapacityExceeded:
		err = pkgerrors.New(pkgerrors.CodeValidation, "participant count outside activity capacity")
	default:
		err = pkgerrors.New(pkgerrors.CodeValidation, "slot request refused")
	}
	return err.WithDetails(map[string]string{"reason": string(reason)})
}

// Validate runs the stateless checks in order: blackout, schedule membership,
// capacity bounds. Remaining-capacity enforcement happens in Reserve, inside
// the booking transaction.
func Validate(activity *models.Activity, req Request) (types.ScheduleEntry, error) {
	if activity == nil {
		return types.ScheduleEntry{}, pkgerrors.New(pkgerrors.CodeNotFound, "activity not found")
	}

	if activity.BlackoutDates.Contains(req.Date) {
		return types.ScheduleEntry{}, Rejected(ReasonDateBlackedOut)
	}

	slot, ok := activity.Schedule.FindSlot(req.Date, req.SlotStart)
	if !ok {
		return types.ScheduleEntry{}, Rejected(ReasonOutOfSchedule)
	}

	if req.Participants < activity.CapacityMin || req.Participants > activity.CapacityMax {
		return types.ScheduleEntry{}, Rejected(ReasonCapacityExceeded)
	}

	return slot, nil
}

// SlotCapacity resolves the participant capacity for a schedule entry,
// falling back to the activity-wide maximum.
func SlotCapacity(activity *models.Activity, slot types.ScheduleEntry) int {
	if slot.MaxParticipants > 0 {
		return slot.MaxParticipants
	}
	return activity.CapacityMax
}
