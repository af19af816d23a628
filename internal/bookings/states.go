package bookings

import (
	"time"

	"github.com/mateoreynoso/tripline-backend/pkg/enums"
	pkgerrors "github.com/mateoreynoso/tripline-backend/pkg/errors"
)

// transitions is the complete edge set of the booking state machine. A
// status pair absent from this table is an invalid transition.
var transitions = map[enums.BookingStatus][]enums.BookingStatus{
	enums.BookingStatusPending: {
		enums.BookingStatusConfirmed,
		enums.BookingStatusCancelled,
	},
	enums.BookingStatusConfirmed: {
		enums.BookingStatusInProgress,
		enums.BookingStatusCompleted,
		enums.BookingStatusCancelled,
		enums.BookingStatusNoShow,
	},
	enums.BookingStatusInProgress: {
		enums.BookingStatusCompleted,
	},
}

// CanTransition reports whether the state machine allows moving from one
// status to another.
func CanTransition(from, to enums.BookingStatus) bool {
	for _, candidate := range transitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

const (
	fullRefundWindow = 48 * time.Hour
	halfRefundWindow = 24 * time.Hour
)

// ComputeRefund returns the refund due for a cancellation requested delta
// time before the activity starts. More than 48 hours out refunds the full
// total, between 24 and 48 hours refunds half rounded half up, and inside
// 24 hours the cancellation itself is blocked.
func ComputeRefund(totalCents int64, delta time.Duration) (int64, error) {
	switch {
	case delta > fullRefundWindow:
		return totalCents, nil
	case delta > halfRefundWindow:
		return (totalCents + 1) / 2, nil
	default:
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "cancellation window closed").
			WithDetails(map[string]string{"reason": "NotCancellable"})
	}
}
