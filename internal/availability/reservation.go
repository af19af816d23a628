package availability

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mateoreynoso/tripline-backend/pkg/db/models"
	pkgerrors "github.com/mateoreynoso/tripline-backend/pkg/errors"
	"github.com/mateoreynoso/tripline-backend/pkg/logger"
	"github.com/mateoreynoso/tripline-backend/pkg/types"
)

// SlotRef locates one bookable slot occurrence.
type SlotRef struct {
	ActivityID uuid.UUID
	Date       time.Time
	Start      string
}

// Reserve consumes slot capacity inside the caller's transaction. The slot
// counter row is created on first use, then a single conditional UPDATE
// increments reserved_count only while the slot still has room. A zero
// RowsAffected means a concurrent booking won the remaining capacity.
func Reserve(ctx context.Context, tx *gorm.DB, logg *logger.Logger, slot SlotRef, participants, capacity int) error {
	if participants <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "participant count must be positive")
	}

	row := models.SlotReservation{
		ActivityID: slot.ActivityID,
		EventDate:  slot.Date,
		SlotStart:  slot.Start,
		Capacity:   capacity,
	}
	if err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seed slot reservation")
	}

	res := tx.WithContext(ctx).
		Model(&models.SlotReservation{}).
		Where("activity_id = ? AND event_date = ? AND slot_start = ?", slot.ActivityID, slot.Date, slot.Start).
		Where("reserved_count + ? <= capacity", participants).
		UpdateColumn("reserved_count", gorm.Expr("reserved_count + ?", participants))
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "reserve slot capacity")
	}
	if res.RowsAffected == 0 {
		if logg != nil {
			logCtx := logg.WithFields(ctx, map[string]any{
				"activity_id":  slot.ActivityID.String(),
				"event_date":   slot.Date.Format(types.DateFormat),
				"slot_start":   slot.Start,
				"participants": participants,
			})
			logg.Warn(logCtx, "slot capacity exhausted")
		}
		return Rejected(ReasonSlotFull)
	}
	return nil
}

// Release returns previously reserved capacity after a cancellation. The
// counter is floored at zero so replayed releases cannot drive it negative.
func Release(ctx context.Context, tx *gorm.DB, slot SlotRef, participants int) error {
	if participants <= 0 {
		return nil
	}
	res := tx.WithContext(ctx).
		Model(&models.SlotReservation{}).
		Where("activity_id = ? AND event_date = ? AND slot_start = ?", slot.ActivityID, slot.Date, slot.Start).
		UpdateColumn("reserved_count", gorm.Expr(
			"CASE WHEN reserved_count >= ? THEN reserved_count - ? ELSE 0 END", participants, participants,
		))
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "release slot capacity")
	}
	return nil
}
