package squarewebhook

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mateoreynoso/tripline-backend/pkg/db/models"
	"github.com/mateoreynoso/tripline-backend/pkg/enums"
)

// Repository persists parked webhook events awaiting a booking to land.
type Repository interface {
	Park(ctx context.Context, event *models.WebhookEvent) error
	ListPending(ctx context.Context, limit int) ([]models.WebhookEvent, error)
	MarkProcessed(ctx context.Context, id uuid.UUID) error
	MarkFailedAttempt(ctx context.Context, id uuid.UUID, lastError string) error
	MarkDeadLettered(ctx context.Context, id uuid.UUID, lastError string, at time.Time) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository wires a gorm-backed webhook event store.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Park stores the raw event keyed by its gateway event id. Replays of an
// already parked event are no-ops.
func (r *repository) Park(ctx context.Context, event *models.WebhookEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "gateway_event_id"}},
			DoNothing: true,
		}).
		Create(event).Error
}

func (r *repository) ListPending(ctx context.Context, limit int) ([]models.WebhookEvent, error) {
	var events []models.WebhookEvent
	err := r.db.WithContext(ctx).
		Where("status = ?", enums.WebhookEventStatusPending).
		Order("first_seen_at ASC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *repository) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.WebhookEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":        enums.WebhookEventStatusProcessed,
			"attempt_count": gorm.Expr("attempt_count + 1"),
			"last_error":    nil,
		}).Error
}

func (r *repository) MarkFailedAttempt(ctx context.Context, id uuid.UUID, lastError string) error {
	return r.db.WithContext(ctx).
		Model(&models.WebhookEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"attempt_count": gorm.Expr("attempt_count + 1"),
			"last_error":    lastError,
		}).Error
}

func (r *repository) MarkDeadLettered(ctx context.Context, id uuid.UUID, lastError string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.WebhookEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":           enums.WebhookEventStatusDeadLettered,
			"attempt_count":    gorm.Expr("attempt_count + 1"),
			"last_error":       lastError,
			"dead_lettered_at": at,
		}).Error
}
