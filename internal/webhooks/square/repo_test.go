package squarewebhook

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mateoreynoso/tripline-backend/pkg/db/models"
	"github.com/mateoreynoso/tripline-backend/pkg/enums"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:webhooks_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.WebhookEvent{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func parkedEvent(eventID string, seenAt time.Time) *models.WebhookEvent {
	return &models.WebhookEvent{
		ID:               uuid.New(),
		GatewayEventID:   eventID,
		GatewayPaymentID: "sq_pay_123",
		EventType:        "payment.updated",
		Payload:          []byte(`{"event_id":"` + eventID + `"}`),
		Status:           enums.WebhookEventStatusPending,
		FirstSeenAt:      seenAt,
	}
}

func TestRepositoryParkIsIdempotent(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	seen := time.Now().UTC().Truncate(time.Second)

	if err := repo.Park(ctx, parkedEvent("evt-1", seen)); err != nil {
		t.Fatalf("park: %v", err)
	}
	// A redelivery of the same gateway event must not create a second row.
	if err := repo.Park(ctx, parkedEvent("evt-1", seen)); err != nil {
		t.Fatalf("park replay: %v", err)
	}

	pending, err := repo.ListPending(ctx, 10)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected one parked event, got %d", len(pending))
	}
	if pending[0].GatewayEventID != "evt-1" {
		t.Fatalf("unexpected event id %q", pending[0].GatewayEventID)
	}
}

func TestRepositoryListPendingOrdersOldestFirst(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second)

	if err := repo.Park(ctx, parkedEvent("evt-new", base)); err != nil {
		t.Fatalf("park: %v", err)
	}
	if err := repo.Park(ctx, parkedEvent("evt-old", base.Add(-time.Hour))); err != nil {
		t.Fatalf("park: %v", err)
	}

	pending, err := repo.ListPending(ctx, 10)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected two events, got %d", len(pending))
	}
	if pending[0].GatewayEventID != "evt-old" {
		t.Fatalf("oldest event must come first, got %q", pending[0].GatewayEventID)
	}
}

func TestRepositoryStatusTransitions(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	seen := time.Now().UTC().Truncate(time.Second)

	processedEvt := parkedEvent("evt-done", seen)
	failedEvt := parkedEvent("evt-retry", seen)
	deadEvt := parkedEvent("evt-dead", seen)
	for _, evt := range []*models.WebhookEvent{processedEvt, failedEvt, deadEvt} {
		if err := repo.Park(ctx, evt); err != nil {
			t.Fatalf("park: %v", err)
		}
	}

	if err := repo.MarkProcessed(ctx, processedEvt.ID); err != nil {
		t.Fatalf("mark processed: %v", err)
	}
	if err := repo.MarkFailedAttempt(ctx, failedEvt.ID, "no booking yet"); err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	deadAt := seen.Add(time.Minute)
	if err := repo.MarkDeadLettered(ctx, deadEvt.ID, "gave up", deadAt); err != nil {
		t.Fatalf("mark dead-lettered: %v", err)
	}

	pending, err := repo.ListPending(ctx, 10)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != failedEvt.ID {
		t.Fatalf("only the retried event should stay pending, got %d", len(pending))
	}
	if pending[0].AttemptCount != 1 {
		t.Fatalf("expected attempt count 1, got %d", pending[0].AttemptCount)
	}
	if pending[0].LastError == nil || *pending[0].LastError != "no booking yet" {
		t.Fatalf("expected last error to be recorded")
	}

	var dead models.WebhookEvent
	if err := db.First(&dead, "id = ?", deadEvt.ID).Error; err != nil {
		t.Fatalf("load dead-lettered: %v", err)
	}
	if dead.Status != enums.WebhookEventStatusDeadLettered {
		t.Fatalf("unexpected status %s", dead.Status)
	}
	if dead.DeadLetteredAt == nil {
		t.Fatalf("dead_lettered_at must be set")
	}
}
