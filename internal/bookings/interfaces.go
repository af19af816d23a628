package bookings

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mateoreynoso/tripline-backend/pkg/db/models"
	"github.com/mateoreynoso/tripline-backend/pkg/enums"
	"github.com/mateoreynoso/tripline-backend/pkg/pagination"
)

// ListFilters narrows booking list queries.
type ListFilters struct {
	Status     *enums.BookingStatus
	ActivityID *uuid.UUID
	From       *time.Time
	To         *time.Time
}

// BookingList is one page of bookings plus the cursor for the next page.
type BookingList struct {
	Bookings   []models.Booking
	NextCursor string
}

// Repository defines persistence operations for the booking ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, booking *models.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	FindByReference(ctx context.Context, reference string) (*models.Booking, error)
	FindByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) (*models.Booking, error)
	// UpdateGuarded applies updates only when the stored version still
	// matches; it bumps the version as part of the same statement. A
	// stale version surfaces as a conflict error.
	UpdateGuarded(ctx context.Context, id uuid.UUID, version int64, updates map[string]any) error
	UpdatePayment(ctx context.Context, paymentID uuid.UUID, updates map[string]any) error
	ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params, filters ListFilters) (*BookingList, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID, params pagination.Params, filters ListFilters) (*BookingList, error)
	FindPendingBefore(ctx context.Context, cutoff time.Time) ([]models.Booking, error)
}
