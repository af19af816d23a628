package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mateoreynoso/tripline-backend/pkg/db/models"
	pkgerrors "github.com/mateoreynoso/tripline-backend/pkg/errors"
)

// Repository provides read-only access to the activity catalog and vendor
// directory. The booking engine never mutates these tables.
type Repository interface {
	GetActivity(ctx context.Context, id uuid.UUID) (*models.Activity, error)
	GetVendor(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetActivity(ctx context.Context, id uuid.UUID) (*models.Activity, error) {
	var activity models.Activity
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&activity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "activity not found")
		}
		return nil, err
	}
	return &activity, nil
}

func (r *repository) GetVendor(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	var vendor models.Vendor
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&vendor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, err
	}
	return &vendor, nil
}
