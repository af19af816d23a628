package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mateoreynoso/tripline-backend/pkg/types"
)

// CommunityRating is the per-user aggregate recomputed from all rating
// entries referencing that user.
type CommunityRating struct {
	UserID       uuid.UUID       `gorm:"column:user_id;type:uuid;primaryKey"`
	TotalScore   int64           `gorm:"column:total_score;not null;default:0"`
	TotalRatings int64           `gorm:"column:total_ratings;not null;default:0"`
	Average      float64         `gorm:"column:average;not null;default:0"`
	Distribution types.Histogram `gorm:"column:distribution;type:jsonb"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
