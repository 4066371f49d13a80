package badges

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tareqmahmood/greenshop-backend/pkg/db/models"
)

// Repository defines persistence operations for the badge catalog and awards.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	UpsertBadge(ctx context.Context, badge *models.Badge) error
	FindAllBadges(ctx context.Context) ([]models.Badge, error)
	FindHeldBadgeCodes(ctx context.Context, userID uuid.UUID) (map[string]bool, error)
	CreateUserBadge(ctx context.Context, award *models.UserBadge) (bool, error)
	FindUserBadges(ctx context.Context, userID uuid.UUID) ([]models.UserBadge, error)
}
