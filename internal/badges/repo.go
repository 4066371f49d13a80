package badges

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	dbpkg "github.com/tareqmahmood/greenshop-backend/pkg/db"
	"github.com/tareqmahmood/greenshop-backend/pkg/db/models"
)

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a badges repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

// UpsertBadge inserts the badge or refreshes its metadata when the code is
// already present. The code column is the conflict target.
func (r *repositoryImpl) UpsertBadge(ctx context.Context, badge *models.Badge) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "description", "icon", "condition_type", "threshold_kg", "updated_at",
			}),
		}).
		Create(badge).Error
}

func (r *repositoryImpl) FindAllBadges(ctx context.Context) ([]models.Badge, error) {
	var rows []models.Badge
	err := r.db.WithContext(ctx).Order("threshold_kg DESC").Find(&rows).Error
	return rows, err
}

func (r *repositoryImpl) FindHeldBadgeCodes(ctx context.Context, userID uuid.UUID) (map[string]bool, error) {
	var codes []string
	err := r.db.WithContext(ctx).
		Model(&models.UserBadge{}).
		Joins("JOIN badges ON badges.id = user_badges.badge_id").
		Where("user_badges.user_id = ?", userID).
		Pluck("badges.code", &codes).Error
	if err != nil {
		return nil, err
	}
	held := make(map[string]bool, len(codes))
	for _, code := range codes {
		held[code] = true
	}
	return held, nil
}

// CreateUserBadge inserts the award. A unique violation on (user_id, badge_id)
// means someone else already granted it; that is reported as not created, not
// as an error.
func (r *repositoryImpl) CreateUserBadge(ctx context.Context, award *models.UserBadge) (bool, error) {
	err := r.db.WithContext(ctx).Create(award).Error
	if err != nil {
		if dbpkg.IsUniqueViolation(err, "uq_user_badges_user_badge") {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *repositoryImpl) FindUserBadges(ctx context.Context, userID uuid.UUID) ([]models.UserBadge, error) {
	var rows []models.UserBadge
	err := r.db.WithContext(ctx).
		Preload("Badge").
		Where("user_id = ?", userID).
		Order("earned_at ASC").
		Find(&rows).Error
	return rows, err
}
