package budget

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shopspring/decimal"

	"github.com/tareqmahmood/greenshop-backend/pkg/db/models"
)

// Repository defines the accumulator reads and budget writes used by the
// budget service.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindUserImpact(ctx context.Context, userID uuid.UUID) (*models.UserImpact, error)
	SetMonthBudget(ctx context.Context, userID uuid.UUID, budgetKg decimal.Decimal) error
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a budget repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) FindUserImpact(ctx context.Context, userID uuid.UUID) (*models.UserImpact, error) {
	var impact models.UserImpact
	err := r.db.WithContext(ctx).First(&impact, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &impact, nil
}

// SetMonthBudget upserts the accumulator row with the new budget so a user
// can set a budget before their first order.
func (r *repositoryImpl) SetMonthBudget(ctx context.Context, userID uuid.UUID, budgetKg decimal.Decimal) error {
	row := models.UserImpact{
		ID:            uuid.New(),
		UserID:        userID,
		MonthBudgetKg: budgetKg,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"month_budget_kg": budgetKg,
				"updated_at":      time.Now(),
			}),
		}).
		Create(&row).Error
}
