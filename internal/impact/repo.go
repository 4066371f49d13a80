package impact

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tareqmahmood/greenshop-backend/pkg/db/models"
)

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an impact repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) FindOrderWithLines(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Preload("Lines.Product").
		Preload("Lines.Product.Category").
		First(&order, "id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repositoryImpl) FindOrderImpact(ctx context.Context, orderID uuid.UUID) (*models.OrderImpact, error) {
	var impact models.OrderImpact
	err := r.db.WithContext(ctx).First(&impact, "order_id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &impact, nil
}

func (r *repositoryImpl) CreateOrderImpact(ctx context.Context, impact *models.OrderImpact) error {
	return r.db.WithContext(ctx).Create(impact).Error
}

// EnsureUserImpact inserts a zeroed accumulator row for the user if none
// exists. Losing the insert race to another transaction is fine; the row is
// there either way.
func (r *repositoryImpl) EnsureUserImpact(ctx context.Context, userID uuid.UUID) error {
	row := models.UserImpact{
		ID:     uuid.New(),
		UserID: userID,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&row).Error
}

// ApplyOrderTotals folds one order into the accumulator with a single
// relative UPDATE, so concurrent order completions for the same user never
// lose increments. The streak column resets to zero on an order with no
// savings and increments otherwise.
func (r *repositoryImpl) ApplyOrderTotals(ctx context.Context, userID uuid.UUID, carbonKg, savedKg decimal.Decimal) error {
	updates := map[string]any{
		"total_orders":            gorm.Expr("total_orders + 1"),
		"total_carbon_kg":         gorm.Expr("total_carbon_kg + ?", carbonKg),
		"total_saved_kg":          gorm.Expr("total_saved_kg + ?", savedKg),
		"current_month_carbon_kg": gorm.Expr("current_month_carbon_kg + ?", carbonKg),
		"updated_at":              time.Now(),
	}
	if savedKg.GreaterThan(decimal.Zero) {
		updates["low_impact_streak"] = gorm.Expr("low_impact_streak + 1")
	} else {
		updates["low_impact_streak"] = 0
	}

	result := r.db.WithContext(ctx).
		Model(&models.UserImpact{}).
		Where("user_id = ?", userID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
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

// FindImpactsWithMonthCarbon returns accumulator rows that have anything
// booked against the current month, oldest first so rollover processes users
// in a stable order.
func (r *repositoryImpl) FindImpactsWithMonthCarbon(ctx context.Context, limit int) ([]models.UserImpact, error) {
	var rows []models.UserImpact
	query := r.db.WithContext(ctx).
		Where("current_month_carbon_kg > 0").
		Order("updated_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&rows).Error
	return rows, err
}

func (r *repositoryImpl) ResetMonthCarbon(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.UserImpact{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"current_month_carbon_kg": decimal.Zero,
			"updated_at":              time.Now(),
		}).Error
}

// RecentOrderCarbons returns carbon_kg for the user's most recent order
// impacts, newest first.
func (r *repositoryImpl) RecentOrderCarbons(ctx context.Context, userID uuid.UUID, limit int) ([]decimal.Decimal, error) {
	var values []decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&models.OrderImpact{}).
		Joins("JOIN orders ON orders.id = order_impacts.order_id").
		Where("orders.user_id = ?", userID).
		Order("order_impacts.created_at DESC").
		Limit(limit).
		Pluck("order_impacts.carbon_kg", &values).Error
	return values, err
}
