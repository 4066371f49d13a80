package impact

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tareqmahmood/greenshop-backend/pkg/db/models"
)

// Repository defines persistence operations for order impacts and the
// per-user accumulator.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindOrderWithLines(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	FindOrderImpact(ctx context.Context, orderID uuid.UUID) (*models.OrderImpact, error)
	CreateOrderImpact(ctx context.Context, impact *models.OrderImpact) error
	EnsureUserImpact(ctx context.Context, userID uuid.UUID) error
	ApplyOrderTotals(ctx context.Context, userID uuid.UUID, carbonKg, savedKg decimal.Decimal) error
	FindUserImpact(ctx context.Context, userID uuid.UUID) (*models.UserImpact, error)
	FindImpactsWithMonthCarbon(ctx context.Context, limit int) ([]models.UserImpact, error)
	ResetMonthCarbon(ctx context.Context, userID uuid.UUID) error
	RecentOrderCarbons(ctx context.Context, userID uuid.UUID, limit int) ([]decimal.Decimal, error)
}
