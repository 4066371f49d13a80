package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserImpact accumulates a user's lifetime impact counters. Lifetime totals
// only ever increase; CurrentMonthCarbonKg accumulates without an in-engine
// reset (the rollover, when wanted, is a separately scheduled job).
type UserImpact struct {
	ID                   uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID               uuid.UUID       `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uq_user_impacts_user"`
	TotalCarbonKg        decimal.Decimal `gorm:"column:total_carbon_kg;type:numeric(12,2);not null;default:0"`
	TotalSavedKg         decimal.Decimal `gorm:"column:total_saved_kg;type:numeric(12,2);not null;default:0"`
	TotalOrders          int             `gorm:"column:total_orders;not null;default:0"`
	CurrentMonthCarbonKg decimal.Decimal `gorm:"column:current_month_carbon_kg;type:numeric(12,2);not null;default:0"`
	MonthBudgetKg        decimal.Decimal `gorm:"column:month_budget_kg;type:numeric(10,2);not null;default:0"`
	LowImpactStreak      int             `gorm:"column:low_impact_streak;not null;default:0"`
	CreatedAt            time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
