package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderImpact is the one-to-one, write-once impact record for an order.
// SavedKg is clamped at zero before persistence and the row is never updated
// after creation.
type OrderImpact struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID    uuid.UUID       `gorm:"column:order_id;type:uuid;not null;uniqueIndex:uq_order_impacts_order"`
	CarbonKg   decimal.Decimal `gorm:"column:carbon_kg;type:numeric(10,2);not null"`
	BaselineKg decimal.Decimal `gorm:"column:baseline_kg;type:numeric(10,2);not null"`
	SavedKg    decimal.Decimal `gorm:"column:saved_kg;type:numeric(10,2);not null"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}
