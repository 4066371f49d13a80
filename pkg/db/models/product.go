package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog listing. CarbonFootprintKg is nullable on purpose:
// a null footprint falls back to the category's default emission factor.
type Product struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CategoryID        uuid.UUID           `gorm:"column:category_id;type:uuid;not null;index"`
	Name              string              `gorm:"column:name;not null"`
	Slug              string              `gorm:"column:slug;not null;uniqueIndex"`
	Description       string              `gorm:"column:description;not null;default:''"`
	Price             decimal.Decimal     `gorm:"column:price;type:numeric(10,2);not null"`
	StockQuantity     int                 `gorm:"column:stock_quantity;not null;default:0"`
	Available         bool                `gorm:"column:available;not null;default:true"`
	CarbonFootprintKg decimal.NullDecimal `gorm:"column:carbon_footprint_kg;type:numeric(10,2)"`
	Category          *Category           `gorm:"foreignKey:CategoryID"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
