package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category groups products and carries the fallback emission factor applied
// when a product has no explicit footprint.
type Category struct {
	ID                      uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name                    string          `gorm:"column:name;not null"`
	Slug                    string          `gorm:"column:slug;not null;uniqueIndex"`
	Description             string          `gorm:"column:description;not null;default:''"`
	DefaultEmissionFactorKg decimal.Decimal `gorm:"column:default_emission_factor_kg;type:numeric(10,2);not null;default:0"`
	Products                []Product       `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	CreatedAt               time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt               time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
