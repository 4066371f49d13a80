package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tareqmahmood/greenshop-backend/pkg/enums"
)

// Badge is a catalog entry describing an award and the rule that grants it.
type Badge struct {
	ID            uuid.UUID                `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code          string                   `gorm:"column:code;type:varchar(64);not null;uniqueIndex:uq_badges_code"`
	Name          string                   `gorm:"column:name;type:varchar(128);not null"`
	Description   string                   `gorm:"column:description;type:text"`
	Icon          string                   `gorm:"column:icon;type:varchar(16)"`
	ConditionType enums.BadgeConditionType `gorm:"column:condition_type;type:varchar(32);not null"`
	ThresholdKg   decimal.Decimal          `gorm:"column:threshold_kg;type:numeric(10,2);not null;default:0"`
	CreatedAt     time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}
