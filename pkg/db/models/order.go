package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tareqmahmood/greenshop-backend/pkg/enums"
)

// Order is the storefront order the engine reacts to. UserID is nullable:
// guest checkout flows place orders with no account, and those orders still
// get an OrderImpact but never touch a UserImpact.
type Order struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        *uuid.UUID        `gorm:"column:user_id;type:uuid;index"`
	Status        enums.OrderStatus `gorm:"column:status;type:order_status;not null;default:'pending'"`
	Paid          bool              `gorm:"column:paid;not null;default:false"`
	TransactionID *string           `gorm:"column:transaction_id"`
	Lines         []OrderLineItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Impact        *OrderImpact      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
