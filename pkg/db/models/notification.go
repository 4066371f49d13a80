package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tareqmahmood/greenshop-backend/pkg/enums"
)

type Notification struct {
	ID        uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID              `gorm:"column:user_id;type:uuid;not null;index:idx_notifications_user"`
	Type      enums.NotificationType `gorm:"column:type;type:varchar(32);not null"`
	Title     string                 `gorm:"column:title;type:varchar(255);not null"`
	Message   string                 `gorm:"column:message;type:text;not null"`
	Read      bool                   `gorm:"column:read;not null;default:false"`
	CreatedAt time.Time              `gorm:"column:created_at;autoCreateTime"`
}
