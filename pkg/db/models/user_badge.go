package models

import (
	"time"

	"github.com/google/uuid"
)

// UserBadge records a single award of a badge to a user. The composite unique
// index makes re-awarding the same badge a constraint violation rather than a
// duplicate row.
type UserBadge struct {
	ID       uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID   uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uq_user_badges_user_badge"`
	BadgeID  uuid.UUID `gorm:"column:badge_id;type:uuid;not null;uniqueIndex:uq_user_badges_user_badge"`
	EarnedAt time.Time `gorm:"column:earned_at;autoCreateTime"`

	Badge *Badge `gorm:"foreignKey:BadgeID"`
}
