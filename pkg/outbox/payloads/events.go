package payloads

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderPaidEvent signals that an order completed payment and is ready for
// impact accounting.
type OrderPaidEvent struct {
	OrderID uuid.UUID  `json:"order_id"`
	UserID  *uuid.UUID `json:"user_id,omitempty"`
	PaidAt  time.Time  `json:"paid_at"`
}

// ImpactRecordedEvent surfaces the computed footprint after an order impact
// record is created.
type ImpactRecordedEvent struct {
	OrderID    uuid.UUID       `json:"order_id"`
	UserID     *uuid.UUID      `json:"user_id,omitempty"`
	CarbonKg   decimal.Decimal `json:"carbon_kg"`
	BaselineKg decimal.Decimal `json:"baseline_kg"`
	SavedKg    decimal.Decimal `json:"saved_kg"`
}

// BadgeAwardedEvent is emitted once per user/badge pair when a badge is
// granted.
type BadgeAwardedEvent struct {
	UserID    uuid.UUID `json:"user_id"`
	BadgeID   uuid.UUID `json:"badge_id"`
	BadgeCode string    `json:"badge_code"`
	EarnedAt  time.Time `json:"earned_at"`
}

// MonthRolledOverEvent reports that a user's monthly carbon counter was reset.
type MonthRolledOverEvent struct {
	UserID       uuid.UUID       `json:"user_id"`
	PreviousKg   decimal.Decimal `json:"previous_kg"`
	RolledOverAt time.Time       `json:"rolled_over_at"`
}
