package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateOrder      OutboxAggregateType = "order"
	AggregateUserImpact OutboxAggregateType = "user_impact"
	AggregateBadge      OutboxAggregateType = "badge"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateOrder,
	AggregateUserImpact,
	AggregateBadge,
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type enum in Postgres.
type OutboxEventType string

const (
	// EventOrderPaid is published by the storefront when payment settles;
	// the impact worker consumes it.
	EventOrderPaid OutboxEventType = "order_paid"
	// EventImpactRecorded is emitted once per order when its impact row is
	// created.
	EventImpactRecorded OutboxEventType = "impact_recorded"
	// EventBadgeAwarded is emitted for each first-time badge award.
	EventBadgeAwarded OutboxEventType = "badge_awarded"
	// EventMonthRolledOver is emitted by the month-rollover cron job.
	EventMonthRolledOver OutboxEventType = "month_rolled_over"
)

var validOutboxEventTypes = []OutboxEventType{
	EventOrderPaid,
	EventImpactRecorded,
	EventBadgeAwarded,
	EventMonthRolledOver,
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
