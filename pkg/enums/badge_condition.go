package enums

import "fmt"

// BadgeConditionType is the fixed vocabulary of rules the badge evaluator
// understands.
type BadgeConditionType string

const (
	BadgeConditionFirstOrder BadgeConditionType = "FIRST_ORDER"
	BadgeConditionTotalSaved BadgeConditionType = "TOTAL_SAVED"
	BadgeConditionStreak     BadgeConditionType = "STREAK"
)

var validBadgeConditionTypes = []BadgeConditionType{
	BadgeConditionFirstOrder,
	BadgeConditionTotalSaved,
	BadgeConditionStreak,
}

// String implements fmt.Stringer.
func (b BadgeConditionType) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BadgeConditionType.
func (b BadgeConditionType) IsValid() bool {
	for _, candidate := range validBadgeConditionTypes {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBadgeConditionType converts raw input into a BadgeConditionType.
func ParseBadgeConditionType(value string) (BadgeConditionType, error) {
	for _, candidate := range validBadgeConditionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid badge condition type %q", value)
}
