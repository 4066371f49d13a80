package enums

import "fmt"

// NotificationType categorizes in-app notifications produced by the engine.
type NotificationType string

const (
	NotificationSustainability NotificationType = "sustainability"
	NotificationBadgeEarned    NotificationType = "badge_earned"
	NotificationBudgetAlert    NotificationType = "budget_alert"
)

var validNotificationTypes = []NotificationType{
	NotificationSustainability,
	NotificationBadgeEarned,
	NotificationBudgetAlert,
}

// IsValid reports whether the value is a known NotificationType.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw input into a NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}
