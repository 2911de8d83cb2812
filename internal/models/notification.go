package models

// Notification types
const (
	NotificationInfo    = "info"
	NotificationSuccess = "success"
	NotificationWarning = "warning"
	NotificationError   = "error"
)

// ValidNotificationTypes lists the accepted notification types.
var ValidNotificationTypes = []string{NotificationInfo, NotificationSuccess, NotificationWarning, NotificationError}

// Contains reports whether v is one of values.
func Contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
