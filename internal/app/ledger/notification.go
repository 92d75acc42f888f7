package ledger

import (
	"fmt"

	"github.com/fitcoach-app/fitcoach/internal/domain"
	"github.com/fitcoach-app/fitcoach/internal/infra/sqlite"
)

// NotificationService surfaces reward moments (badge unlocks, level-ups)
// under a strict policy: a daily cap and quiet hours. A suppressed
// notification is silently dropped — never queued for later.
// Streak-at-risk nagging is deliberately not a notification type.
type NotificationService struct {
	db     *sqlite.DB
	policy domain.NotificationPolicy
}

// NewNotificationService creates a notification service with the default policy.
func NewNotificationService(db *sqlite.DB) *NotificationService {
	return &NotificationService{db: db, policy: domain.DefaultNotificationPolicy()}
}

// NewNotificationServiceWithPolicy creates a notification service with a custom policy.
func NewNotificationServiceWithPolicy(db *sqlite.DB, policy domain.NotificationPolicy) *NotificationService {
	return &NotificationService{db: db, policy: policy}
}

// Create stores a notification if policy allows it.
// Returns the notification id, 0 when suppressed.
func (n *NotificationService) Create(notif domain.Notification) (int64, error) {
	todayCount, err := n.db.NotificationCountOn(notif.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("count today: %w", err)
	}
	if todayCount >= n.policy.MaxPerDay {
		return 0, nil // Suppressed — daily limit reached
	}

	if n.policy.IsQuietHour(notif.CreatedAt) {
		return 0, nil // Suppressed — quiet hours
	}

	notif.Shown = false
	id, err := n.db.InsertNotification(notif)
	if err != nil {
		return 0, fmt.Errorf("insert notification: %w", err)
	}
	return id, nil
}

// Pending returns unshown notifications.
func (n *NotificationService) Pending(limit int) ([]domain.Notification, error) {
	return n.db.ListPendingNotifications(limit)
}

// MarkShown marks a notification as shown.
func (n *NotificationService) MarkShown(id int64) error {
	return n.db.MarkNotificationShown(id)
}

// Policy returns the active notification policy.
func (n *NotificationService) Policy() domain.NotificationPolicy {
	return n.policy
}
