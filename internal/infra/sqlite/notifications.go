package sqlite

import (
	"time"

	"github.com/fitcoach-app/fitcoach/internal/domain"
)

// InsertNotification stores a notification and returns its id.
func (d *DB) InsertNotification(n domain.Notification) (int64, error) {
	res, err := d.db.Exec(
		`INSERT INTO notifications (type, title, body, created_at, shown)
		 VALUES (?, ?, ?, ?, ?)`,
		string(n.Type), n.Title, n.Body, n.CreatedAt.Unix(), n.Shown,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListPendingNotifications returns unshown notifications, oldest first.
func (d *DB) ListPendingNotifications(limit int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := d.db.Query(
		`SELECT id, type, title, body, created_at, shown
		 FROM notifications WHERE shown = 0 ORDER BY id LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var typ string
		var created int64
		if err := rows.Scan(&n.ID, &typ, &n.Title, &n.Body, &created, &n.Shown); err != nil {
			return nil, err
		}
		n.Type = domain.NotificationType(typ)
		n.CreatedAt = time.Unix(created, 0).UTC()
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkNotificationShown flags a notification as delivered.
func (d *DB) MarkNotificationShown(id int64) error {
	_, err := d.db.Exec(`UPDATE notifications SET shown = 1 WHERE id = ?`, id)
	return err
}

// NotificationCountOn counts notifications created on the given calendar day
// (UTC). Feeds the max-per-day policy check.
func (d *DB) NotificationCountOn(day time.Time) (int, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	var count int
	err := d.db.QueryRow(
		`SELECT COUNT(*) FROM notifications WHERE created_at >= ? AND created_at < ?`,
		start.Unix(), end.Unix(),
	).Scan(&count)
	return count, err
}
