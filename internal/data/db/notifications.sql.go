package db

import (
	"context"
	"database/sql"
)

const insertNotification = `
INSERT INTO notifications (level, source, message, created_at)
VALUES (?, ?, ?, ?)
RETURNING id
`

// InsertNotificationParams are the columns of a new notification.
type InsertNotificationParams struct {
	Level     string
	Source    string
	Message   string
	CreatedAt int64
}

// InsertNotification stores a notification and returns its id.
func (q *Queries) InsertNotification(ctx context.Context, arg InsertNotificationParams) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, insertNotification, arg.Level, arg.Source, arg.Message, arg.CreatedAt).Scan(&id)
	return id, err
}

const listNotifications = `
SELECT id, level, source, message, created_at
FROM notifications
ORDER BY created_at DESC, id DESC
`

// ListNotifications returns every notification, newest first.
func (q *Queries) ListNotifications(ctx context.Context) ([]Notification, error) {
	rows, err := q.db.QueryContext(ctx, listNotifications)
	if err != nil {
		return nil, err
	}
	return scanRows(rows, func(rows *sql.Rows, n *Notification) error {
		return rows.Scan(&n.ID, &n.Level, &n.Source, &n.Message, &n.CreatedAt)
	})
}

// DeleteAllNotifications empties the notifications table.
func (q *Queries) DeleteAllNotifications(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM notifications`)
	return err
}

// CountNotifications returns the number of stored notifications.
func (q *Queries) CountNotifications(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications`).Scan(&n)
	return n, err
}
