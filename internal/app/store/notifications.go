package store

import (
	"context"
	"fmt"
	"time"

	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/app/db"
)

// CreateNotificationParams carries a new notification row. Link is optional and
// points at the in-app resource the notification is about.
type CreateNotificationParams struct {
	UserID  int64
	Type    string
	Content string
	Link    *string
}

const notificationColumns = `id, user_id, type, content, link, is_read, emailed_in_digest, created_at`

// CreateNotification inserts a notification and returns the stored row.
func (q *Queries) CreateNotification(ctx context.Context, arg CreateNotificationParams) (*Notification, error) {
	query := `
		INSERT INTO notifications (user_id, type, content, link)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + notificationColumns

	row := q.pool.QueryRow(ctx, query, arg.UserID, arg.Type, arg.Content, arg.Link)
	n, err := scanNotification(row)
	if err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	return n, nil
}

// ListNotificationsForUser returns the user's notifications, newest first. When
// includeRead is false only unread rows are returned.
func (q *Queries) ListNotificationsForUser(ctx context.Context, userID int64, includeRead bool, limit int) ([]Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE user_id = $1 AND ($2 OR is_read = FALSE)
		ORDER BY created_at DESC
		LIMIT $3`

	rows, err := q.pool.Query(ctx, query, userID, includeRead, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		out = append(out, *n)
	}
	return out, rows.Err()
}

// MarkNotificationRead flags one notification read, scoped to its owner so a user
// cannot touch another user's rows. Returns false when no row matched.
func (q *Queries) MarkNotificationRead(ctx context.Context, userID, notificationID int64) (bool, error) {
	tag, err := q.pool.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`,
		notificationID, userID)
	if err != nil {
		return false, fmt.Errorf("mark notification read: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// MarkAllNotificationsRead flags every unread notification of the user read and
// returns how many rows changed.
func (q *Queries) MarkAllNotificationsRead(ctx context.Context, userID int64) (int64, error) {
	tag, err := q.pool.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`,
		userID)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ListDigestNotifications returns the user's digest-eligible notifications created
// after since: type on the allow-list, not yet emailed, oldest first so the digest
// reads chronologically.
func (q *Queries) ListDigestNotifications(ctx context.Context, userID int64, since time.Time) ([]Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE user_id = $1
		  AND created_at > $2
		  AND emailed_in_digest = FALSE
		  AND type = ANY($3)
		  AND NOT (type = ANY($4))
		ORDER BY created_at ASC`

	rows, err := q.pool.Query(ctx, query, userID, since, DigestNotificationTypes, ExcludedFromDigestTypes)
	if err != nil {
		return nil, fmt.Errorf("list digest notifications: %w", err)
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan digest notification: %w", err)
		}
		out = append(out, *n)
	}
	return out, rows.Err()
}

// MarkNotificationsEmailed flips emailed_in_digest for the given rows. Called only
// after the digest email was accepted for delivery.
func (q *Queries) MarkNotificationsEmailed(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := q.pool.Exec(ctx,
		`UPDATE notifications SET emailed_in_digest = TRUE WHERE id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("mark notifications emailed: %w", err)
	}
	return nil
}

// GetCooldown returns when the sender last triggered a DM email to the receiver.
// The second return is false when no cooldown row exists for the pair.
func (q *Queries) GetCooldown(ctx context.Context, senderID, receiverID int64) (time.Time, bool, error) {
	var last time.Time
	err := q.pool.QueryRow(ctx,
		`SELECT last_email_sent_at FROM dm_notification_cooldowns WHERE sender_id = $1 AND receiver_id = $2`,
		senderID, receiverID).Scan(&last)
	if err != nil {
		if db.IsNotFound(err) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("get cooldown: %w", err)
	}
	return last, true, nil
}

// UpsertCooldown records a DM email send time for the pair in one statement, so
// concurrent senders cannot race a separate lookup-then-insert.
func (q *Queries) UpsertCooldown(ctx context.Context, senderID, receiverID int64, sentAt time.Time) error {
	_, err := q.pool.Exec(ctx, `
		INSERT INTO dm_notification_cooldowns (sender_id, receiver_id, last_email_sent_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (sender_id, receiver_id)
		DO UPDATE SET last_email_sent_at = EXCLUDED.last_email_sent_at`,
		senderID, receiverID, sentAt.UTC())
	if err != nil {
		return fmt.Errorf("upsert cooldown: %w", err)
	}
	return nil
}

func scanNotification(row rowScanner) (*Notification, error) {
	var n Notification
	err := row.Scan(&n.ID, &n.UserID, &n.Type, &n.Content, &n.Link, &n.IsRead, &n.EmailedInDigest, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
