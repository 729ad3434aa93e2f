package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"birthdays/internal/models"
)

// GetNotificationPreference returns the owner's settings, or the defaults if
// none were ever saved.
func (d *DB) GetNotificationPreference(ctx context.Context, userID uuid.UUID) (*models.NotificationPreference, error) {
	pref := models.NotificationPreference{UserID: userID}
	err := d.Pool.QueryRow(ctx, `
		SELECT email_notifications, summary_notifications
		FROM notification_preferences WHERE user_id = $1
	`, userID).Scan(&pref.EmailNotifications, &pref.SummaryNotifications)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.DefaultNotificationPreference(userID), nil
	}
	if err != nil {
		return nil, err
	}
	return &pref, nil
}

// UpsertNotificationPreference saves the owner's settings.
func (d *DB) UpsertNotificationPreference(ctx context.Context, pref *models.NotificationPreference) error {
	_, err := d.Pool.Exec(ctx, `
		INSERT INTO notification_preferences (user_id, email_notifications, summary_notifications)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			email_notifications = EXCLUDED.email_notifications,
			summary_notifications = EXCLUDED.summary_notifications,
			updated_at = NOW()
	`, pref.UserID, pref.EmailNotifications, pref.SummaryNotifications)
	return err
}
