package sqlite

import (
	"context"
	"time"

	"github.com/jakbu/jakbu/internal/jakbu/domain"
)

const settingColumns = `id, identity_id, interval_type, enabled, last_notified_at, created_at, updated_at`

type notificationSettingsRepo struct {
	db  dbtx
	now func() time.Time
}

func scanSetting(row scanner) (domain.NotificationSetting, error) {
	var s domain.NotificationSetting
	err := row.Scan(&s.ID, &s.IdentityID, &s.Interval, &s.Enabled, &s.LastNotifiedAt, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return domain.NotificationSetting{}, mapNotFound(err)
	}
	return s, nil
}

func (r *notificationSettingsRepo) GetByIdentity(ctx context.Context, identityID int64) (domain.NotificationSetting, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+settingColumns+` FROM notification_settings WHERE identity_id = ?`, identityID)
	return scanSetting(row)
}

func (r *notificationSettingsRepo) Upsert(ctx context.Context, s *domain.NotificationSetting) error {
	now := r.now()
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO notification_settings (identity_id, interval_type, enabled, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (identity_id) DO UPDATE SET
			interval_type = excluded.interval_type,
			enabled = excluded.enabled,
			updated_at = excluded.updated_at
		 RETURNING `+settingColumns,
		s.IdentityID, string(s.Interval), s.Enabled, now, now,
	)
	saved, err := scanSetting(row)
	if err != nil {
		return mapMissingOwner(err)
	}
	*s = saved
	return nil
}

func (r *notificationSettingsRepo) MarkNotified(ctx context.Context, id int64, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notification_settings SET last_notified_at = ?, updated_at = ? WHERE id = ?`,
		at.UTC(), r.now(), id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *notificationSettingsRepo) ListEnabledTargets(ctx context.Context) ([]domain.ReminderTarget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT n.id, n.identity_id, n.interval_type, n.enabled, n.last_notified_at,
			n.created_at, n.updated_at, i.push_address
		 FROM notification_settings n
		 JOIN identities i ON i.id = n.identity_id
		 WHERE n.enabled = 1 AND i.push_address IS NOT NULL AND i.push_address <> ''
		 ORDER BY n.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ReminderTarget
	for rows.Next() {
		var t domain.ReminderTarget
		s := &t.Setting
		if err := rows.Scan(&s.ID, &s.IdentityID, &s.Interval, &s.Enabled, &s.LastNotifiedAt,
			&s.CreatedAt, &s.UpdatedAt, &t.PushAddress); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *notificationSettingsRepo) DeleteByIdentity(ctx context.Context, identityID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM notification_settings WHERE identity_id = ?`, identityID)
	return err
}
