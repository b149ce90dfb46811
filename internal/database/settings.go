package database

import (
	"context"
	"database/sql"
	"errors"
)

// Setting keys stored by the TUI.
const (
	SettingTheme         = "theme"
	SettingHideCountdown = "hide_countdown"
	SettingLastTheme     = "last_topic_theme"
)

// GetSetting returns the stored value for key and whether it was present.
func (d *Database) GetSetting(ctx context.Context, key string) (string, bool) {
	var value sql.NullString
	err := d.DB.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			d.log.Warn().Err(err).Str("key", key).Msg("read setting failed")
		}
		return "", false
	}
	if !value.Valid {
		return "", false
	}
	return value.String, true
}

// SetSetting upserts key.
func (d *Database) SetSetting(ctx context.Context, key, value string) error {
	_, err := d.DB.ExecContext(ctx,
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value)
	return wrapSettingErr("set", err)
}
