package db

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/urmzd/neuracontrol/pkg/device"
)

// Bootstrap seeds default settings and an OFF row for every device in reg
// that has no stored state yet. It is safe to run on every start.
func (db *DB) Bootstrap(ctx context.Context, reg *device.Registry) error {
	defaults := map[string]string{
		SettingAPIHost: "0.0.0.0",
		SettingAPIPort: "8080",
	}
	for key, value := range defaults {
		if _, err := db.ExecContext(ctx, `
			INSERT INTO settings (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO NOTHING
		`, key, value); err != nil {
			return fmt.Errorf("failed to seed setting %s: %w", key, err)
		}
	}

	for _, d := range reg.All() {
		if _, err := db.ExecContext(ctx, `
			INSERT INTO device_states (device_id) VALUES (?)
			ON CONFLICT(device_id) DO NOTHING
		`, d.ID); err != nil {
			return fmt.Errorf("failed to seed state for %s: %w", d.ID, err)
		}
	}

	return nil
}

// NeedsBootstrap returns true if no settings have been written yet.
func (db *DB) NeedsBootstrap(ctx context.Context) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM settings`).Scan(&count)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// Setup opens the database at path, applies migrations and seeds rows for
// reg's devices. The caller closes the returned database.
func Setup(ctx context.Context, path string, reg *device.Registry) (*DB, error) {
	database, err := Open(path)
	if err != nil {
		return nil, err
	}

	if err := database.Migrate(ctx); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	first, err := database.NeedsBootstrap(ctx)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to check bootstrap status: %w", err)
	}
	if first {
		log.Info().Str("path", database.Path()).Msg("First run detected, bootstrapping database")
	}
	if err := database.Bootstrap(ctx, reg); err != nil {
		_ = database.Close()
		return nil, err
	}

	return database, nil
}
