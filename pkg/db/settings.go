package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"strconv"
)

var ErrSettingNotFound = errors.New("setting not found")

// Setting keys.
const (
	SettingAPIHost      = "api.host"
	SettingAPIPort      = "api.port"
	SettingSelectedPort = "serial.port"
)

// SettingStore provides settings CRUD operations.
type SettingStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Settings returns a SettingStore for this database.
func (db *DB) Settings() SettingStore {
	return &settingStore{db: db}
}

type settingStore struct {
	db *DB
}

func (s *settingStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrSettingNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *settingStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = datetime('now')
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (s *settingStore) Delete(ctx context.Context, key string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrSettingNotFound
	}
	return nil
}

// APIAddress returns the stored API listen address, defaulting to 0.0.0.0:8080.
func (db *DB) APIAddress(ctx context.Context) (string, error) {
	host, err := db.Settings().Get(ctx, SettingAPIHost)
	if err != nil && !errors.Is(err, ErrSettingNotFound) {
		return "", err
	}
	if host == "" {
		host = "0.0.0.0"
	}

	port, err := db.Settings().Get(ctx, SettingAPIPort)
	if err != nil && !errors.Is(err, ErrSettingNotFound) {
		return "", err
	}
	if port == "" {
		port = "8080"
	}
	if _, err := strconv.Atoi(port); err != nil {
		return "", fmt.Errorf("invalid %s %q: %w", SettingAPIPort, port, err)
	}

	return net.JoinHostPort(host, port), nil
}
