package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/urmzd/neuracontrol/pkg/dispatch"
)

var ErrDeviceStateNotFound = errors.New("device state not found")

// DeviceState is the last recorded state of one device.
type DeviceState struct {
	DeviceID  string
	On        bool
	Simulated bool
	UpdatedAt time.Time
}

// DeviceStateStore persists control-panel toggles.
type DeviceStateStore interface {
	Get(ctx context.Context, deviceID string) (*DeviceState, error)
	List(ctx context.Context) ([]*DeviceState, error)
	Set(ctx context.Context, deviceID string, on, simulated bool) error
	// Record stores the state of every successful outcome
	Record(ctx context.Context, outcomes []dispatch.Outcome) error
}

// DeviceStates returns a DeviceStateStore for this database.
func (db *DB) DeviceStates() DeviceStateStore {
	return &deviceStateStore{db: db}
}

type deviceStateStore struct {
	db *DB
}

func (s *deviceStateStore) Get(ctx context.Context, deviceID string) (*DeviceState, error) {
	st := &DeviceState{}
	var updatedAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT device_id, state, simulated, updated_at
		FROM device_states WHERE device_id = ?
	`, deviceID).Scan(&st.DeviceID, &st.On, &st.Simulated, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrDeviceStateNotFound
	}
	if err != nil {
		return nil, err
	}
	st.UpdatedAt, _ = time.Parse(time.DateTime, updatedAt)
	return st, nil
}

func (s *deviceStateStore) List(ctx context.Context) ([]*DeviceState, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT device_id, state, simulated, updated_at
		FROM device_states ORDER BY device_id
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var states []*DeviceState
	for rows.Next() {
		st := &DeviceState{}
		var updatedAt string
		if err := rows.Scan(&st.DeviceID, &st.On, &st.Simulated, &updatedAt); err != nil {
			return nil, err
		}
		st.UpdatedAt, _ = time.Parse(time.DateTime, updatedAt)
		states = append(states, st)
	}
	return states, rows.Err()
}

func (s *deviceStateStore) Set(ctx context.Context, deviceID string, on, simulated bool) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO device_states (device_id, state, simulated) VALUES (?, ?, ?)
		ON CONFLICT(device_id) DO UPDATE SET
			state = excluded.state,
			simulated = excluded.simulated,
			updated_at = datetime('now')
	`, deviceID, on, simulated)
	return err
}

func (s *deviceStateStore) Record(ctx context.Context, outcomes []dispatch.Outcome) error {
	return s.db.Tx(ctx, func(tx *sql.Tx) error {
		for _, o := range outcomes {
			if !o.Success {
				continue
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO device_states (device_id, state, simulated) VALUES (?, ?, ?)
				ON CONFLICT(device_id) DO UPDATE SET
					state = excluded.state,
					simulated = excluded.simulated,
					updated_at = datetime('now')
			`, o.Device, o.State, o.Simulated); err != nil {
				return err
			}
		}
		return nil
	})
}
