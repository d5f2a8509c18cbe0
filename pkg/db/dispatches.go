package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/urmzd/neuracontrol/pkg/command"
	"github.com/urmzd/neuracontrol/pkg/dispatch"
)

var ErrDispatchNotFound = errors.New("dispatch not found")

// DispatchRecord is a stored dispatch. Err holds the language model error
// for dispatches that never reached the extractor.
type DispatchRecord struct {
	Result *dispatch.Result
	Err    string
}

// DispatchStore is the prompt/reply history.
type DispatchStore interface {
	Save(ctx context.Context, res *dispatch.Result, dispatchErr error) error
	Get(ctx context.Context, id string) (*DispatchRecord, error)
	// Recent returns the newest records first
	Recent(ctx context.Context, limit int) ([]*DispatchRecord, error)
	Count(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
}

// Dispatches returns a DispatchStore for this database.
func (db *DB) Dispatches() DispatchStore {
	return &dispatchStore{db: db}
}

type dispatchStore struct {
	db *DB
}

func (s *dispatchStore) Save(ctx context.Context, res *dispatch.Result, dispatchErr error) error {
	errText := ""
	if dispatchErr != nil {
		errText = dispatchErr.Error()
	}

	return s.db.Tx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO dispatches (id, prompt, reply, error, actuator, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, res.ID, res.Prompt, res.Reply, errText, res.Actuator, res.CreatedAt.UTC().Format(time.DateTime)); err != nil {
			return fmt.Errorf("failed to save dispatch: %w", err)
		}

		for i, o := range res.Outcomes {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO dispatch_outcomes
					(dispatch_id, position, device_id, state, code, success, simulated, reason, error)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, res.ID, i, o.Device, o.State, o.Code, o.Success, o.Simulated, string(o.Reason), o.Error); err != nil {
				return fmt.Errorf("failed to save outcome: %w", err)
			}
		}
		return nil
	})
}

func (s *dispatchStore) Get(ctx context.Context, id string) (*DispatchRecord, error) {
	rec, err := s.scanDispatch(s.db.QueryRowContext(ctx, `
		SELECT id, prompt, reply, error, actuator, created_at
		FROM dispatches WHERE id = ?
	`, id))
	if err == sql.ErrNoRows {
		return nil, ErrDispatchNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadOutcomes(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *dispatchStore) Recent(ctx context.Context, limit int) ([]*DispatchRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, prompt, reply, error, actuator, created_at
		FROM dispatches ORDER BY created_at DESC, rowid DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}

	var records []*DispatchRecord
	for rows.Next() {
		rec, err := s.scanDispatch(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	for _, rec := range records {
		if err := s.loadOutcomes(ctx, rec); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (s *dispatchStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM dispatches`).Scan(&n)
	return n, err
}

func (s *dispatchStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM dispatches`)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func (s *dispatchStore) scanDispatch(row scanner) (*DispatchRecord, error) {
	res := &dispatch.Result{Commands: []command.Command{}, Outcomes: []dispatch.Outcome{}}
	rec := &DispatchRecord{Result: res}
	var createdAt string
	if err := row.Scan(&res.ID, &res.Prompt, &res.Reply, &rec.Err, &res.Actuator, &createdAt); err != nil {
		return nil, err
	}
	res.CreatedAt, _ = time.Parse(time.DateTime, createdAt)
	return rec, nil
}

func (s *dispatchStore) loadOutcomes(ctx context.Context, rec *DispatchRecord) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT device_id, state, code, success, simulated, reason, error
		FROM dispatch_outcomes WHERE dispatch_id = ? ORDER BY position
	`, rec.Result.ID)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var o dispatch.Outcome
		var reason string
		if err := rows.Scan(&o.Device, &o.State, &o.Code, &o.Success, &o.Simulated, &reason, &o.Error); err != nil {
			return err
		}
		o.Reason = dispatch.Reason(reason)
		rec.Result.Outcomes = append(rec.Result.Outcomes, o)
		rec.Result.Commands = append(rec.Result.Commands, command.Command{Device: o.Device, State: o.State})
	}
	return rows.Err()
}
