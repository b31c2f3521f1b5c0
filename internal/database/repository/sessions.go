package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// SessionRepo handles sessions.
type SessionRepo struct {
	db *sql.DB
}

func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

func (r *SessionRepo) Create(ctx context.Context, s Session) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO sessions(id, mode, width, height, started_at)
	VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.Mode, s.Width, s.Height, s.StartedAt)
	return err
}

// Finish stamps the end time and, when non-empty, the exit error.
func (r *SessionRepo) Finish(ctx context.Context, id string, endedAt time.Time, exitErr string) error {
	var errVal any
	if exitErr != "" {
		errVal = exitErr
	}
	_, err := r.db.ExecContext(ctx, `UPDATE sessions SET ended_at=?, exit_error=? WHERE id=?`, endedAt, errVal, id)
	return err
}

// Get returns nil when the session does not exist.
func (r *SessionRepo) Get(ctx context.Context, id string) (*Session, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT s.id, s.mode, s.width, s.height, s.started_at, s.ended_at, s.exit_error,
	  (SELECT COUNT(*) FROM entries e WHERE e.session_id = s.id)
	FROM sessions s WHERE s.id=?`, id)
	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns the most recent sessions first. limit <= 0 means all.
func (r *SessionRepo) List(ctx context.Context, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, `
	SELECT s.id, s.mode, s.width, s.height, s.started_at, s.ended_at, s.exit_error,
	  (SELECT COUNT(*) FROM entries e WHERE e.session_id = s.id)
	FROM sessions s
	ORDER BY s.started_at DESC, s.rowid DESC
	LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id=?`, id)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(sc scanner) (Session, error) {
	var (
		s       Session
		ended   sql.NullTime
		exitErr sql.NullString
	)
	if err := sc.Scan(&s.ID, &s.Mode, &s.Width, &s.Height, &s.StartedAt, &ended, &exitErr, &s.Entries); err != nil {
		return Session{}, err
	}
	if ended.Valid {
		t := ended.Time
		s.EndedAt = &t
	}
	if exitErr.Valid {
		e := exitErr.String
		s.ExitError = &e
	}
	return s, nil
}
