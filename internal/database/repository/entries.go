package repository

import (
	"context"
	"database/sql"
	"time"
)

// EntryRepo handles journal entries.
type EntryRepo struct {
	db *sql.DB
}

func NewEntryRepo(db *sql.DB) *EntryRepo {
	return &EntryRepo{db: db}
}

// AppendTx inserts entries inside tx.
func (r *EntryRepo) AppendTx(ctx context.Context, tx *sql.Tx, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO entries(session_id, seq, kind, offset_ns, body)
	VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.SessionID, e.Seq, string(e.Kind), int64(e.Offset), e.Body); err != nil {
			return err
		}
	}
	return nil
}

// List returns a session's entries in sequence order. An empty kind
// returns every kind.
func (r *EntryRepo) List(ctx context.Context, sessionID string, kind EntryKind) ([]Entry, error) {
	query := `SELECT session_id, seq, kind, offset_ns, body FROM entries WHERE session_id=?`
	args := []any{sessionID}
	if kind != "" {
		query += ` AND kind=?`
		args = append(args, string(kind))
	}
	query += ` ORDER BY seq`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var (
			e      Entry
			k      string
			offset int64
		)
		if err := rows.Scan(&e.SessionID, &e.Seq, &k, &offset, &e.Body); err != nil {
			return nil, err
		}
		e.Kind = EntryKind(k)
		e.Offset = time.Duration(offset)
		out = append(out, e)
	}
	return out, rows.Err()
}
