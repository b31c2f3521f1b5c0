package journal

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/inferadb/ferment/internal/database"
)

// Prune deletes all but the newest keep sessions and their entries and
// returns how many sessions were removed.
func (j *Journal) Prune(ctx context.Context, keep int) (int, error) {
	if keep < 0 {
		return 0, fmt.Errorf("prune: keep must not be negative, got %d", keep)
	}
	var removed int64
	err := database.WithTx(ctx, j.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			DELETE FROM sessions WHERE id NOT IN (
				SELECT id FROM sessions ORDER BY started_at DESC, rowid DESC LIMIT ?
			)`, keep)
		if err != nil {
			return fmt.Errorf("prune sessions: %w", err)
		}
		removed, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		j.vacuum(ctx)
	}
	j.log.Info("journal pruned", "kept", keep, "removed", removed)
	return int(removed), nil
}

// Reset wipes every recording but keeps the schema.
func (j *Journal) Reset(ctx context.Context) error {
	err := database.WithTx(ctx, j.db, func(tx *sql.Tx) error {
		for _, table := range []string{"entries", "sessions"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("reset table %s: %w", table, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	j.vacuum(ctx)
	return nil
}

func (j *Journal) vacuum(ctx context.Context) {
	if _, err := j.db.ExecContext(ctx, "VACUUM"); err != nil {
		j.log.Warn("journal vacuum failed", "error", err)
	}
}
