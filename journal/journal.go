// Package journal records Program runs into a SQLite database so a session
// can be inspected after the terminal has been handed back.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/inferadb/ferment/internal/database"
	"github.com/inferadb/ferment/internal/database/repository"
)

// Journal is an open journal database.
type Journal struct {
	db       *sql.DB
	sessions *repository.SessionRepo
	entries  *repository.EntryRepo
	log      *slog.Logger
}

// Open migrates and opens the journal at path.
func Open(path string, log *slog.Logger) (*Journal, error) {
	db, err := database.OpenMigrated(path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Journal{
		db:       db,
		sessions: repository.NewSessionRepo(db),
		entries:  repository.NewEntryRepo(db),
		log:      log,
	}, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

// Sessions lists recorded sessions, newest first.
func (j *Journal) Sessions(ctx context.Context, limit int) ([]repository.Session, error) {
	return j.sessions.List(ctx, limit)
}

// Session returns nil when id is unknown.
func (j *Journal) Session(ctx context.Context, id string) (*repository.Session, error) {
	return j.sessions.Get(ctx, id)
}

// Frames returns the frames rendered during a session, in order.
func (j *Journal) Frames(ctx context.Context, id string) ([]repository.Entry, error) {
	return j.entries.List(ctx, id, repository.KindFrame)
}

// Messages returns the messages processed during a session, in order.
func (j *Journal) Messages(ctx context.Context, id string) ([]repository.Entry, error) {
	return j.entries.List(ctx, id, repository.KindMessage)
}

// Dump writes a plain-text transcript of a session to w.
func (j *Journal) Dump(ctx context.Context, w io.Writer, id string) error {
	s, err := j.sessions.Get(ctx, id)
	if err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("session %q not found", id)
	}
	all, err := j.entries.List(ctx, id, "")
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "session %s (%s, %dx%d) started %s\n", s.ID, s.Mode, s.Width, s.Height, s.StartedAt.Format(time.RFC3339))
	for _, e := range all {
		switch e.Kind {
		case repository.KindMessage:
			fmt.Fprintf(w, "%10s  msg    %s\n", e.Offset.Round(time.Millisecond), e.Body)
		case repository.KindFrame:
			fmt.Fprintf(w, "%10s  frame\n", e.Offset.Round(time.Millisecond))
			for _, line := range strings.Split(ansi.Strip(e.Body), "\n") {
				fmt.Fprintf(w, "            | %s\n", strings.TrimRight(line, " "))
			}
		}
	}
	switch {
	case s.EndedAt == nil:
		fmt.Fprintln(w, "session did not finish")
	case s.ExitError != nil:
		fmt.Fprintf(w, "ended %s: %s\n", s.EndedAt.Format(time.RFC3339), *s.ExitError)
	default:
		fmt.Fprintf(w, "ended %s\n", s.EndedAt.Format(time.RFC3339))
	}
	return nil
}
