package journal

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/inferadb/ferment/core"
	"github.com/inferadb/ferment/internal/database"
	"github.com/inferadb/ferment/internal/database/repository"
)

const (
	recordBuffer  = 1024
	flushSize     = 64
	flushInterval = 100 * time.Millisecond
	writeTimeout  = 5 * time.Second
)

type recordKind int

const (
	recStart recordKind = iota
	recEntry
	recFinish
)

type record struct {
	kind    recordKind
	session repository.Session
	entry   repository.Entry
	at      time.Time
	errText string
}

// Recorder is a core.Tracer that persists a Program run. Tracer calls never
// block the loop: when the write queue is full records are dropped and
// counted. Close must be called after Run returns.
type Recorder struct {
	j *Journal

	mu      sync.Mutex
	closed  bool
	records chan record
	done    chan struct{}
	dropped int

	// Owned by the loop goroutine.
	id    string
	seq   int64
	start time.Time
}

var _ core.Tracer = (*Recorder)(nil)

// Recorder starts a background writer for one or more Program runs.
func (j *Journal) Recorder() *Recorder {
	r := &Recorder{
		j:       j,
		records: make(chan record, recordBuffer),
		done:    make(chan struct{}),
	}
	go r.write()
	return r
}

// SessionID is the ID of the current or most recent run.
func (r *Recorder) SessionID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.id
}

// Dropped reports how many records were lost to a full queue.
func (r *Recorder) Dropped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

func (r *Recorder) TraceStart(mode core.Mode, width, height int) {
	now := database.Now()
	r.mu.Lock()
	r.id = uuid.NewString()
	r.mu.Unlock()
	r.seq = 0
	r.start = now
	r.enqueue(record{kind: recStart, session: repository.Session{
		ID:        r.id,
		Mode:      mode.String(),
		Width:     width,
		Height:    height,
		StartedAt: now,
	}})
}

func (r *Recorder) TraceMessage(msg core.Msg) {
	r.entry(repository.KindMessage, describe(msg))
}

func (r *Recorder) TraceFrame(view string) {
	r.entry(repository.KindFrame, view)
}

func (r *Recorder) TraceExit(err error) {
	rec := record{kind: recFinish, at: database.Now()}
	rec.session.ID = r.id
	if err != nil {
		rec.errText = err.Error()
	}
	r.enqueue(rec)
}

func (r *Recorder) entry(kind repository.EntryKind, body string) {
	if r.id == "" {
		return
	}
	r.seq++
	r.enqueue(record{kind: recEntry, entry: repository.Entry{
		SessionID: r.id,
		Seq:       r.seq,
		Kind:      kind,
		Offset:    time.Since(r.start),
		Body:      body,
	}})
}

func (r *Recorder) enqueue(rec record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	select {
	case r.records <- rec:
	default:
		r.dropped++
	}
}

// Close flushes pending records and stops the writer.
func (r *Recorder) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	close(r.records)
	r.mu.Unlock()
	<-r.done

	if n := r.Dropped(); n > 0 {
		return fmt.Errorf("journal dropped %d records", n)
	}
	return nil
}

func (r *Recorder) write() {
	defer close(r.done)

	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	var pending []repository.Entry
	flush := func() {
		if len(pending) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		err := database.WithTx(ctx, r.j.db, func(tx *sql.Tx) error {
			return r.j.entries.AppendTx(ctx, tx, pending)
		})
		if err != nil {
			r.j.log.Warn("journal write failed", "entries", len(pending), "err", err)
		}
		pending = pending[:0]
	}

	for {
		select {
		case rec, ok := <-r.records:
			if !ok {
				flush()
				return
			}
			switch rec.kind {
			case recStart:
				flush()
				ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
				if err := r.j.sessions.Create(ctx, rec.session); err != nil {
					r.j.log.Warn("journal session create failed", "session", rec.session.ID, "err", err)
				}
				cancel()
			case recEntry:
				pending = append(pending, rec.entry)
				if len(pending) >= flushSize {
					flush()
				}
			case recFinish:
				flush()
				ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
				if err := r.j.sessions.Finish(ctx, rec.session.ID, rec.at, rec.errText); err != nil {
					r.j.log.Warn("journal session finish failed", "session", rec.session.ID, "err", err)
				}
				cancel()
			}
		case <-ticker.C:
			flush()
		}
	}
}
