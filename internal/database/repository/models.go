package repository

import "time"

// EntryKind distinguishes recorded messages from recorded frames.
type EntryKind string

const (
	KindMessage EntryKind = "message"
	KindFrame   EntryKind = "frame"
)

// Session represents a recorded Program run.
type Session struct {
	ID        string
	Mode      string
	Width     int
	Height    int
	StartedAt time.Time
	EndedAt   *time.Time
	ExitError *string
	// Entries is filled by List only.
	Entries int
}

// Entry represents one recorded message or frame.
type Entry struct {
	SessionID string
	Seq       int64
	Kind      EntryKind
	Offset    time.Duration
	Body      string
}
