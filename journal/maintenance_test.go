package journal

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inferadb/ferment/core"
)

func recordSessions(t *testing.T, j *Journal, n int) []string {
	t.Helper()
	ids := make([]string, 0, n)
	for i := range n {
		rec := j.Recorder()
		rec.TraceStart(core.ModeInteractive, 80, 24)
		rec.TraceFrame(fmt.Sprintf("frame %d", i))
		rec.TraceExit(nil)
		require.NoError(t, rec.Close())
		ids = append(ids, rec.SessionID())
	}
	return ids
}

func TestPruneKeepsNewest(t *testing.T) {
	t.Parallel()
	j, ctx := openTestJournal(t)
	ids := recordSessions(t, j, 4)

	removed, err := j.Prune(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 3, removed)

	sessions, err := j.Sessions(ctx, 0)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.Equal(t, ids[3], sessions[0].ID)

	frames, err := j.Frames(ctx, ids[0])
	require.NoError(t, err)
	require.Empty(t, frames)

	removed, err = j.Prune(ctx, 5)
	require.NoError(t, err)
	require.Zero(t, removed)

	_, err = j.Prune(ctx, -1)
	require.Error(t, err)
}

func TestReset(t *testing.T) {
	t.Parallel()
	j, ctx := openTestJournal(t)
	recordSessions(t, j, 2)

	require.NoError(t, j.Reset(ctx))
	sessions, err := j.Sessions(ctx, 0)
	require.NoError(t, err)
	require.Empty(t, sessions)
}
