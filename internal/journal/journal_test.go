package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShrinivasKarthik/techademy-assessments-sub002/internal/model"
)

func open(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "violations.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func event(id string, seq uint64) model.SecurityEvent {
	return model.SecurityEvent{
		ID:          id,
		Seq:         seq,
		Type:        model.EventTabSwitch,
		Timestamp:   time.Now().UTC().Truncate(time.Millisecond),
		Severity:    model.SeverityHigh,
		Description: "Tab switch or window minimized detected",
	}
}

func TestAppendAndRecent(t *testing.T) {
	j := open(t)

	first := event("a", 1)
	second := event("b", 2)
	require.NoError(t, j.Append(first))
	require.NoError(t, j.Append(second))

	got, err := j.Recent(10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Newest first.
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, first.Type, got[1].Type)
	assert.Equal(t, first.Severity, got[1].Severity)
	assert.Equal(t, first.Description, got[1].Description)
	assert.WithinDuration(t, first.Timestamp, got[1].Timestamp, time.Second)
}

func TestAppendDuplicateIsHarmless(t *testing.T) {
	j := open(t)

	ev := event("dup", 1)
	require.NoError(t, j.Append(ev))
	require.NoError(t, j.Append(ev))

	got, err := j.Recent(10)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestRecentHonorsLimit(t *testing.T) {
	j := open(t)

	for i := 0; i < 8; i++ {
		require.NoError(t, j.Append(event(string(rune('a'+i)), uint64(i+1))))
	}

	got, err := j.Recent(3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, uint64(8), got[0].Seq)
}
