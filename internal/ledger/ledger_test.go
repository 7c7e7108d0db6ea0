package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShrinivasKarthik/techademy-assessments-sub002/internal/model"
)

func candidate(typ model.EventType, sev model.Severity) model.Candidate {
	return model.Candidate{Type: typ, Severity: sev, Description: "test"}
}

func TestRecordAssignsIdentity(t *testing.T) {
	l := New(5, nil, nil)

	ev := l.Record(candidate(model.EventTabSwitch, model.SeverityHigh))

	require.NotEmpty(t, ev.ID)
	require.Equal(t, uint64(1), ev.Seq)
	require.False(t, ev.Timestamp.IsZero())
	require.Equal(t, model.EventTabSwitch, ev.Type)
}

func TestBoundIsNeverExceeded(t *testing.T) {
	l := New(5, nil, nil)

	for i := 0; i < 20; i++ {
		l.Record(candidate(model.EventTabSwitch, model.SeverityLow))
		require.LessOrEqual(t, l.Len(), 5)
	}
	require.Equal(t, 5, l.Len())
}

func TestNewestFirstOrdering(t *testing.T) {
	l := New(5, nil, nil)

	for i := 0; i < 8; i++ {
		l.Record(candidate(model.EventTabSwitch, model.SeverityLow))
	}

	snap := l.Snapshot()
	require.Len(t, snap, 5)
	for i := 1; i < len(snap); i++ {
		assert.Greater(t, snap[i-1].Seq, snap[i].Seq, "ledger must be newest-first")
	}
	// Oldest three were evicted.
	assert.Equal(t, uint64(8), snap[0].Seq)
	assert.Equal(t, uint64(4), snap[len(snap)-1].Seq)
}

func TestSinkReceivesEachEventOnce(t *testing.T) {
	var seen []model.SecurityEvent
	l := New(5, func(ev model.SecurityEvent) { seen = append(seen, ev) }, nil)

	l.Record(candidate(model.EventTabSwitch, model.SeverityHigh))
	l.Record(candidate(model.EventFullscreenExit, model.SeverityHigh))

	require.Len(t, seen, 2)
	assert.Equal(t, model.EventTabSwitch, seen[0].Type)
	assert.Equal(t, model.EventFullscreenExit, seen[1].Type)
}

func TestSinkMayQueryLedger(t *testing.T) {
	var l *Ledger
	l = New(5, func(ev model.SecurityEvent) {
		// Must not deadlock.
		require.Equal(t, 1, l.Len())
	}, nil)

	l.Record(candidate(model.EventTabSwitch, model.SeverityHigh))
}

func TestClosedLedgerDropsCandidates(t *testing.T) {
	sinkCalls := 0
	l := New(5, func(model.SecurityEvent) { sinkCalls++ }, nil)
	l.Record(candidate(model.EventTabSwitch, model.SeverityHigh))

	l.Close()

	// A candidate that was already past the caller's status check when
	// teardown ran must not land or reach the sink.
	ev := l.Record(candidate(model.EventFullscreenExit, model.SeverityHigh))
	assert.Empty(t, ev.ID)
	assert.Equal(t, 1, l.Len())
	assert.Equal(t, 1, sinkCalls)

	// Earlier events stay queryable.
	require.Len(t, l.Snapshot(), 1)
	assert.Equal(t, model.EventTabSwitch, l.Snapshot()[0].Type)
}

func TestSnapshotIsACopy(t *testing.T) {
	l := New(5, nil, nil)
	l.Record(candidate(model.EventTabSwitch, model.SeverityHigh))

	snap := l.Snapshot()
	snap[0].Description = "mutated"

	require.Equal(t, "test", l.Snapshot()[0].Description)
}
