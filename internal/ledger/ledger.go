// Package ledger keeps the bounded, newest-first record of security events
// and derives the integrity summary from it.
package ledger

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ShrinivasKarthik/techademy-assessments-sub002/internal/model"
)

// Sink receives every recorded event, synchronously, at most once per event.
type Sink func(model.SecurityEvent)

// Ledger is an append-only, bounded violation store. Newest entries sit at
// index 0; inserting beyond the bound evicts the oldest.
type Ledger struct {
	mu     sync.Mutex
	bound  int
	seq    uint64
	closed bool
	events []model.SecurityEvent
	sink   Sink
	log    *zap.Logger
}

// New builds a ledger with the given bound. A nil sink means events are
// only queryable, not forwarded.
func New(bound int, sink Sink, log *zap.Logger) *Ledger {
	if bound < 1 {
		bound = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Ledger{bound: bound, sink: sink, log: log}
}

// Record stamps identity onto a candidate, stores it, and forwards it to
// the sink. The sink runs outside the lock so it may query the ledger.
// After Close, candidates are dropped and the zero event is returned.
func (l *Ledger) Record(c model.Candidate) model.SecurityEvent {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return model.SecurityEvent{}
	}
	l.seq++
	ev := model.SecurityEvent{
		ID:          uuid.NewString(),
		Seq:         l.seq,
		Type:        c.Type,
		Timestamp:   time.Now(),
		Severity:    c.Severity,
		Description: c.Description,
	}
	l.events = append([]model.SecurityEvent{ev}, l.events...)
	if len(l.events) > l.bound {
		l.events = l.events[:l.bound]
	}
	sink := l.sink
	l.mu.Unlock()

	l.log.Warn("violation recorded",
		zap.String("type", string(ev.Type)),
		zap.String("severity", string(ev.Severity)),
		zap.String("description", ev.Description),
	)
	if sink != nil {
		sink(ev)
	}
	return ev
}

// Close freezes the ledger. Session teardown closes it first so a
// candidate racing past the status gate cannot land an event, or reach
// the sink, once cleanup has run. Recorded events stay queryable.
func (l *Ledger) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
}

// Snapshot returns a copy of the current ledger, newest first.
func (l *Ledger) Snapshot() []model.SecurityEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.SecurityEvent, len(l.events))
	copy(out, l.events)
	return out
}

// Len reports the current ledger length.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}
