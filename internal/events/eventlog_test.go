package events

import (
	"sync"
	"testing"
	"time"
)

type recordingPersister struct {
	mu     sync.Mutex
	events []GameEvent
}

func (r *recordingPersister) Append(event GameEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingPersister) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func TestNewEventHasIdentity(t *testing.T) {
	e := New("game-1", 3, EventTypeRoundResolved, map[string]interface{}{"payoff": 10})
	if e.ID == "" {
		t.Error("event must get a generated ID")
	}
	if e.GameID != "game-1" || e.Round != 3 || e.Type != EventTypeRoundResolved {
		t.Errorf("event fields not carried: %+v", e)
	}
	if e.Timestamp.IsZero() {
		t.Error("event must be timestamped")
	}
}

func TestAppendAndFilter(t *testing.T) {
	log := NewEventLog(nil)

	log.Append(New("game-1", 1, EventTypeGameStarted, nil))
	log.Append(New("game-1", 1, EventTypeRoundResolved, nil))
	log.Append(New("game-2", 1, EventTypeGameStarted, nil))
	log.Append(New("game-1", 2, EventTypeRoundResolved, nil))

	if got := len(log.Replay()); got != 4 {
		t.Errorf("expected 4 events in the log, got %d", got)
	}
	if got := len(log.GetByGame("game-1")); got != 3 {
		t.Errorf("expected 3 events for game-1, got %d", got)
	}
	if got := len(log.GetByRound("game-1", 1)); got != 2 {
		t.Errorf("expected 2 events for game-1 round 1, got %d", got)
	}
	if got := len(log.GetByGame("game-3")); got != 0 {
		t.Errorf("expected no events for unknown game, got %d", got)
	}
}

func TestAppendWritesThroughPersister(t *testing.T) {
	persister := &recordingPersister{}
	log := NewEventLog(persister)

	for i := 1; i <= 5; i++ {
		log.Append(New("game-1", i, EventTypeRoundResolved, nil))
	}

	// Persistence is asynchronous; give it a moment.
	deadline := time.Now().Add(2 * time.Second)
	for persister.count() < 5 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if got := persister.count(); got != 5 {
		t.Errorf("expected 5 persisted events, got %d", got)
	}
}
