// Package events provides the append-only event log for the game.
// Every deal, trap, and round resolution lands here; a game can be
// reconstructed from its events alone.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType defines the category of a game event.
type EventType string

const (
	EventTypeGameStarted   EventType = "GAME_STARTED"
	EventTypeRoundResolved EventType = "ROUND_RESOLVED"
	EventTypeBribeOffered  EventType = "BRIBE_OFFERED"
	EventTypeTruceSignaled EventType = "TRUCE_SIGNALED"
	EventTypeTrapSprung    EventType = "TRAP_SPRUNG"
	EventTypeGameCompleted EventType = "GAME_COMPLETED"
)

// GameEvent represents an immutable record of an action in a game.
type GameEvent struct {
	ID        string      `json:"id"`
	GameID    string      `json:"game_id"`
	Round     int         `json:"round"`
	Timestamp time.Time   `json:"timestamp"`
	Type      EventType   `json:"type"`
	Payload   interface{} `json:"payload"` // Event-specific data
}

// EventPersister defines how an event is durably stored.
type EventPersister interface {
	Append(event GameEvent) error
}

// EventLog is the in-memory append-only log of game events.
type EventLog struct {
	mu        sync.RWMutex
	events    []GameEvent
	persister EventPersister
}

// NewEventLog creates a new event log with an optional persister.
func NewEventLog(persister EventPersister) *EventLog {
	return &EventLog{
		events:    make([]GameEvent, 0),
		persister: persister,
	}
}

// Append adds a new event to the log. Events are immutable once appended.
func (el *EventLog) Append(event GameEvent) {
	el.mu.Lock()
	defer el.mu.Unlock()
	el.events = append(el.events, event)

	if el.persister != nil {
		// Write through to persistent storage. Round resolution must not
		// block on disk, so the write happens off the hot path.
		go func(e GameEvent) {
			_ = el.persister.Append(e)
		}(event)
	}
}

// GetByGame returns all events belonging to a specific game.
func (el *EventLog) GetByGame(gameID string) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for _, e := range el.events {
		if e.GameID == gameID {
			result = append(result, e)
		}
	}
	return result
}

// GetByRound returns all events from one round of one game.
func (el *EventLog) GetByRound(gameID string, round int) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for _, e := range el.events {
		if e.GameID == gameID && e.Round == round {
			result = append(result, e)
		}
	}
	return result
}

// Replay returns the full history of events for state reconstruction.
func (el *EventLog) Replay() []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()
	return el.events
}

// New builds a timestamped event with a fresh identifier.
func New(gameID string, round int, eventType EventType, payload interface{}) GameEvent {
	return GameEvent{
		ID:        uuid.NewString(),
		GameID:    gameID,
		Round:     round,
		Timestamp: time.Now().UTC(),
		Type:      eventType,
		Payload:   payload,
	}
}
