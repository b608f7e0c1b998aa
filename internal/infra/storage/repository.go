// Package storage provides the persistence layer for the game server.
// This package implements the repository pattern to keep the domain pure.
package storage

import (
	"context"
	"time"
)

// GameRow is the persisted header of one game.
type GameRow struct {
	ID            string     `json:"id" db:"id"`
	Seed          int64      `json:"seed" db:"seed"`
	Greed         float64    `json:"greed" db:"greed"`
	Deceptiveness float64    `json:"deceptiveness" db:"deceptiveness"`
	Adaptiveness  float64    `json:"adaptiveness" db:"adaptiveness"`
	FinalScore    int        `json:"final_score" db:"final_score"`
	FinalTrust    float64    `json:"final_trust" db:"final_trust"`
	RoundsPlayed  int        `json:"rounds_played" db:"rounds_played"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// RoundRow is one persisted round resolution.
type RoundRow struct {
	GameID          string `json:"game_id" db:"game_id"`
	Round           int    `json:"round" db:"round"`
	SmugglerAction  string `json:"smuggler_action" db:"smuggler_action"`
	InspectorAction string `json:"inspector_action" db:"inspector_action"`
	Quantity        int    `json:"quantity" db:"quantity"`
	Payoff          int    `json:"payoff" db:"payoff"`
	Score           int    `json:"score" db:"score"`
	WasTrap         bool   `json:"was_trap" db:"was_trap"`
}

// EventRow mirrors the domain event structure for persistence.
// The domain package should NOT import this; use interfaces instead.
type EventRow struct {
	ID        string                 `json:"id" db:"id"`
	GameID    string                 `json:"game_id" db:"game_id"`
	Round     int                    `json:"round" db:"round"`
	Timestamp time.Time              `json:"timestamp" db:"timestamp"`
	EventType string                 `json:"event_type" db:"event_type"`
	Payload   map[string]interface{} `json:"payload" db:"payload"`
}

// GameRepository defines the interface for game header persistence.
type GameRepository interface {
	// Create records a new game with its seed and trait draw.
	Create(ctx context.Context, row GameRow) error

	// Finish stamps a completed game with its final score and trust.
	Finish(ctx context.Context, gameID string, finalScore int, finalTrust float64, roundsPlayed int) error

	// GetByID retrieves one game header, nil when not found.
	GetByID(ctx context.Context, gameID string) (*GameRow, error)

	// ListRecent retrieves the most recently created games.
	ListRecent(ctx context.Context, limit int) ([]GameRow, error)
}

// RoundRepository defines the interface for round persistence.
type RoundRepository interface {
	// Append stores one resolved round.
	Append(ctx context.Context, row RoundRow) error

	// GetByGameID retrieves all rounds of a game in play order.
	GetByGameID(ctx context.Context, gameID string) ([]RoundRow, error)
}

// EventRepository defines the interface for event persistence.
// The domain uses this interface; the implementation is in infra.
type EventRepository interface {
	// Append adds a new event to the immutable ledger.
	Append(ctx context.Context, event EventRow) error

	// GetByGameID retrieves all events for a specific game (for replay).
	GetByGameID(ctx context.Context, gameID string) ([]EventRow, error)

	// GetByEventType retrieves all events of a specific type.
	GetByEventType(ctx context.Context, gameID string, eventType string) ([]EventRow, error)
}
