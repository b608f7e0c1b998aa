// Package storage - reconstructor.go
// T012: Rebuilds a game's history and score from persisted rounds.
// State = f(rounds): a finished game can be audited or resumed from the
// database without ever having been in memory.
package storage

import (
	"context"
	"fmt"

	"github.com/MRamiBalles/ContrabandoJuego/server/internal/domain/game"
)

// Reconstructor rebuilds game history from persisted rounds and events.
// This is used for:
// 1. The replay endpoint - show a full game after the fact
// 2. Recovering a session after a server restart
// 3. Auditing and balance analysis
type Reconstructor struct {
	gameRepo  GameRepository
	roundRepo RoundRepository
}

// NewReconstructor creates a new game reconstructor.
func NewReconstructor(gameRepo GameRepository, roundRepo RoundRepository) *Reconstructor {
	return &Reconstructor{gameRepo: gameRepo, roundRepo: roundRepo}
}

// RebuiltGame holds the reconstructed state of one game.
type RebuiltGame struct {
	GameID       string             `json:"game_id"`
	Seed         int64              `json:"seed"`
	History      []game.RoundRecord `json:"history"`
	FinalScore   int                `json:"final_score"`
	RoundsPlayed int                `json:"rounds_played"`
	Completed    bool               `json:"completed"`
}

// RecapEntry is a human-readable line for the replay screen.
type RecapEntry struct {
	Round   int    `json:"round"`
	Summary string `json:"summary"`
	Impact  string `json:"impact"` // "POSITIVE", "NEGATIVE", "NEUTRAL"
}

// RebuildGame reconstructs a game's history and score from its rounds.
func (r *Reconstructor) RebuildGame(ctx context.Context, gameID string) (*RebuiltGame, error) {
	header, err := r.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to load game header: %w", err)
	}
	if header == nil {
		return nil, fmt.Errorf("game %s not found", gameID)
	}

	rows, err := r.roundRepo.GetByGameID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to load rounds: %w", err)
	}

	rebuilt := &RebuiltGame{
		GameID:    gameID,
		Seed:      header.Seed,
		Completed: header.CompletedAt != nil,
	}

	score := 0
	for _, row := range rows {
		score += row.Payoff
		if row.Score != score {
			// The stored running score is authoritative; a mismatch means
			// the rounds table was tampered with or partially written.
			return nil, fmt.Errorf("round %d score mismatch: stored %d, replayed %d", row.Round, row.Score, score)
		}
		rebuilt.History = append(rebuilt.History, game.RoundRecord{
			Round:     row.Round,
			Smuggler:  game.ParseAction(row.SmugglerAction),
			Inspector: game.ParseAction(row.InspectorAction),
			Payoff:    row.Payoff,
			WasTrap:   row.WasTrap,
		})
	}

	rebuilt.FinalScore = score
	rebuilt.RoundsPlayed = len(rows)
	return rebuilt, nil
}

// GenerateRecap creates the round-by-round replay narration for a game.
func (r *Reconstructor) GenerateRecap(ctx context.Context, gameID string) ([]RecapEntry, error) {
	rebuilt, err := r.RebuildGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	var recap []RecapEntry
	for _, rec := range rebuilt.History {
		recap = append(recap, RecapEntry{
			Round:   rec.Round,
			Summary: summarizeRound(rec),
			Impact:  roundImpact(rec),
		})
	}
	return recap, nil
}

// summarizeRound creates a human-readable summary of one round.
func summarizeRound(rec game.RoundRecord) string {
	if rec.WasTrap {
		return "The inspector sprung a trap. The deal was a lie."
	}
	switch {
	case rec.Smuggler == game.ActSmuggle && rec.Inspector == game.ActInspect:
		return "Smuggle attempt caught by an inspection."
	case rec.Smuggler == game.ActSmuggle && rec.Inspector == game.ActDontInspect:
		return "Contraband slipped through unchecked."
	case rec.Smuggler == game.ActBribe:
		return "A bribe changed hands at the checkpoint."
	case rec.Smuggler == game.ActSignalTruce:
		return "The smuggler signaled for a truce."
	case rec.Inspector == game.ActInspect:
		return "An inspection found nothing."
	default:
		return "A quiet round at the border."
	}
}

// roundImpact classifies the round from the smuggler's perspective.
func roundImpact(rec game.RoundRecord) string {
	switch {
	case rec.Payoff > 0:
		return "POSITIVE"
	case rec.Payoff < 0:
		return "NEGATIVE"
	default:
		return "NEUTRAL"
	}
}
