// Package session orchestrates live games: it owns the engine instance,
// the dialogue personality, and the persistence side effects for each
// resolved round. Handlers and the CLI talk to this package, never to the
// engine directly.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MRamiBalles/ContrabandoJuego/server/internal/dialogue"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/domain/game"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/domain/rules"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/engine"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/events"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/infra/ai"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/infra/cache"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/infra/storage"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/platform/logger"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/platform/metrics"
)

// Session is one live game plus its presentation and persistence wiring.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu          sync.Mutex
	game        *engine.Game
	personality *dialogue.Personality
	deps        *Deps
}

// Deps are the shared services a session writes through to. Any of the
// repositories may be nil; the game then runs in memory only.
type Deps struct {
	Log       *logger.Logger
	EventLog  *events.EventLog
	Games     storage.GameRepository
	Rounds    storage.RoundRepository
	Snapshots *cache.SnapshotCache
	Collector *metrics.Collector
}

// RoundView is a resolved round enriched with dialogue for rendering.
// PreRound is the taunt spoken before the smuggler's choice; clients show it
// ahead of the outcome.
type RoundView struct {
	engine.RoundResult

	GameID   string `json:"game_id"`
	Greeting string `json:"greeting,omitempty"`
	PreRound string `json:"pre_round_comment,omitempty"`
	Comment  string `json:"comment,omitempty"`
}

// Snapshot is the read model for status polls and reconnects.
type Snapshot struct {
	GameID        string             `json:"game_id"`
	Seed          int64              `json:"seed"`
	Round         int                `json:"round"`
	MaxRounds     int                `json:"max_rounds"`
	Score         int                `json:"score"`
	TrustLevel    float64            `json:"trust_level"`
	Mood          string             `json:"mood"`
	RecentHistory []game.RoundRecord `json:"recent_history"`
	GameOver      bool               `json:"game_over"`

	// Populated only when the game is over.
	Summary     *engine.Summary      `json:"summary,omitempty"`
	TutorReport []engine.ReportEntry `json:"tutor_report,omitempty"`
}

// PlayRound validates and resolves one round, then fans out the side
// effects: metrics, event log, round persistence, and cache refresh.
func (s *Session) PlayRound(ctx context.Context, action game.Action, quantity int) (*RoundView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.game.Over() {
		return nil, fmt.Errorf("game %s is already over", s.ID)
	}
	if !action.IsSmugglerAction() {
		return nil, fmt.Errorf("invalid smuggler action: %s", action)
	}

	view := &RoundView{GameID: s.ID}
	view.Greeting = s.personality.Greeting(s.game.Round() + 1)
	s.refreshDialogueState()
	view.PreRound = s.personality.PreRoundComment(s.game.Round()+1, s.game.Inspector().SmuggleFrequency())

	start := time.Now()
	view.RoundResult = s.game.PlayRound(action, quantity)
	res := view.RoundResult

	view.Comment = s.personality.OutcomeComment(res.Smuggler, res.Inspector, res.WasTrap)

	if s.deps.Collector != nil {
		s.deps.Collector.RecordRound(time.Since(start))
		caught := res.Smuggler == game.ActSmuggle && res.Inspector == game.ActInspect
		missed := res.Smuggler == game.ActSmuggle && res.Inspector == game.ActDontInspect
		s.deps.Collector.RecordOutcome(caught, missed, res.WasTrap)
		if res.Smuggler == game.ActBribe {
			s.deps.Collector.RecordBribe(res.BribeAccepted)
		}
		if res.Smuggler == game.ActSignalTruce {
			s.deps.Collector.RecordTruce()
		}
	}

	s.emitRoundEvents(res)
	s.persistRound(ctx, res)
	s.refreshSnapshot(ctx)

	if res.GameOver {
		s.finish(ctx)
	}

	return view, nil
}

// Snapshot builds the current read model under the session lock.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	history := s.game.History()
	recent := history
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}

	snap := Snapshot{
		GameID:        s.ID,
		Seed:          s.game.Seed(),
		Round:         s.game.Round(),
		MaxRounds:     rules.RoundsPerGame,
		Score:         s.game.Score(),
		TrustLevel:    s.game.Inspector().TrustLevel(),
		Mood:          s.personality.Mood(),
		RecentHistory: recent,
		GameOver:      s.game.Over(),
	}

	if snap.GameOver {
		summary := engine.Summarize(history, s.game.Score())
		snap.Summary = &summary
		snap.TutorReport = engine.TutorReport(history, s.game.Score(), snap.TrustLevel)
	}
	return snap
}

// refreshDialogueState hands the personality the context the LLM sees.
func (s *Session) refreshDialogueState() {
	insp := s.game.Inspector()
	s.personality.UpdateGameState(ai.GameContext{
		Round:         s.game.Round() + 1,
		MaxRounds:     rules.RoundsPerGame,
		Score:         s.game.Score(),
		TrustLevel:    insp.TrustLevel(),
		SmuggleFreq:   insp.SmuggleFrequency(),
		RecentHistory: formatRecentHistory(s.game.History()),
	})
}

func (s *Session) emitRoundEvents(res engine.RoundResult) {
	if s.deps.EventLog == nil {
		return
	}

	s.deps.EventLog.Append(events.New(s.ID, res.Round, events.EventTypeRoundResolved, map[string]interface{}{
		"smuggler_action":  res.Smuggler.String(),
		"inspector_action": res.Inspector.String(),
		"quantity":         res.Quantity,
		"payoff":           res.Payoff,
		"score":            res.Score,
	}))

	if res.Smuggler == game.ActBribe {
		s.deps.EventLog.Append(events.New(s.ID, res.Round, events.EventTypeBribeOffered, map[string]interface{}{
			"accepted": res.BribeAccepted,
		}))
	}
	if res.Smuggler == game.ActSignalTruce {
		s.deps.EventLog.Append(events.New(s.ID, res.Round, events.EventTypeTruceSignaled, map[string]interface{}{
			"trust_level": s.game.Inspector().TrustLevel(),
		}))
	}
	if res.WasTrap {
		s.deps.EventLog.Append(events.New(s.ID, res.Round, events.EventTypeTrapSprung, map[string]interface{}{
			"payoff": res.Payoff,
		}))
	}
	if res.GameOver {
		s.deps.EventLog.Append(events.New(s.ID, res.Round, events.EventTypeGameCompleted, map[string]interface{}{
			"final_score": res.Score,
		}))
	}
}

func (s *Session) persistRound(ctx context.Context, res engine.RoundResult) {
	if s.deps.Rounds == nil {
		return
	}

	err := s.deps.Rounds.Append(ctx, storage.RoundRow{
		GameID:          s.ID,
		Round:           res.Round,
		SmugglerAction:  res.Smuggler.String(),
		InspectorAction: res.Inspector.String(),
		Quantity:        res.Quantity,
		Payoff:          res.Payoff,
		Score:           res.Score,
		WasTrap:         res.WasTrap,
	})
	if err != nil && s.deps.Log != nil {
		s.deps.Log.Error("persist round %d of game %s: %v", res.Round, s.ID, err)
	}
}

func (s *Session) refreshSnapshot(ctx context.Context) {
	if s.deps.Snapshots == nil {
		return
	}
	if err := s.deps.Snapshots.SetSnapshot(ctx, s.ID, s.snapshotLocked()); err != nil && s.deps.Log != nil {
		s.deps.Log.Warn("cache snapshot for game %s: %v", s.ID, err)
	}
}

func (s *Session) finish(ctx context.Context) {
	if s.deps.Collector != nil {
		s.deps.Collector.RecordGameComplete()
	}
	if s.deps.Log != nil {
		s.deps.Log.Event(string(events.EventTypeGameCompleted), s.ID,
			fmt.Sprintf("final score %d, trust %.2f", s.game.Score(), s.game.Inspector().TrustLevel()))
	}
	if s.deps.Games != nil {
		err := s.deps.Games.Finish(ctx, s.ID, s.game.Score(), s.game.Inspector().TrustLevel(), s.game.Round())
		if err != nil && s.deps.Log != nil {
			s.deps.Log.Error("finish game %s: %v", s.ID, err)
		}
	}
}

// formatRecentHistory renders the last rounds as short lines for the LLM.
func formatRecentHistory(history []game.RoundRecord) string {
	if len(history) == 0 {
		return ""
	}
	start := 0
	if len(history) > 5 {
		start = len(history) - 5
	}

	var sb strings.Builder
	for _, rec := range history[start:] {
		fmt.Fprintf(&sb, "Round %d: smuggler %s, you %s (%+d)\n",
			rec.Round, rec.Smuggler, rec.Inspector, rec.Payoff)
	}
	return strings.TrimRight(sb.String(), "\n")
}
