package engine

import (
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/domain/game"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/domain/rules"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/platform/entropy"
)

// RoundResult is everything a presentation layer needs to render one
// resolved round.
type RoundResult struct {
	Round         int         `json:"round"`
	Smuggler      game.Action `json:"smuggler_action"`
	Inspector     game.Action `json:"inspector_action"`
	Quantity      int         `json:"quantity"`
	Payoff        int         `json:"payoff"`
	Score         int         `json:"score"`
	WasTrap       bool        `json:"was_trap"`
	IsBait        bool        `json:"is_bait"`
	Announced     string      `json:"announced,omitempty"`
	BribeAccepted bool        `json:"bribe_accepted,omitempty"`
	BribeResponse string      `json:"bribe_response,omitempty"`
	TruceResponse string      `json:"truce_response,omitempty"`
	Insight       string      `json:"insight,omitempty"`
	GameOver      bool        `json:"game_over"`
}

// Game runs one smuggler-vs-inspector match. All state is plain value state;
// the caller may abandon the game at any round boundary.
type Game struct {
	seed      int64
	rng       entropy.Source
	inspector *Inspector
	advisor   *Advisor

	roundNum     int
	score        int
	history      []game.RoundRecord
	lastSmuggler game.Action
}

// NewGame seeds a fresh match. The inspector and its speaker draw from the
// same source as the game itself, so one seed replays everything.
func NewGame(seed int64, speaker Speaker) *Game {
	return NewGameFromSource(seed, entropy.NewSeeded(seed), speaker)
}

// NewGameFromSource builds a game over an existing source. Callers use this
// when the speaker must share the game's randomness; seed is recorded for
// replay bookkeeping and assumed to match the source.
func NewGameFromSource(seed int64, rng entropy.Source, speaker Speaker) *Game {
	return &Game{
		seed:      seed,
		rng:       rng,
		inspector: NewInspector(rng, speaker),
		advisor:   NewAdvisor(rng),
	}
}

// Seed returns the seed this game was constructed with.
func (g *Game) Seed() int64 { return g.seed }

// Inspector exposes the opponent for read-only queries (trust, traits,
// frequencies) by presentation layers.
func (g *Game) Inspector() *Inspector { return g.inspector }

// Round returns the number of rounds resolved so far.
func (g *Game) Round() int { return g.roundNum }

// Score returns the smuggler's running total.
func (g *Game) Score() int { return g.score }

// History returns the resolved rounds in order. Must not be mutated.
func (g *Game) History() []game.RoundRecord { return g.history }

// Over reports whether all rounds have been played.
func (g *Game) Over() bool { return g.roundNum >= rules.RoundsPerGame }

// PlayRound resolves one full round for the given smuggler action.
// Quantity applies to Smuggle only and is clamped to the legal range.
//
// The sequencing mirrors the round contract: special-action handling
// (bribe/truce) runs before the decision, the bribe override resolves after
// it, payoff is computed, and only then is the round recorded.
func (g *Game) PlayRound(action game.Action, quantity int) RoundResult {
	if g.Over() {
		panic("engine: PlayRound called on finished game")
	}
	if !action.IsSmugglerAction() {
		panic("engine: not a smuggler action: " + action.String())
	}
	if quantity < rules.QuantityMin {
		quantity = rules.QuantityMin
	}
	if quantity > rules.QuantityMax {
		quantity = rules.QuantityMax
	}

	g.roundNum++
	res := RoundResult{Round: g.roundNum, Smuggler: action, Quantity: quantity}

	switch action {
	case game.ActBribe:
		res.BribeAccepted, res.BribeResponse = g.inspector.HandleBribe(g.roundNum, g.score)
	case game.ActSignalTruce:
		res.TruceResponse = g.inspector.HandleTruceSignal()
	}

	decision := g.inspector.Decide(g.roundNum, g.score, g.lastSmuggler)
	res.Inspector = decision.Action
	res.IsBait = decision.IsBait
	res.Announced = decision.Announced

	// Bribe override. An honest acceptance already forces DontInspect via
	// immunity; a betrayal surfaces as the forced Inspect+bait decision.
	if res.BribeAccepted && decision.Action == game.ActInspect && decision.IsBait {
		res.WasTrap = true
	}
	if decision.IsBait && action == game.ActSmuggle {
		res.WasTrap = true
	}

	res.Payoff = rules.Payoff(action, decision.Action, res.BribeAccepted, quantity)
	g.score += res.Payoff
	res.Score = g.score

	res.Insight = g.advisor.Insight(InsightContext{
		Round:         g.roundNum,
		Smuggler:      action,
		Inspector:     decision.Action,
		WasTrap:       res.WasTrap,
		TrustLevel:    g.inspector.TrustLevel(),
		SmuggleFreq:   g.inspector.SmuggleFrequency(),
		Bribed:        action == game.ActBribe,
		SignaledTruce: action == game.ActSignalTruce,
	})

	g.inspector.RecordRound(action, decision.Action, res.WasTrap)
	g.history = append(g.history, game.RoundRecord{
		Round:     g.roundNum,
		Smuggler:  action,
		Inspector: decision.Action,
		Payoff:    res.Payoff,
		WasTrap:   res.WasTrap,
	})
	g.lastSmuggler = action

	res.GameOver = g.Over()
	return res
}
