package engine

import (
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/domain/game"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/domain/rules"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/platform/entropy"
)

// Mood values consumed by the dialogue layer. The engine sets the mood as a
// side effect of deciding; it never reads it back.
const (
	MoodNeutral    = "neutral"
	MoodAggressive = "aggressive"
	MoodFriendly   = "friendly"
	MoodDeceptive  = "deceptive"
)

// Speaker produces the Inspector's spoken lines for bribe and truce
// exchanges. Implementations must consume game state, never mutate it.
// A nil Speaker falls back to fixed lines.
type Speaker interface {
	BribeResponse(accepted, willHonor bool) string
	TruceResponse(trustHigh bool) string
	RecordHonesty(keptWord bool)
	SetMood(mood string)
}

// Inspector is the adaptive opponent. It owns the trust/immunity state
// machine and the round history, and derives every probabilistic choice
// from a single seeded source.
type Inspector struct {
	rng     entropy.Source
	speaker Speaker
	traits  game.Traits

	// History tracking
	historySmuggler  []game.Action
	historyInspector []game.Action
	bribesOffered    int
	bribesAccepted   int
	trucesSignaled   int
	trapsSet         int
	trapsSprung      int

	// Trust/cooperation state. Owned exclusively by this struct for the
	// lifetime of a game; reset only by constructing a new Inspector.
	trustLevel         float64 // 0 = hostile, 1 = cooperative
	consecutivePassive int
	immunityTurns      int
	pendingDeal        game.PendingDeal
	mood               string
}

// NewInspector draws the per-game traits from rng and starts at neutral
// trust. The speaker may be nil.
func NewInspector(rng entropy.Source, speaker Speaker) *Inspector {
	return &Inspector{
		rng:        rng,
		speaker:    speaker,
		trustLevel: rules.TrustStart,
		mood:       MoodNeutral,
		traits: game.Traits{
			Greed:         rng.UniformIn(game.GreedMin, game.GreedMax),
			Deceptiveness: rng.UniformIn(game.DeceptivenessMin, game.DeceptivenessMax),
			Adaptiveness:  rng.UniformIn(game.AdaptivenessMin, game.AdaptivenessMax),
		},
	}
}

// Traits returns the immutable personality draw for this game.
func (ai *Inspector) Traits() game.Traits { return ai.traits }

// TrustLevel returns the current trust scalar in [0,1].
func (ai *Inspector) TrustLevel() float64 { return ai.trustLevel }

// ImmunityTurns returns the remaining bought-pass rounds.
func (ai *Inspector) ImmunityTurns() int { return ai.immunityTurns }

// PendingDeal returns the bribe commitment awaiting resolution.
func (ai *Inspector) PendingDeal() game.PendingDeal { return ai.pendingDeal }

// Mood returns the dialogue mood picked by the last decision.
func (ai *Inspector) Mood() string { return ai.mood }

// TrapsSet returns how many traps the inspector has committed to.
func (ai *Inspector) TrapsSet() int { return ai.trapsSet }

// TrapsSprung returns how many traps actually caught the smuggler.
func (ai *Inspector) TrapsSprung() int { return ai.trapsSprung }

// BribesAccepted returns how many offered bribes were taken.
func (ai *Inspector) BribesAccepted() int { return ai.bribesAccepted }

// BribesOffered returns how many bribes the smuggler has offered.
func (ai *Inspector) BribesOffered() int { return ai.bribesOffered }

// History returns the smuggler's action history in round order.
// The returned slice must not be mutated.
func (ai *Inspector) History() []game.Action { return ai.historySmuggler }

// SmuggleFrequency returns the observed rate of Smuggle in the history,
// or the 0.3 prior before any rounds are recorded.
func (ai *Inspector) SmuggleFrequency() float64 {
	if len(ai.historySmuggler) == 0 {
		return 0.3
	}
	count := 0
	for _, a := range ai.historySmuggler {
		if a == game.ActSmuggle {
			count++
		}
	}
	return float64(count) / float64(len(ai.historySmuggler))
}

// CooperationFrequency returns how often the smuggler has played a
// cooperative action (lay low, truce or bribe), with a 0.5 prior.
func (ai *Inspector) CooperationFrequency() float64 {
	if len(ai.historySmuggler) == 0 {
		return 0.5
	}
	count := 0
	for _, a := range ai.historySmuggler {
		if a.IsPassive() || a == game.ActBribe {
			count++
		}
	}
	return float64(count) / float64(len(ai.historySmuggler))
}

// Decide is the main decision function, called exactly once per round.
//
// Check order is part of the behavioral contract: active immunity
// short-circuits everything, a committed trap fires next, and only then do
// trust update, mood update and phase dispatch run. Reordering changes the
// random stream and therefore every replay.
func (ai *Inspector) Decide(roundNum, smugglerScore int, lastSmugglerAction game.Action) game.DecisionResult {
	// Handle active immunity: the bought pass overrides all phase logic.
	if ai.immunityTurns > 0 {
		ai.immunityTurns--
		if ai.immunityTurns == 0 && ai.pendingDeal == game.DealSafeGrant {
			ai.pendingDeal = game.DealNone
		}
		return game.DecisionResult{
			Action:    game.ActDontInspect,
			Announced: "I'm looking the other way.",
		}
	}

	// A committed betrayal trap fires now, regardless of phase.
	if ai.pendingDeal == game.DealAcceptedTrap {
		ai.pendingDeal = game.DealNone
		if ai.speaker != nil {
			ai.speaker.RecordHonesty(false)
		}
		return game.DecisionResult{
			Action:    game.ActInspect,
			IsBait:    true,
			Announced: "A deal's a deal... or is it?",
		}
	}

	smuggleFreq := ai.SmuggleFrequency()
	coopFreq := ai.CooperationFrequency()

	ai.updateTrust(lastSmugglerAction)
	ai.setMood(smuggleFreq)

	switch {
	case roundNum <= rules.EarlyGameEnd:
		return ai.earlyGameDecision(roundNum)
	case roundNum <= rules.MidGameEnd:
		return ai.midGameDecision(roundNum, smuggleFreq, coopFreq)
	default:
		return ai.lateGameDecision(roundNum, smuggleFreq, coopFreq)
	}
}

// setMood picks the dialogue mood for this round. High trust may read as
// friendliness or as the setup for a trap, depending on the deceptiveness
// draw. The mood (and its draw) happens every round, speaker or not: the
// random stream must not depend on whether anyone is listening.
func (ai *Inspector) setMood(smuggleFreq float64) {
	switch {
	case smuggleFreq > 0.5:
		ai.mood = MoodAggressive
	case ai.trustLevel > 0.7:
		if ai.rng.Float64() < ai.traits.Deceptiveness {
			ai.mood = MoodDeceptive
		} else {
			ai.mood = MoodFriendly
		}
	default:
		ai.mood = MoodNeutral
	}
	if ai.speaker != nil {
		ai.speaker.SetMood(ai.mood)
	}
}

// earlyGameDecision establishes a baseline: near-Nash randomization around a
// 60% inspection rate, with the occasional pure bait to test the player.
func (ai *Inspector) earlyGameDecision(roundNum int) game.DecisionResult {
	baseProb := 0.6 + ai.rng.UniformIn(-0.1, 0.1)

	if roundNum >= 4 && ai.rng.Float64() < 0.15 {
		// Announce leniency, then inspect anyway. Early probes don't count
		// toward the trap tally; only deliberate mid/late setups do.
		return game.DecisionResult{
			Action:    game.ActInspect,
			IsBait:    true,
			Announced: "I might go easy on you...",
		}
	}

	if ai.rng.Float64() < baseProb {
		return game.DecisionResult{Action: game.ActInspect}
	}
	return game.DecisionResult{Action: game.ActDontInspect}
}

// midGameDecision adapts to the observed smuggle rate and introduces the
// collusion dynamics: reciprocate sustained cooperation, betray it, or layer
// a bait over the adaptive roll.
//
// The layered checks are evaluated in a fixed order (reciprocate, betray,
// bait, adaptive roll). They are deliberately NOT collapsed into one
// normalized draw; the effective probabilities depend on this order.
func (ai *Inspector) midGameDecision(roundNum int, smuggleFreq, coopFreq float64) game.DecisionResult {
	if ai.trustLevel > 0.65 && ai.consecutivePassive >= 2 {
		// Player seems cooperative - maybe reciprocate, or exploit.
		if ai.rng.Float64() < ai.trustLevel-0.3 {
			return game.DecisionResult{
				Action:    game.ActDontInspect,
				Announced: "Let's keep this arrangement going.",
			}
		} else if ai.rng.Float64() < ai.traits.Deceptiveness {
			ai.trapsSet++
			return game.DecisionResult{
				Action:    game.ActInspect,
				IsBait:    true,
				Announced: "I appreciate the cooperation...",
			}
		}
	}

	var inspectProb float64
	switch {
	case smuggleFreq > 0.45:
		inspectProb = 0.75 + ai.traits.Adaptiveness*0.1
	case smuggleFreq < 0.2:
		inspectProb = 0.35 - ai.traits.Adaptiveness*0.1
	default:
		inspectProb = 0.55
	}

	if ai.rng.Float64() < ai.traits.Deceptiveness*0.4 {
		if ai.rng.Float64() < 0.5 {
			// Bait: announce relaxing, actually inspect.
			ai.trapsSet++
			return game.DecisionResult{
				Action:    game.ActInspect,
				IsBait:    true,
				Announced: "Taking it easy this round.",
			}
		}
		// Reverse bait: announce aggression, stand down.
		return game.DecisionResult{
			Action:    game.ActDontInspect,
			Announced: "You're definitely getting caught.",
		}
	}

	if ai.rng.Float64() < inspectProb {
		return game.DecisionResult{Action: game.ActInspect}
	}
	return game.DecisionResult{Action: game.ActDontInspect}
}

// lateGameDecision exploits detected patterns and frequency extremes, eases
// off for a genuinely cooperative endgame, and tightens up in the final two
// rounds.
func (ai *Inspector) lateGameDecision(roundNum int, smuggleFreq, coopFreq float64) game.DecisionResult {
	if counter := detectPattern(ai.historySmuggler); counter != game.ActionNone {
		if ai.rng.Float64() < 0.7 {
			return game.DecisionResult{
				Action:    counter,
				Announced: "I see what you're doing.",
			}
		}
	}

	// High trust + endgame = potential mutual benefit.
	if ai.trustLevel > 0.75 && roundNum >= 18 {
		if ai.rng.Float64() < 0.5 {
			return game.DecisionResult{
				Action:    game.ActDontInspect,
				Announced: "We've built something here.",
			}
		}
	}

	if smuggleFreq > 0.55 {
		return game.DecisionResult{
			Action:    game.ActInspect,
			Announced: "Too aggressive. Predictable.",
		}
	} else if smuggleFreq < 0.2 {
		// Too passive - maybe set a trap.
		if ai.rng.Float64() < ai.traits.Deceptiveness {
			ai.trapsSet++
			return game.DecisionResult{
				Action:    game.ActInspect,
				IsBait:    true,
				Announced: "Safe players are boring.",
			}
		}
		return game.DecisionResult{Action: game.ActDontInspect}
	}

	if roundNum >= rules.RoundsPerGame-1 {
		if ai.rng.Float64() < 0.7 {
			return game.DecisionResult{
				Action:    game.ActInspect,
				Announced: "Can't let you win now.",
			}
		}
	}

	// Mixed strategy fallback, weighted slightly toward inspecting.
	if ai.rng.Float64() < 0.55 {
		return game.DecisionResult{Action: game.ActInspect}
	}
	return game.DecisionResult{Action: game.ActDontInspect}
}

// RecordRound appends the resolved round to the inspector's history.
// Must be called exactly once per round, after bribe-override resolution and
// before the next Decide: frequency and pattern reads see history as of the
// start of the next round.
func (ai *Inspector) RecordRound(smuggler, inspector game.Action, wasTrapSprung bool) {
	ai.historySmuggler = append(ai.historySmuggler, smuggler)
	ai.historyInspector = append(ai.historyInspector, inspector)
	if wasTrapSprung {
		ai.trapsSprung++
	}
}
