// Package dialogue generates the Inspector's table talk: moods, static line
// tables, and the optional LLM-backed generator layered on top.
//
// Everything here is presentation. The decision engine's correctness never
// depends on a line being produced; this package consumes game state and
// must never mutate it.
package dialogue

import (
	"context"
	"time"

	"github.com/MRamiBalles/ContrabandoJuego/server/internal/domain/game"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/engine"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/infra/ai"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/platform/entropy"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/platform/metrics"
)

// LineProducer generates one spoken line for a situation. An error or empty
// result means "use the static fallback"; it is never surfaced to the player.
type LineProducer interface {
	ProduceLine(ctx context.Context, gc ai.GameContext) (string, error)
}

// Personality generates contextual dialogue for the Inspector, adding
// psychological warfare and misdirection on top of the decision engine.
// It implements engine.Speaker.
type Personality struct {
	rng entropy.Source
	llm LineProducer // nil = static tables only

	mood           string
	honestyStreak  int
	betrayalCount  int
	llmCallTimeout time.Duration

	// Cached state for LLM context, refreshed by the caller each round.
	state ai.GameContext
}

// NewPersonality builds a personality sharing the game's seeded source so
// static line choices replay with the seed. llm may be nil.
func NewPersonality(rng entropy.Source, llm LineProducer) *Personality {
	return &Personality{
		rng:            rng,
		llm:            llm,
		mood:           engine.MoodNeutral,
		llmCallTimeout: 10 * time.Second,
	}
}

var greetings = []string{
	"Another day, another inspection.",
	"I've got my eye on you today.",
	"Let's see what you're up to.",
	"Ready when you are.",
	"Don't try anything clever.",
}

var threats = []string{
	"I'm watching your every move.",
	"Try smuggling. I dare you.",
	"My instincts are sharp today.",
	"I have a feeling about this round...",
	"You seem nervous. Something to hide?",
}

var lures = []string{
	"I might take it easy this round.",
	"Even inspectors need a break sometimes.",
	"I'm feeling generous today.",
	"The coast looks clear from here.",
	"I've got other things on my mind.",
}

var caughtReactions = []string{
	"Gotcha! Should've played it safe.",
	"Too predictable. I saw that coming.",
	"The house always wins.",
	"Did you really think I'd miss that?",
	"Another one bites the dust.",
}

var missedReactions = []string{
	"Hmm. Lucky this time.",
	"I'll get you next round.",
	"Enjoy it while it lasts.",
	"That won't happen again.",
	"You're craftier than I thought.",
}

var wastedInspection = []string{
	"Playing it safe, huh? Smart.",
	"I wasted my time on you.",
	"Cautious. I respect that.",
	"Nothing to see here, apparently.",
	"You're harder to read than I thought.",
}

var mutualPassive = []string{
	"Quiet round. Too quiet.",
	"We're both being careful.",
	"A gentleman's agreement, then?",
	"Neither of us blinked.",
	"Interesting strategy.",
}

var bribeConsider = []string{
	"A bribe? How... tempting.",
	"You think you can buy me?",
	"Money talks, I suppose.",
	"That's an interesting offer.",
	"Corruption has its price.",
}

var truceLines = []string{
	"A truce? In this economy?",
	"You want to cooperate? Curious.",
	"Trust is a dangerous game.",
	"Maybe we can work something out.",
	"Actions speak louder than signals.",
}

var betrayalLines = []string{
	"Did you really trust an inspector?",
	"Business is business.",
	"Sorry, but I have quotas to meet.",
	"That was a mistake.",
	"Never trust a badge.",
}

// SetLineProducer attaches the LLM generator after construction. The trait
// draw happens when the inspector is built, so the generator (whose system
// prompt bakes the traits in) can only be created afterwards.
func (p *Personality) SetLineProducer(llm LineProducer) { p.llm = llm }

// SetMood is called by the decision engine as a side effect of deciding.
func (p *Personality) SetMood(mood string) { p.mood = mood }

// Mood returns the current dialogue mood.
func (p *Personality) Mood() string { return p.mood }

// UpdateGameState refreshes the cached snapshot the LLM generator sees.
func (p *Personality) UpdateGameState(gc ai.GameContext) {
	situation := p.state.Situation
	p.state = gc
	p.state.Mood = p.mood
	p.state.Situation = situation
}

// RecordHonesty tracks whether the inspector kept its word on a deal.
func (p *Personality) RecordHonesty(keptWord bool) {
	if keptWord {
		p.honestyStreak++
	} else {
		p.honestyStreak = 0
		p.betrayalCount++
	}
}

// Greeting returns an opener for round 1 and nothing afterwards.
func (p *Personality) Greeting(roundNum int) string {
	if roundNum == 1 {
		return entropy.Pick(p.rng, greetings)
	}
	return ""
}

// PreRoundComment produces a taunt or lure before the smuggler chooses.
// Returns "" when the inspector keeps quiet.
func (p *Personality) PreRoundComment(roundNum int, smuggleFreq float64) string {
	if line := p.tryLLM("You're about to inspect. Say something to the smuggler before they choose their action. You might threaten, lure, or play mind games."); line != "" {
		return line
	}

	switch p.mood {
	case engine.MoodAggressive:
		return entropy.Pick(p.rng, threats)
	case engine.MoodFriendly, engine.MoodDeceptive:
		return entropy.Pick(p.rng, lures)
	}

	if smuggleFreq > 0.5 {
		return entropy.Pick(p.rng, append(threats[:len(threats):len(threats)], "Your luck will run out."))
	} else if smuggleFreq < 0.2 && roundNum > 5 {
		return entropy.Pick(p.rng, append(lures[:len(lures):len(lures)], "Playing too safe loses points too."))
	}

	if p.rng.Float64() < 0.4 {
		pool := append(threats[:len(threats):len(threats)], lures...)
		return entropy.Pick(p.rng, pool)
	}
	return ""
}

// OutcomeComment reacts to a resolved round.
func (p *Personality) OutcomeComment(smuggler, inspector game.Action, wasTrap bool) string {
	if wasTrap {
		if line := p.tryLLM("You just sprung a TRAP on the smuggler! They fell for your deception. Gloat!"); line != "" {
			return line
		}
		return entropy.Pick(p.rng, betrayalLines)
	}

	if line := p.tryLLM(outcomeSituation(smuggler, inspector)); line != "" {
		return line
	}

	switch smuggler {
	case game.ActSmuggle:
		if inspector == game.ActInspect {
			return entropy.Pick(p.rng, caughtReactions)
		}
		return entropy.Pick(p.rng, missedReactions)
	case game.ActLayLow:
		if inspector == game.ActInspect {
			return entropy.Pick(p.rng, wastedInspection)
		}
		return entropy.Pick(p.rng, mutualPassive)
	case game.ActBribe:
		return entropy.Pick(p.rng, bribeConsider)
	case game.ActSignalTruce:
		return entropy.Pick(p.rng, truceLines)
	}
	return ""
}

// BribeResponse answers a bribe offer. Part of engine.Speaker.
func (p *Personality) BribeResponse(accepted, willHonor bool) string {
	var situation string
	switch {
	case accepted && willHonor:
		situation = "The smuggler offered a bribe. You're accepting it AND will honor the deal."
	case accepted:
		situation = "The smuggler offered a bribe. You're accepting their money but plan to BETRAY them and inspect anyway. Be convincing."
	default:
		situation = "The smuggler offered a bribe. You're refusing it."
	}
	if line := p.tryLLM(situation); line != "" {
		return line
	}

	if accepted {
		if willHonor {
			return "Deal. You've bought yourself a pass."
		}
		return "Deal. I'll look the other way."
	}
	return "I can't be bought. Not today."
}

// TruceResponse answers a truce signal. Part of engine.Speaker.
func (p *Personality) TruceResponse(trustHigh bool) string {
	var situation string
	if trustHigh {
		situation = "The smuggler is signaling they want a truce. Trust is high - you might cooperate."
	} else {
		situation = "The smuggler is signaling they want a truce. Trust is low - you're skeptical."
	}
	if line := p.tryLLM(situation); line != "" {
		return line
	}

	if trustHigh {
		return "Noted. Maybe we can work together."
	}
	return "Trust is earned, not given."
}

// tryLLM asks the generator for a line, bounded by the call timeout.
// Any failure returns "" and the caller falls back to the static tables.
func (p *Personality) tryLLM(situation string) string {
	if p.llm == nil {
		return ""
	}

	gc := p.state
	gc.Mood = p.mood
	gc.Situation = situation

	ctx, cancel := context.WithTimeout(context.Background(), p.llmCallTimeout)
	defer cancel()

	line, err := p.llm.ProduceLine(ctx, gc)
	if err != nil {
		metrics.Get().RecordLLMFallback()
		return ""
	}
	return line
}

func outcomeSituation(smuggler, inspector game.Action) string {
	outcome := "Smuggler chose " + smuggler.String() + ", Inspector chose " + inspector.String() + "."
	switch {
	case smuggler == game.ActSmuggle && inspector == game.ActInspect:
		outcome += " Smuggler was CAUGHT!"
	case smuggler == game.ActSmuggle && inspector == game.ActDontInspect:
		outcome += " Smuggler got away with it!"
	case smuggler == game.ActLayLow && inspector == game.ActInspect:
		outcome += " Inspector wasted the inspection."
	default:
		outcome += " Quiet round."
	}
	return "Round just ended. React to this outcome: " + outcome
}

var _ engine.Speaker = (*Personality)(nil)
