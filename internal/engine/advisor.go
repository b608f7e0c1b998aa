package engine

import (
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/domain/game"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/platform/entropy"
)

// InsightContext carries the round outcome the advisor comments on.
type InsightContext struct {
	Round         int
	Smuggler      game.Action
	Inspector     game.Action
	WasTrap       bool
	TrustLevel    float64
	SmuggleFreq   float64
	Bribed        bool
	SignaledTruce bool
}

// Advisor generates the per-round teaching insight. It draws its line choice
// from the game's seeded source so replays produce identical commentary.
type Advisor struct {
	rng entropy.Source
}

func NewAdvisor(rng entropy.Source) *Advisor {
	return &Advisor{rng: rng}
}

var trapInsights = []string{
	"Signals can be deceptive - verify trust through patterns, not words.",
	"The inspector exploited your expectations - unpredictability is defense.",
	"Bait works both ways - always keep some uncertainty.",
	"Trust takes time to build but moments to break.",
}

var bribeWorkedInsights = []string{
	"Collusion paid off, but it costs credibility for future deals.",
	"The bribe worked - corruption can be rational in repeated games.",
	"Short-term gain through side payments - sustainable strategy?",
}

var bribeFailedInsights = []string{
	"The inspector took the money and betrayed you - trust deficit.",
	"Bribes only work when enforcement exists - here there's none.",
}

var truceInsights = []string{
	"Signaling cooperation is cheap - your actions must back it up.",
	"Trust signals matter more when they're costly to fake.",
	"Building rapport takes consistent behavior across rounds.",
}

var caughtInsights = []string{
	"Caught - consider whether your timing was predictable.",
	"The inspector anticipated aggression - mix in more variance.",
	"High-risk plays need unpredictable timing to succeed.",
	"Pattern recognition works against repeated strategies.",
}

var gotAwayInsights = []string{
	"Big payoff - but success can breed overconfidence.",
	"The opening was there and you took it.",
	"Will you push your luck or bank this win?",
	"Reward now, but the inspector learns from misses.",
}

var wastedInspectionInsights = []string{
	"Caution preserved your position - good read.",
	"The inspector wasted resources - psychological victory.",
	"Playing safe when they expected aggression.",
	"Defense has value, but limited upside.",
}

var quietRoundInsights = []string{
	"Mutual caution - small gain, small risk.",
	"Neither side committed - opportunity cost?",
	"Stable but slow - aggressive players punish passivity.",
	"The equilibrium held this round.",
}

// Insight returns one teaching line for the resolved round.
func (a *Advisor) Insight(ctx InsightContext) string {
	if ctx.WasTrap {
		return entropy.Pick(a.rng, trapInsights)
	}

	if ctx.Bribed {
		if ctx.Inspector == game.ActDontInspect {
			return entropy.Pick(a.rng, bribeWorkedInsights)
		}
		return entropy.Pick(a.rng, bribeFailedInsights)
	}

	if ctx.SignaledTruce {
		return entropy.Pick(a.rng, truceInsights)
	}

	var insights []string
	switch {
	case ctx.Smuggler == game.ActSmuggle && ctx.Inspector == game.ActInspect:
		insights = caughtInsights
	case ctx.Smuggler == game.ActSmuggle:
		insights = gotAwayInsights
	case ctx.Inspector == game.ActInspect:
		insights = wastedInspectionInsights
	default:
		insights = quietRoundInsights
	}

	// Context-specific variants widen the pool.
	if ctx.Round > 15 {
		insights = append(insights[:len(insights):len(insights)],
			"Late game - every point matters more now.")
	}
	if ctx.SmuggleFreq > 0.5 {
		insights = append(insights[:len(insights):len(insights)],
			"Your aggression level is high - expect counter-adaptation.")
	} else if ctx.SmuggleFreq < 0.2 {
		insights = append(insights[:len(insights):len(insights)],
			"Very conservative play - are you maximizing expected value?")
	}

	return entropy.Pick(a.rng, insights)
}
