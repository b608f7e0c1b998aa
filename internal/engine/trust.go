package engine

import (
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/domain/game"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/domain/rules"
)

// updateTrust folds the smuggler's previous action into the trust scalar.
// Smuggling breaks trust in one step what two passive rounds built; bribery
// buys less goodwill than honest cooperation. Every update clamps to [0,1].
func (ai *Inspector) updateTrust(lastSmugglerAction game.Action) {
	switch {
	case lastSmugglerAction == game.ActionNone:
		// First round: nothing observed yet.
	case lastSmugglerAction == game.ActSmuggle:
		ai.trustLevel = clamp01(ai.trustLevel - rules.TrustSmuggleDrop)
		ai.consecutivePassive = 0
	case lastSmugglerAction.IsPassive():
		ai.trustLevel = clamp01(ai.trustLevel + rules.TrustPassiveGain)
		ai.consecutivePassive++
	case lastSmugglerAction == game.ActBribe:
		ai.trustLevel = clamp01(ai.trustLevel + rules.TrustBribeGain)
		ai.consecutivePassive = 0
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
