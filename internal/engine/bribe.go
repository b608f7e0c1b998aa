package engine

import (
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/domain/game"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/domain/rules"
)

// Fallback lines when no Speaker is attached.
const (
	lineBribeHonored  = "Deal. You've bought yourself a pass."
	lineBribeBetrayed = "Deal. I'll look the other way."
	lineBribeRefused  = "I can't be bought. Not today."
	lineTruceWarm     = "Noted. Maybe we can work together."
	lineTruceCold     = "Trust is earned, not given."
)

// HandleBribe decides whether to accept a bribe offer, and if so whether to
// honor it or pocket the money and inspect anyway.
//
// Acceptance probability is greed plus a trust bonus, reduced late in the
// game when the stakes are higher. An accepted bribe commits immediately:
// either two rounds of immunity (this round and the next), or a trap that
// fires on the next Decide call.
func (ai *Inspector) HandleBribe(roundNum, smugglerScore int) (bool, string) {
	ai.bribesOffered++

	acceptanceProb := ai.traits.Greed + ai.trustLevel*0.2
	if roundNum > rules.MidGameEnd {
		acceptanceProb -= 0.15
	}

	if ai.rng.Float64() >= acceptanceProb {
		if ai.speaker != nil {
			return false, ai.speaker.BribeResponse(false, false)
		}
		return false, lineBribeRefused
	}

	ai.bribesAccepted++
	willBetray := ai.rng.Float64() < ai.traits.Deceptiveness*0.5

	if willBetray {
		ai.pendingDeal = game.DealAcceptedTrap
	} else {
		ai.pendingDeal = game.DealSafeGrant
		ai.immunityTurns = rules.ImmunityGrantTurns
	}

	if ai.speaker != nil {
		return true, ai.speaker.BribeResponse(true, !willBetray)
	}
	if willBetray {
		return true, lineBribeBetrayed
	}
	return true, lineBribeHonored
}

// HandleTruceSignal responds to the smuggler's truce signal. A truce is a
// pure signal, not a binding deal: when trust is already high it warms
// relations further, otherwise it only draws skepticism.
func (ai *Inspector) HandleTruceSignal() string {
	ai.trucesSignaled++

	trustHigh := ai.trustLevel > rules.TruceTrustHighBar
	if trustHigh {
		ai.trustLevel = clamp01(ai.trustLevel + rules.TrustTruceBonus)
	}

	if ai.speaker != nil {
		return ai.speaker.TruceResponse(trustHigh)
	}
	if trustHigh {
		return lineTruceWarm
	}
	return lineTruceCold
}
