package rules

import "github.com/MRamiBalles/ContrabandoJuego/server/internal/domain/game"

// Payoff computes the smuggler's signed score delta for one resolved round.
//
// The bribe cost is paid regardless of outcome. Bribe and Signal Truce
// resolve as Lay Low. Smuggle rewards and penalties scale with quantity;
// Lay Low outcomes do not.
//
// Quantity must already be clamped by the caller (see QuantityMin/Max);
// a non-positive quantity is a caller bug.
func Payoff(smuggler, inspector game.Action, bribeAccepted bool, quantity int) int {
	if quantity <= 0 {
		panic("rules: non-positive smuggle quantity")
	}

	base := 0
	if smuggler == game.ActBribe {
		base = -BribeCost
	}

	if smuggler.Effective() == game.ActSmuggle {
		if inspector == game.ActInspect {
			return base + PayoffSmuggleInspect*quantity
		}
		return base + PayoffSmuggleDont*quantity
	}

	// Lay Low, or bribe/truce acting as Lay Low.
	if inspector == game.ActInspect {
		return base + PayoffLayLowInspect
	}
	return base + PayoffLayLowDont
}
