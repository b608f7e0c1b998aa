package engine

import "github.com/MRamiBalles/ContrabandoJuego/server/internal/domain/game"

// detectPattern scans the smuggler's history for exploitable tendencies and
// returns the counter-action, or ActionNone when nothing is detectable.
//
// This is deliberately simple pattern matching, not statistical inference:
// it rewards a player who introduces genuine variance and punishes streaks
// and strict alternation.
func detectPattern(history []game.Action) game.Action {
	if len(history) < 3 {
		return game.ActionNone
	}

	last3 := history[len(history)-3:]

	// All-smuggle streak.
	allSmuggle := true
	for _, a := range last3 {
		if a != game.ActSmuggle {
			allSmuggle = false
			break
		}
	}
	if allSmuggle {
		return game.ActInspect
	}

	// All-passive streak.
	allPassive := true
	for _, a := range last3 {
		if !a.IsPassive() {
			allPassive = false
			break
		}
	}
	if allPassive {
		return game.ActDontInspect
	}

	// Strict alternation over the last four moves: predict continuation.
	if len(history) >= 4 {
		h := history[len(history)-4:]
		if h[0] != h[1] && h[1] != h[2] && h[2] != h[3] {
			if h[3].IsPassive() {
				// Expect a smuggle next.
				return game.ActInspect
			}
			return game.ActDontInspect
		}
	}

	return game.ActionNone
}
