package engine

import (
	"fmt"

	"github.com/MRamiBalles/ContrabandoJuego/server/internal/domain/game"
)

// ReportEntry is one game theory lesson derived from a finished match.
type ReportEntry struct {
	Concept    string `json:"concept"`
	Definition string `json:"definition"`
	Analysis   string `json:"analysis"`
	Rating     string `json:"rating"`
}

// TutorReport analyzes a finished game and returns the game theory lessons
// the player's style earned. Pure function over history and final trust.
func TutorReport(history []game.RoundRecord, finalScore int, trustLevel float64) []ReportEntry {
	var report []ReportEntry

	rounds := len(history)
	if rounds == 0 {
		return report
	}

	smuggleCount := 0
	bribeAttempts := 0
	truceSignals := 0
	traps := 0
	for _, r := range history {
		switch r.Smuggler {
		case game.ActSmuggle:
			smuggleCount++
		case game.ActBribe:
			bribeAttempts++
		case game.ActSignalTruce:
			truceSignals++
		}
		if r.WasTrap {
			traps++
		}
	}
	smuggleRate := float64(smuggleCount) / float64(rounds)

	// 1. Mixed strategy (Nash equilibrium).
	switch {
	case smuggleRate > 0.3 && smuggleRate < 0.7:
		report = append(report, ReportEntry{
			Concept:    "Mixed Strategy Equilibrium",
			Definition: "A strategy where a player randomizes their choices to remain unpredictable.",
			Analysis:   "You played a strong Mixed Strategy. By keeping your smuggle rate between 30-70%, you made it mathematically impossible for the Inspector to fully exploit you.",
			Rating:     "A",
		})
	case smuggleRate > 0.7:
		report = append(report, ReportEntry{
			Concept:    "Predictability Tax",
			Definition: "In zero-sum games, being predictable allows your opponent to maximize their counter-strategy.",
			Analysis:   "You were too aggressive. A 'Pure Strategy' (always smuggling) is easily exploited: you gave the Inspector a dominant strategy (always inspecting).",
			Rating:     "C",
		})
	default:
		report = append(report, ReportEntry{
			Concept:    "Risk Aversion",
			Definition: "The tendency to prefer a sure outcome over a gamble with higher expected value.",
			Analysis:   "You played 'Minimax' - minimizing your maximum loss. While safe, you left Expected Value on the table by not bluffing enough to force the Inspector to patrol.",
			Rating:     "B",
		})
	}

	// 2. Signaling and reputation.
	if bribeAttempts+truceSignals > 3 {
		if trustLevel > 0.6 {
			report = append(report, ReportEntry{
				Concept:    "Signaling Theory",
				Definition: "Conveying information (truthful or false) to influence the recipient's belief system.",
				Analysis:   "You successfully used Costly Signaling (truces/bribes). By investing resources to build trust, you shifted the game from a zero-sum conflict to a localized cooperative game.",
				Rating:     "S",
			})
		} else {
			report = append(report, ReportEntry{
				Concept:    "Cheap Talk",
				Definition: "Communication between players that does not directly affect payoffs.",
				Analysis:   "Your signals failed to stick. Cheap Talk is ignored when actions don't match: you tried to signal cooperation but likely defected too soon.",
				Rating:     "D",
			})
		}
	}

	// 3. Information asymmetry.
	if traps > 0 {
		report = append(report, ReportEntry{
			Concept:    "Information Asymmetry",
			Definition: "When one party has more or better information than the other.",
			Analysis:   fmt.Sprintf("The Inspector used Information Asymmetry against you %d times: they knew they were going to inspect while signaling safety. In repeated games, verify signals before committing high stakes.", traps),
			Rating:     "B-",
		})
	}

	return report
}
