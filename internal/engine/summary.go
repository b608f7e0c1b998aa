package engine

import (
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/domain/game"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/domain/rules"
)

// Summary is the end-of-game statistical breakdown used by the CLI report
// and the server's game-over payload.
type Summary struct {
	FinalScore    int     `json:"final_score"`
	AveragePayoff float64 `json:"average_payoff"`

	SmuggleCount int `json:"smuggle_count"`
	LayLowCount  int `json:"laylow_count"`
	BribeCount   int `json:"bribe_count"`
	TruceCount   int `json:"truce_count"`

	SmuggleRate  float64 `json:"smuggle_rate"`
	PatternScore float64 `json:"pattern_score"`

	RiskProfile    string `json:"risk_profile"`
	Predictability string `json:"predictability"`
	Verdict        string `json:"verdict"`
}

// Summarize computes the closing assessment for a finished (or abandoned)
// game from its history alone.
func Summarize(history []game.RoundRecord, finalScore int) Summary {
	s := Summary{FinalScore: finalScore}

	for _, r := range history {
		switch r.Smuggler {
		case game.ActSmuggle:
			s.SmuggleCount++
		case game.ActLayLow:
			s.LayLowCount++
		case game.ActBribe:
			s.BribeCount++
		case game.ActSignalTruce:
			s.TruceCount++
		}
	}

	rounds := len(history)
	if rounds == 0 {
		return s
	}

	s.AveragePayoff = float64(finalScore) / float64(rounds)
	s.SmuggleRate = float64(s.SmuggleCount) / float64(rounds)
	s.PatternScore = patternScore(history)

	switch {
	case s.SmuggleRate > 0.6:
		s.RiskProfile = "Aggressive smuggler - high variance strategy."
	case s.SmuggleRate > 0.35:
		s.RiskProfile = "Balanced approach - calculated risks."
	case s.SmuggleRate > 0.15:
		s.RiskProfile = "Conservative - safety-focused play."
	default:
		s.RiskProfile = "Ultra-cautious - minimal risk tolerance."
	}

	switch {
	case s.PatternScore > 0.7:
		s.Predictability = "HIGH - your patterns were exploitable."
	case s.PatternScore > 0.4:
		s.Predictability = "MODERATE - some readable tendencies."
	default:
		s.Predictability = "LOW - good variance in your play."
	}

	switch avg := s.AveragePayoff; {
	case avg > 4:
		s.Verdict = "MASTER SMUGGLER: You dominated the inspector."
	case avg > 2:
		s.Verdict = "SKILLED OPERATOR: Consistently profitable play."
	case avg > 0:
		s.Verdict = "SURVIVOR: Stayed in the black - room for improvement."
	case avg > -2:
		s.Verdict = "BREAK EVEN: The inspector matched your wits."
	default:
		s.Verdict = "BUSTED: The inspector read you well - try more variance."
	}

	return s
}

// patternScore measures how predictable the action sequence was: high for
// long repeats, high for near-perfect alternation, low for genuine variance.
// Returns 0.5 for histories too short to judge.
func patternScore(history []game.RoundRecord) float64 {
	if len(history) < 5 {
		return 0.5
	}

	maxRepeat, currentRepeat := 1, 1
	alternations := 0
	for i := 1; i < len(history); i++ {
		if history[i].Smuggler == history[i-1].Smuggler {
			currentRepeat++
			if currentRepeat > maxRepeat {
				maxRepeat = currentRepeat
			}
		} else {
			currentRepeat = 1
			alternations++
		}
	}

	repeatScore := float64(maxRepeat) / 5
	if repeatScore > 1 {
		repeatScore = 1
	}

	altRatio := float64(alternations) / float64(len(history)-1)
	altScore := altRatio - 0.5
	if altScore < 0 {
		altScore = -altScore
	}
	altScore *= 2

	return (repeatScore + altScore) / 2
}

// ExpectedRounds exposes the configured game length for presentation layers
// that render progress without importing rules directly.
func ExpectedRounds() int { return rules.RoundsPerGame }
