package engine

import (
	"strings"
	"testing"

	"github.com/MRamiBalles/ContrabandoJuego/server/internal/domain/game"
)

func historyOf(actions ...game.Action) []game.RoundRecord {
	records := make([]game.RoundRecord, len(actions))
	for i, a := range actions {
		records[i] = game.RoundRecord{Round: i + 1, Smuggler: a}
	}
	return records
}

func TestSummarizeEmptyHistory(t *testing.T) {
	s := Summarize(nil, 0)
	if s.FinalScore != 0 || s.SmuggleCount != 0 {
		t.Errorf("empty history must produce a zero summary, got %+v", s)
	}
}

func TestSummarizeCountsAndRates(t *testing.T) {
	history := historyOf(
		game.ActSmuggle, game.ActSmuggle, game.ActLayLow,
		game.ActBribe, game.ActSignalTruce, game.ActLayLow,
	)
	s := Summarize(history, 12)

	if s.SmuggleCount != 2 || s.LayLowCount != 2 || s.BribeCount != 1 || s.TruceCount != 1 {
		t.Errorf("wrong action counts: %+v", s)
	}
	if s.SmuggleRate < 0.33 || s.SmuggleRate > 0.34 {
		t.Errorf("expected smuggle rate 1/3, got %f", s.SmuggleRate)
	}
	if s.AveragePayoff != 2 {
		t.Errorf("expected average payoff 2, got %f", s.AveragePayoff)
	}
}

func TestSummarizeVerdictTiers(t *testing.T) {
	history := historyOf(game.ActLayLow, game.ActLayLow, game.ActLayLow, game.ActLayLow, game.ActLayLow)

	cases := []struct {
		score int
		want  string
	}{
		{25, "MASTER SMUGGLER"},
		{15, "SKILLED OPERATOR"},
		{3, "SURVIVOR"},
		{-5, "BREAK EVEN"},
		{-20, "BUSTED"},
	}
	for _, tc := range cases {
		s := Summarize(history, tc.score)
		if !strings.HasPrefix(s.Verdict, tc.want) {
			t.Errorf("score %d: expected verdict %q, got %q", tc.score, tc.want, s.Verdict)
		}
	}
}

func TestPatternScoreExtremes(t *testing.T) {
	// Pure repetition: maximally patterned on the repeat axis.
	repeat := historyOf(game.ActSmuggle, game.ActSmuggle, game.ActSmuggle,
		game.ActSmuggle, game.ActSmuggle, game.ActSmuggle)
	// Strict alternation: maximally patterned on the alternation axis.
	alternate := historyOf(game.ActSmuggle, game.ActLayLow, game.ActSmuggle,
		game.ActLayLow, game.ActSmuggle, game.ActLayLow)

	if got := patternScore(repeat); got < 0.7 {
		t.Errorf("pure repetition should score high, got %f", got)
	}
	if got := patternScore(alternate); got < 0.5 {
		t.Errorf("strict alternation should score above the baseline, got %f", got)
	}

	short := historyOf(game.ActSmuggle, game.ActLayLow)
	if got := patternScore(short); got != 0.5 {
		t.Errorf("too-short histories must return the neutral 0.5, got %f", got)
	}
}

func TestTutorReportMixedStrategyRating(t *testing.T) {
	history := historyOf(
		game.ActSmuggle, game.ActLayLow, game.ActSmuggle, game.ActLayLow,
		game.ActSmuggle, game.ActLayLow, game.ActLayLow, game.ActSmuggle,
		game.ActLayLow, game.ActLayLow,
	)
	report := TutorReport(history, 10, 0.5)
	if len(report) == 0 {
		t.Fatal("a played game must earn at least one lesson")
	}
	if report[0].Concept != "Mixed Strategy Equilibrium" || report[0].Rating != "A" {
		t.Errorf("40%% smuggle rate should rate as a mixed strategy A, got %q (%s)",
			report[0].Concept, report[0].Rating)
	}
}

func TestTutorReportExactBoundaryRates(t *testing.T) {
	// Exactly 70% smuggling sits outside the mixed-strategy band but is not
	// yet the over-aggressive tier; it falls through to the cautious lesson.
	history := historyOf(
		game.ActSmuggle, game.ActSmuggle, game.ActSmuggle, game.ActSmuggle,
		game.ActSmuggle, game.ActSmuggle, game.ActSmuggle, game.ActLayLow,
		game.ActLayLow, game.ActLayLow,
	)
	report := TutorReport(history, 0, 0.5)
	if report[0].Concept != "Risk Aversion" || report[0].Rating != "B" {
		t.Errorf("a 70%% smuggle rate must not earn the over-aggression lesson, got %q (%s)",
			report[0].Concept, report[0].Rating)
	}

	over := historyOf(
		game.ActSmuggle, game.ActSmuggle, game.ActSmuggle, game.ActSmuggle,
		game.ActSmuggle, game.ActSmuggle, game.ActSmuggle, game.ActSmuggle,
		game.ActLayLow, game.ActLayLow,
	)
	report = TutorReport(over, 0, 0.5)
	if report[0].Concept != "Predictability Tax" || report[0].Rating != "C" {
		t.Errorf("an 80%% smuggle rate must earn the over-aggression lesson, got %q (%s)",
			report[0].Concept, report[0].Rating)
	}
}

func TestTutorReportSignalingBranches(t *testing.T) {
	history := historyOf(
		game.ActBribe, game.ActBribe, game.ActSignalTruce, game.ActSignalTruce,
		game.ActSmuggle, game.ActLayLow, game.ActSmuggle, game.ActLayLow,
	)

	highTrust := TutorReport(history, 5, 0.8)
	if !containsConcept(highTrust, "Signaling Theory") {
		t.Error("heavy signaling with high trust must earn the Signaling Theory lesson")
	}

	lowTrust := TutorReport(history, 5, 0.3)
	if !containsConcept(lowTrust, "Cheap Talk") {
		t.Error("heavy signaling with low trust must earn the Cheap Talk lesson")
	}
}

func TestTutorReportTrapLesson(t *testing.T) {
	history := historyOf(game.ActSmuggle, game.ActLayLow, game.ActSmuggle, game.ActLayLow, game.ActSmuggle)
	history[2].WasTrap = true

	report := TutorReport(history, 0, 0.5)
	if !containsConcept(report, "Information Asymmetry") {
		t.Error("a sprung trap must earn the Information Asymmetry lesson")
	}
}

func containsConcept(report []ReportEntry, concept string) bool {
	for _, e := range report {
		if e.Concept == concept {
			return true
		}
	}
	return false
}
