package dialogue

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/MRamiBalles/ContrabandoJuego/server/internal/domain/game"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/engine"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/infra/ai"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/platform/entropy"
)

type fakeProducer struct {
	line      string
	err       error
	lastCtx   ai.GameContext
	callCount int
}

func (f *fakeProducer) ProduceLine(ctx context.Context, gc ai.GameContext) (string, error) {
	f.callCount++
	f.lastCtx = gc
	return f.line, f.err
}

func newStaticPersonality() *Personality {
	return NewPersonality(entropy.NewSeeded(7), nil)
}

func TestGreetingOnlyOnFirstRound(t *testing.T) {
	p := newStaticPersonality()
	if p.Greeting(1) == "" {
		t.Error("round 1 must open with a greeting")
	}
	for round := 2; round <= 5; round++ {
		if got := p.Greeting(round); got != "" {
			t.Errorf("round %d must not greet, got %q", round, got)
		}
	}
}

func TestMoodRoutesPreRoundComment(t *testing.T) {
	p := newStaticPersonality()

	p.SetMood(engine.MoodAggressive)
	if got := p.PreRoundComment(3, 0.3); !contains(threats, got) {
		t.Errorf("aggressive mood must pick a threat, got %q", got)
	}

	p.SetMood(engine.MoodFriendly)
	if got := p.PreRoundComment(3, 0.3); !contains(lures, got) {
		t.Errorf("friendly mood must pick a lure, got %q", got)
	}

	p.SetMood(engine.MoodDeceptive)
	if got := p.PreRoundComment(3, 0.3); !contains(lures, got) {
		t.Errorf("deceptive mood must lure like the friendly one, got %q", got)
	}
}

func TestHeavySmugglingDrawsThreats(t *testing.T) {
	p := newStaticPersonality()
	p.SetMood(engine.MoodNeutral)

	got := p.PreRoundComment(8, 0.8)
	if got == "" {
		t.Fatal("a heavy smuggler must always get a warning")
	}
	if !contains(threats, got) && got != "Your luck will run out." {
		t.Errorf("expected a threat for a heavy smuggler, got %q", got)
	}
}

func TestOutcomeCommentMatrix(t *testing.T) {
	p := newStaticPersonality()

	cases := []struct {
		name      string
		smuggler  game.Action
		inspector game.Action
		pool      []string
	}{
		{"caught", game.ActSmuggle, game.ActInspect, caughtReactions},
		{"missed", game.ActSmuggle, game.ActDontInspect, missedReactions},
		{"wasted", game.ActLayLow, game.ActInspect, wastedInspection},
		{"quiet", game.ActLayLow, game.ActDontInspect, mutualPassive},
		{"bribe", game.ActBribe, game.ActDontInspect, bribeConsider},
		{"truce", game.ActSignalTruce, game.ActDontInspect, truceLines},
	}
	for _, tc := range cases {
		if got := p.OutcomeComment(tc.smuggler, tc.inspector, false); !contains(tc.pool, got) {
			t.Errorf("%s: %q not drawn from the expected table", tc.name, got)
		}
	}

	if got := p.OutcomeComment(game.ActLayLow, game.ActInspect, true); !contains(betrayalLines, got) {
		t.Errorf("a sprung trap must gloat, got %q", got)
	}
}

func TestBribeAndTruceFallbacks(t *testing.T) {
	p := newStaticPersonality()

	if got := p.BribeResponse(true, true); got != "Deal. You've bought yourself a pass." {
		t.Errorf("honored bribe line wrong: %q", got)
	}
	if got := p.BribeResponse(true, false); got != "Deal. I'll look the other way." {
		t.Errorf("betrayal bribe line wrong: %q", got)
	}
	if got := p.BribeResponse(false, false); got != "I can't be bought. Not today." {
		t.Errorf("refusal line wrong: %q", got)
	}

	if got := p.TruceResponse(true); got != "Noted. Maybe we can work together." {
		t.Errorf("high-trust truce line wrong: %q", got)
	}
	if got := p.TruceResponse(false); got != "Trust is earned, not given." {
		t.Errorf("low-trust truce line wrong: %q", got)
	}
}

func TestLLMLineWinsOverTables(t *testing.T) {
	llm := &fakeProducer{line: "I can smell contraband from here."}
	p := NewPersonality(entropy.NewSeeded(7), llm)
	p.SetMood(engine.MoodAggressive)

	if got := p.PreRoundComment(3, 0.3); got != llm.line {
		t.Errorf("a produced line must win over the tables, got %q", got)
	}
	if llm.callCount != 1 {
		t.Errorf("expected exactly one generator call, got %d", llm.callCount)
	}
	if !strings.Contains(llm.lastCtx.Situation, "about to inspect") {
		t.Errorf("situation prompt not passed through: %q", llm.lastCtx.Situation)
	}
}

func TestLLMFailureFallsBackSilently(t *testing.T) {
	p := NewPersonality(entropy.NewSeeded(7), &fakeProducer{err: errors.New("quota exhausted")})
	p.SetMood(engine.MoodAggressive)

	if got := p.PreRoundComment(3, 0.3); !contains(threats, got) {
		t.Errorf("a failing generator must fall back to the tables, got %q", got)
	}
	if got := p.BribeResponse(false, false); got != "I can't be bought. Not today." {
		t.Errorf("fallback bribe line wrong after generator failure: %q", got)
	}
}

func TestSetLineProducerAttachesLate(t *testing.T) {
	p := newStaticPersonality()
	llm := &fakeProducer{line: "Nothing gets past me."}
	p.SetLineProducer(llm)

	if got := p.OutcomeComment(game.ActSmuggle, game.ActInspect, false); got != llm.line {
		t.Errorf("late-attached generator must be used, got %q", got)
	}
}

func TestUpdateGameStateFeedsGeneratorContext(t *testing.T) {
	llm := &fakeProducer{line: "x"}
	p := NewPersonality(entropy.NewSeeded(7), llm)
	p.SetMood(engine.MoodDeceptive)
	p.UpdateGameState(ai.GameContext{Round: 9, Score: 14, TrustLevel: 0.25})

	p.OutcomeComment(game.ActSmuggle, game.ActInspect, false)
	if llm.lastCtx.Round != 9 || llm.lastCtx.Score != 14 {
		t.Errorf("game state not forwarded to the generator: %+v", llm.lastCtx)
	}
	if llm.lastCtx.Mood != engine.MoodDeceptive {
		t.Errorf("current mood not forwarded, got %q", llm.lastCtx.Mood)
	}
}

func TestRecordHonestyTracksStreaks(t *testing.T) {
	p := newStaticPersonality()
	p.RecordHonesty(true)
	p.RecordHonesty(true)
	if p.honestyStreak != 2 {
		t.Errorf("expected honesty streak 2, got %d", p.honestyStreak)
	}
	p.RecordHonesty(false)
	if p.honestyStreak != 0 || p.betrayalCount != 1 {
		t.Errorf("a betrayal must reset the streak: streak %d, betrayals %d",
			p.honestyStreak, p.betrayalCount)
	}
}

func contains(pool []string, line string) bool {
	for _, l := range pool {
		if l == line {
			return true
		}
	}
	return false
}
