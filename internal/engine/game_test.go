package engine

import (
	"testing"

	"github.com/MRamiBalles/ContrabandoJuego/server/internal/domain/game"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/domain/rules"
)

func TestGameRunsConfiguredRounds(t *testing.T) {
	g := NewGame(7, nil)

	for !g.Over() {
		res := g.PlayRound(game.ActLayLow, 1)
		if res.Round != g.Round() {
			t.Fatalf("result round %d does not match game round %d", res.Round, g.Round())
		}
	}

	if g.Round() != rules.RoundsPerGame {
		t.Errorf("expected %d rounds, played %d", rules.RoundsPerGame, g.Round())
	}
	if len(g.History()) != rules.RoundsPerGame {
		t.Errorf("history length %d does not match rounds played", len(g.History()))
	}

	defer func() {
		if recover() == nil {
			t.Error("playing past the last round must panic")
		}
	}()
	g.PlayRound(game.ActLayLow, 1)
}

func TestGameRejectsInspectorActions(t *testing.T) {
	g := NewGame(8, nil)
	defer func() {
		if recover() == nil {
			t.Error("an inspector action from the smuggler seat must panic")
		}
	}()
	g.PlayRound(game.ActInspect, 1)
}

func TestQuantityClampedToLegalRange(t *testing.T) {
	g := NewGame(9, nil)

	res := g.PlayRound(game.ActSmuggle, 99)
	if res.Quantity != rules.QuantityMax {
		t.Errorf("oversized quantity must clamp to %d, got %d", rules.QuantityMax, res.Quantity)
	}

	res = g.PlayRound(game.ActSmuggle, -3)
	if res.Quantity != rules.QuantityMin {
		t.Errorf("non-positive quantity must clamp to %d, got %d", rules.QuantityMin, res.Quantity)
	}
}

func TestScoreIsSumOfPayoffs(t *testing.T) {
	g := NewGame(10, nil)

	total := 0
	actions := []game.Action{game.ActSmuggle, game.ActLayLow, game.ActBribe, game.ActSignalTruce}
	for i := 0; !g.Over(); i++ {
		res := g.PlayRound(actions[i%len(actions)], 1+i%rules.QuantityMax)
		total += res.Payoff
		if res.Score != total {
			t.Fatalf("round %d: running score %d does not match payoff sum %d", res.Round, res.Score, total)
		}
	}
	if g.Score() != total {
		t.Errorf("final score %d does not match payoff sum %d", g.Score(), total)
	}
}

func TestFixedSeedReplaysIdentically(t *testing.T) {
	play := func() []game.RoundRecord {
		g := NewGame(1234, nil)
		actions := []game.Action{game.ActSmuggle, game.ActSmuggle, game.ActLayLow,
			game.ActBribe, game.ActSignalTruce, game.ActLayLow}
		for i := 0; !g.Over(); i++ {
			g.PlayRound(actions[i%len(actions)], 1+i%3)
		}
		return g.History()
	}

	first, second := play(), play()
	if len(first) != len(second) {
		t.Fatalf("replay lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("round %d diverged on replay: %+v vs %+v", i+1, first[i], second[i])
		}
	}
}

func TestBetrayedBribeSpringsTrapImmediately(t *testing.T) {
	// Scan seeds for a game whose first bribe is accepted as a betrayal:
	// money taken, inspection anyway, on the very round the deal was struck.
	for seed := int64(1); seed <= 500; seed++ {
		g := NewGame(seed, nil)
		res := g.PlayRound(game.ActBribe, 1)
		if !res.BribeAccepted || !res.WasTrap {
			continue
		}

		if res.Inspector != game.ActInspect {
			t.Fatalf("seed %d: betrayed bribe must inspect, got %s", seed, res.Inspector)
		}
		if !res.IsBait {
			t.Fatalf("seed %d: betrayal decision must be flagged as bait", seed)
		}
		wantPayoff := -rules.BribeCost + rules.PayoffLayLowInspect
		if res.Payoff != wantPayoff {
			t.Fatalf("seed %d: betrayal round payoff %d, expected %d", seed, res.Payoff, wantPayoff)
		}
		if g.Inspector().PendingDeal() != game.DealNone {
			t.Fatalf("seed %d: trap must be consumed after firing", seed)
		}
		if g.Inspector().TrapsSprung() != 1 {
			t.Fatalf("seed %d: sprung trap not counted", seed)
		}
		return
	}
	t.Fatal("no seed in range produced a betrayed bribe")
}

func TestHonoredBribeBuysTwoQuietRounds(t *testing.T) {
	for seed := int64(1); seed <= 500; seed++ {
		g := NewGame(seed, nil)
		res := g.PlayRound(game.ActBribe, 1)
		if !res.BribeAccepted || res.Inspector != game.ActDontInspect {
			continue
		}
		if res.WasTrap {
			t.Fatalf("seed %d: honored bribe round flagged as trap", seed)
		}

		// The grant covers the bribe round itself plus the next one.
		next := g.PlayRound(game.ActSmuggle, rules.QuantityMax)
		if next.Inspector != game.ActDontInspect {
			t.Fatalf("seed %d: second free round was inspected", seed)
		}
		if next.Payoff != rules.PayoffSmuggleDont*rules.QuantityMax {
			t.Fatalf("seed %d: free smuggle payoff %d, expected %d",
				seed, next.Payoff, rules.PayoffSmuggleDont*rules.QuantityMax)
		}
		return
	}
	t.Fatal("no seed in range produced an honored bribe")
}

func TestRoundResultCarriesInsight(t *testing.T) {
	g := NewGame(11, nil)
	sawInsight := false
	for !g.Over() {
		res := g.PlayRound(game.ActSmuggle, 1)
		if res.Insight != "" {
			sawInsight = true
		}
	}
	if !sawInsight {
		t.Error("a full game of smuggling should produce at least one advisor insight")
	}
}
