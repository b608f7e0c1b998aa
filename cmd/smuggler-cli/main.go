// Package main is the terminal client for playing against the inspector
// without a server: one process, one game, stdin for moves.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/MRamiBalles/ContrabandoJuego/server/internal/dialogue"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/domain/game"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/domain/rules"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/engine"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/infra/ai"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/platform/entropy"
	"github.com/MRamiBalles/ContrabandoJuego/server/internal/platform/logger"
)

func main() {
	seedFlag := flag.Int64("seed", 0, "game seed (0 = random); a fixed seed replays the same inspector")
	provider := flag.String("llm", "", "dialogue provider: openai, anthropic, or empty for static lines")
	flag.Parse()

	seed := *seedFlag
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	appLogger := logger.NewLogger(false)

	rng := entropy.NewSeeded(seed)
	personality := dialogue.NewPersonality(rng, nil)
	g := engine.NewGameFromSource(seed, rng, personality)

	if llm := buildLLM(*provider, g, appLogger); llm != nil {
		personality.SetLineProducer(llm)
	}

	fmt.Println("=========================================")
	fmt.Println("      EL JUEGO DE LA INSPECCIÓN")
	fmt.Println("=========================================")
	fmt.Printf("Seed: %d\n", seed)
	fmt.Printf("You are the SMUGGLER. %d rounds. Good luck.\n\n", rules.RoundsPerGame)
	if line := personality.Greeting(1); line != "" {
		fmt.Printf("Inspector: %q\n\n", line)
	}

	scanner := bufio.NewScanner(os.Stdin)

	for !g.Over() {
		fmt.Printf("--- Round %d/%d ---  Score: %+d  Trust: %.0f%%\n",
			g.Round()+1, rules.RoundsPerGame, g.Score(), g.Inspector().TrustLevel()*100)

		if taunt := personality.PreRoundComment(g.Round()+1, g.Inspector().SmuggleFrequency()); taunt != "" {
			fmt.Printf("Inspector: %q\n", taunt)
		}

		action, quantity := promptAction(scanner)
		if action == game.ActionNone {
			fmt.Println("Leaving the table. Final score:", g.Score())
			return
		}

		res := g.PlayRound(action, quantity)
		printRound(res)

		if comment := personality.OutcomeComment(res.Smuggler, res.Inspector, res.WasTrap); comment != "" {
			fmt.Printf("Inspector: %q\n", comment)
		}
		if res.Insight != "" {
			fmt.Printf("Advisor: %s\n", res.Insight)
		}
		fmt.Println()
	}

	printFinalReport(g)
}

func buildLLM(provider string, g *engine.Game, log *logger.Logger) dialogue.LineProducer {
	var p ai.LLMProvider
	switch provider {
	case "openai":
		p = ai.NewOpenAIProvider(ai.NewBudgetGate(1.0, 10.0))
	case "anthropic":
		p = ai.NewAnthropicProvider(ai.NewBudgetGate(1.0, 10.0))
	default:
		return nil
	}

	t := g.Inspector().Traits()
	llm := dialogue.NewLLMDialogue(p, t.Greed, t.Deceptiveness, t.Adaptiveness, log)
	if llm == nil {
		fmt.Println("(LLM provider not configured; falling back to static dialogue)")
		return nil
	}
	return llm
}

func promptAction(scanner *bufio.Scanner) (game.Action, int) {
	fmt.Println("  1) Smuggle")
	fmt.Println("  2) Lay Low")
	fmt.Printf("  3) Offer Bribe (costs %d points)\n", rules.BribeCost)
	fmt.Println("  4) Signal Truce")
	fmt.Println("  q) Quit")

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return game.ActionNone, 0
		}
		choice := strings.TrimSpace(scanner.Text())

		switch choice {
		case "1":
			return game.ActSmuggle, promptQuantity(scanner)
		case "2":
			return game.ActLayLow, 1
		case "3":
			return game.ActBribe, 1
		case "4":
			return game.ActSignalTruce, 1
		case "q", "Q":
			return game.ActionNone, 0
		default:
			fmt.Println("Pick 1-4, or q to quit.")
		}
	}
}

func promptQuantity(scanner *bufio.Scanner) int {
	fmt.Printf("How much contraband? (%d-%d) ", rules.QuantityMin, rules.QuantityMax)
	if !scanner.Scan() {
		return rules.QuantityMin
	}
	qty, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return rules.QuantityMin
	}
	return qty
}

func printRound(res engine.RoundResult) {
	if res.Announced != "" {
		fmt.Printf("Inspector: %q\n", res.Announced)
	}
	if res.BribeResponse != "" {
		fmt.Printf("Inspector: %q\n", res.BribeResponse)
	}
	if res.TruceResponse != "" {
		fmt.Printf("Inspector: %q\n", res.TruceResponse)
	}

	fmt.Printf("You chose %s; the inspector chose %s.\n", res.Smuggler, res.Inspector)
	if res.WasTrap {
		fmt.Println("*** IT WAS A TRAP ***")
	}
	fmt.Printf("Payoff: %+d  (total %+d)\n", res.Payoff, res.Score)
}

func printFinalReport(g *engine.Game) {
	fmt.Println("=========================================")
	fmt.Printf("GAME OVER. Final score: %+d\n", g.Score())
	fmt.Println("=========================================")

	summary := engine.Summarize(g.History(), g.Score())
	fmt.Printf("\nRisk profile:   %s\n", summary.RiskProfile)
	fmt.Printf("Predictability: %s\n", summary.Predictability)
	fmt.Printf("Verdict:        %s\n", summary.Verdict)

	fmt.Println("\n--- What game theory says about your play ---")
	for _, entry := range engine.TutorReport(g.History(), g.Score(), g.Inspector().TrustLevel()) {
		fmt.Printf("\n[%s] %s\n", entry.Rating, entry.Concept)
		fmt.Printf("  %s\n", entry.Definition)
		fmt.Printf("  %s\n", entry.Analysis)
	}
}
