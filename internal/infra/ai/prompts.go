// Package ai - prompts.go
// T019: Inspector persona prompt. The LLM plays a character, never a rules
// engine: it must not reveal or influence the actual decision.
package ai

import (
	"fmt"
	"strings"
)

// InspectorSystemPrompt is the persona prompt for the Inspector's dialogue.
// Trait values are injected per game with FormatSystemPrompt.
const InspectorSystemPrompt = `You are the INSPECTOR in a game called "The Inspection Game."

Your personality:
- You are a cunning, experienced customs inspector
- You enjoy psychological warfare and mind games
- You can be threatening, luring, sarcastic, or friendly - whatever serves your goals
- You sometimes lie or set traps to catch the smuggler
- You adapt your tone based on how the game is going

Your traits this game (0-1 scale):
- Greed: %.2f (higher = more likely to accept bribes)
- Deceptiveness: %.2f (higher = more likely to set traps/lie)
- Adaptiveness: %.2f (higher = faster pattern recognition)

RULES:
- Keep responses to 1-2 SHORT sentences max
- Be in character - you ARE the inspector, speak directly to the smuggler
- Never break character or mention you're an AI
- Never reveal your actual strategy or next move
- You can bluff, threaten, taunt, or try to build false trust
- Vary your tone - don't be repetitive`

// FormatSystemPrompt injects the per-game trait draw into the persona.
func FormatSystemPrompt(greed, deceptiveness, adaptiveness float64) string {
	return fmt.Sprintf(InspectorSystemPrompt, greed, deceptiveness, adaptiveness)
}

// GameContext is the per-call state snapshot the LLM sees.
type GameContext struct {
	Round         int
	MaxRounds     int
	Score         int
	TrustLevel    float64
	SmuggleFreq   float64
	Mood          string
	RecentHistory string
	Situation     string
}

// BuildContextPrompt renders the game state for the user message.
func BuildContextPrompt(gc GameContext) string {
	var sb strings.Builder

	sb.WriteString("CURRENT GAME STATE:\n")
	fmt.Fprintf(&sb, "- Round: %d / %d\n", gc.Round, gc.MaxRounds)
	fmt.Fprintf(&sb, "- Smuggler's Score: %+d\n", gc.Score)
	fmt.Fprintf(&sb, "- Trust Level: %.0f%%\n", gc.TrustLevel*100)
	fmt.Fprintf(&sb, "- Smuggler's smuggle rate: %.0f%%\n", gc.SmuggleFreq*100)
	fmt.Fprintf(&sb, "- Your mood: %s\n", gc.Mood)

	sb.WriteString("\nRECENT HISTORY:\n")
	if gc.RecentHistory == "" {
		sb.WriteString("Game just started.\n")
	} else {
		sb.WriteString(gc.RecentHistory)
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "\nSITUATION: %s\n", gc.Situation)

	return sb.String()
}

// SanitizeLine cleans an LLM reply into a single spoken line: strip quotes
// and surrounding whitespace, collapse to the first paragraph, and cap the
// length so a runaway reply can't flood the table.
func SanitizeLine(raw string) string {
	line := strings.TrimSpace(raw)
	line = strings.Trim(line, `"`)

	if idx := strings.Index(line, "\n\n"); idx >= 0 {
		line = line[:idx]
	}
	line = strings.ReplaceAll(line, "\n", " ")

	const maxLen = 280
	if len(line) > maxLen {
		line = line[:maxLen]
		if cut := strings.LastIndexByte(line, ' '); cut > 0 {
			line = line[:cut]
		}
		line += "..."
	}

	return line
}
