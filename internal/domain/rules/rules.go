// Package rules contains the fixed game configuration and the pure payoff
// calculation. These constants are the behavioral contract of the game;
// changing any of them changes every replay.
// This package is PURE and must NOT import any infrastructure packages.
package rules

// Game length and phase boundaries.
const (
	RoundsPerGame = 20
	EarlyGameEnd  = 6
	MidGameEnd    = 14
)

// Base payoffs, from the smuggler's perspective.
const (
	PayoffSmuggleInspect = -5
	PayoffSmuggleDont    = 10
	PayoffLayLowInspect  = 0
	PayoffLayLowDont     = 1
)

// Bribe economics.
const (
	BribeCost         = 3
	BribeInspectorCut = 2 // what the inspector "gains" from accepting
)

// Trust dynamics. Trust falls faster than it rises, and bribery raises it
// less than honest cooperation: betrayal via bribery must not be a cheap
// trust-building shortcut.
const (
	TrustStart        = 0.5
	TrustSmuggleDrop  = 0.10
	TrustPassiveGain  = 0.05
	TrustBribeGain    = 0.02
	TrustTruceBonus   = 0.10 // extra gain when a truce lands on high trust
	TruceTrustHighBar = 0.6
)

// Immunity granted by an honored bribe: the current round plus the next.
const ImmunityGrantTurns = 2

// Smuggle quantity bounds for a single run.
const (
	QuantityMin = 1
	QuantityMax = 5
)
