package game

// Trait ranges for the per-game personality draw. Each inspector rolls its
// traits once at construction and keeps them for the whole game.
const (
	GreedMin = 0.3
	GreedMax = 0.7

	DeceptivenessMin = 0.2
	DeceptivenessMax = 0.6

	AdaptivenessMin = 0.4
	AdaptivenessMax = 0.8
)

// Traits parameterizes every probabilistic choice the inspector makes.
// Immutable for the duration of a game.
type Traits struct {
	Greed         float64 `json:"greed"`         // likelihood to accept bribes
	Deceptiveness float64 `json:"deceptiveness"` // likelihood to set traps/lie
	Adaptiveness  float64 `json:"adaptiveness"`  // how quickly it adjusts
}
