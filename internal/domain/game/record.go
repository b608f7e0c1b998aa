package game

// RoundRecord is the immutable outcome of a single resolved round.
// Records are appended in round order and never mutated afterward.
type RoundRecord struct {
	Round     int    `json:"round"` // 1-based
	Smuggler  Action `json:"smuggler_action"`
	Inspector Action `json:"inspector_action"`
	Payoff    int    `json:"payoff"`
	WasTrap   bool   `json:"was_trap"`
}

// PendingDeal tracks the outcome of an accepted bribe across the
// bribe-handling call and the decision call of the same round.
// This is a closed set: there is no dangling "accepted but undecided" state,
// an accepted bribe commits immediately to either the trap or the safe grant.
type PendingDeal int

const (
	DealNone PendingDeal = iota
	// DealAcceptedTrap forces the next decision to Inspect and flags it
	// as a sprung trap.
	DealAcceptedTrap
	// DealSafeGrant marks an honored bribe; immunity turns carry the
	// actual commitment.
	DealSafeGrant
)

func (d PendingDeal) String() string {
	switch d {
	case DealAcceptedTrap:
		return "AcceptedTrap"
	case DealSafeGrant:
		return "SafeGrant"
	default:
		return "None"
	}
}

// DecisionResult is what the inspector produces each round.
// Announced is advisory flavor only; it carries no weight in later
// computation beyond logging and dialogue.
type DecisionResult struct {
	Action    Action `json:"action"`
	IsBait    bool   `json:"is_bait"`
	Announced string `json:"announced,omitempty"` // empty = nothing said
}
