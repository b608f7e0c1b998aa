// Package game defines the core domain entities for the inspection game:
// actions, round records, traits and decisions.
// This package is PURE and must NOT import any infrastructure packages.
package game

// Action represents a move by either side of the table.
// Smuggler and Inspector actions share one enum so round records and
// history stay uniform; helpers below distinguish the two sides.
type Action int

const (
	// ActionNone is the zero value, used for "no previous action".
	ActionNone Action = iota

	// Smuggler actions
	ActSmuggle
	ActLayLow
	ActBribe
	ActSignalTruce

	// Inspector actions
	ActInspect
	ActDontInspect
	ActAcceptBribe
	ActSetTrap
)

var actionNames = map[Action]string{
	ActionNone:     "None",
	ActSmuggle:     "Smuggle",
	ActLayLow:      "Lay Low",
	ActBribe:       "Offer Bribe",
	ActSignalTruce: "Signal Truce",
	ActInspect:     "Inspect",
	ActDontInspect: "Don't Inspect",
	ActAcceptBribe: "Accept Bribe",
	ActSetTrap:     "Set Trap",
}

// String returns the display name of the action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "Unknown"
}

// ParseAction maps a display name back to its Action. Used when loading
// persisted rounds. Unknown names map to ActionNone.
func ParseAction(name string) Action {
	for a, n := range actionNames {
		if n == name {
			return a
		}
	}
	return ActionNone
}

// IsSmugglerAction reports whether the action belongs to the smuggler's set.
func (a Action) IsSmugglerAction() bool {
	return a >= ActSmuggle && a <= ActSignalTruce
}

// IsInspectorAction reports whether the action belongs to the inspector's set.
func (a Action) IsInspectorAction() bool {
	return a >= ActInspect && a <= ActSetTrap
}

// IsPassive reports whether a smuggler action counts as cooperative/passive
// for trust and pattern purposes (Lay Low or Signal Truce).
func (a Action) IsPassive() bool {
	return a == ActLayLow || a == ActSignalTruce
}

// Effective maps a smuggler action to the action it resolves as for payoff
// purposes: bribes and truce signals behave as Lay Low.
func (a Action) Effective() Action {
	if a == ActBribe || a == ActSignalTruce {
		return ActLayLow
	}
	return a
}
