package game

import "testing"

func TestActionSides(t *testing.T) {
	smuggler := []Action{ActSmuggle, ActLayLow, ActBribe, ActSignalTruce}
	for _, a := range smuggler {
		if !a.IsSmugglerAction() {
			t.Errorf("%s must be a smuggler action", a)
		}
		if a.IsInspectorAction() {
			t.Errorf("%s must not be an inspector action", a)
		}
	}

	inspector := []Action{ActInspect, ActDontInspect, ActAcceptBribe, ActSetTrap}
	for _, a := range inspector {
		if !a.IsInspectorAction() {
			t.Errorf("%s must be an inspector action", a)
		}
		if a.IsSmugglerAction() {
			t.Errorf("%s must not be a smuggler action", a)
		}
	}

	if ActionNone.IsSmugglerAction() || ActionNone.IsInspectorAction() {
		t.Error("the zero action belongs to neither side")
	}
}

func TestEffectiveMapsDealsToLayLow(t *testing.T) {
	if ActBribe.Effective() != ActLayLow {
		t.Error("a bribe must resolve as lay low")
	}
	if ActSignalTruce.Effective() != ActLayLow {
		t.Error("a truce signal must resolve as lay low")
	}
	if ActSmuggle.Effective() != ActSmuggle {
		t.Error("smuggle must resolve as itself")
	}
}

func TestIsPassive(t *testing.T) {
	if !ActLayLow.IsPassive() || !ActSignalTruce.IsPassive() {
		t.Error("lay low and truce are the passive actions")
	}
	if ActBribe.IsPassive() || ActSmuggle.IsPassive() {
		t.Error("bribe and smuggle are not passive")
	}
}

func TestParseActionRoundTrips(t *testing.T) {
	all := []Action{ActionNone, ActSmuggle, ActLayLow, ActBribe, ActSignalTruce,
		ActInspect, ActDontInspect, ActAcceptBribe, ActSetTrap}
	for _, a := range all {
		if got := ParseAction(a.String()); got != a {
			t.Errorf("%s did not round-trip, got %s", a, got)
		}
	}

	if got := ParseAction("Teleport"); got != ActionNone {
		t.Errorf("unknown names must parse to the zero action, got %s", got)
	}
}
