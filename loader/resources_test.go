package loader

import (
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

// The shipped data must load cleanly: no errors and no warnings.
func TestShippedResources(t *testing.T) {
	log, hook := logtest.NewNullLogger()

	defs, err := LoadDefs("../resources/abilities.json", "../resources/behaviors.json", log)
	if err != nil {
		t.Fatalf("LoadDefs: %v", err)
	}
	sc, err := LoadScenario("../resources/scenario.lua", defs, log)
	if err != nil {
		t.Fatalf("LoadScenario: %v", err)
	}

	for _, e := range hook.AllEntries() {
		if e.Level <= logrus.WarnLevel {
			t.Errorf("unexpected %s: %s %v", e.Level, e.Message, e.Data)
		}
	}
	if sc.Name != "Slime Cave" || !sc.Walls {
		t.Errorf("scenario = %q walls=%v", sc.Name, sc.Walls)
	}
	players := 0
	for _, e := range sc.Entities {
		for _, tr := range e.Traits {
			if tr == "player" {
				players++
			}
		}
	}
	if players != 1 {
		t.Errorf("players = %d, want 1", players)
	}
	for _, name := range []string{"walk", "punch", "kick", "screech", "keep", "equip"} {
		if _, ok := defs.Ability(name); !ok {
			t.Errorf("ability %s missing", name)
		}
	}
}
