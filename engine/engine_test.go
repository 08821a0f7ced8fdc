package engine

import (
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/nathoo/olympos/engine/rules"
	"github.com/nathoo/olympos/engine/state"
	"github.com/nathoo/olympos/types"
)

// testDefs builds a small catalog: a step east, a punch for humans, an
// approach for mobs, and a slime behavior that chases whatever it senses.
func testDefs() *state.Defs {
	directions := map[string]any{
		"east": map[string]any{"distance": map[string]any{"x": 1.0}},
		"west": map[string]any{"distance": map[string]any{"x": -1.0}},
	}
	punchEffects := map[string]any{"damage": map[string]any{"base": 100.0}}
	for k, v := range directions {
		punchEffects[k] = v
	}

	core := types.AbilitySet{
		Name: "core",
		Abilities: map[string]types.Ability{
			"east": {
				Type:    types.AbilityMovement,
				Stamina: 1,
				Effects: map[string]any{"distance": map[string]any{"x": 1.0}},
				Flavor:  "<entity> step east.",
			},
			"punch": {
				Type:        types.AbilityAttack,
				Area:        types.AreaSingle,
				Range:       types.RangeClose,
				Stamina:     1,
				Arguments:   []string{"or", "east", "west"},
				DefaultArgs: []string{"east"},
				Effects:     punchEffects,
				Constraints: []string{"species:human"},
				Flavor:      "<entity> punch <target>.",
			},
			"approach": {
				Type:        types.AbilityMovement,
				Stamina:     1,
				Arguments:   []string{"<target>"},
				Effects:     map[string]any{"minimize distance": true},
				Constraints: []string{"mob"},
			},
			"glide": {
				Type:        types.AbilityMovement,
				Effects:     map[string]any{"distance": map[string]any{"y": 1.0}},
				Constraints: []string{"flying"},
			},
		},
	}
	for name := range core.Abilities {
		core.Order = append(core.Order, name)
	}
	sort.Strings(core.Order)

	chase := types.BehaviorSet{Name: "chase"}
	for _, r := range [][]string{
		{"hp < 50%", "flee"},
		{"sense player", "approach player"},
		{"else", "idle"},
	} {
		chase.Rules = append(chase.Rules, types.Rule{When: rules.ParseCondition(r[0]), Actions: r[1:]})
	}

	return &state.Defs{
		AbilitySets: []types.AbilitySet{core},
		Behaviors:   map[string]types.BehaviorSet{"chase": chase},
	}
}

func player(y, x int) types.EntitySpec {
	return types.EntitySpec{
		Name:   "Bob",
		Pos:    types.Position{Y: y, X: x},
		Traits: []string{"player", "species:human"},
		Stats:  &types.Stats{Vitality: 8, Strength: 8},
	}
}

func slime(y, x int) types.EntitySpec {
	return types.EntitySpec{
		Name:     "Slime",
		Pos:      types.Position{Y: y, X: x},
		Traits:   []string{"mob", "species:slime"},
		Stats:    &types.Stats{Vitality: 8},
		Behavior: "chase",
	}
}

func spawn(t *testing.T, e *Engine, spec types.EntitySpec) *state.Entity {
	t.Helper()
	ent, err := e.Spawn(spec)
	if err != nil {
		t.Fatalf("Spawn(%s): %v", spec.Name, err)
	}
	return ent
}

func TestSpawn_FillsStatsAndBinds(t *testing.T) {
	e := New(testDefs(), 10, 10, nil)
	p := spawn(t, e, player(5, 5))

	if p.Stats.Health != state.MaxHealth(p.Stats) || p.Stats.Stamina != state.MaxStamina(p.Stats) {
		t.Errorf("stats not filled: %+v", p.Stats)
	}
	for _, name := range []string{"east", "punch", "attack"} {
		if _, ok := p.Handlers[name]; !ok {
			t.Errorf("missing handler %q", name)
		}
	}
	if _, ok := p.Handlers["approach"]; ok {
		t.Error("player should not be able to approach")
	}
	if p.BehaviorSet != types.NoBehavior {
		t.Errorf("behavior = %q", p.BehaviorSet)
	}
}

func TestSpawn_OutOfBounds(t *testing.T) {
	e := New(testDefs(), 5, 5, nil)
	_, err := e.Spawn(player(9, 9))
	if !errors.Is(err, state.ErrOutOfBounds) {
		t.Errorf("error = %v, want ErrOutOfBounds", err)
	}
}

func TestTick_PlayerMoves(t *testing.T) {
	e := New(testDefs(), 10, 10, nil)
	p := spawn(t, e, player(5, 5))

	e.EnqueueByID(p.ID, "east")
	if err := e.Tick(); err != nil {
		t.Fatal(err)
	}

	if p.Pos != (types.Position{Y: 5, X: 6}) {
		t.Errorf("player at %v, want 5,6", p.Pos)
	}
	if e.World.Tick() != 1 {
		t.Errorf("tick = %d", e.World.Tick())
	}
	msgs := e.World.LocalEvents(p.Pos, 2)
	if len(msgs) != 2 || !strings.HasPrefix(msgs[0], "==========Tick 1") || msgs[1] != "You step east." {
		t.Errorf("events = %v", msgs)
	}
}

func TestTick_PlayerCommandsRunFirst(t *testing.T) {
	e := New(testDefs(), 10, 10, nil)
	p := spawn(t, e, player(5, 3))
	s := spawn(t, e, slime(5, 6))

	e.SubmitByID(p.ID, "east", nil)
	if err := e.Tick(); err != nil {
		t.Fatal(err)
	}

	if p.Pos != (types.Position{Y: 5, X: 4}) {
		t.Errorf("player at %v", p.Pos)
	}
	// The slime saw the player's new position.
	if s.Pos != (types.Position{Y: 5, X: 5}) {
		t.Errorf("slime at %v, want 5,5", s.Pos)
	}
}

func TestTick_DeadEntityLosesItsTurn(t *testing.T) {
	e := New(testDefs(), 10, 10, nil)
	p := spawn(t, e, player(5, 5))
	s := spawn(t, e, slime(5, 6))

	e.SubmitByName("bob", "punch", []string{"east"})
	if err := e.Tick(); err != nil {
		t.Fatal(err)
	}

	if e.World.Entity(s.ID) != nil {
		t.Fatal("slime survived a 100 damage punch")
	}
	if p.Pos != (types.Position{Y: 5, X: 5}) {
		t.Errorf("player moved to %v", p.Pos)
	}
	if !e.World.Passable(types.Position{Y: 5, X: 6}) {
		t.Error("dead slime's tile still blocked")
	}
}

func TestTick_TraitAddressing(t *testing.T) {
	e := New(testDefs(), 10, 10, nil)
	a := spawn(t, e, slime(1, 1))
	b := spawn(t, e, slime(3, 1))
	a.BehaviorSet, b.BehaviorSet = types.NoBehavior, types.NoBehavior

	e.EnqueueByTraits([]string{"species:slime"}, "2 approach slime")
	if err := e.Tick(); err != nil {
		t.Fatal(err)
	}
	// Each slime steps toward the other twice; they meet in the middle.
	if a.Pos.Y+1 != b.Pos.Y {
		t.Errorf("slimes at %v and %v", a.Pos, b.Pos)
	}
}

func TestAddTraits_UnlocksAbilities(t *testing.T) {
	e := New(testDefs(), 10, 10, nil)
	p := spawn(t, e, player(5, 5))

	bound := e.AddTraits(p.ID, "flying")
	if len(bound) != 1 || bound[0] != "glide" {
		t.Errorf("bound = %v, want [glide]", bound)
	}
	if e.AddTraits(9999999, "flying") != nil {
		t.Error("unknown entity should bind nothing")
	}
}

func TestTick_OutOfBoundsSurfaces(t *testing.T) {
	e := New(testDefs(), 5, 5, nil)
	p := spawn(t, e, player(2, 2))
	p.Handlers["shout"] = func(w *state.World, _ []string) error {
		return w.LogEvent("HEY", types.Position{Y: -1, X: 2})
	}

	e.SubmitByID(p.ID, "shout", nil)
	err := e.Tick()
	if !errors.Is(err, state.ErrOutOfBounds) {
		t.Errorf("Tick error = %v, want ErrOutOfBounds", err)
	}
}

func TestNewFromScenario(t *testing.T) {
	sc := types.Scenario{
		Name:     "pen",
		Height:   6,
		Width:    6,
		Walls:    true,
		Entities: []types.EntitySpec{player(2, 2), slime(3, 3)},
	}
	e, err := NewFromScenario(testDefs(), sc, nil)
	if err != nil {
		t.Fatal(err)
	}
	if e.World.Len() != 20+2 {
		t.Errorf("entities = %d, want 22", e.World.Len())
	}
	if e.Player() == nil || e.Player().Name != "Bob" {
		t.Errorf("player = %v", e.Player())
	}
	if e.RunID == "" {
		t.Error("missing run id")
	}
}

func TestNewFromScenario_BadEntity(t *testing.T) {
	sc := types.Scenario{Name: "tiny", Height: 3, Width: 3, Entities: []types.EntitySpec{player(7, 7)}}
	if _, err := NewFromScenario(testDefs(), sc, nil); err == nil {
		t.Error("expected an error for an entity off the map")
	}
}
