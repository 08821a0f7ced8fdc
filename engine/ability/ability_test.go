package ability

import (
	"math/rand"
	"slices"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/olympos/engine/state"
	"github.com/nathoo/olympos/types"
)

func catalog() *state.Defs {
	set := func(name string, abilities map[string]types.Ability) types.AbilitySet {
		s := types.AbilitySet{Name: name, Abilities: abilities}
		for n := range abilities {
			s.Order = append(s.Order, n)
		}
		sort.Strings(s.Order)
		return s
	}
	return &state.Defs{AbilitySets: []types.AbilitySet{
		set("basic", map[string]types.Ability{
			"east":  {Type: types.AbilityMovement, Effects: map[string]any{"distance": map[string]any{"x": 1.0}}},
			"punch": {Type: types.AbilityAttack, Constraints: []string{"or", "species:human", "species:goblin"}},
		}),
		set("slime", map[string]types.Ability{
			"bite":   {Type: types.AbilityAttack, Constraints: []string{"species:slime"}},
			"engulf": {Type: types.AbilityAttack, Constraints: []string{"species:slime", "large"}},
			"east":   {Type: types.AbilityMovement, Constraints: []string{"never"}},
		}),
	}}
}

func TestAllowed(t *testing.T) {
	tests := []struct {
		name        string
		constraints []string
		traits      []string
		want        bool
	}{
		{"no constraints", nil, nil, true},
		{"all of, present", []string{"mob", "large"}, []string{"mob", "large", "flying"}, true},
		{"all of, one missing", []string{"mob", "large"}, []string{"mob"}, false},
		{"or, one present", []string{"or", "a", "b"}, []string{"b"}, true},
		{"or, none present", []string{"or", "a", "b"}, []string{"c"}, false},
		{"bare or", []string{"or"}, []string{"or"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := state.NewEntity(types.Position{}, "thing", tt.traits)
			assert.Equal(t, tt.want, Allowed(types.Ability{Constraints: tt.constraints}, e))
		})
	}
}

func TestAvailable_TracksTraits(t *testing.T) {
	defs := catalog()
	for _, trait := range []string{"species:slime", "species:human", "species:goblin", "species:bat"} {
		e := state.NewEntity(types.Position{}, "x", []string{trait})
		got := Available(defs, e)

		assert.Equal(t, trait == "species:slime", slices.Contains(got, "bite"), "bite for %s", trait)
		assert.Equal(t, trait == "species:human" || trait == "species:goblin", slices.Contains(got, "punch"), "punch for %s", trait)
		assert.False(t, slices.Contains(got, "engulf"))
		assert.True(t, slices.Contains(got, "east"))
	}
}

func TestAvailable_Order(t *testing.T) {
	e := state.NewEntity(types.Position{}, "Slime", []string{"species:slime", "large"})
	assert.Equal(t, []string{"east", "bite", "engulf"}, Available(catalog(), e))
}

func TestBind_AttackAliasLastWins(t *testing.T) {
	w := state.NewWorld(5, 5)
	e, err := w.AddEntity(2, 2, "Slime", []string{"species:slime", "large"})
	require.NoError(t, err)

	b := NewBinder(catalog(), rand.New(rand.NewSource(1)), nil)
	bound := b.Bind(e)

	assert.Equal(t, []string{"east", "bite", AttackAlias, "engulf", AttackAlias}, bound)
	assert.Equal(t, "engulf", e.Details[AttackAlias].Name)
	assert.Equal(t, "east", e.Details["east"].Name)
	assert.Equal(t, types.AbilityMovement, e.Details["east"].Type)
}

func TestBind_RebindAddsNeverRemoves(t *testing.T) {
	w := state.NewWorld(5, 5)
	e, err := w.AddEntity(2, 2, "Slime", []string{"species:slime"})
	require.NoError(t, err)
	b := NewBinder(catalog(), rand.New(rand.NewSource(1)), nil)

	require.Equal(t, []string{"east", "bite", AttackAlias}, b.Bind(e))
	assert.Empty(t, b.Bind(e), "binding again is idempotent")

	e.AddTraits("large")
	assert.Equal(t, []string{"engulf", AttackAlias}, b.Bind(e))

	delete(e.Traits, "species:slime")
	b.Bind(e)
	assert.Contains(t, e.Handlers, "bite", "ineligible abilities stay bound")
}

func TestUsage(t *testing.T) {
	assert.Equal(t, "wait", Usage(types.Ability{Name: "wait"}))
	assert.Equal(t, "bite {north, south, <target>}",
		Usage(types.Ability{Name: "bite", Arguments: []string{"or", "north", "south", "<target>"}}))
	assert.Equal(t, "keep <target> range",
		Usage(types.Ability{Name: "keep", Arguments: []string{"<target>", "range"}}))
}
