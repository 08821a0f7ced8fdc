package target

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/olympos/engine/state"
	"github.com/nathoo/olympos/types"
)

func spawn(t *testing.T, w *state.World, y, x int, name string, traits ...string) *state.Entity {
	t.Helper()
	e, err := w.AddEntity(y, x, name, traits)
	require.NoError(t, err)
	return e
}

func pos(y, x int) types.Position { return types.Position{Y: y, X: x} }

var bite = types.Ability{
	Name:        "bite",
	Type:        types.AbilityAttack,
	Area:        types.AreaSingle,
	Range:       types.RangeClose,
	Arguments:   []string{"or", "north", "south", "east", "west", Placeholder},
	DefaultArgs: []string{"north"},
	Effects: map[string]any{
		"north": map[string]any{"distance": map[string]any{"y": -1.0}},
		"south": map[string]any{"distance": map[string]any{"y": 1.0}},
		"east":  map[string]any{"distance": map[string]any{"x": 1.0}},
		"west":  map[string]any{"distance": map[string]any{"x": -1.0}},
	},
}

func TestChoose(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		literal bool
		named   bool
		offset  types.Position
		arg     string
	}{
		{"supplied literal", []string{"east"}, true, false, pos(0, 1), "east"},
		{"default literal", nil, true, false, pos(-1, 0), "north"},
		{"free name", []string{"slime"}, false, true, pos(0, 0), "slime"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Choose(bite, tt.args)
			assert.Equal(t, tt.arg, c.Arg)
			assert.Equal(t, tt.literal, c.Literal)
			assert.Equal(t, tt.named, c.Named)
			if tt.literal {
				assert.True(t, c.HasOffset)
				assert.Equal(t, tt.offset, c.Offset)
			}
		})
	}
}

func TestChoose_NoPlaceholder(t *testing.T) {
	a := bite
	a.Arguments = []string{"or", "north"}
	c := Choose(a, []string{"slime"})
	assert.False(t, c.Literal)
	assert.False(t, c.Named)
}

func TestReach(t *testing.T) {
	assert.Equal(t, 1, Reach(types.Ability{Range: types.RangeClose}))
	assert.Equal(t, 4, Reach(types.Ability{Range: types.RangeMedium}))
	assert.Equal(t, 8, Reach(types.Ability{Range: types.RangeFar}))
	assert.Equal(t, 3, Reach(types.Ability{Range: types.RangeFar, Effects: map[string]any{"range": 3.0}}))
}

func TestSingle_Literal(t *testing.T) {
	w := state.NewWorld(10, 10)
	actor := spawn(t, w, 5, 5, "Bob", "player")
	slime := spawn(t, w, 5, 6, "Slime", "mob")

	res := Single(w, actor, bite, []string{"east"})
	require.Len(t, res.Targets, 1)
	assert.Equal(t, slime, res.Targets[0])
	assert.Equal(t, pos(5, 6), res.Probe)

	miss := Single(w, actor, bite, []string{"west"})
	assert.Empty(t, miss.Targets)
	assert.True(t, miss.HasProbe, "probe tile is kept on a miss")
	assert.Equal(t, pos(5, 4), miss.Probe)
}

func TestSingle_NamedWithinRange(t *testing.T) {
	w := state.NewWorld(10, 10)
	actor := spawn(t, w, 5, 5, "Blue Slime", "mob")
	far := spawn(t, w, 1, 1, "Green Slime", "mob")
	near := spawn(t, w, 5, 6, "Red Slime", "mob")

	res := Single(w, actor, bite, []string{"slime"})
	require.Len(t, res.Targets, 1)
	assert.Equal(t, near, res.Targets[0], "actor excluded, far slime out of range")
	assert.NotEqual(t, far, res.Targets[0])
}

func TestSingle_TraitFallback(t *testing.T) {
	w := state.NewWorld(10, 10)
	actor := spawn(t, w, 5, 5, "Slime", "mob")
	p := spawn(t, w, 4, 5, "Bob", "player")

	res := Single(w, actor, bite, []string{"player"})
	require.Len(t, res.Targets, 1)
	assert.Equal(t, p, res.Targets[0])
}

func TestRadius_VitalityScaling(t *testing.T) {
	w := state.NewWorld(20, 20)
	actor := spawn(t, w, 10, 10, "Bob", "player")
	actor.Stats = &types.Stats{Vitality: 8}
	in := spawn(t, w, 10, 14, "Rock", "object:rock")
	out := spawn(t, w, 10, 15, "Pebble", "object:rock")

	a := types.Ability{
		Area:    types.AreaRadius,
		Effects: map[string]any{"area": map[string]any{"range": 2.0, "vitality_mod": 0.25}},
	}
	res := Radius(w, actor, a, nil)

	assert.Contains(t, res.Tiles, pos(10, 14))
	assert.NotContains(t, res.Tiles, pos(10, 15))
	assert.Contains(t, res.Targets, in)
	assert.NotContains(t, res.Targets, out)
	assert.Contains(t, res.Targets, actor)
}

func TestRadius_TileSet(t *testing.T) {
	tests := []struct {
		name   string
		center types.Position
		r      int
	}{
		{"interior", pos(10, 10), 3},
		{"near origin", pos(1, 2), 4},
		{"near far edge", pos(18, 19), 3},
		{"zero", pos(5, 5), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := state.NewWorld(20, 20)
			actor := spawn(t, w, tt.center.Y, tt.center.X, "Bob", "player")
			a := types.Ability{
				Area:    types.AreaRadius,
				Effects: map[string]any{"area": map[string]any{"range": float64(tt.r)}},
			}
			res := Radius(w, actor, a, nil)

			var want []types.Position
			for y := 0; y < w.Height; y++ {
				for x := 0; x < w.Width; x++ {
					if abs(y-tt.center.Y)+abs(x-tt.center.X) <= tt.r {
						want = append(want, pos(y, x))
					}
				}
			}
			assert.ElementsMatch(t, want, res.Tiles)
		})
	}
}

func TestDiamond_DropsNegative(t *testing.T) {
	for _, p := range Diamond(pos(0, 0), 3) {
		assert.GreaterOrEqual(t, p.Y, 0)
		assert.GreaterOrEqual(t, p.X, 0)
	}
	assert.Len(t, Diamond(pos(0, 0), 2), 6)
}

func TestCone_Widening(t *testing.T) {
	w := state.NewWorld(20, 20)
	actor := spawn(t, w, 10, 10, "Bob", "player")
	a := types.Ability{
		Area:        types.AreaCone,
		Arguments:   []string{"or", "north", "east"},
		DefaultArgs: []string{"north"},
		Effects: map[string]any{
			"north": map[string]any{"distance": map[string]any{"y": -1.0}},
			"east":  map[string]any{"distance": map[string]any{"x": 1.0}},
			"area":  map[string]any{"range": 3.0, "width": 1.0, "width_mod": 2.0},
		},
	}
	hit := spawn(t, w, 7, 12, "Slime", "mob")

	res := Cone(w, actor, a, []string{"north"})
	// widths 1, 3, 5 at distances 1, 2, 3
	want := []types.Position{
		pos(9, 10),
		pos(8, 9), pos(8, 10), pos(8, 11),
		pos(7, 8), pos(7, 9), pos(7, 10), pos(7, 11), pos(7, 12),
	}
	assert.ElementsMatch(t, want, res.Tiles)
	assert.Equal(t, []*state.Entity{hit}, res.Targets)

	east := Cone(w, actor, a, []string{"east"})
	assert.Contains(t, east.Tiles, pos(10, 11))
	assert.Contains(t, east.Tiles, pos(12, 13))
	assert.NotContains(t, east.Tiles, pos(9, 10))
}

func TestCone_FacesNamedTarget(t *testing.T) {
	w := state.NewWorld(20, 20)
	actor := spawn(t, w, 10, 10, "Bob", "player")
	spawn(t, w, 10, 6, "Slime", "mob")
	a := types.Ability{
		Area:      types.AreaCone,
		Arguments: []string{Placeholder},
		Effects:   map[string]any{"area": map[string]any{"range": 4.0, "width": 1.0}},
	}
	res := Cone(w, actor, a, []string{"slime"})
	assert.ElementsMatch(t, []types.Position{pos(10, 9), pos(10, 8), pos(10, 7), pos(10, 6)}, res.Tiles)
	require.Len(t, res.Targets, 1)
	assert.Equal(t, "Slime", res.Targets[0].Name)
}

func TestResolve_LineIsNarrowCone(t *testing.T) {
	w := state.NewWorld(20, 20)
	actor := spawn(t, w, 10, 10, "Bob", "player")
	a := types.Ability{
		Area:        types.AreaLine,
		Arguments:   []string{"or", "south"},
		DefaultArgs: []string{"south"},
		Effects: map[string]any{
			"south": map[string]any{"distance": map[string]any{"y": 1.0}},
			"area":  map[string]any{"range": 2.0, "width": 5.0, "width_mod": 1.0},
		},
	}
	res := Resolve(w, actor, a, nil)
	assert.Equal(t, []types.Position{pos(11, 10), pos(12, 10)}, res.Tiles)
}

func TestResolve_NoFacing(t *testing.T) {
	w := state.NewWorld(5, 5)
	actor := spawn(t, w, 2, 2, "Bob", "player")
	a := types.Ability{Area: types.AreaCone, Arguments: []string{Placeholder}}
	res := Resolve(w, actor, a, []string{"nobody"})
	assert.Empty(t, res.Tiles)
	assert.Empty(t, res.Targets)
}
