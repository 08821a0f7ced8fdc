// Package target resolves which entities and tiles an ability affects.
// All shapes share one argument front end (Choose) and differ only in how
// they enumerate tiles.
package target

import (
	"math"
	"slices"

	"github.com/nathoo/olympos/engine/resolve"
	"github.com/nathoo/olympos/engine/state"
	"github.com/nathoo/olympos/types"
)

// Placeholder is the argument pattern entry for a free target name.
const Placeholder = "<target>"

// Range classes in tiles.
var rangeClasses = map[types.AbilityRange]int{
	types.RangeClose:  1,
	types.RangeMedium: 4,
	types.RangeFar:    8,
}

// Choice is the runtime argument of an ability after classification.
type Choice struct {
	Arg string

	// Literal is set when Arg is one of the ability's "or" alternatives.
	// Offset is only meaningful when HasOffset is set.
	Literal   bool
	Offset    types.Position
	HasOffset bool

	// Named is set when Arg should be searched for by name or trait.
	Named bool
}

// Result is what a shape resolved to. Probe is the tile a single-target
// ability looked at and is kept even when nothing was there.
type Result struct {
	Targets  []*state.Entity
	Tiles    []types.Position
	Probe    types.Position
	HasProbe bool
}

// Choose picks the runtime argument (the first supplied, else the first
// default) and classifies it against the ability's argument pattern.
func Choose(a types.Ability, args []string) Choice {
	var c Choice
	switch {
	case len(args) > 0:
		c.Arg = args[0]
	case len(a.DefaultArgs) > 0:
		c.Arg = a.DefaultArgs[0]
	}

	if len(a.Arguments) > 0 && a.Arguments[0] == "or" && c.Arg != "" &&
		slices.Contains(a.Arguments[1:], c.Arg) {
		c.Literal = true
		c.Offset, c.HasOffset = Offset(Section(a.Effects, c.Arg))
		return c
	}
	if c.Arg != "" && slices.Contains(a.Arguments, Placeholder) {
		c.Named = true
	}
	return c
}

// Offset reads a {"distance": {"y": dy, "x": dx}} block.
func Offset(effects map[string]any) (types.Position, bool) {
	dist := Section(effects, "distance")
	if dist == nil {
		return types.Position{}, false
	}
	y, hasY := Number(dist, "y")
	x, hasX := Number(dist, "x")
	if !hasY && !hasX {
		return types.Position{}, false
	}
	return types.Position{Y: int(y), X: int(x)}, true
}

// Reach is the search range of an ability: a numeric effects.range when
// present, otherwise its range class. Unknown classes reach adjacent tiles.
func Reach(a types.Ability) int {
	if r, ok := Number(a.Effects, "range"); ok {
		return int(r)
	}
	if r, ok := rangeClasses[a.Range]; ok {
		return r
	}
	return 1
}

// Resolve dispatches on the ability's area. Lines are cones of width one.
func Resolve(w *state.World, actor *state.Entity, a types.Ability, args []string) Result {
	switch a.Area {
	case types.AreaRadius:
		return Radius(w, actor, a, args)
	case types.AreaCone:
		return Cone(w, actor, a, args)
	case types.AreaLine:
		return line(w, actor, a, args)
	default:
		return Single(w, actor, a, args)
	}
}

// Single finds at most one target. A literal probes the tile at its offset
// and takes the first occupant; a name is searched within Reach, falling
// back to a trait search. The actor is never its own target.
func Single(w *state.World, actor *state.Entity, a types.Ability, args []string) Result {
	c := Choose(a, args)
	var res Result
	switch {
	case c.Literal:
		if !c.HasOffset {
			return res
		}
		res.Probe = add(actor.Pos, c.Offset)
		res.HasProbe = true
		res.Tiles = []types.Position{res.Probe}
		for _, e := range w.Occupants(res.Probe) {
			if e.ID != actor.ID {
				res.Targets = []*state.Entity{e}
				break
			}
		}
	case c.Named:
		q := resolve.Query{From: actor.Pos, Range: Reach(a), Exclude: actor.ID}
		if e := resolve.NameThenTrait(w, c.Arg, q); e != nil {
			res.Targets = []*state.Entity{e}
			res.Probe = e.Pos
			res.HasProbe = true
			res.Tiles = []types.Position{e.Pos}
		}
	}
	return res
}

// Radius collects everything in the Manhattan ball of radius
// floor(area.range + area.vitality_mod * vitality) around the actor.
func Radius(w *state.World, actor *state.Entity, a types.Ability, _ []string) Result {
	r := scaled(actor, Section(a.Effects, "area"), Reach(a))
	tiles := Diamond(actor.Pos, r)
	var res Result
	for _, t := range tiles {
		if w.InBounds(t) {
			res.Tiles = append(res.Tiles, t)
		}
	}
	res.Targets = occupants(w, res.Tiles)
	return res
}

// Diamond enumerates the tiles within Manhattan distance r of center,
// nearest first, walking every (dy, dx) split of each distance through the
// four sign quadrants. Tiles with a negative coordinate are dropped; the
// far map edge is left to the caller.
func Diamond(center types.Position, r int) []types.Position {
	seen := map[types.Position]bool{}
	var out []types.Position
	for d := 0; d <= r; d++ {
		for dy := 0; dy <= d; dy++ {
			dx := d - dy
			for _, s := range [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}} {
				p := types.Position{Y: center.Y + s[0]*dy, X: center.X + s[1]*dx}
				if p.Y < 0 || p.X < 0 || seen[p] {
					continue
				}
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	return out
}

// Cone projects a widening wedge along the actor's facing. Distances run
// from area.start (default 1) to floor(area.range + area.vitality_mod *
// vitality); the width at distance d is floor(area.width) +
// floor(area.width_mod * (d-1)).
func Cone(w *state.World, actor *state.Entity, a types.Ability, args []string) Result {
	area := Section(a.Effects, "area")
	width, ok := Number(area, "width")
	if !ok {
		width = 1
	}
	slope, _ := Number(area, "width_mod")
	return wedge(w, actor, a, args, width, slope)
}

func line(w *state.World, actor *state.Entity, a types.Ability, args []string) Result {
	return wedge(w, actor, a, args, 1, 0)
}

func wedge(w *state.World, actor *state.Entity, a types.Ability, args []string, width, slope float64) Result {
	area := Section(a.Effects, "area")
	end := scaled(actor, area, Reach(a))
	start := 1
	if s, ok := Number(area, "start"); ok {
		start = int(s)
	}

	dir, ok := facing(w, actor, a, args, end)
	if !ok {
		return Result{}
	}
	side := types.Position{Y: dir.X, X: dir.Y}

	var res Result
	for d := start; d <= end; d++ {
		wd := int(math.Floor(width)) + int(math.Floor(slope*float64(d-1)))
		if wd < 1 {
			continue
		}
		half := (wd - 1) / 2
		for o := -half; o <= half; o++ {
			p := types.Position{
				Y: actor.Pos.Y + dir.Y*d + side.Y*o,
				X: actor.Pos.X + dir.X*d + side.X*o,
			}
			if w.InBounds(p) {
				res.Tiles = append(res.Tiles, p)
			}
		}
	}
	res.Targets = occupants(w, res.Tiles)
	return res
}

// facing turns the chosen argument into a unit direction. A literal uses
// the sign of its offset on the dominant axis; a name faces the target
// along the dominant axis of the difference (ties go to y).
func facing(w *state.World, actor *state.Entity, a types.Ability, args []string, reach int) (types.Position, bool) {
	c := Choose(a, args)
	var delta types.Position
	switch {
	case c.Literal && c.HasOffset:
		delta = c.Offset
	case c.Named:
		q := resolve.Query{From: actor.Pos, Range: reach, Exclude: actor.ID}
		e := resolve.NameThenTrait(w, c.Arg, q)
		if e == nil {
			return types.Position{}, false
		}
		delta = types.Position{Y: e.Pos.Y - actor.Pos.Y, X: e.Pos.X - actor.Pos.X}
	default:
		return types.Position{}, false
	}
	if delta == (types.Position{}) {
		return types.Position{}, false
	}
	if abs(delta.Y) >= abs(delta.X) {
		return types.Position{Y: sign(delta.Y)}, true
	}
	return types.Position{X: sign(delta.X)}, true
}

// scaled computes floor(area.range + area.vitality_mod * vitality). Without
// an area block the fallback range is used.
func scaled(actor *state.Entity, area map[string]any, fallback int) int {
	base, ok := Number(area, "range")
	if !ok {
		base = float64(fallback)
	}
	mod, _ := Number(area, "vitality_mod")
	vit := 0
	if actor.Stats != nil {
		vit = actor.Stats.Vitality
	}
	return int(math.Floor(base + mod*float64(vit)))
}

// occupants gathers every entity on the tiles, each once, in tile order.
func occupants(w *state.World, tiles []types.Position) []*state.Entity {
	var out []*state.Entity
	seen := map[uint64]bool{}
	for _, t := range tiles {
		for _, e := range w.Occupants(t) {
			if !seen[e.ID] {
				seen[e.ID] = true
				out = append(out, e)
			}
		}
	}
	return out
}

func add(a, b types.Position) types.Position {
	return types.Position{Y: a.Y + b.Y, X: a.X + b.X}
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
