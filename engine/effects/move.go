package effects

import (
	"math"
	"strconv"

	"github.com/nathoo/olympos/engine/resolve"
	"github.com/nathoo/olympos/engine/state"
	"github.com/nathoo/olympos/engine/target"
	"github.com/nathoo/olympos/types"
)

// Conditional movement keys and their desired distances.
const (
	keyMinimize = "minimize distance"
	keyMaximize = "maximize distance"
	keyMaintain = "maintain distance"
)

// far is the desired distance of a retreat. Nothing is ever this far away.
const far = math.MaxInt32

func buildMove(a types.Ability, actorID uint64, rng Rand) state.Handler {
	if dist := target.Section(a.Effects, "distance"); dist != nil {
		if step, ok := target.Offset(a.Effects); ok {
			return func(w *state.World, _ []string) error {
				return linear(w, a, actorID, step)
			}
		}
		lo, okLo := target.Number(dist, "random_min")
		hi, okHi := target.Number(dist, "random_max")
		if okLo && okHi && hi >= lo {
			return func(w *state.World, _ []string) error {
				return linear(w, a, actorID, randomStep(rng, int(lo), int(hi)))
			}
		}
		return noop
	}

	if len(a.Arguments) > 0 && a.Arguments[0] == "or" {
		return func(w *state.World, args []string) error {
			c := target.Choose(a, args)
			if !c.Literal || !c.HasOffset {
				actor := w.Entity(actorID)
				if actor == nil {
					return nil
				}
				return fail(w, a, actor, c.Arg)
			}
			return linear(w, a, actorID, c.Offset)
		}
	}

	switch {
	case a.Effects[keyMinimize] != nil:
		return func(w *state.World, args []string) error {
			return approach(w, a, actorID, args, 0)
		}
	case a.Effects[keyMaximize] != nil:
		return func(w *state.World, args []string) error {
			return approach(w, a, actorID, args, far)
		}
	case a.Effects[keyMaintain] != nil:
		return func(w *state.World, args []string) error {
			if len(args) < 2 {
				return failActor(w, a, actorID, args)
			}
			desired, err := strconv.Atoi(args[1])
			if err != nil || desired < 0 {
				return failActor(w, a, actorID, args)
			}
			return approach(w, a, actorID, args, desired)
		}
	}
	return noop
}

// randomStep moves along y or x, chosen uniformly, by a magnitude in
// [lo, hi].
func randomStep(rng Rand, lo, hi int) types.Position {
	n := lo + rng.Intn(hi-lo+1)
	if rng.Intn(2) == 0 {
		return types.Position{Y: n}
	}
	return types.Position{X: n}
}

// linear takes a fixed step. Stamina is charged only when the step lands.
func linear(w *state.World, a types.Ability, actorID uint64, step types.Position) error {
	actor := w.Entity(actorID)
	if actor == nil {
		return nil
	}
	if !actor.HasStamina(a.Stamina) {
		return fail(w, a, actor, "")
	}
	dest := types.Position{Y: actor.Pos.Y + step.Y, X: actor.Pos.X + step.X}
	if !w.Move(actor, dest) {
		return fail(w, a, actor, "")
	}
	actor.SpendStamina(a.Stamina)
	return succeed(w, a, actor, "", actor.Pos)
}

// approach takes one straight-line step that brings the actor's Manhattan
// distance to the target closer to desired. Being at the desired distance
// already is not a failure; anything else that prevents the step is, and
// costs nothing.
func approach(w *state.World, a types.Ability, actorID uint64, args []string, desired int) error {
	actor := w.Entity(actorID)
	if actor == nil {
		return nil
	}
	c := target.Choose(a, args)
	if !actor.HasStamina(a.Stamina) || c.Arg == "" {
		return fail(w, a, actor, c.Arg)
	}

	detection := 0
	if actor.Stats != nil {
		detection = state.DetectionRange(actor.Stats)
	}
	q := resolve.Query{From: actor.Pos, Range: detection, Exclude: actor.ID}
	tgt := resolve.NameThenTrait(w, c.Arg, q)
	if tgt == nil {
		return fail(w, a, actor, c.Arg)
	}

	dist := resolve.Distance(actor.Pos, tgt.Pos)
	if dist == desired {
		return nil
	}
	for _, step := range candidateSteps(actor.Pos, tgt.Pos, dist < desired) {
		dest := types.Position{Y: actor.Pos.Y + step.Y, X: actor.Pos.X + step.X}
		if w.Move(actor, dest) {
			actor.SpendStamina(a.Stamina)
			return succeed(w, a, actor, Object(tgt), actor.Pos)
		}
	}
	return fail(w, a, actor, Object(tgt))
}

// candidateSteps lists the single steps worth trying, best first. The axis
// with the larger remaining delta comes first (ties go to y). Moving away
// on an axis where the two are aligned tries the positive direction first.
func candidateSteps(from, to types.Position, away bool) []types.Position {
	dy, dx := to.Y-from.Y, to.X-from.X
	axes := [2]bool{true, false} // true = y
	if abs(dx) > abs(dy) {
		axes = [2]bool{false, true}
	}

	var steps []types.Position
	for _, isY := range axes {
		delta := dx
		if isY {
			delta = dy
		}
		var signs []int
		switch {
		case !away && delta != 0:
			signs = []int{sign(delta)}
		case away && delta != 0:
			signs = []int{-sign(delta)}
		case away:
			signs = []int{1, -1}
		}
		for _, s := range signs {
			if isY {
				steps = append(steps, types.Position{Y: s})
			} else {
				steps = append(steps, types.Position{X: s})
			}
		}
	}
	return steps
}

func failActor(w *state.World, a types.Ability, actorID uint64, args []string) error {
	actor := w.Entity(actorID)
	if actor == nil {
		return nil
	}
	return fail(w, a, actor, argument(a, args))
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
