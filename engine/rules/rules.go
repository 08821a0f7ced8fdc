package rules

import (
	"github.com/nathoo/olympos/engine/command"
	"github.com/nathoo/olympos/engine/resolve"
	"github.com/nathoo/olympos/engine/state"
	"github.com/nathoo/olympos/types"
)

// Evaluate runs e's behavior set and queues the commands of every rule
// that holds, addressed to e by identity. Rules are checked in order and
// several may fire; an else rule fires only when nothing before it did.
// It returns the number of rules that fired.
func Evaluate(defs *state.Defs, w *state.World, q *command.Queue, e *state.Entity) int {
	set, ok := defs.Behavior(e.BehaviorSet)
	if !ok {
		return 0
	}

	fired := 0
	for _, rule := range set.Rules {
		if !Holds(rule.When, w, e, fired > 0) {
			continue
		}
		fired++
		for _, action := range rule.Actions {
			q.EnqueueByEntity(e, action)
		}
	}
	return fired
}

// EvaluateAll runs Evaluate for every entity with a known behavior set, in
// world order. It returns how many entities were evaluated.
func EvaluateAll(defs *state.Defs, w *state.World, q *command.Queue) int {
	n := 0
	for _, e := range w.Entities() {
		if e.BehaviorSet == types.NoBehavior {
			continue
		}
		if _, ok := defs.Behavior(e.BehaviorSet); !ok {
			continue
		}
		Evaluate(defs, w, q, e)
		n++
	}
	return n
}

// Holds evaluates one condition for e. anyFired reports whether an earlier
// rule of the same pass fired. Entities without stats sense nothing and
// have no health to compare.
func Holds(c types.Condition, w *state.World, e *state.Entity, anyFired bool) bool {
	switch c.Kind {
	case types.CondElse:
		return !anyFired

	case types.CondHealthPercent:
		if e.Stats == nil {
			return false
		}
		maxHP := state.MaxHealth(e.Stats)
		if maxHP <= 0 {
			return false
		}
		pct := float64(e.Stats.Health) / float64(maxHP) * 100
		return Compare(c.Op, pct, c.Value)

	case types.CondDistance:
		if e.Stats == nil {
			return false
		}
		limit := min(int(c.Value), state.DetectionRange(e.Stats))
		target := search(w, e, c.Key, limit)
		if target == nil {
			return false
		}
		return Compare(c.Op, float64(resolve.Distance(e.Pos, target.Pos)), float64(limit))

	case types.CondSense:
		return sense(w, e, c.Key) != nil

	default:
		return false
	}
}

// sense finds key, as a trait first and then as a name, within e's
// detection range.
func sense(w *state.World, e *state.Entity, key string) *state.Entity {
	if e.Stats == nil {
		return nil
	}
	return search(w, e, key, state.DetectionRange(e.Stats))
}

// search finds key, as a trait first and then as a name, within rng of e.
func search(w *state.World, e *state.Entity, key string, rng int) *state.Entity {
	q := resolve.Query{From: e.Pos, Range: rng, Exclude: e.ID}
	return resolve.TraitThenName(w, key, q)
}
