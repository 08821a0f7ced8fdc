package effects

import (
	"fmt"
	"slices"
	"sort"

	"github.com/nathoo/olympos/engine/state"
	"github.com/nathoo/olympos/engine/target"
	"github.com/nathoo/olympos/types"
)

// MarkArea tints the tiles covered by an area ability.
const MarkArea = "area"

// buildInformation reveals attributes of every target. Stamina is paid
// once when anything was found.
func buildInformation(a types.Ability, actorID uint64) state.Handler {
	fields := target.Strings(a.Effects, "information")
	return func(w *state.World, args []string) error {
		actor := w.Entity(actorID)
		if actor == nil {
			return nil
		}
		if !actor.HasStamina(a.Stamina) {
			return fail(w, a, actor, argument(a, args))
		}

		res := target.Resolve(w, actor, a, args)
		if a.Area != types.AreaSingle && a.Area != "" {
			for _, t := range res.Tiles {
				w.Mark(t, MarkArea)
			}
		}
		found := others(res.Targets, actor)
		if len(found) == 0 {
			return fail(w, a, actor, argument(a, args))
		}

		actor.SpendStamina(a.Stamina)
		for _, tgt := range found {
			if err := succeed(w, a, actor, Object(tgt), tgt.Pos); err != nil {
				return err
			}
			w.LogInformation(InfoBlock(tgt, fields))
		}
		return nil
	}
}

// InfoBlock renders the requested attributes of e, one "key: value" per
// line, after a header line with its name. Fields e does not have are
// skipped, so an empty list yields the name alone.
func InfoBlock(e *state.Entity, fields []string) []string {
	desc := e.Describe()
	block := []string{e.Name}
	for _, f := range fields {
		if v, ok := desc[f]; ok {
			block = append(block, fmt.Sprintf("%s: %s", f, v))
		}
	}
	return block
}

// FullInfo is InfoBlock over every attribute e has, sorted by key.
func FullInfo(e *state.Entity) []string {
	desc := e.Describe()
	fields := make([]string, 0, len(desc))
	for k := range desc {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return InfoBlock(e, fields)
}

// buildEquip moves items from the grid into the actor's slots.
func buildEquip(a types.Ability, actorID uint64) state.Handler {
	return func(w *state.World, args []string) error {
		actor := w.Entity(actorID)
		if actor == nil {
			return nil
		}
		if !actor.HasStamina(a.Stamina) {
			return fail(w, a, actor, argument(a, args))
		}

		var items []*state.Entity
		for _, e := range others(target.Resolve(w, actor, a, args).Targets, actor) {
			if e.HasTrait("item") {
				items = append(items, e)
			}
		}
		if len(items) == 0 {
			return fail(w, a, actor, argument(a, args))
		}

		explicit := ""
		if len(args) > 1 {
			explicit = args[1]
		}
		equipped := 0
		for _, item := range items {
			i := pickSlot(actor.Slots, item, explicit)
			if i < 0 {
				if err := fail(w, a, actor, item.Name); err != nil {
					return err
				}
				continue
			}
			w.Remove(item.ID)
			displaced := actor.Slots[i].Item
			actor.Slots[i].Item = item
			if displaced != nil {
				if err := w.Place(displaced, actor.Pos); err != nil {
					return err
				}
			}
			if err := succeed(w, a, actor, item.Name, actor.Pos); err != nil {
				return err
			}
			equipped++
		}
		if equipped > 0 {
			actor.SpendStamina(a.Stamina)
		}
		return nil
	}
}

// pickSlot returns the slot an item goes into, or -1. A named slot must fit
// the item; otherwise the first fitting empty slot wins, then the first
// fitting occupied one.
func pickSlot(slots []state.Slot, item *state.Entity, name string) int {
	if name != "" {
		for i, s := range slots {
			if s.Name == name && fits(s, item) {
				return i
			}
		}
		return -1
	}
	occupied := -1
	for i, s := range slots {
		if !fits(s, item) {
			continue
		}
		if s.Item == nil {
			return i
		}
		if occupied < 0 {
			occupied = i
		}
	}
	return occupied
}

// fits reports whether the slot accepts the item. A slot without
// restrictions accepts anything.
func fits(s state.Slot, item *state.Entity) bool {
	if len(s.Accepts) == 0 {
		return true
	}
	return slices.ContainsFunc(s.Accepts, item.HasTrait)
}

func others(es []*state.Entity, self *state.Entity) []*state.Entity {
	var out []*state.Entity
	for _, e := range es {
		if e.ID != self.ID {
			out = append(out, e)
		}
	}
	return out
}
