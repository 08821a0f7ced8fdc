package state

import "github.com/nathoo/olympos/types"

// Defs is the read-only catalog of ability and behavior sets. It is built
// once by the loader and shared by reference afterwards.
type Defs struct {
	AbilitySets []types.AbilitySet // sorted by name
	Behaviors   map[string]types.BehaviorSet
}

// Ability looks an ability up by name across all sets. The first set (in
// catalog order) that defines it wins.
func (d *Defs) Ability(name string) (types.Ability, bool) {
	for _, set := range d.AbilitySets {
		if a, ok := set.Abilities[name]; ok {
			return a, true
		}
	}
	return types.Ability{}, false
}

// Behavior returns the named behavior set.
func (d *Defs) Behavior(name string) (types.BehaviorSet, bool) {
	b, ok := d.Behaviors[name]
	return b, ok
}
