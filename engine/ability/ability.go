// Package ability decides which abilities an entity may use and binds
// them to it as handlers.
package ability

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/nathoo/olympos/engine/effects"
	"github.com/nathoo/olympos/engine/state"
	"github.com/nathoo/olympos/types"
)

// AttackAlias is the generic action name every attack is also bound under.
const AttackAlias = "attack"

// Allowed reports whether e satisfies a's constraints. No constraints
// means always; a leading "or" means any one of the rest; otherwise every
// listed trait is required. Prereqs are not checked.
func Allowed(a types.Ability, e *state.Entity) bool {
	cs := a.Constraints
	if len(cs) == 0 {
		return true
	}
	if cs[0] == "or" {
		for _, t := range cs[1:] {
			if e.HasTrait(t) {
				return true
			}
		}
		return false
	}
	return e.HasAllTraits(cs)
}

// Available lists the abilities e may use, in set order and then by name.
// A name defined by several sets is listed once.
func Available(defs *state.Defs, e *state.Entity) []string {
	var out []string
	for _, a := range available(defs, e) {
		out = append(out, a.Name)
	}
	return out
}

func available(defs *state.Defs, e *state.Entity) []types.Ability {
	var out []types.Ability
	seen := map[string]bool{}
	for _, set := range defs.AbilitySets {
		for _, name := range set.Order {
			a := set.Abilities[name]
			if seen[name] || !Allowed(a, e) {
				continue
			}
			seen[name] = true
			a.Name = name
			out = append(out, a)
		}
	}
	return out
}

// Binder builds handlers from the catalog.
type Binder struct {
	defs *state.Defs
	rng  effects.Rand
	log  logrus.FieldLogger
}

// NewBinder creates a binder. A nil logger discards diagnostics.
func NewBinder(defs *state.Defs, rng effects.Rand, log logrus.FieldLogger) *Binder {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Binder{defs: defs, rng: rng, log: log}
}

// Bind gives e a handler for every available ability it does not have yet
// and returns the names bound in this call. Attack abilities are also
// bound as "attack"; the last one bound takes the alias.
//
// Handlers are never removed: an ability that stops being available after
// a trait change stays bound.
func (b *Binder) Bind(e *state.Entity) []string {
	var bound []string
	for _, a := range available(b.defs, e) {
		name := a.Name
		if _, ok := e.Handlers[name]; ok {
			continue
		}
		h := effects.Build(a, e.ID, b.rng)
		e.Handlers[name] = h
		e.Details[name] = a
		bound = append(bound, name)

		if a.Type == types.AbilityAttack {
			e.Handlers[AttackAlias] = h
			e.Details[AttackAlias] = a
			bound = append(bound, AttackAlias)
		}
	}
	if len(bound) > 0 {
		b.log.WithFields(logrus.Fields{
			"entity": e.Name,
			"id":     e.ID,
			"bound":  strings.Join(bound, ","),
		}).Debug("abilities bound")
	}
	return bound
}

// Usage renders an ability's call pattern for help listings:
// "bite {north, south, <target>}" or "keep <target> range".
func Usage(a types.Ability) string {
	args := a.Arguments
	switch {
	case len(args) == 0:
		return a.Name
	case args[0] == "or":
		return a.Name + " {" + strings.Join(args[1:], ", ") + "}"
	default:
		return a.Name + " " + strings.Join(args, " ")
	}
}
